// file: repository/kv_store.go

package repository

import (
	"context"
	"errors"
	"fmt"
)

// KeyValueStore is the durable storage the token store persists into.
// Get reports ok=false, with a nil error, for a key that was never set.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// ErrEmptyToken is returned when asked to persist an empty credential.
var ErrEmptyToken = errors.New("token must not be empty")

// StorageReadError reports that the backing store could not be read.
type StorageReadError struct {
	Key string
	Err error
}

func (e *StorageReadError) Error() string {
	return fmt.Sprintf("storage read %q: %v", e.Key, e.Err)
}

func (e *StorageReadError) Unwrap() error { return e.Err }

// StorageWriteError reports that a set or delete did not reach the backing store.
type StorageWriteError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageWriteError) Unwrap() error { return e.Err }
