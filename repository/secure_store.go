// file: repository/secure_store.go

package repository

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

var (
	ErrInvalidEncryptionKey = errors.New("encryption key must be 32 bytes hex encoded")
	ErrCorruptedValue       = errors.New("stored value cannot be decrypted")
)

// SecureStore encrypts values with NaCl secretbox before handing them to
// the wrapped store. Keys are stored in the clear.
type SecureStore struct {
	inner KeyValueStore
	key   [32]byte
}

// NewSecureStore wraps inner using a 32-byte key given as 64 hex characters.
func NewSecureStore(inner KeyValueStore, hexKey string) (*SecureStore, error) {
	raw, err := hex.DecodeString(hexKey)
	if err != nil || len(raw) != 32 {
		return nil, ErrInvalidEncryptionKey
	}
	s := &SecureStore{inner: inner}
	copy(s.key[:], raw)
	return s, nil
}

func (s *SecureStore) Get(ctx context.Context, key string) (string, bool, error) {
	sealed, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}

	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", false, ErrCorruptedValue
	}

	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", false, ErrCorruptedValue
	}
	return string(plain), true, nil
}

func (s *SecureStore) Set(ctx context.Context, key, value string) error {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return fmt.Errorf("could not generate nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], []byte(value), &nonce, &s.key)
	return s.inner.Set(ctx, key, base64.StdEncoding.EncodeToString(sealed))
}

func (s *SecureStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}
