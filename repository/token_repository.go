// file: repository/token_repository.go

package repository

import (
	"context"
	"granite-core/logger"
)

// DefaultTokenKey is the storage key used when none is configured.
const DefaultTokenKey = "authToken"

// ITokenRepository defines the contract for the device auth token.
type ITokenRepository interface {
	Get(ctx context.Context) (string, bool)
	Save(ctx context.Context, token string) error
	Remove(ctx context.Context) error
	IsAuthenticated(ctx context.Context) bool
}

// TokenRepository persists one opaque token under a fixed key.
//
// Reads are best effort: a storage failure is logged and reported as
// "no token". Writes return a *StorageWriteError so callers do not treat a
// login as complete before it is persisted.
type TokenRepository struct {
	store KeyValueStore
	key   string
}

// NewTokenRepository creates a TokenRepository. An empty key falls back to DefaultTokenKey.
func NewTokenRepository(store KeyValueStore, key string) *TokenRepository {
	if key == "" {
		key = DefaultTokenKey
	}
	return &TokenRepository{store: store, key: key}
}

// Key returns the storage key the token lives under.
func (r *TokenRepository) Key() string {
	return r.key
}

// Get returns the stored token, or ok=false if none is stored or the store is unreadable.
func (r *TokenRepository) Get(ctx context.Context) (string, bool) {
	token, ok, err := r.store.Get(ctx, r.key)
	if err != nil {
		readErr := &StorageReadError{Key: r.key, Err: err}
		logger.Log.WithError(readErr).WithField("key", r.key).Error("Failed to read auth token, treating as absent")
		return "", false
	}
	if !ok {
		return "", false
	}
	return token, true
}

// Save overwrites the stored token.
func (r *TokenRepository) Save(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	if err := r.store.Set(ctx, r.key, token); err != nil {
		logger.Log.WithError(err).WithField("key", r.key).Error("Failed to save auth token")
		return &StorageWriteError{Op: "set", Key: r.key, Err: err}
	}
	logger.Log.WithField("key", r.key).Info("Auth token saved")
	return nil
}

// Remove deletes the stored token. Removing an absent token succeeds.
func (r *TokenRepository) Remove(ctx context.Context) error {
	if err := r.store.Delete(ctx, r.key); err != nil {
		logger.Log.WithError(err).WithField("key", r.key).Error("Failed to remove auth token")
		return &StorageWriteError{Op: "delete", Key: r.key, Err: err}
	}
	logger.Log.WithField("key", r.key).Info("Auth token removed")
	return nil
}

// IsAuthenticated reports whether a non-empty token is stored. It never fails.
func (r *TokenRepository) IsAuthenticated(ctx context.Context) bool {
	token, ok := r.Get(ctx)
	return ok && token != ""
}
