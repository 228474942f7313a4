// file: repository/secure_store_test.go

package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEncryptionKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestNewSecureStore_InvalidKey(t *testing.T) {
	for _, key := range []string{"", "not-hex", "0011"} {
		_, err := NewSecureStore(newMemoryStore(), key)
		assert.ErrorIs(t, err, ErrInvalidEncryptionKey, key)
	}
}

func TestSecureStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	inner := newMemoryStore()
	store, err := NewSecureStore(inner, testEncryptionKey)
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "authToken", "abc"))

	sealed, ok, _ := inner.Get(ctx, "authToken")
	require.True(t, ok)
	assert.NotContains(t, sealed, "abc")

	value, ok, err := store.Get(ctx, "authToken")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", value)

	require.NoError(t, store.Delete(ctx, "authToken"))
	_, ok, err = store.Get(ctx, "authToken")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestSecureStore_CorruptedValue(t *testing.T) {
	ctx := context.Background()
	inner := newMemoryStore()
	store, err := NewSecureStore(inner, testEncryptionKey)
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "authToken", "abc"))
	sealed, _, _ := inner.Get(ctx, "authToken")
	tampered := strings.Repeat("A", len(sealed))
	require.NoError(t, inner.Set(ctx, "authToken", tampered))

	_, ok, err := store.Get(ctx, "authToken")
	assert.ErrorIs(t, err, ErrCorruptedValue)
	assert.False(t, ok)

	require.NoError(t, inner.Set(ctx, "authToken", "%%%not base64"))
	_, _, err = store.Get(ctx, "authToken")
	assert.ErrorIs(t, err, ErrCorruptedValue)

	repo := NewTokenRepository(store, "authToken")
	assert.False(t, repo.IsAuthenticated(ctx), "corrupted storage reads as logged out")
}
