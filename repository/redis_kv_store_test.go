package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// mockRedisClient is a mock for IRedisClient.
type mockRedisClient struct{ mock.Mock }

func (m *mockRedisClient) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)
	return redis.NewStringResult(args.String(0), args.Error(1))
}

func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(ctx, key, value, expiration)
	return redis.NewStatusResult("OK", args.Error(0))
}

func (m *mockRedisClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	args := m.Called(ctx, keys)
	return redis.NewIntResult(int64(len(keys)), args.Error(0))
}

func TestRedisKVStore(t *testing.T) {
	ctx := context.Background()

	t.Run("get hit and miss", func(t *testing.T) {
		client := new(mockRedisClient)
		client.On("Get", ctx, "authToken").Return("abc", nil).Once()
		client.On("Get", ctx, "authToken").Return("", redis.Nil).Once()
		store := NewRedisKVStore(client)

		value, ok, err := store.Get(ctx, "authToken")
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "abc", value)

		_, ok, err = store.Get(ctx, "authToken")
		assert.NoError(t, err)
		assert.False(t, ok)
		client.AssertExpectations(t)
	})

	t.Run("set without expiry and delete", func(t *testing.T) {
		client := new(mockRedisClient)
		client.On("Set", ctx, "authToken", "abc", time.Duration(0)).Return(nil).Once()
		client.On("Del", ctx, []string{"authToken"}).Return(nil).Once()
		store := NewRedisKVStore(client)

		assert.NoError(t, store.Set(ctx, "authToken", "abc"))
		assert.NoError(t, store.Delete(ctx, "authToken"))
		client.AssertExpectations(t)
	})

	t.Run("errors are returned", func(t *testing.T) {
		boom := errors.New("connection refused")
		client := new(mockRedisClient)
		client.On("Get", ctx, "authToken").Return("", boom).Once()
		client.On("Set", ctx, "authToken", "abc", time.Duration(0)).Return(boom).Once()
		store := NewRedisKVStore(client)

		_, _, err := store.Get(ctx, "authToken")
		assert.ErrorIs(t, err, boom)
		assert.ErrorIs(t, store.Set(ctx, "authToken", "abc"), boom)
	})
}
