// file: service/cache.go

package service

import (
	"context"
	"encoding/json"
	"errors"
	"granite-core/logger"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// ICacheClient defines the contract for a cache client.
// *redis.Client satisfies it; tests substitute a mock.
type ICacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// QueryKey identifies a cached query result, e.g. (transactions, recent).
// Equal tuples always produce the same cache key.
type QueryKey []string

func (k QueryKey) String() string {
	return "query:" + strings.Join(k, ":")
}

// HasPrefix reports whether k starts with every element of prefix.
func (k QueryKey) HasPrefix(prefix QueryKey) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

// QueryCache is a cache-aside layer over Redis. Concurrent fetches of the
// same key share one call. A nil client disables caching but keeps the
// deduplication. Cache failures never fail a query.
type QueryCache struct {
	client ICacheClient
	ttl    time.Duration
	group  singleflight.Group

	mu      sync.Mutex
	written map[string]QueryKey
}

func NewQueryCache(client ICacheClient, ttl time.Duration) *QueryCache {
	return &QueryCache{client: client, ttl: ttl, written: make(map[string]QueryKey)}
}

// Fetch returns the cached value for key or calls fetch and caches its result.
// Fetch errors are returned unchanged and never cached.
func Fetch[T any](ctx context.Context, c *QueryCache, key QueryKey, fetch func(context.Context) (T, error)) (T, error) {
	cacheKey := key.String()
	log := logger.Log.WithField("query_key", cacheKey)

	v, err, shared := c.group.Do(cacheKey, func() (interface{}, error) {
		// Joined callers must not inherit the first caller's cancellation.
		ctx := context.WithoutCancel(ctx)
		if cached, ok := lookup[T](ctx, c, cacheKey); ok {
			log.Debug("Query cache hit")
			return cached, nil
		}

		result, err := fetch(ctx)
		if err != nil {
			return result, err
		}
		c.store(ctx, key, result)
		return result, nil
	})
	if shared {
		log.Debug("Joined in-flight query")
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func lookup[T any](ctx context.Context, c *QueryCache, cacheKey string) (T, bool) {
	var out T
	if c.client == nil {
		return out, false
	}
	raw, err := c.client.Get(ctx, cacheKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.WithError(err).WithField("query_key", cacheKey).Warn("Query cache read failed, fetching directly")
		}
		return out, false
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		logger.Log.WithError(err).WithField("query_key", cacheKey).Warn("Discarding undecodable cache entry")
		return out, false
	}
	return out, true
}

func (c *QueryCache) store(ctx context.Context, key QueryKey, value interface{}) {
	if c.client == nil {
		return
	}
	cacheKey := key.String()
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey, data, c.ttl).Err(); err != nil {
		logger.Log.WithError(err).WithField("query_key", cacheKey).Warn("Query cache write failed")
		return
	}
	c.mu.Lock()
	c.written[cacheKey] = key
	c.mu.Unlock()
}

// Invalidate deletes every cached entry under prefix that this cache wrote.
func (c *QueryCache) Invalidate(ctx context.Context, prefix QueryKey) {
	if c == nil || c.client == nil {
		return
	}

	c.mu.Lock()
	var keys []string
	for cacheKey, key := range c.written {
		if key.HasPrefix(prefix) {
			keys = append(keys, cacheKey)
			delete(c.written, cacheKey)
		}
	}
	c.mu.Unlock()

	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Log.WithError(err).WithField("prefix", prefix.String()).Warn("Query cache invalidation failed")
		return
	}
	logger.Log.WithField("prefix", prefix.String()).WithField("count", len(keys)).Info("Query cache invalidated")
}
