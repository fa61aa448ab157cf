// cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/CreativeUnicorns/viewerprefs"
)

// redisClient is the subset of *redis.Client RedisCache needs.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

// RedisCache implements viewerprefs.Cache on Redis so every server process
// sees the same mirrored duration filters.
type RedisCache struct {
	client redisClient
	prefix string
}

// NewRedisCache connects to addr and verifies the connection with PING.
// keyPrefix namespaces every key, e.g. "viewerprefs:".
func NewRedisCache(addr, password string, db int, keyPrefix string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: failed to connect to redis: %v", viewerprefs.ErrCacheUnavailable, err)
	}

	return &RedisCache{client: client, prefix: keyPrefix}, nil
}

// Get returns the stored bytes, or viewerprefs.ErrNotFound.
func (c *RedisCache) Get(ctx context.Context, key string) (interface{}, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, viewerprefs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get from redis: %v", viewerprefs.ErrCacheUnavailable, err)
	}
	return data, nil
}

// Set stores []byte and string values as-is and JSON-encodes anything else.
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	var payload interface{}
	switch v := value.(type) {
	case []byte, string:
		payload = v
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("%w: failed to marshal value: %v", viewerprefs.ErrSerialization, err)
		}
		payload = data
	}

	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, c.prefix+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("%w: failed to set in redis: %v", viewerprefs.ErrCacheUnavailable, err)
	}
	return nil
}

// Delete removes a key.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return fmt.Errorf("%w: failed to delete from redis: %v", viewerprefs.ErrCacheUnavailable, err)
	}
	return nil
}

// Close closes the Redis client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
