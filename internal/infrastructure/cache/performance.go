package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	keyGeneration = "perf:generation"
	keyPrefix     = "perf:"

	DefaultTTL = 5 * time.Minute
)

// Performance caches computed performance results in Redis. Entries are
// namespaced by a generation counter; Invalidate bumps the counter so every
// older entry is unreachable and left to expire. A nil *Performance or one
// without a client does nothing.
type Performance struct {
	Rdb *redis.Client
	TTL time.Duration
}

func (c *Performance) enabled() bool {
	return c != nil && c.Rdb != nil
}

// Key builds the cache key for a date range under the current generation.
func (c *Performance) Key(ctx context.Context, start, end string) (string, error) {
	if !c.enabled() {
		return "", nil
	}
	gen, err := c.Rdb.Get(ctx, keyGeneration).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("read cache generation: %w", err)
	}
	return fmt.Sprintf("%s%d:%s:%s", keyPrefix, gen, start, end), nil
}

// Get decodes the entry at key into dst. It reports false on a miss.
func (c *Performance) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	if !c.enabled() || key == "" {
		return false, nil
	}
	b, err := c.Rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := msgpack.Unmarshal(b, dst); err != nil {
		return false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	return true, nil
}

// Set stores v at key for the configured TTL.
func (c *Performance) Set(ctx context.Context, key string, v interface{}) error {
	if !c.enabled() || key == "" {
		return nil
	}
	b, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}
	ttl := c.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return c.Rdb.Set(ctx, key, b, ttl).Err()
}

// Invalidate drops every cached result.
func (c *Performance) Invalidate(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	return c.Rdb.Incr(ctx, keyGeneration).Err()
}
