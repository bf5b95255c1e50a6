// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"tradedesk/internal/feature/marketdata/domain/entity"
	"tradedesk/internal/feature/marketdata/usecase"
	"tradedesk/internal/platform/metrics"
)

// DefaultTTL is how long a fetched price series is reused.
const DefaultTTL = 5 * time.Minute

// CachingMarketRepository decorates a MarketRepository with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying repository. Identical (symbol, range, interval)
// requests inside the TTL window are served from Redis, or from an
// in-process store when no Redis client is configured.
type CachingMarketRepository struct {
	inner     usecase.MarketRepository
	rdb       *redis.Client
	mem       *memoryStore
	ttl       time.Duration
	namespace string
	metrics   *metrics.Metrics
}

var (
	_ usecase.MarketRepository = (*CachingMarketRepository)(nil)
	_ usecase.Invalidator      = (*CachingMarketRepository)(nil)
)

// NewCachingMarketRepository decorates a MarketRepository with Redis caching.
// A nil rdb selects the in-process store.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "prices".
func NewCachingMarketRepository(rdb *redis.Client, ttl time.Duration, inner usecase.MarketRepository, namespace string, m *metrics.Metrics) *CachingMarketRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = "prices"
	}
	c := &CachingMarketRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		metrics:   m,
	}
	if rdb == nil {
		c.mem = newMemoryStore(defaultMaxEntries)
	}
	return c
}

// Fetch retrieves a price series, checking the cache first then falling back to the provider.
// Provider errors are never cached.
func (c *CachingMarketRepository) Fetch(ctx context.Context, symbol, rng, interval string) ([]entity.Candle, error) {
	key := c.cacheKey(symbol, rng, interval)
	if c.rdb == nil {
		return c.fetchMemory(ctx, key, symbol, rng, interval)
	}

	// 1) Check cache
	b, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil && len(b) > 0:
		var out []entity.Candle
		if err := json.Unmarshal(b, &out); err == nil {
			c.metrics.ObserveCache("hit")
			return out, nil
		}
		// Delete corrupted cache entry
		c.metrics.ObserveCache("corrupt")
		_ = c.rdb.Del(ctx, key).Err()
	case err != nil && !errors.Is(err, redis.Nil):
		c.metrics.ObserveCache("error")
		slog.Warn("price cache read failed", "key", key, "error", err)
	default:
		c.metrics.ObserveCache("miss")
	}

	// 2) Fallback to the provider
	out, err := c.inner.Fetch(ctx, symbol, rng, interval)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			slog.Warn("price cache write failed", "key", key, "error", err)
		}
	}

	return out, nil
}

func (c *CachingMarketRepository) fetchMemory(ctx context.Context, key, symbol, rng, interval string) ([]entity.Candle, error) {
	if out, ok := c.mem.get(key); ok {
		c.metrics.ObserveCache("hit")
		return out, nil
	}
	c.metrics.ObserveCache("miss")

	out, err := c.inner.Fetch(ctx, symbol, rng, interval)
	if err != nil {
		return nil, err
	}
	c.mem.set(key, out, c.ttl)
	return out, nil
}

// Invalidate drops every cached series of symbol regardless of range and interval.
func (c *CachingMarketRepository) Invalidate(ctx context.Context, symbol string) error {
	prefix := c.cacheKeyPrefix(symbol)
	if c.rdb == nil {
		c.mem.deletePrefix(prefix)
		return nil
	}
	return c.deleteByPattern(ctx, prefix+"*")
}

// cacheKey generates a cache key for a specific query.
func (c *CachingMarketRepository) cacheKey(symbol, rng, interval string) string {
	return fmt.Sprintf("%s:%s:%s:%s",
		c.namespace,
		safe(symbol),
		safe(rng),
		safe(interval),
	)
}

// cacheKeyPrefix generates a prefix for invalidating related cache entries.
func (c *CachingMarketRepository) cacheKeyPrefix(symbol string) string {
	return fmt.Sprintf("%s:%s:", c.namespace, safe(symbol))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingMarketRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys (and glob patterns).
func safe(s string) string {
	r := strings.NewReplacer(" ", "_", ":", "_", "*", "_", "?", "_", "[", "_", "]", "_")
	return r.Replace(s)
}
