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

	"stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/candles/usecase"
)

// DefaultNamespace prefixes every price history key.
const DefaultNamespace = "prices"

// CachingMarketRepository decorates a MarketRepository with a Redis read-through cache.
// Cache failures never fail a request; they are logged and the provider is called directly.
type CachingMarketRepository struct {
	inner     usecase.MarketRepository
	rdb       *redis.Client
	ttl       func() time.Duration
	namespace string
	observe   func(result string)
}

// NewCachingMarketRepository decorates inner with Redis caching.
// If ttl is 0, entries live until the next daily refresh (see TimeUntilNextRefresh).
// If namespace is empty, it uses "prices". A nil rdb disables caching.
func NewCachingMarketRepository(rdb *redis.Client, ttl time.Duration, inner usecase.MarketRepository, namespace string) *CachingMarketRepository {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	ttlFn := func() time.Duration { return ttl }
	if ttl <= 0 {
		ttlFn = TimeUntilNextRefresh
	}
	return &CachingMarketRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttlFn,
		namespace: namespace,
		observe:   func(string) {},
	}
}

// WithRefresh expires entries at the next hour:00 in loc instead of a fixed TTL.
func (c *CachingMarketRepository) WithRefresh(hour int, loc *time.Location) *CachingMarketRepository {
	c.ttl = func() time.Duration { return TimeUntilNext(time.Now(), hour, loc) }
	return c
}

// WithObserver reports the result of every cache lookup (hit, miss, corrupt, error) to fn.
func (c *CachingMarketRepository) WithObserver(fn func(result string)) *CachingMarketRepository {
	if fn != nil {
		c.observe = fn
	}
	return c
}

// GetTimeSeries returns the bars of symbol in [start, end], checking the cache first.
// Provider errors, including domain.ErrSymbolNotFound, and series that fail
// usecase.ValidateSeries are returned uncached.
func (c *CachingMarketRepository) GetTimeSeries(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.GetTimeSeries(ctx, symbol, start, end)
	}

	key := c.cacheKey(symbol, start, end)

	// 1) Check cache
	b, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil && len(b) > 0:
		var out []entity.Candle
		if err := json.Unmarshal(b, &out); err == nil {
			c.observe("hit")
			return out, nil
		}
		// Delete corrupted cache entry
		slog.Warn("dropping corrupted cache entry", "key", key)
		c.observe("corrupt")
		_ = c.rdb.Del(ctx, key).Err()
	case err != nil && !errors.Is(err, redis.Nil):
		slog.Warn("cache read failed", "key", key, "error", err)
		c.observe("error")
	default:
		c.observe("miss")
	}

	// 2) Fallback to provider
	out, err := c.inner.GetTimeSeries(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}

	// Malformed series are returned uncached; the usecase rejects them.
	if err := usecase.ValidateSeries(out); err != nil {
		slog.Warn("not caching invalid series", "key", key, "error", err)
		return out, nil
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl()).Err(); err != nil {
			slog.Warn("cache write failed", "key", key, "error", err)
		}
	}

	return out, nil
}

// Invalidate drops every cached range of symbol and returns the number of keys removed.
func (c *CachingMarketRepository) Invalidate(ctx context.Context, symbol string) (int, error) {
	if c.rdb == nil {
		return 0, nil
	}
	return c.deleteByPattern(ctx, c.cacheKeyPrefix(symbol)+"*")
}

// cacheKey generates a cache key for a specific query.
func (c *CachingMarketRepository) cacheKey(symbol string, start, end time.Time) string {
	return fmt.Sprintf("%s%s:%s",
		c.cacheKeyPrefix(symbol),
		start.Format(entity.DateLayout),
		end.Format(entity.DateLayout),
	)
}

// cacheKeyPrefix generates a prefix for invalidating related cache entries.
func (c *CachingMarketRepository) cacheKeyPrefix(symbol string) string {
	return fmt.Sprintf("%s:%s:", c.namespace, safe(usecase.NormalizeSymbol(symbol)))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingMarketRepository) deleteByPattern(ctx context.Context, pattern string) (int, error) {
	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			n, err := c.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, err
			}
			deleted += int(n)
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return deleted, nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	// Simple escaping of characters that are problematic for Redis keys
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	s = strings.ReplaceAll(s, "*", "_")
	return s
}
