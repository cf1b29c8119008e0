// Package di provides dependency injection factories for creating application components.
package di

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_dashboard/internal/feature/candles/usecase"
	"stock_dashboard/internal/platform/cache"
	"stock_dashboard/internal/platform/config"
	"stock_dashboard/internal/platform/externalapi/twelvedata"
	"stock_dashboard/internal/platform/externalapi/yahoo"
	infrahttp "stock_dashboard/internal/platform/http"
	"stock_dashboard/internal/platform/metrics"
	"stock_dashboard/internal/shared/ratelimiter"
)

// NewMarket creates the configured market data provider with HTTP client and rate limiter.
func NewMarket(cfg *config.Config) (usecase.MarketRepository, error) {
	httpClient := infrahttp.NewHTTPClient(cfg.Market.Timeout, cfg.Market.Proxy)
	limiter := ratelimiter.NewRateLimiter(cfg.Market.RateLimitPerMinute, time.Minute)

	switch cfg.Market.Provider {
	case "yahoo":
		return yahoo.NewYahooMarket(yahoo.Config{
			BaseURL:            cfg.Yahoo.BaseURL,
			Timeout:            cfg.Market.Timeout,
			RateLimitPerMinute: cfg.Market.RateLimitPerMinute,
			UserAgent:          cfg.Yahoo.UserAgent,
		}, httpClient, limiter), nil
	case "twelvedata":
		return twelvedata.NewTwelveDataMarket(twelvedata.Config{
			TwelveDataAPIKey:   cfg.TwelveData.APIKey,
			BaseURL:            cfg.TwelveData.BaseURL,
			Timeout:            cfg.Market.Timeout,
			RateLimitPerMinute: cfg.Market.RateLimitPerMinute,
		}, httpClient, limiter), nil
	default:
		return nil, fmt.Errorf("unknown market provider %q", cfg.Market.Provider)
	}
}

// NewCachedMarket wraps inner with the Redis read-through cache.
// A nil rdb yields a pass-through decorator. If m is non-nil, provider calls
// and cache lookups are recorded on it.
func NewCachedMarket(cfg *config.Config, rdb *redis.Client, inner usecase.MarketRepository, m *metrics.Metrics) *cache.CachingMarketRepository {
	if m != nil {
		inner = m.InstrumentMarket(cfg.Market.Provider, inner)
	}
	repo := cache.NewCachingMarketRepository(rdb, cfg.Cache.TTL, inner, cfg.Cache.Namespace)
	if m != nil {
		repo = repo.WithObserver(m.ObserveCache)
	}
	if cfg.Cache.TTL <= 0 {
		loc, err := time.LoadLocation(cfg.Cache.RefreshLocation)
		if err != nil {
			slog.Warn("invalid cache refresh location, using UTC", "location", cfg.Cache.RefreshLocation, "error", err)
			loc = time.UTC
		}
		repo = repo.WithRefresh(cfg.Cache.RefreshHour, loc)
	}
	return repo
}
