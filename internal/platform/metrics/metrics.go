// Package metrics exposes Prometheus metrics for the dashboard server.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stock_dashboard/internal/feature/candles/domain"
	"stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/candles/usecase"
)

// Cache lookup results.
const (
	CacheHit     = "hit"
	CacheMiss    = "miss"
	CacheCorrupt = "corrupt"
	CacheError   = "error"
)

// Metrics holds all Prometheus collectors of the server on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	CacheLookups     *prometheus.CounterVec
	ProviderRequests *prometheus.CounterVec
	ProviderDuration *prometheus.HistogramVec
}

// New registers and returns all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "HTTP requests served, by route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_cache_lookups_total",
			Help: "Price history cache lookups (hit, miss, corrupt, error)",
		}, []string{"result"}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_provider_requests_total",
			Help: "Market data provider calls (ok, not_found, error)",
		}, []string{"provider", "outcome"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_provider_request_duration_seconds",
			Help:    "Market data provider latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.CacheLookups,
		m.ProviderRequests,
		m.ProviderDuration,
	)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware counts every request by its route pattern, not the raw path,
// so /candles/AAPL and /candles/MSFT share a series.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// ObserveCache records one cache lookup result.
func (m *Metrics) ObserveCache(result string) {
	m.CacheLookups.WithLabelValues(result).Inc()
}

// InstrumentMarket wraps inner so every provider call is counted and timed.
func (m *Metrics) InstrumentMarket(provider string, inner usecase.MarketRepository) usecase.MarketRepository {
	return &instrumentedMarket{inner: inner, provider: provider, m: m}
}

type instrumentedMarket struct {
	inner    usecase.MarketRepository
	provider string
	m        *Metrics
}

func (i *instrumentedMarket) GetTimeSeries(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error) {
	began := time.Now()
	out, err := i.inner.GetTimeSeries(ctx, symbol, start, end)
	i.m.ProviderDuration.WithLabelValues(i.provider).Observe(time.Since(began).Seconds())

	outcome := "ok"
	switch {
	case errors.Is(err, domain.ErrSymbolNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	i.m.ProviderRequests.WithLabelValues(i.provider, outcome).Inc()
	return out, err
}
