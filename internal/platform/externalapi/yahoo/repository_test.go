package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_dashboard/internal/feature/candles/domain"
)

// 2024-01-02 14:30 UTC and 2024-01-03 14:30 UTC (NYSE open), 2024-01-04 14:30 UTC
const chartBody = `{
	"chart": {
		"result": [{
			"meta": {"symbol": "AAPL", "currency": "USD", "gmtoffset": -18000, "timezone": "EST"},
			"timestamp": [1704292200, 1704205800, 1704378600],
			"indicators": {
				"quote": [{
					"open":   [184.22, 187.15, null],
					"high":   [185.88, 188.44, null],
					"low":    [183.43, 183.89, null],
					"close":  [184.25, 185.64, null],
					"volume": [58414500, 82488700, null]
				}]
			}
		}],
		"error": null
	}
}`

var (
	jan1 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	jan5 = time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
)

type stubLimiter struct {
	calls int
	err   error
}

func (s *stubLimiter) Wait(ctx context.Context) error {
	s.calls++
	return s.err
}

func TestNewYahooMarket_Defaults(t *testing.T) {
	t.Parallel()

	market := NewYahooMarket(Config{}, &http.Client{}, nil)

	assert.Equal(t, DefaultBaseURL, market.cfg.BaseURL)
	assert.NotEmpty(t, market.cfg.UserAgent)
	assert.Equal(t, "^GSPC", market.yahooSymbol("SPX500"))
	assert.Equal(t, "AAPL", market.yahooSymbol("AAPL"))
}

func TestYahooMarket_GetTimeSeries_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify request parameters
		assert.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		assert.Equal(t, "1704067200", r.URL.Query().Get("period1"))
		assert.Equal(t, "1704499200", r.URL.Query().Get("period2"), "period2 should be the day after end")
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chartBody))
	}))
	defer server.Close()

	limiter := &stubLimiter{}
	market := NewYahooMarket(Config{BaseURL: server.URL}, server.Client(), limiter)

	candles, err := market.GetTimeSeries(context.Background(), "AAPL", jan1, jan5)
	require.NoError(t, err)
	assert.Equal(t, 1, limiter.calls)

	// null bar is skipped, rows are sorted ascending
	require.Len(t, candles, 2)
	assert.Equal(t, "2024-01-02", candles[0].Date())
	assert.Equal(t, "2024-01-03", candles[1].Date())
	assert.Equal(t, 187.15, candles[0].Open)
	assert.Equal(t, 185.64, candles[0].Close)
	assert.Equal(t, int64(82488700), candles[0].Volume)
	assert.Equal(t, "AAPL", candles[0].Symbol)
	assert.Equal(t, 0, candles[0].Time.Hour())
}

func TestYahooMarket_GetTimeSeries_SymbolAlias(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/^GSPC", r.URL.Path)
		_, _ = w.Write([]byte(chartBody))
	}))
	defer server.Close()

	market := NewYahooMarket(Config{BaseURL: server.URL}, server.Client(), nil)

	candles, err := market.GetTimeSeries(context.Background(), "SPX500", jan1, jan5)
	require.NoError(t, err)
	assert.Len(t, candles, 2)
}

func TestYahooMarket_GetTimeSeries_FiltersInclusiveRange(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chartBody))
	}))
	defer server.Close()

	market := NewYahooMarket(Config{BaseURL: server.URL}, server.Client(), nil)
	day := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	candles, err := market.GetTimeSeries(context.Background(), "AAPL", day, day)
	require.NoError(t, err)
	require.Len(t, candles, 1)
	assert.Equal(t, "2024-01-03", candles[0].Date())
}

func TestYahooMarket_GetTimeSeries_NotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
		body       string
	}{
		{
			name:       "http 404",
			statusCode: http.StatusNotFound,
			body:       `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`,
		},
		{
			name:       "chart error with 200",
			statusCode: http.StatusOK,
			body:       `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`,
		},
		{
			name:       "empty result",
			statusCode: http.StatusOK,
			body:       `{"chart":{"result":[],"error":null}}`,
		},
		{
			name:       "no rows in range",
			statusCode: http.StatusOK,
			body:       `{"chart":{"result":[{"meta":{"gmtoffset":-18000},"timestamp":[],"indicators":{"quote":[{}]}}],"error":null}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			market := NewYahooMarket(Config{BaseURL: server.URL}, server.Client(), nil)

			_, err := market.GetTimeSeries(context.Background(), "ZZZZ", jan1, jan5)
			assert.ErrorIs(t, err, domain.ErrSymbolNotFound)
		})
	}
}

func TestYahooMarket_GetTimeSeries_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
		body       string
		wantMsg    string
	}{
		{name: "rate limited", statusCode: http.StatusTooManyRequests, body: "Too Many Requests", wantMsg: "yahoo http 429"},
		{name: "server error", statusCode: http.StatusInternalServerError, wantMsg: "yahoo http 500"},
		{name: "invalid json", statusCode: http.StatusOK, body: `{invalid json`, wantMsg: "yahoo decode"},
		{name: "api error", statusCode: http.StatusOK, body: `{"chart":{"result":null,"error":{"code":"Bad Request","description":"Invalid input"}}}`, wantMsg: "Invalid input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			market := NewYahooMarket(Config{BaseURL: server.URL}, server.Client(), nil)

			_, err := market.GetTimeSeries(context.Background(), "AAPL", jan1, jan5)
			require.Error(t, err)
			assert.NotErrorIs(t, err, domain.ErrSymbolNotFound)
			assert.True(t, strings.Contains(err.Error(), tt.wantMsg), "got %v", err)
		})
	}
}

func TestYahooMarket_GetTimeSeries_LimiterError(t *testing.T) {
	t.Parallel()

	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	limiter := &stubLimiter{err: context.Canceled}
	market := NewYahooMarket(Config{BaseURL: server.URL}, server.Client(), limiter)

	_, err := market.GetTimeSeries(context.Background(), "AAPL", jan1, jan5)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, called, "request should not be sent when the limiter refuses")
}

func TestToCandles_DedupesSameDate(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// daily bar at open plus a live row later the same day
		_, _ = w.Write([]byte(`{"chart":{"result":[{
			"meta":{"gmtoffset":-18000},
			"timestamp":[1704205800, 1704222000],
			"indicators":{"quote":[{
				"open":[187.15, 187.15],"high":[188.44, 189.00],"low":[183.89, 183.89],
				"close":[185.64, 186.10],"volume":[1000, 2000]
			}]}
		}],"error":null}}`))
	}))
	defer server.Close()

	market := NewYahooMarket(Config{BaseURL: server.URL}, server.Client(), nil)

	candles, err := market.GetTimeSeries(context.Background(), "AAPL", jan1, jan5)
	require.NoError(t, err)
	require.Len(t, candles, 1)
	assert.Equal(t, 186.10, candles[0].Close)
}
