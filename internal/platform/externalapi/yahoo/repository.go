package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"stock_dashboard/internal/feature/candles/domain"
	"stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/candles/usecase"
	"stock_dashboard/internal/platform/externalapi/yahoo/dto"
	"stock_dashboard/internal/shared/ratelimiter"
)

// YahooMarket はYahoo Finance チャートAPIから日足データを取得するMarketRepository実装です。
type YahooMarket struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.RateLimiterInterface
}

// YahooMarketがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*YahooMarket)(nil)

// NewYahooMarket は指定された設定とHTTPクライアントでYahooMarketの新しいインスタンスを生成します。
// limiter が nil の場合はリクエスト数を制限しません。
func NewYahooMarket(cfg Config, client *http.Client, limiter ratelimiter.RateLimiterInterface) *YahooMarket {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0"
	}
	if cfg.SymbolMap == nil {
		cfg.SymbolMap = DefaultSymbolMap()
	}
	return &YahooMarket{cfg: cfg, client: client, limiter: limiter}
}

func (y *YahooMarket) yahooSymbol(symbol string) string {
	if mapped, ok := y.cfg.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// GetTimeSeries はYahoo Finance APIから [start, end] の日足を取得し、
// 日付の昇順で domain.Candle のスライスとして返します。
// 未知のシンボルや該当期間にデータがない場合は domain.ErrSymbolNotFound を返します。
func (y *YahooMarket) GetTimeSeries(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error) {
	if y.limiter != nil {
		if err := y.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	start, end = entity.TruncateDate(start), entity.TruncateDate(end)

	// period2 は排他的なので終了日の翌日を指定
	q := url.Values{}
	q.Set("period1", strconv.FormatInt(start.Unix(), 10))
	q.Set("period2", strconv.FormatInt(end.AddDate(0, 0, 1).Unix(), 10))
	q.Set("interval", "1d")
	q.Set("events", "history")

	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", y.cfg.BaseURL, url.PathEscape(y.yahooSymbol(symbol)), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", y.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	res, err := y.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, domain.ErrSymbolNotFound)
	}
	if res.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("yahoo http %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var body dto.ChartResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}

	candles, err := toCandles(symbol, body)
	if err != nil {
		return nil, err
	}
	candles = filterRange(candles, start, end)
	if len(candles) == 0 {
		return nil, fmt.Errorf("yahoo %s %s..%s: %w", symbol, start.Format(entity.DateLayout), end.Format(entity.DateLayout), domain.ErrSymbolNotFound)
	}
	return candles, nil
}

// toCandles converts a chart response into ascending daily bars.
// Rows with a missing price (holidays, halted sessions) are skipped.
func toCandles(symbol string, body dto.ChartResponse) ([]entity.Candle, error) {
	if e := body.Chart.Error; e != nil {
		if strings.EqualFold(e.Code, "Not Found") {
			return nil, fmt.Errorf("yahoo %s: %s: %w", symbol, e.Description, domain.ErrSymbolNotFound)
		}
		return nil, fmt.Errorf("yahoo api error: %s: %s", e.Code, e.Description)
	}
	if len(body.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo %s: no result: %w", symbol, domain.ErrSymbolNotFound)
	}

	result := body.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return []entity.Candle{}, nil
	}
	quote := result.Indicators.Quote[0]
	offset := result.Meta.GMTOffset

	candles := make([]entity.Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o, okO := at(quote.Open, i)
		h, okH := at(quote.High, i)
		l, okL := at(quote.Low, i)
		c, okC := at(quote.Close, i)
		if !okO || !okH || !okL || !okC {
			continue // skip null bars
		}
		v, _ := at(quote.Volume, i)

		// 取引所のローカル日付に変換
		candles = append(candles, entity.Candle{
			Symbol: symbol,
			Time:   entity.TruncateDate(time.Unix(ts+offset, 0).UTC()),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: int64(v),
		})
	}

	sort.SliceStable(candles, func(i, j int) bool { return candles[i].Time.Before(candles[j].Time) })
	return dedupe(candles), nil
}

func at(xs []*float64, i int) (float64, bool) {
	if i >= len(xs) || xs[i] == nil {
		return 0, false
	}
	return *xs[i], true
}

// dedupe keeps the last bar of each date; Yahoo can append a live intraday row
// that shares the date of the final daily bar.
func dedupe(cs []entity.Candle) []entity.Candle {
	out := cs[:0]
	for _, c := range cs {
		if n := len(out); n > 0 && out[n-1].Time.Equal(c.Time) {
			out[n-1] = c
			continue
		}
		out = append(out, c)
	}
	return out
}

func filterRange(cs []entity.Candle, start, end time.Time) []entity.Candle {
	out := make([]entity.Candle, 0, len(cs))
	for _, c := range cs {
		if c.Time.Before(start) || c.Time.After(end) {
			continue
		}
		out = append(out, c)
	}
	return out
}
