package twelvedata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"stock_dashboard/internal/feature/candles/domain"
	"stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/candles/usecase"
	"stock_dashboard/internal/platform/externalapi/twelvedata/dto"
	"stock_dashboard/internal/shared/ratelimiter"
)

// maxOutputSize is the largest page the time_series endpoint returns.
const maxOutputSize = 5000

// TwelveDataMarket はTwelve Data外部APIから株価データを取得するMarketRepository実装です。
type TwelveDataMarket struct {
	cfg      Config
	client   *http.Client
	limiter  ratelimiter.RateLimiterInterface
	pageSize int
}

// TwelveDataMarketがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*TwelveDataMarket)(nil)

// NewTwelveDataMarket は指定された設定とHTTPクライアントでTwelveDataMarketの新しいインスタンスを生成します。
// limiter が nil の場合はリクエスト数を制限しません。
func NewTwelveDataMarket(cfg Config, client *http.Client, limiter ratelimiter.RateLimiterInterface) *TwelveDataMarket {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &TwelveDataMarket{cfg: cfg, client: client, limiter: limiter, pageSize: maxOutputSize}
}

// GetTimeSeries はTwelve Data APIから [start, end] の日足を取得し、
// 日付の昇順で domain.Candle のスライスとして返します。
//
// 1リクエストは直近 pageSize 件までしか返らないため、満杯のページが返った場合は
// 最古の日付の手前を end_date にして次のページを取得します。
func (t *TwelveDataMarket) GetTimeSeries(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error) {
	start, end = entity.TruncateDate(start), entity.TruncateDate(end)

	byDate := make(map[time.Time]entity.Candle)
	// end_date は排他的なので翌日を指定
	pageEnd := end.AddDate(0, 0, 1)
	for {
		values, err := t.fetchPage(ctx, symbol, start, pageEnd)
		if err != nil {
			// 2ページ目以降の「データなし」は上場日より前に達したことを意味する
			if len(byDate) > 0 && errors.Is(err, domain.ErrSymbolNotFound) {
				break
			}
			return nil, err
		}

		earliest := pageEnd
		for _, v := range values {
			c, err := toCandle(symbol, v)
			if err != nil {
				return nil, err
			}
			if c.Time.Before(earliest) {
				earliest = c.Time
			}
			if c.Time.Before(start) || c.Time.After(end) {
				continue
			}
			byDate[c.Time] = c
		}

		if len(values) < t.pageSize || !earliest.After(start) || !earliest.Before(pageEnd) {
			break
		}
		pageEnd = earliest
	}

	if len(byDate) == 0 {
		return nil, fmt.Errorf("twelvedata %s: no rows in range: %w", symbol, domain.ErrSymbolNotFound)
	}

	candles := make([]entity.Candle, 0, len(byDate))
	for _, c := range byDate {
		candles = append(candles, c)
	}
	sort.Slice(candles, func(i, j int) bool { return candles[i].Time.Before(candles[j].Time) })
	return candles, nil
}

// fetchPage は [start, endExclusive) の日足を最大 pageSize 件取得します。
func (t *TwelveDataMarket) fetchPage(ctx context.Context, symbol string, start, endExclusive time.Time) ([]dto.Value, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", "1day")
	q.Set("start_date", start.Format(entity.DateLayout))
	q.Set("end_date", endExclusive.Format(entity.DateLayout))
	q.Set("outputsize", strconv.Itoa(t.pageSize))
	q.Set("order", "ASC")
	q.Set("apikey", t.cfg.TwelveDataAPIKey)

	// URLを生成
	u := fmt.Sprintf("%s/time_series?%s", t.cfg.BaseURL, q.Encode())

	// リクエストオブジェクトを作成
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	// リクエストを実行
	res, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("twelvedata %s: %w", symbol, domain.ErrSymbolNotFound)
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("twelvedata http %d", res.StatusCode)
	}

	// JSONレスポンスをDTOにデコード
	var body dto.TimeSeriesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Status == "error" {
		// 400 は「指定期間にデータなし」、404 は未知のシンボル
		if body.Code == http.StatusBadRequest || body.Code == http.StatusNotFound {
			return nil, fmt.Errorf("twelvedata %s: %s: %w", symbol, body.Message, domain.ErrSymbolNotFound)
		}
		return nil, fmt.Errorf("twelvedata: %s", body.Message)
	}
	return body.Values, nil
}

// toCandle はAPIの1行をドメインエンティティに変換します。
func toCandle(symbol string, v dto.Value) (entity.Candle, error) {
	// タイムスタンプをパース
	tm, err := time.Parse("2006-01-02 15:04:05", v.Datetime)
	if err != nil {
		tm, err = time.Parse(entity.DateLayout, v.Datetime)
		if err != nil {
			return entity.Candle{}, fmt.Errorf("parse time %q: %w", v.Datetime, err)
		}
	}

	prices := make([]float64, 4)
	for i, f := range []struct {
		name, raw string
	}{
		{"open", v.Open},
		{"high", v.High},
		{"low", v.Low},
		{"close", v.Close},
	} {
		d, err := decimal.NewFromString(strings.TrimSpace(f.raw))
		if err != nil {
			return entity.Candle{}, fmt.Errorf("parse %s %q: %w", f.name, f.raw, err)
		}
		prices[i] = d.InexactFloat64()
	}

	// 出来高をパース（指数には出来高がない）
	var vol int64
	if v.Volume != "" {
		vol, err = strconv.ParseInt(v.Volume, 10, 64)
		if err != nil {
			return entity.Candle{}, fmt.Errorf("parse volume %q: %w", v.Volume, err)
		}
	}

	return entity.Candle{
		Symbol: symbol,
		Time:   entity.TruncateDate(tm),
		Open:   prices[0],
		High:   prices[1],
		Low:    prices[2],
		Close:  prices[3],
		Volume: vol,
	}, nil
}
