// Package usecase はローソク足データ取得のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"stock_dashboard/internal/feature/candles/domain"
	"stock_dashboard/internal/feature/candles/domain/entity"
)

// MarketRepository fetches daily price history from an external market data provider.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketRepository interface {
	// GetTimeSeries returns ascending daily bars within [start, end].
	// Unknown tickers and empty ranges are reported as domain.ErrSymbolNotFound.
	GetTimeSeries(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error)
}

// candlesUsecase validates price history queries and the series returned for them.
type candlesUsecase struct {
	market MarketRepository
}

// NewCandlesUsecase はcandlesUsecaseの新しいインスタンスを生成します。
func NewCandlesUsecase(market MarketRepository) *candlesUsecase {
	return &candlesUsecase{market: market}
}

// NormalizeSymbol trims the ticker and upper-cases it; tickers are case-insensitive.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// GetCandles returns the daily bars of symbol between start and end (both inclusive).
//
// An unknown ticker yields an empty, non-nil slice and no error so callers can
// render a "no data" state. Malformed queries and malformed provider output
// are rejected here, before any indicator is computed.
func (cu *candlesUsecase) GetCandles(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error) {
	q, err := NewQuery(symbol, start, end)
	if err != nil {
		return nil, err
	}

	cs, err := cu.market.GetTimeSeries(ctx, q.Symbol, q.Start, q.End)
	if errors.Is(err, domain.ErrSymbolNotFound) {
		slog.Info("no price data for query", "symbol", q.Symbol, "start", q.Start.Format(entity.DateLayout), "end", q.End.Format(entity.DateLayout))
		return []entity.Candle{}, nil
	}
	if err != nil {
		return nil, err
	}

	if err := ValidateSeries(cs); err != nil {
		return nil, err
	}
	return cs, nil
}

// NewQuery normalizes and validates the user supplied query parameters.
func NewQuery(symbol string, start, end time.Time) (entity.Query, error) {
	q := entity.Query{
		Symbol: NormalizeSymbol(symbol),
		Start:  entity.TruncateDate(start),
		End:    entity.TruncateDate(end),
	}
	if q.Symbol == "" {
		return entity.Query{}, domain.ErrEmptySymbol
	}
	if q.Start.After(q.End) {
		return entity.Query{}, domain.ErrInvalidDateRange
	}
	return q, nil
}

// ValidateSeries checks the ordering and OHLC invariants of a price series.
func ValidateSeries(cs []entity.Candle) error {
	for i, c := range cs {
		if i > 0 && !c.Time.After(cs[i-1].Time) {
			return fmt.Errorf("%w: %s follows %s", domain.ErrUnorderedSeries, c.Date(), cs[i-1].Date())
		}
		if c.High < c.Low || c.High < c.Open || c.High < c.Close || c.Low > c.Open || c.Low > c.Close {
			return fmt.Errorf("%w: %s", domain.ErrInvalidCandle, c.Date())
		}
	}
	return nil
}
