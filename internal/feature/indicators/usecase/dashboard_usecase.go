// Package usecase は価格系列からテクニカル指標を算出するユースケースを実装します。
package usecase

import (
	"context"
	"time"

	candleentity "stock_dashboard/internal/feature/candles/domain/entity"
	candleusecase "stock_dashboard/internal/feature/candles/usecase"
	"stock_dashboard/internal/feature/indicators/domain/entity"
	"stock_dashboard/internal/feature/indicators/domain/indicator"
)

// CandlesUsecase loads a validated price series.
type CandlesUsecase interface {
	GetCandles(ctx context.Context, symbol string, start, end time.Time) ([]candleentity.Candle, error)
}

// Params holds the look-back windows of every derived column.
type Params struct {
	ShortMA          int
	MediumMA         int
	LongMA           int
	BollingerWindow  int
	BollingerK       float64
	RSIWindow        int
	CCIWindow        int
	VolatilityWindow int
}

// DefaultParams returns the windows drawn by the dashboard.
func DefaultParams() Params {
	return Params{
		ShortMA:          indicator.ShortWindow,
		MediumMA:         indicator.MediumWindow,
		LongMA:           indicator.LongWindow,
		BollingerWindow:  indicator.BollingerWindow,
		BollingerK:       indicator.BollingerK,
		RSIWindow:        indicator.RSIWindow,
		CCIWindow:        indicator.CCIWindow,
		VolatilityWindow: indicator.VolatilityWindow,
	}
}

// Enrich computes every derived column of bars. bars is not modified.
func Enrich(symbol string, bars []candleentity.Candle, p Params) entity.EnrichedSeries {
	closes := indicator.Closes(bars)
	upper, lower := indicator.BollingerBands(closes, p.BollingerWindow, p.BollingerK)
	return entity.EnrichedSeries{
		Symbol:     symbol,
		Bars:       bars,
		MA9:        indicator.MovingAverage(closes, p.ShortMA),
		MA20:       indicator.MovingAverage(closes, p.MediumMA),
		MA50:       indicator.MovingAverage(closes, p.LongMA),
		Upper:      upper,
		Lower:      lower,
		RSI:        indicator.RSI(closes, p.RSIWindow),
		CCI:        indicator.CCI(bars, p.CCIWindow),
		Volatility: indicator.Volatility(closes, p.VolatilityWindow),
	}
}

// DashboardUsecase runs one fetch-and-enrich cycle per request.
type DashboardUsecase struct {
	candles CandlesUsecase
	params  Params
}

// NewDashboardUsecase creates a DashboardUsecase using the given windows.
func NewDashboardUsecase(candles CandlesUsecase, params Params) *DashboardUsecase {
	return &DashboardUsecase{candles: candles, params: params}
}

// GetDashboard fetches the bars of symbol in [start, end] and enriches them.
// An unknown ticker returns an empty EnrichedSeries, not an error.
func (u *DashboardUsecase) GetDashboard(ctx context.Context, symbol string, start, end time.Time) (entity.EnrichedSeries, error) {
	bars, err := u.candles.GetCandles(ctx, symbol, start, end)
	if err != nil {
		return entity.EnrichedSeries{}, err
	}
	return Enrich(candleusecase.NormalizeSymbol(symbol), bars, u.params), nil
}
