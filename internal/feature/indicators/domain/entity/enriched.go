// Package entity defines the enriched series produced by the indicators feature.
package entity

import (
	candle "stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/indicators/domain/indicator"
)

// EnrichedSeries is a price series plus its derived columns.
// Every column has exactly len(Bars) elements.
type EnrichedSeries struct {
	Symbol string
	Bars   []candle.Candle

	MA9  indicator.Series
	MA20 indicator.Series
	MA50 indicator.Series

	// Bollinger Bands
	Upper indicator.Series
	Lower indicator.Series

	RSI        indicator.Series
	CCI        indicator.Series
	Volatility indicator.Series
}

// Empty reports whether the series has no bars.
func (e EnrichedSeries) Empty() bool {
	return len(e.Bars) == 0
}
