// Package indicator computes technical indicator columns over a daily price series.
//
// Every function is pure: inputs are only read, a fresh Series of the same
// length as the input is returned, and positions without enough history (or
// with a degenerate division) are left undefined instead of zero or NaN.
package indicator

import (
	"math"

	"github.com/guregu/null/v6"

	"stock_dashboard/internal/feature/candles/domain/entity"
)

// Series is an indicator column aligned 1:1 with the input bars.
// An invalid element means "no value" and marshals to JSON null.
type Series []null.Float

// newSeries returns n undefined values.
func newSeries(n int) Series {
	return make(Series, n)
}

// defined wraps v, treating NaN and ±Inf as undefined.
func defined(v float64) null.Float {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return null.Float{}
	}
	return null.FloatFrom(v)
}

// Values returns the defined values in order, skipping gaps.
func (s Series) Values() []float64 {
	out := make([]float64, 0, len(s))
	for _, v := range s {
		if v.Valid {
			out = append(out, v.Float64)
		}
	}
	return out
}

// DefinedCount reports how many positions carry a value.
func (s Series) DefinedCount() int {
	n := 0
	for _, v := range s {
		if v.Valid {
			n++
		}
	}
	return n
}

// Closes extracts the close column.
func Closes(bars []entity.Candle) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// TypicalPrices returns (high+low+close)/3 per bar.
func TypicalPrices(bars []entity.Candle) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = (b.High + b.Low + b.Close) / 3
	}
	return out
}
