package indicator

import "stock_dashboard/internal/feature/candles/domain/entity"

const (
	// CCIWindow is the default CCI look-back.
	CCIWindow = 20
	// cciScale is Lambert's constant.
	cciScale = 0.015
)

// CCI returns typical / (0.015 · (typical − SMA(typical))) per bar.
//
// The numerator is the raw typical price, not its deviation from the rolling
// mean as in the standard formula. A zero deviation, or a quotient that
// overflows, leaves the position undefined.
func CCI(bars []entity.Candle, window int) Series {
	tp := TypicalPrices(bars)
	ma := MovingAverage(tp, window)
	out := newSeries(len(bars))
	for i, m := range ma {
		if !m.Valid {
			continue
		}
		dev := tp[i] - m.Float64
		if dev == 0 {
			continue
		}
		out[i] = defined(tp[i] / (cciScale * dev))
	}
	return out
}
