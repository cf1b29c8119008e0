package indicator

// Windows of the moving averages drawn on the candlestick chart.
const (
	ShortWindow  = 9
	MediumWindow = 20
	LongWindow   = 50
)

// MovingAverage returns the simple moving average of closes over window.
// Position i holds mean(closes[i-window+1..i]); the first window-1 positions are undefined.
func MovingAverage(closes []float64, window int) Series {
	return rolling(closes, window, func(w []float64) (float64, bool) {
		return mean(w), true
	})
}
