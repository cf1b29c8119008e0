package indicator

// RSIWindow is the default RSI look-back.
const RSIWindow = 14

// RSI returns the relative strength index using simple means of the gains and
// losses of the trailing window price changes.
//
// Position i needs window deltas, so the first window positions are undefined.
// When the window has no losses the index is exactly 100, including a flat
// window where gains are zero too.
func RSI(closes []float64, window int) Series {
	out := newSeries(len(closes))
	if window < 1 {
		return out
	}
	for i := window; i < len(closes); i++ {
		var gain, loss float64
		for j := i - window + 1; j <= i; j++ {
			d := closes[j] - closes[j-1]
			if d > 0 {
				gain += d
			} else {
				loss -= d
			}
		}
		gain /= float64(window)
		loss /= float64(window)
		if loss == 0 {
			out[i] = defined(100)
			continue
		}
		rs := gain / loss
		out[i] = defined(100 - 100/(1+rs))
	}
	return out
}
