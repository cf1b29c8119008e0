package indicator

const (
	// BollingerWindow is the default look-back of the bands.
	BollingerWindow = 20
	// BollingerK is the default number of standard deviations.
	BollingerK = 2.0
)

// BollingerBands returns close ± k·σ where σ is the sample standard deviation
// of the trailing window.
//
// The bands are centered on the current close rather than on the rolling mean
// used by the textbook definition.
func BollingerBands(closes []float64, window int, k float64) (upper, lower Series) {
	sd := Volatility(closes, window)
	upper = newSeries(len(closes))
	lower = newSeries(len(closes))
	for i, s := range sd {
		if !s.Valid {
			continue
		}
		upper[i] = defined(closes[i] + k*s.Float64)
		lower[i] = defined(closes[i] - k*s.Float64)
	}
	return upper, lower
}
