package indicator

// VolatilityWindow is the default look-back of Volatility (21 trading days).
const VolatilityWindow = 21

// Volatility returns the rolling sample standard deviation of closes.
// A window of 1 has no sample deviation and yields an all-undefined series.
func Volatility(closes []float64, window int) Series {
	return rolling(closes, window, sampleStdDev)
}
