package indicator

import "math"

// mean of xs; xs must not be empty.
// The sum is taken relative to xs[0], so a window of identical values
// returns that value exactly.
func mean(xs []float64) float64 {
	base := xs[0]
	sum := 0.0
	for _, x := range xs {
		sum += x - base
	}
	return base + sum/float64(len(xs))
}

// sampleStdDev is the n-1 standard deviation. ok is false for fewer than two values.
func sampleStdDev(xs []float64) (sd float64, ok bool) {
	if len(xs) < 2 {
		return 0, false
	}
	m := mean(xs)
	ss := 0.0
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1)), true
}

// rolling calls fn with each full trailing window of xs and stores its result
// at the window's last index. Earlier positions stay undefined.
func rolling(xs []float64, window int, fn func(w []float64) (float64, bool)) Series {
	out := newSeries(len(xs))
	if window < 1 {
		return out
	}
	for i := window - 1; i < len(xs); i++ {
		if v, ok := fn(xs[i-window+1 : i+1]); ok {
			out[i] = defined(v)
		}
	}
	return out
}
