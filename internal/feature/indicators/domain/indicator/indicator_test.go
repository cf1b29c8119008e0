package indicator

import (
	"math"
	"testing"
	"time"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_dashboard/internal/feature/candles/domain/entity"
)

// ramp returns closes n, n+1, ..., n+count-1.
func ramp(from, count int) []float64 {
	out := make([]float64, count)
	for i := range out {
		out[i] = float64(from + i)
	}
	return out
}

func constant(v float64, count int) []float64 {
	out := make([]float64, count)
	for i := range out {
		out[i] = v
	}
	return out
}

// zigzag is a deterministic non-monotonic price path.
func zigzag(count int) []float64 {
	out := make([]float64, count)
	for i := range out {
		out[i] = 100 + 10*math.Sin(float64(i)/3) + float64(i%7)
	}
	return out
}

func barsFromCloses(closes []float64) []entity.Candle {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]entity.Candle, len(closes))
	for i, c := range closes {
		bars[i] = entity.Candle{
			Symbol: "TEST",
			Time:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
		}
	}
	return bars
}

func assertUndefinedPrefix(t *testing.T, s Series, n int) {
	t.Helper()
	for i := 0; i < n && i < len(s); i++ {
		assert.False(t, s[i].Valid, "position %d should be undefined", i)
	}
}

func TestMovingAverage_Ramp(t *testing.T) {
	t.Parallel()

	closes := ramp(10, 11) // 10..20
	ma := MovingAverage(closes, 9)

	require.Len(t, ma, 11)
	assertUndefinedPrefix(t, ma, 8)
	assert.Equal(t, []float64{14, 15, 16}, ma.Values())
	assert.Equal(t, 14.0, ma[8].Float64)
	assert.Equal(t, 15.0, ma[9].Float64)
	assert.Equal(t, 16.0, ma[10].Float64)
}

func TestMovingAverage_WindowOneIsIdentity(t *testing.T) {
	t.Parallel()

	closes := []float64{0.1, 0.2, 0.30000000000000004, 1e-9, 12345.6789}
	ma := MovingAverage(closes, 1)

	require.Len(t, ma, len(closes))
	for i, v := range ma {
		require.True(t, v.Valid)
		assert.Equal(t, closes[i], v.Float64)
	}
}

func TestMovingAverage_MatchesReferenceSMA(t *testing.T) {
	t.Parallel()

	closes := zigzag(120)
	for _, window := range []int{ShortWindow, MediumWindow, LongWindow} {
		want := helper.ChanToSlice(trend.NewSmaWithPeriod[float64](window).Compute(helper.SliceToChan(closes)))
		got := MovingAverage(closes, window).Values()

		require.NotEmpty(t, want)
		require.GreaterOrEqual(t, len(got), len(want), "window %d", window)
		offset := len(got) - len(want)
		for i := range want {
			assert.InDelta(t, want[i], got[offset+i], 1e-9, "window %d index %d", window, i)
		}
	}
}

func TestShortSeriesIsUndefined(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 5, 13} {
		closes := zigzag(n)
		bars := barsFromCloses(closes)

		assert.Zero(t, MovingAverage(closes, 14).DefinedCount())
		upper, lower := BollingerBands(closes, 14, BollingerK)
		assert.Zero(t, upper.DefinedCount())
		assert.Zero(t, lower.DefinedCount())
		assert.Zero(t, RSI(closes, 14).DefinedCount())
		assert.Zero(t, CCI(bars, 14).DefinedCount())
		assert.Zero(t, Volatility(closes, 14).DefinedCount())
	}
}

func TestEmptySeries(t *testing.T) {
	t.Parallel()

	upper, lower := BollingerBands(nil, BollingerWindow, BollingerK)
	for name, s := range map[string]Series{
		"ma":         MovingAverage(nil, ShortWindow),
		"upper":      upper,
		"lower":      lower,
		"rsi":        RSI(nil, RSIWindow),
		"cci":        CCI(nil, CCIWindow),
		"volatility": Volatility([]float64{}, VolatilityWindow),
	} {
		assert.NotNil(t, s, name)
		assert.Empty(t, s, name)
	}
}

func TestNonPositiveWindow(t *testing.T) {
	t.Parallel()

	closes := zigzag(30)
	for _, w := range []int{0, -3} {
		assert.Len(t, MovingAverage(closes, w), 30)
		assert.Zero(t, MovingAverage(closes, w).DefinedCount())
		assert.Zero(t, RSI(closes, w).DefinedCount())
		assert.Zero(t, Volatility(closes, w).DefinedCount())
		assert.Zero(t, CCI(barsFromCloses(closes), w).DefinedCount())
	}
}

func TestConstantSeries_ZeroVolatilityAndCollapsedBands(t *testing.T) {
	t.Parallel()

	closes := constant(5, 30)

	vol := Volatility(closes, VolatilityWindow)
	assertUndefinedPrefix(t, vol, VolatilityWindow-1)
	assert.Equal(t, 30-VolatilityWindow+1, vol.DefinedCount())
	for _, v := range vol.Values() {
		assert.Equal(t, 0.0, v)
	}

	upper, lower := BollingerBands(closes, BollingerWindow, BollingerK)
	assert.Equal(t, 30-BollingerWindow+1, upper.DefinedCount())
	for i := range upper {
		if !upper[i].Valid {
			assert.False(t, lower[i].Valid)
			continue
		}
		assert.Equal(t, 5.0, upper[i].Float64)
		assert.Equal(t, 5.0, lower[i].Float64)
	}
}

func TestConstantSeries_InexactPrices(t *testing.T) {
	t.Parallel()

	for _, price := range []float64{0.1, 10.1, 123.456} {
		closes := constant(price, 25)
		bars := make([]entity.Candle, len(closes))
		for i := range bars {
			bars[i] = entity.Candle{Open: price, High: price, Low: price, Close: price}
		}

		ma := MovingAverage(closes, MediumWindow)
		for _, v := range ma.Values() {
			assert.Equal(t, price, v, "ma of %v", price)
		}

		vol := Volatility(closes, VolatilityWindow)
		require.Equal(t, 25-VolatilityWindow+1, vol.DefinedCount())
		for _, v := range vol.Values() {
			assert.Equal(t, 0.0, v, "volatility of %v", price)
		}

		upper, lower := BollingerBands(closes, BollingerWindow, BollingerK)
		for i := BollingerWindow - 1; i < len(closes); i++ {
			assert.Equal(t, price, upper[i].Float64, "upper of %v", price)
			assert.Equal(t, upper[i], lower[i], "bands of %v", price)
		}

		assert.Zero(t, CCI(bars, CCIWindow).DefinedCount(), "cci of %v", price)
	}
}

func TestBollingerBands_CenteredOnClose(t *testing.T) {
	t.Parallel()

	closes := zigzag(40)
	upper, lower := BollingerBands(closes, BollingerWindow, BollingerK)
	vol := Volatility(closes, BollingerWindow)

	for i := BollingerWindow - 1; i < len(closes); i++ {
		require.True(t, upper[i].Valid)
		assert.InDelta(t, closes[i], (upper[i].Float64+lower[i].Float64)/2, 1e-9)
		assert.InDelta(t, 2*BollingerK*vol[i].Float64, upper[i].Float64-lower[i].Float64, 1e-9)
	}
}

func TestVolatility_SampleStdDev(t *testing.T) {
	t.Parallel()

	// sample variance of 2,4,4,4,5,5,7,9 is 32/7
	closes := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	vol := Volatility(closes, 8)

	assertUndefinedPrefix(t, vol, 7)
	require.True(t, vol[7].Valid)
	assert.InDelta(t, math.Sqrt(32.0/7.0), vol[7].Float64, 1e-12)

	assert.Zero(t, Volatility(closes, 1).DefinedCount(), "a single sample has no deviation")
}

func TestRSI_BoundsAndUndefinedPrefix(t *testing.T) {
	t.Parallel()

	closes := zigzag(200)
	rsi := RSI(closes, RSIWindow)

	require.Len(t, rsi, len(closes))
	assertUndefinedPrefix(t, rsi, RSIWindow)
	assert.Equal(t, len(closes)-RSIWindow, rsi.DefinedCount())
	for _, v := range rsi.Values() {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}

func TestRSI_NoLossesIsHundred(t *testing.T) {
	t.Parallel()

	rising := RSI(ramp(1, 30), RSIWindow)
	for _, v := range rising.Values() {
		assert.Equal(t, 100.0, v)
	}

	flat := RSI(constant(42, 20), RSIWindow)
	for _, v := range flat.Values() {
		assert.Equal(t, 100.0, v)
	}

	// a loss early on drops out of the window after RSIWindow steps
	closes := append([]float64{10, 9}, ramp(10, 20)...)
	rsi := RSI(closes, RSIWindow)
	assert.Less(t, rsi[RSIWindow].Float64, 100.0)
	assert.Equal(t, 100.0, rsi[RSIWindow+1].Float64)
}

func TestRSI_FallingIsZero(t *testing.T) {
	t.Parallel()

	closes := ramp(1, 30)
	for i, j := 0, len(closes)-1; i < j; i, j = i+1, j-1 {
		closes[i], closes[j] = closes[j], closes[i]
	}
	for _, v := range RSI(closes, RSIWindow).Values() {
		assert.Equal(t, 0.0, v)
	}
}

func TestRSI_KnownValue(t *testing.T) {
	t.Parallel()

	// window 2: deltas +2, -1 -> gain 1, loss 0.5, rs 2, rsi 100-100/3
	rsi := RSI([]float64{10, 12, 11}, 2)
	assert.False(t, rsi[0].Valid)
	assert.False(t, rsi[1].Valid)
	require.True(t, rsi[2].Valid)
	assert.InDelta(t, 100-100.0/3, rsi[2].Float64, 1e-12)
}

func TestCCI_ZeroDeviationIsUndefined(t *testing.T) {
	t.Parallel()

	bars := barsFromCloses(constant(5, 25))
	cci := CCI(bars, CCIWindow)

	require.Len(t, cci, 25)
	assert.Zero(t, cci.DefinedCount())
	for _, v := range cci {
		assert.False(t, math.IsInf(v.Float64, 0))
		assert.False(t, math.IsNaN(v.Float64))
	}
}

func TestCCI_RawTypicalPriceNumerator(t *testing.T) {
	t.Parallel()

	bars := barsFromCloses(ramp(10, 3)) // typical prices 10, 11, 12
	cci := CCI(bars, 3)

	assertUndefinedPrefix(t, cci, 2)
	require.True(t, cci[2].Valid)
	// tp 12, rolling mean 11, deviation 1
	assert.InDelta(t, 12/(0.015*1), cci[2].Float64, 1e-9)
}

func TestTypicalPrices(t *testing.T) {
	t.Parallel()

	bars := []entity.Candle{{High: 12, Low: 6, Close: 9}, {High: 3, Low: 3, Close: 3}}
	assert.Equal(t, []float64{9, 3}, TypicalPrices(bars))
	assert.Equal(t, []float64{9, 3}, Closes(bars))
}

func TestFunctionsArePure(t *testing.T) {
	t.Parallel()

	closes := zigzag(80)
	bars := barsFromCloses(closes)
	snapshot := append([]float64(nil), closes...)
	barsSnapshot := append([]entity.Candle(nil), bars...)

	u1, l1 := BollingerBands(closes, BollingerWindow, BollingerK)
	u2, l2 := BollingerBands(closes, BollingerWindow, BollingerK)
	assert.Equal(t, u1, u2)
	assert.Equal(t, l1, l2)
	assert.Equal(t, MovingAverage(closes, MediumWindow), MovingAverage(closes, MediumWindow))
	assert.Equal(t, RSI(closes, RSIWindow), RSI(closes, RSIWindow))
	assert.Equal(t, CCI(bars, CCIWindow), CCI(bars, CCIWindow))
	assert.Equal(t, Volatility(closes, VolatilityWindow), Volatility(closes, VolatilityWindow))

	assert.Equal(t, snapshot, closes, "input closes must not be mutated")
	assert.Equal(t, barsSnapshot, bars, "input bars must not be mutated")
}

func TestSeries_Helpers(t *testing.T) {
	t.Parallel()

	s := Series{defined(1), defined(math.NaN()), defined(math.Inf(1)), defined(3)}
	assert.Equal(t, 2, s.DefinedCount())
	assert.Equal(t, []float64{1, 3}, s.Values())
}
