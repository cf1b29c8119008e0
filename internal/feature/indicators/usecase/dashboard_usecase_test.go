package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	candleentity "stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/indicators/usecase"
)

// mockCandlesUsecase はCandlesUsecaseインターフェースのモック実装です。
type mockCandlesUsecase struct {
	GetCandlesFunc func(ctx context.Context, symbol string, start, end time.Time) ([]candleentity.Candle, error)
}

func (m *mockCandlesUsecase) GetCandles(ctx context.Context, symbol string, start, end time.Time) ([]candleentity.Candle, error) {
	return m.GetCandlesFunc(ctx, symbol, start, end)
}

func makeBars(n int) []candleentity.Candle {
	start := time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)
	bars := make([]candleentity.Candle, n)
	for i := range bars {
		c := 100 + float64(i%5) - float64(i%3)
		bars[i] = candleentity.Candle{
			Symbol: "AAPL",
			Time:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c + 2,
			Low:    c - 2,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func TestEnrich_ColumnsAlignWithBars(t *testing.T) {
	t.Parallel()

	bars := makeBars(60)
	es := usecase.Enrich("AAPL", bars, usecase.DefaultParams())

	assert.Equal(t, "AAPL", es.Symbol)
	assert.Len(t, es.Bars, 60)
	for name, col := range map[string]int{
		"MA9":        len(es.MA9),
		"MA20":       len(es.MA20),
		"MA50":       len(es.MA50),
		"Upper":      len(es.Upper),
		"Lower":      len(es.Lower),
		"RSI":        len(es.RSI),
		"CCI":        len(es.CCI),
		"Volatility": len(es.Volatility),
	} {
		assert.Equal(t, 60, col, name)
	}

	assert.Equal(t, 60-8, es.MA9.DefinedCount())
	assert.Equal(t, 60-19, es.MA20.DefinedCount())
	assert.Equal(t, 60-49, es.MA50.DefinedCount())
	assert.Equal(t, 60-14, es.RSI.DefinedCount())
	assert.Equal(t, 60-20, es.Volatility.DefinedCount())
}

func TestEnrich_Empty(t *testing.T) {
	t.Parallel()

	es := usecase.Enrich("ZZZZ", []candleentity.Candle{}, usecase.DefaultParams())

	assert.True(t, es.Empty())
	assert.Empty(t, es.MA9)
	assert.Empty(t, es.Upper)
	assert.Empty(t, es.RSI)
	assert.Empty(t, es.CCI)
	assert.Empty(t, es.Volatility)
}

func TestDashboardUsecase_GetDashboard(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2022, 3, 31, 0, 0, 0, 0, time.UTC)
	errUpstream := errors.New("upstream down")

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		uc := usecase.NewDashboardUsecase(&mockCandlesUsecase{
			GetCandlesFunc: func(ctx context.Context, symbol string, s, e time.Time) ([]candleentity.Candle, error) {
				assert.Equal(t, "aapl", symbol)
				assert.True(t, start.Equal(s))
				assert.True(t, end.Equal(e))
				return makeBars(30), nil
			},
		}, usecase.DefaultParams())

		es, err := uc.GetDashboard(ctx, "aapl", start, end)
		require.NoError(t, err)
		assert.Equal(t, "AAPL", es.Symbol)
		assert.Len(t, es.CCI, 30)
	})

	t.Run("error is propagated", func(t *testing.T) {
		t.Parallel()

		uc := usecase.NewDashboardUsecase(&mockCandlesUsecase{
			GetCandlesFunc: func(ctx context.Context, symbol string, s, e time.Time) ([]candleentity.Candle, error) {
				return nil, errUpstream
			},
		}, usecase.DefaultParams())

		_, err := uc.GetDashboard(ctx, "AAPL", start, end)
		assert.ErrorIs(t, err, errUpstream)
	})
}
