package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_dashboard/internal/feature/symbollist/domain/entity"
)

func TestSymbolStatic_ListActive(t *testing.T) {
	t.Parallel()

	repo := NewStaticSymbolRepository([]entity.Symbol{
		{Code: "MSFT", IsActive: true, SortKey: 2},
		{Code: "OLD", IsActive: false, SortKey: 0},
		{Code: "AAPL", IsActive: true, SortKey: 1},
	})

	symbols, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, symbols, 2)
	assert.Equal(t, "AAPL", symbols[0].Code)
	assert.Equal(t, "MSFT", symbols[1].Code)

	// callers cannot mutate the repository
	symbols[0].Code = "CHANGED"
	again, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AAPL", again[0].Code)
}

func TestSymbolStatic_Defaults(t *testing.T) {
	t.Parallel()

	symbols, err := NewStaticSymbolRepository(entity.DefaultSymbols()).ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, symbols, len(entity.DefaultSymbols()))
	assert.Equal(t, "AAPL", symbols[0].Code)
}

func TestSymbolStatic_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStaticSymbolRepository(entity.DefaultSymbols()).ListActive(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
