package adapters

import (
	"context"
	"sort"

	"stock_dashboard/internal/feature/symbollist/domain/entity"
	"stock_dashboard/internal/feature/symbollist/usecase"
)

// symbolStatic はデータベースを使わない場合の固定銘柄リストです。
type symbolStatic struct {
	symbols []entity.Symbol
}

var _ usecase.SymbolRepository = (*symbolStatic)(nil)

// NewStaticSymbolRepository は symbols のうちアクティブなものをsort_key順に返すリポジトリを生成します。
func NewStaticSymbolRepository(symbols []entity.Symbol) *symbolStatic {
	active := make([]entity.Symbol, 0, len(symbols))
	for _, s := range symbols {
		if s.IsActive {
			active = append(active, s)
		}
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].SortKey < active[j].SortKey })
	return &symbolStatic{symbols: active}
}

// ListActive は保持している銘柄のコピーを返します。
func (r *symbolStatic) ListActive(ctx context.Context) ([]entity.Symbol, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]entity.Symbol(nil), r.symbols...), nil
}
