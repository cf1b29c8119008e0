// Package usecase implements the business logic for symbol-related operations.
package usecase

import (
	"context"
	"strings"

	"stock_dashboard/internal/feature/symbollist/domain/entity"
)

// SymbolRepository abstracts the persistence layer for symbol (stock ticker) data.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SymbolRepository interface {
	ListActive(ctx context.Context) ([]entity.Symbol, error)
}

// SymbolUsecase provides business logic for symbol operations.
type SymbolUsecase struct {
	repo SymbolRepository
}

// NewSymbolUsecase creates a new SymbolUsecase with the given repository.
func NewSymbolUsecase(r SymbolRepository) *SymbolUsecase {
	return &SymbolUsecase{repo: r}
}

// ListActiveSymbols returns all active symbols from the repository.
func (u *SymbolUsecase) ListActiveSymbols(ctx context.Context) ([]entity.Symbol, error) {
	return u.repo.ListActive(ctx)
}

// SearchSymbols returns the active symbols whose code or name contains query,
// ignoring case. An empty query returns every active symbol.
func (u *SymbolUsecase) SearchSymbols(ctx context.Context, query string) ([]entity.Symbol, error) {
	symbols, err := u.ListActiveSymbols(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return symbols, nil
	}
	out := make([]entity.Symbol, 0, len(symbols))
	for _, s := range symbols {
		if strings.Contains(strings.ToLower(s.Code), q) || strings.Contains(strings.ToLower(s.Name), q) {
			out = append(out, s)
		}
	}
	return out, nil
}
