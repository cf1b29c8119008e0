package di

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"stock_dashboard/internal/feature/symbollist/adapters"
	"stock_dashboard/internal/feature/symbollist/domain/entity"
	"stock_dashboard/internal/feature/symbollist/usecase"
	platformdb "stock_dashboard/internal/platform/db"
)

// NewSymbolRepository returns the gorm-backed catalog, migrating and seeding it when
// migrate is true. Without a database, the built-in list is served from memory.
func NewSymbolRepository(ctx context.Context, db *gorm.DB, migrate bool) (usecase.SymbolRepository, error) {
	if db == nil {
		slog.Info("symbol catalog running without database")
		return adapters.NewStaticSymbolRepository(entity.DefaultSymbols()), nil
	}

	repo := adapters.NewSymbolRepository(db)
	if migrate {
		if err := platformdb.Migrate(db, &entity.Symbol{}); err != nil {
			return nil, err
		}
		if err := repo.Seed(ctx, entity.DefaultSymbols()); err != nil {
			return nil, err
		}
	}
	return repo, nil
}
