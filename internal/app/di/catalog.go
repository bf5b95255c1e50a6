package di

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"tradedesk/internal/feature/symbolcatalog/adapters"
	"tradedesk/internal/feature/symbolcatalog/domain/entity"
	"tradedesk/internal/feature/symbolcatalog/usecase"
)

// NewCatalog creates the SymbolRepository and the category menu.
// If a database is available, it returns the SQL-backed catalog (migrated and
// seeded from the YAML file when migrate is true). Otherwise, it falls back to
// the YAML catalog.
func NewCatalog(ctx context.Context, db *gorm.DB, migrate bool) (usecase.SymbolRepository, []entity.CategoryInfo, error) {
	yc, err := adapters.LoadYAMLCatalog(adapters.LoadConfig())
	if err != nil {
		return nil, nil, err
	}
	if db == nil {
		return yc, yc.Categories(), nil
	}

	repo := adapters.NewSymbolRepository(db)
	if migrate {
		if err := repo.Migrate(ctx); err != nil {
			return nil, nil, fmt.Errorf("migrate symbol catalog: %w", err)
		}
		if err := repo.Seed(ctx, yc.Symbols()); err != nil {
			return nil, nil, fmt.Errorf("seed symbol catalog: %w", err)
		}
		slog.InfoContext(ctx, "symbol catalog seeded", "symbols", len(yc.Symbols()))
	}
	return repo, yc.Categories(), nil
}
