// Package usecase implements the business logic for the symbol catalog.
package usecase

import (
	"context"
	"log/slog"
	"strings"

	"tradedesk/internal/feature/symbolcatalog/domain/entity"
	"tradedesk/internal/shared/failure"
)

// SymbolRepository abstracts where the catalog is stored (embedded YAML or SQL).
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SymbolRepository interface {
	ListActive(ctx context.Context) ([]entity.Symbol, error)
}

// SymbolUsecase provides the category menu, symbol listing and search.
type SymbolUsecase struct {
	repo       SymbolRepository
	categories []entity.CategoryInfo
}

// NewSymbolUsecase creates a new SymbolUsecase with the given repository and category menu.
func NewSymbolUsecase(r SymbolRepository, categories []entity.CategoryInfo) *SymbolUsecase {
	return &SymbolUsecase{repo: r, categories: categories}
}

// ListCategories returns the category menu in display order.
func (u *SymbolUsecase) ListCategories(_ context.Context) []entity.CategoryInfo {
	return append([]entity.CategoryInfo(nil), u.categories...)
}

// ListSymbols returns the active symbols of category, or all of them when category is empty.
func (u *SymbolUsecase) ListSymbols(ctx context.Context, category string) ([]entity.Symbol, error) {
	return u.Search(ctx, category, "")
}

// Search returns the active symbols of category whose code, name or keywords
// contain query (case-insensitive). An empty query matches everything.
func (u *SymbolUsecase) Search(ctx context.Context, category, query string) ([]entity.Symbol, error) {
	cat := entity.Category(strings.ToLower(strings.TrimSpace(category)))
	if cat != "" && !u.known(cat) {
		return nil, failure.Invalid("category", "unknown category %q", category)
	}

	all, err := u.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToUpper(strings.TrimSpace(query))
	out := make([]entity.Symbol, 0, len(all))
	for _, s := range all {
		if cat != "" && s.Category != cat {
			continue
		}
		if s.Matches(q) {
			out = append(out, s)
		}
	}
	return out, nil
}

// DisplayName returns the localized name of code, or "" when the catalog does not know it.
func (u *SymbolUsecase) DisplayName(ctx context.Context, code string) string {
	all, err := u.repo.ListActive(ctx)
	if err != nil {
		slog.WarnContext(ctx, "symbol catalog lookup failed", "code", code, "error", err)
		return ""
	}
	c := strings.ToUpper(strings.TrimSpace(code))
	for _, s := range all {
		if s.Code == c {
			return s.Name
		}
	}
	return ""
}

func (u *SymbolUsecase) known(cat entity.Category) bool {
	for _, c := range u.categories {
		if c.Key == cat {
			return true
		}
	}
	return false
}
