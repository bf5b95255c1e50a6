// Package dto defines data transfer objects for the symbolcatalog HTTP API.
package dto

import "tradedesk/internal/feature/symbolcatalog/domain/entity"

// SymbolItem represents a symbol in the API response.
// It contains only the public-facing fields needed by clients.
type SymbolItem struct {
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
}

// CategoryItem is one entry of the category menu.
type CategoryItem struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// NewSymbolItems converts catalog symbols. Keywords are never null.
func NewSymbolItems(symbols []entity.Symbol) []SymbolItem {
	out := make([]SymbolItem, 0, len(symbols))
	for _, s := range symbols {
		kw := s.Keywords
		if kw == nil {
			kw = []string{}
		}
		out = append(out, SymbolItem{Code: s.Code, Name: s.Name, Category: string(s.Category), Keywords: kw})
	}
	return out
}

// NewCategoryItems converts the category menu.
func NewCategoryItems(cats []entity.CategoryInfo) []CategoryItem {
	out := make([]CategoryItem, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryItem{Key: string(c.Key), Label: c.Label})
	}
	return out
}
