// Package entity defines the domain models for the symbolcatalog feature.
package entity

import (
	"strings"
	"time"
)

// Category groups symbols by market.
type Category string

const (
	CategoryUS     Category = "us"
	CategoryTW     Category = "tw"
	CategoryCrypto Category = "crypto"
)

// InferCategory guesses the market from the ticker format
// (".TW" and "^TWII" are Taiwan, "-USD" is crypto, everything else US).
func InferCategory(code string) Category {
	c := strings.ToUpper(code)
	switch {
	case strings.HasSuffix(c, ".TW"), strings.HasSuffix(c, ".TWO"), c == "^TWII":
		return CategoryTW
	case strings.HasSuffix(c, "-USD"):
		return CategoryCrypto
	default:
		return CategoryUS
	}
}

// CategoryInfo is a category with its display label.
type CategoryInfo struct {
	Key   Category `json:"key"`
	Label string   `json:"label"`
}

// Symbol represents a tradable ticker in the catalog.
// It contains the ticker code, a localized display name, the search keywords,
// the market category, and display ordering.
type Symbol struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"size:20;not null;uniqueIndex"`
	Name      string    `gorm:"size:255;not null"`
	Category  Category  `gorm:"size:20;not null;index"`
	Keywords  []string  `gorm:"serializer:json"`
	IsActive  bool      `gorm:"not null;default:true"`
	SortKey   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Matches reports whether q (already upper-cased) appears in the code, the name or a keyword.
func (s Symbol) Matches(q string) bool {
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToUpper(s.Code), q) || strings.Contains(strings.ToUpper(s.Name), q) {
		return true
	}
	for _, k := range s.Keywords {
		if strings.Contains(strings.ToUpper(k), q) {
			return true
		}
	}
	return false
}
