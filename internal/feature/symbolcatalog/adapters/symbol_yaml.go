// Package adapters はsymbolcatalogフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"tradedesk/configs"
	"tradedesk/internal/feature/symbolcatalog/domain/entity"
	"tradedesk/internal/feature/symbolcatalog/usecase"
)

// DefaultCategories は YAML に categories がない場合のカテゴリ一覧です。
var DefaultCategories = []entity.CategoryInfo{
	{Key: entity.CategoryUS, Label: "美股 (US)"},
	{Key: entity.CategoryTW, Label: "台股 (TW)"},
	{Key: entity.CategoryCrypto, Label: "加密貨幣 (Crypto)"},
}

// catalogFile は symbols.yaml の構造です。
// symbols は記載順を表示順として保持するため yaml.Node で受け取ります。
type catalogFile struct {
	Categories []entity.CategoryInfo `yaml:"categories"`
	Symbols    yaml.Node             `yaml:"symbols"`
}

type symbolEntry struct {
	Name     string   `yaml:"name"`
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
	Active   *bool    `yaml:"active"`
}

// YAMLCatalog はYAMLファイルから読み込んだ銘柄カタログです。読み込み後は不変です。
type YAMLCatalog struct {
	categories []entity.CategoryInfo
	symbols    []entity.Symbol
}

var _ usecase.SymbolRepository = (*YAMLCatalog)(nil)

// LoadConfig は SYMBOL_CATALOG_PATH を返します。空の場合は埋め込みのカタログを使用します。
func LoadConfig() string {
	return os.Getenv("SYMBOL_CATALOG_PATH")
}

// LoadYAMLCatalog は path のカタログを読み込みます。path が空なら埋め込みのカタログを使用します。
func LoadYAMLCatalog(path string) (*YAMLCatalog, error) {
	data := configs.Symbols
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read symbol catalog %s: %w", path, err)
		}
		data = b
	}
	return ParseYAMLCatalog(data)
}

// ParseYAMLCatalog はYAMLのバイト列からカタログを構築します。
func ParseYAMLCatalog(data []byte) (*YAMLCatalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse symbol catalog: %w", err)
	}
	if f.Symbols.Kind != yaml.MappingNode {
		return nil, errors.New("parse symbol catalog: symbols must be a mapping keyed by ticker")
	}

	cats := f.Categories
	if len(cats) == 0 {
		cats = DefaultCategories
	}
	known := make(map[entity.Category]bool, len(cats))
	for _, c := range cats {
		known[c.Key] = true
	}

	out := make([]entity.Symbol, 0, len(f.Symbols.Content)/2)
	seen := map[string]bool{}
	for i := 0; i+1 < len(f.Symbols.Content); i += 2 {
		keyNode, valNode := f.Symbols.Content[i], f.Symbols.Content[i+1]
		code := strings.ToUpper(strings.TrimSpace(keyNode.Value))
		if code == "" {
			return nil, fmt.Errorf("parse symbol catalog: empty ticker at line %d", keyNode.Line)
		}
		if seen[code] {
			return nil, fmt.Errorf("parse symbol catalog: duplicate ticker %s at line %d", code, keyNode.Line)
		}
		seen[code] = true

		var e symbolEntry
		if err := valNode.Decode(&e); err != nil {
			return nil, fmt.Errorf("parse symbol catalog: %s: %w", code, err)
		}

		cat := entity.Category(e.Category)
		if cat == "" {
			cat = entity.InferCategory(code)
		}
		if !known[cat] {
			return nil, fmt.Errorf("parse symbol catalog: %s: unknown category %q", code, cat)
		}
		name := e.Name
		if name == "" {
			name = code
		}

		out = append(out, entity.Symbol{
			Code:     code,
			Name:     name,
			Category: cat,
			Keywords: e.Keywords,
			IsActive: e.Active == nil || *e.Active,
			SortKey:  len(out) + 1,
		})
	}
	return &YAMLCatalog{categories: cats, symbols: out}, nil
}

// Categories はカテゴリ一覧を記載順で返します。
func (c *YAMLCatalog) Categories() []entity.CategoryInfo {
	return append([]entity.CategoryInfo(nil), c.categories...)
}

// Symbols は無効な銘柄を含むすべての銘柄を返します。DBへの投入に使用します。
func (c *YAMLCatalog) Symbols() []entity.Symbol {
	return append([]entity.Symbol(nil), c.symbols...)
}

// ListActive は有効な銘柄を記載順で返します。
func (c *YAMLCatalog) ListActive(_ context.Context) ([]entity.Symbol, error) {
	out := make([]entity.Symbol, 0, len(c.symbols))
	for _, s := range c.symbols {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}
