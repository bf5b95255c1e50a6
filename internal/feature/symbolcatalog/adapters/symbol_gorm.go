package adapters

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tradedesk/internal/feature/symbolcatalog/domain/entity"
	"tradedesk/internal/feature/symbolcatalog/usecase"
)

// symbolGorm はSymbolRepositoryインターフェースのSQL（sqlite / postgres）実装です。
type symbolGorm struct {
	db *gorm.DB
}

var _ usecase.SymbolRepository = (*symbolGorm)(nil)

// NewSymbolRepository は指定されたDB接続でsymbolGormリポジトリの新しいインスタンスを生成します。
func NewSymbolRepository(db *gorm.DB) *symbolGorm {
	return &symbolGorm{db: db}
}

// Migrate はsymbolsテーブルを作成・更新します。
func (r *symbolGorm) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&entity.Symbol{}); err != nil {
		return fmt.Errorf("migrate symbols: %w", err)
	}
	return nil
}

// Seed は銘柄を code をキーに upsert します。
func (r *symbolGorm) Seed(ctx context.Context, symbols []entity.Symbol) error {
	if len(symbols) == 0 {
		return nil
	}
	rows := make([]entity.Symbol, len(symbols))
	copy(rows, symbols)
	for i := range rows {
		rows[i].ID = 0
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "category", "keywords", "is_active", "sort_key", "updated_at"}),
		}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("seed symbols: %w", err)
	}
	// is_active はDBのデフォルト(true)があるため、ゼロ値の false は INSERT で無視される
	for _, s := range symbols {
		if s.IsActive {
			continue
		}
		if err := r.db.WithContext(ctx).Model(&entity.Symbol{}).
			Where("code = ?", s.Code).
			Update("is_active", false).Error; err != nil {
			return fmt.Errorf("deactivate symbol %s: %w", s.Code, err)
		}
	}
	return nil
}

// ListActive はsort_key順にすべてのアクティブな銘柄を返します。
func (r *symbolGorm) ListActive(ctx context.Context) ([]entity.Symbol, error) {
	var symbols []entity.Symbol
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_key ASC").
		Find(&symbols).Error; err != nil {
		return nil, err
	}
	return symbols, nil
}

// ListActiveCodes はsort_key順にアクティブな銘柄のコードのみを返します。
func (r *symbolGorm) ListActiveCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if err := r.db.WithContext(ctx).
		Model(&entity.Symbol{}).
		Where("is_active = ?", true).
		Order("sort_key ASC").
		Pluck("code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}
