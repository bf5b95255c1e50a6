// Package handler はsymbolcatalogフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"tradedesk/internal/api"
	"tradedesk/internal/feature/symbolcatalog/domain/entity"
	"tradedesk/internal/feature/symbolcatalog/transport/http/dto"
)

// SymbolUsecase は銘柄カタログに関するユースケースのインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type SymbolUsecase interface {
	ListCategories(ctx context.Context) []entity.CategoryInfo
	Search(ctx context.Context, category, query string) ([]entity.Symbol, error)
}

// SymbolHandler は銘柄カタログに関するHTTPリクエストを処理します。
type SymbolHandler struct {
	uc SymbolUsecase
}

// NewSymbolHandler は新しい SymbolHandler を作成します。
func NewSymbolHandler(uc SymbolUsecase) *SymbolHandler {
	return &SymbolHandler{uc: uc}
}

// Categories はカテゴリ一覧を返すAPIです。
//
// GET /v1/categories
func (h *SymbolHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewCategoryItems(h.uc.ListCategories(c.Request.Context())))
}

// List は有効な銘柄の一覧を取得するAPIです。category で絞り込み、q でコード・名称・キーワードを検索します。
//
// GET /v1/symbols?category=tw&q=2330
func (h *SymbolHandler) List(c *gin.Context) {
	symbols, err := h.uc.Search(c.Request.Context(), c.Query("category"), c.Query("q"))
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSymbolItems(symbols))
}
