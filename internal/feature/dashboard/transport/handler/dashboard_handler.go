// Package handler はブラウザ向けダッシュボード画面を配信します。
// 画面は /v1 の JSON API を呼び出してチャートとカードを描画します。
package handler

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static/index.html
var indexHTML []byte

// DashboardHandler は単一ページのダッシュボードを返します。
type DashboardHandler struct {
	page []byte
}

// NewDashboardHandler は埋め込み済みのページを返す DashboardHandler を作成します。
func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{page: indexHTML}
}

// Index は GET / でダッシュボードの HTML を返します。
func (h *DashboardHandler) Index(c *gin.Context) {
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "text/html; charset=utf-8", h.page)
}
