package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"tradedesk/internal/feature/dashboard/transport/handler"
)

func TestDashboardHandler_Index(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", handler.NewDashboardHandler().Index)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "<title>AI 專業操盤策略室</title>")
	for _, endpoint := range []string{"/v1/categories", "/v1/timeframes", "/v1/symbols", "/v1/analysis/", "/v1/insight/"} {
		assert.Contains(t, body, endpoint)
	}
}
