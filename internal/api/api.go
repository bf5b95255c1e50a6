// Package api はHTTP層で共有するレスポンス型とエラー変換を提供します。
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"tradedesk/internal/shared/failure"
)

// ErrorResponse はエラー時のレスポンスボディです。
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// StatusFor はエラー種別をHTTPステータスに変換します。
func StatusFor(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	switch failure.KindOf(err) {
	case failure.KindInvalidInput:
		return http.StatusBadRequest
	case failure.KindInsufficientData:
		return http.StatusUnprocessableEntity
	case failure.KindFetchFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// RespondError はエラーを種別付きのJSONで返します。
// 500 の場合は内部情報を返さずログにのみ残します。
func RespondError(c *gin.Context, err error) {
	status := StatusFor(err)
	kind := failure.KindOf(err)
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway && status != http.StatusGatewayTimeout {
		slog.Error("request failed", "path", c.FullPath(), "kind", kind.String(), "error", err)
		c.JSON(status, ErrorResponse{Error: "internal error", Kind: kind.String()})
		return
	}
	slog.Warn("request failed", "path", c.FullPath(), "kind", kind.String(), "error", err)
	c.JSON(status, ErrorResponse{Error: err.Error(), Kind: kind.String()})
}
