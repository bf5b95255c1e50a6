// Package handler はanalysisフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tradedesk/internal/api"
	"tradedesk/internal/feature/analysis/domain/entity"
	"tradedesk/internal/feature/analysis/transport/http/dto"
	"tradedesk/internal/feature/analysis/usecase"
	"tradedesk/internal/shared/failure"
)

// AnalysisUsecase は分析・バックテストのユースケースインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type AnalysisUsecase interface {
	Analyze(ctx context.Context, req usecase.Request) (*entity.Report, error)
	Backtest(ctx context.Context, symbol, timeframe string) (*entity.BacktestReport, error)
}

// InsightUsecase は生成AIによる要約のユースケースインターフェースです。
type InsightUsecase interface {
	Enabled() bool
	Explain(ctx context.Context, req usecase.Request) (*entity.Insight, error)
}

// AnalysisHandler は分析関連のHTTPリクエストを処理します。
type AnalysisHandler struct {
	analysis AnalysisUsecase
	insight  InsightUsecase
}

// NewAnalysisHandler は新しい AnalysisHandler を作成します。insight は nil でも構いません。
func NewAnalysisHandler(analysis AnalysisUsecase, insight InsightUsecase) *AnalysisHandler {
	return &AnalysisHandler{analysis: analysis, insight: insight}
}

// insightBody は POST /v1/insight のリクエストボディです。すべて任意です。
type insightBody struct {
	Timeframe string `json:"timeframe"`
	Side      string `json:"side"`
	Mode      string `json:"mode"`
}

// Analyze は銘柄の分析レポートを返します。
//
// エンドポイント例:
// GET /v1/analysis/2330.TW?timeframe=1d&side=auto&mode=mean&inst_net=6.5&compact=true
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	req, err := requestFromQuery(c)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	report, err := h.analysis.Analyze(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	compact, _ := strconv.ParseBool(c.DefaultQuery("compact", "false"))
	c.JSON(http.StatusOK, dto.NewReportResponse(report, compact))
}

// Backtest は SMA(20)/EMA(50) クロスオーバーのバックテスト結果を返します。
//
// GET /v1/backtest/:symbol?timeframe=1d
func (h *AnalysisHandler) Backtest(c *gin.Context) {
	out, err := h.analysis.Backtest(c.Request.Context(), c.Param("symbol"), c.Query("timeframe"))
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBacktestReportResponse(out))
}

// Insight は分析結果を生成AIで要約します。認証情報が未設定の場合は 503 を返します。
//
// POST /v1/insight/:symbol  {"timeframe":"1d"}
func (h *AnalysisHandler) Insight(c *gin.Context) {
	if h.insight == nil || !h.insight.Enabled() {
		c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: usecase.ErrInsightDisabled.Error(), Kind: "disabled"})
		return
	}

	// ボディは任意。チャンク転送の空ボディ (ContentLength -1) は EOF になる
	var body insightBody
	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
			api.RespondError(c, failure.Invalid("insight", "invalid request body: %v", err))
			return
		}
	}
	req := usecase.Request{
		Symbol:    c.Param("symbol"),
		Timeframe: firstNonEmpty(body.Timeframe, c.Query("timeframe")),
		Side:      entity.Side(firstNonEmpty(body.Side, c.Query("side"))),
		Mode:      entity.Mode(firstNonEmpty(body.Mode, c.Query("mode"))),
	}

	out, err := h.insight.Explain(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, usecase.ErrInsightDisabled) {
			c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: err.Error(), Kind: "disabled"})
			return
		}
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewInsightResponse(out))
}

func requestFromQuery(c *gin.Context) (usecase.Request, error) {
	req := usecase.Request{
		Symbol:    c.Param("symbol"),
		Timeframe: c.Query("timeframe"),
		Side:      entity.Side(c.Query("side")),
		Mode:      entity.Mode(c.Query("mode")),
	}
	if s := c.Query("inst_net"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return req, failure.Invalid("inst_net", "invalid institutional net %q", s)
		}
		req.Chips = &entity.ChipData{InstitutionalNetPct: v}
	}
	return req, nil
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}
