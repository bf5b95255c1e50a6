// Package handler はmarketdataフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"tradedesk/internal/api"
	"tradedesk/internal/feature/marketdata/domain/entity"
	"tradedesk/internal/feature/marketdata/transport/http/dto"
)

// MarketdataUsecase は価格系列取得のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type MarketdataUsecase interface {
	GetSeries(ctx context.Context, symbol, timeframe string) ([]entity.Candle, entity.Timeframe, error)
}

// MarketdataHandler は価格データのHTTPリクエストを処理します。
type MarketdataHandler struct {
	uc MarketdataUsecase
}

// NewMarketdataHandler は指定されたusecaseでMarketdataHandlerの新しいインスタンスを生成します。
func NewMarketdataHandler(uc MarketdataUsecase) *MarketdataHandler {
	return &MarketdataHandler{uc: uc}
}

// GetCandles は銘柄コードと時間足を受け取り、ローソク足データをJSONで返します。
//
// エンドポイント例:
// GET /v1/candles/:symbol?timeframe=4h
func (h *MarketdataHandler) GetCandles(c *gin.Context) {
	candles, tf, err := h.uc.GetSeries(c.Request.Context(), c.Param("symbol"), c.Query("timeframe"))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	symbol := c.Param("symbol")
	if len(candles) > 0 {
		symbol = candles[0].Symbol
	}
	c.JSON(http.StatusOK, dto.CandlesResponse{
		Symbol:    symbol,
		Timeframe: tf.Key,
		Interval:  tf.BarInterval(),
		Candles:   dto.NewCandleResponses(candles),
	})
}

// Timeframes は時間足メニューを表示順で返します。
//
// GET /v1/timeframes
func (h *MarketdataHandler) Timeframes(c *gin.Context) {
	tfs := entity.Timeframes()
	out := make([]dto.TimeframeItem, 0, len(tfs))
	for _, tf := range tfs {
		out = append(out, dto.TimeframeItem{
			Key:      tf.Key,
			Label:    tf.Label,
			Range:    tf.Range,
			Interval: tf.Interval,
			Default:  tf.Key == entity.DefaultTimeframe,
		})
	}
	c.JSON(http.StatusOK, out)
}
