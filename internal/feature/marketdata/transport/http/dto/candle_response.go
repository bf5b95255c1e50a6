// Package dto defines data transfer objects for the marketdata HTTP API.
package dto

import (
	"time"

	"tradedesk/internal/feature/marketdata/domain/entity"
)

// CandleResponse はロウソク足データのレスポンスDTOです。
type CandleResponse struct {
	Time   string  `json:"time"`   // RFC3339（UTC）
	Open   float64 `json:"open"`   // 始値
	High   float64 `json:"high"`   // 高値
	Low    float64 `json:"low"`    // 安値
	Close  float64 `json:"close"`  // 終値
	Volume float64 `json:"volume"` // 出来高
}

// CandlesResponse は GET /v1/candles/:symbol のレスポンスです。
type CandlesResponse struct {
	Symbol    string           `json:"symbol"`
	Timeframe string           `json:"timeframe"`
	Interval  string           `json:"interval"`
	Candles   []CandleResponse `json:"candles"`
}

// TimeframeItem は時間足メニューの1項目です。
type TimeframeItem struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Range    string `json:"range"`
	Interval string `json:"interval"`
	Default  bool   `json:"default"`
}

// NewCandleResponses はロウソク足をレスポンス形式に変換します。
func NewCandleResponses(cs []entity.Candle) []CandleResponse {
	out := make([]CandleResponse, 0, len(cs))
	for _, x := range cs {
		out = append(out, CandleResponse{
			Time:   x.Time.UTC().Format(time.RFC3339),
			Open:   x.Open,
			High:   x.High,
			Low:    x.Low,
			Close:  x.Close,
			Volume: x.Volume,
		})
	}
	return out
}
