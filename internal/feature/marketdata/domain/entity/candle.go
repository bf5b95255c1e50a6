// Package entity defines the domain models for the marketdata feature.
package entity

import "time"

// Candle represents OHLCV (Open, High, Low, Close, Volume) candlestick data
// for a symbol at a specific bar interval.
type Candle struct {
	Symbol   string    `json:"symbol,omitempty"`   // Ticker symbol (e.g., "AAPL", "2330.TW", "BTC-USD")
	Interval string    `json:"interval,omitempty"` // Bar interval (e.g., "60m", "1d", "4h")
	Time     time.Time `json:"time"`               // Timestamp for the start of this bar
	Open     float64   `json:"open"`               // Opening price
	High     float64   `json:"high"`               // Highest price during this bar
	Low      float64   `json:"low"`                // Lowest price during this bar
	Close    float64   `json:"close"`              // Closing price
	Volume   float64   `json:"volume"`             // Traded volume (fractional for crypto pairs)
}
