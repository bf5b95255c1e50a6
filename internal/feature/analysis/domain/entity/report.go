package entity

import (
	"time"

	mdentity "tradedesk/internal/feature/marketdata/domain/entity"
)

// FibLevel is one retracement or extension price.
type FibLevel struct {
	Ratio float64 `json:"ratio"`
	Label string  `json:"label"`
	Price float64 `json:"price"`
}

// Fibonacci describes the swing structure of the recent window.
type Fibonacci struct {
	Trend     string     `json:"trend"` // "up" when the swing high came after the swing low
	SwingHigh float64    `json:"swing_high"`
	SwingLow  float64    `json:"swing_low"`
	Levels    []FibLevel `json:"levels"`
	// EntryLow / EntryHigh bound the 0.5 - 0.786 retracement zone.
	EntryLow  float64 `json:"entry_low"`
	EntryHigh float64 `json:"entry_high"`
	InZone    bool    `json:"in_zone"`
	// Structure is StructureBuyZone when an up swing has retraced into the
	// entry zone, StructureSellZone for the mirror case, else StructureNeutral.
	Structure string `json:"structure"`
	// PriorSwing is the first target: the swing high of an up swing, the swing low of a down swing.
	PriorSwing float64 `json:"prior_swing"`
}

// Fibonacci structure signals.
const (
	StructureNeutral  = "neutral"
	StructureBuyZone  = "buy_zone"
	StructureSellZone = "sell_zone"
)

// Report is the complete result of one analysis request.
type Report struct {
	RequestID    string               `json:"request_id"`
	Symbol       string               `json:"symbol"`
	Name         string               `json:"name"`
	Timeframe    string               `json:"timeframe"`
	Interval     string               `json:"interval"`
	GeneratedAt  time.Time            `json:"generated_at"`
	Price        float64              `json:"price"`
	Change       float64              `json:"change"`
	ChangePct    float64              `json:"change_pct"`
	Consensus    Consensus            `json:"consensus"`
	Fusion       Fusion               `json:"fusion"`
	Fundamentals *Fundamentals        `json:"fundamentals,omitempty"`
	Fibonacci    *Fibonacci           `json:"fibonacci,omitempty"`
	Backtest     Backtest             `json:"backtest"`
	Candles      []mdentity.Candle    `json:"candles"`
	Series       map[string][]float64 `json:"series"`
}

// Price returns the level for ratio (retracements 0 - 1, extensions above 1).
func (f Fibonacci) Price(ratio float64) (float64, bool) {
	for _, l := range f.Levels {
		if l.Ratio == ratio {
			return l.Price, true
		}
	}
	return 0, false
}

// BacktestReport is the result of a standalone backtest request.
type BacktestReport struct {
	RequestID   string    `json:"request_id"`
	Symbol      string    `json:"symbol"`
	Name        string    `json:"name"`
	Timeframe   string    `json:"timeframe"`
	Interval    string    `json:"interval"`
	GeneratedAt time.Time `json:"generated_at"`
	Backtest    Backtest  `json:"backtest"`
}
