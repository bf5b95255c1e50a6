package entity

import "time"

// EquityPoint is the mark-to-market capital at one bar.
type EquityPoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Trade is one completed round trip of the crossover strategy.
type Trade struct {
	EntryTime  time.Time `json:"entry_time"`
	ExitTime   time.Time `json:"exit_time"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price"`
	ReturnPct  float64   `json:"return_pct"`
	Forced     bool      `json:"forced"`
}

// Backtest is the result of one crossover simulation.
// When Computable is false only Message (and Trades, which is 0) carry meaning.
type Backtest struct {
	Computable     bool          `json:"computable"`
	Message        string        `json:"message,omitempty"`
	InitialCapital float64       `json:"initial_capital"`
	FinalCapital   float64       `json:"final_capital"`
	TotalReturnPct float64       `json:"total_return_pct"`
	WinRatePct     float64       `json:"win_rate_pct"`
	MaxDrawdownPct float64       `json:"max_drawdown_pct"`
	Trades         int           `json:"trades"`
	RoundTrips     []Trade       `json:"round_trips"`
	Equity         []EquityPoint `json:"equity"`
}
