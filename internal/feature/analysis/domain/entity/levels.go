// Package entity defines the value objects produced by one analysis request.
package entity

import "math"

// Side is the direction a stop-loss / take-profit pair is computed for.
type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
	// SideAuto lets the analysis pick the side from the sign of the fusion score.
	SideAuto Side = "auto"
)

// ParseSide returns the side named by s ("" means auto).
func ParseSide(s string) (Side, bool) {
	switch Side(s) {
	case "", SideAuto:
		return SideAuto, true
	case SideLong, SideShort:
		return Side(s), true
	}
	return "", false
}

// Levels is one candidate stop-loss / take-profit pair. NaN means "no signal".
type Levels struct {
	StopLoss   float64
	TakeProfit float64
}

// NoSignal is returned by a strategy whose gate did not open.
func NoSignal() Levels {
	return Levels{StopLoss: math.NaN(), TakeProfit: math.NaN()}
}

// Defined reports whether at least one side carries a number.
func (l Levels) Defined() bool {
	return !math.IsNaN(l.StopLoss) || !math.IsNaN(l.TakeProfit)
}

// StrategyResult is the output of one named strategy for the latest bar.
type StrategyResult struct {
	Name       string  `json:"name"`
	StopLoss   float64 `json:"stop_loss"`
	TakeProfit float64 `json:"take_profit"`
	Triggered  bool    `json:"triggered"`
	// Valid flags are filled in by the consensus aggregator.
	ValidSL bool `json:"valid_sl"`
	ValidTP bool `json:"valid_tp"`
}

// Mode selects how valid candidates are combined.
type Mode string

const (
	// ModeMean averages every valid candidate.
	ModeMean Mode = "mean"
	// ModeConservative averages the three candidates closest to price.
	ModeConservative Mode = "conservative3"
)

// ParseMode returns the mode named by s ("" means mean).
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case "", ModeMean:
		return ModeMean, true
	case ModeConservative:
		return ModeConservative, true
	}
	return "", false
}

// Consensus is the combined stop-loss / take-profit for one side.
// StopLoss, TakeProfit and RiskReward are NaN when not available.
type Consensus struct {
	Side       Side             `json:"side"`
	Mode       Mode             `json:"mode"`
	Entry      float64          `json:"entry"`
	StopLoss   float64          `json:"stop_loss"`
	TakeProfit float64          `json:"take_profit"`
	RiskReward float64          `json:"risk_reward"`
	ValidSL    int              `json:"valid_sl"`
	ValidTP    int              `json:"valid_tp"`
	Results    []StrategyResult `json:"results"`
}
