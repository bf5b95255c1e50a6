// Package strategy holds the closed set of rule-based stop-loss / take-profit
// strategies. Each rule is a pure function of an indicator frame and a side:
// it reads the latest bar and returns either a candidate pair or NaN levels
// when its gate is closed. Rules never modify the frame.
package strategy

import (
	"math"

	"tradedesk/internal/feature/analysis/domain/entity"
	"tradedesk/internal/feature/analysis/domain/indicator"
)

// Name identifies one strategy variant.
type Name string

const (
	SupportResistance Name = "support_resistance"
	Bollinger         Name = "bollinger"
	Keltner           Name = "keltner"
	Donchian          Name = "donchian"
	ATR               Name = "atr"
	Ichimoku          Name = "ichimoku"
	MACrossover       Name = "ma_crossover"
	VWAP              Name = "vwap"
	ParabolicSAR      Name = "parabolic_sar"
	Fibonacci         Name = "fibonacci"
	RSIReversal       Name = "rsi_reversal"
	PivotPoints       Name = "pivot_points"
)

// Input is what every rule receives.
type Input struct {
	Frame *indicator.Frame
	Side  entity.Side
}

func (in Input) long() bool { return in.Side != entity.SideShort }

// Rule computes the candidate levels for the latest bar of in.Frame.
type Rule func(in Input) entity.Levels

// Order is the fixed evaluation and display order.
var Order = []Name{
	SupportResistance,
	Bollinger,
	Keltner,
	Donchian,
	ATR,
	Ichimoku,
	MACrossover,
	VWAP,
	ParabolicSAR,
	Fibonacci,
	RSIReversal,
	PivotPoints,
}

var rules = map[Name]Rule{
	SupportResistance: supportResistance,
	Bollinger:         bollinger,
	Keltner:           keltner,
	Donchian:          donchian,
	ATR:               atrBands,
	Ichimoku:          ichimoku,
	MACrossover:       maCrossover,
	VWAP:              vwap,
	ParabolicSAR:      parabolicSAR,
	Fibonacci:         fibonacci,
	RSIReversal:       rsiReversal,
	PivotPoints:       pivotPoints,
}

// lookup returns the rule registered under name.
func lookup(name Name) (Rule, bool) {
	r, ok := rules[name]
	return r, ok
}

// Run evaluates every strategy in Order. SideAuto is treated as long.
func Run(f *indicator.Frame, side entity.Side) []entity.StrategyResult {
	if side != entity.SideShort {
		side = entity.SideLong
	}
	in := Input{Frame: f, Side: side}

	out := make([]entity.StrategyResult, 0, len(Order))
	for _, name := range Order {
		lv := entity.NoSignal()
		if rule, ok := lookup(name); ok && f != nil && f.Len() > 0 {
			lv = rule(in)
		}
		out = append(out, entity.StrategyResult{
			Name:       string(name),
			StopLoss:   lv.StopLoss,
			TakeProfit: lv.TakeProfit,
			Triggered:  lv.Defined(),
		})
	}
	return out
}

// levels builds the result, collapsing to NoSignal if any input is NaN or infinite.
func levels(sl, tp float64) entity.Levels {
	if !finite(sl) || !finite(tp) {
		return entity.NoSignal()
	}
	return entity.Levels{StopLoss: sl, TakeProfit: tp}
}

// riskMultiple places TP at close plus k times the distance to SL.
func riskMultiple(long bool, close, sl, k float64) entity.Levels {
	if long {
		risk := close - sl
		if !(risk > 0) {
			return entity.NoSignal()
		}
		return levels(sl, close+k*risk)
	}
	risk := sl - close
	if !(risk > 0) {
		return entity.NoSignal()
	}
	return levels(sl, close-k*risk)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// at reads s[i] or NaN.
func at(s []float64, i int) float64 {
	if i < 0 || i >= len(s) {
		return math.NaN()
	}
	return s[i]
}
