// Package consensus combines the per-strategy candidates into one stop-loss /
// take-profit pair. All candidates carry equal weight.
package consensus

import (
	"math"
	"sort"

	"tradedesk/internal/feature/analysis/domain/entity"
)

// MinDisplacement is the distance from price below which a candidate counts as "no signal".
const MinDisplacement = 0.01

// conservativeN is how many candidates ModeConservative averages.
const conservativeN = 3

// Aggregate validates each candidate against price and side and combines the valid ones.
// A side with no valid candidate is NaN. SideAuto is treated as long.
// results is not modified; the returned Consensus carries an annotated copy.
func Aggregate(results []entity.StrategyResult, price float64, side entity.Side, mode entity.Mode) entity.Consensus {
	if side != entity.SideShort {
		side = entity.SideLong
	}
	if mode != entity.ModeConservative {
		mode = entity.ModeMean
	}

	out := entity.Consensus{
		Side:       side,
		Mode:       mode,
		Entry:      price,
		StopLoss:   math.NaN(),
		TakeProfit: math.NaN(),
		RiskReward: math.NaN(),
		Results:    make([]entity.StrategyResult, len(results)),
	}
	copy(out.Results, results)
	if !finite(price) {
		return out
	}

	var sls, tps []float64
	for i := range out.Results {
		r := &out.Results[i]
		r.ValidSL = ValidStopLoss(r.StopLoss, price, side)
		r.ValidTP = ValidTakeProfit(r.TakeProfit, price, side)
		if r.ValidSL {
			sls = append(sls, r.StopLoss)
		}
		if r.ValidTP {
			tps = append(tps, r.TakeProfit)
		}
	}
	out.ValidSL, out.ValidTP = len(sls), len(tps)
	out.StopLoss = combine(sls, price, mode)
	out.TakeProfit = combine(tps, price, mode)
	out.RiskReward = RiskReward(price, out.StopLoss, out.TakeProfit, side)
	return out
}

// ValidStopLoss reports whether sl is finite and on the protective side of price by more than MinDisplacement.
func ValidStopLoss(sl, price float64, side entity.Side) bool {
	if !finite(sl) {
		return false
	}
	if side == entity.SideShort {
		return sl-price > MinDisplacement
	}
	return price-sl > MinDisplacement
}

// ValidTakeProfit reports whether tp is finite and on the profit side of price by more than MinDisplacement.
func ValidTakeProfit(tp, price float64, side entity.Side) bool {
	if !finite(tp) {
		return false
	}
	if side == entity.SideShort {
		return price-tp > MinDisplacement
	}
	return tp-price > MinDisplacement
}

// RiskReward is reward / risk, or NaN when either side is missing.
func RiskReward(price, sl, tp float64, side entity.Side) float64 {
	risk, reward := price-sl, tp-price
	if side == entity.SideShort {
		risk, reward = sl-price, price-tp
	}
	if !finite(risk) || !finite(reward) || risk <= 0 {
		return math.NaN()
	}
	return reward / risk
}

func combine(vs []float64, price float64, mode entity.Mode) float64 {
	if len(vs) == 0 {
		return math.NaN()
	}
	if mode == entity.ModeConservative && len(vs) > conservativeN {
		vs = closest(vs, price, conservativeN)
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// closest returns the n values nearest to price, in ascending order of distance.
func closest(vs []float64, price float64, n int) []float64 {
	sorted := make([]float64, len(vs))
	copy(sorted, vs)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := math.Abs(sorted[i]-price), math.Abs(sorted[j]-price)
		if di != dj {
			return di < dj
		}
		return sorted[i] < sorted[j]
	})
	return sorted[:n]
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
