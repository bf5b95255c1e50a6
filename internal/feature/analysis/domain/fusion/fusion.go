// Package fusion fuses indicator sub-scores into one total and an action label.
//
// Sub-scores use fixed thresholds. They are grouped (technical, fundamental,
// flow), each group is rescaled to +/-10 by its largest possible magnitude, and
// the groups are combined with fixed weights. Groups without data are dropped
// and the remaining weights renormalised. Sums always run over sorted names so
// the total does not depend on evaluation order.
package fusion

import (
	"fmt"
	"math"
	"sort"

	"tradedesk/internal/feature/analysis/domain/entity"
	"tradedesk/internal/feature/analysis/domain/indicator"
)

// Sub-score names.
const (
	Trend       = "trend"
	Momentum    = "momentum"
	Volume      = "volume"
	Volatility  = "volatility"
	Fundamental = "fundamental"
	Chips       = "chips"
	Structure   = "structure"
)

// Group names.
const (
	GroupTechnical   = "technical"
	GroupFundamental = "fundamental"
	GroupFlow        = "flow"
)

// Weights of each group in the total.
var Weights = map[string]float64{
	GroupTechnical:   0.55,
	GroupFundamental: 0.20,
	GroupFlow:        0.25,
}

// maxMagnitude is the largest absolute value each sub-score can take.
var maxMagnitude = map[string]float64{
	Trend:       2 * 1.2,
	Momentum:    1 + 1.5,
	Volume:      1 + 1.5,
	Volatility:  1,
	Fundamental: 2,
	Chips:       1,
	Structure:   2,
}

var groupOf = map[string]string{
	Trend:       GroupTechnical,
	Momentum:    GroupTechnical,
	Volatility:  GroupTechnical,
	Structure:   GroupTechnical,
	Fundamental: GroupFundamental,
	Volume:      GroupFlow,
	Chips:       GroupFlow,
}

// Action thresholds on the total (range -10 .. +10).
const (
	StrongBuyAbove  = 4.0
	BuyAbove        = 1.5
	SellBelow       = -1.5
	StrongSellBelow = -4.0
	// confidenceSlope maps |total| onto confidence points above 50.
	confidenceSlope = 5.0
)

// Input is everything the fusion reads.
type Input struct {
	Latest   indicator.Bar
	Previous indicator.Bar
	// Valid is false when fewer than two bars with every indicator defined exist.
	Valid        bool
	Fundamentals *entity.Fundamentals
	Chips        *entity.ChipData
	// Fibonacci adds the structure sub-score when set.
	Fibonacci *entity.Fibonacci
}

// FromFrame picks the two most recent fully defined bars of f.
func FromFrame(f *indicator.Frame, fund *entity.Fundamentals, chips *entity.ChipData) Input {
	in := Input{Fundamentals: fund, Chips: chips}
	if f == nil {
		return in
	}
	latest, prev, ok := f.LastValid(indicator.FusionColumns...)
	if !ok {
		return in
	}
	in.Latest, in.Previous, in.Valid = f.Bar(latest), f.Bar(prev), true
	return in
}

// Evaluate computes the fusion score. It is pure and deterministic.
func Evaluate(in Input) entity.Fusion {
	if !in.Valid {
		return entity.Fusion{
			Action:    entity.ActionInsufficientData,
			SubScores: map[string]float64{},
			Groups:    map[string]float64{},
			Reasons:   []string{"not enough bars with every indicator defined"},
		}
	}

	var reasons []string
	note := func(format string, args ...any) { reasons = append(reasons, fmt.Sprintf(format, args...)) }

	sub := map[string]float64{
		Trend:      trend(in.Latest, note),
		Momentum:   momentum(in.Latest, in.Previous, note),
		Volume:     volume(in.Latest, note),
		Volatility: volatility(in.Latest, note),
	}
	if in.Chips != nil {
		sub[Chips] = chips(*in.Chips, note)
	}
	if in.Fibonacci != nil {
		sub[Structure] = structure(*in.Fibonacci, note)
	}
	if in.Fundamentals != nil {
		pts, maxPts := FundamentalPoints(*in.Fundamentals)
		sub[Fundamental] = 4*float64(pts)/float64(maxPts) - 2
		note("fundamentals %d/%d points", pts, maxPts)
	}

	groups := Groups(sub)
	total := Total(groups)
	return entity.Fusion{
		Total:      total,
		SubScores:  sub,
		Groups:     groups,
		Action:     ActionFor(total),
		Confidence: Confidence(total),
		Reasons:    reasons,
	}
}

// Groups sums the present sub-scores per group and rescales each group to +/-10.
func Groups(sub map[string]float64) map[string]float64 {
	raw := map[string]float64{}
	span := map[string]float64{}
	for _, name := range sortedKeys(sub) {
		g, ok := groupOf[name]
		if !ok {
			continue
		}
		raw[g] += sub[name]
		span[g] += maxMagnitude[name]
	}
	out := make(map[string]float64, len(raw))
	for g, v := range raw {
		if span[g] > 0 {
			out[g] = v / span[g] * 10
		}
	}
	return out
}

// Total is the weighted mean of the present groups.
func Total(groups map[string]float64) float64 {
	var sum, wsum float64
	for _, g := range sortedKeys(groups) {
		w := Weights[g]
		sum += w * groups[g]
		wsum += w
	}
	if wsum == 0 {
		return 0
	}
	return sum / wsum
}

// ActionFor maps a total onto the action label.
func ActionFor(total float64) entity.Action {
	switch {
	case total > StrongBuyAbove:
		return entity.ActionStrongBuy
	case total > BuyAbove:
		return entity.ActionBuy
	case total < StrongSellBelow:
		return entity.ActionStrongSell
	case total < SellBelow:
		return entity.ActionSell
	default:
		return entity.ActionNeutral
	}
}

// Confidence is 50 + |total| * 5 clamped to [0, 100]. NaN yields 0.
func Confidence(total float64) float64 {
	if math.IsNaN(total) {
		return 0
	}
	return math.Max(0, math.Min(100, 50+math.Abs(total)*confidenceSlope))
}

func trend(b indicator.Bar, note func(string, ...any)) float64 {
	var s float64
	switch {
	case b.EMA10 > b.EMA50 && b.EMA50 > b.EMA200:
		s = 2
		note("bullish EMA stack (10 > 50 > 200)")
	case b.EMA10 < b.EMA50 && b.EMA50 < b.EMA200:
		s = -2
		note("bearish EMA stack (10 < 50 < 200)")
	}
	if s != 0 && b.ADX > 25 {
		s *= 1.2
		note("trend confirmed by ADX %.1f", b.ADX)
	}
	return s
}

func momentum(b, prev indicator.Bar, note func(string, ...any)) float64 {
	var s float64
	switch {
	case b.RSI > 50:
		s++
	case b.RSI < 50:
		s--
	}
	h, ph := b.MACDHist, prev.MACDHist
	if h*ph > 0 && math.Abs(h) > math.Abs(ph) {
		if h > 0 {
			s += 1.5
			note("MACD histogram expanding above zero")
		} else {
			s -= 1.5
			note("MACD histogram expanding below zero")
		}
	}
	return s
}

// volume reads CMF as trend-following and MFI extremes as contrarian.
func volume(b indicator.Bar, note func(string, ...any)) float64 {
	var s float64
	switch {
	case b.CMF > 0:
		s++
	case b.CMF < 0:
		s--
	}
	switch {
	case b.MFI < 20:
		s += 1.5
		note("MFI oversold (%.1f)", b.MFI)
	case b.MFI > 80:
		s -= 1.5
		note("MFI overbought (%.1f)", b.MFI)
	}
	return s
}

// volatility is contrarian: a close outside the band expects reversion.
func volatility(b indicator.Bar, note func(string, ...any)) float64 {
	switch {
	case b.Close < b.BBLower:
		note("close below lower Bollinger band")
		return 1
	case b.Close > b.BBUpper:
		note("close above upper Bollinger band")
		return -1
	}
	return 0
}

func chips(c entity.ChipData, note func(string, ...any)) float64 {
	switch {
	case c.InstitutionalNetPct > 5:
		note("institutional net buying %.1f%%", c.InstitutionalNetPct)
		return 1
	case c.InstitutionalNetPct < -5:
		note("institutional net selling %.1f%%", -c.InstitutionalNetPct)
		return -1
	}
	return 0
}

// structure rewards a pullback into the 0.5 - 0.786 zone in the swing direction.
func structure(f entity.Fibonacci, note func(string, ...any)) float64 {
	switch f.Structure {
	case entity.StructureBuyZone:
		note("price in the 0.5-0.786 retracement zone of an up swing")
		return 2
	case entity.StructureSellZone:
		note("price in the 0.5-0.786 retracement zone of a down swing")
		return -2
	}
	return 0
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
