package strategy

import (
	"fmt"

	"tradedesk/internal/feature/analysis/domain/entity"
	"tradedesk/internal/feature/analysis/domain/indicator"
)

// FibLookback is the window searched for the swing high and low.
const FibLookback = 50

const (
	TrendUp   = "up"
	TrendDown = "down"
)

var (
	retracements = []float64{0, 0.236, 0.382, 0.5, 0.618, 0.786, 1}
	extensions   = []float64{1.272, 1.618, 2}
)

// FibonacciLevels finds the swing high and low of the last lookback bars and
// derives retracement and extension prices. The trend is up when the swing high
// came after the swing low (first occurrence wins ties). ok is false when the
// window is empty or flat.
func FibonacciLevels(f *indicator.Frame, lookback int) (entity.Fibonacci, bool) {
	n := f.Len()
	if n == 0 || lookback < 2 {
		return entity.Fibonacci{}, false
	}
	start := max(0, n-lookback)

	hiIdx, loIdx := start, start
	for i := start + 1; i < n; i++ {
		if f.High[i] > f.High[hiIdx] {
			hiIdx = i
		}
		if f.Low[i] < f.Low[loIdx] {
			loIdx = i
		}
	}
	high, low := f.High[hiIdx], f.Low[loIdx]
	diff := high - low
	if !finite(diff) || diff <= 0 {
		return entity.Fibonacci{}, false
	}

	fib := entity.Fibonacci{SwingHigh: high, SwingLow: low, Trend: TrendDown}
	if hiIdx > loIdx {
		fib.Trend = TrendUp
	}

	// up: retrace down from the high, extend above it. down: the mirror image.
	anchor, dir := high, -1.0
	if fib.Trend == TrendDown {
		anchor, dir = low, 1.0
	}
	for _, r := range retracements {
		fib.Levels = append(fib.Levels, entity.FibLevel{Ratio: r, Label: fmt.Sprintf("%g", r), Price: anchor + dir*r*diff})
	}
	for _, r := range extensions {
		fib.Levels = append(fib.Levels, entity.FibLevel{Ratio: r, Label: fmt.Sprintf("Ext %g", r), Price: anchor - dir*(r-1)*diff})
	}

	p50, _ := fib.Price(0.5)
	p786, _ := fib.Price(0.786)
	fib.EntryLow, fib.EntryHigh = min(p50, p786), max(p50, p786)
	c := f.Close[n-1]
	fib.InZone = c >= fib.EntryLow && c <= fib.EntryHigh

	fib.Structure, fib.PriorSwing = entity.StructureNeutral, high
	if fib.Trend == TrendDown {
		fib.PriorSwing = low
	}
	if fib.InZone {
		fib.Structure = entity.StructureBuyZone
		if fib.Trend == TrendDown {
			fib.Structure = entity.StructureSellZone
		}
	}
	return fib, true
}
