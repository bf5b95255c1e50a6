// Package fundamentals provides fundamentals snapshots for the fusion score.
//
// No fundamentals feed is wired yet, so Simulator derives plausible ratios
// from a hash of the symbol. The same symbol always yields the same snapshot.
package fundamentals

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"strings"

	"tradedesk/internal/feature/analysis/domain/entity"
)

// Simulator generates deterministic pseudo-random fundamentals per symbol.
type Simulator struct {
	// Extended adds dividend yield and free cash flow (0-9 point scale).
	Extended bool
}

// NewSimulator returns a Simulator. extended selects the 0-9 point variant.
func NewSimulator(extended bool) *Simulator {
	return &Simulator{Extended: extended}
}

// Fundamentals returns the snapshot for symbol, or nil for crypto pairs and
// indices, which have no company fundamentals.
func (s *Simulator) Fundamentals(_ context.Context, symbol string) (*entity.Fundamentals, error) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if sym == "" || strings.HasPrefix(sym, "^") || strings.HasSuffix(sym, "-USD") {
		return nil, nil
	}

	seed := Seed(sym)
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	f := &entity.Fundamentals{
		PE:            round2(between(r, 5, 45)),
		PEG:           round2(between(r, 0.3, 3)),
		ROE:           round2(between(r, -5, 40)),
		DebtToEquity:  round2(between(r, 5, 180)),
		RevenueGrowth: round2(between(r, -15, 45)),
		ProfitMargin:  round2(between(r, -5, 40)),
		CurrentRatio:  round2(between(r, 0.5, 3.5)),
		Simulated:     true,
	}
	if s.Extended {
		dy := round2(between(r, 0, 6))
		fcf := round2(between(r, -2e9, 2e10))
		f.DividendYield = &dy
		f.FreeCashFlow = &fcf
	}
	return f, nil
}

// Seed is the FNV-64a hash of the upper-cased symbol.
func Seed(symbol string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToUpper(symbol)))
	return h.Sum64()
}

func between(r *rand.Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
