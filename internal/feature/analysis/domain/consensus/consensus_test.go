package consensus

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedesk/internal/feature/analysis/domain/entity"
)

var nan = math.NaN()

func rs(pairs ...[2]float64) []entity.StrategyResult {
	out := make([]entity.StrategyResult, len(pairs))
	for i, p := range pairs {
		out[i] = entity.StrategyResult{Name: string(rune('a' + i)), StopLoss: p[0], TakeProfit: p[1], Triggered: !math.IsNaN(p[0])}
	}
	return out
}

func TestAggregate_Mean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		results []entity.StrategyResult
		price   float64
		side    entity.Side
		wantSL  float64
		wantTP  float64
		wantRR  float64
		validSL int
		validTP int
	}{
		{
			name:    "long averages valid candidates only",
			results: rs([2]float64{90, 120}, [2]float64{94, 110}, [2]float64{nan, nan}, [2]float64{105, 95}),
			price:   100, side: entity.SideLong,
			wantSL: 92, wantTP: 115, wantRR: 15.0 / 8, validSL: 2, validTP: 2,
		},
		{
			name:    "collapsed to price is excluded",
			results: rs([2]float64{100, 100}, [2]float64{99.995, 100.005}, [2]float64{95, 110}),
			price:   100, side: entity.SideLong,
			wantSL: 95, wantTP: 110, wantRR: 2, validSL: 1, validTP: 1,
		},
		{
			name:    "short mirrors",
			results: rs([2]float64{110, 90}, [2]float64{106, 80}, [2]float64{95, 105}),
			price:   100, side: entity.SideShort,
			wantSL: 108, wantTP: 85, wantRR: 15.0 / 8, validSL: 2, validTP: 2,
		},
		{
			name:    "auto is long",
			results: rs([2]float64{90, 110}),
			price:   100, side: entity.SideAuto,
			wantSL: 90, wantTP: 110, wantRR: 1, validSL: 1, validTP: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := Aggregate(tt.results, tt.price, tt.side, entity.ModeMean)
			assert.InDelta(t, tt.wantSL, c.StopLoss, 1e-9)
			assert.InDelta(t, tt.wantTP, c.TakeProfit, 1e-9)
			assert.InDelta(t, tt.wantRR, c.RiskReward, 1e-9)
			assert.Equal(t, tt.validSL, c.ValidSL)
			assert.Equal(t, tt.validTP, c.ValidTP)
			assert.Equal(t, tt.price, c.Entry)
			assert.Len(t, c.Results, len(tt.results))
		})
	}
}

func TestAggregate_NoValidCandidateIsNaN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		results []entity.StrategyResult
	}{
		{"no results", nil},
		{"all NaN", rs([2]float64{nan, nan}, [2]float64{nan, nan})},
		{"all collapsed to price", rs([2]float64{100, 100}, [2]float64{100.01, 99.99})},
		{"wrong side", rs([2]float64{105, 95})},
		{"infinite", rs([2]float64{math.Inf(-1), math.Inf(1)})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := Aggregate(tt.results, 100, entity.SideLong, entity.ModeMean)
			assert.True(t, math.IsNaN(c.StopLoss), "SL must not be fabricated")
			assert.True(t, math.IsNaN(c.TakeProfit), "TP must not be fabricated")
			assert.True(t, math.IsNaN(c.RiskReward))
			assert.Zero(t, c.ValidSL)
		})
	}
}

func TestAggregate_OneSideMissing(t *testing.T) {
	t.Parallel()

	c := Aggregate(rs([2]float64{95, nan}), 100, entity.SideLong, entity.ModeMean)
	assert.Equal(t, 95.0, c.StopLoss)
	assert.True(t, math.IsNaN(c.TakeProfit))
	assert.True(t, math.IsNaN(c.RiskReward))
}

func TestAggregate_Conservative(t *testing.T) {
	t.Parallel()

	results := rs(
		[2]float64{80, 130},
		[2]float64{97, 104},
		[2]float64{95, 108},
		[2]float64{90, 106},
		[2]float64{85, 120},
	)

	c := Aggregate(results, 100, entity.SideLong, entity.ModeConservative)
	assert.Equal(t, entity.ModeConservative, c.Mode)
	assert.InDelta(t, (97.0+95+90)/3, c.StopLoss, 1e-9, "tightest three stops")
	assert.InDelta(t, (104.0+106+108)/3, c.TakeProfit, 1e-9, "least extended three targets")

	// fewer than three valid -> plain mean
	c = Aggregate(results[:2], 100, entity.SideLong, entity.ModeConservative)
	assert.InDelta(t, (80.0+97)/2, c.StopLoss, 1e-9)
}

func TestAggregate_SLStrictlyOnProtectiveSide(t *testing.T) {
	t.Parallel()

	results := rs([2]float64{99, 101}, [2]float64{101, 99}, [2]float64{98.5, 103}, [2]float64{102, 97})
	long := Aggregate(results, 100, entity.SideLong, entity.ModeMean)
	require.False(t, math.IsNaN(long.StopLoss))
	assert.Less(t, long.StopLoss, 100.0)
	assert.Greater(t, long.TakeProfit, 100.0)

	short := Aggregate(results, 100, entity.SideShort, entity.ModeMean)
	require.False(t, math.IsNaN(short.StopLoss))
	assert.Greater(t, short.StopLoss, 100.0)
	assert.Less(t, short.TakeProfit, 100.0)
}

func TestAggregate_IdempotentAndPure(t *testing.T) {
	t.Parallel()

	results := rs([2]float64{90, 120}, [2]float64{94, 110}, [2]float64{nan, nan})
	a := Aggregate(results, 100, entity.SideLong, entity.ModeMean)
	b := Aggregate(results, 100, entity.SideLong, entity.ModeMean)

	assert.Equal(t, math.Float64bits(a.StopLoss), math.Float64bits(b.StopLoss))
	assert.Equal(t, math.Float64bits(a.TakeProfit), math.Float64bits(b.TakeProfit))
	assert.Equal(t, math.Float64bits(a.RiskReward), math.Float64bits(b.RiskReward))
	for _, r := range results {
		assert.False(t, r.ValidSL, "input must not be annotated")
	}
	assert.True(t, a.Results[0].ValidSL)
	assert.False(t, a.Results[2].ValidTP)
}
