package dto_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedesk/internal/feature/analysis/domain/entity"
	"tradedesk/internal/feature/analysis/transport/http/dto"
)

func TestFloat(t *testing.T) {
	t.Parallel()

	assert.Nil(t, dto.Float(math.NaN()))
	assert.Nil(t, dto.Float(math.Inf(1)))
	assert.Nil(t, dto.Float(math.Inf(-1)))
	require.NotNil(t, dto.Float(1.5))
	assert.Equal(t, 1.5, *dto.Float(1.5))

	got := dto.Floats([]float64{math.NaN(), 2})
	require.Len(t, got, 2)
	assert.Nil(t, got[0])
	assert.Equal(t, 2.0, *got[1])
}

// TestNewReportResponse_MarshalsNaN verifies that a report full of NaN encodes without error.
func TestNewReportResponse_MarshalsNaN(t *testing.T) {
	t.Parallel()

	nan := math.NaN()
	r := &entity.Report{
		Symbol:    "BTC-USD",
		Price:     60000,
		Change:    nan,
		ChangePct: nan,
		Consensus: entity.Consensus{
			Side: entity.SideShort, Mode: entity.ModeMean, Entry: 60000,
			StopLoss: nan, TakeProfit: nan, RiskReward: nan,
			Results: []entity.StrategyResult{{Name: "vwap", StopLoss: nan, TakeProfit: nan}},
		},
		Fusion: entity.Fusion{Total: nan, Action: entity.ActionInsufficientData},
		Series: map[string][]float64{"rsi14": {nan, nan, 55}},
	}

	b, err := json.Marshal(dto.NewReportResponse(r, false))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"stop_loss":null`)
	assert.Contains(t, string(b), `"rsi14":[null,null,55]`)
	assert.Contains(t, string(b), `"label":"資料不足"`)
	assert.Contains(t, string(b), `"reasons":[]`)

	compact, err := json.Marshal(dto.NewReportResponse(r, true))
	require.NoError(t, err)
	assert.NotContains(t, string(compact), `"series"`)
}

func TestNewBacktestResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   entity.Backtest
		want string
	}{
		{
			name: "success: computable run carries its statistics",
			in:   entity.Backtest{Computable: true, InitialCapital: 100000, FinalCapital: 110000, TotalReturnPct: 10, WinRatePct: 50, MaxDrawdownPct: -4, Trades: 4},
			want: `"total_return_pct":10,"win_rate_pct":50,"max_drawdown_pct":-4`,
		},
		{
			name: "success: non-computable run encodes statistics as null",
			in:   entity.Backtest{Computable: false, Message: "no entry signal in this period"},
			want: `"total_return_pct":null,"win_rate_pct":null,"max_drawdown_pct":null`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b, err := json.Marshal(dto.NewBacktestResponse(tt.in))
			require.NoError(t, err)
			assert.Contains(t, string(b), tt.want)
			assert.Contains(t, string(b), `"round_trips":[]`)
		})
	}
}
