package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedesk/internal/feature/marketdata/domain/entity"
	"tradedesk/internal/feature/marketdata/usecase"
	"tradedesk/internal/shared/failure"
)

// ErrUpstream はモックと期待値の間で共有されるセンチネルエラーです。
var ErrUpstream = errors.New("upstream error")

// mockMarketRepository はMarketRepositoryインターフェースのモック実装です。
type mockMarketRepository struct {
	FetchFunc  func(ctx context.Context, symbol, rng, interval string) ([]entity.Candle, error)
	FetchCalls int
}

func (m *mockMarketRepository) Fetch(ctx context.Context, symbol, rng, interval string) ([]entity.Candle, error) {
	m.FetchCalls++
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, symbol, rng, interval)
	}
	return nil, errors.New("FetchFunc is not implemented")
}

func hourly(n int, start time.Time) []entity.Candle {
	out := make([]entity.Candle, n)
	for i := range out {
		p := 100 + float64(i)
		out[i] = entity.Candle{Time: start.Add(time.Duration(i) * time.Hour), Open: p, High: p + 1, Low: p - 1, Close: p + 0.5, Volume: 10}
	}
	return out
}

func TestMarketdataUsecase_GetSeries(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name          string
		symbol        string
		timeframe     string
		fetch         func(ctx context.Context, symbol, rng, interval string) ([]entity.Candle, error)
		wantRange     string
		wantInterval  string
		wantLen       int
		wantKind      failure.Kind
		wantFetchCall int
	}{
		{
			name:      "success: default timeframe is daily",
			symbol:    "aapl",
			timeframe: "",
			fetch: func(ctx context.Context, symbol, rng, interval string) ([]entity.Candle, error) {
				return hourly(5, start), nil
			},
			wantRange:     "2y",
			wantInterval:  "1d",
			wantLen:       5,
			wantFetchCall: 1,
		},
		{
			name:      "success: 4h is resampled from 60m",
			symbol:    "2330.TW",
			timeframe: "4h",
			fetch: func(ctx context.Context, symbol, rng, interval string) ([]entity.Candle, error) {
				return hourly(8, start), nil
			},
			wantRange:     "1y",
			wantInterval:  "4h",
			wantLen:       2,
			wantFetchCall: 1,
		},
		{
			name:          "error: unknown timeframe",
			symbol:        "AAPL",
			timeframe:     "3d",
			wantKind:      failure.KindInvalidInput,
			wantFetchCall: 0,
		},
		{
			name:          "error: invalid symbol",
			symbol:        "AAPL; DROP",
			timeframe:     "1d",
			wantKind:      failure.KindInvalidInput,
			wantFetchCall: 0,
		},
		{
			name:      "error: empty result is insufficient data",
			symbol:    "BTC-USD",
			timeframe: "1d",
			fetch: func(ctx context.Context, symbol, rng, interval string) ([]entity.Candle, error) {
				return nil, nil
			},
			wantKind:      failure.KindInsufficientData,
			wantFetchCall: 1,
		},
		{
			name:      "error: repository failure keeps its kind",
			symbol:    "^TWII",
			timeframe: "1wk",
			fetch: func(ctx context.Context, symbol, rng, interval string) ([]entity.Candle, error) {
				return nil, failure.Fetch("yahoo", ErrUpstream)
			},
			wantKind:      failure.KindFetchFailure,
			wantFetchCall: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockMarketRepository{
				FetchFunc: func(ctx context.Context, symbol, rng, interval string) ([]entity.Candle, error) {
					if tc.wantRange != "" {
						assert.Equal(t, tc.wantRange, rng)
					}
					return tc.fetch(ctx, symbol, rng, interval)
				},
			}
			uc := usecase.NewMarketdataUsecase(repo)

			cs, tf, err := uc.GetSeries(ctx, tc.symbol, tc.timeframe)

			assert.Equal(t, tc.wantFetchCall, repo.FetchCalls)
			if tc.wantKind != failure.KindUnknown {
				require.Error(t, err)
				assert.Equal(t, tc.wantKind, failure.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Len(t, cs, tc.wantLen)
			assert.Equal(t, tc.wantInterval, tf.BarInterval())
			for _, c := range cs {
				assert.Equal(t, tc.wantInterval, c.Interval)
				assert.NotEmpty(t, c.Symbol)
			}
		})
	}
}

func TestNormalizeSymbol(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"tsla", "TSLA", false},
		{" 2330.tw ", "2330.TW", false},
		{"btc-usd", "BTC-USD", false},
		{"^twii", "^TWII", false},
		{"", "", true},
		{"../etc", "", true},
		{"ABCDEFGHIJKLMNOPQRSTUVWXYZ", "", true},
	}
	for _, tt := range tests {
		got, err := usecase.NormalizeSymbol(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}
