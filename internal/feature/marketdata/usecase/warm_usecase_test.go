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
)

func TestMarketdataUsecase_Warm(t *testing.T) {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	repo := &mockMarketRepository{
		FetchFunc: func(ctx context.Context, symbol, rng, interval string) ([]entity.Candle, error) {
			switch symbol {
			case "EMPTY":
				return nil, nil
			case "DOWN":
				return nil, errors.New("upstream unavailable")
			}
			return hourly(10, start), nil
		},
	}
	uc := usecase.NewMarketdataUsecase(repo)

	res, err := uc.Warm(context.Background(), []string{"AAPL", "EMPTY", "DOWN"}, []string{"1d", "1h"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DOWN 1d")
	assert.Contains(t, err.Error(), "DOWN 1h")
	assert.Equal(t, usecase.WarmResult{Fetched: 2, Skipped: 2, Failed: 2}, res)
	assert.Equal(t, 6, repo.FetchCalls)
}

func TestMarketdataUsecase_Warm_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	repo := &mockMarketRepository{}
	uc := usecase.NewMarketdataUsecase(repo)

	_, err := uc.Warm(ctx, []string{"AAPL"}, []string{"1d"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, repo.FetchCalls)
}

// invalidatingRepository はキャッシュ付きリポジトリのモックです。
type invalidatingRepository struct {
	mockMarketRepository
	InvalidateFunc  func(ctx context.Context, symbol string) error
	InvalidateCalls []string
}

func (m *invalidatingRepository) Invalidate(ctx context.Context, symbol string) error {
	m.InvalidateCalls = append(m.InvalidateCalls, symbol)
	if m.InvalidateFunc != nil {
		return m.InvalidateFunc(ctx, symbol)
	}
	return nil
}

func TestMarketdataUsecase_Invalidate(t *testing.T) {
	tests := []struct {
		name      string
		symbols   []string
		invErr    error
		wantErr   string
		wantCalls []string
	}{
		{
			name:      "success: symbols are normalized before invalidation",
			symbols:   []string{"aapl", " 2330.tw "},
			wantCalls: []string{"AAPL", "2330.TW"},
		},
		{
			name:    "error: invalid symbol stops before touching the cache",
			symbols: []string{"bad symbol!"},
			wantErr: "invalid symbol",
		},
		{
			name:      "error: cache failure is wrapped with the symbol",
			symbols:   []string{"AAPL"},
			invErr:    errors.New("scan failed"),
			wantErr:   "invalidate AAPL: scan failed",
			wantCalls: []string{"AAPL"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &invalidatingRepository{InvalidateFunc: func(ctx context.Context, symbol string) error { return tt.invErr }}
			uc := usecase.NewMarketdataUsecase(repo)

			err := uc.Invalidate(context.Background(), tt.symbols...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, repo.InvalidateCalls)
		})
	}
}

func TestMarketdataUsecase_Invalidate_NoCache(t *testing.T) {
	uc := usecase.NewMarketdataUsecase(&mockMarketRepository{})
	assert.NoError(t, uc.Invalidate(context.Background(), "AAPL"))
}
