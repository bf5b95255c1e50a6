package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tradedesk/internal/shared/failure"
)

// Invalidator はキャッシュを持つ MarketRepository が実装します。
type Invalidator interface {
	// Invalidate は銘柄のキャッシュを期間・間隔に関係なく破棄します。
	Invalidate(ctx context.Context, symbol string) error
}

// WarmResult は事前取得の結果件数です。
type WarmResult struct {
	Fetched int `json:"fetched"`
	Skipped int `json:"skipped"` // データなし（InsufficientData）
	Failed  int `json:"failed"`
}

// Warm は指定された全銘柄・全時間足の価格系列を取得し、キャッシュを温めます。
// データなしの銘柄はスキップし、それ以外の失敗はまとめて返します。
// 取得間隔はプロバイダ側のレートリミッターに任せます。
func (u *MarketdataUsecase) Warm(ctx context.Context, symbols, timeframes []string) (WarmResult, error) {
	var (
		res  WarmResult
		errs []error
	)
	for _, s := range symbols {
		for _, tf := range timeframes {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			_, _, err := u.GetSeries(ctx, s, tf)
			switch {
			case err == nil:
				res.Fetched++
			case failure.KindOf(err) == failure.KindInsufficientData:
				res.Skipped++
				slog.InfoContext(ctx, "warm skipped", "symbol", s, "timeframe", tf, "error", err)
			default:
				res.Failed++
				errs = append(errs, fmt.Errorf("%s %s: %w", s, tf, err))
			}
		}
	}
	return res, errors.Join(errs...)
}

// Invalidate は各銘柄のキャッシュを破棄します。リポジトリがキャッシュを持たない場合は何もしません。
func (u *MarketdataUsecase) Invalidate(ctx context.Context, symbols ...string) error {
	inv, ok := u.market.(Invalidator)
	if !ok {
		return nil
	}
	for _, s := range symbols {
		sym, err := NormalizeSymbol(s)
		if err != nil {
			return err
		}
		if err := inv.Invalidate(ctx, sym); err != nil {
			return fmt.Errorf("invalidate %s: %w", sym, err)
		}
	}
	return nil
}
