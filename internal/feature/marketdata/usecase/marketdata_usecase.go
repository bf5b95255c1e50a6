// Package usecase はマーケットデータ（OHLCV）取得のビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"tradedesk/internal/feature/marketdata/domain/entity"
	"tradedesk/internal/shared/failure"
)

// validSymbol は銘柄コードに許可される文字パターンです（例: AAPL, 2330.TW, BTC-USD, ^TWII）。
var validSymbol = regexp.MustCompile(`^\^?[A-Z0-9][A-Z0-9.\-=]{0,19}$`)

// MarketRepository は株価データを取得するリポジトリのインターフェイスです。
// 外部 API の実装を抽象化します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketRepository interface {
	// Fetch は rng（取得期間）と interval（足の間隔）を指定して時系列データを古い順に返します。
	Fetch(ctx context.Context, symbol, rng, interval string) ([]entity.Candle, error)
}

// MarketdataUsecase は時間足メニューに従って価格系列を取得するユースケースです。
type MarketdataUsecase struct {
	market MarketRepository
}

// NewMarketdataUsecase は新しい MarketdataUsecase を作成します。
func NewMarketdataUsecase(market MarketRepository) *MarketdataUsecase {
	return &MarketdataUsecase{market: market}
}

// NormalizeSymbol は銘柄コードを大文字に正規化し、形式を検証します。
func NormalizeSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if !validSymbol.MatchString(s) {
		return "", failure.Invalid("symbol", "invalid symbol %q", symbol)
	}
	return s, nil
}

// GetSeries は指定された銘柄・時間足の価格系列を取得します。
// 4時間足のようにプロバイダが直接提供しない時間足は、取得後に集約します。
func (u *MarketdataUsecase) GetSeries(ctx context.Context, symbol, timeframe string) ([]entity.Candle, entity.Timeframe, error) {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, entity.Timeframe{}, err
	}
	tf, ok := entity.LookupTimeframe(timeframe)
	if !ok {
		return nil, entity.Timeframe{}, failure.Invalid("timeframe", "unknown timeframe %q", timeframe)
	}

	cs, err := u.market.Fetch(ctx, sym, tf.Range, tf.Interval)
	if err != nil {
		return nil, tf, fmt.Errorf("fetch %s %s: %w", sym, tf.Key, err)
	}
	if len(cs) == 0 {
		return nil, tf, failure.InsufficientData("get series", "no data returned for %s (%s)", sym, tf.Key)
	}

	if tf.Resample > 0 {
		cs = Resample(cs, tf.Resample)
	}
	for i := range cs {
		cs[i].Symbol = sym
		cs[i].Interval = tf.BarInterval()
	}
	return cs, tf, nil
}
