// Package backtest simulates the SMA(20) / EMA(50) crossover strategy.
//
// The simulation has two states, flat and long. An up-cross buys with all
// capital, a down-cross sells everything, and commission is charged on each
// transition. A position still open on the last bar is closed at its close.
package backtest

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"tradedesk/internal/feature/analysis/domain/entity"
	"tradedesk/internal/feature/analysis/domain/indicator"
	mdentity "tradedesk/internal/feature/marketdata/domain/entity"
)

// MinBars is the shortest history the crossover can be evaluated on.
const MinBars = 51

const (
	fastPeriod = 20
	slowPeriod = 50
)

// Config holds the fixed simulation parameters.
type Config struct {
	InitialCapital float64
	CommissionRate float64 // per transition, e.g. 0.001 = 0.1%
}

// DefaultConfig is 100,000 of capital and 0.1% commission.
func DefaultConfig() Config {
	return Config{InitialCapital: 100000, CommissionRate: 0.001}
}

type state int

const (
	flat state = iota
	long
)

// Run simulates the crossover over candles.
func Run(candles []mdentity.Candle, cfg Config) entity.Backtest {
	if cfg.InitialCapital <= 0 {
		cfg.InitialCapital = DefaultConfig().InitialCapital
	}
	if cfg.CommissionRate < 0 {
		cfg.CommissionRate = 0
	}
	res := entity.Backtest{InitialCapital: cfg.InitialCapital, FinalCapital: cfg.InitialCapital}

	n := len(candles)
	if n < MinBars {
		res.Message = fmt.Sprintf("insufficient data: %d bars, need at least %d; choose a longer period", n, MinBars)
		return res
	}

	closes := make([]float64, n)
	for i, c := range candles {
		closes[i] = c.Close
	}
	fast := indicator.SMA(closes, fastPeriod)
	slow := indicator.EMA(closes, slowPeriod)

	one := decimal.NewFromInt(1)
	commission := decimal.NewFromFloat(cfg.CommissionRate)
	initial := decimal.NewFromFloat(cfg.InitialCapital)

	var (
		st         = flat
		cash       = initial
		units      = decimal.Zero
		entryValue decimal.Decimal
		entryIdx   int
		crossings  int
		wins       int
	)

	buy := func(i int) {
		price := decimal.NewFromFloat(closes[i])
		entryValue = cash
		cash = cash.Mul(one.Sub(commission))
		units = cash.Div(price)
		cash = decimal.Zero
		entryIdx = i
		st = long
		res.Trades++
	}
	sell := func(i int, forced bool) {
		price := decimal.NewFromFloat(closes[i])
		cash = units.Mul(price).Mul(one.Sub(commission))
		units = decimal.Zero
		st = flat
		res.Trades++

		if cash.GreaterThan(entryValue) {
			wins++
		}
		ret, _ := cash.Sub(entryValue).Div(entryValue).Mul(decimal.NewFromInt(100)).Float64()
		res.RoundTrips = append(res.RoundTrips, entity.Trade{
			EntryTime:  candles[entryIdx].Time,
			ExitTime:   candles[i].Time,
			EntryPrice: closes[entryIdx],
			ExitPrice:  closes[i],
			ReturnPct:  ret,
			Forced:     forced,
		})
	}

	res.Equity = make([]entity.EquityPoint, 0, n)
	for i := 0; i < n; i++ {
		if i > 0 && defined(fast[i], slow[i], fast[i-1], slow[i-1]) {
			up := fast[i-1] <= slow[i-1] && fast[i] > slow[i]
			down := fast[i-1] >= slow[i-1] && fast[i] < slow[i]
			if up || down {
				crossings++
			}
			switch {
			case up && st == flat && i < n-1:
				// no entry on the last bar: it would have no holding period
				buy(i)
			case down && st == long:
				sell(i, false)
			}
		}
		if i == n-1 && st == long {
			sell(i, true)
		}
		equity := cash.Add(units.Mul(decimal.NewFromFloat(closes[i])))
		res.Equity = append(res.Equity, entity.EquityPoint{Time: candles[i].Time, Value: equity.InexactFloat64()})
	}

	switch {
	case crossings == 0:
		res.Message = "no SMA20/EMA50 crossover in this period"
		res.Equity = nil
		return res
	case res.Trades == 0:
		res.Message = "no entry signal in this period"
		res.Equity = nil
		return res
	}

	res.Computable = true
	res.FinalCapital = cash.InexactFloat64()
	res.TotalReturnPct = cash.Sub(initial).Div(initial).Mul(decimal.NewFromInt(100)).InexactFloat64()
	if len(res.RoundTrips) > 0 {
		res.WinRatePct = float64(wins) / float64(len(res.RoundTrips)) * 100
	}
	res.MaxDrawdownPct = MaxDrawdown(res.Equity)
	return res
}

// MaxDrawdown is the largest peak-to-trough decline of the equity curve in percent.
func MaxDrawdown(equity []entity.EquityPoint) float64 {
	var peak, worst float64
	for _, p := range equity {
		if p.Value > peak {
			peak = p.Value
		}
		if peak > 0 {
			if dd := (peak - p.Value) / peak; dd > worst {
				worst = dd
			}
		}
	}
	return worst * 100
}

func defined(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) {
			return false
		}
	}
	return true
}
