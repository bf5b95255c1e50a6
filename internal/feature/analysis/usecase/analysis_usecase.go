// Package usecase はanalysisフィーチャーのビジネスロジックを実装します。
//
// 価格系列の取得から、指標計算・戦略・コンセンサス・スコア融合・
// フィボナッチ構造・バックテストまでを1リクエスト内で組み立てます。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"tradedesk/internal/feature/analysis/domain/backtest"
	"tradedesk/internal/feature/analysis/domain/consensus"
	"tradedesk/internal/feature/analysis/domain/entity"
	"tradedesk/internal/feature/analysis/domain/fusion"
	"tradedesk/internal/feature/analysis/domain/indicator"
	"tradedesk/internal/feature/analysis/domain/strategy"
	mdentity "tradedesk/internal/feature/marketdata/domain/entity"
	"tradedesk/internal/shared/failure"
)

// MinBars は分析に必要な最小本数です（EMA50 とクロスオーバー判定に必要）。
const MinBars = backtest.MinBars

// SeriesProvider は時間足メニューに従って価格系列を返します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type SeriesProvider interface {
	GetSeries(ctx context.Context, symbol, timeframe string) ([]mdentity.Candle, mdentity.Timeframe, error)
}

// FundamentalsProvider は銘柄のファンダメンタルズを返します。該当なしは (nil, nil) です。
type FundamentalsProvider interface {
	Fundamentals(ctx context.Context, symbol string) (*entity.Fundamentals, error)
}

// NameResolver は銘柄コードの表示名を返します。
type NameResolver interface {
	DisplayName(ctx context.Context, symbol string) string
}

// Recorder はリクエスト結果を計測します。
type Recorder interface {
	ObserveAnalysis(operation, result string)
}

// Request は1回の分析リクエストです。
type Request struct {
	Symbol    string
	Timeframe string
	Side      entity.Side
	Mode      entity.Mode
	// Chips は任意の需給データです。nil の場合は flow グループを出来高のみで評価します。
	Chips *entity.ChipData
}

// AnalysisUsecase は分析レポートを生成するユースケースです。
type AnalysisUsecase struct {
	series       SeriesProvider
	fundamentals FundamentalsProvider
	names        NameResolver
	recorder     Recorder
	backtest     backtest.Config

	now   func() time.Time
	newID func() string
}

// NewAnalysisUsecase は新しい AnalysisUsecase を作成します。
// fundamentals・names・recorder は nil でも構いません。
func NewAnalysisUsecase(series SeriesProvider, fundamentals FundamentalsProvider, names NameResolver, recorder Recorder) *AnalysisUsecase {
	return &AnalysisUsecase{
		series:       series,
		fundamentals: fundamentals,
		names:        names,
		recorder:     recorder,
		backtest:     backtest.DefaultConfig(),
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// WithBacktestConfig はバックテストの初期資金・手数料を差し替えます。
func (u *AnalysisUsecase) WithBacktestConfig(cfg backtest.Config) *AnalysisUsecase {
	u.backtest = cfg
	return u
}

// Analyze は1銘柄・1時間足の分析レポートを生成します。
func (u *AnalysisUsecase) Analyze(ctx context.Context, req Request) (report *entity.Report, err error) {
	defer func() { u.observe("analyze", err) }()

	side, mode, err := normalize(req)
	if err != nil {
		return nil, err
	}

	candles, tf, err := u.load(ctx, req.Symbol, req.Timeframe)
	if err != nil {
		return nil, err
	}
	symbol := candles[0].Symbol

	fund := u.lookupFundamentals(ctx, symbol)

	err = guard("analyze", func() error {
		report, err = u.compute(candles, fund, req.Chips, side, mode)
		return err
	})
	if err != nil {
		return nil, err
	}

	report.RequestID = u.newID()
	report.Symbol = symbol
	report.Name = u.displayName(ctx, symbol)
	report.Timeframe = tf.Key
	report.Interval = tf.BarInterval()
	report.GeneratedAt = u.now().UTC()

	slog.InfoContext(ctx, "analysis completed",
		"request_id", report.RequestID,
		"symbol", symbol,
		"timeframe", tf.Key,
		"bars", len(candles),
		"action", report.Fusion.Action,
		"side", report.Consensus.Side,
	)
	return report, nil
}

// Backtest は SMA(20)/EMA(50) クロスオーバーのバックテストのみを実行します。
func (u *AnalysisUsecase) Backtest(ctx context.Context, symbol, timeframe string) (out *entity.BacktestReport, err error) {
	defer func() { u.observe("backtest", err) }()

	candles, tf, err := u.load(ctx, symbol, timeframe)
	if err != nil {
		return nil, err
	}

	var bt entity.Backtest
	err = guard("backtest", func() error {
		bt = backtest.Run(candles, u.backtest)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sym := candles[0].Symbol
	return &entity.BacktestReport{
		RequestID:   u.newID(),
		Symbol:      sym,
		Name:        u.displayName(ctx, sym),
		Timeframe:   tf.Key,
		Interval:    tf.BarInterval(),
		GeneratedAt: u.now().UTC(),
		Backtest:    bt,
	}, nil
}

func (u *AnalysisUsecase) load(ctx context.Context, symbol, timeframe string) ([]mdentity.Candle, mdentity.Timeframe, error) {
	candles, tf, err := u.series.GetSeries(ctx, symbol, timeframe)
	if err != nil {
		return nil, tf, err
	}
	if len(candles) < MinBars {
		return nil, tf, failure.InsufficientData("analyze",
			"only %d bars for %s (%s), need at least %d; choose a longer period", len(candles), symbol, tf.Key, MinBars)
	}
	return candles, tf, nil
}

// compute は取得済みの価格系列からレポート本体を組み立てます。I/O は行いません。
func (u *AnalysisUsecase) compute(candles []mdentity.Candle, fund *entity.Fundamentals, chips *entity.ChipData, side entity.Side, mode entity.Mode) (*entity.Report, error) {
	frame, err := indicator.Compute(candles)
	if err != nil {
		return nil, err
	}

	in := fusion.FromFrame(frame, fund, chips)
	fib, hasFib := strategy.FibonacciLevels(frame, strategy.FibLookback)
	if hasFib {
		in.Fibonacci = &fib
	}
	fu := fusion.Evaluate(in)
	if side == entity.SideAuto {
		side = SideFor(fu)
	}

	last := frame.Last()
	price := frame.Close[last]

	results := strategy.Run(frame, side)
	cons := consensus.Aggregate(results, price, side, mode)

	r := &entity.Report{
		Price:        price,
		Consensus:    cons,
		Fusion:       fu,
		Fundamentals: fund,
		Backtest:     backtest.Run(candles, u.backtest),
		Candles:      candles,
		Series:       frame.Series(),
	}
	if last > 0 {
		prev := frame.Close[last-1]
		r.Change = price - prev
		if prev != 0 {
			r.ChangePct = r.Change / prev * 100
		}
	}
	if hasFib {
		r.Fibonacci = &fib
	}
	return r, nil
}

// SideFor は融合スコアの符号から方向を決めます。0 とスコア算出不能は買い方向です。
func SideFor(f entity.Fusion) entity.Side {
	if !math.IsNaN(f.Total) && f.Total < 0 {
		return entity.SideShort
	}
	return entity.SideLong
}

func (u *AnalysisUsecase) lookupFundamentals(ctx context.Context, symbol string) *entity.Fundamentals {
	if u.fundamentals == nil {
		return nil
	}
	f, err := u.fundamentals.Fundamentals(ctx, symbol)
	if err != nil {
		// ファンダメンタルズは任意項目のため、失敗しても分析は続行します。
		slog.WarnContext(ctx, "fundamentals lookup failed", "symbol", symbol, "error", err)
		return nil
	}
	return f
}

func (u *AnalysisUsecase) displayName(ctx context.Context, symbol string) string {
	if u.names == nil {
		return symbol
	}
	if name := u.names.DisplayName(ctx, symbol); name != "" {
		return name
	}
	return symbol
}

func (u *AnalysisUsecase) observe(op string, err error) {
	if u.recorder == nil {
		return
	}
	result := "success"
	if err != nil {
		result = failure.KindOf(err).String()
	}
	u.recorder.ObserveAnalysis(op, result)
}

func normalize(req Request) (entity.Side, entity.Mode, error) {
	side, ok := entity.ParseSide(string(req.Side))
	if !ok {
		return "", "", failure.Invalid("side", "unknown side %q", req.Side)
	}
	mode, ok := entity.ParseMode(string(req.Mode))
	if !ok {
		return "", "", failure.Invalid("mode", "unknown mode %q", req.Mode)
	}
	return side, mode, nil
}

// guard は fn 内の panic を ComputeFailure に変換します。
func guard(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in computation", "op", op, "panic", r, "stack", string(debug.Stack()))
			err = failure.Compute(op, fmt.Errorf("panic: %v", r))
		}
	}()
	return fn()
}
