package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"tradedesk/internal/feature/analysis/domain/entity"
	"tradedesk/internal/shared/failure"
)

// ErrInsightDisabled は生成AIの認証情報が設定されていない場合に返されます。
var ErrInsightDisabled = errors.New("insight is disabled: no generative AI credentials configured")

// SystemPrompt は生成AIに与える中立的な要約の指示です。
const SystemPrompt = "你是一位中立、客觀的金融市場分析師。請根據提供的技術指標數據與最新的網路資訊，" +
	"以繁體中文簡潔總結該標的的近期趨勢、主要風險與值得關注的事件。" +
	"不得提供保證獲利的說法，也不要給出具體的買賣指令。"

// Generator はプロンプトから要約を生成します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type Generator interface {
	// Generate は Text・Sources・Model を埋めた Insight を返します。
	Generate(ctx context.Context, systemPrompt, prompt string) (*entity.Insight, error)
}

// Analyzer は分析レポートを生成します。AnalysisUsecase が実装します。
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (*entity.Report, error)
}

// InsightRecorder は生成AIリクエストの結果を計測します。
type InsightRecorder interface {
	ObserveInsight(result string)
}

// InsightUsecase は分析レポートを生成AIで要約するユースケースです。
type InsightUsecase struct {
	analyzer  Analyzer
	generator Generator
	recorder  InsightRecorder
	now       func() time.Time
}

// NewInsightUsecase は新しい InsightUsecase を作成します。
// generator が nil の場合、要約は ErrInsightDisabled を返します。
func NewInsightUsecase(analyzer Analyzer, generator Generator, recorder InsightRecorder) *InsightUsecase {
	return &InsightUsecase{analyzer: analyzer, generator: generator, recorder: recorder, now: time.Now}
}

// Enabled は生成AIが利用可能かを返します。
func (u *InsightUsecase) Enabled() bool { return u.generator != nil }

// Explain は分析を実行し、その結果を要約します。
func (u *InsightUsecase) Explain(ctx context.Context, req Request) (*entity.Insight, error) {
	if !u.Enabled() {
		return nil, ErrInsightDisabled
	}
	report, err := u.analyzer.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}
	return u.Summarize(ctx, report)
}

// Summarize はレポートを生成AIで要約します。
func (u *InsightUsecase) Summarize(ctx context.Context, report *entity.Report) (*entity.Insight, error) {
	if !u.Enabled() {
		return nil, ErrInsightDisabled
	}
	if report == nil {
		return nil, failure.Invalid("insight", "report is required")
	}

	out, err := u.generator.Generate(ctx, SystemPrompt, BuildPrompt(report))
	if err != nil {
		u.observe("error")
		slog.WarnContext(ctx, "insight generation failed", "symbol", report.Symbol, "error", err)
		return nil, failure.Fetch("insight", fmt.Errorf("generate summary for %s: %w", report.Symbol, err))
	}
	u.observe("success")

	out.Symbol = report.Symbol
	out.GeneratedAt = u.now().UTC()
	if out.Sources == nil {
		out.Sources = []entity.Source{}
	}
	return out, nil
}

func (u *InsightUsecase) observe(result string) {
	if u.recorder != nil {
		u.recorder.ObserveInsight(result)
	}
}

// BuildPrompt はレポートの要点を生成AI向けのプロンプトに整形します。
func BuildPrompt(r *entity.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "標的：%s（%s），週期：%s\n", r.Name, r.Symbol, r.Timeframe)
	fmt.Fprintf(&b, "最新價格：%s（%+.2f%%）\n", num(r.Price), r.ChangePct)
	fmt.Fprintf(&b, "綜合評分：%s，訊號：%s，信心度：%.0f%%\n", num(r.Fusion.Total), r.Fusion.Action.Label(), r.Fusion.Confidence)
	fmt.Fprintf(&b, "方向：%s，止損：%s，止盈：%s，風險報酬比：%s\n",
		r.Consensus.Side, num(r.Consensus.StopLoss), num(r.Consensus.TakeProfit), num(r.Consensus.RiskReward))
	if len(r.Fusion.Reasons) > 0 {
		fmt.Fprintf(&b, "指標觀察：%s\n", strings.Join(r.Fusion.Reasons, "；"))
	}
	if r.Fibonacci != nil {
		fmt.Fprintf(&b, "斐波那契：趨勢 %s，波段高點 %s，波段低點 %s\n", r.Fibonacci.Trend, num(r.Fibonacci.SwingHigh), num(r.Fibonacci.SwingLow))
		fmt.Fprintf(&b, "結構：%s，前波目標 (TP1) %s\n", r.Fibonacci.Structure, num(r.Fibonacci.PriorSwing))
	}
	if r.Backtest.Computable {
		fmt.Fprintf(&b, "均線交叉回測：報酬 %.2f%%，勝率 %.1f%%，最大回撤 %.2f%%，交易 %d 次\n",
			r.Backtest.TotalReturnPct, r.Backtest.WinRatePct, r.Backtest.MaxDrawdownPct, r.Backtest.Trades)
	}
	b.WriteString("請搜尋該標的最新的新聞與市場動態，結合上述數據提供中立的趨勢總結。")
	return b.String()
}

func num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", v)
}
