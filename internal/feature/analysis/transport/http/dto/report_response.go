// Package dto defines the JSON shapes of the analysis API.
//
// encoding/json rejects NaN, so every value that may be "not available"
// is a *float64 and serialises as null.
package dto

import (
	"math"
	"time"

	"tradedesk/internal/feature/analysis/domain/entity"
	mddto "tradedesk/internal/feature/marketdata/transport/http/dto"
)

// Float returns nil for NaN and infinities.
func Float(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Floats converts a series, mapping NaN warm-up values to null.
func Floats(vs []float64) []*float64 {
	out := make([]*float64, len(vs))
	for i, v := range vs {
		out[i] = Float(v)
	}
	return out
}

// StrategyResponse is one row of the per-strategy table.
type StrategyResponse struct {
	Name       string   `json:"name"`
	StopLoss   *float64 `json:"stop_loss"`
	TakeProfit *float64 `json:"take_profit"`
	Triggered  bool     `json:"triggered"`
	ValidSL    bool     `json:"valid_sl"`
	ValidTP    bool     `json:"valid_tp"`
}

// ConsensusResponse is the combined stop-loss / take-profit.
type ConsensusResponse struct {
	Side       string             `json:"side"`
	Mode       string             `json:"mode"`
	Entry      *float64           `json:"entry"`
	StopLoss   *float64           `json:"stop_loss"`
	TakeProfit *float64           `json:"take_profit"`
	RiskReward *float64           `json:"risk_reward"`
	ValidSL    int                `json:"valid_sl"`
	ValidTP    int                `json:"valid_tp"`
	Strategies []StrategyResponse `json:"strategies"`
}

// FusionResponse is the fused score and its label.
type FusionResponse struct {
	Total      *float64           `json:"total"`
	Action     string             `json:"action"`
	Label      string             `json:"label"`
	Confidence float64            `json:"confidence"`
	SubScores  map[string]float64 `json:"sub_scores"`
	Groups     map[string]float64 `json:"groups"`
	Reasons    []string           `json:"reasons"`
}

// BacktestResponse is the crossover simulation summary. The percentage
// statistics are null when the backtest is not computable.
type BacktestResponse struct {
	Computable     bool                 `json:"computable"`
	Message        string               `json:"message,omitempty"`
	InitialCapital float64              `json:"initial_capital"`
	FinalCapital   float64              `json:"final_capital"`
	TotalReturnPct *float64             `json:"total_return_pct"`
	WinRatePct     *float64             `json:"win_rate_pct"`
	MaxDrawdownPct *float64             `json:"max_drawdown_pct"`
	Trades         int                  `json:"trades"`
	RoundTrips     []entity.Trade       `json:"round_trips"`
	Equity         []entity.EquityPoint `json:"equity"`
}

// ReportResponse is the body of GET /v1/analysis/:symbol.
type ReportResponse struct {
	RequestID    string                 `json:"request_id"`
	Symbol       string                 `json:"symbol"`
	Name         string                 `json:"name"`
	Timeframe    string                 `json:"timeframe"`
	Interval     string                 `json:"interval"`
	GeneratedAt  string                 `json:"generated_at"`
	Price        float64                `json:"price"`
	Change       *float64               `json:"change"`
	ChangePct    *float64               `json:"change_pct"`
	Consensus    ConsensusResponse      `json:"consensus"`
	Fusion       FusionResponse         `json:"fusion"`
	Fundamentals *entity.Fundamentals   `json:"fundamentals"`
	Fibonacci    *entity.Fibonacci      `json:"fibonacci"`
	Backtest     BacktestResponse       `json:"backtest"`
	Candles      []mddto.CandleResponse `json:"candles,omitempty"`
	Series       map[string][]*float64  `json:"series,omitempty"`
}

// BacktestReportResponse is the body of GET /v1/backtest/:symbol.
type BacktestReportResponse struct {
	RequestID   string           `json:"request_id"`
	Symbol      string           `json:"symbol"`
	Name        string           `json:"name"`
	Timeframe   string           `json:"timeframe"`
	Interval    string           `json:"interval"`
	GeneratedAt string           `json:"generated_at"`
	Backtest    BacktestResponse `json:"backtest"`
}

// InsightResponse is the body of POST /v1/insight/:symbol.
type InsightResponse struct {
	Symbol      string          `json:"symbol"`
	Model       string          `json:"model"`
	Text        string          `json:"text"`
	Sources     []entity.Source `json:"sources"`
	GeneratedAt string          `json:"generated_at"`
}

// NewReportResponse converts a report. compact drops the candles and indicator series.
func NewReportResponse(r *entity.Report, compact bool) ReportResponse {
	out := ReportResponse{
		RequestID:    r.RequestID,
		Symbol:       r.Symbol,
		Name:         r.Name,
		Timeframe:    r.Timeframe,
		Interval:     r.Interval,
		GeneratedAt:  r.GeneratedAt.UTC().Format(time.RFC3339),
		Price:        r.Price,
		Change:       Float(r.Change),
		ChangePct:    Float(r.ChangePct),
		Consensus:    NewConsensusResponse(r.Consensus),
		Fusion:       NewFusionResponse(r.Fusion),
		Fundamentals: r.Fundamentals,
		Fibonacci:    r.Fibonacci,
		Backtest:     NewBacktestResponse(r.Backtest),
	}
	if compact {
		return out
	}
	out.Candles = mddto.NewCandleResponses(r.Candles)
	out.Series = make(map[string][]*float64, len(r.Series))
	for name, s := range r.Series {
		out.Series[name] = Floats(s)
	}
	return out
}

// NewConsensusResponse converts the consensus and its per-strategy rows.
func NewConsensusResponse(c entity.Consensus) ConsensusResponse {
	rows := make([]StrategyResponse, 0, len(c.Results))
	for _, r := range c.Results {
		rows = append(rows, StrategyResponse{
			Name:       r.Name,
			StopLoss:   Float(r.StopLoss),
			TakeProfit: Float(r.TakeProfit),
			Triggered:  r.Triggered,
			ValidSL:    r.ValidSL,
			ValidTP:    r.ValidTP,
		})
	}
	return ConsensusResponse{
		Side:       string(c.Side),
		Mode:       string(c.Mode),
		Entry:      Float(c.Entry),
		StopLoss:   Float(c.StopLoss),
		TakeProfit: Float(c.TakeProfit),
		RiskReward: Float(c.RiskReward),
		ValidSL:    c.ValidSL,
		ValidTP:    c.ValidTP,
		Strategies: rows,
	}
}

// NewFusionResponse converts the fusion score.
func NewFusionResponse(f entity.Fusion) FusionResponse {
	reasons := f.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	return FusionResponse{
		Total:      Float(f.Total),
		Action:     string(f.Action),
		Label:      f.Action.Label(),
		Confidence: f.Confidence,
		SubScores:  f.SubScores,
		Groups:     f.Groups,
		Reasons:    reasons,
	}
}

// NewBacktestResponse converts the backtest, using empty lists instead of null.
func NewBacktestResponse(b entity.Backtest) BacktestResponse {
	trips, equity := b.RoundTrips, b.Equity
	if trips == nil {
		trips = []entity.Trade{}
	}
	if equity == nil {
		equity = []entity.EquityPoint{}
	}
	out := BacktestResponse{
		Computable:     b.Computable,
		Message:        b.Message,
		InitialCapital: b.InitialCapital,
		FinalCapital:   b.FinalCapital,
		Trades:         b.Trades,
		RoundTrips:     trips,
		Equity:         equity,
	}
	if b.Computable {
		out.TotalReturnPct = Float(b.TotalReturnPct)
		out.WinRatePct = Float(b.WinRatePct)
		out.MaxDrawdownPct = Float(b.MaxDrawdownPct)
	}
	return out
}

// NewBacktestReportResponse converts a standalone backtest.
func NewBacktestReportResponse(r *entity.BacktestReport) BacktestReportResponse {
	return BacktestReportResponse{
		RequestID:   r.RequestID,
		Symbol:      r.Symbol,
		Name:        r.Name,
		Timeframe:   r.Timeframe,
		Interval:    r.Interval,
		GeneratedAt: r.GeneratedAt.UTC().Format(time.RFC3339),
		Backtest:    NewBacktestResponse(r.Backtest),
	}
}

// NewInsightResponse converts an insight.
func NewInsightResponse(in *entity.Insight) InsightResponse {
	sources := in.Sources
	if sources == nil {
		sources = []entity.Source{}
	}
	return InsightResponse{
		Symbol:      in.Symbol,
		Model:       in.Model,
		Text:        in.Text,
		Sources:     sources,
		GeneratedAt: in.GeneratedAt.UTC().Format(time.RFC3339),
	}
}
