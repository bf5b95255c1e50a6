package entity

// Action is the discrete recommendation derived from the fusion total.
type Action string

const (
	ActionStrongBuy        Action = "strong_buy"
	ActionBuy              Action = "buy"
	ActionNeutral          Action = "neutral"
	ActionSell             Action = "sell"
	ActionStrongSell       Action = "strong_sell"
	ActionInsufficientData Action = "insufficient_data"
)

// Label returns the dashboard label for the action.
func (a Action) Label() string {
	switch a {
	case ActionStrongBuy:
		return "強力買進"
	case ActionBuy:
		return "買進"
	case ActionSell:
		return "賣出"
	case ActionStrongSell:
		return "強力賣出"
	case ActionInsufficientData:
		return "資料不足"
	default:
		return "觀望"
	}
}

// Fusion is the heuristic score fused from indicator sub-scores.
type Fusion struct {
	Total      float64            `json:"total"`
	SubScores  map[string]float64 `json:"sub_scores"`
	Groups     map[string]float64 `json:"groups"`
	Action     Action             `json:"action"`
	Confidence float64            `json:"confidence"`
	Reasons    []string           `json:"reasons"`
}

// Fundamentals is a snapshot of valuation and quality ratios.
// Percent fields are expressed in percent (15 means 15%).
type Fundamentals struct {
	PE            float64  `json:"pe"`
	PEG           float64  `json:"peg"`
	ROE           float64  `json:"roe"`
	DebtToEquity  float64  `json:"debt_to_equity"`
	RevenueGrowth float64  `json:"revenue_growth"`
	ProfitMargin  float64  `json:"profit_margin"`
	CurrentRatio  float64  `json:"current_ratio"`
	DividendYield *float64 `json:"dividend_yield,omitempty"`
	FreeCashFlow  *float64 `json:"free_cash_flow,omitempty"`
	Simulated     bool     `json:"simulated"`
}

// ChipData is ownership flow data (institutional net buying as a percent of volume).
type ChipData struct {
	InstitutionalNetPct float64 `json:"institutional_net_pct"`
}
