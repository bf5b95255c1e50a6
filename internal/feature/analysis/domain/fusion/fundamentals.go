package fusion

import "tradedesk/internal/feature/analysis/domain/entity"

// FundamentalPoints scores f on a 0-7 scale, or 0-9 when both dividend yield
// and free cash flow are present.
func FundamentalPoints(f entity.Fundamentals) (points, maxPoints int) {
	checks := []bool{
		f.ROE > 15,
		f.DebtToEquity >= 0 && f.DebtToEquity < 50,
		f.RevenueGrowth > 10,
		f.PE > 0 && f.PE < 15,
		f.PEG > 0 && f.PEG < 1,
		f.ProfitMargin > 10,
		f.CurrentRatio > 1.5,
	}
	if f.DividendYield != nil && f.FreeCashFlow != nil {
		checks = append(checks, *f.DividendYield > 2, *f.FreeCashFlow > 0)
	}
	for _, ok := range checks {
		if ok {
			points++
		}
	}
	return points, len(checks)
}
