package entity

import (
	"sort"
	"time"
)

// Timeframe is one entry of the fixed (history range, bar interval) menu.
type Timeframe struct {
	Key      string        `json:"key"`      // Menu key (e.g., "4h")
	Label    string        `json:"label"`    // Human readable label
	Range    string        `json:"range"`    // History length requested from the provider
	Interval string        `json:"interval"` // Bar interval requested from the provider
	Resample time.Duration `json:"-"`        // Non-zero when provider bars are aggregated into larger buckets
	Order    int           `json:"-"`
}

// BarInterval returns the interval of the bars the caller finally receives.
func (t Timeframe) BarInterval() string {
	if t.Resample > 0 {
		return t.Key
	}
	return t.Interval
}

// DefaultTimeframe is used when the request does not name one.
const DefaultTimeframe = "1d"

var timeframes = map[string]Timeframe{
	"15m": {Key: "15m", Label: "短線 (15分)", Range: "1mo", Interval: "15m", Order: 1},
	"30m": {Key: "30m", Label: "短線 (30分)", Range: "1mo", Interval: "30m", Order: 2},
	"1h":  {Key: "1h", Label: "中線 (1小時)", Range: "3mo", Interval: "60m", Order: 3},
	"4h":  {Key: "4h", Label: "中長線 (4小時)", Range: "1y", Interval: "60m", Resample: 4 * time.Hour, Order: 4},
	"1d":  {Key: "1d", Label: "長線 (日線)", Range: "2y", Interval: "1d", Order: 5},
	"1wk": {Key: "1wk", Label: "長線 (週線)", Range: "5y", Interval: "1wk", Order: 6},
}

// LookupTimeframe returns the menu entry for key. An empty key yields the default.
func LookupTimeframe(key string) (Timeframe, bool) {
	if key == "" {
		key = DefaultTimeframe
	}
	tf, ok := timeframes[key]
	return tf, ok
}

// Timeframes returns the menu in display order.
func Timeframes() []Timeframe {
	out := make([]Timeframe, 0, len(timeframes))
	for _, tf := range timeframes {
		out = append(out, tf)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
