package indicator

import (
	"math"
	"sort"
	"time"

	mdentity "tradedesk/internal/feature/marketdata/domain/entity"
	"tradedesk/internal/shared/failure"
)

// Series names produced by Compute.
const (
	EMA10      = "ema10"
	EMA20      = "ema20"
	EMA50      = "ema50"
	EMA200     = "ema200"
	SMA20      = "sma20"
	VolSMA20   = "vol_sma20"
	VolSMA50   = "vol_sma50"
	RSI14      = "rsi14"
	MACDLine   = "macd"
	MACDSignal = "macd_signal"
	MACDHist   = "macd_hist"
	ATR14      = "atr14"
	ATR10      = "atr10"
	ADX14      = "adx14"
	BBUpper    = "bb_upper"
	BBMiddle   = "bb_middle"
	BBLower    = "bb_lower"
	OBVName    = "obv"
	CMF20      = "cmf20"
	MFI14      = "mfi14"
)

// FusionColumns are the series a bar needs before the fusion score can read it.
var FusionColumns = []string{EMA10, EMA50, EMA200, ADX14, RSI14, MACDHist, CMF20, MFI14, BBUpper, BBLower}

// Frame is a price series together with its aligned indicator series.
// Every slice has the same length. A Frame is read-only after Compute returns.
type Frame struct {
	Time   []time.Time
	Open   []float64
	High   []float64
	Low    []float64
	Close  []float64
	Volume []float64

	series map[string][]float64
}

// Compute builds the frame for candles. Windows longer than the input yield all-NaN series.
func Compute(candles []mdentity.Candle) (*Frame, error) {
	n := len(candles)
	if n == 0 {
		return nil, failure.InsufficientData("indicators", "no bars")
	}

	f := &Frame{
		Time:   make([]time.Time, n),
		Open:   make([]float64, n),
		High:   make([]float64, n),
		Low:    make([]float64, n),
		Close:  make([]float64, n),
		Volume: make([]float64, n),
		series: make(map[string][]float64, 24),
	}
	for i, c := range candles {
		f.Time[i] = c.Time
		f.Open[i] = c.Open
		f.High[i] = c.High
		f.Low[i] = c.Low
		f.Close[i] = c.Close
		f.Volume[i] = c.Volume
	}

	f.series[EMA10] = EMA(f.Close, 10)
	f.series[EMA20] = EMA(f.Close, 20)
	f.series[EMA50] = EMA(f.Close, 50)
	f.series[EMA200] = EMA(f.Close, 200)
	f.series[SMA20] = SMA(f.Close, 20)
	f.series[VolSMA20] = SMA(f.Volume, 20)
	f.series[VolSMA50] = SMA(f.Volume, 50)
	f.series[RSI14] = RSI(f.Close, 14)
	f.series[MACDLine], f.series[MACDSignal], f.series[MACDHist] = MACD(f.Close, 12, 26, 9)
	f.series[ATR14] = ATR(f.High, f.Low, f.Close, 14)
	f.series[ATR10] = ATR(f.High, f.Low, f.Close, 10)
	f.series[ADX14] = ADX(f.High, f.Low, f.Close, 14)
	f.series[BBUpper], f.series[BBMiddle], f.series[BBLower] = Bollinger(f.Close, 20, 2)
	f.series[OBVName] = OBV(f.Close, f.Volume)
	f.series[CMF20] = CMF(f.High, f.Low, f.Close, f.Volume, 20)
	f.series[MFI14] = MFI(f.High, f.Low, f.Close, f.Volume, 14)

	return f, nil
}

// Len is the number of bars.
func (f *Frame) Len() int { return len(f.Close) }

// Last is the index of the latest bar (-1 for an empty frame).
func (f *Frame) Last() int { return len(f.Close) - 1 }

// get returns the named series, or nil when it does not exist.
func (f *Frame) get(name string) []float64 { return f.series[name] }

// At returns the named value at bar i, or NaN when it is missing.
func (f *Frame) At(name string, i int) float64 {
	s := f.get(name)
	if i < 0 || i >= len(s) {
		return math.NaN()
	}
	return s[i]
}

// names lists the computed series in sorted order.
func (f *Frame) names() []string {
	out := make([]string, 0, len(f.series))
	for k := range f.series {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Series exports a copy of every computed series keyed by name.
func (f *Frame) Series() map[string][]float64 {
	out := make(map[string][]float64, len(f.series))
	for _, k := range f.names() {
		out[k] = clone(f.get(k))
	}
	return out
}

// LastValid returns the indexes of the two most recent bars where every named
// series is defined. ok is false when fewer than two such bars exist.
func (f *Frame) LastValid(names ...string) (latest, previous int, ok bool) {
	found := make([]int, 0, 2)
	for i := f.Last(); i >= 0 && len(found) < 2; i-- {
		if f.defined(i, names) {
			found = append(found, i)
		}
	}
	if len(found) < 2 {
		return -1, -1, false
	}
	return found[0], found[1], true
}

func (f *Frame) defined(i int, names []string) bool {
	if math.IsNaN(f.Close[i]) {
		return false
	}
	for _, n := range names {
		if math.IsNaN(f.At(n, i)) {
			return false
		}
	}
	return true
}

// Bar is the set of indicator readings the fusion score uses for one bar.
type Bar struct {
	Index    int
	Close    float64
	EMA10    float64
	EMA50    float64
	EMA200   float64
	ADX      float64
	RSI      float64
	MACDHist float64
	CMF      float64
	MFI      float64
	BBUpper  float64
	BBLower  float64
}

// Bar returns the readings at index i.
func (f *Frame) Bar(i int) Bar {
	return Bar{
		Index:    i,
		Close:    f.Close[i],
		EMA10:    f.At(EMA10, i),
		EMA50:    f.At(EMA50, i),
		EMA200:   f.At(EMA200, i),
		ADX:      f.At(ADX14, i),
		RSI:      f.At(RSI14, i),
		MACDHist: f.At(MACDHist, i),
		CMF:      f.At(CMF20, i),
		MFI:      f.At(MFI14, i),
		BBUpper:  f.At(BBUpper, i),
		BBLower:  f.At(BBLower, i),
	}
}
