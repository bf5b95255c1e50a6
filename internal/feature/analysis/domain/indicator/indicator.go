// Package indicator wraps go-talib so that every series it returns is aligned
// with its input: same length, NaN for the warm-up bars.
//
// go-talib fills warm-up slots with zeros and may index out of range when the
// input is shorter than the window. Every function here checks the length
// first and returns an all-NaN series instead.
package indicator

import (
	"math"

	"github.com/markcheno/go-talib"
)

// NaNs returns a series of n NaN values.
func NaNs(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// pad overwrites the first lookback entries of out with NaN.
func pad(out []float64, lookback int) []float64 {
	for i := 0; i < lookback && i < len(out); i++ {
		out[i] = math.NaN()
	}
	return out
}

// enough reports whether n bars produce at least one value for lookback.
func enough(n, lookback int) bool {
	return lookback >= 0 && n > lookback
}

// EMA is the exponential moving average.
func EMA(in []float64, period int) []float64 {
	lb := period - 1
	if period < 1 || !enough(len(in), lb) {
		return NaNs(len(in))
	}
	return pad(talib.Ema(in, period), lb)
}

// SMA is the simple moving average.
func SMA(in []float64, period int) []float64 {
	lb := period - 1
	if period < 1 || !enough(len(in), lb) {
		return NaNs(len(in))
	}
	return pad(talib.Sma(in, period), lb)
}

// RSI is Wilder's relative strength index.
func RSI(in []float64, period int) []float64 {
	if period < 2 || !enough(len(in), period) {
		return NaNs(len(in))
	}
	return pad(talib.Rsi(in, period), period)
}

// MACD returns the MACD line, its signal line and the histogram.
func MACD(in []float64, fast, slow, signal int) (line, sig, hist []float64) {
	lb := slow - 1 + signal - 1
	if fast < 1 || slow <= fast || signal < 1 || !enough(len(in), lb) {
		return NaNs(len(in)), NaNs(len(in)), NaNs(len(in))
	}
	line, sig, hist = talib.Macd(in, fast, slow, signal)
	return pad(line, lb), pad(sig, lb), pad(hist, lb)
}

// ATR is the average true range.
func ATR(high, low, close []float64, period int) []float64 {
	if period < 1 || !enough(len(close), period) {
		return NaNs(len(close))
	}
	return pad(talib.Atr(high, low, close, period), period)
}

// ADX is the average directional index.
func ADX(high, low, close []float64, period int) []float64 {
	lb := 2*period - 1
	if period < 2 || !enough(len(close), lb) {
		return NaNs(len(close))
	}
	return pad(talib.Adx(high, low, close, period), lb)
}

// MFI is the money flow index.
func MFI(high, low, close, volume []float64, period int) []float64 {
	if period < 2 || !enough(len(close), period) {
		return NaNs(len(close))
	}
	return pad(talib.Mfi(high, low, close, volume, period), period)
}

// OBV is on-balance volume. It is defined from the first bar.
func OBV(close, volume []float64) []float64 {
	if len(close) == 0 {
		return []float64{}
	}
	return talib.Obv(close, volume)
}

// Bollinger returns the upper, middle and lower bands (SMA based).
func Bollinger(in []float64, period int, k float64) (upper, middle, lower []float64) {
	lb := period - 1
	if period < 2 || !enough(len(in), lb) {
		return NaNs(len(in)), NaNs(len(in)), NaNs(len(in))
	}
	upper, middle, lower = talib.BBands(in, period, k, k, talib.SMA)
	return pad(upper, lb), pad(middle, lb), pad(lower, lb)
}

// Max is the rolling maximum over period bars (current bar included).
func Max(in []float64, period int) []float64 {
	lb := period - 1
	if period < 1 || !enough(len(in), lb) {
		return NaNs(len(in))
	}
	if period == 1 {
		return clone(in)
	}
	return pad(talib.Max(in, period), lb)
}

// Min is the rolling minimum over period bars (current bar included).
func Min(in []float64, period int) []float64 {
	lb := period - 1
	if period < 1 || !enough(len(in), lb) {
		return NaNs(len(in))
	}
	if period == 1 {
		return clone(in)
	}
	return pad(talib.Min(in, period), lb)
}

// Sum is the rolling sum over period bars.
func Sum(in []float64, period int) []float64 {
	lb := period - 1
	if period < 1 || !enough(len(in), lb) {
		return NaNs(len(in))
	}
	if period == 1 {
		return clone(in)
	}
	return pad(talib.Sum(in, period), lb)
}

// StdDev is the rolling population standard deviation.
func StdDev(in []float64, period int) []float64 {
	lb := period - 1
	if period < 2 || !enough(len(in), lb) {
		return NaNs(len(in))
	}
	return pad(talib.StdDev(in, period, 1), lb)
}

// SAR is the parabolic stop-and-reverse.
func SAR(high, low []float64, accel, maximum float64) []float64 {
	if !enough(len(high), 1) {
		return NaNs(len(high))
	}
	return pad(talib.Sar(high, low, accel, maximum), 1)
}

// CMF is the Chaikin money flow over period bars. Windows with no volume are NaN.
func CMF(high, low, close, volume []float64, period int) []float64 {
	n := len(close)
	if period < 1 || !enough(n, period-1) {
		return NaNs(n)
	}
	mfv := make([]float64, n)
	for i := range close {
		if rng := high[i] - low[i]; rng > 0 {
			mfv[i] = ((close[i] - low[i]) - (high[i] - close[i])) / rng * volume[i]
		}
	}
	num := Sum(mfv, period)
	den := Sum(volume, period)
	out := NaNs(n)
	for i := period - 1; i < n; i++ {
		if den[i] > 0 {
			out[i] = num[i] / den[i]
		}
	}
	return out
}

// VWAP is the rolling volume weighted typical price over period bars.
// Windows with no volume fall back to the plain average of the typical price.
func VWAP(high, low, close, volume []float64, period int) []float64 {
	n := len(close)
	if period < 1 || !enough(n, period-1) {
		return NaNs(n)
	}
	tp := Typical(high, low, close)
	pv := make([]float64, n)
	for i := range tp {
		pv[i] = tp[i] * volume[i]
	}
	num := Sum(pv, period)
	den := Sum(volume, period)
	avg := SMA(tp, period)
	out := NaNs(n)
	for i := period - 1; i < n; i++ {
		if den[i] > 0 {
			out[i] = num[i] / den[i]
		} else {
			out[i] = avg[i]
		}
	}
	return out
}

// Typical is (high + low + close) / 3.
func Typical(high, low, close []float64) []float64 {
	out := make([]float64, len(close))
	for i := range close {
		out[i] = (high[i] + low[i] + close[i]) / 3
	}
	return out
}

// Midpoint is (Max(high) + Min(low)) / 2 over period bars, the Ichimoku line formula.
func Midpoint(high, low []float64, period int) []float64 {
	hi := Max(high, period)
	lo := Min(low, period)
	out := make([]float64, len(hi))
	for i := range hi {
		out[i] = (hi[i] + lo[i]) / 2
	}
	return out
}

// Shift moves in forward by k bars: out[i] = in[i-k]. The first k entries are NaN.
func Shift(in []float64, k int) []float64 {
	out := NaNs(len(in))
	for i := k; i < len(in); i++ {
		if i-k >= 0 {
			out[i] = in[i-k]
		}
	}
	return out
}

func clone(in []float64) []float64 {
	out := make([]float64, len(in))
	copy(out, in)
	return out
}
