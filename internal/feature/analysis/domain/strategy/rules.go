package strategy

import (
	"tradedesk/internal/feature/analysis/domain/entity"
	"tradedesk/internal/feature/analysis/domain/indicator"
)

const channel = 20

// supportResistance uses the 20-bar extremes widened by 2%, only on a volume spike.
func supportResistance(in Input) entity.Levels {
	f := in.Frame
	i := f.Last()
	vol, avg := f.Volume[i], f.At(indicator.VolSMA50, i)
	if !(vol > 1.3*avg) {
		return entity.NoSignal()
	}
	lo := at(indicator.Min(f.Low, channel), i)
	hi := at(indicator.Max(f.High, channel), i)
	if in.long() {
		return levels(lo*0.98, hi*1.02)
	}
	return levels(hi*1.02, lo*0.98)
}

// bollinger uses the 20/2 bands when RSI is at an extreme.
func bollinger(in Input) entity.Levels {
	f := in.Frame
	i := f.Last()
	rsi := f.At(indicator.RSI14, i)
	if !(rsi <= 30 || rsi >= 70) {
		return entity.NoSignal()
	}
	up, lo := f.At(indicator.BBUpper, i), f.At(indicator.BBLower, i)
	if in.long() {
		return levels(lo, up)
	}
	return levels(up, lo)
}

// keltner uses EMA20 -/+ 2 ATR10 when the MACD histogram agrees with the side.
func keltner(in Input) entity.Levels {
	f := in.Frame
	i := f.Last()
	hist := f.At(indicator.MACDHist, i)
	if in.long() && !(hist > 0) || !in.long() && !(hist < 0) {
		return entity.NoSignal()
	}
	mid, atr := f.At(indicator.EMA20, i), f.At(indicator.ATR10, i)
	up, lo := mid+2*atr, mid-2*atr
	if in.long() {
		return levels(lo, up)
	}
	return levels(up, lo)
}

// donchian uses the 20-bar channel when price sits in the side's half of it.
func donchian(in Input) entity.Levels {
	f := in.Frame
	i := f.Last()
	lo := at(indicator.Min(f.Low, channel), i)
	hi := at(indicator.Max(f.High, channel), i)
	mid := (lo + hi) / 2
	c := f.Close[i]
	if in.long() {
		if !(c >= mid) {
			return entity.NoSignal()
		}
		return levels(lo, hi)
	}
	if !(c <= mid) {
		return entity.NoSignal()
	}
	return levels(hi, lo)
}

// atrBands places SL 1.5 ATR and TP 3 ATR away from close in a trending market (ADX > 25).
func atrBands(in Input) entity.Levels {
	f := in.Frame
	i := f.Last()
	if !(f.At(indicator.ADX14, i) > 25) {
		return entity.NoSignal()
	}
	c, atr := f.Close[i], f.At(indicator.ATR14, i)
	if in.long() {
		return levels(c-1.5*atr, c+3*atr)
	}
	return levels(c+1.5*atr, c-3*atr)
}

// ichimoku trades a close outside the cloud, stopping at the nearer of kijun and the cloud edge.
func ichimoku(in Input) entity.Levels {
	f := in.Frame
	i := f.Last()
	tenkan := indicator.Midpoint(f.High, f.Low, 9)
	kijun := indicator.Midpoint(f.High, f.Low, 26)
	spanA := make([]float64, len(tenkan))
	for j := range tenkan {
		spanA[j] = (tenkan[j] + kijun[j]) / 2
	}
	a := at(indicator.Shift(spanA, 26), i)
	b := at(indicator.Shift(indicator.Midpoint(f.High, f.Low, 52), 26), i)
	k := at(kijun, i)
	if !finite(a) || !finite(b) || !finite(k) {
		return entity.NoSignal()
	}
	top, bottom := max(a, b), min(a, b)
	c := f.Close[i]
	if in.long() {
		if !(c > top) {
			return entity.NoSignal()
		}
		return riskMultiple(true, c, min(k, bottom), 2)
	}
	if !(c < bottom) {
		return entity.NoSignal()
	}
	return riskMultiple(false, c, max(k, top), 2)
}

// maCrossover follows the SMA20 / EMA50 regime with the EMA50 as stop.
func maCrossover(in Input) entity.Levels {
	f := in.Frame
	i := f.Last()
	fast, slow := f.At(indicator.SMA20, i), f.At(indicator.EMA50, i)
	if in.long() && !(fast > slow) || !in.long() && !(fast < slow) {
		return entity.NoSignal()
	}
	return riskMultiple(in.long(), f.Close[i], slow, 2)
}

// vwap trades a close beyond the rolling 20-bar VWAP with 1 / 2 sigma bands.
func vwap(in Input) entity.Levels {
	f := in.Frame
	i := f.Last()
	v := at(indicator.VWAP(f.High, f.Low, f.Close, f.Volume, channel), i)
	sd := at(indicator.StdDev(indicator.Typical(f.High, f.Low, f.Close), channel), i)
	c := f.Close[i]
	if in.long() {
		if !(c > v) {
			return entity.NoSignal()
		}
		return levels(v-sd, v+2*sd)
	}
	if !(c < v) {
		return entity.NoSignal()
	}
	return levels(v+sd, v-2*sd)
}

// parabolicSAR uses the SAR as stop while it sits on the protective side.
func parabolicSAR(in Input) entity.Levels {
	f := in.Frame
	i := f.Last()
	sar := at(indicator.SAR(f.High, f.Low, 0.02, 0.2), i)
	c := f.Close[i]
	if in.long() && !(sar < c) || !in.long() && !(sar > c) {
		return entity.NoSignal()
	}
	return riskMultiple(in.long(), c, sar, 2)
}

// fibonacci stops beyond the swing and targets the 1.618 extension when the swing agrees with the side.
func fibonacci(in Input) entity.Levels {
	f := in.Frame
	fib, ok := FibonacciLevels(f, FibLookback)
	if !ok {
		return entity.NoSignal()
	}
	i := f.Last()
	atr := f.At(indicator.ATR14, i)
	r786, _ := fib.Price(0.786)
	ext, _ := fib.Price(1.618)
	if in.long() {
		if fib.Trend != TrendUp {
			return entity.NoSignal()
		}
		return levels(min(fib.SwingLow-0.5*atr, r786-atr), ext)
	}
	if fib.Trend != TrendDown {
		return entity.NoSignal()
	}
	return levels(max(fib.SwingHigh+0.5*atr, r786+atr), ext)
}

// rsiReversal fades an oversold (overbought) RSI back to the Bollinger middle.
func rsiReversal(in Input) entity.Levels {
	f := in.Frame
	i := f.Last()
	rsi := f.At(indicator.RSI14, i)
	atr := f.At(indicator.ATR14, i)
	mid := f.At(indicator.BBMiddle, i)
	if in.long() {
		if !(rsi < 35) {
			return entity.NoSignal()
		}
		return levels(at(indicator.Min(f.Low, 10), i)-0.5*atr, mid)
	}
	if !(rsi > 65) {
		return entity.NoSignal()
	}
	return levels(at(indicator.Max(f.High, 10), i)+0.5*atr, mid)
}

// pivotPoints uses floor pivots of the previous bar: S1 / R1 around P.
func pivotPoints(in Input) entity.Levels {
	f := in.Frame
	i := f.Last()
	if i < 1 {
		return entity.NoSignal()
	}
	h, l, c := f.High[i-1], f.Low[i-1], f.Close[i-1]
	p := (h + l + c) / 3
	r1, s1 := 2*p-l, 2*p-h
	price := f.Close[i]
	if in.long() {
		if !(price > p) {
			return entity.NoSignal()
		}
		return levels(s1, r1)
	}
	if !(price < p) {
		return entity.NoSignal()
	}
	return levels(r1, s1)
}
