package usecase

import (
	"time"

	"tradedesk/internal/feature/marketdata/domain/entity"
)

// Resample aggregates ascending candles into fixed UTC buckets of the given size.
// A bucket takes the first open, the highest high, the lowest low, the last close and
// the summed volume. The input is not modified.
func Resample(candles []entity.Candle, bucket time.Duration) []entity.Candle {
	if bucket <= 0 || len(candles) == 0 {
		out := make([]entity.Candle, len(candles))
		copy(out, candles)
		return out
	}

	out := make([]entity.Candle, 0, len(candles)/int(max(1, bucket/time.Hour))+1)
	var cur entity.Candle
	var curKey time.Time
	for i, c := range candles {
		key := c.Time.UTC().Truncate(bucket)
		if i == 0 || !key.Equal(curKey) {
			if i > 0 {
				out = append(out, cur)
			}
			curKey = key
			cur = entity.Candle{
				Symbol:   c.Symbol,
				Interval: c.Interval,
				Time:     key,
				Open:     c.Open,
				High:     c.High,
				Low:      c.Low,
				Close:    c.Close,
				Volume:   c.Volume,
			}
			continue
		}
		if c.High > cur.High {
			cur.High = c.High
		}
		if c.Low < cur.Low {
			cur.Low = c.Low
		}
		cur.Close = c.Close
		cur.Volume += c.Volume
	}
	out = append(out, cur)
	return out
}
