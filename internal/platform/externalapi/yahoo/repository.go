package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"tradedesk/internal/feature/marketdata/domain/entity"
	"tradedesk/internal/feature/marketdata/usecase"
	"tradedesk/internal/platform/externalapi/yahoo/dto"
	"tradedesk/internal/platform/metrics"
	"tradedesk/internal/shared/circuitbreaker"
	"tradedesk/internal/shared/failure"
	"tradedesk/internal/shared/ratelimiter"
)

const provider = "yahoo"

// errNoData は銘柄または期間にデータが存在しないことを示します（ブレーカーの失敗には数えません）。
var errNoData = errors.New("no data found")

// YahooMarket は Yahoo Finance の chart API から株価データを取得する MarketRepository 実装です。
// 市場データ経路ではリトライを行いません。失敗は種類を付けてそのまま返します。
type YahooMarket struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.RateLimiterInterface
	breaker *circuitbreaker.Breaker
	metrics *metrics.Metrics
}

// YahooMarket が MarketRepository を実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*YahooMarket)(nil)

// NewYahooMarket は指定された設定と HTTP クライアントで YahooMarket を生成します。
// m は nil でも構いません。
func NewYahooMarket(cfg Config, client *http.Client, m *metrics.Metrics) *YahooMarket {
	bs := circuitbreaker.DefaultSettings()
	if cfg.BreakerFails > 0 {
		bs.ConsecutiveFailures = cfg.BreakerFails
	}
	if cfg.BreakerTimeout > 0 {
		bs.Timeout = cfg.BreakerTimeout
	}
	bs.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, errNoData) || errors.Is(err, context.Canceled)
	}
	return &YahooMarket{
		cfg:     cfg,
		client:  client,
		limiter: ratelimiter.NewRateLimiter(provider, cfg.RateLimit, cfg.RateInterval),
		breaker: circuitbreaker.New(provider, bs),
		metrics: m,
	}
}

// Healthy はブレーカーが閉じていなければエラーを返します。/healthz のチェックに使います。
func (y *YahooMarket) Healthy(ctx context.Context) error {
	if st := y.breaker.State(); st != "closed" {
		return fmt.Errorf("%s: circuit breaker is %s", provider, st)
	}
	return nil
}

// Fetch は chart API から rng 期間・interval 間隔の足を取得し、古い順に並べて返します。
// null の足と重複したタイムスタンプは除外します。
func (y *YahooMarket) Fetch(ctx context.Context, symbol, rng, interval string) ([]entity.Candle, error) {
	if err := y.limiter.Wait(ctx); err != nil {
		return nil, failure.Fetch(provider, fmt.Errorf("rate limiter: %w", err))
	}

	start := time.Now()
	candles, err := circuitbreaker.Execute(y.breaker, func() ([]entity.Candle, error) {
		return y.fetchChart(ctx, symbol, rng, interval)
	})
	y.metrics.ObserveFetch(provider, outcome(err), time.Since(start))

	switch {
	case err == nil:
		return candles, nil
	case errors.Is(err, errNoData):
		return nil, failure.InsufficientData(provider, "%s: %v", symbol, err)
	default:
		slog.Error("yahoo fetch failed", "symbol", symbol, "range", rng, "interval", interval, "error", err)
		return nil, failure.Fetch(provider, err)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, errNoData):
		return "no_data"
	case errors.Is(err, circuitbreaker.ErrOpen):
		return "breaker_open"
	default:
		return "error"
	}
}

func (y *YahooMarket) fetchChart(ctx context.Context, symbol, rng, interval string) ([]entity.Candle, error) {
	q := url.Values{}
	q.Set("range", rng)
	q.Set("interval", interval)
	q.Set("includePrePost", "false")
	q.Set("events", "div,splits")

	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", strings.TrimRight(y.cfg.BaseURL, "/"), url.PathEscape(symbol), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if y.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", y.cfg.UserAgent)
	}

	res, err := y.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(res.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var chart dto.ChartResponse
	decodeErr := json.Unmarshal(body, &chart)

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", errNoData, describe(chart, res.StatusCode))
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("yahoo http %d: %s", res.StatusCode, describe(chart, res.StatusCode))
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode chart: %w", decodeErr)
	}
	if e := chart.Chart.Error; e != nil {
		if strings.EqualFold(e.Code, "Not Found") || strings.Contains(strings.ToLower(e.Description), "no data found") {
			return nil, fmt.Errorf("%w: %s", errNoData, e.Description)
		}
		return nil, fmt.Errorf("yahoo api error %s: %s", e.Code, e.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, errNoData
	}

	candles := toCandles(chart.Chart.Result[0])
	if len(candles) == 0 {
		return nil, errNoData
	}
	return candles, nil
}

func describe(chart dto.ChartResponse, status int) string {
	if chart.Chart.Error != nil && chart.Chart.Error.Description != "" {
		return chart.Chart.Error.Description
	}
	return http.StatusText(status)
}

// toCandles は列形式のレスポンスを足のスライスに変換します。
func toCandles(r dto.ChartResult) []entity.Candle {
	quote := r.Indicators.Quote[0]
	at := func(s []*float64, i int) (float64, bool) {
		if i >= len(s) || s[i] == nil {
			return 0, false
		}
		return *s[i], true
	}

	candles := make([]entity.Candle, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		o, ok1 := at(quote.Open, i)
		h, ok2 := at(quote.High, i)
		l, ok3 := at(quote.Low, i)
		c, ok4 := at(quote.Close, i)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue // 休場日などの null 足
		}
		v, _ := at(quote.Volume, i)
		candles = append(candles, entity.Candle{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: v,
		})
	}

	sort.SliceStable(candles, func(i, j int) bool { return candles[i].Time.Before(candles[j].Time) })

	// 同じタイムスタンプは後から来た足（当日の暫定値）を採用します。
	out := candles[:0]
	for _, c := range candles {
		if n := len(out); n > 0 && out[n-1].Time.Equal(c.Time) {
			out[n-1] = c
			continue
		}
		out = append(out, c)
	}
	return out
}
