package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedesk/internal/platform/metrics"
	"tradedesk/internal/shared/failure"
)

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:        baseURL,
		Timeout:        5 * time.Second,
		BreakerFails:   2,
		BreakerTimeout: time.Hour,
	}
}

const chartOK = `{
  "chart": {
    "result": [{
      "meta": {"symbol": "AAPL", "currency": "USD"},
      "timestamp": [1736985600, 1736899200, 1737072000, 1737072000, 1737158400],
      "indicators": {"quote": [{
        "open":   [150.0, 148.0, null, 152.0, 153.0],
        "high":   [155.0, 151.0, null, 154.0, 156.0],
        "low":    [149.0, 147.5, null, 151.0, 152.5],
        "close":  [154.5, 150.0, null, 153.5, 155.0],
        "volume": [1000000, 900000, null, 800000, null]
      }]}
    }],
    "error": null
  }
}`

func TestYahooMarket_Fetch_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		assert.Equal(t, "2y", r.URL.Query().Get("range"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chartOK))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.UserAgent = "tradedesk-test"
	m := metrics.New()
	market := NewYahooMarket(cfg, server.Client(), m)

	candles, err := market.Fetch(context.Background(), "AAPL", "2y", "1d")
	require.NoError(t, err)

	// null 足は除外、重複タイムスタンプは1本に、古い順に並ぶ
	require.Len(t, candles, 4)
	assert.Equal(t, 150.0, candles[0].Close)
	assert.Equal(t, 154.5, candles[1].Close)
	assert.Equal(t, 153.5, candles[2].Close)
	assert.Equal(t, 0.0, candles[3].Volume, "null volume becomes zero")
	for i := 1; i < len(candles); i++ {
		assert.True(t, candles[i-1].Time.Before(candles[i].Time))
	}
	assert.Equal(t, time.UTC, candles[0].Time.Location())

	assert.Equal(t, 1, testutil.CollectAndCount(m.FetchDuration))
}

func TestYahooMarket_Fetch_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		status   int
		body     string
		wantKind failure.Kind
	}{
		{
			name:     "error: 404 is insufficient data",
			status:   http.StatusNotFound,
			body:     `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`,
			wantKind: failure.KindInsufficientData,
		},
		{
			name:     "error: api error body with 200",
			status:   http.StatusOK,
			body:     `{"chart":{"result":null,"error":{"code":"Bad Request","description":"Invalid input - interval=2m is not supported"}}}`,
			wantKind: failure.KindFetchFailure,
		},
		{
			name:     "error: empty result",
			status:   http.StatusOK,
			body:     `{"chart":{"result":[],"error":null}}`,
			wantKind: failure.KindInsufficientData,
		},
		{
			name:     "error: server error",
			status:   http.StatusInternalServerError,
			body:     `oops`,
			wantKind: failure.KindFetchFailure,
		},
		{
			name:     "error: malformed json",
			status:   http.StatusOK,
			body:     `{"chart": [`,
			wantKind: failure.KindFetchFailure,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			market := NewYahooMarket(testConfig(server.URL), server.Client(), nil)
			candles, err := market.Fetch(context.Background(), "ZZZZ", "1mo", "1d")

			require.Error(t, err)
			assert.Nil(t, candles)
			assert.Equal(t, tc.wantKind, failure.KindOf(err))
		})
	}
}

func TestYahooMarket_Fetch_BreakerOpensWithoutRetry(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	market := NewYahooMarket(testConfig(server.URL), server.Client(), nil)
	require.NoError(t, market.Healthy(context.Background()))

	for i := 0; i < 3; i++ {
		_, err := market.Fetch(context.Background(), "AAPL", "1mo", "1d")
		require.Error(t, err)
		assert.Equal(t, failure.KindFetchFailure, failure.KindOf(err))
	}
	// 2回の失敗でブレーカーが開き、3回目はサーバーに届かない。
	assert.Equal(t, int32(2), hits.Load())
	assert.EqualError(t, market.Healthy(context.Background()), "yahoo: circuit breaker is open")
}

func TestYahooMarket_Fetch_NotFoundDoesNotTripBreaker(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	market := NewYahooMarket(testConfig(server.URL), server.Client(), nil)
	for i := 0; i < 4; i++ {
		_, err := market.Fetch(context.Background(), "NOPE", "1mo", "1d")
		require.Error(t, err)
	}
	assert.Equal(t, int32(4), hits.Load())
	assert.NoError(t, market.Healthy(context.Background()))
}

func TestYahooMarket_Fetch_ContextCanceled(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chartOK))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	market := NewYahooMarket(testConfig(server.URL), server.Client(), nil)
	_, err := market.Fetch(ctx, "AAPL", "1mo", "1d")
	require.Error(t, err)
	assert.Equal(t, failure.KindFetchFailure, failure.KindOf(err))
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("YAHOO_BASE_URL", "")
	t.Setenv("YAHOO_RATE_LIMIT_PER_MINUTE", "5")
	t.Setenv("YAHOO_TIMEOUT", "3s")

	cfg := LoadConfig()
	assert.Equal(t, defaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 5, cfg.RateLimit)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, time.Minute, cfg.RateInterval)
}
