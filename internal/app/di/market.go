// Package di provides dependency injection factories for creating application components.
package di

import (
	"github.com/redis/go-redis/v9"

	"tradedesk/internal/platform/cache"
	"tradedesk/internal/platform/externalapi/yahoo"
	infrahttp "tradedesk/internal/platform/http"
	"tradedesk/internal/platform/metrics"
)

// NewMarket creates a fully configured Yahoo Finance repository with HTTP client,
// wrapped with the price cache. The cache uses Redis when rdb is set and an
// in-process store otherwise. The bare Yahoo client is returned for health checks.
func NewMarket(rdb *redis.Client, m *metrics.Metrics) (*cache.CachingMarketRepository, *yahoo.YahooMarket) {
	cfg := yahoo.LoadConfig()
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	market := yahoo.NewYahooMarket(cfg, httpClient, m)
	return cache.NewCachingMarketRepository(rdb, cache.DefaultTTL, market, "prices", m), market
}
