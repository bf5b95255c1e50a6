// Package yahoo provides a client for the Yahoo Finance chart API.
package yahoo

import (
	"os"
	"strconv"
	"time"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Config holds configuration for the Yahoo Finance chart client.
type Config struct {
	BaseURL        string        // Base URL for the API (e.g., "https://query1.finance.yahoo.com")
	Timeout        time.Duration // HTTP request timeout
	RateLimit      int           // Requests allowed per RateInterval (0 disables limiting)
	RateInterval   time.Duration // Window for RateLimit
	BreakerFails   uint32        // Consecutive failures that open the circuit breaker
	BreakerTimeout time.Duration // Time the breaker stays open before probing again
	UserAgent      string
}

// LoadConfig loads Yahoo Finance configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		BaseURL:        os.Getenv("YAHOO_BASE_URL"),
		Timeout:        10 * time.Second,
		RateLimit:      30,
		RateInterval:   time.Minute,
		BreakerFails:   3,
		BreakerTimeout: 30 * time.Second,
		UserAgent:      "Mozilla/5.0",
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if v, err := strconv.Atoi(os.Getenv("YAHOO_RATE_LIMIT_PER_MINUTE")); err == nil && v >= 0 {
		cfg.RateLimit = v
	}
	if d, err := time.ParseDuration(os.Getenv("YAHOO_TIMEOUT")); err == nil && d > 0 {
		cfg.Timeout = d
	}
	return cfg
}
