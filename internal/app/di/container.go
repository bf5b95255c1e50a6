package di

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"tradedesk/internal/feature/analysis/adapters/fundamentals"
	"tradedesk/internal/feature/analysis/adapters/gemini"
	analysisusecase "tradedesk/internal/feature/analysis/usecase"
	marketdatausecase "tradedesk/internal/feature/marketdata/usecase"
	symbolusecase "tradedesk/internal/feature/symbolcatalog/usecase"
	infradb "tradedesk/internal/platform/db"
	platformhandler "tradedesk/internal/platform/http/handler"
	"tradedesk/internal/platform/metrics"
)

// Deps are the optional infrastructure clients. Any of them may be nil.
type Deps struct {
	Redis         *redis.Client
	DB            *gorm.DB
	RunMigrations bool
	Metrics       *metrics.Metrics
}

// Container holds the usecases shared by the HTTP server and the CLI.
type Container struct {
	Metrics    *metrics.Metrics
	Marketdata *marketdatausecase.MarketdataUsecase
	Symbols    *symbolusecase.SymbolUsecase
	Analysis   *analysisusecase.AnalysisUsecase
	Insight    *analysisusecase.InsightUsecase

	checks map[string]platformhandler.Check
}

// HealthChecks returns the dependency checks served by /healthz.
func (c *Container) HealthChecks() map[string]platformhandler.Check {
	return c.checks
}

// NewContainer wires repositories and usecases.
// The insight usecase is disabled when no Gemini credentials are configured.
func NewContainer(ctx context.Context, deps Deps) (*Container, error) {
	m := deps.Metrics
	if m == nil {
		m = metrics.New()
	}

	repo, categories, err := NewCatalog(ctx, deps.DB, deps.RunMigrations)
	if err != nil {
		return nil, err
	}
	symbolUC := symbolusecase.NewSymbolUsecase(repo, categories)

	cached, yahooMarket := NewMarket(deps.Redis, m)
	marketUC := marketdatausecase.NewMarketdataUsecase(cached)

	extended, _ := strconv.ParseBool(os.Getenv("FUNDAMENTALS_EXTENDED"))
	analysisUC := analysisusecase.NewAnalysisUsecase(marketUC, fundamentals.NewSimulator(extended), symbolUC, m)

	return &Container{
		Metrics:    m,
		Marketdata: marketUC,
		Symbols:    symbolUC,
		Analysis:   analysisUC,
		Insight:    analysisusecase.NewInsightUsecase(analysisUC, NewGenerator(ctx), m),
		checks:     healthChecks(deps, yahooMarket.Healthy),
	}, nil
}

func healthChecks(deps Deps, market platformhandler.Check) map[string]platformhandler.Check {
	checks := map[string]platformhandler.Check{"yahoo": market}
	if deps.Redis != nil {
		rdb := deps.Redis
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	if deps.DB != nil {
		db := deps.DB
		checks["catalog_db"] = func(ctx context.Context) error { return infradb.Ping(ctx, db) }
	}
	return checks
}

// NewGenerator creates the Gemini generator, or nil when it is not configured
// or the client cannot be created.
func NewGenerator(ctx context.Context) analysisusecase.Generator {
	cfg := gemini.LoadConfig()
	if !cfg.Enabled() {
		slog.InfoContext(ctx, "Gemini credentials are not set; insight disabled")
		return nil
	}
	g, err := gemini.NewGeminiGenerator(ctx, cfg)
	if err != nil {
		slog.WarnContext(ctx, "Gemini client unavailable; insight disabled", "error", err)
		return nil
	}
	return g
}
