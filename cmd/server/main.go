package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tradedesk/internal/app/di"
	"tradedesk/internal/app/router"
	analysishandler "tradedesk/internal/feature/analysis/transport/handler"
	dashboardhandler "tradedesk/internal/feature/dashboard/transport/handler"
	marketdatahandler "tradedesk/internal/feature/marketdata/transport/handler"
	symbolhandler "tradedesk/internal/feature/symbolcatalog/transport/handler"
	platformhandler "tradedesk/internal/platform/http/handler"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis・カタログDB（任意）
	deps, cleanup, err := di.NewInfra(ctx)
	if err != nil {
		slog.Error("catalog database unavailable", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	// Usecase
	c, err := di.NewContainer(ctx, deps)
	if err != nil {
		slog.Error("failed to build application", "error", err)
		os.Exit(1)
	}

	// Handler
	analysisH := analysishandler.NewAnalysisHandler(c.Analysis, c.Insight)
	marketdataH := marketdatahandler.NewMarketdataHandler(c.Marketdata)
	symbolH := symbolhandler.NewSymbolHandler(c.Symbols)
	dashboardH := dashboardhandler.NewDashboardHandler()
	healthH := platformhandler.NewHealthHandler(c.HealthChecks())

	// ルータ生成
	r := router.NewRouter(analysisH, marketdataH, symbolH, dashboardH, healthH, c.Metrics.Handler())

	addr := ":" + envOr("PORT", "8080")
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		slog.Info("server listening", "addr", addr, "insight", c.Insight.Enabled(), "redis", deps.Redis != nil, "catalog_db", deps.DB != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
