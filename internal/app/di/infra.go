package di

import (
	"context"
	"fmt"
	"log/slog"

	"tradedesk/internal/platform/db"
	"tradedesk/internal/platform/metrics"
	infraredis "tradedesk/internal/platform/redis"
)

// NewInfra opens the optional infrastructure shared by the server and the CLI.
// Redis is best effort: a connection failure falls back to the in-process cache.
// A configured catalog database that cannot be opened is an error.
// The returned cleanup closes whatever was opened.
func NewInfra(ctx context.Context) (Deps, func(), error) {
	deps := Deps{Metrics: metrics.New()}

	rdb, err := infraredis.NewRedisClient(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Redis unavailable. Using the in-process cache.", "error", err)
		rdb = nil
	}
	deps.Redis = rdb

	cleanup := func() {
		if deps.Redis != nil {
			if err := deps.Redis.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}
		if deps.DB != nil {
			if sqlDB, err := deps.DB.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
	}

	cfg := db.LoadConfig()
	if !cfg.Enabled() {
		return deps, cleanup, nil
	}
	gdb, err := db.OpenDB(ctx, cfg)
	if err != nil {
		cleanup()
		return Deps{}, func() {}, fmt.Errorf("catalog database: %w", err)
	}
	deps.DB, deps.RunMigrations = gdb, cfg.RunMigrations
	return deps, cleanup, nil
}
