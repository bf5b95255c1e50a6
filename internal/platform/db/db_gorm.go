// Package db は gorm による SQL 接続（sqlite / postgres）を提供します。
package db

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config は接続設定です。
type Config struct {
	DSN           string        // postgres://... / host=... (postgres) または file:... / *.db / :memory: (sqlite)
	RetryDeadline time.Duration // 接続リトライを諦めるまでの時間
	RetryInterval time.Duration
	RunMigrations bool
}

// LoadConfig は環境変数から接続設定を読み込みます。
// CATALOG_DB_DSN が空の場合、SQL カタログは無効です。
func LoadConfig() Config {
	return Config{
		DSN:           os.Getenv("CATALOG_DB_DSN"),
		RetryDeadline: 60 * time.Second,
		RetryInterval: 3 * time.Second,
		RunMigrations: os.Getenv("RUN_MIGRATIONS") == "true",
	}
}

// Enabled は DSN が設定されているかを返します。
func (c Config) Enabled() bool { return c.DSN != "" }

// Dialector は DSN から gorm のドライバを選びます。
func Dialector(dsn string) gorm.Dialector {
	d := strings.TrimSpace(dsn)
	if strings.HasPrefix(d, "postgres://") || strings.HasPrefix(d, "postgresql://") || strings.Contains(d, "host=") {
		return postgres.Open(d)
	}
	return sqlite.Open(d)
}

// OpenDB は DB に接続します。起動直後の DB 待ちのため、deadline までリトライします。
func OpenDB(ctx context.Context, cfg Config) (*gorm.DB, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("db: empty DSN")
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 3 * time.Second
	}

	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	deadline := time.Now().Add(cfg.RetryDeadline)
	for {
		db, err := gorm.Open(Dialector(cfg.DSN), gcfg)
		if err == nil {
			err = Ping(ctx, db)
			if err == nil {
				return db, nil
			}
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", cfg.RetryDeadline, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.RetryInterval):
		}
	}
}

// Ping は接続確認を行います（ヘルスチェックからも使われます）。
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
