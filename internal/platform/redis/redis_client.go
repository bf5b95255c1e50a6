// Package redis は価格キャッシュ用の Redis クライアントを生成します。
package redis

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config は Redis 接続設定です。
type Config struct {
	Addr     string
	Password string
	DB       int
}

// LoadConfig は環境変数から Redis 接続設定を読み込みます。
// REDIS_URL が設定されていればそれを優先し、なければ REDIS_HOST / REDIS_PORT を使います。
func LoadConfig() Config {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		return Config{}
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}
	return Config{Addr: host + ":" + port, Password: os.Getenv("REDIS_PASSWORD")}
}

// Enabled は接続先が設定されているかを返します。
func (c Config) Enabled() bool { return c.Addr != "" }

// NewRedisClient は Redis クライアントを生成し、疎通確認を行います。
// 接続先が未設定の場合は (nil, nil) を返し、呼び出し側はプロセス内キャッシュで動作します。
func NewRedisClient(ctx context.Context) (*redis.Client, error) {
	var opts *redis.Options
	if u := os.Getenv("REDIS_URL"); u != "" {
		parsed, err := redis.ParseURL(u)
		if err != nil {
			return nil, err
		}
		opts = parsed
	} else {
		cfg := LoadConfig()
		if !cfg.Enabled() {
			slog.Info("Redis is not configured; using the in-process price cache")
			return nil, nil
		}
		opts = &redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}
	}

	rdb := redis.NewClient(opts)

	// 接続確認
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", opts.Addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", opts.Addr)
	return rdb, nil
}
