package ratelimiter

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	Wait(ctx context.Context) error
}

// RateLimiterは、API呼び出しなどの操作の頻度を制限します。
// interval あたり limit 回までのリクエストをトークンバケットで許可します。
type RateLimiter struct {
	limiter *rate.Limiter
	limit   int           // interval あたりの上限
	name    string        // ログ出力用の識別子
	warnAt  time.Duration // この時間以上待機した場合に警告を出す
}

// NewRateLimiterは新しいRateLimiterのインスタンスを生成します。
// limit <= 0 または interval <= 0 の場合は制限なしになります。
func NewRateLimiter(name string, limit int, interval time.Duration) *RateLimiter {
	if limit <= 0 || interval <= 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 0), name: name}
	}
	every := interval / time.Duration(limit)
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Every(every), limit),
		limit:   limit,
		name:    name,
		warnAt:  time.Second,
	}
}

// Waitはトークンが得られるまで待機します。ctx がキャンセルされた場合はエラーを返します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	start := time.Now()
	if err := rl.limiter.Wait(ctx); err != nil {
		return err
	}
	if waited := time.Since(start); rl.warnAt > 0 && waited >= rl.warnAt {
		slog.Warn("rate limit reached", "limiter", rl.name, "limit", rl.limit, "waited", waited)
	}
	return nil
}
