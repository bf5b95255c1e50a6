// Package circuitbreaker は外部 API 呼び出しを保護するサーキットブレーカーを提供します。
package circuitbreaker

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// ErrOpen はブレーカーが開いている（または半開状態で上限に達した）ために呼び出しが拒否されたことを示します。
var ErrOpen = errors.New("circuit breaker is open")

// Settings はブレーカーのしきい値です。
type Settings struct {
	// ConsecutiveFailures 回連続で失敗したら開きます。
	ConsecutiveFailures uint32
	// Interval はクローズ状態で失敗カウントをリセットする周期です。
	Interval time.Duration
	// Timeout はオープン状態から半開状態へ移行するまでの時間です。
	Timeout time.Duration
	// IsSuccessful が true を返すエラーは失敗として数えません（例: 銘柄が存在しない）。
	IsSuccessful func(err error) bool
}

// DefaultSettings は市場データ取得用の既定値を返します。
func DefaultSettings() Settings {
	return Settings{
		ConsecutiveFailures: 3,
		Interval:            60 * time.Second,
		Timeout:             30 * time.Second,
	}
}

// Breaker は gobreaker.CircuitBreaker の薄いラッパーです。
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

// New は名前付きのブレーカーを生成します。状態遷移は slog に記録されます。
func New(name string, s Settings) *Breaker {
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = 3
	}
	st := gobreaker.Settings{
		Name:     name,
		Interval: s.Interval,
		Timeout:  s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}
	if s.IsSuccessful != nil {
		st.IsSuccessful = s.IsSuccessful
	}
	return &Breaker{cb: gobreaker.NewCircuitBreaker(st)}
}

// Execute は fn をブレーカー越しに実行します。
// ブレーカーが呼び出しを拒否した場合は ErrOpen をラップしたエラーを返します。
func Execute[T any](b *Breaker, fn func() (T, error)) (T, error) {
	var zero T
	out, err := b.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, errors.Join(ErrOpen, err)
		}
		return zero, err
	}
	v, _ := out.(T)
	return v, nil
}

// State は現在の状態名（closed / half-open / open）を返します。
func (b *Breaker) State() string {
	return b.cb.State().String()
}
