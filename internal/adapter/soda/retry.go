// Package soda file: internal/adapter/soda/retry.go
package soda

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Backoff 描述两次尝试之间的指数退避
type Backoff struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	// Jitter 为 true 时每次等待在 ±25% 范围内随机浮动
	Jitter bool
}

// DefaultBackoff 返回 100ms 起步、每次翻倍、上限 5s 的退避
func DefaultBackoff() Backoff {
	return Backoff{
		Initial:    100 * time.Millisecond,
		Max:        5 * time.Second,
		Multiplier: 2.0,
		Jitter:     true,
	}
}

// exponential 生成一份新的退避状态。ExponentialBackOff 非并发安全，每次 Fetch 各用一份。
func (b Backoff) exponential() *backoff.ExponentialBackOff {
	if b.Initial <= 0 {
		b.Initial = 100 * time.Millisecond
	}
	if b.Multiplier < 1 {
		b.Multiplier = 2.0
	}
	if b.Max < b.Initial {
		b.Max = b.Initial
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = b.Initial
	eb.MaxInterval = b.Max
	eb.Multiplier = b.Multiplier
	eb.RandomizationFactor = 0
	if b.Jitter {
		eb.RandomizationFactor = 0.25
	}
	// 次数由 retries 控制，不按总耗时截断
	eb.MaxElapsedTime = 0
	eb.Reset()
	return eb
}

// retry 最多执行 1+retries 次 fn。成功、遇到 backoff.Permanent 错误或 ctx 结束时停止。
// 返回值是最后一次失败的原始错误；还没有任何尝试就被取消时返回 ctx 的错误。
func retry(ctx context.Context, retries int, b Backoff, fn func(attempt int) error, notify backoff.Notify) error {
	if retries < 0 {
		retries = 0
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(b.exponential(), uint64(retries)), ctx)

	var (
		attempt int
		lastErr error
	)
	err := backoff.RetryNotify(func() error {
		err := fn(attempt)
		attempt++
		if err != nil {
			lastErr = err
		}
		return err
	}, policy, notify)

	if err != nil && lastErr != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		var pe *backoff.PermanentError
		if errors.As(lastErr, &pe) {
			return pe.Err
		}
		return lastErr
	}
	return err
}
