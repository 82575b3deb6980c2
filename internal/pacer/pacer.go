// Package pacer file: internal/pacer/pacer.go
//
// pacer 保证同一进程内任意两次出站请求的开始时间至少相隔固定间隔。
// 所有主机、所有数据集、所有重试共用一个实例。
package pacer

import (
	"CDCGateway/internal/cdcobserve"
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval 是对 CDC 公共端点的礼貌间隔
const DefaultInterval = 500 * time.Millisecond

// Interval 串行化所有调用者：持有 turn 的调用者先等令牌桶放行，
// 再补足距上一次开始时间不足 interval 的部分，最后记录自己的开始时间。
type Interval struct {
	turn     chan struct{}
	limiter  *rate.Limiter
	interval time.Duration
	last     time.Time

	// onStart 在记录开始时间后调用，仅测试使用
	onStart func(time.Time)
}

// New 创建一个间隔节流器。interval <= 0 时使用 DefaultInterval。
func New(interval time.Duration) *Interval {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Interval{
		turn:     make(chan struct{}, 1),
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		interval: interval,
	}
}

// Acquire 阻塞直到允许发出下一次请求。只在 ctx 结束时返回错误，
// 被取消的调用不占用时间槽。
func (p *Interval) Acquire(ctx context.Context) error {
	start := time.Now()
	defer func() {
		cdcobserve.PacerWait.Observe(time.Since(start).Seconds())
	}()

	select {
	case p.turn <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-p.turn }()

	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}
	// 令牌按预约时刻计算，调用者实际恢复可能更晚，以真实开始时间为准
	if !p.last.IsZero() {
		if remaining := p.interval - time.Since(p.last); remaining > 0 {
			timer := time.NewTimer(remaining)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	p.last = time.Now()
	if p.onStart != nil {
		p.onStart(p.last)
	}
	return nil
}

// Interval 返回配置的最小间隔
func (p *Interval) Interval() time.Duration {
	return p.interval
}

// Noop 不做任何等待，供测试和离线命令使用
type Noop struct{}

// Acquire 实现 port.Pacer
func (Noop) Acquire(ctx context.Context) error {
	return ctx.Err()
}
