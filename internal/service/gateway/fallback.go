// Package gateway internal/service/gateway/fallback.go
package gateway

import (
	"CDCGateway/internal/cdcobserve"
	"CDCGateway/internal/core/domain"
	"CDCGateway/internal/core/port"
	"CDCGateway/internal/soql"
	"context"
	"errors"
	"log/slog"
)

// hostPolicy 决定一个计划先发往哪个主机，以及失败后是否换到另一个主机。
type hostPolicy struct {
	primary   domain.Host
	alternate domain.Host
	fallback  bool
}

// pinned 只访问一个主机
func pinned(h domain.Host) hostPolicy {
	return hostPolicy{primary: h}
}

// withFallback 先访问 h，在数据集不可见时再访问另一个主机一次
func withFallback(h domain.Host) hostPolicy {
	return hostPolicy{primary: h, alternate: h.Alternate(), fallback: true}
}

// shouldFallback 只有 "这个主机上没有这个数据集" 类的失败才会换主机。
// 限流、网络错误等换主机也无济于事。
func shouldFallback(err error) bool {
	return errors.Is(err, port.ErrAccessDenied) || errors.Is(err, port.ErrDatasetNotFound)
}

// fetch 按策略执行计划。备用主机也失败时返回备用主机的错误。
func (g *Gateway) fetch(ctx context.Context, plan soql.QueryPlan, policy hostPolicy) ([]domain.Row, error) {
	rows, err := g.fetcher.Fetch(ctx, plan.WithHost(policy.primary))
	if err == nil || !policy.fallback || !shouldFallback(err) {
		return rows, err
	}

	cdcobserve.HostFallbacks.Inc()
	slog.Info("[Gateway] 主主机不可用，切换到备用主机",
		"dataset", plan.DatasetID, "primary", policy.primary, "alternate", policy.alternate, "reason", err)

	return g.fetcher.Fetch(ctx, plan.WithHost(policy.alternate))
}
