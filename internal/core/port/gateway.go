// Package port file: internal/core/port/gateway.go
package port

import (
	"CDCGateway/internal/core/domain"
	"CDCGateway/internal/soql"
	"context"
)

// Pacer 控制出站请求的节奏。Acquire 只会延迟，不会失败，
// 除非调用方的 context 被取消。
type Pacer interface {
	Acquire(ctx context.Context) error
}

// Fetcher 执行一次查询计划并返回行数据。
// 实现负责超时、瞬时失败重试和错误分类。
type Fetcher interface {
	Fetch(ctx context.Context, plan soql.QueryPlan) ([]domain.Row, error)
}

// DatasetRegistry 是逻辑数据集名称的只读视图
type DatasetRegistry interface {
	Resolve(name string) (domain.DatasetRef, error)
	ResolveOrRaw(nameOrID string) (domain.DatasetRef, error)
	Names() []string
	Pending() []string
	Descriptions() map[string]string
	Len() int
}

// ToolService 是入站边界 (HTTP、CLI) 看到的网关。
// Call 的失败总是 *OperationError。
type ToolService interface {
	Call(ctx context.Context, req *domain.ToolRequest) (*domain.Envelope, error)
	Methods() []string
}
