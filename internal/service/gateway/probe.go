// Package gateway internal/service/gateway/probe.go
package gateway

import (
	"CDCGateway/internal/core/domain"
	"CDCGateway/internal/soql"
	"context"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/errgroup"
)

// DefaultProbeConcurrency 是探测时同时在途的数据集数量。
// 真正的出站节奏仍由 Pacer 控制。
const DefaultProbeConcurrency = 4

// ProbeResult 是单个数据集的可达性检查结果
type ProbeResult struct {
	Name    string        `json:"name"`
	ID      string        `json:"id,omitempty"`
	Host    domain.Host   `json:"host,omitempty"`
	OK      bool          `json:"ok"`
	Rows    int           `json:"rows"`
	Error   string        `json:"error,omitempty"`
	Elapsed time.Duration `json:"elapsed_ns"`
	Cached  bool          `json:"cached,omitempty"`
}

// EnableProbeCache 让探测结果在 ttl 内复用。必须在开始服务前调用；ttl <= 0 时关闭。
func (g *Gateway) EnableProbeCache(size int, ttl time.Duration) {
	if ttl <= 0 {
		g.probeCache = nil
		return
	}
	if size <= 0 {
		size = 256
	}
	g.probeCache = lru.NewLRU[string, ProbeResult](size, nil, ttl)
}

// probeKey 包含 ID 与主机，注册表热加载后旧结论自然失效
func probeKey(ref domain.DatasetRef) string {
	return ref.Name + "|" + ref.ID + "|" + string(ref.Host)
}

// Probe 对每个数据集发出 $limit=1 的查询，检查其是否仍可访问。
// names 为空时探测注册表中的全部数据集。单个数据集失败记录在结果中，不中断整体探测；
// 只有 ctx 结束才会返回错误。结果顺序与 names 一致。
func (g *Gateway) Probe(ctx context.Context, names []string, concurrency int) ([]ProbeResult, error) {
	if len(names) == 0 {
		names = g.registry.Names()
	}
	if concurrency <= 0 {
		concurrency = DefaultProbeConcurrency
	}

	results := make([]ProbeResult, len(names))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)

	for i, name := range names {
		i, name := i, name
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			results[i] = g.probeOne(egCtx, name)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return results, err
	}

	var failed int
	for _, r := range results {
		if !r.OK {
			failed++
		}
	}
	slog.Info("[Gateway] 数据集探测完成", "total", len(results), "failed", failed)
	return results, nil
}

func (g *Gateway) probeOne(ctx context.Context, name string) ProbeResult {
	res := ProbeResult{Name: name}
	ref, err := g.registry.Resolve(name)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.ID, res.Host = ref.ID, ref.Host

	key := probeKey(ref)
	if g.probeCache != nil {
		if cached, ok := g.probeCache.Get(key); ok {
			cached.Cached = true
			return cached
		}
	}

	start := time.Now()
	plan := soql.NewPlan(ref, ref.Host, nil, soql.Page(1, 0))
	rows, err := g.fetch(ctx, plan, withFallback(ref.Host))
	res.Elapsed = time.Since(start)
	if err != nil {
		res.Error = err.Error()
	} else {
		res.OK = true
		res.Rows = len(rows)
	}
	// 被取消的探测不代表数据集状态
	if g.probeCache != nil && ctx.Err() == nil {
		g.probeCache.Add(key, res)
	}
	return res
}
