// Package gateway internal/service/gateway/gateway.go
//
// gateway 把结构化的工具请求翻译成针对单个 CDC 数据集的 SoQL 查询，
// 执行查询并把结果规范化为统一的 Envelope。
package gateway

import (
	"CDCGateway/internal/cdcobserve"
	"CDCGateway/internal/core/domain"
	"CDCGateway/internal/core/port"
	"CDCGateway/internal/soql"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// Gateway 是 port.ToolService 的实现。查询路径上除 Pacer 外没有共享可变状态。
type Gateway struct {
	registry port.DatasetRegistry
	fetcher  port.Fetcher
	ops      map[string]operation

	// probeCache 只缓存探测结论，不缓存数据行；nil 表示关闭
	probeCache *lru.LRU[string, ProbeResult]
}

var _ port.ToolService = (*Gateway)(nil)

// requirement 描述一个操作级必填参数
type requirement struct {
	name    string
	present func(*domain.ToolRequest) bool
}

type operation struct {
	required []requirement
	run      func(ctx context.Context, req *domain.ToolRequest) (*domain.Envelope, error)
}

// NewGateway 创建网关。registry 与 fetcher 都不能为 nil。
func NewGateway(registry port.DatasetRegistry, fetcher port.Fetcher) (*Gateway, error) {
	if registry == nil || fetcher == nil {
		return nil, errors.New("gateway: registry and fetcher must not be nil")
	}
	g := &Gateway{registry: registry, fetcher: fetcher}
	g.ops = g.operations()
	return g, nil
}

func needs(name string, present func(*domain.ToolRequest) bool) requirement {
	return requirement{name: name, present: present}
}

func (g *Gateway) operations() map[string]operation {
	datasetName := needs("dataset_name", func(r *domain.ToolRequest) bool { return r.DatasetName != "" })

	return map[string]operation{
		"get_places_data":                {run: g.placesData},
		"get_brfss_data":                 {run: g.brfssData},
		"get_chronic_disease_indicators": {run: g.chronicDiseaseIndicators},
		"search_dataset":                 {required: []requirement{datasetName}, run: g.searchDataset},
		"get_available_measures":         {required: []requirement{datasetName}, run: g.availableMeasures},
		"list_datasets":                  {run: g.listDatasets},

		"get_yrbss_data":               {run: g.yrbssData},
		"get_respiratory_surveillance": {run: g.respiratorySurveillance},
		"get_vaccination_coverage": {
			required: []requirement{needs("age_group", func(r *domain.ToolRequest) bool { return r.AgeGroup != "" })},
			run:      g.vaccinationCoverage,
		},
		"get_birth_statistics":     {run: g.birthStatistics},
		"get_environmental_health": {run: g.environmentalHealth},
		"get_tobacco_impact":       {run: g.tobaccoImpact},
		"get_oral_vision_health": {
			required: []requirement{needs("health_domain", func(r *domain.ToolRequest) bool { return r.HealthDomain != "" })},
			run:      g.oralVisionHealth,
		},
		"get_injury_surveillance": {run: g.injurySurveillance},
		"get_tobacco_policy": {
			required: []requirement{needs("policy_type", func(r *domain.ToolRequest) bool { return r.PolicyType != "" })},
			run:      g.tobaccoPolicy,
		},
		"get_infectious_disease": {
			required: []requirement{needs("disease", func(r *domain.ToolRequest) bool { return r.Disease != "" })},
			run:      g.infectiousDisease,
		},
		"get_covid_vaccination":     {run: g.covidVaccination},
		"get_overdose_surveillance": {run: g.overdoseSurveillance},
	}
}

// Methods 返回按字母排序的全部方法名
func (g *Gateway) Methods() []string {
	out := make([]string, 0, len(g.ops))
	for m := range g.ops {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Call 分发一次工具调用。任何失败都以 *port.OperationError 返回，绝不 panic 到调用方。
func (g *Gateway) Call(ctx context.Context, req *domain.ToolRequest) (env *domain.Envelope, err error) {
	if req == nil {
		req = &domain.ToolRequest{}
	}
	method := strings.TrimSpace(req.Method)
	start := time.Now()
	cdcobserve.TotalReq.Inc()

	defer func() {
		if r := recover(); r != nil {
			env, err = nil, fmt.Errorf("%w: internal error: %v", port.ErrTransport, r)
		}
		if err != nil {
			cdcobserve.FailReq.Inc()
			var opErr *port.OperationError
			if !errors.As(err, &opErr) {
				err = &port.OperationError{Method: method, Err: err}
			}
			slog.Warn("[Gateway] 调用失败", "method", method, "error", err, "elapsed", time.Since(start))
			return
		}
		slog.Debug("[Gateway] 调用完成", "method", method, "count", env.Count, "elapsed", time.Since(start))
	}()

	op, ok := g.ops[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", port.ErrUnknownMethod, method)
	}
	for _, r := range op.required {
		if !r.present(req) {
			return nil, fmt.Errorf("%w: %s is required for %s", port.ErrMissingParameter, r.name, method)
		}
	}
	return op.run(ctx, req)
}

// query 是所有数据类操作共享的流水线：分页 → 计划 → 主机策略 → 信封
func (g *Gateway) query(ctx context.Context, label string, ref domain.DatasetRef, filters *soql.Filters,
	req *domain.ToolRequest, policy hostPolicy, opts ...soql.PlanOption) (*domain.Envelope, error) {

	plan := soql.NewPlan(ref, policy.primary, filters, soql.Page(req.PageValues()), opts...)
	rows, err := g.fetch(ctx, plan, policy)
	if err != nil {
		return nil, err
	}
	return domain.NewEnvelope(label, rows), nil
}

// yearParam 解析可选的整数年份，未提供时返回 0
func yearParam(req *domain.ToolRequest) (int, error) {
	n, ok, err := req.Year.Int()
	if err != nil {
		return 0, fmt.Errorf("%w: year must be an integer, got %q", port.ErrInvalidParameter, string(req.Year))
	}
	if !ok {
		return 0, nil
	}
	return n, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
