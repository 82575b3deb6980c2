// Package gateway internal/service/gateway/ops_core.go
package gateway

import (
	"CDCGateway/internal/core/domain"
	"CDCGateway/internal/core/port"
	"CDCGateway/internal/soql"
	"context"
	"fmt"
	"strings"
)

const (
	defaultGeographyLevel = "county"
	defaultPlacesYear     = "2024"
	defaultBRFSSType      = "obesity_national"

	measuresSelect = "DISTINCT measureid, measure"
	measuresLimit  = 1000
)

// placesData 查询 PLACES 本地疾病患病率，数据集由 geography_level 与 year 共同决定
func (g *Gateway) placesData(ctx context.Context, req *domain.ToolRequest) (*domain.Envelope, error) {
	geo := firstNonEmpty(req.GeographyLevel, defaultGeographyLevel)
	year := firstNonEmpty(strings.TrimSpace(string(req.Year)), defaultPlacesYear)

	name := fmt.Sprintf("places_%s_%s", geo, year)
	ref, err := g.registry.Resolve(name)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid geography_level/year combination: %s/%s", port.ErrInvalidDataset, geo, year)
	}

	f := soql.NewFilters().
		UpperIf("stateabbr", req.State).
		UpperIf("measureid", req.MeasureID).
		EqIf("locationname", req.Location)

	return g.query(ctx, name, ref, f, req, pinned(ref.Host))
}

// brfssData 查询 BRFSS 行为风险因素数据
func (g *Gateway) brfssData(ctx context.Context, req *domain.ToolRequest) (*domain.Envelope, error) {
	kind := firstNonEmpty(req.DatasetType, defaultBRFSSType)
	name := "brfss_" + kind
	ref, err := g.registry.Resolve(name)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid BRFSS dataset type: %s", port.ErrInvalidDataset, kind)
	}

	year, err := yearParam(req)
	if err != nil {
		return nil, err
	}
	f := soql.NewFilters().
		NumIf("year", year).
		UpperIf("locationabbr", req.State)

	return g.query(ctx, name, ref, f, req, pinned(ref.Host))
}

// chronicDiseaseIndicators 查询 CDI。该数据集在两个主机之间迁移过，允许回退。
func (g *Gateway) chronicDiseaseIndicators(ctx context.Context, req *domain.ToolRequest) (*domain.Envelope, error) {
	const name = "chronic_disease_indicators"
	ref, err := g.registry.Resolve(name)
	if err != nil {
		return nil, err
	}

	f := soql.NewFilters().
		EqIf("topic", req.Topic).
		ContainsIf("question", req.Question)
	if req.YearStart != 0 {
		f.Add(soql.Gte("yearstart", req.YearStart))
	}
	if req.YearEnd != 0 {
		f.Add(soql.Lte("yearend", req.YearEnd))
	}
	f.UpperIf("locationabbr", firstNonEmpty(req.State, req.Location)).
		EqIf("stratification1", req.Stratification)

	return g.query(ctx, name, ref, f, req, withFallback(ref.Host))
}

// searchDataset 是通用搜索：注册表名称或任意远端 ID，调用方自带 $where。
// 先访问 data.cdc.gov，数据集不可见时再访问 chronicdata.cdc.gov。
func (g *Gateway) searchDataset(ctx context.Context, req *domain.ToolRequest) (*domain.Envelope, error) {
	ref, err := g.registry.ResolveOrRaw(req.DatasetName)
	if err != nil {
		return nil, err
	}

	f := soql.NewFilters()
	if w := strings.TrimSpace(req.WhereClause); w != "" {
		f.Add(soql.Raw(w))
	}

	var opts []soql.PlanOption
	if len(req.SelectFields) > 0 {
		opts = append(opts, soql.WithSelect(req.SelectFields...))
	}
	if req.OrderBy != "" {
		opts = append(opts, soql.WithOrder(req.OrderBy))
	}

	return g.query(ctx, req.DatasetName, ref, f, req, withFallback(domain.HostData), opts...)
}

// availableMeasures 列出数据集中不同的 measureid/measure 组合
func (g *Gateway) availableMeasures(ctx context.Context, req *domain.ToolRequest) (*domain.Envelope, error) {
	ref, err := g.registry.Resolve(req.DatasetName)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid dataset type: %s", port.ErrInvalidDataset, req.DatasetName)
	}

	plan := soql.NewPlan(ref, ref.Host, nil, soql.Page(measuresLimit, 0), soql.WithSelectExpr(measuresSelect))
	rows, err := g.fetch(ctx, plan, pinned(ref.Host))
	if err != nil {
		return nil, err
	}

	env := domain.NewEnvelope(req.DatasetName, rows)
	n := len(env.Data)
	env.Measures = env.Data
	env.MeasureCount = &n
	return env, nil
}

// listDatasets 返回注册表内容，不发起网络请求，不会失败
func (g *Gateway) listDatasets(_ context.Context, _ *domain.ToolRequest) (*domain.Envelope, error) {
	names := g.registry.Names()
	n := len(names)
	return &domain.Envelope{
		Count:               n,
		Data:                []domain.Row{},
		AvailableDatasets:   names,
		DatasetDescriptions: g.registry.Descriptions(),
		TotalDatasets:       &n,
	}, nil
}
