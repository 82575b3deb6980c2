// Package gateway internal/service/gateway/ops_surveillance.go
package gateway

import (
	"CDCGateway/internal/core/domain"
	"CDCGateway/internal/core/port"
	"CDCGateway/internal/soql"
	"context"
	"slices"
	"sort"
	"strings"
)

// 枚举参数到过滤条件的查找表。未列出的取值不产生条件。
var (
	yrbssTopics = soql.Lookup{
		"substance_use":     soql.ContainsAny("topic", "Tobacco", "Alcohol", "Marijuana"),
		"mental_health":     soql.ContainsAny("topic", "Mental Health", "Suicide"),
		"violence":          soql.ContainsAny("topic", "Violence", "Bullying"),
		"sexual_behaviors":  soql.ContainsAny("topic", "Sexual"),
		"nutrition":         soql.ContainsAny("topic", "Dietary", "Fruit", "Vegetable"),
		"physical_activity": soql.ContainsAny("topic", "Physical Activity", "Sports"),
	}

	respiratoryViruses = soql.Lookup{
		"rsv":   soql.ContainsAny("indicator", "RSV"),
		"covid": soql.ContainsAny("indicator", "COVID"),
		"flu":   soql.ContainsAny("indicator", "Influenza", "Flu"),
	}

	vaccines = soql.Lookup{
		"hpv":     soql.ContainsAny("vaccine", "HPV"),
		"tdap":    soql.ContainsAny("vaccine", "Tdap", "DTaP"),
		"menacwy": soql.ContainsAny("vaccine", "MenACWY", "Meningococcal"),
		"flu":     soql.ContainsAny("vaccine", "Influenza", "Flu"),
	}

	birthIndicators = soql.Lookup{
		"preterm":          soql.ContainsAny("indicator", "Preterm"),
		"cesarean":         soql.ContainsAny("indicator", "Cesarean", "C-section"),
		"low_birth_weight": soql.ContainsAny("indicator", "Low birth weight"),
	}

	pollutants = soql.Lookup{
		"pm25":  soql.ContainsAny("measurename", "PM2.5", "Particulate"),
		"ozone": soql.ContainsAny("measurename", "Ozone", "O3"),
	}

	tobaccoImpacts = soql.Lookup{
		"mortality":     soql.ContainsAny("measureid", "MORT", "DEATH"),
		"morbidity":     soql.ContainsAny("measureid", "MORB", "ILL"),
		"economic_cost": soql.ContainsAny("measureid", "COST", "ECONOMIC"),
	}

	injuryMechanisms = soql.Lookup{
		"fall":          soql.ContainsAny("injurymechanism", "Fall", "Unintentional Fall"),
		"motor_vehicle": soql.ContainsAny("injurymechanism", "Motor Vehicle", "MVT"),
		"assault":       soql.ContainsAny("injurymechanism", "Assault", "Violence"),
		"sports":        soql.ContainsAny("injurymechanism", "Sports", "Recreation"),
	}

	smokefreeVenues = soql.Lookup{
		"workplace":  soql.Eq("locationtype", "Private Worksites"),
		"restaurant": soql.Eq("locationtype", "Restaurants"),
		"bar":        soql.Eq("locationtype", "Bars"),
		"government": soql.Eq("locationtype", "Government Worksites"),
		"school":     soql.Eq("locationtype", "Schools"),
	}

	overdoseDrugs = soql.Lookup{
		"opioid":          soql.ContainsAny("indicator", "Opioid", "Synthetic opioids"),
		"fentanyl":        soql.ContainsAny("indicator", "Fentanyl", "Synthetic opioids"),
		"heroin":          soql.ContainsAny("indicator", "Heroin"),
		"cocaine":         soql.ContainsAny("indicator", "Cocaine"),
		"methamphetamine": soql.ContainsAny("indicator", "Methamphetamine", "Psychostimulants"),
	}
)

// 子类型到注册表名称的映射。未知子类型落到 default 条目。
// 这些映射是配置数据，启动时由 ReferencedDatasets 对照注册表检查。
var (
	vaccinationDatasets = map[string]string{
		"teen":         "teen_vaccinations",
		"pregnant":     "vaccination_pregnant",
		"kindergarten": "vaccination_kindergarten",
	}
	defaultVaccinationDataset = "teen_vaccinations"

	tobaccoPolicyDatasets = map[string]string{
		"smokefree_air":      "smokefree_air_legislation",
		"medicaid_cessation": "medicaid_cessation_coverage",
		"licensure":          "tobacco_licensure",
		"tax":                "tobacco_tax",
		"ecigarette":         "ecigarette_legislation",
	}
	defaultTobaccoPolicyDataset = "smokefree_air_legislation"

	infectiousDatasets = map[string]string{
		"pneumococcal": "pneumococcal_disease",
		"foodborne":    "foodborne_outbreaks",
		// NORS 同时覆盖水源性暴发
		"waterborne": "foodborne_outbreaks",
	}
	defaultInfectiousDataset = "pneumococcal_disease"
)

// resolveMapped 通过子类型映射解析数据集
func (g *Gateway) resolveMapped(table map[string]string, key, fallback string) (domain.DatasetRef, error) {
	name, ok := table[key]
	if !ok {
		name = fallback
	}
	return g.registry.Resolve(name)
}

// yrbssData 查询高中生青少年风险行为调查
func (g *Gateway) yrbssData(ctx context.Context, req *domain.ToolRequest) (*domain.Envelope, error) {
	const name = "yrbss_high_school"
	ref, err := g.registry.Resolve(name)
	if err != nil {
		return nil, err
	}
	year, err := yearParam(req)
	if err != nil {
		return nil, err
	}

	f := soql.NewFilters().
		UpperIf("locationabbr", req.State).
		NumIf("year", year).
		LookupIf(yrbssTopics, req.Topic)

	return g.query(ctx, name, ref, f, req, pinned(ref.Host))
}

// respiratorySurveillance 查询 COVID-19/RSV/流感合并监测数据，按周倒序
func (g *Gateway) respiratorySurveillance(ctx context.Context, req *domain.ToolRequest) (*domain.Envelope, error) {
	const name = "respiratory_combined"
	ref, err := g.registry.Resolve(name)
	if err != nil {
		return nil, err
	}
	year, err := yearParam(req)
	if err != nil {
		return nil, err
	}

	f := soql.NewFilters().
		EqIf("jurisdiction", req.State).
		NumIf("year", year).
		LookupIf(respiratoryViruses, req.Virus)

	return g.query(ctx, name, ref, f, req, pinned(ref.Host), soql.WithOrder("weekendingdate DESC"))
}

// vaccinationCoverage 按年龄组选择疫苗接种覆盖率数据集
func (g *Gateway) vaccinationCoverage(ctx context.Context, req *domain.ToolRequest) (*domain.Envelope, error) {
	ref, err := g.resolveMapped(vaccinationDatasets, req.AgeGroup, defaultVaccinationDataset)
	if err != nil {
		return nil, err
	}
	year, err := yearParam(req)
	if err != nil {
		return nil, err
	}

	f := soql.NewFilters().
		EqIf("geography", req.State).
		NumIf("year", year).
		LookupIf(vaccines, req.VaccineType)

	return g.query(ctx, "vaccination_coverage_"+req.AgeGroup, ref, f, req, pinned(ref.Host))
}

// birthStatistics 查询出生统计。birth_rate 指标使用按母亲年龄分组的出生率表。
func (g *Gateway) birthStatistics(ctx context.Context, req *domain.ToolRequest) (*domain.Envelope, error) {
	name := "vsrr_birth_quarterly"
	if req.Indicator == "birth_rate" {
		name = "birth_rates_age_group"
	}
	ref, err := g.registry.Resolve(name)
	if err != nil {
		return nil, err
	}
	year, err := yearParam(req)
	if err != nil {
		return nil, err
	}

	f := soql.NewFilters().
		EqIf("jurisdiction", req.State).
		NumIf("year", year).
		LookupIf(birthIndicators, req.Indicator)

	return g.query(ctx, "birth_statistics", ref, f, req, pinned(ref.Host), soql.WithOrder("year DESC"))
}

// environmentalHealth 查询空气质量追踪数据。state 可以是 FIPS 代码或州名。
func (g *Gateway) environmentalHealth(ctx context.Context, req *domain.ToolRequest) (*domain.Envelope, error) {
	const name = "air_quality_tracking"
	ref, err := g.registry.Resolve(name)
	if err != nil {
		return nil, err
	}
	year, err := yearParam(req)
	if err != nil {
		return nil, err
	}

	f := soql.NewFilters()
	if req.State != "" {
		f.Add(soql.EqAny(req.State, "statefips", "statename"))
	}
	f.ContainsIf("countyname", req.County).
		NumIf("year", year).
		LookupIf(pollutants, req.Pollutant)

	return g.query(ctx, name, ref, f, req, pinned(ref.Host), soql.WithOrder("year DESC"))
}

// tobaccoImpact 查询 SAMMEC 吸烟归因死亡、患病与经济成本
func (g *Gateway) tobaccoImpact(ctx context.Context, req *domain.ToolRequest) (*domain.Envelope, error) {
	const name = "sammec_smoking_impact"
	ref, err := g.registry.Resolve(name)
	if err != nil {
		return nil, err
	}
	year, err := yearParam(req)
	if err != nil {
		return nil, err
	}

	f := soql.NewFilters().
		UpperIf("locationabbr", req.State).
		NumIf("year", year).
		LookupIf(tobaccoImpacts, req.ImpactType)

	return g.query(ctx, name, ref, f, req, pinned(ref.Host))
}

// oralVisionHealth 查询口腔或视力健康指标
func (g *Gateway) oralVisionHealth(ctx context.Context, req *domain.ToolRequest) (*domain.Envelope, error) {
	name := "vision_health"
	if req.HealthDomain == "oral" {
		name = "oral_health_indicators"
	}
	ref, err := g.registry.Resolve(name)
	if err != nil {
		return nil, err
	}
	year, err := yearParam(req)
	if err != nil {
		return nil, err
	}

	f := soql.NewFilters().
		UpperIf("locationabbr", req.State).
		NumIf("year", year)

	return g.query(ctx, name, ref, f, req, pinned(ref.Host))
}

// injurySurveillance 查询创伤性脑损伤监测数据
func (g *Gateway) injurySurveillance(ctx context.Context, req *domain.ToolRequest) (*domain.Envelope, error) {
	const name = "tbi_surveillance"
	ref, err := g.registry.Resolve(name)
	if err != nil {
		return nil, err
	}
	year, err := yearParam(req)
	if err != nil {
		return nil, err
	}

	f := soql.NewFilters().
		EqIf("state", req.State).
		NumIf("year", year).
		LookupIf(injuryMechanisms, req.Mechanism)

	return g.query(ctx, name, ref, f, req, pinned(ref.Host), soql.WithOrder("year DESC"))
}

// tobaccoPolicy 查询 STATE System 控烟立法。venue 只对 smokefree_air 有意义。
func (g *Gateway) tobaccoPolicy(ctx context.Context, req *domain.ToolRequest) (*domain.Envelope, error) {
	ref, err := g.resolveMapped(tobaccoPolicyDatasets, req.PolicyType, defaultTobaccoPolicyDataset)
	if err != nil {
		return nil, err
	}
	year, err := yearParam(req)
	if err != nil {
		return nil, err
	}

	f := soql.NewFilters().
		UpperIf("locationabbr", req.State).
		NumIf("year", year)
	if req.PolicyType == "smokefree_air" {
		f.LookupIf(smokefreeVenues, req.Venue)
	}

	return g.query(ctx, "tobacco_policy_"+req.PolicyType, ref, f, req, pinned(ref.Host))
}

// infectiousDisease 查询侵袭性肺炎球菌病或食源/水源性暴发
func (g *Gateway) infectiousDisease(ctx context.Context, req *domain.ToolRequest) (*domain.Envelope, error) {
	ref, err := g.resolveMapped(infectiousDatasets, req.Disease, defaultInfectiousDataset)
	if err != nil {
		return nil, err
	}
	year, err := yearParam(req)
	if err != nil {
		return nil, err
	}

	f := soql.NewFilters().
		EqIf("state", req.State).
		NumIf("year", year)

	switch req.Disease {
	case "pneumococcal":
		f.EqIf("serotype", req.Serotype)
	case "foodborne", "waterborne":
		if req.Pathogen != "" {
			f.Add(soql.AnyOf(
				soql.Contains("etiology", req.Pathogen),
				soql.Contains("confirmedagent", req.Pathogen),
			))
		}
	}
	if req.Disease == "waterborne" {
		f.Add(soql.AnyOf(
			soql.Contains("mode", "Water"),
			soql.Eq("waterexposure", "Yes"),
		))
	}

	return g.query(ctx, "infectious_disease_"+req.Disease, ref, f, req, pinned(ref.Host), soql.WithOrder("year DESC"))
}

// covidVaccination 查询 COVID-19 疫苗接种，提供 county 时自动使用县级表
func (g *Gateway) covidVaccination(ctx context.Context, req *domain.ToolRequest) (*domain.Envelope, error) {
	geo := firstNonEmpty(req.VaxGeography, "state")
	name := "covid_vax_jurisdiction"
	if geo == "county" || req.County != "" {
		name = "covid_vax_county"
	}
	ref, err := g.registry.Resolve(name)
	if err != nil {
		return nil, err
	}

	f := soql.NewFilters()
	if req.State != "" {
		f.Add(soql.EqAny(strings.ToUpper(req.State), "location", "stateabbr", "recip_state"))
	}
	if req.County != "" {
		f.Add(soql.EqAny(req.County, "recip_county", "county"))
	}

	return g.query(ctx, "covid_vax_"+geo, ref, f, req, pinned(ref.Host), soql.WithOrder("date DESC"))
}

// overdoseSurveillance 查询药物过量死亡。数据集按 县级 > 药物 > 临时州级 > 人口学 的顺序选择。
func (g *Gateway) overdoseSurveillance(ctx context.Context, req *domain.ToolRequest) (*domain.Envelope, error) {
	geo := firstNonEmpty(req.OverdoseGeography, "state")
	drug := firstNonEmpty(req.DrugType, "all")
	provisional := req.Provisional == nil || *req.Provisional

	var name string
	switch {
	case req.County != "" || geo == "county":
		name = "overdose_county"
	case drug != "all":
		name = "overdose_by_drug"
	case provisional:
		name = "overdose_provisional_state"
	default:
		name = "overdose_demographics"
	}
	ref, err := g.registry.Resolve(name)
	if err != nil {
		return nil, err
	}

	f := soql.NewFilters()
	if req.State != "" {
		upper := strings.ToUpper(req.State)
		f.Add(soql.AnyOf(
			soql.Eq("state", upper),
			soql.Eq("state_name", req.State),
			soql.Eq("stateabbr", upper),
		))
	}
	f.EqIf("county", req.County)
	if drug != "all" {
		f.LookupIf(overdoseDrugs, drug)
	}

	return g.query(ctx, "overdose_"+geo+"_"+drug, ref, f, req, pinned(ref.Host))
}

// ReferencedDatasets 返回所有操作会用到的注册表名称 (不含 PLACES/BRFSS 这类按参数拼接的名称)
func ReferencedDatasets() []string {
	names := []string{
		"chronic_disease_indicators",
		"yrbss_high_school",
		"respiratory_combined",
		"vsrr_birth_quarterly",
		"birth_rates_age_group",
		"air_quality_tracking",
		"sammec_smoking_impact",
		"oral_health_indicators",
		"vision_health",
		"tbi_surveillance",
		"covid_vax_jurisdiction",
		"covid_vax_county",
		"overdose_county",
		"overdose_by_drug",
		"overdose_provisional_state",
		"overdose_demographics",
	}
	for _, table := range []map[string]string{vaccinationDatasets, tobaccoPolicyDatasets, infectiousDatasets} {
		for _, name := range table {
			names = append(names, name)
		}
	}

	sort.Strings(names)
	return slices.Compact(names)
}

// UnresolvedReferences 返回操作引用了、但当前注册表无法解析的名称
func UnresolvedReferences(registry port.DatasetRegistry) []string {
	var out []string
	for _, name := range ReferencedDatasets() {
		if _, err := registry.Resolve(name); err != nil {
			out = append(out, name)
		}
	}
	return out
}
