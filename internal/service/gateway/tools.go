// Package gateway internal/service/gateway/tools.go
package gateway

// ToolName 是对外暴露的唯一多路复用工具名
const ToolName = "cdc_health_data"

// ToolDescriptor 描述工具及其 JSON Schema 形态的输入
type ToolDescriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

type paramDoc struct {
	name string
	typ  string
	doc  string
	enum []string
}

var toolParams = []paramDoc{
	{"geography_level", "string", "For get_places_data: geographic level", []string{"county", "place", "tract", "zcta"}},
	{"year", "string", "Data year (e.g. \"2024\"); integer for surveillance datasets", nil},
	{"state", "string", "State abbreviation or jurisdiction name (e.g. \"CA\", \"Texas\")", nil},
	{"measure_id", "string", "PLACES measure code (e.g. \"DIABETES\", \"OBESITY\", \"CHD\")", nil},
	{"location", "string", "Specific location name (e.g. \"Harris County\")", nil},
	{"dataset_type", "string", "For get_brfss_data: BRFSS dataset type", []string{"obesity_national", "obesity_state", "diabetes", "asthma", "asthma_prevalence", "tobacco_use", "smart_county", "health_care_access"}},
	{"topic", "string", "CDI topic (e.g. \"Diabetes\") or YRBSS topic (substance_use, mental_health, violence, sexual_behaviors, nutrition, physical_activity)", nil},
	{"question", "string", "For get_chronic_disease_indicators: substring of the indicator question", nil},
	{"year_start", "integer", "For get_chronic_disease_indicators: first year (inclusive)", nil},
	{"year_end", "integer", "For get_chronic_disease_indicators: last year (inclusive)", nil},
	{"stratification", "string", "For get_chronic_disease_indicators: stratification (e.g. \"Overall\")", nil},
	{"virus", "string", "For get_respiratory_surveillance", []string{"rsv", "covid", "flu", "combined"}},
	{"age_group", "string", "For get_vaccination_coverage", []string{"teen", "pregnant", "kindergarten"}},
	{"vaccine_type", "string", "For get_vaccination_coverage", []string{"hpv", "tdap", "menacwy", "flu"}},
	{"indicator", "string", "For get_birth_statistics", []string{"birth_rate", "preterm", "cesarean", "low_birth_weight"}},
	{"pollutant", "string", "For get_environmental_health", []string{"pm25", "ozone", "combined"}},
	{"county", "string", "County name", nil},
	{"impact_type", "string", "For get_tobacco_impact", []string{"mortality", "morbidity", "economic_cost"}},
	{"health_domain", "string", "For get_oral_vision_health", []string{"oral", "vision"}},
	{"injury_type", "string", "For get_injury_surveillance", []string{"tbi"}},
	{"mechanism", "string", "For get_injury_surveillance", []string{"fall", "motor_vehicle", "assault", "sports", "all"}},
	{"policy_type", "string", "For get_tobacco_policy", []string{"smokefree_air", "medicaid_cessation", "licensure", "tax", "ecigarette"}},
	{"venue", "string", "For get_tobacco_policy (smokefree_air only)", []string{"workplace", "restaurant", "bar", "government", "school", "all"}},
	{"disease", "string", "For get_infectious_disease", []string{"pneumococcal", "foodborne", "waterborne"}},
	{"serotype", "string", "For get_infectious_disease (pneumococcal)", nil},
	{"pathogen", "string", "For get_infectious_disease (foodborne/waterborne), e.g. \"Salmonella\"", nil},
	{"vax_geography", "string", "For get_covid_vaccination", []string{"state", "county", "national"}},
	{"equity_metrics", "boolean", "For get_covid_vaccination: include equity breakdowns when available", nil},
	{"overdose_geography", "string", "For get_overdose_surveillance", []string{"state", "county"}},
	{"drug_type", "string", "For get_overdose_surveillance", []string{"all", "opioid", "fentanyl", "heroin", "cocaine", "methamphetamine"}},
	{"provisional", "boolean", "For get_overdose_surveillance: use provisional counts (default true)", nil},
	{"dataset_name", "string", "For search_dataset/get_available_measures: registry name or raw dataset id", nil},
	{"select_fields", "array", "For search_dataset: field names to return", nil},
	{"where_clause", "string", "For search_dataset: SoQL WHERE clause", nil},
	{"order_by", "string", "For search_dataset: SoQL ORDER BY expression", nil},
}

// Tool 返回工具描述，method 枚举取自当前注册的操作
func (g *Gateway) Tool() ToolDescriptor {
	props := map[string]any{
		"method": map[string]any{
			"type":        "string",
			"enum":        g.Methods(),
			"description": "The operation to perform",
		},
		"limit": map[string]any{
			"type":        "integer",
			"description": "Maximum number of results to return (default: 100, max: 50000)",
			"default":     100,
			"maximum":     50000,
		},
		"offset": map[string]any{
			"type":        "integer",
			"description": "Starting record number for pagination (default: 0)",
			"default":     0,
			"minimum":     0,
		},
	}
	for _, p := range toolParams {
		prop := map[string]any{"type": p.typ, "description": p.doc}
		if len(p.enum) > 0 {
			prop["enum"] = p.enum
		}
		if p.typ == "array" {
			prop["items"] = map[string]any{"type": "string"}
		}
		props[p.name] = prop
	}

	return ToolDescriptor{
		Name: ToolName,
		Description: "Unified tool for CDC public health data: disease prevalence, chronic disease indicators, " +
			"behavioral risk factors and surveillance data from CDC's Socrata Open Data API (SODA). " +
			"Use the method parameter to select the operation.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": props,
			"required":   []string{"method"},
		},
	}
}
