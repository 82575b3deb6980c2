// Package domain file: internal/core/domain/request.go
package domain

import (
	"bytes"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FlexString 接受 JSON 字符串或数字。year 参数在不同操作中
// 既可能以 "2024" 也可能以 2024 的形式出现。
type FlexString string

// UnmarshalJSON 实现 json.Unmarshaler
func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n jsoniter.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// Int 把值解析为整数，空值返回 (0, false, nil)。
func (f FlexString) Int() (int, bool, error) {
	s := strings.TrimSpace(string(f))
	if s == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

// ToolRequest 是多路复用命令的入站形态：一个 method 判别字段加上一组扁平的可选参数。
// 哪些参数对哪个 method 必填由 service 层决定。
type ToolRequest struct {
	Method string `json:"method" binding:"required"`

	// PLACES
	GeographyLevel string     `json:"geography_level,omitempty"`
	Year           FlexString `json:"year,omitempty"`
	State          string     `json:"state,omitempty"`
	MeasureID      string     `json:"measure_id,omitempty"`
	Location       string     `json:"location,omitempty"`

	// BRFSS
	DatasetType string `json:"dataset_type,omitempty"`

	// Chronic Disease Indicators
	Topic          string `json:"topic,omitempty"`
	Question       string `json:"question,omitempty"`
	YearStart      int    `json:"year_start,omitempty"`
	YearEnd        int    `json:"year_end,omitempty"`
	Stratification string `json:"stratification,omitempty"`

	// 扩展监测类操作
	Virus             string `json:"virus,omitempty"`
	AgeGroup          string `json:"age_group,omitempty"`
	VaccineType       string `json:"vaccine_type,omitempty"`
	Indicator         string `json:"indicator,omitempty"`
	Pollutant         string `json:"pollutant,omitempty"`
	County            string `json:"county,omitempty"`
	ImpactType        string `json:"impact_type,omitempty"`
	HealthDomain      string `json:"health_domain,omitempty"`
	InjuryType        string `json:"injury_type,omitempty"`
	Mechanism         string `json:"mechanism,omitempty"`
	PolicyType        string `json:"policy_type,omitempty"`
	Venue             string `json:"venue,omitempty"`
	Disease           string `json:"disease,omitempty"`
	Serotype          string `json:"serotype,omitempty"`
	Pathogen          string `json:"pathogen,omitempty"`
	VaxGeography      string `json:"vax_geography,omitempty"`
	EquityMetrics     *bool  `json:"equity_metrics,omitempty"`
	OverdoseGeography string `json:"overdose_geography,omitempty"`
	DrugType          string `json:"drug_type,omitempty"`
	Provisional       *bool  `json:"provisional,omitempty"`

	// 通用搜索
	DatasetName  string   `json:"dataset_name,omitempty"`
	SelectFields []string `json:"select_fields,omitempty"`
	WhereClause  string   `json:"where_clause,omitempty"`
	OrderBy      string   `json:"order_by,omitempty"`

	// 分页。nil 表示调用方未提供，使用默认值。
	Limit  *int `json:"limit,omitempty"`
	Offset *int `json:"offset,omitempty"`
}

const (
	DefaultLimit  = 100
	DefaultOffset = 0
)

// PageValues 返回带默认值的 limit/offset。这里不做钳制，钳制在查询构建阶段完成。
func (r *ToolRequest) PageValues() (limit, offset int) {
	limit, offset = DefaultLimit, DefaultOffset
	if r.Limit != nil {
		limit = *r.Limit
	}
	if r.Offset != nil {
		offset = *r.Offset
	}
	return limit, offset
}
