// Package soql file: internal/soql/plan.go
package soql

import (
	"CDCGateway/internal/core/domain"
	"net/url"
	"strconv"
	"strings"
)

// MaxLimit 是 SODA 单次请求允许的最大行数
const MaxLimit = 50000

// SODA 保留的查询参数名
const (
	ParamSelect = "$select"
	ParamWhere  = "$where"
	ParamOrder  = "$order"
	ParamLimit  = "$limit"
	ParamOffset = "$offset"
)

// PageSpec 是分页指令
type PageSpec struct {
	Limit  int
	Offset int
}

// Page 构造分页指令。超过上限的 limit 被静默降到 MaxLimit；
// limit <= 0 原样透传，不设下限。
func Page(limit, offset int) PageSpec {
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return PageSpec{Limit: limit, Offset: offset}
}

// QueryPlan 完整描述一次线上请求。构造后不可变，
// 换主机重试时通过 WithHost 得到一个新的计划。
type QueryPlan struct {
	DatasetID string
	Host      domain.Host
	Select    string
	Order     string
	Page      PageSpec

	clauses []Clause
}

// PlanOption 用于设置可选的 select/order
type PlanOption func(*QueryPlan)

// WithSelect 设置 $select
func WithSelect(fields ...string) PlanOption {
	return func(p *QueryPlan) {
		p.Select = strings.Join(fields, ",")
	}
}

// WithSelectExpr 直接设置 $select 表达式 (例如 DISTINCT)
func WithSelectExpr(expr string) PlanOption {
	return func(p *QueryPlan) {
		p.Select = expr
	}
}

// WithOrder 设置 $order
func WithOrder(order string) PlanOption {
	return func(p *QueryPlan) {
		p.Order = order
	}
}

// NewPlan 基于数据集引用和条件集合构造查询计划。filters 可以为 nil。
func NewPlan(ref domain.DatasetRef, host domain.Host, filters *Filters, page PageSpec, opts ...PlanOption) QueryPlan {
	p := QueryPlan{
		DatasetID: ref.ID,
		Host:      host,
		Page:      page,
	}
	if filters != nil {
		p.clauses = filters.Clauses()
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// WithHost 返回一份指向另一个主机的计划副本，过滤条件和分页完全相同
func (p QueryPlan) WithHost(h domain.Host) QueryPlan {
	next := p
	next.Host = h
	next.clauses = make([]Clause, len(p.clauses))
	copy(next.clauses, p.clauses)
	return next
}

// Clauses 返回条件副本
func (p QueryPlan) Clauses() []Clause {
	out := make([]Clause, len(p.clauses))
	copy(out, p.clauses)
	return out
}

// Where 返回编码后的 $where
func (p QueryPlan) Where() string {
	return joinWhere(p.clauses)
}

// Params 把计划序列化为 SODA 查询参数
func (p QueryPlan) Params() url.Values {
	v := url.Values{}
	v.Set(ParamLimit, strconv.Itoa(p.Page.Limit))
	v.Set(ParamOffset, strconv.Itoa(p.Page.Offset))
	if p.Select != "" {
		v.Set(ParamSelect, p.Select)
	}
	if w := p.Where(); w != "" {
		v.Set(ParamWhere, w)
	}
	if p.Order != "" {
		v.Set(ParamOrder, p.Order)
	}
	return v
}

// Path 返回资源路径 /{id}.json
func (p QueryPlan) Path() string {
	return "/" + url.PathEscape(p.DatasetID) + ".json"
}
