// Package soql file: internal/soql/filters.go
package soql

import (
	"strings"
)

// Lookup 把枚举类参数 (topic、pollutant、drug_type ...) 映射为条件。
// 未知的键不产生任何条件。
type Lookup map[string]Clause

// Filters 是有序的 AND 条件集合。每次调用新建，不在调用之间共享。
// 各个 *If 方法只在参数实际提供时追加条件。
type Filters struct {
	clauses []Clause
}

// NewFilters 创建空的条件集合
func NewFilters() *Filters {
	return &Filters{}
}

// Add 无条件追加一个条件
func (f *Filters) Add(c Clause) *Filters {
	f.clauses = append(f.clauses, c)
	return f
}

// EqIf 在 value 非空时追加 field='value'
func (f *Filters) EqIf(field, value string) *Filters {
	if value != "" {
		f.Add(Eq(field, value))
	}
	return f
}

// UpperIf 在 value 非空时追加 field='VALUE'。
// 州缩写等字段在上游以大写编码，必须先规范化。
func (f *Filters) UpperIf(field, value string) *Filters {
	if value != "" {
		f.Add(Eq(field, strings.ToUpper(value)))
	}
	return f
}

// NumIf 在 n 非零时追加 field=n
func (f *Filters) NumIf(field string, n int) *Filters {
	if n != 0 {
		f.Add(Num(field, n))
	}
	return f
}

// ContainsIf 在 value 非空时追加 field LIKE '%value%'
func (f *Filters) ContainsIf(field, value string) *Filters {
	if value != "" {
		f.Add(Contains(field, value))
	}
	return f
}

// LookupIf 通过查找表追加条件，未识别的 key 静默忽略
func (f *Filters) LookupIf(table Lookup, key string) *Filters {
	if key == "" {
		return f
	}
	if c, ok := table[key]; ok {
		f.Add(c)
	}
	return f
}

// Len 返回条件数
func (f *Filters) Len() int {
	return len(f.clauses)
}

// Clauses 返回条件的副本
func (f *Filters) Clauses() []Clause {
	out := make([]Clause, len(f.clauses))
	copy(out, f.clauses)
	return out
}

// Where 把所有条件以 AND 连接。没有条件时返回空串。
func (f *Filters) Where() string {
	return joinWhere(f.clauses)
}

func joinWhere(clauses []Clause) string {
	if len(clauses) == 0 {
		return ""
	}
	parts := make([]string, 0, len(clauses))
	for _, c := range clauses {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, " AND ")
}
