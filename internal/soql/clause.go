// Package soql file: internal/soql/clause.go
//
// soql 把结构化的 (field, operator, value) 条件编码成 SoQL 片段。
// 所有值都通过同一个编码器嵌入，单引号会被转义。
package soql

import (
	"strconv"
	"strings"
)

// Op 是单个条件的比较方式
type Op int

const (
	OpEq Op = iota
	OpNumEq
	OpGte
	OpLte
	OpContains
	OpAny
	OpRaw
)

// Clause 是一个服务端过滤条件。
// OpAny 的子条件以 OR 连接；OpRaw 原样输出调用方提供的表达式。
type Clause struct {
	Field string
	Op    Op
	Value string
	Any   []Clause
}

// Eq 构造 field='value'
func Eq(field, value string) Clause {
	return Clause{Field: field, Op: OpEq, Value: value}
}

// Num 构造 field=n (数值比较，不加引号)
func Num(field string, n int) Clause {
	return Clause{Field: field, Op: OpNumEq, Value: strconv.Itoa(n)}
}

// Gte 构造 field>=n
func Gte(field string, n int) Clause {
	return Clause{Field: field, Op: OpGte, Value: strconv.Itoa(n)}
}

// Lte 构造 field<=n
func Lte(field string, n int) Clause {
	return Clause{Field: field, Op: OpLte, Value: strconv.Itoa(n)}
}

// Contains 构造 field LIKE '%value%'
func Contains(field, value string) Clause {
	return Clause{Field: field, Op: OpContains, Value: value}
}

// AnyOf 构造 (a OR b OR ...)
func AnyOf(clauses ...Clause) Clause {
	return Clause{Op: OpAny, Any: clauses}
}

// ContainsAny 构造同一字段上多个子串的析取
func ContainsAny(field string, substrings ...string) Clause {
	cs := make([]Clause, 0, len(substrings))
	for _, s := range substrings {
		cs = append(cs, Contains(field, s))
	}
	return AnyOf(cs...)
}

// EqAny 构造多个字段等于同一个值的析取
func EqAny(value string, fields ...string) Clause {
	cs := make([]Clause, 0, len(fields))
	for _, f := range fields {
		cs = append(cs, Eq(f, value))
	}
	return AnyOf(cs...)
}

// Raw 原样透传调用方提供的 SoQL 表达式 (仅通用搜索使用)
func Raw(expr string) Clause {
	return Clause{Op: OpRaw, Value: expr}
}

// Quote 是唯一的字符串字面量编码器
func Quote(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

// String 把条件编码为 SoQL
func (c Clause) String() string {
	switch c.Op {
	case OpEq:
		return c.Field + "=" + Quote(c.Value)
	case OpNumEq:
		return c.Field + "=" + c.Value
	case OpGte:
		return c.Field + ">=" + c.Value
	case OpLte:
		return c.Field + "<=" + c.Value
	case OpContains:
		return c.Field + " LIKE " + Quote("%"+c.Value+"%")
	case OpAny:
		parts := make([]string, 0, len(c.Any))
		for _, sub := range c.Any {
			parts = append(parts, sub.String())
		}
		return "(" + strings.Join(parts, " OR ") + ")"
	case OpRaw:
		return c.Value
	default:
		return ""
	}
}
