// Package domain file: internal/core/domain/envelope.go
package domain

// Row 是远端返回的一条无类型记录。
type Row = map[string]any

// Envelope 是返回给调用方的统一响应结构，与 SODA 的原生响应形态解耦。
// Count 始终等于本页实际返回的行数，而不是服务端的总记录数。
type Envelope struct {
	Dataset string `json:"dataset,omitempty"`
	Count   int    `json:"count"`
	Data    []Row  `json:"data"`

	// 以下字段仅由 measure 发现和数据集列表操作填充
	Measures            []Row             `json:"measures,omitempty"`
	MeasureCount        *int              `json:"measure_count,omitempty"`
	AvailableDatasets   []string          `json:"available_datasets,omitempty"`
	DatasetDescriptions map[string]string `json:"dataset_descriptions,omitempty"`
	TotalDatasets       *int              `json:"total_datasets,omitempty"`
}

// NewEnvelope 用给定标签和行数据构造响应。nil 行集合会被规范化为空切片。
func NewEnvelope(label string, rows []Row) *Envelope {
	if rows == nil {
		rows = []Row{}
	}
	return &Envelope{
		Dataset: label,
		Count:   len(rows),
		Data:    rows,
	}
}
