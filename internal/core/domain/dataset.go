// Package domain file: internal/core/domain/dataset.go
package domain

// Host 标识托管 SODA 数据集的一个域名族。
// 实际的 base URL 由传输层根据配置解析，这里只保留逻辑名称。
type Host string

const (
	HostData        Host = "data.cdc.gov"
	HostChronicData Host = "chronicdata.cdc.gov"
)

// Alternate 返回用于回退的另一个主机。
func (h Host) Alternate() Host {
	if h == HostChronicData {
		return HostData
	}
	return HostChronicData
}

// DatasetRef 是逻辑数据集名称与远端不透明 ID 的不可变配对。
// 多个 Name 可以指向同一个 ID (例如 foodborne/waterborne 共用一张表)。
type DatasetRef struct {
	Name        string `json:"name"`
	ID          string `json:"id"`
	Host        Host   `json:"host"`
	Description string `json:"description"`
	// Raw 为 true 表示 ID 是调用方直接传入的，未经过注册表。
	Raw bool `json:"raw,omitempty"`
}

// RawDataset 为通用搜索路径构造一个直通的数据集引用。
func RawDataset(id string) DatasetRef {
	return DatasetRef{Name: id, ID: id, Host: HostData, Raw: true}
}
