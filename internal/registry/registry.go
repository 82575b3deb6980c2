// Package registry file: internal/registry/registry.go
//
// registry 是逻辑数据集名称到远端 ID 的封闭枚举。
// 请求路径只读；唯一的写入口是部署配置的 Apply。
package registry

import (
	"CDCGateway/internal/core/domain"
	"CDCGateway/internal/core/port"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Override 是配置文件 datasets 段中的一项。
// 空字段表示沿用内置目录的值。
type Override struct {
	ID          string `mapstructure:"id"`
	Description string `mapstructure:"description"`
	Host        string `mapstructure:"host"`
}

// Registry 持有当前生效的数据集表
type Registry struct {
	mu sync.RWMutex
	// resolved 只包含拥有远端 ID 的条目
	resolved map[string]domain.DatasetRef
	// pending 是已知名称但尚未配置 ID 的条目
	pending map[string]domain.DatasetRef
}

// New 从内置目录构建注册表，并应用可选的覆盖项
func New(overrides map[string]Override) (*Registry, error) {
	r := &Registry{}
	if err := r.Apply(overrides); err != nil {
		return nil, err
	}
	return r, nil
}

// Apply 以内置目录为基础重建整张表，再叠加 overrides。
// 每次调用都会替换上一次的覆盖层，因此从配置中删掉的覆盖项会恢复默认值。
func (r *Registry) Apply(overrides map[string]Override) error {
	resolved := make(map[string]domain.DatasetRef, len(catalog)+len(overrides))
	pending := make(map[string]domain.DatasetRef)

	put := func(ref domain.DatasetRef) {
		if ref.ID == "" {
			delete(resolved, ref.Name)
			pending[ref.Name] = ref
			return
		}
		delete(pending, ref.Name)
		resolved[ref.Name] = ref
	}

	for _, e := range catalog {
		put(domain.DatasetRef{Name: e.Name, ID: e.ID, Host: e.Host, Description: e.Description})
	}

	for name, o := range overrides {
		name = strings.TrimSpace(name)
		if name == "" {
			return fmt.Errorf("%w: empty dataset name in overrides", port.ErrInvalidDataset)
		}
		base, ok := resolved[name]
		if !ok {
			base, ok = pending[name]
		}
		if !ok {
			base = domain.DatasetRef{Name: name, Host: domain.HostData}
		}
		if o.ID != "" {
			base.ID = strings.TrimSpace(o.ID)
		}
		if o.Description != "" {
			base.Description = o.Description
		}
		if o.Host != "" {
			h, err := ParseHost(o.Host)
			if err != nil {
				return fmt.Errorf("dataset %q: %w", name, err)
			}
			base.Host = h
		}
		put(base)
	}

	r.mu.Lock()
	r.resolved = resolved
	r.pending = pending
	r.mu.Unlock()

	slog.Debug("[Registry] 数据集表已更新", "resolved", len(resolved), "pending", len(pending), "overrides", len(overrides))
	return nil
}

// ParseHost 把配置中的主机名解析为逻辑主机
func ParseHost(s string) (domain.Host, error) {
	switch domain.Host(strings.ToLower(strings.TrimSpace(s))) {
	case domain.HostData:
		return domain.HostData, nil
	case domain.HostChronicData:
		return domain.HostChronicData, nil
	}
	return "", fmt.Errorf("%w: unknown host %q", port.ErrInvalidParameter, s)
}

// Lookup 按逻辑名称查找可用的数据集
func (r *Registry) Lookup(name string) (domain.DatasetRef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ref, ok := r.resolved[name]
	return ref, ok
}

// Resolve 把逻辑名称解析为数据集引用。未知名称和尚未配置 ID 的名称
// 都返回 ErrInvalidDataset。
func (r *Registry) Resolve(name string) (domain.DatasetRef, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if ref, ok := r.resolved[name]; ok {
		return ref, nil
	}
	if _, ok := r.pending[name]; ok {
		return domain.DatasetRef{}, fmt.Errorf("%w: %s has no configured dataset id", port.ErrInvalidDataset, name)
	}
	return domain.DatasetRef{}, fmt.Errorf("%w: %s", port.ErrInvalidDataset, name)
}

// ResolveOrRaw 用于通用搜索：已知名称解析为注册表条目，
// 其他任意字符串视为远端 ID 直通。
func (r *Registry) ResolveOrRaw(nameOrID string) (domain.DatasetRef, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if ref, ok := r.resolved[nameOrID]; ok {
		return ref, nil
	}
	if _, ok := r.pending[nameOrID]; ok {
		return domain.DatasetRef{}, fmt.Errorf("%w: %s has no configured dataset id", port.ErrInvalidDataset, nameOrID)
	}
	return domain.RawDataset(nameOrID), nil
}

// Names 返回按字母排序的全部可用数据集名称
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.resolved))
	for name := range r.resolved {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Pending 返回已知但缺少远端 ID 的名称
func (r *Registry) Pending() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.pending))
	for name := range r.pending {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Descriptions 返回 name -> description 的副本
func (r *Registry) Descriptions() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.resolved))
	for name, ref := range r.resolved {
		out[name] = ref.Description
	}
	return out
}

// Refs 返回按名称排序的全部可用条目
func (r *Registry) Refs() []domain.DatasetRef {
	r.mu.RLock()
	defer r.mu.RUnlock()
	refs := make([]domain.DatasetRef, 0, len(r.resolved))
	for _, ref := range r.resolved {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs
}

// Len 返回可用数据集数量
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.resolved)
}
