// file: cmd/gateway/app.go

package main

import (
	"CDCGateway/internal/adapter/soda"
	"CDCGateway/internal/cdcconf"
	"CDCGateway/internal/cdcobserve"
	"CDCGateway/internal/pacer"
	"CDCGateway/internal/registry"
	"CDCGateway/internal/service/gateway"
	"fmt"
	"log/slog"
)

// app 汇总一次进程内所有已装配的组件，serve 与各个 CLI 子命令共用
type app struct {
	loader   *cdcconf.Loader
	cfg      *cdcconf.Config
	registry *registry.Registry
	pacer    *pacer.Interval
	client   *soda.Client
	gateway  *gateway.Gateway
}

// bootstrap 加载配置并装配 registry → pacer → SODA 客户端 → gateway。
// logLevel 非空时覆盖配置中的日志级别。
func bootstrap(logLevel string) (*app, error) {
	loader := cdcconf.NewLoader(configPath)
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}
	if logLevel == "" {
		logLevel = cfg.Server.LogLevel
	}
	cdcobserve.InitLogger(logLevel)

	reg, err := registry.New(cfg.Datasets)
	if err != nil {
		return nil, fmt.Errorf("构建数据集注册表失败: %w", err)
	}
	slog.Info("数据集注册表已加载", "resolved", reg.Len(), "pending", len(reg.Pending()))

	p := pacer.New(cfg.Soda.RequestInterval)
	retries := cfg.Soda.MaxRetries
	if retries == 0 {
		// 配置里显式写 0 表示不重试，soda.Config 的零值则表示默认值
		retries = -1
	}
	client := soda.New(soda.Config{
		BaseURLs:   cfg.BaseURLs(),
		AppToken:   cfg.Soda.AppToken,
		Timeout:    cfg.Soda.Timeout,
		MaxRetries: retries,
	}, p)

	g, err := gateway.NewGateway(reg, client)
	if err != nil {
		return nil, err
	}
	g.EnableProbeCache(cfg.Probe.CacheSize, cfg.Probe.CacheTTL)

	if missing := gateway.UnresolvedReferences(reg); len(missing) > 0 {
		slog.Warn("部分操作引用的数据集尚未配置远端 ID，调用时会返回 invalid dataset",
			"datasets", missing,
			"hint", "在配置文件 datasets 段中为这些名称提供 id")
	}

	return &app{
		loader:   loader,
		cfg:      cfg,
		registry: reg,
		pacer:    p,
		client:   client,
		gateway:  g,
	}, nil
}

// watchDatasets 在配置文件变化时把新的 datasets 覆盖项重新应用到注册表
func (a *app) watchDatasets() {
	a.loader.Watch(func(cfg *cdcconf.Config) {
		if err := a.registry.Apply(cfg.Datasets); err != nil {
			slog.Error("应用新的数据集覆盖项失败，注册表保持不变", "error", err)
			return
		}
		slog.Info("数据集覆盖项已热加载", "resolved", a.registry.Len(), "pending", len(a.registry.Pending()))
		if missing := gateway.UnresolvedReferences(a.registry); len(missing) > 0 {
			slog.Warn("仍有数据集未配置远端 ID", "datasets", missing)
		}
	})
}
