// Package cdcconf 负责集中式配置加载
//
// 配置来源优先级：环境变量 (CDC_ 前缀) > 配置文件 > 默认值。
package cdcconf

import (
	"CDCGateway/internal/core/domain"
	"CDCGateway/internal/registry"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ServerConfig 是入站 HTTP 服务配置
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	LogLevel        string        `mapstructure:"log_level"`
	PprofAddr       string        `mapstructure:"pprof_addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// SodaConfig 是出站 SODA 客户端配置
type SodaConfig struct {
	DataURL         string        `mapstructure:"data_url"`
	ChronicDataURL  string        `mapstructure:"chronicdata_url"`
	AppToken        string        `mapstructure:"app_token"`
	Timeout         time.Duration `mapstructure:"timeout"`
	RequestInterval time.Duration `mapstructure:"request_interval"`
	MaxRetries      int           `mapstructure:"max_retries"`
}

// InboundLimitConfig 是按客户端 IP 的入站限流
type InboundLimitConfig struct {
	RatePerMinute float64 `mapstructure:"rate_per_minute"`
	Burst         int     `mapstructure:"burst"`
}

// ProbeConfig 是数据集探测配置
type ProbeConfig struct {
	Concurrency int           `mapstructure:"concurrency"`
	CacheSize   int           `mapstructure:"cache_size"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
}

// Config 是完整配置
type Config struct {
	Server       ServerConfig                 `mapstructure:"server"`
	Soda         SodaConfig                   `mapstructure:"soda"`
	InboundLimit InboundLimitConfig           `mapstructure:"inbound_limit"`
	Probe        ProbeConfig                  `mapstructure:"probe"`
	Datasets     map[string]registry.Override `mapstructure:"datasets"`
}

// BaseURLs 返回逻辑主机到资源根地址的映射
func (c *Config) BaseURLs() map[domain.Host]string {
	return map[domain.Host]string{
		domain.HostData:        c.Soda.DataURL,
		domain.HostChronicData: c.Soda.ChronicDataURL,
	}
}

// Loader 持有一个独立的 viper 实例，避免污染全局状态
type Loader struct {
	v *viper.Viper
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 10224)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.pprof_addr", "")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("soda.data_url", "https://data.cdc.gov/resource")
	v.SetDefault("soda.chronicdata_url", "https://chronicdata.cdc.gov/resource")
	v.SetDefault("soda.app_token", "")
	v.SetDefault("soda.timeout", "30s")
	v.SetDefault("soda.request_interval", "500ms")
	v.SetDefault("soda.max_retries", 3)

	v.SetDefault("inbound_limit.rate_per_minute", 120.0)
	v.SetDefault("inbound_limit.burst", 20)

	v.SetDefault("probe.concurrency", 4)
	v.SetDefault("probe.cache_size", 256)
	v.SetDefault("probe.cache_ttl", "5m")
}

// NewLoader 创建加载器。path 为空时在 ./configs 和当前目录查找 config.yaml，找不到则只用默认值和环境变量。
func NewLoader(path string) *Loader {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CDC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Socrata 令牌沿用约定俗成的变量名
	_ = v.BindEnv("soda.app_token", "CDC_APP_TOKEN", "CDC_SODA_APP_TOKEN")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}
	return &Loader{v: v}
}

// Load 读取并校验配置
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		slog.Info("未找到配置文件，使用默认值和环境变量")
	} else {
		slog.Info("配置文件加载成功", "path", l.v.ConfigFileUsed())
	}
	return l.decode()
}

func (l *Loader) decode() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置到结构体失败: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ConfigFileUsed 返回实际使用的配置文件路径，未使用文件时为空
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// Watch 在配置文件变化时重新解析并回调。解析或校验失败的变更会被丢弃，
// 当前配置保持不变。未使用配置文件时什么也不做。
func (l *Loader) Watch(onChange func(*Config)) {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Op.Has(fsnotify.Write) && !e.Op.Has(fsnotify.Create) {
			return
		}
		cfg, err := l.decode()
		if err != nil {
			slog.Error("配置热加载失败，保留当前配置", "file", e.Name, "error", err)
			return
		}
		slog.Info("配置文件已变更，重新加载", "file", e.Name)
		onChange(cfg)
	})
	l.v.WatchConfig()
}

// Validate 检查配置的取值范围
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port 非法: %d", c.Server.Port))
	}
	for key, raw := range map[string]string{"soda.data_url": c.Soda.DataURL, "soda.chronicdata_url": c.Soda.ChronicDataURL} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s 必须是 http(s) 地址: %q", key, raw))
		}
	}
	if c.Soda.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("soda.timeout 必须大于 0"))
	}
	if c.Soda.RequestInterval < 0 {
		errs = append(errs, fmt.Errorf("soda.request_interval 不能为负"))
	}
	if c.Soda.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("soda.max_retries 不能为负"))
	}
	if c.InboundLimit.RatePerMinute < 0 || c.InboundLimit.Burst < 0 {
		errs = append(errs, fmt.Errorf("inbound_limit 不能为负"))
	}
	for name, o := range c.Datasets {
		if o.Host != "" {
			if _, err := registry.ParseHost(o.Host); err != nil {
				errs = append(errs, fmt.Errorf("datasets.%s.host: %w", name, err))
			}
		}
	}
	return errors.Join(errs...)
}
