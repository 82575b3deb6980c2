// Package soda file: internal/adapter/soda/client.go
//
// soda 实现 port.Fetcher：对 SODA 资源端点发起 GET 请求，
// 负责节流、单次超时、瞬时失败重试和错误分类。
package soda

import (
	"CDCGateway/internal/cdcobserve"
	"CDCGateway/internal/core/domain"
	"CDCGateway/internal/core/port"
	"CDCGateway/internal/soql"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// AppTokenHeader 是 Socrata 的应用令牌请求头
	AppTokenHeader = "X-App-Token"

	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3

	maxErrorBody = 4 << 10
)

// DefaultBaseURLs 返回两个 CDC 主机的资源根地址
func DefaultBaseURLs() map[domain.Host]string {
	return map[domain.Host]string{
		domain.HostData:        "https://data.cdc.gov/resource",
		domain.HostChronicData: "https://chronicdata.cdc.gov/resource",
	}
}

// Config 是传输层配置
type Config struct {
	BaseURLs   map[domain.Host]string
	AppToken   string
	Timeout    time.Duration
	MaxRetries int
	Backoff    Backoff
}

// Client 是线程安全的 SODA 客户端，所有请求共享同一个 Pacer
type Client struct {
	cfg   Config
	http  *http.Client
	pacer port.Pacer
}

var _ port.Fetcher = (*Client)(nil)

// New 创建客户端。未设置 (零值) 的字段使用默认值，
// 因此 MaxRetries 为 0 时按 DefaultMaxRetries 重试，< 0 表示不重试。
func New(cfg Config, pacer port.Pacer) *Client {
	if len(cfg.BaseURLs) == 0 {
		cfg.BaseURLs = DefaultBaseURLs()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	switch {
	case cfg.MaxRetries == 0:
		cfg.MaxRetries = DefaultMaxRetries
	case cfg.MaxRetries < 0:
		cfg.MaxRetries = 0
	}
	if cfg.Backoff == (Backoff{}) {
		cfg.Backoff = DefaultBackoff()
	}
	if cfg.AppToken != "" {
		slog.Info("[SODA] 使用应用令牌发起请求以获得更高的速率配额")
	}
	return &Client{
		cfg:   cfg,
		http:  &http.Client{},
		pacer: pacer,
	}
}

// Fetch 执行查询计划。每一次尝试 (含重试) 都先经过 Pacer。
func (c *Client) Fetch(ctx context.Context, plan soql.QueryPlan) ([]domain.Row, error) {
	base, ok := c.cfg.BaseURLs[plan.Host]
	if !ok {
		return nil, fmt.Errorf("%w: no base URL configured for host %s", port.ErrTransport, plan.Host)
	}
	endpoint := strings.TrimRight(base, "/") + plan.Path() + "?" + plan.Params().Encode()

	var rows []domain.Row
	err := retry(ctx, c.cfg.MaxRetries, c.cfg.Backoff, func(attempt int) error {
		if err := c.pacer.Acquire(ctx); err != nil {
			return backoff.Permanent(fmt.Errorf("%w: %w", port.ErrTransport, err))
		}

		slog.Debug("[SODA] 发起请求", "dataset", plan.DatasetID, "host", plan.Host, "attempt", attempt+1)
		out, outcome, err := c.attempt(ctx, plan, endpoint)
		cdcobserve.UpstreamAttempts.WithLabelValues(string(plan.Host), outcome).Inc()
		if err != nil {
			return err
		}
		rows = out
		return nil
	}, func(err error, wait time.Duration) {
		slog.Warn("[SODA] 请求失败，准备重试",
			"dataset", plan.DatasetID, "host", plan.Host, "wait", wait, "error", err)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("[SODA] 请求成功", "dataset", plan.DatasetID, "host", plan.Host, "rows", len(rows))
	return rows, nil
}

// attempt 执行单次 HTTP 请求，返回行数据、用于指标的结果标签和分类后的错误。
// 可重试的失败以普通错误返回，其他失败以 backoff.Permanent 包装。
func (c *Client) attempt(ctx context.Context, plan soql.QueryPlan, endpoint string) ([]domain.Row, string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "client_error", backoff.Permanent(fmt.Errorf("%w: %w", port.ErrTransport, err))
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.AppToken != "" {
		req.Header.Set(AppTokenHeader, c.cfg.AppToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		wrapped := fmt.Errorf("%w: %w", port.ErrTransport, err)
		// 调用方取消不重试；单次超时属于网络错误，可以重试
		if ctx.Err() != nil {
			return nil, "cancelled", backoff.Permanent(wrapped)
		}
		return nil, "network", wrapped
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var rows []domain.Row
		if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
			return nil, "decode_error", backoff.Permanent(fmt.Errorf("%w: decode response: %w", port.ErrTransport, err))
		}
		if rows == nil {
			rows = []domain.Row{}
		}
		return rows, "ok", nil

	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, "rate_limited", fmt.Errorf("%w. Please try again later.", port.ErrRateLimited)

	case resp.StatusCode == http.StatusForbidden:
		return nil, "denied", backoff.Permanent(fmt.Errorf("%w: %s", port.ErrAccessDenied, plan.DatasetID))

	case resp.StatusCode == http.StatusNotFound:
		return nil, "not_found", backoff.Permanent(fmt.Errorf("%w: %s", port.ErrDatasetNotFound, plan.DatasetID))

	case resp.StatusCode >= 500:
		return nil, "server_error", fmt.Errorf("%w: %s", port.ErrTransport, describeStatus(resp))

	default:
		return nil, "client_error", backoff.Permanent(fmt.Errorf("%w: %s", port.ErrTransport, describeStatus(resp)))
	}
}

// sodaError 是 SODA 错误响应体的常见形态
type sodaError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// describeStatus 把非 2xx 响应描述为 "HTTP 400: <message>"
func describeStatus(resp *http.Response) string {
	msg := fmt.Sprintf("HTTP %d", resp.StatusCode)
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(body) == 0 {
		return msg
	}
	var se sodaError
	if json.Unmarshal(body, &se) == nil && se.Message != "" {
		return msg + ": " + se.Message
	}
	return msg
}
