// Package cdcobserve 暴露 Prometheus 指标
package cdcobserve

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 指标定义
var (
	TotalReq = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cdcgateway_requests_total",
		Help: "工具调用总数",
	})
	FailReq = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cdcgateway_requests_failed",
		Help: "工具调用失败数",
	})

	// UpstreamAttempts 按主机和结果统计每一次出站尝试 (含重试)
	UpstreamAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cdcgateway_upstream_attempts_total",
		Help: "发往 SODA 主机的请求尝试次数",
	}, []string{"host", "outcome"})

	HostFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cdcgateway_host_fallbacks_total",
		Help: "切换到备用主机的次数",
	})

	PacerWait = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cdcgateway_pacer_wait_seconds",
		Help:    "出站请求在节流器上的等待时间",
		Buckets: []float64{0, .05, .1, .25, .5, 1, 2.5, 5, 10},
	})

	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cdcgateway_http_request_duration_seconds",
		Help:    "入站 HTTP 请求耗时",
		Buckets: prometheus.DefBuckets,
	}, []string{"path", "method", "code"})
)

// Register 必须在 main 调用一次
func Register() {
	prometheus.MustRegister(TotalReq, FailReq, UpstreamAttempts, HostFallbacks, PacerWait, httpRequestDuration)
}

// Handler 返回 HTTP 处理器
func Handler() http.Handler { return promhttp.Handler() }

// PrometheusMiddleware 记录每个入站请求的耗时
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestDuration.
			WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
