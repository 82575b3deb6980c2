// file: internal/transport/http/router/router.go
package router

import (
	"CDCGateway/internal/cdcmiddleware"
	"CDCGateway/internal/cdcobserve"
	"CDCGateway/internal/core/domain"
	"CDCGateway/internal/core/port"
	"CDCGateway/internal/service/gateway"
	"CDCGateway/internal/transport/http/middleware"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// maxProbeNames 限制一次 HTTP 探测请求可以指定的数据集数量
const maxProbeNames = 100

// Dependencies 结构体用于将所有依赖项注入到路由器中
type Dependencies struct {
	Gateway          *gateway.Gateway
	Registry         port.DatasetRegistry
	Limiter          *cdcmiddleware.IPRateLimiter
	ProbeConcurrency int
}

// New 创建并配置基于 Gin 的 HTTP 路由器
func New(deps Dependencies) http.Handler {
	router := gin.New()

	// --- 配置全局中间件 ---
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(cdcobserve.PrometheusMiddleware())
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))
	router.Use(middleware.ErrorHandlingMiddleware())

	router.GET("/healthz", healthHandler(deps.Registry))
	router.GET("/metrics", gin.WrapH(cdcobserve.Handler()))

	v1 := router.Group("/api/v1")
	if deps.Limiter != nil {
		v1.Use(deps.Limiter.Middleware())
	}
	{
		tools := v1.Group("/tools")
		{
			tools.GET("", toolsHandler(deps.Gateway))
			tools.POST("/"+gateway.ToolName, callHandler(deps.Gateway))
		}

		datasets := v1.Group("/datasets")
		{
			datasets.GET("", datasetsHandler(deps.Gateway, deps.Registry))
			datasets.GET("/probe", probeHandler(deps.Gateway, deps.ProbeConcurrency))
		}
	}

	return router
}

// healthHandler 只报告进程存活与注册表规模，不访问上游
func healthHandler(reg port.DatasetRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":           "ok",
			"datasets":         reg.Len(),
			"pending_datasets": len(reg.Pending()),
		})
	}
}

// toolsHandler 返回工具描述，当前只有一个多路复用工具
func toolsHandler(g *gateway.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tools": []gateway.ToolDescriptor{g.Tool()}})
	}
}

// callHandler 处理一次工具调用，请求体即 {method, ...params}
func callHandler(g *gateway.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.ToolRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(fmt.Errorf("%w: 无效的请求体: %w", port.ErrInvalidParameter, err))
			return
		}
		env, err := g.Call(c.Request.Context(), &req)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, env)
	}
}

// datasetsHandler 列出注册表，额外附上尚未配置远端 ID 的名称
func datasetsHandler(g *gateway.Gateway, reg port.DatasetRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		env, err := g.Call(c.Request.Context(), &domain.ToolRequest{Method: "list_datasets"})
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"available_datasets":   env.AvailableDatasets,
			"dataset_descriptions": env.DatasetDescriptions,
			"total_datasets":       env.TotalDatasets,
			"pending_datasets":     reg.Pending(),
		})
	}
}

// probeHandler 检查数据集可访问性。?names=a,b 指定范围，缺省为全部。
func probeHandler(g *gateway.Gateway, concurrency int) gin.HandlerFunc {
	return func(c *gin.Context) {
		var names []string
		for _, n := range strings.Split(c.Query("names"), ",") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
		if len(names) > maxProbeNames {
			_ = c.Error(fmt.Errorf("%w: at most %d names per probe", port.ErrInvalidParameter, maxProbeNames))
			return
		}

		results, err := g.Probe(c.Request.Context(), names, concurrency)
		if err != nil {
			_ = c.Error(fmt.Errorf("%w: probe aborted: %w", port.ErrTransport, err))
			return
		}

		var failed int
		for _, r := range results {
			if !r.OK {
				failed++
			}
		}
		c.JSON(http.StatusOK, gin.H{"data": results, "total": len(results), "failed": failed})
	}
}
