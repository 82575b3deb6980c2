// Package cdcmiddleware file: internal/cdcmiddleware/limiter.go
//
// 入站限流。与出站 pacer 相互独立：这里保护的是网关自身，
// pacer 保护的是上游 Socrata 配额。
package cdcmiddleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const (
	idleExpiration  = 15 * time.Minute
	cleanupInterval = 10 * time.Minute
)

// IPRateLimiter 按客户端 IP 维护令牌桶，不活跃的条目由 go-cache 自动过期
type IPRateLimiter struct {
	limiters *cache.Cache
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
}

// NewIPRateLimiter 创建一个限流器。ratePerMinute 为 0 表示不限流。
func NewIPRateLimiter(ratePerMinute float64, burst int) *IPRateLimiter {
	r := rate.Inf
	if ratePerMinute > 0 {
		r = rate.Limit(ratePerMinute / 60.0)
	}
	if burst <= 0 {
		burst = 1
	}
	slog.Info("[Inbound Limiter] 初始化完成", "rate_per_minute", ratePerMinute, "burst", burst)
	return &IPRateLimiter{
		limiters: cache.New(idleExpiration, cleanupInterval),
		rate:     r,
		burst:    burst,
	}
}

// getClientIP 从请求中获取客户端IP地址，考虑代理情况
func getClientIP(r *http.Request) string {
	ip := r.Header.Get("X-Forwarded-For")
	ip = strings.TrimSpace(strings.Split(ip, ",")[0])
	if ip != "" {
		return ip
	}
	ip = strings.TrimSpace(r.Header.Get("X-Real-IP"))
	if ip != "" {
		return ip
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// limiterFor 返回或创建指定IP的令牌桶，每次访问都会刷新过期时间
func (l *IPRateLimiter) limiterFor(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if x, found := l.limiters.Get(ip); found {
		lim := x.(*rate.Limiter)
		l.limiters.Set(ip, lim, cache.DefaultExpiration)
		return lim
	}
	lim := rate.NewLimiter(l.rate, l.burst)
	l.limiters.Set(ip, lim, cache.DefaultExpiration)
	return lim
}

// Allow 报告来自 ip 的请求此刻是否放行
func (l *IPRateLimiter) Allow(ip string) bool {
	return l.limiterFor(ip).Allow()
}

// Tracked 返回当前仍在缓存中的客户端数量
func (l *IPRateLimiter) Tracked() int {
	return l.limiters.ItemCount()
}

// Middleware 返回 gin 中间件，超限时以 429 终止请求
func (l *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := getClientIP(c.Request)
		if !l.Allow(ip) {
			slog.Warn("[Inbound Limiter] 请求被限流", "ip", ip, "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "请求过于频繁，请稍后再试。"})
			return
		}
		c.Next()
	}
}
