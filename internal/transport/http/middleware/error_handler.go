// Package middleware file: internal/transport/http/middleware/error_handler.go
package middleware

import (
	"CDCGateway/internal/core/port"
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// RequestIDKey 是请求 ID 在 gin.Context 中的键
const RequestIDKey = "request_id"

// StatusFor 把错误映射为 HTTP 状态码
func StatusFor(err error) int {
	var ve validator.ValidationErrors
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, port.ErrUnknownMethod),
		errors.Is(err, port.ErrMissingParameter),
		errors.Is(err, port.ErrInvalidParameter),
		errors.Is(err, port.ErrInvalidDataset):
		return http.StatusBadRequest
	case errors.Is(err, port.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, port.ErrDatasetNotFound):
		return http.StatusNotFound
	case errors.Is(err, port.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, port.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandlingMiddleware 是一个Gin中间件，用于集中处理错误。
// 处理器通过 c.Error(err) 附加错误，这里统一转换为 {"error", "method"} 响应体。
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		// 只处理最后一个错误，它通常是根本原因
		err := c.Errors.Last().Err
		code := StatusFor(err)

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			c.JSON(code, gin.H{"error": "请求参数验证失败", "details": ve.Error()})
			return
		}

		body := gin.H{"error": err.Error()}
		var opErr *port.OperationError
		if errors.As(err, &opErr) {
			for k, v := range opErr.Payload() {
				body[k] = v
			}
		}
		if code == http.StatusInternalServerError {
			body["error"] = "服务器内部错误"
		}

		slog.Error("[HTTP] 请求失败",
			"path", c.FullPath(),
			"status", code,
			"method", body["method"],
			"request_id", c.GetString(RequestIDKey),
			"error", err,
		)
		c.JSON(code, body)
	}
}
