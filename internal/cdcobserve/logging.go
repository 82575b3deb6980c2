// Package cdcobserve file: internal/cdcobserve/logging.go
package cdcobserve

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel 把配置字符串转换为 slog 级别，无法识别时为 INFO
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// InitLogger 初始化全局的结构化日志记录器。
// 它应该在 main 函数的早期被调用。
func InitLogger(levelStr string) {
	initLogger(os.Stderr, levelStr)
}

func initLogger(w io.Writer, levelStr string) {
	// stdout 留给 CLI 的结果输出，日志统一写 stderr
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     ParseLevel(levelStr),
		AddSource: true,
	})
	slog.SetDefault(slog.New(handler))
}
