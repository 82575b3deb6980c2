// Package cdcobserve file: internal/cdcobserve/debug.go
package cdcobserve

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/http/pprof"
	"time"
)

// pprofHandler 只挂载 /debug/pprof，不污染 http.DefaultServeMux
func pprofHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}

// EnablePprof 在 server.pprof_addr 上暴露 /debug/pprof 端点，例如 "127.0.0.1:6060"。
// addr 为空时不启用并返回 nil。端口在返回前绑定，绑定失败只记录日志，不影响网关本身。
// 返回的 server 由调用方在退出时关闭。
func EnablePprof(addr string) *http.Server {
	if addr == "" {
		slog.Info("pprof 未启用 (server.pprof_addr 为空)")
		return nil
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		slog.Error("pprof 端口绑定失败，继续运行网关", "server.pprof_addr", addr, "error", err)
		return nil
	}

	srv := &http.Server{
		Handler:           pprofHandler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info("pprof 端点已启动", "server.pprof_addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("pprof 端点异常退出", "error", err)
		}
	}()
	return srv
}
