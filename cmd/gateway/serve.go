// file: cmd/gateway/serve.go

package main

import (
	"CDCGateway/internal/cdcmiddleware"
	"CDCGateway/internal/cdcobserve"
	"CDCGateway/internal/transport/http/router"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "以 HTTP 服务方式运行网关",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap("")
		if err != nil {
			return err
		}
		if servePort > 0 {
			a.cfg.Server.Port = servePort
		}
		return serve(a)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "监听端口 (覆盖配置文件)")
}

func serve(a *app) error {
	slog.Info("CDC Gateway starting up", "version", version)
	if used := a.loader.ConfigFileUsed(); used != "" {
		slog.Info("配置加载并解析成功", "path", used)
	}

	cdcobserve.Register()
	if debugSrv := cdcobserve.EnablePprof(a.cfg.Server.PprofAddr); debugSrv != nil {
		defer debugSrv.Close()
	}
	a.watchDatasets()

	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	limiter := cdcmiddleware.NewIPRateLimiter(a.cfg.InboundLimit.RatePerMinute, a.cfg.InboundLimit.Burst)
	httpRouter := router.New(router.Dependencies{
		Gateway:          a.gateway,
		Registry:         a.registry,
		Limiter:          limiter,
		ProbeConcurrency: a.cfg.Probe.Concurrency,
	})
	slog.Info("传输层: HTTP 路由器创建完成。")

	addr := fmt.Sprintf(":%d", a.cfg.Server.Port)
	// 先绑定端口，绑定失败是唯一直接退出的启动错误
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("监听 %s 失败: %w", addr, err)
	}
	server := &http.Server{
		Handler:           httpRouter,
		ReadHeaderTimeout: a.cfg.Soda.Timeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("CDC Gateway 启动成功，开始监听HTTP请求...", "address", addr)
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("HTTP服务异常退出: %w", err)
		}
		return nil
	case <-quit:
		slog.Info("收到停机信号，准备优雅关闭...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP服务优雅关闭失败: %w", err)
	}
	slog.Info("HTTP服务已成功关闭。")
	return nil
}
