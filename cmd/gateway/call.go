// file: cmd/gateway/call.go

package main

import (
	"CDCGateway/internal/core/domain"
	"CDCGateway/internal/core/port"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	callArgs     string
	callLogLevel string
)

var callCmd = &cobra.Command{
	Use:   "call <method>",
	Short: "直接调用一次查询方法并以 JSON 输出结果",
	Example: `  cdcgateway call get_places_data --args '{"state":"CA","measure_id":"OBESITY","limit":5}'
  cdcgateway call search_dataset --args @query.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := parseToolRequest(args[0], callArgs)
		if err != nil {
			return err
		}

		a, err := bootstrap(callLogLevel)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		env, callErr := a.gateway.Call(ctx, req)
		out := cmd.OutOrStdout()
		if callErr != nil {
			var opErr *port.OperationError
			if errors.As(callErr, &opErr) {
				b, _ := json.MarshalIndent(opErr.Payload(), "", "  ")
				fmt.Fprintln(out, string(b))
			}
			return callErr
		}

		b, err := json.MarshalIndent(env, "", "  ")
		if err != nil {
			return fmt.Errorf("序列化结果失败: %w", err)
		}
		fmt.Fprintln(out, string(b))
		return nil
	},
}

func init() {
	callCmd.Flags().StringVarP(&callArgs, "args", "a", "", "JSON 对象形式的参数，@path 表示从文件读取")
	callCmd.Flags().StringVar(&callLogLevel, "log-level", "warn", "日志级别 (日志输出到 stderr)")
}

// parseToolRequest 把命令行参数组装为 ToolRequest，method 以位置参数为准
func parseToolRequest(method, raw string) (*domain.ToolRequest, error) {
	req := &domain.ToolRequest{}
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "@") {
		b, err := os.ReadFile(strings.TrimPrefix(raw, "@"))
		if err != nil {
			return nil, fmt.Errorf("读取参数文件失败: %w", err)
		}
		raw = string(b)
	}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), req); err != nil {
			return nil, fmt.Errorf("%w: --args 不是合法的 JSON 对象: %w", port.ErrInvalidParameter, err)
		}
	}
	req.Method = strings.TrimSpace(method)
	return req, nil
}
