// file: cmd/gateway/main.go

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "v0.3.0"

var configPath string

// rootCmd 在不带子命令时只打印帮助
var rootCmd = &cobra.Command{
	Use:           "cdcgateway",
	Short:         "CDC Socrata (SODA) 数据集查询网关",
	Long:          "cdcgateway 把 data.cdc.gov 与 chronicdata.cdc.gov 上的公共卫生数据集包装成一个多路复用的查询工具，可作为 HTTP 服务运行，也可直接在命令行调用。",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径 (默认在 ./configs 与当前目录查找 config.yaml)")
	rootCmd.AddCommand(serveCmd, callCmd, datasetsCmd, probeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "错误:", err)
		os.Exit(1)
	}
}
