// file: cmd/gateway/probe.go

package main

import (
	"CDCGateway/internal/service/gateway"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	probeNames       []string
	probeConcurrency int
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "逐个检查数据集是否仍可访问 ($limit=1)",
	Long:  "probe 对注册表中的数据集各发出一次 $limit=1 查询，复用与正常调用相同的节奏控制、重试与主机回退，用于发现已迁移或下线的数据集。",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap("warn")
		if err != nil {
			return err
		}
		concurrency := probeConcurrency
		if concurrency <= 0 {
			concurrency = a.cfg.Probe.Concurrency
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		total := len(probeNames)
		if total == 0 {
			total = a.registry.Len()
		}
		spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("正在探测 %d 个数据集 (每 %s 一次请求)...", total, a.pacer.Interval()))

		results, err := a.gateway.Probe(ctx, probeNames, concurrency)
		if err != nil {
			if spinner != nil {
				spinner.Fail("探测被中断")
			}
			return err
		}

		failed := 0
		for _, r := range results {
			if !r.OK {
				failed++
			}
		}
		if spinner != nil {
			if failed == 0 {
				spinner.Success(fmt.Sprintf("%d 个数据集全部可访问", len(results)))
			} else {
				spinner.Warning(fmt.Sprintf("%d/%d 个数据集不可访问", failed, len(results)))
			}
		}

		if err := renderProbe(results); err != nil {
			return err
		}
		if failed > 0 {
			return fmt.Errorf("%d 个数据集探测失败", failed)
		}
		return nil
	},
}

func init() {
	probeCmd.Flags().StringSliceVarP(&probeNames, "names", "n", nil, "只探测这些数据集 (逗号分隔)，默认全部")
	probeCmd.Flags().IntVar(&probeConcurrency, "concurrency", 0, "并发探测数 (默认取配置 probe.concurrency)")
}

func renderProbe(results []gateway.ProbeResult) error {
	data := pterm.TableData{{"Name", "ID", "Host", "Status", "Rows", "Elapsed", "Error"}}
	for _, r := range results {
		status := pterm.Green("OK")
		if !r.OK {
			status = pterm.Red("FAIL")
		}
		data = append(data, []string{
			r.Name,
			r.ID,
			string(r.Host),
			status,
			strconv.Itoa(r.Rows),
			r.Elapsed.Round(time.Millisecond).String(),
			r.Error,
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
