// file: cmd/gateway/datasets.go

package main

import (
	"CDCGateway/internal/core/domain"
	"CDCGateway/internal/registry"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var datasetsJSON bool

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "列出注册表中的数据集及其远端 ID",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap("warn")
		if err != nil {
			return err
		}

		if datasetsJSON {
			b, err := json.MarshalIndent(struct {
				Datasets []domain.DatasetRef `json:"datasets"`
				Pending  []string            `json:"pending"`
			}{a.registry.Refs(), a.registry.Pending()}, "", "  ")
			if err != nil {
				return err
			}
			pterm.Println(string(b))
			return nil
		}

		return renderDatasets(a.registry)
	},
}

func init() {
	datasetsCmd.Flags().BoolVar(&datasetsJSON, "json", false, "以 JSON 输出")
}

func renderDatasets(reg *registry.Registry) error {
	data := pterm.TableData{{"Name", "ID", "Host", "Description"}}
	for _, ref := range reg.Refs() {
		data = append(data, []string{ref.Name, ref.ID, string(ref.Host), ref.Description})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Render(); err != nil {
		return err
	}

	pterm.Println()
	pterm.Println(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprintf("%d 个可用数据集", reg.Len()))

	if pending := reg.Pending(); len(pending) > 0 {
		pterm.Println()
		pterm.Println(pterm.NewStyle(pterm.FgYellow).Sprint("⚠️  以下数据集尚未配置远端 ID (在配置文件 datasets 段中补充):"))
		items := make([]pterm.BulletListItem, 0, len(pending))
		for _, name := range pending {
			items = append(items, pterm.BulletListItem{Level: 0, Text: name})
		}
		return pterm.DefaultBulletList.WithItems(items).Render()
	}
	return nil
}
