package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/melih-ucgun/shopsnap/internal/lifecycle"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots in creation order",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		shop, _ := cmd.Flags().GetString("shop")
		l := &lifecycle.Lister{Volumes: s.volumes, SnapshotsRoot: s.cfg.SnapshotsRoot}
		entries, err := l.List(s.ctx, shop)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			pterm.Info.Println("No snapshots found.")
			return nil
		}

		tableData := [][]string{{"ID", "Name", "Shop", "Created", "Label"}}
		for _, e := range entries {
			created, shopName := "-", "-"
			if e.Named {
				created = e.Info.Time.Format("2006-01-02 15:04:05")
				shopName = e.Info.Shop
			}
			tableData = append(tableData, []string{
				fmt.Sprintf("%d", e.ID),
				e.Name,
				shopName,
				created,
				e.Info.Label,
			})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().String("shop", "", "only list snapshots of this shop")
}
