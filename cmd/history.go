package cmd

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/melih-ucgun/shopsnap/internal/state"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View operation history",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		hm := state.NewHistoryManager(cfg.HistoryFile)
		if !hm.Enabled() {
			pterm.Info.Println("History is disabled (history_file is empty).")
			return nil
		}
		history, err := hm.LoadHistory()
		if err != nil {
			pterm.Error.Println("Failed to load history:", err)
			return nil
		}

		if len(history) == 0 {
			pterm.Info.Println("No history found.")
			return nil
		}

		pterm.DefaultHeader.Println("Operation History")

		tableData := [][]string{{"ID", "Date", "Host", "Operation", "Status", "Changes"}}

		// Show latest first (reverse iteration)
		for i := len(history) - 1; i >= 0; i-- {
			tx := history[i]
			dateStr := tx.Timestamp
			if t, err := time.Parse(time.RFC3339, tx.Timestamp); err == nil {
				dateStr = t.Format("2006-01-02 15:04:05")
			}

			statusStyle := pterm.NewStyle(pterm.FgGreen)
			switch tx.Status {
			case state.StatusFailed:
				statusStyle = pterm.NewStyle(pterm.FgRed)
			case state.StatusPartial, state.StatusCancelled:
				statusStyle = pterm.NewStyle(pterm.FgYellow)
			}

			tableData = append(tableData, []string{
				tx.ID,
				dateStr,
				tx.Host,
				tx.Operation,
				statusStyle.Sprint(tx.Status),
				fmt.Sprintf("%d", len(tx.Changes)),
			})
		}

		return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
