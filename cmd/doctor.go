package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/melih-ucgun/shopsnap/internal/core"
	"github.com/melih-ucgun/shopsnap/internal/system"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the target host can run shopsnap",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		pterm.DefaultHeader.Printfln("Checks on %s", s.ctx.Host)
		report := system.Probe(s.ctx, s.cfg.SnapshotsRoot, s.cfg.TrashRoot)
		compose := system.Check{Name: "docker compose", OK: s.compose.IsAvailable(s.ctx), Detail: "plugin available"}
		if !compose.OK {
			compose.Detail = "docker compose plugin missing"
		}
		report.Checks = append(report.Checks, compose)

		tableData := [][]string{{"Check", "Status", "Detail"}}
		for _, c := range report.Checks {
			status := pterm.Green("ok")
			if !c.OK {
				status = pterm.Red("fail")
			}
			tableData = append(tableData, []string{c.Name, status, c.Detail})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
			return err
		}

		if failed := report.Failed(); len(failed) > 0 {
			return core.Preconditionf("%d check(s) failed", len(failed))
		}
		pterm.Success.Println("All checks passed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
