package cmd

import (
	"github.com/spf13/cobra"

	"github.com/melih-ucgun/shopsnap/internal/core"
	"github.com/melih-ucgun/shopsnap/internal/lifecycle"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete the oldest snapshots",
	Long: `Lists the subvolumes under the snapshots root, orders them by subvolume ID
(creation order) and deletes the oldest N after confirmation.

--where takes an expression over ID, Path, Name, Shop, Label, Created and
AgeHours, for example:

  shopsnap prune -n 10 --where 'Shop == "shop1" && AgeHours > 720'`,
	Args: usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		count := s.cfg.PruneCount
		if cmd.Flags().Changed("count") {
			count, _ = cmd.Flags().GetInt("count")
			if count <= 0 {
				return core.Usagef("--count must be greater than 0, got %d", count)
			}
		}
		where, _ := cmd.Flags().GetString("where")

		p := &lifecycle.Pruner{
			Volumes:       s.volumes,
			SnapshotsRoot: s.cfg.SnapshotsRoot,
			Count:         count,
			Where:         where,
			Confirm:       s.confirm,
			History:       s.history,
		}
		_, err = p.Prune(s.ctx)
		return err
	},
}

func init() {
	rootCmd.AddCommand(pruneCmd)
	pruneCmd.Flags().IntP("count", "n", 0, "number of oldest snapshots to delete (default prune_count, 5)")
	pruneCmd.Flags().String("where", "", "only consider snapshots matching this expression")
}
