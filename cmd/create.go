package cmd

import (
	"github.com/spf13/cobra"

	"github.com/melih-ucgun/shopsnap/internal/lifecycle"
)

var createCmd = &cobra.Command{
	Use:   "create <shop_dir> [label]",
	Short: "Create a read-only snapshot of a shop",
	Long: `Stops the compose services of the shop (when it has a manifest), creates a
read-only snapshot <shop>__<YYYY-MM-DD-HHMMSS>[__<label-slug>] in the snapshots
root and starts the services again.`,
	Args: usageArgs(cobra.RangeArgs(1, 2)),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		shop, err := s.path(args[0])
		if err != nil {
			return err
		}
		label := ""
		if len(args) == 2 {
			label = args[1]
		}
		s.warnIfNotBtrfs(shop)

		c := &lifecycle.Creator{
			Volumes:       s.volumes,
			Guard:         s.guard(),
			SnapshotsRoot: s.cfg.SnapshotsRoot,
			History:       s.history,
		}
		_, err = c.Create(s.ctx, shop, label)
		return err
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
}
