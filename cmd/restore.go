package cmd

import (
	"github.com/spf13/cobra"

	"github.com/melih-ucgun/shopsnap/internal/lifecycle"
)

var restoreCmd = &cobra.Command{
	Use:   "restore <snapshot_path> <shop_dir>",
	Short: "Replace a shop with a writable copy of a snapshot",
	Long: `Stops the compose services of the shop, retires the live shop subvolume and
creates a writable snapshot of <snapshot_path> in its place.

Policies:
  trash   move the live directory to the trash root first (default)
  delete  delete the live subvolume in place; nothing is kept if the
          following snapshot fails`,
	Args: usageArgs(cobra.ExactArgs(2)),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		policyFlag, _ := cmd.Flags().GetString("policy")
		if policyFlag == "" {
			policyFlag = s.cfg.RestorePolicy
		}
		policy, err := lifecycle.ParsePolicy(policyFlag)
		if err != nil {
			return err
		}

		src, err := s.path(args[0])
		if err != nil {
			return err
		}
		shop, err := s.path(args[1])
		if err != nil {
			return err
		}
		deleteSource, _ := cmd.Flags().GetBool("delete-snapshot")
		s.warnIfNotBtrfs(shop)

		r := &lifecycle.Restorer{
			Volumes:   s.volumes,
			Guard:     s.guard(),
			TrashRoot: s.cfg.TrashRoot,
			Policy:    policy,
			History:   s.history,
		}
		_, err = r.Restore(s.ctx, lifecycle.RestoreRequest{
			Snapshot:     src,
			ShopDir:      shop,
			DeleteSource: deleteSource,
		})
		return err
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
	restoreCmd.Flags().BoolP("delete-snapshot", "d", false, "delete the source snapshot after a successful restore")
	restoreCmd.Flags().String("policy", "", "what to do with the live shop: trash or delete (default from config)")
}
