package cmd

import (
	"github.com/spf13/cobra"

	"github.com/melih-ucgun/shopsnap/internal/lifecycle"
)

var trashCleanCmd = &cobra.Command{
	Use:   "trash-clean",
	Short: "Permanently delete everything in the trash root",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		discoveryFlag, _ := cmd.Flags().GetString("discovery")
		if discoveryFlag == "" {
			discoveryFlag = s.cfg.TrashDiscovery
		}
		discovery, err := lifecycle.ParseDiscovery(discoveryFlag)
		if err != nil {
			return err
		}

		r := &lifecycle.Reclaimer{
			Volumes:   s.volumes,
			TrashRoot: s.cfg.TrashRoot,
			Discovery: discovery,
			Confirm:   s.confirm,
			History:   s.history,
		}
		_, err = r.Clean(s.ctx)
		return err
	},
}

func init() {
	rootCmd.AddCommand(trashCleanCmd)
	trashCleanCmd.Flags().String("discovery", "", "how to find trash entries: dir or btrfs (default from config)")
}
