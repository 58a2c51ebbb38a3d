package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/melih-ucgun/shopsnap/internal/config"
	"github.com/melih-ucgun/shopsnap/internal/core"
)

var rootCmd = &cobra.Command{
	Use:   "shopsnap",
	Short: "BTRFS snapshot lifecycle for docker compose shops",
	Long: `shopsnap creates, restores and prunes BTRFS snapshots of docker compose
application directories ("shops") and empties the restore trash.
Services are stopped around every destructive subvolume operation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	cmd, err := rootCmd.ExecuteC()
	if err == nil {
		return core.ExitOK
	}
	pterm.Error.Println(err)
	var usage *core.UsageError
	if errors.As(err, &usage) {
		fmt.Fprint(os.Stderr, cmd.UsageString())
	}
	return core.ExitCode(err)
}

func init() {
	setupLogger("info")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &core.UsageError{Msg: err.Error()}
	})

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", config.DefaultPath, "config file path")
	flags.StringP("host", "H", "localhost", "target host (host name from the config file)")
	flags.Bool("dry-run", false, "print destructive actions instead of running them")
	flags.BoolP("yes", "y", false, "answer yes to every confirmation")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("snapshots-root", "", "override snapshots_root")
	flags.String("trash-root", "", "override trash_root")
}

// setupLogger installs the diagnostic slog handler on stderr.
func setupLogger(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}

// usageArgs turns an argument validation failure into a UsageError.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &core.UsageError{Msg: err.Error()}
		}
		return nil
	}
}
