package cmd

import (
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/melih-ucgun/shopsnap/internal/adapters/docker"
	"github.com/melih-ucgun/shopsnap/internal/adapters/snapshot"
	"github.com/melih-ucgun/shopsnap/internal/config"
	"github.com/melih-ucgun/shopsnap/internal/core"
	"github.com/melih-ucgun/shopsnap/internal/lifecycle"
	"github.com/melih-ucgun/shopsnap/internal/safety"
	"github.com/melih-ucgun/shopsnap/internal/state"
	"github.com/melih-ucgun/shopsnap/internal/system"
	"github.com/melih-ucgun/shopsnap/internal/transport"
)

// session is everything a lifecycle command needs for one invocation.
type session struct {
	cfg     *config.Config
	ctx     *core.SystemContext
	local   bool
	history *state.HistoryManager
	confirm safety.Confirmer
	volumes *snapshot.Btrfs
	compose *docker.Compose
}

// loadConfig reads the config file and applies the persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, core.Preconditionf("%v", err)
	}

	if flags.Changed("dry-run") {
		cfg.DryRun, _ = flags.GetBool("dry-run")
	}
	if v, _ := flags.GetString("snapshots-root"); v != "" {
		cfg.SnapshotsRoot = filepath.Clean(v)
	}
	if v, _ := flags.GetString("trash-root"); v != "" {
		cfg.TrashRoot = filepath.Clean(v)
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, core.Usagef("%v", err)
	}
	setupLogger(cfg.LogLevel)
	return cfg, nil
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	host, _ := cmd.Flags().GetString("host")
	tr, err := transport.New(cmd.Context(), cfg, host)
	if err != nil {
		return nil, core.Preconditionf("cannot connect to %s: %v", host, err)
	}

	ctx := core.NewSystemContext(cfg.DryRun, tr)
	if cmd.Context() != nil {
		ctx.Context = cmd.Context()
	}
	ctx.Host = host

	yes, _ := cmd.Flags().GetBool("yes")
	if cfg.DryRun {
		pterm.Info.Println("Dry run: no changes will be made")
	}

	return &session{
		cfg:     cfg,
		ctx:     ctx,
		local:   host == "" || host == transport.Localhost,
		history: state.NewHistoryManager(cfg.HistoryFile),
		confirm: safety.New(safety.Options{DryRun: cfg.DryRun, Yes: yes}, os.Stdin, os.Stdout),
		volumes: snapshot.NewBtrfs(),
		compose: docker.NewCompose(cfg.ComposeFiles),
	}, nil
}

func (s *session) Close() {
	_ = s.ctx.Transport.Close()
}

// path resolves a user supplied path. Relative paths only make sense locally.
func (s *session) path(p string) (string, error) {
	if filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	if !s.local {
		return "", core.Usagef("path %q must be absolute on remote host %s", p, s.ctx.Host)
	}
	return filepath.Abs(p)
}

// warnIfNotBtrfs prints a warning when path is not on btrfs. The operation
// still runs; the btrfs command reports the actual failure.
func (s *session) warnIfNotBtrfs(path string) {
	if c := system.CheckFilesystem(s.ctx, path); !c.OK {
		pterm.Warning.Printfln("%s: %s", path, c.Detail)
	}
}

func (s *session) guard() *lifecycle.Guard {
	return lifecycle.NewGuard(s.compose)
}
