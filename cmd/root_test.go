package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melih-ucgun/shopsnap/internal/core"
)

func TestExecute_ExitCodes(t *testing.T) {
	t.Setenv("SHOPSNAP_HISTORY_FILE", "")
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"Create without shop", []string{"create"}, core.ExitUsage},
		{"Create with too many args", []string{"create", "/srv/a", "label", "extra"}, core.ExitUsage},
		{"Restore with one arg", []string{"restore", "/mnt/btrfs/snapshots/x"}, core.ExitUsage},
		{"Unknown flag", []string{"trash-clean", "--bogus"}, core.ExitUsage},
		{"Trash clean with args", []string{"trash-clean", "now"}, core.ExitUsage},
		{"Unknown host", []string{"--host", "nowhere", "list"}, core.ExitUsage},
		{"Help", []string{"--help"}, core.ExitOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rootCmd.SetArgs(tt.args)
			assert.Equal(t, tt.want, Execute())
		})
	}
}

func TestUsageArgs(t *testing.T) {
	check := usageArgs(cobra.NoArgs)
	assert.NoError(t, check(rootCmd, nil))

	err := check(rootCmd, []string{"extra"})
	var usage *core.UsageError
	assert.ErrorAs(t, err, &usage)
}

func newConfigCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	f := c.Flags()
	f.String("config", "", "")
	f.Bool("dry-run", false, "")
	f.String("snapshots-root", "", "")
	f.String("trash-root", "", "")
	f.String("log-level", "", "")
	require.NoError(t, f.Parse(args))
	return c
}

func TestLoadConfig_FlagsOverrideBeforeValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shopsnap.yaml")
	require.NoError(t, os.WriteFile(path, []byte("trash_root: relative/trash\n"), 0644))

	_, err := loadConfig(newConfigCommand(t, "--config", path))
	var usage *core.UsageError
	assert.ErrorAs(t, err, &usage, "an invalid file value without an override fails")

	cfg, err := loadConfig(newConfigCommand(t, "--config", path, "--trash-root", "/mnt/btrfs/trash/"))
	require.NoError(t, err)
	assert.Equal(t, "/mnt/btrfs/trash", cfg.TrashRoot)
}
