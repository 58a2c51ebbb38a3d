package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/melih-ucgun/shopsnap/internal/utils"
)

// DefaultPath is where the config file is looked up when --config is not given.
const DefaultPath = "/etc/shopsnap/shopsnap.yaml"

// Restore policies.
const (
	PolicyTrash  = "trash"
	PolicyDelete = "delete"
)

// Trash discovery modes.
const (
	DiscoveryDir   = "dir"
	DiscoveryBtrfs = "btrfs"
)

// Config represents the root structure of shopsnap.yaml.
type Config struct {
	SnapshotsRoot  string   `yaml:"snapshots_root"`
	TrashRoot      string   `yaml:"trash_root"`
	ComposeFiles   []string `yaml:"compose_files"`   // Manifest names looked up in a shop dir, first match wins
	PruneCount     int      `yaml:"prune_count"`     // How many of the oldest snapshots prune selects
	DryRun         bool     `yaml:"dry_run"`
	RestorePolicy  string   `yaml:"restore_policy"`  // trash, delete
	TrashDiscovery string   `yaml:"trash_discovery"` // dir, btrfs
	HistoryFile    string   `yaml:"history_file"`    // Empty disables the journal
	LogLevel       string   `yaml:"log_level"`
	Hosts          []Host   `yaml:"hosts"` // Remote hosts (Optional)
}

// Host holds connection information for a remote host.
type Host struct {
	Name         string `yaml:"name"`
	Address      string `yaml:"address"`
	User         string `yaml:"user"`
	Port         int    `yaml:"port"`
	SSHKeyPath   string `yaml:"ssh_key_path"`
	KnownHosts   string `yaml:"known_hosts"` // Host key verification file; empty skips verification
	Password     string `yaml:"password"`      // Used when no key is given, and for sudo
	BecomeMethod string `yaml:"become_method"` // sudo or empty
}

// Default returns the built-in configuration.
func Default() *Config {
	history := ""
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, ".shopsnap", "history.json")
	}
	return &Config{
		SnapshotsRoot:  "/mnt/btrfs/snapshots",
		TrashRoot:      "/mnt/btrfs/trash",
		ComposeFiles:   []string{"docker-compose.yml", "docker-compose.yaml", "compose.yml", "compose.yaml"},
		PruneCount:     5,
		RestorePolicy:  PolicyTrash,
		TrashDiscovery: DiscoveryDir,
		HistoryFile:    history,
		LogLevel:       "info",
	}
}

// Load builds the configuration from defaults, the YAML file at path, a .env
// file and SHOPSNAP_* environment variables, in that order of precedence.
// A missing file is only an error when path is not DefaultPath. The result
// is not validated; callers apply their own overrides and then call Validate.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("yaml parse error (%s): %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && path == DefaultPath:
		slog.Debug("no config file, using defaults", "path", path)
	default:
		return nil, fmt.Errorf("file read error (%s): %w", path, err)
	}

	loadDotEnv(path)
	applyEnv(cfg)
	expandConfig(cfg)
	return cfg, nil
}

// loadDotEnv loads .env next to the config file, falling back to the working
// directory. Existing environment variables are never overridden.
func loadDotEnv(configPath string) {
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if _, err := os.Stat(envPath); err == nil {
		if loadErr := godotenv.Load(envPath); loadErr != nil {
			slog.Warn("failed to load .env file", "path", envPath, "err", loadErr)
		}
		return
	}
	_ = godotenv.Load() // Ignore error (if no file found)
}

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("SHOPSNAP_SNAPSHOTS_ROOT"); ok {
		cfg.SnapshotsRoot = v
	}
	if v, ok := os.LookupEnv("SHOPSNAP_TRASH_ROOT"); ok {
		cfg.TrashRoot = v
	}
	if v, ok := os.LookupEnv("SHOPSNAP_COMPOSE_FILES"); ok {
		cfg.ComposeFiles = splitList(v)
	}
	if v, ok := os.LookupEnv("SHOPSNAP_PRUNE_COUNT"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.PruneCount = n
		} else {
			slog.Warn("ignoring invalid SHOPSNAP_PRUNE_COUNT", "value", v)
		}
	}
	if v, ok := os.LookupEnv("SHOPSNAP_DRY_RUN"); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			cfg.DryRun = b
		} else {
			slog.Warn("ignoring invalid SHOPSNAP_DRY_RUN", "value", v)
		}
	}
	if v, ok := os.LookupEnv("SHOPSNAP_RESTORE_POLICY"); ok {
		cfg.RestorePolicy = v
	}
	if v, ok := os.LookupEnv("SHOPSNAP_TRASH_DISCOVERY"); ok {
		cfg.TrashDiscovery = v
	}
	if v, ok := os.LookupEnv("SHOPSNAP_HISTORY_FILE"); ok {
		cfg.HistoryFile = v
	}
	if v, ok := os.LookupEnv("SHOPSNAP_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
}

// expandConfig performs Env Var substitution on path-like values.
func expandConfig(cfg *Config) {
	cfg.SnapshotsRoot = filepath.Clean(os.ExpandEnv(cfg.SnapshotsRoot))
	cfg.TrashRoot = filepath.Clean(os.ExpandEnv(cfg.TrashRoot))
	if cfg.HistoryFile != "" {
		cfg.HistoryFile = os.ExpandEnv(cfg.HistoryFile)
	}
	cfg.RestorePolicy = strings.ToLower(strings.TrimSpace(cfg.RestorePolicy))
	cfg.TrashDiscovery = strings.ToLower(strings.TrimSpace(cfg.TrashDiscovery))

	for i := range cfg.Hosts {
		cfg.Hosts[i].Address = os.ExpandEnv(cfg.Hosts[i].Address)
		cfg.Hosts[i].User = os.ExpandEnv(cfg.Hosts[i].User)
		cfg.Hosts[i].Password = os.ExpandEnv(cfg.Hosts[i].Password)
		cfg.Hosts[i].SSHKeyPath = os.ExpandEnv(cfg.Hosts[i].SSHKeyPath)
		cfg.Hosts[i].KnownHosts = os.ExpandEnv(cfg.Hosts[i].KnownHosts)
		if cfg.Hosts[i].Port == 0 {
			cfg.Hosts[i].Port = 22
		}
	}
}

// Validate checks the values that commands rely on.
func (c *Config) Validate() error {
	if c.PruneCount <= 0 {
		return fmt.Errorf("prune_count must be > 0, got %d", c.PruneCount)
	}
	if !utils.IsOneOf(c.RestorePolicy, PolicyTrash, PolicyDelete) {
		return fmt.Errorf("restore_policy must be %q or %q, got %q", PolicyTrash, PolicyDelete, c.RestorePolicy)
	}
	if !utils.IsOneOf(c.TrashDiscovery, DiscoveryDir, DiscoveryBtrfs) {
		return fmt.Errorf("trash_discovery must be %q or %q, got %q", DiscoveryDir, DiscoveryBtrfs, c.TrashDiscovery)
	}
	if !filepath.IsAbs(c.SnapshotsRoot) || !filepath.IsAbs(c.TrashRoot) {
		return fmt.Errorf("snapshots_root and trash_root must be absolute paths")
	}
	if c.SnapshotsRoot == c.TrashRoot {
		return fmt.Errorf("snapshots_root and trash_root must differ (%s)", c.SnapshotsRoot)
	}
	if len(c.ComposeFiles) == 0 {
		return fmt.Errorf("compose_files must name at least one manifest")
	}
	for _, h := range c.Hosts {
		if h.Name == "" || h.Address == "" {
			return fmt.Errorf("every host needs a name and an address")
		}
		if !utils.IsValidPort(h.Port) {
			return fmt.Errorf("host %s: invalid port %d", h.Name, h.Port)
		}
	}
	return nil
}

// FindHost returns the host named name.
func (c *Config) FindHost(name string) (*Host, error) {
	for i := range c.Hosts {
		if c.Hosts[i].Name == name {
			return &c.Hosts[i], nil
		}
	}
	return nil, fmt.Errorf("host '%s' is not defined in the configuration", name)
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
