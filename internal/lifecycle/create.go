package lifecycle

import (
	"path/filepath"
	"strings"

	"github.com/melih-ucgun/shopsnap/internal/adapters/snapshot"
	"github.com/melih-ucgun/shopsnap/internal/core"
	"github.com/melih-ucgun/shopsnap/internal/state"
	"github.com/melih-ucgun/shopsnap/internal/utils"
)

// Creator takes read-only snapshots of shop directories.
type Creator struct {
	Volumes       snapshot.VolumeManager
	Guard         *Guard
	SnapshotsRoot string
	History       *state.HistoryManager
}

// Create snapshots shopDir into the snapshots root and returns the snapshot name.
func (c *Creator) Create(ctx *core.SystemContext, shopDir, label string) (string, error) {
	p := out(ctx)
	shopDir = filepath.Clean(shopDir)
	if !core.IsDir(ctx.FS, shopDir) {
		return "", core.Preconditionf("shop directory %s does not exist", shopDir)
	}

	if strings.TrimSpace(label) != "" && utils.Slugify(label) == "" {
		p.Warn("Label %q has no usable characters, snapshot is created without a label", label)
	}

	now := ctx.Clock()
	name := SnapshotName(filepath.Base(shopDir), now, label)
	dst := filepath.Join(c.SnapshotsRoot, name)
	if core.Exists(ctx.FS, dst) {
		return "", core.Preconditionf("snapshot %s already exists", dst)
	}

	tx := state.NewTransaction("create", ctx.Host, now)

	if !core.IsDir(ctx.FS, c.SnapshotsRoot) {
		if ctx.DryRun {
			p.DryRun("mkdir -p %s", c.SnapshotsRoot)
		} else if err := ctx.FS.MkdirAll(c.SnapshotsRoot, 0o755); err != nil {
			return "", core.Preconditionf("cannot create snapshots root %s: %v", c.SnapshotsRoot, err)
		}
	}

	managed := c.Guard.Stop(ctx, shopDir, &tx)

	if ctx.DryRun {
		p.DryRun("btrfs subvolume snapshot -r %s %s", shopDir, dst)
	} else {
		p.Info("Creating read-only snapshot %s", dst)
		if err := c.Volumes.Snapshot(ctx, shopDir, dst, true); err != nil {
			tx.Status = state.StatusFailed
			tx.Record("snapshot", dst, shopDir, err)
			record(ctx, c.History, tx)
			return "", core.OpFailed("snapshot", dst, err)
		}
		tx.Record("snapshot", dst, shopDir, nil)
	}

	c.Guard.Start(ctx, shopDir, managed, &tx)
	record(ctx, c.History, tx)

	p.Success("Snapshot created: %s", name)
	return name, nil
}
