package lifecycle

import (
	"path/filepath"
	"strings"

	"github.com/melih-ucgun/shopsnap/internal/adapters/snapshot"
	"github.com/melih-ucgun/shopsnap/internal/core"
	"github.com/melih-ucgun/shopsnap/internal/state"
)

// Policy decides what happens to the live shop subvolume during a restore.
type Policy string

const (
	// PolicyTrash moves the live shop directory into the trash root first.
	PolicyTrash Policy = "trash"
	// PolicyDelete deletes the live shop subvolume in place. There is no
	// way back if the following snapshot fails.
	PolicyDelete Policy = "delete"
)

func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyTrash, PolicyDelete:
		return p, nil
	case "":
		return PolicyTrash, nil
	default:
		return "", core.Usagef("unknown restore policy %q (want %q or %q)", s, PolicyTrash, PolicyDelete)
	}
}

type RestoreRequest struct {
	Snapshot     string
	ShopDir      string
	DeleteSource bool
}

// RestoreOutcome describes a completed restore.
type RestoreOutcome struct {
	// TrashPath is where the previous shop data went (PolicyTrash only)
	TrashPath     string
	SourceDeleted bool
}

// Restorer replaces a shop directory with a writable copy of a snapshot.
type Restorer struct {
	Volumes   snapshot.VolumeManager
	Guard     *Guard
	TrashRoot string
	Policy    Policy
	History   *state.HistoryManager
}

func (r *Restorer) Restore(ctx *core.SystemContext, req RestoreRequest) (*RestoreOutcome, error) {
	src := filepath.Clean(req.Snapshot)
	shop := filepath.Clean(req.ShopDir)

	if !core.Exists(ctx.FS, src) {
		return nil, core.Preconditionf("snapshot %s does not exist", src)
	}
	if !core.IsDir(ctx.FS, shop) {
		return nil, core.Preconditionf("shop directory %s does not exist", shop)
	}
	if src == shop {
		return nil, core.Preconditionf("snapshot and shop directory are the same path: %s", src)
	}

	policy := r.Policy
	if policy == "" {
		policy = PolicyTrash
	}

	now := ctx.Clock()
	outcome := &RestoreOutcome{}
	if policy == PolicyTrash {
		outcome.TrashPath = filepath.Join(r.TrashRoot, TrashName(filepath.Base(shop), now))
		if core.Exists(ctx.FS, outcome.TrashPath) {
			return nil, core.Preconditionf("trash entry %s already exists", outcome.TrashPath)
		}
	}

	tx := state.NewTransaction("restore", ctx.Host, now)
	p := out(ctx)

	managed := r.Guard.Stop(ctx, shop, &tx)

	var err error
	if policy == PolicyTrash {
		err = r.retireToTrash(ctx, shop, outcome.TrashPath, &tx)
	} else {
		err = r.retireInPlace(ctx, shop, &tx)
	}
	if err != nil {
		tx.Status = state.StatusFailed
		record(ctx, r.History, tx)
		return nil, err
	}

	if ctx.DryRun {
		p.DryRun("btrfs subvolume snapshot %s %s", src, shop)
	} else {
		p.Info("Creating writable snapshot %s from %s", shop, src)
		if err := r.Volumes.Snapshot(ctx, src, shop, false); err != nil {
			tx.Status = state.StatusFailed
			tx.Record("snapshot", shop, src, err)
			record(ctx, r.History, tx)
			if policy == PolicyTrash {
				p.Error("Restore failed. Previous data is kept in %s", outcome.TrashPath)
			} else {
				p.Error("Restore failed. %s was already deleted and is now absent", shop)
			}
			return nil, core.OpFailed("snapshot", shop, err)
		}
		tx.Record("snapshot", shop, src, nil)
	}

	if req.DeleteSource {
		outcome.SourceDeleted = r.deleteSource(ctx, src, &tx)
	}

	r.Guard.Start(ctx, shop, managed, &tx)
	record(ctx, r.History, tx)

	p.Success("Restored %s from %s", shop, src)
	if outcome.TrashPath != "" && !ctx.DryRun {
		p.Info("Previous data moved to %s", outcome.TrashPath)
	}
	return outcome, nil
}

func (r *Restorer) retireToTrash(ctx *core.SystemContext, shop, trashPath string, tx *state.Transaction) error {
	p := out(ctx)
	if ctx.DryRun {
		if !core.IsDir(ctx.FS, r.TrashRoot) {
			p.DryRun("mkdir -p %s", r.TrashRoot)
		}
		p.DryRun("mv %s %s", shop, trashPath)
		return nil
	}
	if err := ctx.FS.MkdirAll(r.TrashRoot, 0o755); err != nil {
		return core.OpFailed("create trash root", r.TrashRoot, err)
	}
	p.Info("Moving %s to %s", shop, trashPath)
	if err := ctx.FS.Rename(shop, trashPath); err != nil {
		tx.Record("trash", trashPath, shop, err)
		return core.OpFailed("move to trash", shop, err)
	}
	tx.Record("trash", trashPath, shop, nil)
	return nil
}

func (r *Restorer) retireInPlace(ctx *core.SystemContext, shop string, tx *state.Transaction) error {
	p := out(ctx)
	if ctx.DryRun {
		p.DryRun("btrfs subvolume delete %s", shop)
		return nil
	}
	p.Warn("Deleting live subvolume %s", shop)
	if err := r.Volumes.Delete(ctx, shop); err != nil {
		tx.Record("delete", shop, "", err)
		return core.OpFailed("delete subvolume", shop, err)
	}
	tx.Record("delete", shop, "", nil)
	return nil
}

// deleteSource removes the restored snapshot. Failure is a warning.
func (r *Restorer) deleteSource(ctx *core.SystemContext, src string, tx *state.Transaction) bool {
	p := out(ctx)
	if ctx.DryRun {
		p.DryRun("btrfs subvolume delete %s", src)
		return false
	}
	err := r.Volumes.Delete(ctx, src)
	tx.Record("delete", src, "", err)
	if err != nil {
		p.Warn("Could not delete snapshot %s: %v", src, err)
		tx.Status = state.StatusPartial
		return false
	}
	p.Info("Deleted snapshot %s", src)
	return true
}

func (p Policy) String() string { return string(p) }

