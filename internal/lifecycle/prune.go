package lifecycle

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/melih-ucgun/shopsnap/internal/adapters/snapshot"
	"github.com/melih-ucgun/shopsnap/internal/core"
	"github.com/melih-ucgun/shopsnap/internal/safety"
	"github.com/melih-ucgun/shopsnap/internal/state"
)

// DefaultPruneCount is how many snapshots prune selects when not told otherwise.
const DefaultPruneCount = 5

// SnapshotRecord is the environment of a --where expression.
type SnapshotRecord struct {
	ID       int
	Path     string
	Name     string
	Shop     string // empty when the name does not follow the naming scheme
	Label    string
	Created  string // "2006-01-02 15:04:05", empty when unknown
	AgeHours float64
}

func newRecord(s snapshot.Subvolume, now time.Time) SnapshotRecord {
	rec := SnapshotRecord{ID: int(s.ID), Path: s.Path, Name: filepath.Base(s.Path)}
	if info, ok := ParseSnapshotName(rec.Name); ok {
		rec.Shop = info.Shop
		rec.Label = info.Label
		rec.Created = info.Time.Format("2006-01-02 15:04:05")
		rec.AgeHours = now.Sub(info.Time).Hours()
	}
	return rec
}

// Pruner deletes the oldest snapshots under the snapshots root.
type Pruner struct {
	Volumes       snapshot.VolumeManager
	SnapshotsRoot string
	Count         int
	// Where is an optional expr filter over SnapshotRecord, applied before selection
	Where   string
	Confirm safety.Confirmer
	History *state.HistoryManager
}

// Select returns the first Count snapshots by ascending ID that pass Where.
func (pr *Pruner) Select(ctx *core.SystemContext) ([]snapshot.Subvolume, error) {
	if pr.Count <= 0 {
		return nil, core.Usagef("count must be greater than 0, got %d", pr.Count)
	}
	filter, err := core.CompileFilter(pr.Where, SnapshotRecord{})
	if err != nil {
		return nil, core.Usagef("%v", err)
	}
	if !core.IsDir(ctx.FS, pr.SnapshotsRoot) {
		return nil, core.Preconditionf("snapshots root %s does not exist", pr.SnapshotsRoot)
	}

	subs, err := pr.Volumes.List(ctx, pr.SnapshotsRoot)
	if err != nil {
		return nil, core.OpFailed("list subvolumes", pr.SnapshotsRoot, err)
	}
	sortByID(subs)

	now := ctx.Clock()
	var selected []snapshot.Subvolume
	for _, s := range subs {
		if len(selected) == pr.Count {
			break
		}
		ok, err := filter.Match(newRecord(s, now))
		if err != nil {
			return nil, core.Usagef("%v", err)
		}
		if ok {
			selected = append(selected, s)
		}
	}
	return selected, nil
}

// Prune deletes the selected snapshots after confirmation. Every snapshot is
// processed even when an earlier one fails.
func (pr *Pruner) Prune(ctx *core.SystemContext) (*core.Summary, error) {
	p := out(ctx)
	summary := &core.Summary{}

	selected, err := pr.Select(ctx)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		p.Info("No snapshots to prune under %s, nothing to do", pr.SnapshotsRoot)
		return summary, nil
	}

	data := [][]string{{"ID", "Path"}}
	for _, s := range selected {
		data = append(data, []string{fmt.Sprintf("%d", s.ID), s.Path})
	}
	p.Info("Oldest %d snapshot(s) selected:", len(selected))
	p.Table(data)

	if ctx.DryRun {
		for _, s := range selected {
			p.DryRun("set ro=false %s", s.Path)
			p.DryRun("delete %s", s.Path)
		}
		return summary, nil
	}

	ok, err := pr.Confirm.Confirm(fmt.Sprintf("Delete these %d snapshot(s)?", len(selected)))
	if err != nil {
		return nil, fmt.Errorf("reading confirmation: %w", err)
	}
	if !ok {
		p.Info("Cancelled, nothing deleted")
		tx := state.NewTransaction("prune", ctx.Host, ctx.Clock())
		tx.Status = state.StatusCancelled
		record(ctx, pr.History, tx)
		return summary, nil
	}

	tx := state.NewTransaction("prune", ctx.Host, ctx.Clock())
	for _, s := range selected {
		// btrfs deletes read-only subvolumes too, so a failed flip is not fatal.
		if err := pr.Volumes.SetReadonly(ctx, s.Path, false); err != nil {
			p.Warn("Failed to set ro=false on %s: %v", s.Path, err)
			tx.Record("set-writable", s.Path, "", err)
		}
		if err := pr.Volumes.Delete(ctx, s.Path); err != nil {
			p.Warn("Failed to delete %s: %v", s.Path, err)
			summary.Add(core.Failure(s.Path, err, "delete failed"))
			tx.Record("delete", s.Path, "", err)
			continue
		}
		p.Success("Deleted %s", s.Path)
		summary.Add(core.SuccessChange(s.Path, "deleted"))
		tx.Record("delete", s.Path, "", nil)
	}
	tx.Status = batchStatus(summary)
	record(ctx, pr.History, tx)

	p.Info("Prune: %s", summary)
	return summary, nil
}
