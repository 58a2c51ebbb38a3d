package lifecycle

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/melih-ucgun/shopsnap/internal/adapters/snapshot"
	"github.com/melih-ucgun/shopsnap/internal/core"
	"github.com/melih-ucgun/shopsnap/internal/safety"
	"github.com/melih-ucgun/shopsnap/internal/state"
)

// Discovery selects how trash candidates are found.
type Discovery string

const (
	// DiscoveryDir takes the immediate child directories of the trash root.
	DiscoveryDir Discovery = "dir"
	// DiscoveryBtrfs asks btrfs for every subvolume below the trash root,
	// nested ones included.
	DiscoveryBtrfs Discovery = "btrfs"
)

func ParseDiscovery(s string) (Discovery, error) {
	switch d := Discovery(strings.ToLower(strings.TrimSpace(s))); d {
	case DiscoveryDir, DiscoveryBtrfs:
		return d, nil
	case "":
		return DiscoveryDir, nil
	default:
		return "", core.Usagef("unknown discovery mode %q (want %q or %q)", s, DiscoveryDir, DiscoveryBtrfs)
	}
}

// Reclaimer permanently deletes everything in the trash root.
type Reclaimer struct {
	Volumes   snapshot.VolumeManager
	TrashRoot string
	Discovery Discovery
	Confirm   safety.Confirmer
	History   *state.HistoryManager
}

// Candidates returns the trash entries, deepest paths first.
func (r *Reclaimer) Candidates(ctx *core.SystemContext) ([]string, error) {
	if !core.IsDir(ctx.FS, r.TrashRoot) {
		return nil, core.Preconditionf("trash root %s does not exist", r.TrashRoot)
	}

	var paths []string
	switch r.Discovery {
	case DiscoveryBtrfs:
		subs, err := r.Volumes.List(ctx, r.TrashRoot)
		if err != nil {
			return nil, fmt.Errorf("listing subvolumes under %s: %w", r.TrashRoot, err)
		}
		for _, s := range subs {
			paths = append(paths, s.Path)
		}
	default:
		entries, err := ctx.FS.ReadDir(r.TrashRoot)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", r.TrashRoot, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				paths = append(paths, filepath.Join(r.TrashRoot, e.Name()))
			}
		}
	}
	SortDeepestFirst(paths)
	return paths, nil
}

// SortDeepestFirst orders paths so that children come before their parents.
func SortDeepestFirst(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		di, dj := depth(paths[i]), depth(paths[j])
		if di != dj {
			return di > dj
		}
		return paths[i] < paths[j]
	})
}

func depth(p string) int {
	return strings.Count(filepath.Clean(p), string(filepath.Separator))
}

// Clean deletes every trash candidate after confirmation. One failure never
// stops the batch; the returned summary holds every outcome.
func (r *Reclaimer) Clean(ctx *core.SystemContext) (*core.Summary, error) {
	p := out(ctx)
	summary := &core.Summary{}

	candidates, err := r.Candidates(ctx)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		p.Info("Trash %s is empty, nothing to do", r.TrashRoot)
		return summary, nil
	}

	data := [][]string{{"#", "Path"}}
	for i, c := range candidates {
		data = append(data, []string{fmt.Sprintf("%d", i+1), c})
	}
	p.Table(data)

	if ctx.DryRun {
		for _, c := range candidates {
			p.DryRun("btrfs subvolume delete %s", c)
		}
		return summary, nil
	}

	ok, err := r.Confirm.Confirm(fmt.Sprintf("Permanently delete %d entries under %s?", len(candidates), r.TrashRoot))
	if err != nil {
		return nil, fmt.Errorf("reading confirmation: %w", err)
	}
	if !ok {
		p.Info("Cancelled, nothing deleted")
		tx := state.NewTransaction("trash-clean", ctx.Host, ctx.Clock())
		tx.Status = state.StatusCancelled
		record(ctx, r.History, tx)
		return summary, nil
	}

	tx := state.NewTransaction("trash-clean", ctx.Host, ctx.Clock())
	for _, c := range candidates {
		if err := r.Volumes.Delete(ctx, c); err != nil {
			p.Warn("Failed to delete %s: %v", c, err)
			summary.Add(core.Failure(c, err, "delete failed"))
			tx.Record("delete", c, "", err)
			continue
		}
		p.Success("Deleted %s", c)
		summary.Add(core.SuccessChange(c, "deleted"))
		tx.Record("delete", c, "", nil)
	}
	tx.Status = batchStatus(summary)
	record(ctx, r.History, tx)

	p.Info("Trash clean: %s", summary)
	return summary, nil
}

func batchStatus(s *core.Summary) string {
	switch {
	case s.Failed() == 0:
		return state.StatusSuccess
	case s.Succeeded() == 0:
		return state.StatusFailed
	default:
		return state.StatusPartial
	}
}
