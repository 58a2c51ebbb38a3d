package lifecycle

import (
	"path/filepath"
	"sort"

	"github.com/melih-ucgun/shopsnap/internal/adapters/snapshot"
	"github.com/melih-ucgun/shopsnap/internal/core"
)

// Entry is a listed snapshot with its decoded name.
type Entry struct {
	snapshot.Subvolume
	Name string
	Info SnapshotInfo
	// Named is false when the name does not follow the snapshot naming scheme
	Named bool
}

// Lister reports the snapshots under the snapshots root.
type Lister struct {
	Volumes       snapshot.VolumeManager
	SnapshotsRoot string
}

// List returns the snapshots sorted by ID. A non-empty shop keeps only the
// snapshots of that shop.
func (l *Lister) List(ctx *core.SystemContext, shop string) ([]Entry, error) {
	if !core.IsDir(ctx.FS, l.SnapshotsRoot) {
		return nil, core.Preconditionf("snapshots root %s does not exist", l.SnapshotsRoot)
	}
	subs, err := l.Volumes.List(ctx, l.SnapshotsRoot)
	if err != nil {
		return nil, core.OpFailed("list subvolumes", l.SnapshotsRoot, err)
	}
	sortByID(subs)

	var entries []Entry
	for _, s := range subs {
		e := Entry{Subvolume: s, Name: filepath.Base(s.Path)}
		e.Info, e.Named = ParseSnapshotName(e.Name)
		if shop != "" && (!e.Named || e.Info.Shop != shop) {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func sortByID(subs []snapshot.Subvolume) {
	sort.SliceStable(subs, func(i, j int) bool { return subs[i].ID < subs[j].ID })
}
