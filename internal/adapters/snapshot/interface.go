package snapshot

import "github.com/melih-ucgun/shopsnap/internal/core"

// VolumeManager defines the subvolume operations the lifecycle workflows use.
type VolumeManager interface {
	// Snapshot creates a copy-on-write snapshot of src at dst
	Snapshot(ctx *core.SystemContext, src, dst string, readonly bool) error
	// Delete removes the subvolume at path, read-only or not
	Delete(ctx *core.SystemContext, path string) error
	// SetReadonly flips the ro property of the subvolume at path
	SetReadonly(ctx *core.SystemContext, path string, readonly bool) error
	// List returns the subvolumes below root, sorted by ascending ID
	List(ctx *core.SystemContext, root string) ([]Subvolume, error)
}

// Subvolume is one entry of a subvolume listing.
type Subvolume struct {
	ID       uint64
	TopLevel uint64
	RelPath  string // path as printed by btrfs, relative to the filesystem top level
	Path     string // absolute path below the listed root
}
