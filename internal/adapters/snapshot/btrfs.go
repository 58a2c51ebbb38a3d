package snapshot

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/melih-ucgun/shopsnap/internal/core"
)

// Btrfs manages subvolumes by shelling out to the btrfs tool on the context's transport.
type Btrfs struct{}

func NewBtrfs() *Btrfs {
	return &Btrfs{}
}

func (b *Btrfs) Snapshot(ctx *core.SystemContext, src, dst string, readonly bool) error {
	args := []string{"subvolume", "snapshot"}
	if readonly {
		args = append(args, "-r")
	}
	args = append(args, src, dst)
	return run(ctx, args...)
}

func (b *Btrfs) Delete(ctx *core.SystemContext, path string) error {
	return run(ctx, "subvolume", "delete", path)
}

func (b *Btrfs) SetReadonly(ctx *core.SystemContext, path string, readonly bool) error {
	return run(ctx, "property", "set", "-ts", path, "ro", fmt.Sprintf("%t", readonly))
}

// List runs "btrfs subvolume list -o root". The listing covers every
// subvolume whose parent is the subvolume containing root, so entries outside
// root are dropped and nested entries below plain directories are kept.
func (b *Btrfs) List(ctx *core.SystemContext, root string) ([]Subvolume, error) {
	out, err := ctx.Exec(core.Command("btrfs", "subvolume", "list", "-o", root))
	if err != nil {
		return nil, commandError(out, err)
	}

	var subs, unresolved []Subvolume
	for _, s := range ParseSubvolumeList(out) {
		abs, ok := ResolvePath(root, s.RelPath)
		if !ok {
			unresolved = append(unresolved, s)
			continue
		}
		s.Path = abs
		subs = append(subs, s)
	}

	// Siblings of root are expected in a -o listing. Entries that pass
	// through a directory named like root but do not resolve mean root is
	// mounted from a subvolume whose name differs from its mount point.
	var misplaced []string
	for _, s := range unresolved {
		if mentionsBase(s.RelPath, root) {
			misplaced = append(misplaced, s.RelPath)
		} else {
			slog.Debug("subvolume outside root", "root", root, "path", s.RelPath)
		}
	}
	if len(misplaced) > 0 {
		slog.Warn("subvolumes could not be mapped below root", "root", root, "paths", misplaced)
		if len(subs) == 0 {
			return nil, core.OpFailed("resolve subvolume paths", root,
				fmt.Errorf("%d listed subvolumes (first %s) do not map below %s; root is mounted from a differently named subvolume", len(misplaced), misplaced[0], root))
		}
	}

	sort.SliceStable(subs, func(i, j int) bool { return subs[i].ID < subs[j].ID })
	return subs, nil
}

// ResolvePath maps a top-level relative path from a listing onto root.
// The shortest leading part of rel that equals the trailing components of
// root is taken as root itself; the rest is appended. Paths that do not
// pass through root are reported as not ok.
func ResolvePath(root, rel string) (string, bool) {
	root = filepath.Clean(root)
	relParts := strings.Split(strings.Trim(filepath.ToSlash(rel), "/"), "/")
	rootParts := strings.Split(strings.Trim(filepath.ToSlash(root), "/"), "/")

	for j := 1; j < len(relParts); j++ {
		if hasSuffix(rootParts, relParts[:j]) {
			return filepath.Join(append([]string{root}, relParts[j:]...)...), true
		}
	}
	return "", false
}

// mentionsBase reports whether rel has the last component of root as one of
// its inner directories.
func mentionsBase(rel, root string) bool {
	base := filepath.Base(filepath.Clean(root))
	parts := strings.Split(strings.Trim(filepath.ToSlash(rel), "/"), "/")
	for _, p := range parts[:len(parts)-1] {
		if p == base {
			return true
		}
	}
	return false
}

func hasSuffix(parts, suffix []string) bool {
	if len(suffix) > len(parts) {
		return false
	}
	off := len(parts) - len(suffix)
	for i := range suffix {
		if parts[off+i] != suffix[i] {
			return false
		}
	}
	return true
}

func run(ctx *core.SystemContext, args ...string) error {
	out, err := ctx.Exec(core.Command("btrfs", args...))
	if err != nil {
		return commandError(out, err)
	}
	return nil
}

func commandError(out string, err error) error {
	if out = strings.TrimSpace(out); out != "" {
		return fmt.Errorf("%w: %s", err, out)
	}
	return err
}
