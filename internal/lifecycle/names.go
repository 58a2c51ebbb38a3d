package lifecycle

import (
	"strings"
	"time"

	"github.com/melih-ucgun/shopsnap/internal/utils"
)

// TimestampLayout is the timestamp part of snapshot and trash names.
const TimestampLayout = "2006-01-02-150405"

const nameSep = "__"

// SnapshotName returns <base>__<timestamp>, with __<slug> appended when label
// slugifies to something non-empty.
func SnapshotName(base string, t time.Time, label string) string {
	name := base + nameSep + t.Format(TimestampLayout)
	if slug := utils.Slugify(label); slug != "" {
		name += nameSep + slug
	}
	return name
}

// TrashName returns the name a retired shop directory gets in the trash root.
func TrashName(base string, t time.Time) string {
	return base + nameSep + t.Format(TimestampLayout)
}

// SnapshotInfo is what a snapshot name encodes.
type SnapshotInfo struct {
	Shop  string
	Time  time.Time
	Label string
}

// ParseSnapshotName decodes a name produced by SnapshotName. Shop names may
// themselves contain "__"; the timestamp is searched from the right.
func ParseSnapshotName(name string) (SnapshotInfo, bool) {
	parts := strings.Split(name, nameSep)
	if len(parts) < 2 {
		return SnapshotInfo{}, false
	}
	n := len(parts)
	if t, err := time.ParseInLocation(TimestampLayout, parts[n-1], time.Local); err == nil {
		return SnapshotInfo{Shop: strings.Join(parts[:n-1], nameSep), Time: t}, parts[0] != ""
	}
	if n >= 3 {
		if t, err := time.ParseInLocation(TimestampLayout, parts[n-2], time.Local); err == nil && parts[n-1] != "" {
			info := SnapshotInfo{Shop: strings.Join(parts[:n-2], nameSep), Time: t, Label: parts[n-1]}
			return info, info.Shop != ""
		}
	}
	return SnapshotInfo{}, false
}
