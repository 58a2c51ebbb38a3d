package snapshot

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
)

// Matches lines like
//
//	ID 257 gen 12 top level 5 path snapshots/shop1__2024-05-01-101500
//
// including the optional cgen/parent/otime/uuid columns newer btrfs prints.
var listLine = regexp.MustCompile(`^ID\s+(\d+)\s.*?\btop level\s+(\d+)\s.*?\bpath\s(.+)$`)

// ParseSubvolumeList parses the output of "btrfs subvolume list".
// Lines that are not subvolume entries are skipped.
func ParseSubvolumeList(out string) []Subvolume {
	var subs []Subvolume
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		m := listLine.FindStringSubmatch(strings.TrimLeft(line, " "))
		if m == nil {
			continue
		}
		id, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil {
			continue
		}
		top, _ := strconv.ParseUint(m[2], 10, 64)
		subs = append(subs, Subvolume{
			ID:       id,
			TopLevel: top,
			RelPath:  strings.TrimPrefix(m[3], "<FS_TREE>/"),
		})
	}
	return subs
}
