package system

import (
	"strings"

	"github.com/melih-ucgun/shopsnap/internal/core"
)

// Check is one probe result.
type Check struct {
	Name   string
	OK     bool
	Detail string
}

// Report collects the checks of a probe run.
type Report struct {
	Checks []Check
}

// OK reports whether every check passed.
func (r Report) OK() bool {
	for _, c := range r.Checks {
		if !c.OK {
			return false
		}
	}
	return true
}

// Failed returns the checks that did not pass.
func (r Report) Failed() []Check {
	var out []Check
	for _, c := range r.Checks {
		if !c.OK {
			out = append(out, c)
		}
	}
	return out
}

// Probe checks that the btrfs and docker binaries are installed and that
// every path sits on a btrfs filesystem.
func Probe(ctx *core.SystemContext, paths ...string) Report {
	var r Report
	r.Checks = append(r.Checks, binary(ctx, "btrfs"), binary(ctx, "docker"))
	for _, p := range paths {
		r.Checks = append(r.Checks, CheckFilesystem(ctx, p))
	}
	return r
}

func binary(ctx *core.SystemContext, name string) Check {
	out, err := ctx.Exec(core.Command("which", name))
	if err != nil {
		return Check{Name: name, Detail: "not found in PATH"}
	}
	return Check{Name: name, OK: true, Detail: strings.TrimSpace(out)}
}

// FSType returns the filesystem type of path as reported by stat.
func FSType(ctx *core.SystemContext, path string) (string, error) {
	out, err := ctx.Exec(core.Command("stat", "-f", "-c", "%T", path))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// CheckFilesystem verifies path is on btrfs.
func CheckFilesystem(ctx *core.SystemContext, path string) Check {
	c := Check{Name: path}
	fsType, err := FSType(ctx, path)
	switch {
	case err != nil:
		c.Detail = "cannot stat filesystem"
	case fsType != "btrfs":
		c.Detail = "filesystem is " + fsType + ", not btrfs"
	default:
		c.OK = true
		c.Detail = fsType
	}
	return c
}
