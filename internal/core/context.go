package core

import (
	"context"
	"io"
	"os"
	"time"
)

// SystemContext holds the runtime context of a single shopsnap invocation.
// It wraps the standard context and carries the transport, filesystem,
// clock and output used by every adapter and workflow.
type SystemContext struct {
	context.Context

	// Host is the name of the machine operations run on ("localhost" or a configured host).
	Host string

	// FS is the filesystem of Host. For remote hosts it is backed by SFTP.
	FS FileSystem

	// Transport executes commands on Host.
	Transport Transport

	// DryRun prints destructive actions instead of executing them.
	DryRun bool

	// Now is the clock used for snapshot and trash names.
	Now func() time.Time

	Stdout io.Writer
	Stderr io.Writer
}

// NewSystemContext builds a context for the given transport. A nil transport
// falls back to the local machine.
func NewSystemContext(dryRun bool, tr Transport) *SystemContext {
	if tr == nil {
		tr = NewLocalTransport()
	}
	fs := tr.GetFileSystem()
	if fs == nil {
		fs = &RealFS{}
	}
	return &SystemContext{
		Context:   context.Background(),
		Host:      "localhost",
		FS:        fs,
		Transport: tr,
		DryRun:    dryRun,
		Now:       time.Now,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}

// Exec runs cmd on the context's transport.
func (c *SystemContext) Exec(cmd string) (string, error) {
	return c.Transport.Execute(c.Context, cmd)
}

// Clock returns the current time, using Now when set.
func (c *SystemContext) Clock() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
