package core

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"
)

// Runner abstracts process execution so tests can replace it.
type Runner interface {
	CombinedOutput(cmd *exec.Cmd) ([]byte, error)
}

// RealRunner executes commands for real.
type RealRunner struct{}

func (r *RealRunner) CombinedOutput(cmd *exec.Cmd) ([]byte, error) {
	return cmd.CombinedOutput()
}

// CommandRunner is the process runner used by LocalTransport.
var CommandRunner Runner = &RealRunner{}

// RunCommand runs name with args through CommandRunner and returns the trimmed output.
func RunCommand(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := CommandRunner.CombinedOutput(cmd)
	return strings.TrimSpace(string(out)), err
}

// LocalTransport implements Transport for the local machine
type LocalTransport struct{}

func NewLocalTransport() *LocalTransport {
	return &LocalTransport{}
}

func (t *LocalTransport) Close() error {
	return nil
}

func (t *LocalTransport) Execute(ctx context.Context, cmd string) (string, error) {
	// Wrapped in a shell so command lines behave the same as over SSH.
	out, err := RunCommand(ctx, "sh", "-c", cmd)
	if err != nil {
		slog.Debug("local command failed", "cmd", cmd, "err", err, "out", out)
	}
	return out, err
}

func (t *LocalTransport) GetFileSystem() FileSystem {
	return &RealFS{}
}
