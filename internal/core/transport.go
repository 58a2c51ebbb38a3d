package core

import (
	"context"
	"io"
	"strings"
)

// Transport is the interface for executing commands on a host
// across different communication channels (local, SSH, etc.)
type Transport interface {
	io.Closer

	// Execute runs a command line and returns its combined output
	Execute(ctx context.Context, cmd string) (string, error)

	// GetFileSystem returns the FileSystem abstraction for this transport
	GetFileSystem() FileSystem
}

// Command joins name and args into a single shell command line,
// quoting every argument that needs it.
func Command(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, a := range args {
		parts = append(parts, ShellQuote(a))
	}
	return strings.Join(parts, " ")
}

// ShellQuote returns s quoted for POSIX sh. Plain words are returned as is.
func ShellQuote(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, r := range s {
		if !isShellSafe(r) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func isShellSafe(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune("-_./=:,+@%", r)
}
