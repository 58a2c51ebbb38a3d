// Package transporttest provides an in-memory filesystem and a canned-response
// transport for tests of code built on core.Transport.
package transporttest

import (
	"context"
	"fmt"
	"sync"

	"github.com/melih-ucgun/shopsnap/internal/core"
)

type mockResponse struct {
	out string
	err error
}

// MockTransport answers commands from a table of canned responses and keeps
// a log of everything it was asked to run. Unknown commands succeed with no output.
type MockTransport struct {
	mu        sync.Mutex
	responses map[string]mockResponse
	Commands  []string
	FS        *MemFS
}

func NewMockTransport() *MockTransport {
	return &MockTransport{
		responses: make(map[string]mockResponse),
		FS:        NewMemFS(),
	}
}

// AddResponse registers the output returned for cmd.
func (m *MockTransport) AddResponse(cmd, out string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[cmd] = mockResponse{out: out}
}

// AddError registers a failure for cmd.
func (m *MockTransport) AddError(cmd, out string, err error) {
	if err == nil {
		err = fmt.Errorf("exit status 1")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[cmd] = mockResponse{out: out, err: err}
}

func (m *MockTransport) Execute(ctx context.Context, cmd string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Commands = append(m.Commands, cmd)
	if r, ok := m.responses[cmd]; ok {
		return r.out, r.err
	}
	return "", nil
}

// Ran reports whether cmd was executed.
func (m *MockTransport) Ran(cmd string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.Commands {
		if c == cmd {
			return true
		}
	}
	return false
}

func (m *MockTransport) GetFileSystem() core.FileSystem {
	return m.FS
}

func (m *MockTransport) Close() error {
	return nil
}
