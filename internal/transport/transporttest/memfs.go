package transporttest

import (
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemFS is an in-memory core.FileSystem holding directories and empty files.
// Paths are slash separated and cleaned.
type MemFS struct {
	mu      sync.Mutex
	entries map[string]bool // path -> isDir
}

func NewMemFS() *MemFS {
	return &MemFS{entries: map[string]bool{"/": true}}
}

// AddDir creates p and its parents.
func (m *MemFS) AddDir(p string) {
	_ = m.MkdirAll(p, 0o755)
}

// AddFile creates a file at p, creating parents.
func (m *MemFS) AddFile(p string) {
	p = path.Clean(p)
	m.AddDir(path.Dir(p))
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[p] = false
}

// RemoveAll deletes p and everything below it.
func (m *MemFS) RemoveAll(p string) {
	p = path.Clean(p)
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.entries {
		if k == p || strings.HasPrefix(k, p+"/") {
			delete(m.entries, k)
		}
	}
}

// Paths returns every path below root (root excluded), sorted.
func (m *MemFS) Paths(root string) []string {
	root = path.Clean(root)
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for k := range m.entries {
		if strings.HasPrefix(k, strings.TrimSuffix(root, "/")+"/") {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func (m *MemFS) Stat(name string) (os.FileInfo, error) {
	name = path.Clean(name)
	m.mu.Lock()
	defer m.mu.Unlock()
	isDir, ok := m.entries[name]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return memInfo{name: path.Base(name), dir: isDir}, nil
}

func (m *MemFS) MkdirAll(p string, perm os.FileMode) error {
	p = path.Clean(p)
	m.mu.Lock()
	defer m.mu.Unlock()
	for cur := p; ; cur = path.Dir(cur) {
		if isDir, ok := m.entries[cur]; ok && !isDir {
			return &fs.PathError{Op: "mkdir", Path: cur, Err: fs.ErrExist}
		}
		m.entries[cur] = true
		if cur == "/" || cur == "." {
			break
		}
	}
	return nil
}

func (m *MemFS) Rename(oldpath, newpath string) error {
	oldpath, newpath = path.Clean(oldpath), path.Clean(newpath)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[oldpath]; !ok {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: fs.ErrNotExist}
	}
	if _, ok := m.entries[newpath]; ok {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: fs.ErrExist}
	}
	if isDir, ok := m.entries[path.Dir(newpath)]; !ok || !isDir {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: fs.ErrNotExist}
	}
	moved := map[string]bool{}
	for k, v := range m.entries {
		if k == oldpath || strings.HasPrefix(k, oldpath+"/") {
			moved[newpath+strings.TrimPrefix(k, oldpath)] = v
			delete(m.entries, k)
		}
	}
	for k, v := range moved {
		m.entries[k] = v
	}
	return nil
}

func (m *MemFS) ReadDir(name string) ([]os.FileInfo, error) {
	name = path.Clean(name)
	m.mu.Lock()
	defer m.mu.Unlock()
	isDir, ok := m.entries[name]
	if !ok {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}
	if !isDir {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrInvalid}
	}
	var infos []os.FileInfo
	for k, v := range m.entries {
		if k != name && path.Dir(k) == name {
			infos = append(infos, memInfo{name: path.Base(k), dir: v})
		}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })
	return infos, nil
}

type memInfo struct {
	name string
	dir  bool
}

func (i memInfo) Name() string { return i.name }
func (i memInfo) Size() int64  { return 0 }
func (i memInfo) Mode() fs.FileMode {
	if i.dir {
		return fs.ModeDir | 0o755
	}
	return 0o644
}
func (i memInfo) ModTime() time.Time { return time.Time{} }
func (i memInfo) IsDir() bool        { return i.dir }
func (i memInfo) Sys() any           { return nil }
