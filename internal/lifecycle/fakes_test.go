package lifecycle

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/pterm/pterm"

	"github.com/melih-ucgun/shopsnap/internal/adapters/snapshot"
	"github.com/melih-ucgun/shopsnap/internal/core"
	"github.com/melih-ucgun/shopsnap/internal/transport/transporttest"
)

func TestMain(m *testing.M) {
	pterm.DisableColor()
	os.Exit(m.Run())
}

var testNow = time.Date(2024, 5, 1, 10, 15, 0, 0, time.Local)

// fakeVolumes is a VolumeManager over a MemFS. Subvolumes are tracked by path.
type fakeVolumes struct {
	fs       *transporttest.MemFS
	nextID   uint64
	ids      map[string]uint64
	readonly map[string]bool
	fail     map[string]error // "<op> <path>" -> error
	calls    []string
}

func newFakeVolumes(fs *transporttest.MemFS) *fakeVolumes {
	return &fakeVolumes{
		fs:       fs,
		nextID:   256,
		ids:      map[string]uint64{},
		readonly: map[string]bool{},
		fail:     map[string]error{},
	}
}

func (f *fakeVolumes) failOn(op, p string) {
	f.fail[op+" "+p] = fmt.Errorf("%s %s: injected failure", op, p)
}

// addSubvolume registers an existing subvolume at p with the given ID.
func (f *fakeVolumes) addSubvolume(p string, id uint64) {
	f.fs.AddDir(p)
	f.ids[p] = id
}

func (f *fakeVolumes) Snapshot(ctx *core.SystemContext, src, dst string, readonly bool) error {
	f.calls = append(f.calls, fmt.Sprintf("snapshot %s %s ro=%t", src, dst, readonly))
	if err := f.fail["snapshot "+dst]; err != nil {
		return err
	}
	if !core.Exists(f.fs, src) {
		return fmt.Errorf("source %s missing", src)
	}
	if core.Exists(f.fs, dst) {
		return fmt.Errorf("target %s exists", dst)
	}
	if !core.IsDir(f.fs, path.Dir(dst)) {
		return fmt.Errorf("parent of %s missing", dst)
	}
	f.fs.AddDir(dst)
	for _, p := range f.fs.Paths(src) {
		target := dst + strings.TrimPrefix(p, src)
		if core.IsDir(f.fs, p) {
			f.fs.AddDir(target)
		} else {
			f.fs.AddFile(target)
		}
	}
	f.nextID++
	f.ids[dst] = f.nextID
	f.readonly[dst] = readonly
	return nil
}

func (f *fakeVolumes) Delete(ctx *core.SystemContext, p string) error {
	f.calls = append(f.calls, "delete "+p)
	if err := f.fail["delete "+p]; err != nil {
		return err
	}
	if !core.Exists(f.fs, p) {
		return fmt.Errorf("%s: no such subvolume", p)
	}
	f.fs.RemoveAll(p)
	for k := range f.ids {
		if k == p || strings.HasPrefix(k, p+"/") {
			delete(f.ids, k)
			delete(f.readonly, k)
		}
	}
	return nil
}

func (f *fakeVolumes) SetReadonly(ctx *core.SystemContext, p string, readonly bool) error {
	f.calls = append(f.calls, fmt.Sprintf("set-ro %s %t", p, readonly))
	if err := f.fail["set-ro "+p]; err != nil {
		return err
	}
	f.readonly[p] = readonly
	return nil
}

func (f *fakeVolumes) List(ctx *core.SystemContext, root string) ([]snapshot.Subvolume, error) {
	f.calls = append(f.calls, "list "+root)
	if err := f.fail["list "+root]; err != nil {
		return nil, err
	}
	var subs []snapshot.Subvolume
	for p, id := range f.ids {
		if strings.HasPrefix(p, root+"/") {
			subs = append(subs, snapshot.Subvolume{ID: id, Path: p})
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].ID < subs[j].ID })
	return subs, nil
}

// mutations returns the calls that change state.
func (f *fakeVolumes) mutations() []string {
	var out []string
	for _, c := range f.calls {
		if !strings.HasPrefix(c, "list ") {
			out = append(out, c)
		}
	}
	return out
}

// fakeContainers records stop/start calls. A shop is managed when it holds docker-compose.yml.
type fakeContainers struct {
	fs       *transporttest.MemFS
	calls    []string
	stopErr  error
	startErr error
}

func (f *fakeContainers) Manifest(ctx *core.SystemContext, dir string) (string, bool) {
	p := path.Join(dir, "docker-compose.yml")
	return p, core.Exists(f.fs, p)
}

func (f *fakeContainers) Stop(ctx *core.SystemContext, dir string) error {
	f.calls = append(f.calls, "stop "+dir)
	return f.stopErr
}

func (f *fakeContainers) Start(ctx *core.SystemContext, dir string) error {
	f.calls = append(f.calls, "start "+dir)
	return f.startErr
}

func (f *fakeContainers) count(prefix string) int {
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

type testEnv struct {
	ctx        *core.SystemContext
	fs         *transporttest.MemFS
	out        *bytes.Buffer
	volumes    *fakeVolumes
	containers *fakeContainers
}

func newTestEnv(t *testing.T, dryRun bool) *testEnv {
	t.Helper()
	tr := transporttest.NewMockTransport()
	ctx := core.NewSystemContext(dryRun, tr)
	buf := &bytes.Buffer{}
	ctx.Stdout = buf
	ctx.Stderr = buf
	ctx.Now = func() time.Time { return testNow }
	return &testEnv{
		ctx:        ctx,
		fs:         tr.FS,
		out:        buf,
		volumes:    newFakeVolumes(tr.FS),
		containers: &fakeContainers{fs: tr.FS},
	}
}

// addShop creates a shop directory with a data file and, optionally, a manifest.
func (e *testEnv) addShop(dir string, manifest bool) {
	e.volumes.addSubvolume(dir, 0)
	e.fs.AddFile(dir + "/data/db.sqlite")
	if manifest {
		e.fs.AddFile(dir + "/docker-compose.yml")
	}
}

func (e *testEnv) guard() *Guard {
	return NewGuard(e.containers)
}
