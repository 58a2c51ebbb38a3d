package transport

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/melih-ucgun/shopsnap/internal/core"
)

// BecomeFS reads over SFTP and performs MkdirAll and Rename through Run, so a
// transport that escalates commands also escalates these.
type BecomeFS struct {
	*SFTPFS
	Run func(ctx context.Context, cmd string) (string, error)
}

func (f *BecomeFS) MkdirAll(path string, perm os.FileMode) error {
	return f.run(core.Command("mkdir", "-p", "-m", fmt.Sprintf("%o", perm.Perm()), path))
}

func (f *BecomeFS) Rename(oldpath, newpath string) error {
	return f.run(core.Command("mv", oldpath, newpath))
}

func (f *BecomeFS) run(cmd string) error {
	out, err := f.Run(context.Background(), cmd)
	if err != nil {
		if out = strings.TrimSpace(out); out != "" {
			return fmt.Errorf("%s: %w: %s", cmd, err, out)
		}
		return fmt.Errorf("%s: %w", cmd, err)
	}
	return nil
}
