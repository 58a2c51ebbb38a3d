package transport

import (
	"fmt"
	"os"
	"sync"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// SFTPFS implements core.FileSystem on a remote host. The SFTP subsystem is
// opened on first use.
type SFTPFS struct {
	client *ssh.Client

	once sync.Once
	sftp *sftp.Client
	err  error
}

// NewSFTPFS wraps an already connected sftp client.
func NewSFTPFS(c *sftp.Client) *SFTPFS {
	fs := &SFTPFS{sftp: c}
	fs.once.Do(func() {})
	return fs
}

func (f *SFTPFS) conn() (*sftp.Client, error) {
	f.once.Do(func() {
		f.sftp, f.err = sftp.NewClient(f.client)
		if f.err != nil {
			f.err = fmt.Errorf("opening sftp session: %w", f.err)
		}
	})
	return f.sftp, f.err
}

func (f *SFTPFS) Stat(name string) (os.FileInfo, error) {
	c, err := f.conn()
	if err != nil {
		return nil, err
	}
	return c.Stat(name)
}

func (f *SFTPFS) MkdirAll(path string, perm os.FileMode) error {
	c, err := f.conn()
	if err != nil {
		return err
	}
	if err := c.MkdirAll(path); err != nil {
		return err
	}
	return c.Chmod(path, perm)
}

func (f *SFTPFS) Rename(oldpath, newpath string) error {
	c, err := f.conn()
	if err != nil {
		return err
	}
	return c.Rename(oldpath, newpath)
}

func (f *SFTPFS) ReadDir(name string) ([]os.FileInfo, error) {
	c, err := f.conn()
	if err != nil {
		return nil, err
	}
	return c.ReadDir(name)
}

func (f *SFTPFS) Close() error {
	if f.sftp != nil {
		return f.sftp.Close()
	}
	return nil
}
