package transport

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/sftp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pipeConn struct {
	io.Reader
	io.WriteCloser
}

// newPipeSFTPFS connects an SFTPFS to an in-process sftp server serving the local filesystem.
func newPipeSFTPFS(t *testing.T) *SFTPFS {
	t.Helper()
	clientToServerR, clientToServerW := io.Pipe()
	serverToClientR, serverToClientW := io.Pipe()

	server, err := sftp.NewServer(pipeConn{clientToServerR, serverToClientW})
	require.NoError(t, err)
	go server.Serve()

	client, err := sftp.NewClientPipe(serverToClientR, clientToServerW)
	require.NoError(t, err)

	fs := NewSFTPFS(client)
	t.Cleanup(func() {
		// The server side goes first so the client's reader sees EOF.
		server.Close()
		clientToServerW.Close()
		fs.Close()
	})
	return fs
}

func TestSFTPFS_Operations(t *testing.T) {
	fs := newPipeSFTPFS(t)
	root := t.TempDir()

	trash := filepath.Join(root, "trash", "nested")
	require.NoError(t, fs.MkdirAll(trash, 0o755))

	info, err := fs.Stat(trash)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	shop := filepath.Join(root, "shop1")
	require.NoError(t, os.Mkdir(shop, 0o755))
	target := filepath.Join(root, "trash", "shop1__2024-01-01-000000")
	require.NoError(t, fs.Rename(shop, target))

	_, err = os.Stat(shop)
	assert.True(t, os.IsNotExist(err))

	entries, err := fs.ReadDir(filepath.Join(root, "trash"))
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"nested", "shop1__2024-01-01-000000"}, names)
}
