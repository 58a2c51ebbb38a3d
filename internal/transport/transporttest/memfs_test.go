package transporttest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemFS_RenameMovesSubtree(t *testing.T) {
	fs := NewMemFS()
	fs.AddFile("/shops/shop1/docker-compose.yml")
	fs.AddDir("/trash")

	require.NoError(t, fs.Rename("/shops/shop1", "/trash/shop1__x"))

	_, err := fs.Stat("/shops/shop1")
	assert.Error(t, err)
	info, err := fs.Stat("/trash/shop1__x/docker-compose.yml")
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

func TestMemFS_RenameErrors(t *testing.T) {
	fs := NewMemFS()
	fs.AddDir("/a")
	fs.AddDir("/b")

	assert.Error(t, fs.Rename("/missing", "/c"), "source missing")
	assert.Error(t, fs.Rename("/a", "/b"), "target exists")
	assert.Error(t, fs.Rename("/a", "/nope/a"), "target parent missing")
}

func TestMemFS_ReadDir(t *testing.T) {
	fs := NewMemFS()
	fs.AddDir("/trash/b")
	fs.AddDir("/trash/a/deep")
	fs.AddFile("/trash/file")

	infos, err := fs.ReadDir("/trash")
	require.NoError(t, err)
	require.Len(t, infos, 3)
	assert.Equal(t, "a", infos[0].Name())
	assert.Equal(t, "b", infos[1].Name())
	assert.Equal(t, "file", infos[2].Name())
	assert.False(t, infos[2].IsDir())

	_, err = fs.ReadDir("/none")
	assert.Error(t, err)
}

func TestMockTransport(t *testing.T) {
	m := NewMockTransport()
	m.AddResponse("which btrfs", "/usr/bin/btrfs")
	m.AddError("btrfs subvolume delete /x", "ERROR", nil)

	out, err := m.Execute(context.Background(), "which btrfs")
	assert.NoError(t, err)
	assert.Equal(t, "/usr/bin/btrfs", out)

	out, err = m.Execute(context.Background(), "btrfs subvolume delete /x")
	assert.Error(t, err)
	assert.Equal(t, "ERROR", out)

	_, err = m.Execute(context.Background(), "unknown")
	assert.NoError(t, err)

	assert.True(t, m.Ran("which btrfs"))
	assert.Len(t, m.Commands, 3)
}
