package state

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryManager_AddAndLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nested", "history.json")
	hm := NewHistoryManager(file)

	history, err := hm.LoadHistory()
	require.NoError(t, err)
	assert.Empty(t, history)

	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	tx := NewTransaction("create", "localhost", now)
	tx.Record("snapshot", "/snap/shop__2024-05-01-100000", "/srv/shop", nil)
	require.NoError(t, hm.AddTransaction(tx))

	tx2 := NewTransaction("prune", "localhost", now.Add(time.Minute))
	tx2.Status = StatusPartial
	tx2.Record("delete", "/snap/a", "", errors.New("boom"))
	require.NoError(t, hm.AddTransaction(tx2))

	history, err = hm.LoadHistory()
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "create", history[0].Operation)
	assert.Equal(t, "2024-05-01T10:00:00Z", history[0].Timestamp)
	assert.Equal(t, "/srv/shop", history[0].Changes[0].Source)
	assert.Equal(t, StatusPartial, history[1].Status)
	assert.Equal(t, "boom", history[1].Changes[0].Error)

	assert.NotEqual(t, history[0].ID, history[1].ID)
}

func TestHistoryManager_Disabled(t *testing.T) {
	hm := NewHistoryManager("")
	assert.False(t, hm.Enabled())
	assert.NoError(t, hm.AddTransaction(NewTransaction("create", "", time.Now())))
	history, err := hm.LoadHistory()
	assert.NoError(t, err)
	assert.Empty(t, history)
}

func TestHistoryManager_Corrupt(t *testing.T) {
	file := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(file, []byte("{not json"), 0o644))

	hm := NewHistoryManager(file)
	_, err := hm.LoadHistory()
	assert.ErrorContains(t, err, "corrupt history file")
	assert.Error(t, hm.AddTransaction(NewTransaction("create", "", time.Now())))
}

func TestGenerateID(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 250_000_000, time.UTC)
	assert.Equal(t, "run-20240501-100000.250", GenerateID(ts))
}
