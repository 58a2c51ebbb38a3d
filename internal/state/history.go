package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Transaction statuses.
const (
	StatusSuccess   = "success"
	StatusFailed    = "failed"
	StatusPartial   = "partial"
	StatusCancelled = "cancelled"
)

// TransactionChange represents a single change within a transaction
type TransactionChange struct {
	Action string `json:"action"`           // snapshot, trash, delete, set-writable, stop, start
	Target string `json:"target"`           // subvolume or shop path
	Source string `json:"source,omitempty"` // snapshot source, if any
	Error  string `json:"error,omitempty"`
}

// Transaction represents one lifecycle command run
type Transaction struct {
	ID        string              `json:"id"`
	Timestamp string              `json:"timestamp"`
	Operation string              `json:"operation"` // create, restore, trash-clean, prune
	Host      string              `json:"host,omitempty"`
	Status    string              `json:"status"`
	Changes   []TransactionChange `json:"changes"`
}

// HistoryManager manages the persistent history of transactions.
// An empty HistoryFile disables the journal.
type HistoryManager struct {
	HistoryFile string
}

func NewHistoryManager(file string) *HistoryManager {
	return &HistoryManager{HistoryFile: file}
}

// Enabled reports whether transactions are persisted.
func (hm *HistoryManager) Enabled() bool {
	return hm != nil && hm.HistoryFile != ""
}

// NewTransaction starts a transaction for operation at t.
func NewTransaction(operation, host string, t time.Time) Transaction {
	return Transaction{
		ID:        GenerateID(t),
		Timestamp: t.Format(time.RFC3339),
		Operation: operation,
		Host:      host,
		Status:    StatusSuccess,
	}
}

// Record appends a change, taking the error message from err when set.
func (tx *Transaction) Record(action, target, source string, err error) {
	c := TransactionChange{Action: action, Target: target, Source: source}
	if err != nil {
		c.Error = err.Error()
	}
	tx.Changes = append(tx.Changes, c)
}

// AddTransaction appends a new transaction to the history
func (hm *HistoryManager) AddTransaction(tx Transaction) error {
	if !hm.Enabled() {
		return nil
	}
	history, err := hm.LoadHistory()
	if err != nil {
		return err
	}
	// Appended on disk, reversed for display.
	history = append(history, tx)
	return hm.saveHistory(history)
}

// LoadHistory reads the history file. A missing file is an empty history.
func (hm *HistoryManager) LoadHistory() ([]Transaction, error) {
	if !hm.Enabled() {
		return []Transaction{}, nil
	}
	data, err := os.ReadFile(hm.HistoryFile)
	if errors.Is(err, fs.ErrNotExist) {
		return []Transaction{}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return []Transaction{}, nil
	}

	var history []Transaction
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("corrupt history file %s: %w", hm.HistoryFile, err)
	}
	return history, nil
}

func (hm *HistoryManager) saveHistory(history []Transaction) error {
	if err := os.MkdirAll(filepath.Dir(hm.HistoryFile), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return err
	}
	tmp := hm.HistoryFile + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, hm.HistoryFile)
}

// GenerateID creates a run ID from t.
func GenerateID(t time.Time) string {
	return fmt.Sprintf("run-%s", t.Format("20060102-150405.000"))
}
