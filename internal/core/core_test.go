package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellQuote(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "Plain path", in: "/mnt/btrfs/shops/shop1", want: "/mnt/btrfs/shops/shop1"},
		{name: "Empty", in: "", want: "''"},
		{name: "Spaces", in: "/mnt/my shop", want: "'/mnt/my shop'"},
		{name: "Single quote", in: "it's", want: `'it'\''s'`},
		{name: "Shell metachar", in: "a;rm -rf /", want: "'a;rm -rf /'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShellQuote(tt.in))
		})
	}
}

func TestCommand(t *testing.T) {
	got := Command("btrfs", "subvolume", "snapshot", "-r", "/data/shop 1", "/snap/x")
	assert.Equal(t, "btrfs subvolume snapshot -r '/data/shop 1' /snap/x", got)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitOK},
		{name: "usage", err: Usagef("need %d args", 2), want: ExitUsage},
		{name: "precondition", err: Preconditionf("missing %s", "/x"), want: ExitUsage},
		{name: "operation", err: OpFailed("delete", "/x", errors.New("boom")), want: ExitOperation},
		{name: "wrapped operation", err: fmt.Errorf("restore: %w", OpFailed("snapshot", "/x", errors.New("boom"))), want: ExitOperation},
		{name: "plain error", err: errors.New("unknown flag"), want: ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestOperationErrorUnwrap(t *testing.T) {
	cause := errors.New("exit status 1")
	err := OpFailed("snapshot", "/snap/a", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "snapshot /snap/a: exit status 1", err.Error())
}

func TestSummary(t *testing.T) {
	var s Summary
	s.Add(SuccessChange("/a", "deleted"))
	s.Add(Failure("/b", errors.New("busy"), "delete failed"))
	s.Add(SuccessChange("/c", "deleted"))

	assert.Equal(t, 2, s.Succeeded())
	assert.Equal(t, 1, s.Failed())
	assert.Len(t, s.Failures(), 1)
	assert.Equal(t, "/b", s.Failures()[0].Target)
	assert.Equal(t, "2 succeeded, 1 failed", s.String())
}

type filterEnv struct {
	ID   uint64
	Shop string
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name      string
		condition string
		env       filterEnv
		want      bool
		wantErr   bool
	}{
		{name: "Empty matches", condition: "", env: filterEnv{ID: 1}, want: true},
		{name: "Shop match", condition: `Shop == "shop1"`, env: filterEnv{Shop: "shop1"}, want: true},
		{name: "Shop mismatch", condition: `Shop == "shop1"`, env: filterEnv{Shop: "shop2"}, want: false},
		{name: "Numeric", condition: "ID < 300", env: filterEnv{ID: 257}, want: true},
		{name: "Unknown field", condition: "Nope == 1", env: filterEnv{}, wantErr: true},
		{name: "Non boolean", condition: "ID + 1", env: filterEnv{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Unknown fields and non-boolean results fail at compile time.
			f, err := CompileFilter(tt.condition, filterEnv{})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			got, err := f.Match(tt.env)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
