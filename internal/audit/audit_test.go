package audit

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLog(t *testing.T) *Log {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.db")
	l, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestOpenCreatesDatabaseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "audit.db")

	l, err := Open(path)
	require.NoError(t, err)
	defer l.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestRecordAndTail(t *testing.T) {
	l := openTestLog(t)
	ctx := context.Background()

	require.NoError(t, l.Record(ctx, "corr-1", "git log", true, "read-only git subcommand"))
	require.NoError(t, l.Record(ctx, "corr-2", "rm -rf /", false, "utility rm is not in the allowlist"))

	entries, err := l.Tail(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "rm -rf /", entries[0].Command)
	assert.False(t, entries[0].Allow)
	assert.Equal(t, "git log", entries[1].Command)
	assert.True(t, entries[1].Allow)
}

func TestTailRespectsLimit(t *testing.T) {
	l := openTestLog(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Record(ctx, "corr", "echo hi", true, "flat allowlist"))
	}

	entries, err := l.Tail(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestTailEmptyLog(t *testing.T) {
	l := openTestLog(t)
	entries, err := l.Tail(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
