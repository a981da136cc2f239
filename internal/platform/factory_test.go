package platform

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/memlog/pkg/adapters/fs"
	"github.com/aretw0/memlog/pkg/core"
)

func TestNew_Gitless(t *testing.T) {
	root := t.TempDir()
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	svc, err := New(root, WithGitless(true), WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)
	assert.Nil(t, svc.Oracle())

	repo, ok := svc.Repository().(*fs.Repository)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, fs.DefaultRecordFile), repo.RecordPath())

	rec, entry, err := svc.Append(context.Background(), core.AppendRequest{Hash: "abc1234", Summary: "first"})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01T12:00:00Z", rec.Timestamp)
	assert.Equal(t, core.MemID("mem-001"), entry.ID)

	data, err := os.ReadFile(repo.RecordPath())
	require.NoError(t, err)
	assert.Equal(t, "abc1234 | first |  | 2025-03-01T12:00:00Z\n", string(data))
}

func TestNew_Overrides(t *testing.T) {
	root := t.TempDir()

	svc, err := New(root,
		WithGitless(true),
		WithRecordPath("nested/records.log"),
		WithSnapshotPath(filepath.Join(root, "snap.md")),
		WithArchiveDir("backups"),
		WithLockStale(time.Second),
	)
	require.NoError(t, err)

	repo := svc.Repository().(*fs.Repository)
	assert.Equal(t, filepath.Join(root, "nested", "records.log"), repo.RecordPath())
	assert.Equal(t, filepath.Join(root, "snap.md"), repo.SnapshotPath())
	assert.Equal(t, filepath.Join(root, "backups"), repo.ArchiveDir())
	assert.Equal(t, time.Second, repo.Locker().StaleAfter)
}

func TestNew_InvalidOverride(t *testing.T) {
	_, err := New(t.TempDir(), WithGitless(true), WithLockStale(0))
	assert.Error(t, err)
}
