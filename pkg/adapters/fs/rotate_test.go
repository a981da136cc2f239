package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/memlog/pkg/core"
)

func writeRecords(t *testing.T, repo *Repository, n int) string {
	t.Helper()
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "h%03d | entry %d | | 2025-01-01T00:00:%02dZ\n", i, i, i%60)
	}
	require.NoError(t, os.WriteFile(repo.RecordPath(), []byte(b.String()), 0o644))
	return b.String()
}

func TestRotateRecords(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	original := writeRecords(t, repo, 5)

	rot, err := repo.RotateRecords(ctx, 3, false)
	require.NoError(t, err)
	assert.True(t, rot.Performed)
	assert.Equal(t, 5, rot.Before)
	assert.Equal(t, 3, rot.After)

	want := filepath.Join(repo.ArchiveDir(), "memory.log.20250405T060708.000000009Z.bak")
	assert.Equal(t, want, rot.BackupPath)
	backup, err := os.ReadFile(rot.BackupPath)
	require.NoError(t, err)
	assert.Equal(t, original, string(backup), "backup holds the full pre-rotation content")

	records, err := repo.ReadRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "h003", records[0].Hash)

	state := repo.State().(RepositoryState)
	assert.NotNil(t, state.LastRotation)
}

func TestRotateRecords_NoOp(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	original := writeRecords(t, repo, 3)

	rot, err := repo.RotateRecords(ctx, 3, false)
	require.NoError(t, err)
	assert.False(t, rot.Performed)
	assert.Equal(t, "memory.log already within limit", rot.String())

	data, err := os.ReadFile(repo.RecordPath())
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
	assert.NoDirExists(t, repo.ArchiveDir())
}

func TestRotateRecords_DryRun(t *testing.T) {
	repo := newTestRepo(t)
	original := writeRecords(t, repo, 4)

	rot, err := repo.RotateRecords(context.Background(), 2, true)
	require.NoError(t, err)
	assert.False(t, rot.Performed)
	assert.True(t, strings.HasPrefix(rot.String(), "[dry-run] would backup to "))

	data, err := os.ReadFile(repo.RecordPath())
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
	assert.NoFileExists(t, rot.BackupPath)
}

func TestRotateRecords_UniqueBackupNames(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	writeRecords(t, repo, 3)
	first, err := repo.RotateRecords(ctx, 1, false)
	require.NoError(t, err)
	writeRecords(t, repo, 3)
	second, err := repo.RotateRecords(ctx, 1, false)
	require.NoError(t, err)

	assert.NotEqual(t, first.BackupPath, second.BackupPath)
	assert.True(t, strings.HasSuffix(second.BackupPath, "-1"+BackupSuffix))
}

func TestRotateSnapshot_CutsAtHeaders(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		_, err := repo.AppendSnapshot(ctx, core.SnapshotEntry{Commit: fmt.Sprintf("c%d", i), Summary: "multi\nline", Timestamp: "2025-01-01"})
		require.NoError(t, err)
	}
	content, err := os.ReadFile(repo.SnapshotPath())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(repo.SnapshotPath(), append([]byte("# Memory Snapshot\n\n"), content...), 0o644))

	rot, err := repo.RotateSnapshot(ctx, 2, false)
	require.NoError(t, err)
	assert.True(t, rot.Performed)

	snap, err := repo.ReadSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Entries, 2)
	assert.Equal(t, core.MemID("mem-003"), snap.Entries[0].ID)
	assert.Equal(t, "# Memory Snapshot", snap.Preamble)
	for _, e := range snap.Entries {
		assert.True(t, strings.HasPrefix(e.Raw, core.HeaderPrefix), "block starts at a header: %q", e.Raw)
	}

	next, err := repo.NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.MemID("mem-005"), next, "ids keep counting after rotation")
}
