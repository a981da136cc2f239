package fs

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/memlog/pkg/core"
)

func TestRepository_AppendRecord(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	records, err := repo.ReadRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, records, "missing store reads as empty")

	first := core.Record{Hash: "a1", Summary: "one", Timestamp: "2025-01-01T00:00:00Z"}
	require.NoError(t, repo.AppendRecord(ctx, first))

	err = repo.AppendRecord(ctx, first)
	assert.ErrorIs(t, err, core.ErrDuplicateHash)

	err = repo.AppendRecord(ctx, core.Record{})
	assert.ErrorIs(t, err, core.ErrEmptyHash)

	data, err := os.ReadFile(repo.RecordPath())
	require.NoError(t, err)
	assert.Equal(t, "a1 | one |  | 2025-01-01T00:00:00Z\n", string(data))
}

func TestRepository_AppendRecordRepairsMissingNewline(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, os.WriteFile(repo.RecordPath(), []byte("old | x | | 2024-12-31"), 0o644))

	require.NoError(t, repo.AppendRecord(context.Background(), core.Record{Hash: "new", Summary: "y", Timestamp: "2025-01-01"}))

	records, err := repo.ReadRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "old | x | | 2024-12-31", records[0].Raw, "existing lines are kept verbatim")
}

func TestRepository_ConcurrentAppends(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := core.Record{Hash: fmt.Sprintf("h%02d", i), Summary: "s", Timestamp: "2025-01-01T00:00:00Z"}
			assert.NoError(t, repo.AppendRecord(ctx, rec))
			_, err := repo.AppendSnapshot(ctx, core.SnapshotEntry{Commit: rec.Hash, Summary: "s"})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	records, err := repo.ReadRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 20)

	snap, err := repo.ReadSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Entries, 20)
	seen := make(map[core.MemID]bool)
	for i, e := range snap.Entries {
		assert.Equal(t, core.FormatMemID(i+1), e.ID)
		assert.False(t, seen[e.ID], "duplicate id %s", e.ID)
		seen[e.ID] = true
	}
}

func TestRepository_SyncRecords(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	local := "b | local b | | 2025-01-02T00:00:00Z\n"
	require.NoError(t, os.WriteFile(repo.RecordPath(), []byte(local), 0o644))

	external := "a | theirs a | | 2025-01-01T00:00:00Z\nb | theirs b | | 2025-01-02T00:00:00Z\n"
	merged, err := repo.SyncRecords(ctx, external)
	require.NoError(t, err)
	require.Len(t, merged, 2)

	want := "a | theirs a | | 2025-01-01T00:00:00Z\nb | local b | | 2025-01-02T00:00:00Z\n"
	data, err := os.ReadFile(repo.RecordPath())
	require.NoError(t, err)
	assert.Equal(t, want, string(data))

	_, err = repo.SyncRecords(ctx, external)
	require.NoError(t, err)
	data, err = os.ReadFile(repo.RecordPath())
	require.NoError(t, err)
	assert.Equal(t, want, string(data), "a second sync changes nothing")
}

func TestRepository_AppendSnapshot(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(repo.SnapshotPath(), []byte("# Memory Snapshot\n\n### 2025-01-01 | mem-009\n- Commit SHA: x\n"), 0o644))

	next, err := repo.NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.MemID("mem-010"), next)

	e, err := repo.AppendSnapshot(ctx, core.SnapshotEntry{Commit: "y", Summary: "s", NextGoal: "n", Timestamp: "2025-01-02T00:00:00Z"})
	require.NoError(t, err)
	assert.Equal(t, core.MemID("mem-010"), e.ID)

	snap, err := repo.ReadSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Entries, 2)
	assert.Equal(t, e.Raw, snap.Entries[1].Raw)
	assert.Equal(t, "# Memory Snapshot", snap.Preamble)
}
