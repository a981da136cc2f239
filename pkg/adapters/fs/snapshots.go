package fs

import (
	"context"

	"github.com/aretw0/memlog/pkg/core"
)

// ReadSnapshot parses the snapshot store. A missing store is empty.
func (r *Repository) ReadSnapshot(ctx context.Context) (core.Snapshot, error) {
	content, err := readFile(r.config.SnapshotPath)
	if err != nil {
		return core.Snapshot{}, err
	}
	return core.ParseSnapshot(content), nil
}

// NextID returns the id the next block would receive. The answer is only
// advisory; AppendSnapshot allocates under the lock.
func (r *Repository) NextID(ctx context.Context) (core.MemID, error) {
	content, err := readFile(r.config.SnapshotPath)
	if err != nil {
		return "", err
	}
	return core.NextID(content), nil
}

// AppendSnapshot allocates the next id and appends the block in one critical
// section, so two appenders can never receive the same id.
func (r *Repository) AppendSnapshot(ctx context.Context, e core.SnapshotEntry) (core.SnapshotEntry, error) {
	err := r.mutate(ctx, r.config.SnapshotPath, func(current string) (string, bool, error) {
		e.ID = core.NextID(current)
		e.Raw = ""
		block := e.Block()
		e.Raw = block[:len(block)-1]
		r.logger.Debug("appending snapshot block", "id", e.ID, "commit", e.Commit)
		return core.AppendBlock(current, e), true, nil
	})
	if err != nil {
		return core.SnapshotEntry{}, err
	}
	return e, nil
}

// ReplaceSnapshot rewrites the whole snapshot store.
func (r *Repository) ReplaceSnapshot(ctx context.Context, s core.Snapshot) error {
	return r.mutate(ctx, r.config.SnapshotPath, func(string) (string, bool, error) {
		return s.String(), true, nil
	})
}
