package fs

import (
	"context"
	"fmt"

	"github.com/aretw0/memlog/pkg/core"
)

// ReadRecords returns every record in file order. A missing store is empty.
func (r *Repository) ReadRecords(ctx context.Context) ([]core.Record, error) {
	content, err := readFile(r.config.RecordPath)
	if err != nil {
		return nil, err
	}
	return core.ParseRecords(content), nil
}

// AppendRecord adds rec to the end of the record store. The store is re-read
// inside the lock so concurrent appenders never lose each other's lines.
func (r *Repository) AppendRecord(ctx context.Context, rec core.Record) error {
	if rec.Hash == "" {
		return core.ErrEmptyHash
	}
	return r.mutate(ctx, r.config.RecordPath, func(current string) (string, bool, error) {
		for _, existing := range core.ParseRecords(current) {
			if existing.Hash == rec.Hash {
				return "", false, fmt.Errorf("%w: %s", core.ErrDuplicateHash, rec.Hash)
			}
		}
		if current != "" && current[len(current)-1] != '\n' {
			current += "\n"
		}
		r.logger.Debug("appending record", "hash", rec.Hash, "path", r.config.RecordPath)
		return current + rec.String() + "\n", true, nil
	})
}

// ReplaceRecords rewrites the whole record store.
func (r *Repository) ReplaceRecords(ctx context.Context, records []core.Record) error {
	return r.mutate(ctx, r.config.RecordPath, func(string) (string, bool, error) {
		return core.FormatRecords(records), true, nil
	})
}

// SyncRecords merges external into the local store under the record lock.
// Local records win hash conflicts.
func (r *Repository) SyncRecords(ctx context.Context, external string) ([]core.Record, error) {
	var merged []core.Record
	err := r.mutate(ctx, r.config.RecordPath, func(current string) (string, bool, error) {
		merged = core.MergeRecords(core.ParseRecords(current), core.ParseRecords(external))
		r.logger.Debug("merged records", "count", len(merged))
		return core.FormatRecords(merged), true, nil
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}
