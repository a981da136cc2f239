package core

import (
	"context"
	"time"
)

// Repository is the contract for the two paired live stores.
// Every mutation is serialized per store by the implementation.
type Repository interface {
	// ReadRecords returns every record in file order.
	ReadRecords(ctx context.Context) ([]Record, error)

	// AppendRecord adds one record to the end of the record store.
	AppendRecord(ctx context.Context, r Record) error

	// ReplaceRecords rewrites the whole record store.
	ReplaceRecords(ctx context.Context, records []Record) error

	// SyncRecords merges an external record store serialization into the
	// local one and returns the merged result.
	SyncRecords(ctx context.Context, external string) ([]Record, error)

	// RotateRecords trims the record store to its last limit entries.
	RotateRecords(ctx context.Context, limit int, dryRun bool) (Rotation, error)

	// ReadSnapshot returns the parsed snapshot store.
	ReadSnapshot(ctx context.Context) (Snapshot, error)

	// NextID returns the id the next appended block would receive.
	NextID(ctx context.Context) (MemID, error)

	// AppendSnapshot allocates the next id for e and appends it, in one
	// critical section. The stored entry is returned.
	AppendSnapshot(ctx context.Context, e SnapshotEntry) (SnapshotEntry, error)

	// ReplaceSnapshot rewrites the whole snapshot store.
	ReplaceSnapshot(ctx context.Context, s Snapshot) error

	// RotateSnapshot trims the snapshot store to its last limit blocks.
	RotateSnapshot(ctx context.Context, limit int, dryRun bool) (Rotation, error)
}

// Archivable is implemented by repositories that keep cold copies of the
// live stores.
type Archivable interface {
	// Backup copies a live store to a timestamped backup and returns its path.
	// A missing store yields an empty path.
	Backup(ctx context.Context, kind StoreKind) (string, error)

	// Archive moves both live stores away, leaving them absent.
	Archive(ctx context.Context) ([]string, error)

	// Restore overwrites a live store from a backup file.
	Restore(ctx context.Context, backup string, kind StoreKind) error

	// Compact gzips backups older than olderThan.
	Compact(ctx context.Context, olderThan time.Duration, remove bool) ([]string, error)
}

// Watchable is implemented by repositories that can report appends as they
// happen.
type Watchable interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// Exporter is implemented by repositories that can write derived files under
// the same locking discipline as the live stores.
type Exporter interface {
	WriteFile(ctx context.Context, path string, data []byte) error
}
