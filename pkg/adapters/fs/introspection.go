package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	RecordPath    string        `json:"record_path"`
	SnapshotPath  string        `json:"snapshot_path"`
	ArchiveDir    string        `json:"archive_dir"`
	LockStale     time.Duration `json:"lock_stale"`
	LockRetry     time.Duration `json:"lock_retry"`
	WatcherActive bool          `json:"watcher_active"`
	LastRotation  *time.Time    `json:"last_rotation,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RepositoryState{
		RecordPath:    r.config.RecordPath,
		SnapshotPath:  r.config.SnapshotPath,
		ArchiveDir:    r.config.ArchiveDir,
		LockStale:     r.locker.StaleAfter,
		LockRetry:     r.locker.RetryInterval,
		WatcherActive: r.watcherActive,
		LastRotation:  r.lastRotation,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "fs-repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)

func (r *Repository) setWatcherActive(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watcherActive = active
}
