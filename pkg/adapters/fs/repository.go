package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/memlog/pkg/core"
)

const (
	DefaultRecordFile   = "memory.log"
	DefaultSnapshotFile = "context.snapshot.md"
	DefaultArchiveDir   = "logs"
	filePerm            = 0o644
)

// Config holds the configuration for the filesystem repository.
type Config struct {
	RecordPath    string        // e.g. <root>/memory.log
	SnapshotPath  string        // e.g. <root>/context.snapshot.md
	ArchiveDir    string        // rotation backups; archive runs go to ArchiveDir/archive
	StaleAfter    time.Duration // lock staleness threshold
	RetryInterval time.Duration // lock poll interval
	Logger        *slog.Logger
	Now           func() time.Time // clock for backup names; nil means time.Now
}

// Repository implements core.Repository over two plain files.
type Repository struct {
	config Config
	locker *Locker
	logger *slog.Logger

	mu            sync.RWMutex
	watcherActive bool
	lastRotation  *time.Time
}

// NewRepository creates a new filesystem-backed repository. Paths are taken
// as given; nothing is created until the first write.
func NewRepository(config Config) *Repository {
	if config.Logger == nil {
		config.Logger = discardLogger()
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.ArchiveDir == "" {
		config.ArchiveDir = filepath.Join(filepath.Dir(config.RecordPath), DefaultArchiveDir)
	}
	return &Repository{
		config: config,
		locker: NewLocker(config.StaleAfter, config.RetryInterval, config.Logger),
		logger: config.Logger,
	}
}

// RecordPath returns the record store path.
func (r *Repository) RecordPath() string { return r.config.RecordPath }

// SnapshotPath returns the snapshot store path.
func (r *Repository) SnapshotPath() string { return r.config.SnapshotPath }

// ArchiveDir returns the backup directory.
func (r *Repository) ArchiveDir() string { return r.config.ArchiveDir }

// Locker returns the lock manager guarding the live stores.
func (r *Repository) Locker() *Locker { return r.locker }

func (r *Repository) pathFor(kind core.StoreKind) (string, error) {
	switch kind {
	case core.StoreRecords:
		return r.config.RecordPath, nil
	case core.StoreSnapshot:
		return r.config.SnapshotPath, nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrInvalidTarget, kind)
}

// readFile returns the content of path, or "" if it does not exist.
func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// mutate runs a read-modify-write of path inside its lock. fn receives the
// fresh content and returns the new content, or write=false to leave the file
// untouched.
func (r *Repository) mutate(ctx context.Context, path string, fn func(current string) (next string, write bool, err error)) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	return r.locker.WithLock(ctx, path, func() error {
		current, err := readFile(path)
		if err != nil {
			return err
		}
		next, write, err := fn(current)
		if err != nil || !write {
			return err
		}
		return WriteFileAtomic(path, []byte(next), filePerm)
	})
}

// WriteFile writes an arbitrary derived file (exports) under its own lock.
func (r *Repository) WriteFile(ctx context.Context, path string, data []byte) error {
	return r.mutate(ctx, path, func(string) (string, bool, error) {
		return string(data), true, nil
	})
}

var _ core.Repository = (*Repository)(nil)
var _ core.Archivable = (*Repository)(nil)
var _ core.Watchable = (*Repository)(nil)
var _ core.Exporter = (*Repository)(nil)
