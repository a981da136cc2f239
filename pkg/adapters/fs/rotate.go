package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/aretw0/memlog/pkg/core"
)

// BackupSuffix ends every rotation backup name.
const BackupSuffix = ".bak"

// backupStamp is ISO-8601 basic format, safe in file names on every platform.
const backupStamp = "20060102T150405.000000000Z"

// RotateRecords trims the record store to its last limit lines after copying
// the full content to a timestamped backup. At or under limit it is a no-op.
func (r *Repository) RotateRecords(ctx context.Context, limit int, dryRun bool) (core.Rotation, error) {
	path := r.config.RecordPath
	rot := core.Rotation{Store: filepath.Base(path), Limit: limit, DryRun: dryRun}
	if limit < 0 {
		return rot, fmt.Errorf("rotation limit must not be negative: %d", limit)
	}
	err := r.mutate(ctx, path, func(current string) (string, bool, error) {
		records := core.ParseRecords(current)
		rot.Before, rot.After = len(records), len(records)
		if len(records) <= limit {
			return "", false, nil
		}
		rot.BackupPath = r.backupPath(path)
		if dryRun {
			return "", false, nil
		}
		if err := r.writeBackup(rot.BackupPath, current); err != nil {
			return "", false, err
		}
		rot.After, rot.Performed = limit, true
		return core.FormatRecords(records[len(records)-limit:]), true, nil
	})
	if err != nil {
		return rot, err
	}
	r.noteRotation(rot)
	return rot, nil
}

// RotateSnapshot trims the snapshot store to its last limit blocks, cutting
// only at headers. The preamble is kept.
func (r *Repository) RotateSnapshot(ctx context.Context, limit int, dryRun bool) (core.Rotation, error) {
	path := r.config.SnapshotPath
	rot := core.Rotation{Store: filepath.Base(path), Limit: limit, DryRun: dryRun}
	if limit < 0 {
		return rot, fmt.Errorf("rotation limit must not be negative: %d", limit)
	}
	err := r.mutate(ctx, path, func(current string) (string, bool, error) {
		snap := core.ParseSnapshot(current)
		rot.Before, rot.After = len(snap.Entries), len(snap.Entries)
		trimmed, cut := snap.Trim(limit)
		if !cut {
			return "", false, nil
		}
		rot.BackupPath = r.backupPath(path)
		if dryRun {
			return "", false, nil
		}
		if err := r.writeBackup(rot.BackupPath, current); err != nil {
			return "", false, err
		}
		rot.After, rot.Performed = len(trimmed.Entries), true
		return trimmed.String(), true, nil
	})
	if err != nil {
		return rot, err
	}
	r.noteRotation(rot)
	return rot, nil
}

// Backup copies a live store to a timestamped backup under its lock. A
// missing store yields an empty path and no error.
func (r *Repository) Backup(ctx context.Context, kind core.StoreKind) (string, error) {
	path, err := r.pathFor(kind)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	var backup string
	err = r.locker.WithLock(ctx, path, func() error {
		current, err := readFile(path)
		if err != nil {
			return err
		}
		backup = r.backupPath(path)
		return r.writeBackup(backup, current)
	})
	if err != nil {
		return "", err
	}
	return backup, nil
}

// backupPath returns <archive>/<store-name>.<timestamp>.bak, adding a counter
// when a backup with that name already exists.
func (r *Repository) backupPath(path string) string {
	base := filepath.Join(r.config.ArchiveDir, filepath.Base(path)+"."+r.config.Now().UTC().Format(backupStamp))
	return uniquePath(base, BackupSuffix)
}

func uniquePath(base, suffix string) string {
	candidate := base + suffix
	for i := 1; ; i++ {
		if _, err := os.Lstat(candidate); errors.Is(err, os.ErrNotExist) {
			return candidate
		}
		candidate = base + "-" + strconv.Itoa(i) + suffix
	}
}

func (r *Repository) writeBackup(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}
	if err := WriteFileAtomic(path, []byte(content), filePerm); err != nil {
		return fmt.Errorf("failed to write backup %s: %w", path, err)
	}
	r.logger.Debug("wrote backup", "path", path, "bytes", len(content))
	return nil
}

func (r *Repository) noteRotation(rot core.Rotation) {
	if !rot.Performed {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.config.Now()
	r.lastRotation = &now
}
