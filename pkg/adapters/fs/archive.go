package fs

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/memlog/pkg/core"
)

// ArchiveSubdir holds the stores moved away by Archive.
const ArchiveSubdir = "archive"

// Archive moves both live stores to <archive>/archive/<store-name>.<timestamp>,
// each under its own lock, leaving the live stores absent. Stores that do not
// exist are skipped. The destination paths are returned.
func (r *Repository) Archive(ctx context.Context) ([]string, error) {
	dir := filepath.Join(r.config.ArchiveDir, ArchiveSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	stamp := r.config.Now().UTC().Format(backupStamp)

	var moved []string
	for _, kind := range []core.StoreKind{core.StoreRecords, core.StoreSnapshot} {
		src, _ := r.pathFor(kind)
		if _, err := os.Stat(src); errors.Is(err, os.ErrNotExist) {
			r.logger.Debug("store not found, skipping archive", "path", src)
			continue
		}
		dest := uniquePath(filepath.Join(dir, filepath.Base(src)+"."+stamp), "")
		err := r.locker.WithLock(ctx, src, func() error {
			return moveFile(src, dest)
		})
		if err != nil {
			return moved, fmt.Errorf("archive %s: %w", src, err)
		}
		r.logger.Debug("archived store", "from", src, "to", dest)
		moved = append(moved, dest)
	}
	return moved, nil
}

// moveFile renames src to dest, copying when they live on different devices.
func moveFile(src, dest string) error {
	err := os.Rename(src, dest)
	if err == nil {
		return syncDir(filepath.Dir(dest))
	}
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) {
		return err
	}
	data, readErr := os.ReadFile(src)
	if readErr != nil {
		return err
	}
	if err := WriteFileAtomic(dest, data, filePerm); err != nil {
		return err
	}
	return os.Remove(src)
}

// Restore overwrites a live store with the content of backup. Gzipped
// backups are decompressed.
func (r *Repository) Restore(ctx context.Context, backup string, kind core.StoreKind) error {
	path, err := r.pathFor(kind)
	if err != nil {
		return err
	}
	data, err := readBackup(backup)
	if err != nil {
		return err
	}
	return r.mutate(ctx, path, func(string) (string, bool, error) {
		r.logger.Debug("restoring store", "path", path, "from", backup)
		return string(data), true, nil
	})
}

func readBackup(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("backup file not found: %w", err)
	}
	if !strings.HasSuffix(path, GzipSuffix) {
		return data, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open gzip backup %s: %w", path, err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
	}
	return out, nil
}
