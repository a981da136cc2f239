package fs

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// GzipSuffix is appended to compacted backups.
const GzipSuffix = ".gz"

// compactPattern selects rotation backups and archived stores.
const compactPattern = "{*" + BackupSuffix + "," + ArchiveSubdir + "/*}"

// Compact gzips every backup in the archive directory whose modification
// time is older than olderThan, writing <name>.gz next to it. Existing .gz
// outputs are never overwritten. With remove the original is deleted after
// a successful compression. Backups are never live, so no lock is taken.
//
// Failures on individual files do not stop the sweep; they are joined into
// the returned error.
func (r *Repository) Compact(ctx context.Context, olderThan time.Duration, remove bool) ([]string, error) {
	dir := r.config.ArchiveDir
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	matches, err := doublestar.Glob(os.DirFS(dir), compactPattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("scan backups under %s: %w", dir, err)
	}

	cutoff := r.config.Now().Add(-olderThan)
	var compressed []string
	var errs []error
	for _, rel := range matches {
		if err := ctx.Err(); err != nil {
			return compressed, err
		}
		if strings.HasSuffix(rel, GzipSuffix) {
			continue
		}
		full := filepath.Join(dir, filepath.FromSlash(rel))
		info, err := os.Stat(full)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		out := full + GzipSuffix
		if _, err := os.Stat(out); err == nil {
			continue
		}
		if err := gzipFile(full, out); err != nil {
			errs = append(errs, fmt.Errorf("failed to compress %s: %w", rel, err))
			continue
		}
		if remove {
			if err := os.Remove(full); err != nil {
				errs = append(errs, err)
			}
		}
		r.logger.Debug("compressed backup", "path", full)
		compressed = append(compressed, out)
	}
	return compressed, errors.Join(errs...)
}

func gzipFile(src, dest string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Name = filepath.Base(src)
	if _, err := zw.Write(data); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return WriteFileAtomic(dest, buf.Bytes(), filePerm)
}
