package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"syscall"
)

const (
	// TempFileSuffix marks the hidden temporary files of atomic writes.
	TempFileSuffix = ".tmp-"
)

// renameFile is swapped in tests to simulate a crash before the rename.
var renameFile = os.Rename

// WriteFileAtomic replaces filename with data. A crash at any point leaves
// either the old content or the new content in place, never a mix.
//
// The data goes to a hidden temp file in the same directory (so the rename
// stays on one filesystem), is synced, renamed over filename, and finally the
// directory itself is synced so the rename survives a crash.
func WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)

	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(filename)+TempFileSuffix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmpFile.Name()
	renamed := false
	defer func() {
		if !renamed {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	if err := renameFile(tmpName, filename); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}
	renamed = true

	return syncDir(dir)
}

// syncDir flushes directory metadata so a completed rename is durable.
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("failed to open directory %s: %w", dir, err)
	}
	defer d.Close()
	if err := d.Sync(); err != nil && !isSyncUnsupported(err) {
		return fmt.Errorf("failed to sync directory %s: %w", dir, err)
	}
	return nil
}

// Directories cannot be fsynced on Windows and on some network filesystems.
func isSyncUnsupported(err error) bool {
	return runtime.GOOS == "windows" || errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTSUP)
}
