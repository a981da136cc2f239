package fs

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

// newTestRepo creates a repository in a fresh temp dir with a fixed clock
// and a fast lock poll.
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	dir := t.TempDir()
	return NewRepository(Config{
		RecordPath:    filepath.Join(dir, DefaultRecordFile),
		SnapshotPath:  filepath.Join(dir, DefaultSnapshotFile),
		RetryInterval: 5 * time.Millisecond,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now: func() time.Time {
			return time.Date(2025, 4, 5, 6, 7, 8, 9, time.UTC)
		},
	})
}

func TestNewRepository_Defaults(t *testing.T) {
	dir := t.TempDir()
	repo := NewRepository(Config{RecordPath: filepath.Join(dir, "m.log"), SnapshotPath: filepath.Join(dir, "s.md")})

	if got, want := repo.ArchiveDir(), filepath.Join(dir, DefaultArchiveDir); got != want {
		t.Errorf("ArchiveDir() = %q, want %q", got, want)
	}
	if repo.Locker().StaleAfter != DefaultStaleAfter {
		t.Errorf("StaleAfter = %v, want %v", repo.Locker().StaleAfter, DefaultStaleAfter)
	}
	if repo.Locker().RetryInterval != DefaultRetryInterval {
		t.Errorf("RetryInterval = %v, want %v", repo.Locker().RetryInterval, DefaultRetryInterval)
	}
	if repo.ComponentType() != "fs-repository" {
		t.Errorf("ComponentType() = %q", repo.ComponentType())
	}
}
