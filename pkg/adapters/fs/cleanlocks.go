package fs

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultLockTTL is the age after which CleanLocks removes a sentinel.
const DefaultLockTTL = 5 * time.Minute

// CleanLocks removes every *.lock sentinel under root older than ttl and
// returns the removed paths. Git's own lock files are left alone.
func CleanLocks(root string, ttl time.Duration, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = discardLogger()
	}
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}

	matches, err := doublestar.Glob(os.DirFS(root), "**/*"+LockSuffix, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("scan locks under %s: %w", root, err)
	}

	var removed []string
	for _, rel := range matches {
		if rel == ".git" || strings.HasPrefix(rel, ".git/") {
			continue
		}
		full := filepath.Join(root, filepath.FromSlash(rel))
		info, err := os.Stat(full)
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) <= ttl {
			continue
		}
		if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Debug("failed to remove lock", "path", full, "error", err)
			continue
		}
		logger.Debug("removed stale lock", "path", full)
		removed = append(removed, full)
	}
	return removed, nil
}
