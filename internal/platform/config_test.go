package platform

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	root := t.TempDir()

	cfg, err := LoadConfig(root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "memory.log"), cfg.RecordPath)
	assert.Equal(t, filepath.Join(root, "context.snapshot.md"), cfg.SnapshotPath)
	assert.Equal(t, filepath.Join(root, "logs"), cfg.ArchiveDir)
	assert.Equal(t, 60*time.Second, cfg.LockStale)
	assert.Equal(t, 50*time.Millisecond, cfg.LockRetry)
	assert.Equal(t, 200, cfg.RotateLimit)
	assert.Equal(t, 100, cfg.SnapshotLimit)
	assert.Equal(t, 7*24*time.Hour, cfg.ArchiveAge())
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	root := t.TempDir()
	file := "memory_path: journal/mem.log\nlock_stale: 2m\nmemory_rotate_limit: 50\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFile), []byte(file), 0o644))

	t.Setenv("MEM_ROTATE_LIMIT", "10")
	t.Setenv("SNAPSHOT_PATH", "/abs/snap.md")

	cfg, err := LoadConfig(root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "journal", "mem.log"), cfg.RecordPath)
	assert.Equal(t, "/abs/snap.md", cfg.SnapshotPath)
	assert.Equal(t, 2*time.Minute, cfg.LockStale)
	assert.Equal(t, 10, cfg.RotateLimit, "environment overrides the file")
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Run("Bad YAML", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFile), []byte("lock_stale: [nope"), 0o644))
		_, err := LoadConfig(root)
		assert.Error(t, err)
	})

	t.Run("Bad Env", func(t *testing.T) {
		t.Setenv("MEM_LOCK_STALE", "soon")
		_, err := LoadConfig(t.TempDir())
		assert.Error(t, err)
	})

	t.Run("Same Paths", func(t *testing.T) {
		t.Setenv("MEM_PATH", "one.log")
		t.Setenv("SNAPSHOT_PATH", "one.log")
		_, err := LoadConfig(t.TempDir())
		assert.ErrorContains(t, err, "must differ")
	})
}
