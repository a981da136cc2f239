package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/memlog/pkg/adapters/fs"
)

// Config is the resolved configuration of one project. Values come from
// the defaults, then ConfigFile under the root, then the environment.
type Config struct {
	Root          string        `yaml:"-" json:"root"`
	RecordPath    string        `yaml:"memory_path" env:"MEM_PATH" json:"memory_path"`
	SnapshotPath  string        `yaml:"snapshot_path" env:"SNAPSHOT_PATH" json:"snapshot_path"`
	ArchiveDir    string        `yaml:"archive_dir" env:"MEM_ARCHIVE_DIR" json:"archive_dir"`
	LockStale     time.Duration `yaml:"lock_stale" env:"MEM_LOCK_STALE" json:"lock_stale"`
	LockRetry     time.Duration `yaml:"lock_retry" env:"MEM_LOCK_RETRY" json:"lock_retry"`
	RotateLimit   int           `yaml:"memory_rotate_limit" env:"MEM_ROTATE_LIMIT" json:"memory_rotate_limit"`
	SnapshotLimit int           `yaml:"snapshot_rotate_limit" env:"SNAP_ROTATE_LIMIT" json:"snapshot_rotate_limit"`
	ArchiveDays   int           `yaml:"archive_days" env:"MEM_ARCHIVE_DAYS" json:"archive_days"`
	LockTTL       time.Duration `yaml:"lock_ttl" env:"LOCK_TTL" json:"lock_ttl"`
}

type rootEnv struct {
	Root string `env:"MEM_ROOT"`
}

func parseRootEnv() (rootEnv, error) {
	var r rootEnv
	if err := env.Parse(&r); err != nil {
		return r, fmt.Errorf("parse env: %w", err)
	}
	return r, nil
}

// DefaultConfig returns the built-in settings for a project at root.
func DefaultConfig(root string) Config {
	return Config{
		Root:          root,
		RecordPath:    fs.DefaultRecordFile,
		SnapshotPath:  fs.DefaultSnapshotFile,
		ArchiveDir:    fs.DefaultArchiveDir,
		LockStale:     fs.DefaultStaleAfter,
		LockRetry:     fs.DefaultRetryInterval,
		RotateLimit:   200,
		SnapshotLimit: 100,
		ArchiveDays:   7,
		LockTTL:       fs.DefaultLockTTL,
	}
}

// LoadConfig layers ConfigFile and the environment over the defaults and
// resolves relative paths against root.
func LoadConfig(root string) (Config, error) {
	cfg := DefaultConfig(root)

	data, err := os.ReadFile(filepath.Join(root, ConfigFile))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", ConfigFile, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return cfg, fmt.Errorf("read %s: %w", ConfigFile, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	cfg.Root = root
	return cfg.resolve(), cfg.validate()
}

// ArchiveAge is the compaction threshold.
func (c Config) ArchiveAge() time.Duration {
	return time.Duration(c.ArchiveDays) * 24 * time.Hour
}

func (c Config) resolve() Config {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(c.Root, p)
	}
	c.RecordPath = abs(c.RecordPath)
	c.SnapshotPath = abs(c.SnapshotPath)
	c.ArchiveDir = abs(c.ArchiveDir)
	return c
}

func (c Config) validate() error {
	var errs []error
	if c.RecordPath == "" {
		errs = append(errs, errors.New("memory_path must not be empty"))
	}
	if c.SnapshotPath == "" {
		errs = append(errs, errors.New("snapshot_path must not be empty"))
	}
	if c.RecordPath != "" && filepath.Clean(c.RecordPath) == filepath.Clean(c.SnapshotPath) {
		errs = append(errs, errors.New("memory_path and snapshot_path must differ"))
	}
	if c.LockStale <= 0 {
		errs = append(errs, fmt.Errorf("lock_stale must be positive, got %s", c.LockStale))
	}
	if c.LockRetry <= 0 {
		errs = append(errs, fmt.Errorf("lock_retry must be positive, got %s", c.LockRetry))
	}
	if c.RotateLimit < 0 || c.SnapshotLimit < 0 || c.ArchiveDays < 0 {
		errs = append(errs, errors.New("limits must not be negative"))
	}
	return errors.Join(errs...)
}
