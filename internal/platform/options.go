package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/memlog/pkg/core"
)

// options holds the internal configuration for the memlog service.
type options struct {
	logger     *slog.Logger
	config     *Config
	repository core.Repository
	oracle     core.Oracle
	oracleSet  bool
	gitless    bool
	now        func() time.Time
	overrides  []func(*Config)
}

// Option defines a functional option for configuring memlog.
type Option func(*options)

func defaultOptions() *options {
	return &options{}
}

// WithLogger sets the logger for the service and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithConfig uses cfg as-is instead of loading it from the root.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.config = &cfg
	}
}

// WithRecordPath overrides the record store location.
func WithRecordPath(path string) Option {
	return func(o *options) {
		o.overrides = append(o.overrides, func(c *Config) { c.RecordPath = path })
	}
}

// WithSnapshotPath overrides the snapshot store location.
func WithSnapshotPath(path string) Option {
	return func(o *options) {
		o.overrides = append(o.overrides, func(c *Config) { c.SnapshotPath = path })
	}
}

// WithArchiveDir overrides where backups are written.
func WithArchiveDir(dir string) Option {
	return func(o *options) {
		o.overrides = append(o.overrides, func(c *Config) { c.ArchiveDir = dir })
	}
}

// WithLockStale sets the age after which a lock sentinel is reclaimed.
func WithLockStale(d time.Duration) Option {
	return func(o *options) {
		o.overrides = append(o.overrides, func(c *Config) { c.LockStale = d })
	}
}

// WithRepository allows injecting a custom storage adapter.
// If provided, the default filesystem adapter will be skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithOracle sets the commit oracle. A nil oracle disables every
// operation that needs one.
func WithOracle(oracle core.Oracle) Option {
	return func(o *options) {
		o.oracle = oracle
		o.oracleSet = true
	}
}

// WithGitless skips git detection; the service runs without an oracle.
func WithGitless(gitless bool) Option {
	return func(o *options) {
		o.gitless = gitless
	}
}

// WithClock overrides the time source for new entries and backup names.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}
