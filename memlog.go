package memlog

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/memlog/internal/platform"
	"github.com/aretw0/memlog/pkg/core"
	"github.com/aretw0/memlog/pkg/verify"
)

// See version.go for Version.

// --- Types ---

// Record is one line of the record store.
type Record = core.Record

// SnapshotEntry is one block of the snapshot store.
type SnapshotEntry = core.SnapshotEntry

// Config is the resolved configuration of a project.
type Config = platform.Config

// Report is the outcome of an integrity check.
type Report = verify.Report

// --- Configuration ---

// Option defines a functional option for configuring memlog.
type Option = platform.Option

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithConfig uses an already loaded Config.
func WithConfig(cfg Config) Option {
	return platform.WithConfig(cfg)
}

// WithRecordPath overrides the record store location.
func WithRecordPath(path string) Option {
	return platform.WithRecordPath(path)
}

// WithSnapshotPath overrides the snapshot store location.
func WithSnapshotPath(path string) Option {
	return platform.WithSnapshotPath(path)
}

// WithArchiveDir overrides the backup directory.
func WithArchiveDir(dir string) Option {
	return platform.WithArchiveDir(dir)
}

// WithLockStale sets the lock staleness threshold.
func WithLockStale(d time.Duration) Option {
	return platform.WithLockStale(d)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithOracle sets the commit oracle.
func WithOracle(oracle core.Oracle) Option {
	return platform.WithOracle(oracle)
}

// WithGitless runs without the git oracle.
func WithGitless(gitless bool) Option {
	return platform.WithGitless(gitless)
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// --- Factory ---

// New creates a Service for the project at root.
func New(root string, opts ...Option) (*core.Service, error) {
	return platform.New(root, opts...)
}

// LoadConfig reads the configuration of the project at root.
func LoadConfig(root string) (Config, error) {
	return platform.LoadConfig(root)
}

// FindRoot looks upwards for a project root indicator.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// DiscoverRoot picks the project root from MEM_ROOT, an indicator above
// startDir, or startDir itself.
func DiscoverRoot(startDir string) (string, error) {
	return platform.DiscoverRoot(startDir)
}

// --- Operations ---

// Check runs the integrity verifier over svc's stores and oracle.
func Check(ctx context.Context, svc *core.Service) (Report, error) {
	return verify.New(svc.Repository(), svc.Oracle(), nil).Check(ctx)
}
