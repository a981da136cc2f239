package platform

import (
	"log/slog"
	"path/filepath"

	"github.com/aretw0/memlog/pkg/adapters/fs"
	"github.com/aretw0/memlog/pkg/core"
	"github.com/aretw0/memlog/pkg/git"
)

// New wires a Service for the project at root:
//
//	svc, err := memlog.New(".", memlog.WithGitless(true))
//
// The filesystem repository is built from the loaded Config unless one is
// injected, and git serves as the oracle when root is inside a work tree.
func New(root string, opts ...Option) (*core.Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if o.config != nil {
		cfg = *o.config
		if cfg.Root == "" {
			cfg.Root = abs
		}
	} else if cfg, err = LoadConfig(abs); err != nil {
		return nil, err
	}
	for _, override := range o.overrides {
		override(&cfg)
	}
	cfg = cfg.resolve()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	repo := o.repository
	if repo == nil {
		repo = fs.NewRepository(fs.Config{
			RecordPath:    cfg.RecordPath,
			SnapshotPath:  cfg.SnapshotPath,
			ArchiveDir:    cfg.ArchiveDir,
			StaleAfter:    cfg.LockStale,
			RetryInterval: cfg.LockRetry,
			Logger:        o.logger,
			Now:           o.now,
		})
	}

	oracle := o.oracle
	if !o.oracleSet && !o.gitless {
		oracle = detectOracle(cfg.Root, o.logger)
	}

	var svcOpts []core.ServiceOption
	if o.now != nil {
		svcOpts = append(svcOpts, core.WithClock(o.now))
	}
	return core.NewService(repo, oracle, svcOpts...), nil
}

func detectOracle(root string, logger *slog.Logger) core.Oracle {
	if !git.IsInstalled() {
		logger.Debug("git not installed, running without oracle")
		return nil
	}
	client := git.NewClient(root, logger)
	if !client.IsRepo() {
		logger.Debug("not a git work tree, running without oracle", "root", root)
		return nil
	}
	return client
}
