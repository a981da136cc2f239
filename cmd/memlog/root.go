package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/memlog"
	"github.com/aretw0/memlog/pkg/core"
)

var (
	verbose bool
	rootDir string
	gitless bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "memlog",
	Short: "An append-only project journal kept next to the code",
	Long: `memlog keeps two paired stores in the project root: a terse record log
(one line per unit of work) and a narrative snapshot of numbered blocks.
Every write is lock-guarded and atomic, so concurrent tools can share them.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "Project root (default: MEM_ROOT or nearest .memlog.yaml/.git)")
	rootCmd.PersistentFlags().BoolVar(&gitless, "gitless", false, "Do not use git history as the commit oracle")
}

// open loads the project configuration and wires the service.
func open() (memlog.Config, *core.Service) {
	root := rootDir
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			fatal("Failed to get CWD", err)
		}
		if root, err = memlog.DiscoverRoot(wd); err != nil {
			fatal("Failed to find project root", err)
		}
	}

	cfg, err := memlog.LoadConfig(root)
	if err != nil {
		fatal("Invalid configuration", err)
	}
	svc, err := memlog.New(root,
		memlog.WithConfig(cfg),
		memlog.WithGitless(gitless),
		memlog.WithLogger(slog.Default()),
	)
	if err != nil {
		fatal("Error initializing memlog", err)
	}
	return cfg, svc
}
