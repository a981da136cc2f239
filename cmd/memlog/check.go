package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/memlog/pkg/verify"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify both stores against each other and git history",
	Long: `Report every integrity violation found: duplicate hashes, out-of-order
timestamps, unknown commits, summary mismatches, missing snapshot blocks,
duplicate ids and id gaps. Exits 1 when anything is found.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_, svc := open()

		checker := verify.New(svc.Repository(), svc.Oracle(), slog.Default())
		report, err := checker.Check(context.Background())
		if err != nil {
			fatal("Error checking memory", err)
		}
		if report.OK() {
			_ = report.Print(os.Stdout)
			return
		}
		_ = report.Print(os.Stderr)
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
