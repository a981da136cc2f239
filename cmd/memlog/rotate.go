package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	rotateLimit  int
	rotateDryRun bool
)

var rotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Trim the record store to its newest entries, keeping a backup",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, svc := open()
		limit := rotateLimit
		if limit <= 0 {
			limit = cfg.RotateLimit
		}
		rot, err := svc.RotateRecords(context.Background(), limit, rotateDryRun)
		if err != nil {
			fatal("Error rotating records", err)
		}
		fmt.Println(rot)
	},
}

var snapshotRotateCmd = &cobra.Command{
	Use:   "snapshot-rotate",
	Short: "Trim the snapshot store to its newest blocks, keeping a backup",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, svc := open()
		limit := rotateLimit
		if limit <= 0 {
			limit = cfg.SnapshotLimit
		}
		rot, err := svc.RotateSnapshot(context.Background(), limit, rotateDryRun)
		if err != nil {
			fatal("Error rotating snapshot", err)
		}
		fmt.Println(rot)
	},
}

func init() {
	for _, c := range []*cobra.Command{rotateCmd, snapshotRotateCmd} {
		c.Flags().IntVarP(&rotateLimit, "limit", "l", 0, "Entries to keep (default from config)")
		c.Flags().BoolVar(&rotateDryRun, "dry-run", false, "Report what would happen without writing")
		rootCmd.AddCommand(c)
	}
}

