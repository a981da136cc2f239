package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/memlog/pkg/adapters/fs"
	"github.com/aretw0/memlog/pkg/core"
)

var (
	compactRemove bool
	compactDays   int
	restoreStore  string
	lockTTL       time.Duration
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Move both live stores into the archive directory",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_, svc := open()
		moved, err := svc.Archive(context.Background())
		if err != nil {
			fatal("Error archiving", err)
		}
		if len(moved) == 0 {
			fmt.Println("Nothing to archive.")
			return
		}
		for _, p := range moved {
			fmt.Printf("Archived to %s\n", p)
		}
	},
}

var compactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Gzip backups older than the archive age",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, svc := open()
		age := cfg.ArchiveAge()
		if cmd.Flags().Changed("days") {
			age = time.Duration(compactDays) * 24 * time.Hour
		}
		out, err := svc.Compact(context.Background(), age, compactRemove)
		for _, p := range out {
			fmt.Printf("Compressed %s\n", p)
		}
		if err != nil {
			fatal("Error compacting backups", err)
		}
		if len(out) == 0 {
			fmt.Println("No backups old enough to compress.")
		}
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <backup>",
	Short: "Overwrite a live store from a backup (plain or .gz)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		kind, err := core.ParseStoreKind(restoreStore)
		if err != nil {
			fatal("Invalid store", err)
		}
		_, svc := open()
		if err := svc.Restore(context.Background(), args[0], kind); err != nil {
			fatal("Error restoring", err)
		}
		fmt.Printf("Restored %s from %s\n", kind, args[0])
	},
}

var cleanLocksCmd = &cobra.Command{
	Use:   "clean-locks",
	Short: "Remove lock sentinels older than the lock TTL",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, _ := open()
		ttl := cfg.LockTTL
		if cmd.Flags().Changed("ttl") {
			ttl = lockTTL
		}
		removed, err := fs.CleanLocks(cfg.Root, ttl, slog.Default())
		for _, p := range removed {
			fmt.Printf("Removed stale lock %s\n", p)
		}
		if err != nil {
			fatal("Error cleaning locks", err)
		}
		if len(removed) == 0 {
			fmt.Println("No stale locks found.")
		}
	},
}

func init() {
	compactCmd.Flags().BoolVar(&compactRemove, "remove", false, "Delete originals after compressing")
	compactCmd.Flags().IntVar(&compactDays, "days", 7, "Minimum backup age in days (default from config)")
	restoreCmd.Flags().StringVar(&restoreStore, "store", string(core.StoreRecords), "Store to overwrite: memory or snapshot")
	cleanLocksCmd.Flags().DurationVar(&lockTTL, "ttl", fs.DefaultLockTTL, "Minimum lock age (default from config)")

	rootCmd.AddCommand(archiveCmd, compactCmd, restoreCmd, cleanLocksCmd)
}
