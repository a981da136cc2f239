package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Regenerate both stores from git history",
	Long: `Back up both live stores, then rewrite them from the full commit history:
one record and one snapshot block per commit, oldest first.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_, svc := open()
		n, err := svc.Rebuild(context.Background())
		if err != nil {
			fatal("Error rebuilding", err)
		}
		fmt.Printf("Rebuilt memory from %d commits.\n", n)
	},
}

var updateLogCmd = &cobra.Command{
	Use:   "update-log",
	Short: "Append entries for commits newer than the last record",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_, svc := open()
		added, err := svc.UpdateLog(context.Background())
		for _, rec := range added {
			fmt.Println(rec.Line())
		}
		if err != nil {
			fatal("Error updating log", err)
		}
		if len(added) == 0 {
			fmt.Println("Memory is up to date.")
		}
	},
}

func init() {
	rootCmd.AddCommand(rebuildCmd, updateLogCmd)
}
