package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last record and the next snapshot id",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, svc := open()
		st, err := svc.Status(context.Background())
		if err != nil {
			fatal("Error reading status", err)
		}
		fmt.Printf("Record store:   %s (%d records)\n", cfg.RecordPath, st.Records)
		fmt.Printf("Snapshot store: %s (%d blocks)\n", cfg.SnapshotPath, st.Entries)
		if st.Last != nil {
			fmt.Printf("Last record:    %s\n", st.Last)
		} else {
			fmt.Println("Last record:    none")
		}
		fmt.Printf("Next id:        %s\n", st.NextID)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
