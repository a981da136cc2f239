package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	listJSON  bool
	listLimit int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the newest records",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_, svc := open()
		records, err := svc.List(context.Background(), listLimit)
		if err != nil {
			fatal("Error listing records", err)
		}

		if listJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(records); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}
		for _, rec := range records {
			fmt.Println(rec)
		}
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "Number of records (0 for all)")
	rootCmd.AddCommand(listCmd)
}
