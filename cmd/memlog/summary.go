package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/memlog/pkg/core"
)

var summaryCmd = &cobra.Command{
	Use:   "summary <from-id> <to-id>",
	Short: "List the summaries of a range of snapshot blocks",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		_, svc := open()
		lines, err := svc.Summarize(context.Background(), core.MemID(args[0]), core.MemID(args[1]))
		if err != nil {
			fatal("Error summarizing", err)
		}
		for _, l := range lines {
			fmt.Printf("%s: %s\n", l.ID, l.Summary)
		}
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}
