package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "List commits that have no record yet, newest first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_, svc := open()
		missing, err := svc.Missing(context.Background())
		if err != nil {
			fatal("Error diffing against history", err)
		}
		if len(missing) == 0 {
			fmt.Println("All commits are recorded.")
			return
		}
		for _, c := range missing {
			fmt.Printf("%s %s\n", c.Hash, c.Summary)
		}
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
