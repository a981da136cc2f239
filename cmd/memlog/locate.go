package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var locateCmd = &cobra.Command{
	Use:   "locate <mem-id|hash>",
	Short: "Print the snapshot block for an id or commit hash",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, svc := open()
		entry, err := svc.Locate(context.Background(), args[0])
		if err != nil {
			fatal("Error locating entry", err)
		}
		fmt.Print(entry.Block())
	},
}

func init() {
	rootCmd.AddCommand(locateCmd)
}
