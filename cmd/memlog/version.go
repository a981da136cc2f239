package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/memlog"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of memlog",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("memlog version %s\n", strings.TrimSpace(memlog.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
