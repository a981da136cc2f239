package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the internal state of the service and its repository",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, svc := open()

		out := map[string]any{"config": cfg}
		for _, c := range []any{svc, svc.Repository()} {
			intro, ok := c.(introspection.Introspectable)
			if !ok {
				continue
			}
			name := fmt.Sprintf("%T", c)
			if comp, ok := c.(introspection.Component); ok {
				name = comp.ComponentType()
			}
			out[name] = intro.State()
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fatal("Error encoding state", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
