package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var watchJSON bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream appends to both stores until interrupted",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_, svc := open()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		events, err := svc.Watch(ctx)
		if err != nil {
			fatal("Error starting watcher", err)
		}
		fmt.Fprintln(os.Stderr, "Watching for changes (Ctrl+C to stop)...")

		enc := json.NewEncoder(os.Stdout)
		for e := range events {
			if watchJSON {
				if err := enc.Encode(e); err != nil {
					fatal("Error encoding event", err)
				}
				continue
			}
			fmt.Printf("[%s] %s\n", time.Unix(e.Timestamp, 0).Format(time.TimeOnly), e)
		}
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchJSON, "json", false, "Emit one JSON object per event")
	rootCmd.AddCommand(watchCmd)
}
