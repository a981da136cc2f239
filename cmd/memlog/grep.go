package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/aretw0/memlog/pkg/core"
)

var (
	grepSince string
	grepUntil string
	grepFiles string
)

var grepCmd = &cobra.Command{
	Use:   "grep <pattern>",
	Short: "Search both stores, optionally within a time window",
	Long: `Case-insensitive regular expression search over record lines and snapshot
block fields. --since/--until accept dates (2006-01-02) or RFC3339 instants;
entries whose timestamp cannot be parsed are always included. --files keeps
only records that touched a path matching the glob (e.g. 'pkg/**/*.go').`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		q := core.GrepQuery{Pattern: args[0]}
		var ok bool
		if grepSince != "" {
			if q.Since, ok = core.ParseTime(grepSince); !ok {
				fatal("Invalid --since", fmt.Errorf("cannot parse %q", grepSince))
			}
		}
		if grepUntil != "" {
			if q.Until, ok = core.ParseTime(grepUntil); !ok {
				fatal("Invalid --until", fmt.Errorf("cannot parse %q", grepUntil))
			}
			if len(grepUntil) == len("2006-01-02") {
				q.Until = q.Until.Add(24*time.Hour - time.Nanosecond)
			}
		}
		if grepFiles != "" && !doublestar.ValidatePattern(grepFiles) {
			fatal("Invalid --files", fmt.Errorf("bad glob %q", grepFiles))
		}

		_, svc := open()
		ctx := context.Background()
		matches, err := svc.Grep(ctx, q)
		if err != nil {
			fatal("Error searching", err)
		}

		var touched map[string]bool
		if grepFiles != "" {
			if touched, err = touchingRecords(ctx, svc, grepFiles); err != nil {
				fatal("Error reading records", err)
			}
		}

		found := 0
		for _, m := range matches {
			if touched != nil && (m.Store != core.StoreRecords || !touched[m.Key]) {
				continue
			}
			fmt.Println(m)
			found++
		}
		if found == 0 {
			fmt.Fprintln(os.Stderr, "No matches.")
		}
	},
}

// touchingRecords returns the hashes of records whose files match pattern.
func touchingRecords(ctx context.Context, svc *core.Service, pattern string) (map[string]bool, error) {
	records, err := svc.Records(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool)
	for _, rec := range records {
		for _, f := range rec.FileList() {
			if ok, _ := doublestar.Match(pattern, f); ok {
				out[rec.Hash] = true
				break
			}
		}
	}
	return out, nil
}

func init() {
	grepCmd.Flags().StringVar(&grepSince, "since", "", "Only entries at or after this time")
	grepCmd.Flags().StringVar(&grepUntil, "until", "", "Only entries at or before this time")
	grepCmd.Flags().StringVar(&grepFiles, "files", "", "Only records touching files matching this glob")
	rootCmd.AddCommand(grepCmd)
}
