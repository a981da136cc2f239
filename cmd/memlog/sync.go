package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/memlog/pkg/core"
	"github.com/aretw0/memlog/pkg/git"
)

var syncFile string

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync [ref]",
	Short: "Merge the record store of another branch or file into the local one",
	Long: `Union the local record store with the one found at <ref> (read through git)
or in --file. Entries are deduplicated by hash with local lines winning and
the result is ordered by timestamp. Running it twice changes nothing.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, svc := open()
		ctx := context.Background()

		var merged []core.Record
		var err error
		switch {
		case syncFile != "":
			data, readErr := os.ReadFile(syncFile)
			if readErr != nil {
				fatal("Error reading external store", readErr)
			}
			merged, err = svc.Sync(ctx, string(data))
		case len(args) == 1:
			path := relRecordPath(ctx, cfg.Root, cfg.RecordPath, svc.Oracle())
			merged, err = svc.SyncRef(ctx, args[0], path)
		default:
			fatal("Nothing to sync", fmt.Errorf("pass a ref or --file"))
		}
		if err != nil {
			fatal("Sync failed", err)
		}
		fmt.Printf("Sync completed: %d records.\n", len(merged))
	},
}

// relRecordPath locates the record store inside the work tree, as git show
// expects it.
func relRecordPath(ctx context.Context, root, recordPath string, oracle core.Oracle) string {
	if client, ok := oracle.(*git.Client); ok {
		if rel, err := client.RelPath(ctx, recordPath); err == nil {
			return rel
		}
	}
	rel, err := filepath.Rel(root, recordPath)
	if err != nil {
		return filepath.Base(recordPath)
	}
	return filepath.ToSlash(rel)
}

func init() {
	syncCmd.Flags().StringVar(&syncFile, "file", "", "Merge from a record store file instead of a git ref")
	rootCmd.AddCommand(syncCmd)
}
