package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/memlog/pkg/core"
)

var (
	appendHash    string
	appendTask    string
	appendSummary string
	appendNext    string
	appendFiles   string
)

var appendCmd = &cobra.Command{
	Use:   "append",
	Short: "Record one unit of work in both stores",
	Long: `Append a record line and its snapshot block for a commit.
The record is written first; if the snapshot append fails the record stays
and 'memlog check' reports the missing block.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_, svc := open()

		var files []string
		for _, f := range strings.Split(appendFiles, ",") {
			if f = strings.TrimSpace(f); f != "" {
				files = append(files, f)
			}
		}

		rec, entry, err := svc.Append(context.Background(), core.AppendRequest{
			Hash:     appendHash,
			Task:     appendTask,
			Summary:  appendSummary,
			NextGoal: appendNext,
			Files:    files,
		})
		if errors.Is(err, core.ErrDuplicateHash) {
			fmt.Fprintf(os.Stderr, "Skipping: commit %s is already recorded.\n", appendHash)
			return
		}
		if err != nil {
			fatal("Error appending", err)
		}
		fmt.Println(rec.Line())
		fmt.Printf("Snapshot %s written.\n", entry.ID)
	},
}

func init() {
	appendCmd.Flags().StringVar(&appendHash, "hash", "", "Commit hash (required)")
	appendCmd.Flags().StringVar(&appendTask, "task", "", "Task label")
	appendCmd.Flags().StringVarP(&appendSummary, "summary", "s", "", "What was done")
	appendCmd.Flags().StringVarP(&appendNext, "next", "n", "", "Next goal")
	appendCmd.Flags().StringVarP(&appendFiles, "files", "f", "", "Comma-separated files touched")
	_ = appendCmd.MarkFlagRequired("hash")
	rootCmd.AddCommand(appendCmd)
}
