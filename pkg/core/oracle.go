package core

import (
	"context"
	"strings"
)

// Commit is the oracle's canonical view of one external event.
type Commit struct {
	Hash      string
	Summary   string
	Timestamp string
	Files     []string
}

// Record converts the commit to a record store line.
func (c Commit) Record() Record {
	return Record{
		Hash:      c.Hash,
		Summary:   c.Summary,
		Files:     strings.Join(c.Files, ", "),
		Timestamp: c.Timestamp,
	}
}

// Oracle is the read-only source of truth for event hashes, typically the
// version-control history.
type Oracle interface {
	// Lookup returns the commit for hash, or ErrUnknownCommit.
	Lookup(ctx context.Context, hash string) (Commit, error)

	// History returns every commit, oldest first.
	History(ctx context.Context) ([]Commit, error)

	// Show returns the content of path as of ref.
	Show(ctx context.Context, ref, path string) (string, error)
}
