// Package verify cross-checks the record store against the snapshot store
// and a commit oracle. It only reads.
package verify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/memlog/pkg/core"
)

// Kind classifies a Violation.
type Kind string

const (
	KindDuplicateHash   Kind = "duplicate-hash"
	KindTimestampOrder  Kind = "timestamp-order"
	KindUnknownCommit   Kind = "unknown-commit"
	KindSummaryMismatch Kind = "summary-mismatch"
	KindSnapshotMissing Kind = "snapshot-missing"
	KindDuplicateID     Kind = "duplicate-id"
	KindIDGap           Kind = "id-gap"
	KindOracleError     Kind = "oracle-error"
)

// Violation is one failed check.
type Violation struct {
	Kind    Kind   `json:"kind"`
	Subject string `json:"subject"`
	Detail  string `json:"detail,omitempty"`
}

func (v Violation) String() string {
	switch v.Kind {
	case KindDuplicateHash:
		return fmt.Sprintf("duplicate commit %s", v.Subject)
	case KindTimestampOrder:
		return fmt.Sprintf("commit timestamp out of order for %s (%s)", v.Subject, v.Detail)
	case KindUnknownCommit:
		return fmt.Sprintf("unknown commit %s", v.Subject)
	case KindSummaryMismatch:
		return fmt.Sprintf("summary mismatch for %s (%s)", v.Subject, v.Detail)
	case KindSnapshotMissing:
		return fmt.Sprintf("snapshot missing entry for %s", v.Subject)
	case KindDuplicateID:
		return fmt.Sprintf("duplicate id %s", v.Subject)
	case KindIDGap:
		return fmt.Sprintf("missing id %s (%s)", v.Subject, v.Detail)
	default:
		if v.Detail == "" {
			return fmt.Sprintf("%s: %s", v.Kind, v.Subject)
		}
		return fmt.Sprintf("%s: %s (%s)", v.Kind, v.Subject, v.Detail)
	}
}

// Report is the outcome of one Check.
type Report struct {
	Records    int         `json:"records"`
	Entries    int         `json:"entries"`
	Violations []Violation `json:"violations"`
}

// OK reports whether no violation was found.
func (r Report) OK() bool {
	return len(r.Violations) == 0
}

// Count returns how many violations of kind were found.
func (r Report) Count(kind Kind) int {
	n := 0
	for _, v := range r.Violations {
		if v.Kind == kind {
			n++
		}
	}
	return n
}

// Err returns core.ErrIntegrity wrapped with the violation count, or nil.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}
	return fmt.Errorf("%w: %d violation(s)", core.ErrIntegrity, len(r.Violations))
}

// Print writes every violation as a bullet list.
func (r Report) Print(w io.Writer) error {
	if r.OK() {
		_, err := fmt.Fprintln(w, "memory check passed")
		return err
	}
	if _, err := fmt.Fprintln(w, "Memory check failed:"); err != nil {
		return err
	}
	for _, v := range r.Violations {
		if _, err := fmt.Fprintf(w, "- %s\n", v); err != nil {
			return err
		}
	}
	return nil
}

func (r *Report) add(kind Kind, subject, detail string) {
	r.Violations = append(r.Violations, Violation{Kind: kind, Subject: subject, Detail: detail})
}

// Store is the read side of core.Repository.
type Store interface {
	ReadRecords(ctx context.Context) ([]core.Record, error)
	ReadSnapshot(ctx context.Context) (core.Snapshot, error)
}

// Checker runs the integrity checks. Oracle may be nil, in which case the
// oracle checks are skipped.
type Checker struct {
	Store  Store
	Oracle core.Oracle
	Logger *slog.Logger
}

// New creates a Checker.
func New(store Store, oracle core.Oracle, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Checker{Store: store, Oracle: oracle, Logger: logger}
}

// Check scans both stores and the oracle and returns every violation found.
// The error is non-nil only when a store cannot be read or ctx is done;
// violations are carried by the Report.
func (c *Checker) Check(ctx context.Context) (Report, error) {
	records, err := c.Store.ReadRecords(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("read records: %w", err)
	}
	snap, err := c.Store.ReadSnapshot(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("read snapshot: %w", err)
	}

	rep := Report{Records: len(records), Entries: len(snap.Entries)}
	checkRecords(records, &rep)
	if c.Oracle != nil {
		if err := c.checkOracle(ctx, records, &rep); err != nil {
			return rep, err
		}
	} else {
		c.Logger.Debug("no oracle configured, skipping commit checks")
	}
	checkCoverage(records, snap.Entries, &rep)
	checkIDs(snap.Entries, &rep)

	c.Logger.Debug("memory check finished",
		"records", rep.Records, "entries", rep.Entries, "violations", len(rep.Violations))
	return rep, nil
}

func checkRecords(records []core.Record, rep *Report) {
	seen := make(map[string]struct{}, len(records))
	var prev time.Time
	var prevOK bool
	for _, rec := range records {
		if _, dup := seen[rec.Hash]; dup {
			rep.add(KindDuplicateHash, rec.Hash, "")
		}
		seen[rec.Hash] = struct{}{}

		ts, ok := rec.Time()
		if ok && prevOK && ts.Before(prev) {
			rep.add(KindTimestampOrder, rec.Hash,
				fmt.Sprintf("%s < %s", core.FormatTime(ts), core.FormatTime(prev)))
		}
		if ok {
			prev, prevOK = ts, true
		}
	}
}

func (c *Checker) checkOracle(ctx context.Context, records []core.Record, rep *Report) error {
	looked := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if _, done := looked[rec.Hash]; done {
			continue
		}
		looked[rec.Hash] = struct{}{}

		commit, err := c.Oracle.Lookup(ctx, rec.Hash)
		switch {
		case err == nil:
		case errors.Is(err, core.ErrUnknownCommit):
			rep.add(KindUnknownCommit, rec.Hash, "")
			continue
		case ctx.Err() != nil:
			return ctx.Err()
		default:
			rep.add(KindOracleError, rec.Hash, err.Error())
			continue
		}
		if commit.Summary != "" && rec.Summary != commit.Summary {
			rep.add(KindSummaryMismatch, rec.Hash,
				fmt.Sprintf("record %q, commit %q", rec.Summary, commit.Summary))
		}
	}
	return nil
}

func checkCoverage(records []core.Record, entries []core.SnapshotEntry, rep *Report) {
	reported := make(map[string]struct{})
	for _, rec := range records {
		if _, done := reported[rec.Hash]; done {
			continue
		}
		found := false
		for _, e := range entries {
			if e.Commit != "" && core.HashMatches(rec.Hash, e.Commit) {
				found = true
				break
			}
		}
		if !found {
			reported[rec.Hash] = struct{}{}
			rep.add(KindSnapshotMissing, rec.Hash, "")
		}
	}
}

func checkIDs(entries []core.SnapshotEntry, rep *Report) {
	seen := make(map[int]struct{}, len(entries))
	prev := 0
	for _, e := range entries {
		n, ok := e.ID.Number()
		if !ok {
			continue
		}
		if _, dup := seen[n]; dup {
			rep.add(KindDuplicateID, string(e.ID), "")
		} else if prev > 0 && n != prev+1 {
			rep.add(KindIDGap, string(core.FormatMemID(prev+1)),
				fmt.Sprintf("%s follows %s", e.ID, core.FormatMemID(prev)))
		}
		seen[n] = struct{}{}
		prev = n
	}
}
