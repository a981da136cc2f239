package core

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Status summarizes the live stores.
type Status struct {
	Last    *Record `json:"last,omitempty"`
	NextID  MemID   `json:"nextId"`
	Records int     `json:"records"`
	Entries int     `json:"entries"`
}

// Status reports the last record, next id and store sizes.
func (s *Service) Status(ctx context.Context) (Status, error) {
	records, err := s.repo.ReadRecords(ctx)
	if err != nil {
		return Status{}, err
	}
	snap, err := s.repo.ReadSnapshot(ctx)
	if err != nil {
		return Status{}, err
	}
	next, err := s.repo.NextID(ctx)
	if err != nil {
		return Status{}, err
	}
	st := Status{NextID: next, Records: len(records), Entries: len(snap.Entries)}
	if n := len(records); n > 0 {
		last := records[n-1]
		st.Last = &last
	}
	return st, nil
}

// List returns the last limit records. A non-positive limit returns all.
func (s *Service) List(ctx context.Context, limit int) ([]Record, error) {
	records, err := s.repo.ReadRecords(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	return records, nil
}

// Locate finds the snapshot block for a mem id or a record hash prefix.
func (s *Service) Locate(ctx context.Context, target string) (SnapshotEntry, error) {
	snap, err := s.repo.ReadSnapshot(ctx)
	if err != nil {
		return SnapshotEntry{}, err
	}
	if strings.HasPrefix(target, "mem-") {
		for _, e := range snap.Entries {
			if string(e.ID) == target {
				return e, nil
			}
		}
		return SnapshotEntry{}, fmt.Errorf("%w: %s", ErrNotFound, target)
	}

	hash := target
	records, err := s.repo.ReadRecords(ctx)
	if err != nil {
		return SnapshotEntry{}, err
	}
	for _, r := range records {
		if strings.HasPrefix(r.Hash, target) {
			hash = r.Hash
			break
		}
	}
	for _, e := range snap.Entries {
		if HashMatches(e.Commit, hash) {
			return e, nil
		}
	}
	return SnapshotEntry{}, fmt.Errorf("%w: %s", ErrNotFound, target)
}

// GrepQuery selects lines of either store.
type GrepQuery struct {
	Pattern string
	Since   time.Time // zero means unbounded
	Until   time.Time // zero means unbounded
}

// Match is one grep hit. Key is the record hash or the enclosing mem id.
type Match struct {
	Store StoreKind
	Key   string
	Line  string
}

func (m Match) String() string {
	return fmt.Sprintf("%s: %s", m.Key, m.Line)
}

func (q GrepQuery) inWindow(ts string) bool {
	if q.Since.IsZero() && q.Until.IsZero() {
		return true
	}
	t, ok := ParseTime(ts)
	if !ok {
		return true
	}
	if !q.Since.IsZero() && t.Before(q.Since) {
		return false
	}
	if !q.Until.IsZero() && t.After(q.Until) {
		return false
	}
	return true
}

// Grep searches both stores case-insensitively.
func (s *Service) Grep(ctx context.Context, q GrepQuery) ([]Match, error) {
	re, err := regexp.Compile("(?i)" + q.Pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}
	records, err := s.repo.ReadRecords(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := s.repo.ReadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	var matches []Match
	for _, r := range records {
		if re.MatchString(r.String()) && q.inWindow(r.Timestamp) {
			matches = append(matches, Match{Store: StoreRecords, Key: r.Hash, Line: r.String()})
		}
	}
	for _, e := range snap.Entries {
		if !q.inWindow(e.Timestamp) {
			continue
		}
		lines := strings.Split(e.Raw, "\n")
		for _, line := range lines[1:] {
			line = strings.TrimSpace(line)
			if line != "" && re.MatchString(line) {
				matches = append(matches, Match{Store: StoreSnapshot, Key: string(e.ID), Line: line})
			}
		}
	}
	return matches, nil
}

// SummaryLine pairs a mem id with its best-known summary.
type SummaryLine struct {
	ID      MemID
	Summary string
}

// Summarize lists the blocks between two ids inclusive, in either order,
// preferring the record store's summary for each commit.
func (s *Service) Summarize(ctx context.Context, from, to MemID) ([]SummaryLine, error) {
	snap, err := s.repo.ReadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	fromIdx, toIdx := -1, -1
	for i, e := range snap.Entries {
		if e.ID == from {
			fromIdx = i
		}
		if e.ID == to {
			toIdx = i
		}
	}
	if fromIdx < 0 || toIdx < 0 {
		return nil, fmt.Errorf("%w: mem-id not found in snapshot", ErrNotFound)
	}
	if fromIdx > toIdx {
		fromIdx, toIdx = toIdx, fromIdx
	}

	records, err := s.repo.ReadRecords(ctx)
	if err != nil {
		return nil, err
	}
	byHash := make(map[string]string, len(records))
	for _, r := range records {
		byHash[r.Hash] = r.Summary
	}

	out := make([]SummaryLine, 0, toIdx-fromIdx+1)
	for _, e := range snap.Entries[fromIdx : toIdx+1] {
		summary := e.Summary
		if v, ok := byHash[e.Commit]; ok && v != "" {
			summary = v
		}
		out = append(out, SummaryLine{ID: e.ID, Summary: summary})
	}
	return out, nil
}

// Missing lists oracle commits absent from the record store, newest first.
func (s *Service) Missing(ctx context.Context) ([]Commit, error) {
	if s.oracle == nil {
		return nil, errors.New("diff requires an oracle")
	}
	commits, err := s.oracle.History(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.ReadRecords(ctx)
	if err != nil {
		return nil, err
	}
	var missing []Commit
	for i := len(commits) - 1; i >= 0; i-- {
		if !containsHash(records, commits[i].Hash) {
			missing = append(missing, commits[i])
		}
	}
	return missing, nil
}
