package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	defaultSummary  = "No summary provided."
	defaultNextGoal = "TBD."
	rebuildNextGoal = "Continue development"
	snapshotTitle   = "# Memory Snapshot"
)

// Service handles the journal logic on top of a Repository and an Oracle.
type Service struct {
	repo   Repository
	oracle Oracle
	now    func() time.Time

	mu         sync.RWMutex
	appends    int
	lastAppend *time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock overrides the time source used for new entries.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new Service. oracle may be nil; operations that need
// it then fail.
func NewService(repo Repository, oracle Oracle, opts ...ServiceOption) *Service {
	s := &Service{repo: repo, oracle: oracle, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Repository exposes the underlying store pair.
func (s *Service) Repository() Repository {
	return s.repo
}

// Oracle exposes the configured oracle, possibly nil.
func (s *Service) Oracle() Oracle {
	return s.oracle
}

// AppendRequest is what the task driver supplies for one unit of work.
type AppendRequest struct {
	Hash      string
	Task      string
	Summary   string
	NextGoal  string
	Files     []string
	Timestamp time.Time // zero means now
}

// clean keeps free text on one line and out of the field separator.
func clean(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, FieldSeparator, "/")), " ")
}

// Append writes the record and then its snapshot block. The two stores are
// locked independently, so a crash in between leaves a record without a
// block; the verifier reports that as snapshot-missing.
func (s *Service) Append(ctx context.Context, req AppendRequest) (Record, SnapshotEntry, error) {
	hash := clean(req.Hash)
	if hash == "" {
		return Record{}, SnapshotEntry{}, ErrEmptyHash
	}
	summary := clean(req.Summary)
	if summary == "" {
		summary = defaultSummary
	}
	next := clean(req.NextGoal)
	if next == "" {
		next = defaultNextGoal
	}
	files := make([]string, 0, len(req.Files))
	for _, f := range req.Files {
		if f = clean(strings.ReplaceAll(f, ",", " ")); f != "" {
			files = append(files, f)
		}
	}
	ts := req.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	stamp := FormatTime(ts)

	rec := Record{
		Hash:      hash,
		Task:      clean(req.Task),
		Summary:   summary,
		Files:     strings.Join(files, ", "),
		Timestamp: stamp,
	}
	if err := s.repo.AppendRecord(ctx, rec); err != nil {
		return Record{}, SnapshotEntry{}, fmt.Errorf("append record %s: %w", hash, err)
	}
	rec.Raw = rec.Line()

	entry, err := s.repo.AppendSnapshot(ctx, SnapshotEntry{
		Commit:    hash,
		Summary:   summary,
		NextGoal:  next,
		Timestamp: stamp,
	})
	if err != nil {
		return rec, SnapshotEntry{}, fmt.Errorf("append snapshot for %s: %w", hash, err)
	}

	s.mu.Lock()
	s.appends++
	s.lastAppend = &ts
	s.mu.Unlock()
	return rec, entry, nil
}

// Records returns the record store.
func (s *Service) Records(ctx context.Context) ([]Record, error) {
	return s.repo.ReadRecords(ctx)
}

// Snapshot returns the snapshot store.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	return s.repo.ReadSnapshot(ctx)
}

// Sync merges an external record store serialization into the local one.
func (s *Service) Sync(ctx context.Context, external string) ([]Record, error) {
	return s.repo.SyncRecords(ctx, external)
}

// SyncRef merges the record store found at path as of ref (e.g. another
// branch) into the local one.
func (s *Service) SyncRef(ctx context.Context, ref, path string) ([]Record, error) {
	if s.oracle == nil {
		return nil, errors.New("sync requires an oracle")
	}
	external, err := s.oracle.Show(ctx, ref, path)
	if err != nil {
		return nil, fmt.Errorf("read %s from %s: %w", path, ref, err)
	}
	return s.repo.SyncRecords(ctx, external)
}

// RotateRecords trims the record store.
func (s *Service) RotateRecords(ctx context.Context, limit int, dryRun bool) (Rotation, error) {
	return s.repo.RotateRecords(ctx, limit, dryRun)
}

// RotateSnapshot trims the snapshot store.
func (s *Service) RotateSnapshot(ctx context.Context, limit int, dryRun bool) (Rotation, error) {
	return s.repo.RotateSnapshot(ctx, limit, dryRun)
}

func (s *Service) archivable() (Archivable, error) {
	a, ok := s.repo.(Archivable)
	if !ok {
		return nil, errors.New("repository does not support archiving")
	}
	return a, nil
}

// Archive moves both live stores to cold storage.
func (s *Service) Archive(ctx context.Context) ([]string, error) {
	a, err := s.archivable()
	if err != nil {
		return nil, err
	}
	return a.Archive(ctx)
}

// Restore overwrites a live store from a backup.
func (s *Service) Restore(ctx context.Context, backup string, kind StoreKind) error {
	a, err := s.archivable()
	if err != nil {
		return err
	}
	return a.Restore(ctx, backup, kind)
}

// Compact gzips aged backups.
func (s *Service) Compact(ctx context.Context, olderThan time.Duration, remove bool) ([]string, error) {
	a, err := s.archivable()
	if err != nil {
		return nil, err
	}
	return a.Compact(ctx, olderThan, remove)
}

// Watch streams store events if the repository supports it.
func (s *Service) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}
	return w.Watch(ctx)
}

// Export writes data through the repository's locked atomic write path.
func (s *Service) Export(ctx context.Context, path string, data []byte) error {
	e, ok := s.repo.(Exporter)
	if !ok {
		return errors.New("repository does not support exporting")
	}
	return e.WriteFile(ctx, path, data)
}

// Rebuild regenerates both live stores from the oracle history, backing up
// the current ones first when the repository supports it.
func (s *Service) Rebuild(ctx context.Context) (int, error) {
	if s.oracle == nil {
		return 0, errors.New("rebuild requires an oracle")
	}
	commits, err := s.oracle.History(ctx)
	if err != nil {
		return 0, fmt.Errorf("read history: %w", err)
	}

	if a, ok := s.repo.(Archivable); ok {
		for _, kind := range []StoreKind{StoreRecords, StoreSnapshot} {
			if _, err := a.Backup(ctx, kind); err != nil {
				return 0, fmt.Errorf("backup %s: %w", kind, err)
			}
		}
	}

	records := make([]Record, 0, len(commits))
	snap := Snapshot{Preamble: snapshotTitle}
	for i, c := range commits {
		c.Summary = clean(c.Summary)
		records = append(records, c.Record())
		snap.Entries = append(snap.Entries, SnapshotEntry{
			ID:        FormatMemID(i + 1),
			Commit:    c.Hash,
			Summary:   c.Summary,
			NextGoal:  rebuildNextGoal,
			Timestamp: c.Timestamp,
		})
	}
	if err := s.repo.ReplaceRecords(ctx, records); err != nil {
		return 0, err
	}
	if err := s.repo.ReplaceSnapshot(ctx, snap); err != nil {
		return 0, err
	}
	return len(commits), nil
}

// UpdateLog appends a record/block pair for every oracle commit newer than
// the last recorded one.
func (s *Service) UpdateLog(ctx context.Context) ([]Record, error) {
	if s.oracle == nil {
		return nil, errors.New("update-log requires an oracle")
	}
	commits, err := s.oracle.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	records, err := s.repo.ReadRecords(ctx)
	if err != nil {
		return nil, err
	}

	start := 0
	if n := len(records); n > 0 {
		last := records[n-1].Hash
		for i, c := range commits {
			if HashMatches(c.Hash, last) {
				start = i + 1
				break
			}
		}
	}

	var added []Record
	for _, c := range commits[start:] {
		if containsHash(records, c.Hash) {
			continue
		}
		req := AppendRequest{
			Hash:     c.Hash,
			Summary:  c.Summary,
			NextGoal: rebuildNextGoal,
			Files:    c.Files,
		}
		if t, ok := ParseTime(c.Timestamp); ok {
			req.Timestamp = t
		}
		rec, _, err := s.Append(ctx, req)
		if err != nil {
			return added, err
		}
		added = append(added, rec)
	}
	return added, nil
}

func containsHash(records []Record, hash string) bool {
	for _, r := range records {
		if HashMatches(r.Hash, hash) {
			return true
		}
	}
	return false
}

// HashMatches compares hashes allowing one to be an abbreviation of the other.
func HashMatches(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.HasPrefix(a, b) || strings.HasPrefix(b, a)
}
