package core

import "fmt"

// StoreKind names one of the two live stores.
type StoreKind string

const (
	StoreRecords  StoreKind = "memory"
	StoreSnapshot StoreKind = "snapshot"
)

// ParseStoreKind validates a user-supplied store name.
func ParseStoreKind(s string) (StoreKind, error) {
	switch StoreKind(s) {
	case StoreRecords, StoreSnapshot:
		return StoreKind(s), nil
	}
	return "", fmt.Errorf("%w: %q (want %q or %q)", ErrInvalidTarget, s, StoreRecords, StoreSnapshot)
}

// Rotation reports the outcome of a size-bounded trim.
type Rotation struct {
	Store      string
	Limit      int
	Before     int
	After      int
	Performed  bool
	DryRun     bool
	BackupPath string
}

// String is the one-line status printed after a rotation.
func (r Rotation) String() string {
	switch {
	case r.DryRun && r.Before > r.Limit:
		return fmt.Sprintf("[dry-run] would backup to %s and trim %s to last %d entries", r.BackupPath, r.Store, r.Limit)
	case r.Performed:
		return fmt.Sprintf("%s trimmed to last %d entries (backup %s)", r.Store, r.Limit, r.BackupPath)
	default:
		return fmt.Sprintf("%s already within limit", r.Store)
	}
}

// EventType is the kind of change observed on a live store.
type EventType string

const (
	EventRecord   EventType = "RECORD"
	EventSnapshot EventType = "SNAPSHOT"
	EventRewrite  EventType = "REWRITE"
)

// Event is emitted by Watch for each new record or snapshot block, or when a
// store was rewritten wholesale (rotation, merge, restore).
type Event struct {
	Type      EventType `json:"type"`
	Store     StoreKind `json:"store"`
	Key       string    `json:"key,omitempty"` // record hash or mem id
	Summary   string    `json:"summary,omitempty"`
	Timestamp int64     `json:"timestamp"` // Unix timestamp
}

func (e Event) String() string {
	if e.Key == "" {
		return fmt.Sprintf("%s %s", e.Type, e.Store)
	}
	return fmt.Sprintf("%s %s %s: %s", e.Type, e.Store, e.Key, e.Summary)
}
