package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/memlog/pkg/core"
)

// watchBuffer is the capacity of the event channel returned by Watch.
const watchBuffer = 64

// watchWorker tails both live stores. Atomic writes replace the file, so the
// parent directories are watched and events are matched by name.
type watchWorker struct {
	repo    *Repository
	watcher *fsnotify.Watcher
	events  chan core.Event

	hashes map[string]struct{}
	ids    map[core.MemID]struct{}
}

// Watch streams an event for every record or snapshot block appended after
// the call, and a rewrite event when a store shrinks or is replaced. The
// channel is closed when ctx is done.
func (r *Repository) Watch(ctx context.Context) (<-chan core.Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	dirs := map[string]struct{}{
		filepath.Dir(r.config.RecordPath):   {},
		filepath.Dir(r.config.SnapshotPath): {},
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	w := &watchWorker{
		repo:    r,
		watcher: watcher,
		events:  make(chan core.Event, watchBuffer),
		hashes:  make(map[string]struct{}),
		ids:     make(map[core.MemID]struct{}),
	}
	// Seed with the current content so only later appends are reported.
	w.scanRecords(ctx, false)
	w.scanSnapshot(ctx, false)

	r.setWatcherActive(true)
	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		r.logger.Error("watcher failed", "error", err)
	}))
	return w.events, nil
}

func (w *watchWorker) run(ctx context.Context) error {
	defer close(w.events)
	defer w.repo.setWatcherActive(false)
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			switch filepath.Clean(event.Name) {
			case filepath.Clean(w.repo.config.RecordPath):
				w.scanRecords(ctx, true)
			case filepath.Clean(w.repo.config.SnapshotPath):
				w.scanSnapshot(ctx, true)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.repo.logger.Error("fsnotify error", "error", err)
		}
	}
}

func (w *watchWorker) scanRecords(ctx context.Context, emit bool) {
	records, err := w.repo.ReadRecords(ctx)
	if err != nil {
		w.repo.logger.Debug("re-read records failed", "error", err)
		return
	}
	current := make(map[string]struct{}, len(records))
	for _, rec := range records {
		current[rec.Hash] = struct{}{}
		if _, seen := w.hashes[rec.Hash]; !seen && emit {
			w.send(ctx, core.Event{Type: core.EventRecord, Store: core.StoreRecords, Key: rec.Hash, Summary: rec.Summary})
		}
	}
	if emit && len(current) < len(w.hashes) {
		w.send(ctx, core.Event{Type: core.EventRewrite, Store: core.StoreRecords})
	}
	w.hashes = current
}

func (w *watchWorker) scanSnapshot(ctx context.Context, emit bool) {
	snap, err := w.repo.ReadSnapshot(ctx)
	if err != nil {
		w.repo.logger.Debug("re-read snapshot failed", "error", err)
		return
	}
	current := make(map[core.MemID]struct{}, len(snap.Entries))
	for _, e := range snap.Entries {
		current[e.ID] = struct{}{}
		if _, seen := w.ids[e.ID]; !seen && emit {
			w.send(ctx, core.Event{Type: core.EventSnapshot, Store: core.StoreSnapshot, Key: string(e.ID), Summary: e.Summary})
		}
	}
	if emit && len(current) < len(w.ids) {
		w.send(ctx, core.Event{Type: core.EventRewrite, Store: core.StoreSnapshot})
	}
	w.ids = current
}

func (w *watchWorker) send(ctx context.Context, e core.Event) {
	e.Timestamp = time.Now().Unix()
	select {
	case w.events <- e:
	case <-ctx.Done():
	}
}
