package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"auction-engine/internal/models"
	"auction-engine/utils"
)

// DefaultWriteTimeout bounds one store call made by the writer
const DefaultWriteTimeout = 5 * time.Second

// SnapshotWriter takes snapshots from sessions without blocking them and
// writes them to a store in the background. Only the latest snapshot of each
// auction is written.
type SnapshotWriter struct {
	store   SnapshotStore
	timeout time.Duration

	mu      sync.Mutex
	pending map[string]models.Snapshot
	deletes map[string]struct{}
	wake    chan struct{}
}

// NewSnapshotWriter creates a writer over store
func NewSnapshotWriter(store SnapshotStore, timeout time.Duration) *SnapshotWriter {
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}
	return &SnapshotWriter{
		store:   store,
		timeout: timeout,
		pending: make(map[string]models.Snapshot),
		deletes: make(map[string]struct{}),
		wake:    make(chan struct{}, 1),
	}
}

// Enqueue replaces any unwritten snapshot of the same auction
func (w *SnapshotWriter) Enqueue(snap models.Snapshot) {
	w.mu.Lock()
	w.pending[snap.Auction.AuctionID] = snap
	delete(w.deletes, snap.Auction.AuctionID)
	w.mu.Unlock()
	w.signal()
}

// Forget drops an unwritten snapshot and deletes the stored one
func (w *SnapshotWriter) Forget(auctionID string) {
	w.mu.Lock()
	delete(w.pending, auctionID)
	w.deletes[auctionID] = struct{}{}
	w.mu.Unlock()
	w.signal()
}

func (w *SnapshotWriter) signal() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Run writes snapshots as they arrive until ctx is done, then flushes what is
// left.
func (w *SnapshotWriter) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			// ctx is already cancelled; the final flush runs on its own deadline
			if err := w.Flush(context.Background()); err != nil {
				utils.Error("repository: final snapshot flush failed", map[string]any{"error": err.Error()})
			}
			return nil
		case <-w.wake:
			if err := w.Flush(ctx); err != nil {
				utils.Warn("repository: snapshot flush failed", map[string]any{"error": err.Error()})
			}
		}
	}
}

// Flush writes everything queued so far. Failed saves are queued again unless
// a newer snapshot arrived meanwhile.
func (w *SnapshotWriter) Flush(ctx context.Context) error {
	w.mu.Lock()
	pending, deletes := w.pending, w.deletes
	w.pending = make(map[string]models.Snapshot)
	w.deletes = make(map[string]struct{})
	w.mu.Unlock()

	var errs []error
	for id := range deletes {
		if err := w.call(ctx, func(ctx context.Context) error { return w.store.Delete(ctx, id) }); err != nil {
			utils.Debug("repository: snapshot delete skipped", map[string]any{"auction_id": id, "error": err.Error()})
		}
	}
	for id, snap := range pending {
		snap := snap
		if err := w.call(ctx, func(ctx context.Context) error { return w.store.Save(ctx, snap) }); err != nil {
			errs = append(errs, err)
			w.requeue(id, snap)
		}
	}
	return errors.Join(errs...)
}

func (w *SnapshotWriter) call(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	return fn(ctx)
}

func (w *SnapshotWriter) requeue(id string, snap models.Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, newer := w.pending[id]; newer {
		return
	}
	if _, gone := w.deletes[id]; gone {
		return
	}
	w.pending[id] = snap
}

// Pending is the number of auctions with an unwritten snapshot
func (w *SnapshotWriter) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}
