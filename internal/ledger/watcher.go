package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	applog "madrasa/internal/log"
	"madrasa/internal/store"
)

// State is the lifecycle of the aggregated view. Loading means no snapshot
// has arrived yet; Empty means the latest snapshot had no transactions;
// Ready means aggregates are derived from a non-empty set.
type State string

const (
	StateLoading State = "loading"
	StateEmpty   State = "empty"
	StateReady   State = "ready"
)

// View is what consumers read. Stale is set when the live feed degraded;
// the aggregates then reflect the last good snapshot rather than nothing.
type View struct {
	State State
	Stats Stats
	Stale bool
}

// Watcher owns the live subscription lifecycle and keeps the latest derived
// state. Snapshots are handled to completion one at a time; a snapshot
// delivered while a previous one is being applied simply wins afterwards.
type Watcher struct {
	source store.TransactionSource
	logger *applog.Logger
	now    func() time.Time

	mu      sync.Mutex
	view    View
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a watcher over the given live source.
func NewWatcher(source store.TransactionSource, logger *applog.Logger) *Watcher {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Watcher{
		source: source,
		logger: logger.WithComponent(applog.ComponentLedger),
		now:    time.Now,
		view:   View{State: StateLoading},
	}
}

// Start subscribes and begins consuming snapshots. Returns an error if
// already running or if the subscription cannot be established.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("ledger watcher is already running")
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	sub, err := w.source.SubscribeTransactions(ctx)
	if err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return fmt.Errorf("subscribe transactions: %w", err)
	}

	go w.runLoop(ctx, sub)

	w.logger.InfoContext(ctx, "Ledger watcher started")
	return nil
}

// Stop releases the subscription and waits for the loop to drain. After it
// returns no further snapshots are processed.
func (w *Watcher) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	close(w.stopCh)

	select {
	case <-w.doneCh:
		w.logger.InfoContext(ctx, "Ledger watcher stopped")
	case <-ctx.Done():
		w.logger.WarnContext(ctx, "Ledger watcher stop timed out")
		return ctx.Err()
	}

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
	return nil
}

// Current returns the latest derived view.
func (w *Watcher) Current() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.view
}

func (w *Watcher) runLoop(ctx context.Context, sub *store.Subscription) {
	defer close(w.doneCh)
	defer sub.Unsubscribe()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		case snap, ok := <-sub.C():
			if !ok {
				// Feed closed under us: degrade rather than freeze silently.
				w.markStale(ctx, fmt.Errorf("subscription channel closed"))
				return
			}
			if snap.Err != nil {
				w.markStale(ctx, snap.Err)
				continue
			}
			w.apply(ctx, snap)
		}
	}
}

// apply replaces the derived state from a complete snapshot. The previous
// state is never patched, so deletions need no dedicated event.
func (w *Watcher) apply(ctx context.Context, snap store.Snapshot) {
	stats := Summarize(snap.Transactions, w.now())

	state := StateReady
	if len(snap.Transactions) == 0 {
		state = StateEmpty
	}

	if stats.Skipped > 0 {
		w.logger.WarnContext(ctx, "Skipped malformed ledger records",
			applog.FieldSkipped, stats.Skipped,
			applog.FieldCount, len(snap.Transactions))
	}

	w.mu.Lock()
	w.view = View{State: state, Stats: stats}
	w.mu.Unlock()
}

func (w *Watcher) markStale(ctx context.Context, err error) {
	w.logger.WarnContext(ctx, "Live transaction feed degraded",
		applog.FieldError, err.Error())

	w.mu.Lock()
	w.view.Stale = true
	w.mu.Unlock()
}
