package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"madrasa/internal/amqp"
	applog "madrasa/internal/log"
)

// ChangeListener consumes change notifications published by other processes
// and refreshes the local live feed. Losing the bus degrades the feed
// instead of freezing it silently.
type ChangeListener struct {
	bus    *amqp.Client
	feed   *Feed
	logger *applog.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	doneCh  chan struct{}
}

// NewChangeListener wires the listener; bus and feed must be non-nil.
func NewChangeListener(bus *amqp.Client, feed *Feed, logger *applog.Logger) *ChangeListener {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &ChangeListener{
		bus:    bus,
		feed:   feed,
		logger: logger.WithComponent(applog.ComponentListener),
	}
}

// Start begins consuming. Returns an error if already running.
func (l *ChangeListener) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return fmt.Errorf("change listener is already running")
	}
	l.running = true
	runCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.doneCh = make(chan struct{})
	l.mu.Unlock()

	go l.runLoop(runCtx)

	l.logger.InfoContext(ctx, "Change listener started")
	return nil
}

// Stop cancels consumption and waits for the loop to exit.
func (l *ChangeListener) Stop(ctx context.Context) error {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return nil
	}
	cancel := l.cancel
	done := l.doneCh
	l.mu.Unlock()

	cancel()

	select {
	case <-done:
		l.logger.InfoContext(ctx, "Change listener stopped")
	case <-ctx.Done():
		l.logger.WarnContext(ctx, "Change listener stop timed out")
		return ctx.Err()
	}

	l.mu.Lock()
	l.running = false
	l.mu.Unlock()
	return nil
}

func (l *ChangeListener) runLoop(ctx context.Context) {
	defer close(l.doneCh)

	err := l.bus.ConsumeChanges(ctx, func(msg *amqp.ChangeMessage) error {
		if msg.Collection != CollectionTransactions {
			// Roster and inventory snapshots are pulled on demand.
			return nil
		}
		return l.feed.Republish(ctx)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		l.feed.Degrade(ctx, fmt.Errorf("change bus lost: %w", err))
	}
}
