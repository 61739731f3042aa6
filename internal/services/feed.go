package services

import (
	"context"
	"fmt"

	applog "madrasa/internal/log"
	"madrasa/internal/store"
)

// Feed layers the live snapshot contract on top of a store that only does
// persistence and point queries (the SQLite repository). Every republish
// delivers a complete replacement set, never a diff.
type Feed struct {
	lister store.TransactionWriter
	hub    *store.Hub
	logger *applog.Logger
}

var _ store.TransactionSource = (*Feed)(nil)

// NewFeed creates a feed over the given store and primes it with the
// current full set so subscribers do not start blind.
func NewFeed(ctx context.Context, lister store.TransactionWriter, logger *applog.Logger) (*Feed, error) {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	f := &Feed{
		lister: lister,
		hub:    store.NewHub(),
		logger: logger.WithComponent(applog.ComponentStorage),
	}
	if err := f.Republish(ctx); err != nil {
		return nil, fmt.Errorf("prime transaction feed: %w", err)
	}
	return f, nil
}

// SubscribeTransactions implements store.TransactionSource.
func (f *Feed) SubscribeTransactions(_ context.Context) (*store.Subscription, error) {
	return f.hub.Subscribe(), nil
}

// Republish queries the current full set and fans it out.
func (f *Feed) Republish(ctx context.Context) error {
	txs, err := f.lister.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}
	f.hub.Publish(store.Snapshot{Transactions: txs})
	f.logger.DebugContext(ctx, "Republished transaction snapshot",
		applog.FieldCount, len(txs))
	return nil
}

// Degrade marks the feed as lost so consumers can surface a stale state
// instead of silently freezing.
func (f *Feed) Degrade(ctx context.Context, err error) {
	f.logger.WarnContext(ctx, "Transaction feed degraded",
		applog.FieldError, err.Error())
	f.hub.Publish(store.Snapshot{Err: err})
}
