// Package report produces on-demand, date-range extracts of the ledger for
// statements and printing. Extracts are pull-based point-in-time views and
// carry no freshness guarantee relative to the live feed.
package report

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"madrasa/internal/core"
	applog "madrasa/internal/log"
	"madrasa/internal/store"
)

var (
	// ErrQueryFailed marks a failed store query. The previously displayed
	// extract is left untouched when it occurs.
	ErrQueryFailed = errors.New("report query failed")

	// ErrStaleResult marks a refresh that completed after a newer refresh
	// was issued; its result is discarded.
	ErrStaleResult = errors.New("stale report result discarded")
)

// Extract is an ordered date-range subset of the ledger with range-scoped
// totals. Rows are ordered by date ascending, insertion order as tiebreak.
type Extract struct {
	Start        core.Date
	End          core.Date
	Transactions []core.Transaction
	TotalIncome  core.Money
	TotalExpense core.Money
	Net          core.Money
	Skipped      int // malformed rows excluded from the totals
}

// Extractor re-queries the store on demand and keeps the last good extract
// so a failed refresh never erases a displayed report.
type Extractor struct {
	querier store.TransactionQuerier
	logger  *applog.Logger

	mu   sync.Mutex
	seq  uint64 // latest issued refresh token
	last *Extract
}

// NewExtractor creates an extractor over the given querier.
func NewExtractor(querier store.TransactionQuerier, logger *applog.Logger) *Extractor {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Extractor{
		querier: querier,
		logger:  logger.WithComponent(applog.ComponentReport),
	}
}

// Refresh queries transactions with date in [start, end] inclusive and
// computes range totals. start > end yields an empty extract with zero
// totals, not an error. A refresh that loses the race to a newer one
// returns ErrStaleResult and leaves the newer extract in place.
func (e *Extractor) Refresh(ctx context.Context, start, end core.Date) (Extract, error) {
	e.mu.Lock()
	e.seq++
	token := e.seq
	e.mu.Unlock()

	ext := Extract{Start: start, End: end}

	if !start.After(end) {
		txs, err := e.querier.TransactionsInRange(ctx, start, end)
		if err != nil {
			e.logger.ErrorContext(ctx, "Report query failed",
				applog.FieldRangeStart, start.String(),
				applog.FieldRangeEnd, end.String(),
				applog.FieldError, err.Error())
			return Extract{}, fmt.Errorf("%w: %v", ErrQueryFailed, err)
		}
		ext.Transactions = txs
		for _, tx := range txs {
			if tx.Amount.Cents <= 0 {
				ext.Skipped++
				continue
			}
			if tx.Kind == core.Income {
				ext.TotalIncome = ext.TotalIncome.Add(tx.Amount)
			} else {
				ext.TotalExpense = ext.TotalExpense.Add(tx.Amount)
			}
		}
		ext.Net = ext.TotalIncome.Sub(ext.TotalExpense)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if token != e.seq {
		return Extract{}, ErrStaleResult
	}
	e.last = &ext

	e.logger.DebugContext(ctx, "Report extract refreshed",
		applog.FieldRangeStart, start.String(),
		applog.FieldRangeEnd, end.String(),
		applog.FieldCount, len(ext.Transactions))
	return ext, nil
}

// Last returns the most recent good extract, if any.
func (e *Extractor) Last() (Extract, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.last == nil {
		return Extract{}, false
	}
	return *e.last, true
}
