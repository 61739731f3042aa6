// Package store defines the ports the ledger core needs from the document
// store: a live snapshot subscription, a range point-query, and the record
// CRUD surfaces used by the administration modules.
package store

import (
	"context"

	"madrasa/internal/core"
)

// Snapshot is a complete replacement view of the transactions collection.
// The feed never delivers diffs: deletions are observed only as an item no
// longer present in the current set. A non-nil Err marks the feed as
// degraded; any transactions carried alongside are the last known good set.
type Snapshot struct {
	Transactions []core.Transaction
	Err          error
}

// Ports for the document store adapters.
type (
	// TransactionSource delivers live full-set snapshots. Callers must
	// release the returned subscription when the consuming view is torn
	// down; a leaked subscription is a defect.
	TransactionSource interface {
		SubscribeTransactions(ctx context.Context) (*Subscription, error)
	}

	// TransactionQuerier answers one-shot range queries, ordered ascending
	// by date with store insertion order as the stable tiebreaker.
	TransactionQuerier interface {
		TransactionsInRange(ctx context.Context, start, end core.Date) ([]core.Transaction, error)
	}

	// TransactionWriter is used by the accounting entry module, never by the
	// ledger core itself.
	TransactionWriter interface {
		CreateTransaction(ctx context.Context, tx core.Transaction) (string, error)
		DeleteTransaction(ctx context.Context, id string) error
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	// StudentStore is the roster CRUD surface for students.
	StudentStore interface {
		CreateStudent(ctx context.Context, s core.Student) (string, error)
		UpdateStudent(ctx context.Context, s core.Student) error
		DeleteStudent(ctx context.Context, id string) error
		ListStudents(ctx context.Context) ([]core.Student, error)
	}

	// StaffStore is the roster CRUD surface for staff.
	StaffStore interface {
		CreateStaff(ctx context.Context, s core.Staff) (string, error)
		UpdateStaff(ctx context.Context, s core.Staff) error
		DeleteStaff(ctx context.Context, id string) error
		ListStaff(ctx context.Context) ([]core.Staff, error)
	}

	// InventoryStore is the kitchen stock CRUD surface.
	InventoryStore interface {
		CreateInventoryItem(ctx context.Context, it core.InventoryItem) (string, error)
		UpdateInventoryItem(ctx context.Context, it core.InventoryItem) error
		DeleteInventoryItem(ctx context.Context, id string) error
		ListInventory(ctx context.Context) ([]core.InventoryItem, error)
	}
)
