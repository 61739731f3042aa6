// Package memory provides an in-memory document store with a live snapshot
// feed, used as the default backend and as a fake in tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"madrasa/internal/core"
	"madrasa/internal/store"
)

// ErrNotFound is returned when a document id does not exist.
var ErrNotFound = errors.New("document not found")

// Store keeps every collection in memory. Mutations to the transactions
// collection publish a fresh full snapshot to all live subscribers.
type Store struct {
	mu           sync.Mutex
	transactions []core.Transaction // insertion order preserved
	students     []core.Student
	staff        []core.Staff
	inventory    []core.InventoryItem

	hub *store.Hub
}

// Compile-time port conformance.
var (
	_ store.TransactionSource  = (*Store)(nil)
	_ store.TransactionQuerier = (*Store)(nil)
	_ store.TransactionWriter  = (*Store)(nil)
	_ store.StudentStore       = (*Store)(nil)
	_ store.StaffStore         = (*Store)(nil)
	_ store.InventoryStore     = (*Store)(nil)
)

// New creates an empty store and publishes the initial empty snapshot so
// subscribers can settle immediately instead of waiting for a mutation.
func New() *Store {
	s := &Store{hub: store.NewHub()}
	s.hub.Publish(store.Snapshot{})
	return s
}

// SubscribeTransactions implements store.TransactionSource.
func (s *Store) SubscribeTransactions(_ context.Context) (*store.Subscription, error) {
	return s.hub.Subscribe(), nil
}

// TransactionsInRange implements store.TransactionQuerier. The result is
// ordered by date ascending with insertion order as the stable tiebreaker.
func (s *Store) TransactionsInRange(_ context.Context, start, end core.Date) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if start.After(end) {
		return nil, nil
	}

	var out []core.Transaction
	for _, tx := range s.transactions {
		if tx.Date.Before(start) || tx.Date.After(end) {
			continue
		}
		out = append(out, tx)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

// CreateTransaction assigns a store id and publishes the updated snapshot.
func (s *Store) CreateTransaction(_ context.Context, tx core.Transaction) (string, error) {
	s.mu.Lock()
	tx.ID = uuid.NewString()
	s.transactions = append(s.transactions, tx)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.hub.Publish(snap)
	return tx.ID, nil
}

// DeleteTransaction removes the document outright; there is no tombstone.
func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	idx := -1
	for i, tx := range s.transactions {
		if tx.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.transactions = append(s.transactions[:idx], s.transactions[idx+1:]...)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.hub.Publish(snap)
	return nil
}

// ListTransactions returns a copy of the full set in insertion order.
func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out, nil
}

// PublishDegraded marks the live feed as lost while keeping the last good
// set attached, so consumers can show a stale indicator. Used in tests and
// by the change listener when the bus drops.
func (s *Store) PublishDegraded(err error) {
	s.mu.Lock()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	snap.Err = err
	s.hub.Publish(snap)
}

func (s *Store) snapshotLocked() store.Snapshot {
	txs := make([]core.Transaction, len(s.transactions))
	copy(txs, s.transactions)
	return store.Snapshot{Transactions: txs}
}

// CreateStudent implements store.StudentStore.
func (s *Store) CreateStudent(_ context.Context, st core.Student) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st.ID = uuid.NewString()
	s.students = append(s.students, st)
	return st.ID, nil
}

func (s *Store) UpdateStudent(_ context.Context, st core.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.students {
		if s.students[i].ID == st.ID {
			s.students[i] = st
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) DeleteStudent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.students {
		if s.students[i].ID == id {
			s.students = append(s.students[:i], s.students[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) ListStudents(_ context.Context) ([]core.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Student, len(s.students))
	copy(out, s.students)
	return out, nil
}

// CreateStaff implements store.StaffStore.
func (s *Store) CreateStaff(_ context.Context, st core.Staff) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st.ID = uuid.NewString()
	s.staff = append(s.staff, st)
	return st.ID, nil
}

func (s *Store) UpdateStaff(_ context.Context, st core.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.staff {
		if s.staff[i].ID == st.ID {
			s.staff[i] = st
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) DeleteStaff(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.staff {
		if s.staff[i].ID == id {
			s.staff = append(s.staff[:i], s.staff[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) ListStaff(_ context.Context) ([]core.Staff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Staff, len(s.staff))
	copy(out, s.staff)
	return out, nil
}

// CreateInventoryItem implements store.InventoryStore.
func (s *Store) CreateInventoryItem(_ context.Context, it core.InventoryItem) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it.ID = uuid.NewString()
	s.inventory = append(s.inventory, it)
	return it.ID, nil
}

func (s *Store) UpdateInventoryItem(_ context.Context, it core.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.inventory {
		if s.inventory[i].ID == it.ID {
			s.inventory[i] = it
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) DeleteInventoryItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.inventory {
		if s.inventory[i].ID == id {
			s.inventory = append(s.inventory[:i], s.inventory[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) ListInventory(_ context.Context) ([]core.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.InventoryItem, len(s.inventory))
	copy(out, s.inventory)
	return out, nil
}
