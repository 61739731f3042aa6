// Package services orchestrates record mutations: validate, persist,
// republish the live snapshot, and notify other processes over AMQP.
package services

import (
	"context"
	"fmt"

	"madrasa/internal/amqp"
	"madrasa/internal/core"
	applog "madrasa/internal/log"
	"madrasa/internal/store"
)

// Collection names used in change notifications.
const (
	CollectionTransactions = "transactions"
	CollectionStudents     = "students"
	CollectionStaff        = "staff"
	CollectionInventory    = "inventory"
)

// RecordService is the write path for all four collections. Persistence
// comes first; snapshot republish and bus notification follow, and neither
// of those may fail the write (the document is already durable).
type RecordService struct {
	txs       store.TransactionWriter
	students  store.StudentStore
	staff     store.StaffStore
	inventory store.InventoryStore

	feed   *Feed        // nil when the store publishes its own snapshots
	bus    *amqp.Client // nil when running without a broker
	logger *applog.Logger
}

// NewRecordService wires the write path. feed and bus may be nil.
func NewRecordService(
	txs store.TransactionWriter,
	students store.StudentStore,
	staff store.StaffStore,
	inventory store.InventoryStore,
	feed *Feed,
	bus *amqp.Client,
	logger *applog.Logger,
) *RecordService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &RecordService{
		txs:       txs,
		students:  students,
		staff:     staff,
		inventory: inventory,
		feed:      feed,
		bus:       bus,
		logger:    logger.WithComponent(applog.ComponentRecords),
	}
}

// CreateTransaction validates and persists a new ledger entry, then pushes
// the updated snapshot to live subscribers.
func (s *RecordService) CreateTransaction(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", fmt.Errorf("validate transaction: %w", err)
	}

	id, err := s.txs.CreateTransaction(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("save transaction: %w", err)
	}

	s.afterWrite(ctx, CollectionTransactions, id, amqp.OpCreate)
	return id, nil
}

// DeleteTransaction removes an entry outright. Live subscribers observe the
// deletion only as the item missing from the next snapshot.
func (s *RecordService) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.txs.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.afterWrite(ctx, CollectionTransactions, id, amqp.OpDelete)
	return nil
}

// ListTransactions exposes the full set for the accounting page.
func (s *RecordService) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return s.txs.ListTransactions(ctx)
}

func (s *RecordService) CreateStudent(ctx context.Context, st core.Student) (string, error) {
	if err := st.Validate(); err != nil {
		return "", fmt.Errorf("validate student: %w", err)
	}
	id, err := s.students.CreateStudent(ctx, st)
	if err != nil {
		return "", fmt.Errorf("save student: %w", err)
	}
	s.notify(ctx, CollectionStudents, id, amqp.OpCreate)
	return id, nil
}

func (s *RecordService) UpdateStudent(ctx context.Context, st core.Student) error {
	if err := st.Validate(); err != nil {
		return fmt.Errorf("validate student: %w", err)
	}
	if err := s.students.UpdateStudent(ctx, st); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	s.notify(ctx, CollectionStudents, st.ID, amqp.OpUpdate)
	return nil
}

func (s *RecordService) DeleteStudent(ctx context.Context, id string) error {
	if err := s.students.DeleteStudent(ctx, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	s.notify(ctx, CollectionStudents, id, amqp.OpDelete)
	return nil
}

func (s *RecordService) ListStudents(ctx context.Context) ([]core.Student, error) {
	return s.students.ListStudents(ctx)
}

func (s *RecordService) CreateStaff(ctx context.Context, st core.Staff) (string, error) {
	if err := st.Validate(); err != nil {
		return "", fmt.Errorf("validate staff: %w", err)
	}
	id, err := s.staff.CreateStaff(ctx, st)
	if err != nil {
		return "", fmt.Errorf("save staff: %w", err)
	}
	s.notify(ctx, CollectionStaff, id, amqp.OpCreate)
	return id, nil
}

func (s *RecordService) UpdateStaff(ctx context.Context, st core.Staff) error {
	if err := st.Validate(); err != nil {
		return fmt.Errorf("validate staff: %w", err)
	}
	if err := s.staff.UpdateStaff(ctx, st); err != nil {
		return fmt.Errorf("update staff: %w", err)
	}
	s.notify(ctx, CollectionStaff, st.ID, amqp.OpUpdate)
	return nil
}

func (s *RecordService) DeleteStaff(ctx context.Context, id string) error {
	if err := s.staff.DeleteStaff(ctx, id); err != nil {
		return fmt.Errorf("delete staff: %w", err)
	}
	s.notify(ctx, CollectionStaff, id, amqp.OpDelete)
	return nil
}

func (s *RecordService) ListStaff(ctx context.Context) ([]core.Staff, error) {
	return s.staff.ListStaff(ctx)
}

func (s *RecordService) CreateInventoryItem(ctx context.Context, it core.InventoryItem) (string, error) {
	if err := it.Validate(); err != nil {
		return "", fmt.Errorf("validate inventory item: %w", err)
	}
	id, err := s.inventory.CreateInventoryItem(ctx, it)
	if err != nil {
		return "", fmt.Errorf("save inventory item: %w", err)
	}
	s.notify(ctx, CollectionInventory, id, amqp.OpCreate)
	return id, nil
}

func (s *RecordService) UpdateInventoryItem(ctx context.Context, it core.InventoryItem) error {
	if err := it.Validate(); err != nil {
		return fmt.Errorf("validate inventory item: %w", err)
	}
	if err := s.inventory.UpdateInventoryItem(ctx, it); err != nil {
		return fmt.Errorf("update inventory item: %w", err)
	}
	s.notify(ctx, CollectionInventory, it.ID, amqp.OpUpdate)
	return nil
}

func (s *RecordService) DeleteInventoryItem(ctx context.Context, id string) error {
	if err := s.inventory.DeleteInventoryItem(ctx, id); err != nil {
		return fmt.Errorf("delete inventory item: %w", err)
	}
	s.notify(ctx, CollectionInventory, id, amqp.OpDelete)
	return nil
}

func (s *RecordService) ListInventory(ctx context.Context) ([]core.InventoryItem, error) {
	return s.inventory.ListInventory(ctx)
}

// afterWrite republishes the transaction snapshot and notifies the bus.
func (s *RecordService) afterWrite(ctx context.Context, collection, id, op string) {
	if s.feed != nil {
		if err := s.feed.Republish(ctx); err != nil {
			s.logger.ErrorContext(ctx, "Failed to republish snapshot after write",
				applog.FieldCollection, collection,
				applog.FieldDocumentID, id,
				applog.FieldError, err.Error())
		}
	}
	s.notify(ctx, collection, id, op)
}

// notify publishes a change message. Publish failures are logged and
// swallowed: the write already succeeded locally.
func (s *RecordService) notify(ctx context.Context, collection, id, op string) {
	if s.bus == nil {
		return
	}
	if err := s.bus.PublishChange(ctx, amqp.NewChangeMessage(collection, id, op)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish change notification",
			applog.FieldCollection, collection,
			applog.FieldDocumentID, id,
			applog.FieldOperation, op,
			applog.FieldError, err.Error())
	}
}
