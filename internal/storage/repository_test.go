package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"madrasa/internal/core"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "madrasa.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRepositoryTransactions(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	id, err := repo.CreateTransaction(ctx, core.Transaction{
		Kind:        core.Income,
		Category:    core.StudentFees,
		Amount:      core.Money{Cents: 150000},
		Date:        core.NewDate(2024, time.January, 10),
		Description: "January fees",
		StudentID:   "stu-1",
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	txs, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("len = %d, want 1", len(txs))
	}
	got := txs[0]
	if got.ID != id || got.Kind != core.Income || got.Category != core.StudentFees {
		t.Errorf("round trip = %+v", got)
	}
	if got.Amount.Cents != 150000 || got.Date.String() != "2024-01-10" {
		t.Errorf("amount/date = %d / %s", got.Amount.Cents, got.Date)
	}
	if got.StudentID != "stu-1" || got.StaffID != "" {
		t.Errorf("links = %q / %q", got.StudentID, got.StaffID)
	}

	if err := repo.DeleteTransaction(ctx, id); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if err := repo.DeleteTransaction(ctx, id); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("second delete error = %v, want sql.ErrNoRows", err)
	}
}

func TestRepositoryTransactionsInRange(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	// Insert out of date order; same-day rows must keep insertion order.
	entries := []struct {
		date core.Date
		desc string
	}{
		{core.NewDate(2024, time.January, 20), "third"},
		{core.NewDate(2024, time.January, 5), "first"},
		{core.NewDate(2024, time.January, 20), "fourth"},
		{core.NewDate(2024, time.February, 2), "outside"},
	}
	for _, e := range entries {
		if _, err := repo.CreateTransaction(ctx, core.Transaction{
			Kind: core.Income, Category: core.Other,
			Amount: core.Money{Cents: 100}, Date: e.date, Description: e.desc,
		}); err != nil {
			t.Fatalf("CreateTransaction: %v", err)
		}
	}

	got, err := repo.TransactionsInRange(ctx,
		core.NewDate(2024, time.January, 1), core.NewDate(2024, time.January, 31))
	if err != nil {
		t.Fatalf("TransactionsInRange: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	wantOrder := []string{"first", "third", "fourth"}
	for i, want := range wantOrder {
		if got[i].Description != want {
			t.Errorf("row %d = %q, want %q", i, got[i].Description, want)
		}
	}

	// Both boundary dates are inclusive.
	got, err = repo.TransactionsInRange(ctx,
		core.NewDate(2024, time.January, 5), core.NewDate(2024, time.January, 20))
	if err != nil {
		t.Fatalf("TransactionsInRange: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("boundary range len = %d, want 3", len(got))
	}
}

func TestRepositoryStudents(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	id, err := repo.CreateStudent(ctx, core.Student{
		Code: "S-001", Name: "Abdul Karim", Class: "Hifz", Residency: "Residential",
	})
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}

	if err := repo.UpdateStudent(ctx, core.Student{
		ID: id, Code: "S-001", Name: "Abdul Karim", Class: "Nazera",
	}); err != nil {
		t.Fatalf("UpdateStudent: %v", err)
	}

	students, err := repo.ListStudents(ctx)
	if err != nil {
		t.Fatalf("ListStudents: %v", err)
	}
	if len(students) != 1 || students[0].Class != "Nazera" {
		t.Fatalf("ListStudents = %+v", students)
	}
	if students[0].CreatedAt.IsZero() {
		t.Errorf("CreatedAt not populated")
	}

	if err := repo.UpdateStudent(ctx, core.Student{ID: "missing"}); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("update missing error = %v, want sql.ErrNoRows", err)
	}
	if err := repo.DeleteStudent(ctx, id); err != nil {
		t.Fatalf("DeleteStudent: %v", err)
	}
	if err := repo.DeleteStudent(ctx, id); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("delete missing error = %v, want sql.ErrNoRows", err)
	}
}

func TestRepositoryStaffAndInventory(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	staffID, err := repo.CreateStaff(ctx, core.Staff{
		Name: "Maulana Yusuf", Designation: "Teacher", Salary: core.Money{Cents: 1200000},
	})
	if err != nil {
		t.Fatalf("CreateStaff: %v", err)
	}
	staff, err := repo.ListStaff(ctx)
	if err != nil {
		t.Fatalf("ListStaff: %v", err)
	}
	if len(staff) != 1 || staff[0].ID != staffID || staff[0].Salary.Cents != 1200000 {
		t.Fatalf("ListStaff = %+v", staff)
	}

	itemID, err := repo.CreateInventoryItem(ctx, core.InventoryItem{
		Name: "Rice", Quantity: 25.5, Unit: "kg",
	})
	if err != nil {
		t.Fatalf("CreateInventoryItem: %v", err)
	}
	if err := repo.UpdateInventoryItem(ctx, core.InventoryItem{
		ID: itemID, Name: "Rice", Quantity: 20, Unit: "kg",
	}); err != nil {
		t.Fatalf("UpdateInventoryItem: %v", err)
	}
	items, err := repo.ListInventory(ctx)
	if err != nil {
		t.Fatalf("ListInventory: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 20 {
		t.Fatalf("ListInventory = %+v", items)
	}
}

func TestRepositoryMigrationsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "madrasa.db")
	repo, err := NewRepository(dbPath)
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	repo.Close()

	// Reopening reruns the migration path against an up-to-date schema.
	repo, err = NewRepository(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	repo.Close()
}
