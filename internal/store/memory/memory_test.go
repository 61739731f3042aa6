package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"madrasa/internal/core"
)

func TestStoreTransactionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := New()

	id, err := st.CreateTransaction(ctx, core.Transaction{
		Kind:     core.Income,
		Category: core.DonationGeneral,
		Amount:   core.Money{Cents: 150000},
		Date:     core.NewDate(2024, time.January, 10),
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if id == "" {
		t.Fatalf("CreateTransaction returned empty id")
	}

	txs, err := st.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(txs) != 1 || txs[0].ID != id {
		t.Fatalf("ListTransactions = %+v", txs)
	}

	if err := st.DeleteTransaction(ctx, id); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if err := st.DeleteTransaction(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestStoreTransactionsInRange(t *testing.T) {
	ctx := context.Background()
	st := New()

	// Insert out of date order to exercise the sort.
	dates := []core.Date{
		core.NewDate(2024, time.January, 20),
		core.NewDate(2024, time.January, 5),
		core.NewDate(2024, time.February, 1),
	}
	for _, d := range dates {
		if _, err := st.CreateTransaction(ctx, core.Transaction{
			Kind: core.Income, Category: core.Other,
			Amount: core.Money{Cents: 100}, Date: d,
		}); err != nil {
			t.Fatalf("CreateTransaction: %v", err)
		}
	}

	got, err := st.TransactionsInRange(ctx,
		core.NewDate(2024, time.January, 1), core.NewDate(2024, time.January, 31))
	if err != nil {
		t.Fatalf("TransactionsInRange: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Date.After(got[1].Date) {
		t.Errorf("rows not sorted by date: %s, %s", got[0].Date, got[1].Date)
	}

	inverted, err := st.TransactionsInRange(ctx,
		core.NewDate(2024, time.February, 1), core.NewDate(2024, time.January, 1))
	if err != nil || len(inverted) != 0 {
		t.Errorf("inverted range = %v, %v; want empty, nil", inverted, err)
	}
}

func TestStorePublishesSnapshots(t *testing.T) {
	ctx := context.Background()
	st := New()

	sub, err := st.SubscribeTransactions(ctx)
	if err != nil {
		t.Fatalf("SubscribeTransactions: %v", err)
	}
	defer sub.Unsubscribe()

	// Initial empty snapshot is replayed to the late subscriber.
	snap := <-sub.C()
	if len(snap.Transactions) != 0 || snap.Err != nil {
		t.Fatalf("initial snapshot = %+v", snap)
	}

	if _, err := st.CreateTransaction(ctx, core.Transaction{
		Kind: core.Income, Category: core.Other,
		Amount: core.Money{Cents: 100}, Date: core.NewDate(2024, time.January, 1),
	}); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	snap = <-sub.C()
	if len(snap.Transactions) != 1 {
		t.Fatalf("snapshot after create = %+v", snap)
	}

	st.PublishDegraded(errors.New("bus lost"))
	snap = <-sub.C()
	if snap.Err == nil {
		t.Errorf("degraded snapshot carries no error")
	}
	if len(snap.Transactions) != 1 {
		t.Errorf("degraded snapshot lost the last good set: %+v", snap)
	}
}

func TestStoreStudentCRUD(t *testing.T) {
	ctx := context.Background()
	st := New()

	id, err := st.CreateStudent(ctx, core.Student{Name: "Abdul Karim", Code: "S-001"})
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}

	if err := st.UpdateStudent(ctx, core.Student{ID: id, Name: "Abdul Karim", Code: "S-001", Class: "Hifz"}); err != nil {
		t.Fatalf("UpdateStudent: %v", err)
	}

	students, err := st.ListStudents(ctx)
	if err != nil {
		t.Fatalf("ListStudents: %v", err)
	}
	if len(students) != 1 || students[0].Class != "Hifz" {
		t.Fatalf("ListStudents = %+v", students)
	}

	if err := st.UpdateStudent(ctx, core.Student{ID: "missing", Name: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("update missing: error = %v, want ErrNotFound", err)
	}
	if err := st.DeleteStudent(ctx, id); err != nil {
		t.Fatalf("DeleteStudent: %v", err)
	}
	if err := st.DeleteStudent(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete missing: error = %v, want ErrNotFound", err)
	}
}

func TestStoreListCopies(t *testing.T) {
	ctx := context.Background()
	st := New()

	if _, err := st.CreateStaff(ctx, core.Staff{Name: "Maulana Yusuf"}); err != nil {
		t.Fatalf("CreateStaff: %v", err)
	}

	a, _ := st.ListStaff(ctx)
	a[0].Name = "mutated"

	b, _ := st.ListStaff(ctx)
	if b[0].Name != "Maulana Yusuf" {
		t.Errorf("ListStaff exposed internal state: %+v", b[0])
	}
}
