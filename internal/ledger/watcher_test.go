package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"madrasa/internal/core"
	"madrasa/internal/store/memory"
)

func waitForView(t *testing.T, w *Watcher, ok func(View) bool) View {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		v := w.Current()
		if ok(v) {
			return v
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("view never reached expected state, last: %+v", w.Current())
	return View{}
}

func TestWatcherLifecycle(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	w := NewWatcher(st, nil)
	if w.Current().State != StateLoading {
		t.Fatalf("initial state = %v, want loading", w.Current().State)
	}

	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop(ctx)

	// The store publishes an initial empty snapshot on creation.
	waitForView(t, w, func(v View) bool { return v.State == StateEmpty })

	_, err := st.CreateTransaction(ctx, core.Transaction{
		Kind:     core.Income,
		Category: core.DonationGeneral,
		Amount:   core.Money{Cents: 500000},
		Date:     core.DateOf(time.Now()),
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	v := waitForView(t, w, func(v View) bool { return v.State == StateReady })
	if v.Stats.CurrentCash.Cents != 500000 {
		t.Errorf("CurrentCash = %d, want 500000", v.Stats.CurrentCash.Cents)
	}
	if v.Stale {
		t.Errorf("fresh snapshot marked stale")
	}
}

func TestWatcherStartTwice(t *testing.T) {
	ctx := context.Background()
	w := NewWatcher(memory.New(), nil)
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop(ctx)

	if err := w.Start(ctx); err == nil {
		t.Fatalf("second Start succeeded, want error")
	}
}

func TestWatcherDegradedFeed(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	w := NewWatcher(st, nil)
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop(ctx)

	_, err := st.CreateTransaction(ctx, core.Transaction{
		Kind:     core.Income,
		Category: core.Other,
		Amount:   core.Money{Cents: 123400},
		Date:     core.DateOf(time.Now()),
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	waitForView(t, w, func(v View) bool { return v.State == StateReady })

	st.PublishDegraded(errors.New("listener detached"))

	v := waitForView(t, w, func(v View) bool { return v.Stale })
	if v.State != StateReady {
		t.Errorf("degraded view state = %v, want ready (last good data kept)", v.State)
	}
	if v.Stats.CurrentCash.Cents != 123400 {
		t.Errorf("degraded view lost aggregates: CurrentCash = %d", v.Stats.CurrentCash.Cents)
	}

	// A fresh snapshot clears the stale flag.
	_, err = st.CreateTransaction(ctx, core.Transaction{
		Kind:     core.Expense,
		Category: core.KitchenMarket,
		Amount:   core.Money{Cents: 3400},
		Date:     core.DateOf(time.Now()),
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	waitForView(t, w, func(v View) bool {
		return !v.Stale && v.Stats.CurrentCash.Cents == 120000
	})
}

func TestWatcherStop(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	w := NewWatcher(st, nil)
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitForView(t, w, func(v View) bool { return v.State == StateEmpty })

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := w.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	// Mutations after Stop must not be observed.
	if _, err := st.CreateTransaction(ctx, core.Transaction{
		Kind:     core.Income,
		Category: core.Other,
		Amount:   core.Money{Cents: 100},
		Date:     core.DateOf(time.Now()),
	}); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if v := w.Current(); v.State != StateEmpty {
		t.Errorf("view changed after Stop: %+v", v)
	}

	// Stop is idempotent.
	if err := w.Stop(ctx); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}
