package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"wealthgrows/internal/core"
	"wealthgrows/internal/store"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func sampleTx(id string, date time.Time) core.Transaction {
	return core.Transaction{
		ID:           id,
		Amount:       core.Money{Cents: 1250},
		Type:         core.Expense,
		CategoryID:   "food",
		CategoryName: "Dining",
		Macro:        core.MacroDailyFood,
		Note:         "lunch",
		Date:         date,
	}
}

func TestSaveTransactionRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	want := sampleTx("t1", time.Date(2025, 5, 10, 8, 30, 0, 0, time.UTC))
	if _, err := s.SaveTransaction(ctx, want); err != nil {
		t.Fatalf("SaveTransaction: %v", err)
	}

	got, err := s.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(got))
	}
	if !got[0].Date.Equal(want.Date) {
		t.Fatalf("date changed in round trip: %v vs %v", got[0].Date, want.Date)
	}
	got[0].Date = want.Date
	if got[0] != want {
		t.Fatalf("transaction changed in round trip:\n got %+v\nwant %+v", got[0], want)
	}
}

func TestListTransactionsSortedDescending(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	day := func(d int) time.Time { return time.Date(2025, 4, d, 0, 0, 0, 0, time.UTC) }
	for _, tc := range []struct {
		id  string
		d   time.Time
	}{
		{"mid", day(15)},
		{"old", day(1)},
		{"new", day(28)},
		{"tie-first", day(15)},
	} {
		if _, err := s.SaveTransaction(ctx, sampleTx(tc.id, tc.d)); err != nil {
			t.Fatalf("save %s: %v", tc.id, err)
		}
	}

	got, err := s.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	// Descending by date; among the two day-15 entries the later insert
	// comes first.
	wantOrder := []string{"new", "tie-first", "mid", "old"}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Fatalf("position %d: got %s, want %s (full: %v)", i, got[i].ID, id, ids(got))
		}
	}
}

func TestSaveTransactionDuplicateID(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	tx := sampleTx("t1", time.Now())
	if _, err := s.SaveTransaction(ctx, tx); err != nil {
		t.Fatalf("first save: %v", err)
	}
	_, err := s.SaveTransaction(ctx, tx)
	if !errors.Is(err, store.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestDeleteTransactionIdempotent(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if _, err := s.SaveTransaction(ctx, sampleTx("t1", time.Now())); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Deleting an absent id leaves the collection unchanged.
	got, err := s.DeleteTransaction(ctx, "missing")
	if err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("delete of absent id changed collection: %v", ids(got))
	}

	// First delete removes, second is a no-op.
	if got, err = s.DeleteTransaction(ctx, "t1"); err != nil || len(got) != 0 {
		t.Fatalf("first delete: %v %v", ids(got), err)
	}
	if got, err = s.DeleteTransaction(ctx, "t1"); err != nil || len(got) != 0 {
		t.Fatalf("second delete should be a no-op: %v %v", ids(got), err)
	}
}

func TestListCategoriesSeedsDefaultsOnce(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	cats, err := s.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	defaults := core.DefaultCategories()
	if len(cats) != len(defaults) {
		t.Fatalf("expected %d seeded categories, got %d", len(defaults), len(cats))
	}

	// The seed must be persisted, not recomputed: delete one, reopen, and the
	// deletion must survive.
	if _, err := s.DeleteCategory(ctx, "food"); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	reopened, err := New(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	cats, err = reopened.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories after reopen: %v", err)
	}
	if len(cats) != len(defaults)-1 {
		t.Fatalf("seed re-applied after reopen: got %d categories", len(cats))
	}
	for _, c := range cats {
		if c.ID == "food" {
			t.Fatalf("deleted category came back after reopen")
		}
	}
}

func TestCategoryDeletionLeavesTransactionSnapshot(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if _, err := s.ListCategories(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	tx := sampleTx("t1", time.Now())
	if _, err := s.SaveTransaction(ctx, tx); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := s.DeleteCategory(ctx, tx.CategoryID); err != nil {
		t.Fatalf("delete category: %v", err)
	}

	got, err := s.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got[0].CategoryName != "Dining" || got[0].Macro != core.MacroDailyFood {
		t.Fatalf("snapshot fields changed after category deletion: %+v", got[0])
	}
}

func TestAddCategoryDuplicateID(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	c := core.Category{ID: "coffee", Name: "Coffee", Icon: "Coffee", Type: core.Expense, Macro: core.MacroEnjoyment}
	if _, err := s.AddCategory(ctx, c); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := s.AddCategory(ctx, c); !errors.Is(err, store.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	// The built-in ids are occupied too.
	if _, err := s.AddCategory(ctx, core.Category{ID: "food", Name: "x", Type: core.Expense, Macro: core.MacroDailyFood}); !errors.Is(err, store.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID for seeded id, got %v", err)
	}
}

func TestCorruptSnapshotSurfaces(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	if err := os.WriteFile(filepath.Join(dir, "transactions.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	if _, err := s.ListTransactions(ctx); !errors.Is(err, store.ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
	// Mutations must fail too instead of clobbering the corrupt snapshot.
	if _, err := s.SaveTransaction(ctx, sampleTx("t1", time.Now())); !errors.Is(err, store.ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt on save, got %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "transactions.json"))
	if err != nil || string(data) != "{not json" {
		t.Fatalf("corrupt snapshot was overwritten: %q %v", data, err)
	}
}

func TestConcurrentMutationsLoseNoUpdates(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tx := sampleTx(fmt.Sprintf("t%02d", i), time.Date(2025, 1, 1+i%28, 0, 0, 0, 0, time.UTC))
			if _, err := s.SaveTransaction(ctx, tx); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent save: %v", err)
	}

	got, err := s.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != n {
		t.Fatalf("lost updates: %d of %d transactions survived", len(got), n)
	}
}

func TestReportRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if _, err := s.GetReport(ctx, "2025-06"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	r := store.Report{ID: "r1", Period: "2025-06", Body: "steady month", GeneratedAt: time.Now().UTC()}
	if err := s.SaveReport(ctx, r); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	got, err := s.GetReport(ctx, "2025-06")
	if err != nil || got.Body != "steady month" {
		t.Fatalf("GetReport: %+v %v", got, err)
	}

	// Saving the same period replaces the snapshot.
	r.Body = "revised"
	if err := s.SaveReport(ctx, r); err != nil {
		t.Fatalf("SaveReport replace: %v", err)
	}
	got, _ = s.GetReport(ctx, "2025-06")
	if got.Body != "revised" {
		t.Fatalf("report not replaced: %q", got.Body)
	}
}

func ids(txs []core.Transaction) []string {
	out := make([]string, len(txs))
	for i, t := range txs {
		out[i] = t.ID
	}
	return out
}
