// Package store declares the persistence ports and the error taxonomy shared
// by all backends. Collections are persisted whole: every mutation reads the
// collection, applies the change and writes the result back atomically.
package store

import (
	"context"
	"time"

	"wealthgrows/internal/core"
)

type (
	// TransactionStore is the durable id -> Transaction collection.
	TransactionStore interface {
		// ListTransactions returns all transactions sorted by date descending.
		// Ties keep insertion order, newest insert first.
		ListTransactions(ctx context.Context) ([]core.Transaction, error)

		// SaveTransaction inserts t and returns the updated full list. Every
		// call creates a new entry; an already-present id is rejected with
		// ErrDuplicateID, never merged.
		SaveTransaction(ctx context.Context, t core.Transaction) ([]core.Transaction, error)

		// DeleteTransaction removes the entry with the given id and returns
		// the updated list. A missing id is a no-op, not an error.
		DeleteTransaction(ctx context.Context, id string) ([]core.Transaction, error)
	}

	// CategoryStore is the durable id -> Category collection, insertion
	// ordered. Deleting a category never cascades to transactions: they keep
	// their snapshot fields.
	CategoryStore interface {
		// ListCategories returns all categories. On first access with no
		// persisted collection it seeds the built-in default set and persists
		// the seed before returning it.
		ListCategories(ctx context.Context) ([]core.Category, error)

		// AddCategory appends c and returns the updated full list. An
		// already-present id is rejected with ErrDuplicateID.
		AddCategory(ctx context.Context, c core.Category) ([]core.Category, error)

		// DeleteCategory removes by id; no-op when absent.
		DeleteCategory(ctx context.Context, id string) ([]core.Category, error)
	}

	// ReportStore persists generated report snapshots keyed by period label.
	ReportStore interface {
		SaveReport(ctx context.Context, r Report) error
		// GetReport returns ErrNotFound when no report exists for the period.
		GetReport(ctx context.Context, period string) (Report, error)
	}

	// Store is the full persistence surface a backend provides.
	Store interface {
		TransactionStore
		CategoryStore
		ReportStore
		Close() error
	}
)

// Report is a generated financial summary for one period.
type Report struct {
	ID          string    `json:"id"`
	Period      string    `json:"period"`
	Body        string    `json:"body"`
	GeneratedAt time.Time `json:"generatedAt"`
}
