package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wealthgrows/internal/core"
	"wealthgrows/internal/store"
)

// ErrUnknownCategory is returned when a transaction references a category id
// that is not in the collection.
var ErrUnknownCategory = errors.New("unknown category")

// LedgerService orchestrates transaction and category mutations on top of a
// Store. It mints ids, resolves category snapshots and validates before
// anything touches persistence.
type LedgerService struct {
	store store.Store
}

func NewLedgerService(s store.Store) *LedgerService {
	return &LedgerService{store: s}
}

// NewTransactionInput carries the user-provided fields of a new transaction.
type NewTransactionInput struct {
	Amount     core.Money
	Type       core.TransactionType // empty means derive from the category
	CategoryID string
	// CategoryName overrides the category's display name for this
	// transaction only. Empty means copy the category's current name.
	CategoryName string
	Note         string
	Date         time.Time
}

// RecordTransaction creates a transaction from in and returns it together
// with the updated full list. The category's name and macro are copied into
// the transaction at this point; later category edits or deletions never
// touch it.
func (s *LedgerService) RecordTransaction(ctx context.Context, in NewTransactionInput) (core.Transaction, []core.Transaction, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return core.Transaction{}, nil, fmt.Errorf("list categories: %w", err)
	}

	var category *core.Category
	for i := range categories {
		if categories[i].ID == in.CategoryID {
			category = &categories[i]
			break
		}
	}
	if category == nil {
		return core.Transaction{}, nil, fmt.Errorf("%w: %q", ErrUnknownCategory, in.CategoryID)
	}

	t := core.Transaction{
		ID:           uuid.NewString(),
		Amount:       in.Amount,
		Type:         in.Type,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		Macro:        category.Macro,
		Note:         in.Note,
		Date:         in.Date,
	}
	if t.Type == "" {
		t.Type = category.Type
	}
	if in.CategoryName != "" {
		t.CategoryName = in.CategoryName
	}
	if t.Date.IsZero() {
		t.Date = time.Now()
	}

	if err := t.Validate(); err != nil {
		return core.Transaction{}, nil, err
	}

	all, err := s.store.SaveTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, nil, fmt.Errorf("save transaction: %w", err)
	}
	return t, all, nil
}

// DeleteTransaction removes the transaction with the given id. Deleting an
// absent id succeeds.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) ([]core.Transaction, error) {
	all, err := s.store.DeleteTransaction(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete transaction: %w", err)
	}
	return all, nil
}

func (s *LedgerService) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx)
}

// NewCategoryInput carries the user-provided fields of a new category.
type NewCategoryInput struct {
	Name  string
	Icon  string
	Type  core.TransactionType
	Macro core.MacroCategory
}

// AddCategory creates a category from in and returns it together with the
// updated full list.
func (s *LedgerService) AddCategory(ctx context.Context, in NewCategoryInput) (core.Category, []core.Category, error) {
	c := core.Category{
		ID:    uuid.NewString(),
		Name:  in.Name,
		Icon:  in.Icon,
		Type:  in.Type,
		Macro: in.Macro,
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, nil, err
	}

	all, err := s.store.AddCategory(ctx, c)
	if err != nil {
		return core.Category{}, nil, fmt.Errorf("add category: %w", err)
	}
	return c, all, nil
}

// DeleteCategory removes the category with the given id. Transactions that
// reference it keep their snapshot of its name and macro.
func (s *LedgerService) DeleteCategory(ctx context.Context, id string) ([]core.Category, error) {
	all, err := s.store.DeleteCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete category: %w", err)
	}
	return all, nil
}

func (s *LedgerService) ListCategories(ctx context.Context) ([]core.Category, error) {
	return s.store.ListCategories(ctx)
}
