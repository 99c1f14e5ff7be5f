// Package jsonfile persists each collection as a single JSON array file under
// a data directory. Every mutation is a read-modify-write of the whole file
// under one lock, with an atomic tmp+rename write, so concurrent callers can
// never lose each other's updates.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"wealthgrows/internal/core"
	"wealthgrows/internal/store"
)

const (
	transactionsFile = "transactions.json"
	categoriesFile   = "categories.json"
	reportsFile      = "reports.json"
)

type Store struct {
	mu  sync.Mutex
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w: %v", dir, store.ErrUnavailable, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Close() error { return nil }

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadTransactions()
}

func (s *Store) SaveTransaction(ctx context.Context, t core.Transaction) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadTransactions()
	if err != nil {
		return nil, err
	}
	for _, existing := range current {
		if existing.ID == t.ID {
			return nil, fmt.Errorf("save transaction %s: %w", t.ID, store.ErrDuplicateID)
		}
	}

	// Prepend then stable-sort: among equal dates the newest insert wins the
	// earlier position, matching the descending-date list contract.
	updated := append([]core.Transaction{t}, current...)
	sort.SliceStable(updated, func(i, j int) bool {
		return updated[i].Date.After(updated[j].Date)
	})

	if err := s.write(transactionsFile, updated); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"type", t.Type,
		"amount_cents", t.Amount.Cents,
		"category", t.CategoryName)
	return updated, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadTransactions()
	if err != nil {
		return nil, err
	}
	updated := current[:0:0]
	for _, t := range current {
		if t.ID != id {
			updated = append(updated, t)
		}
	}
	if len(updated) == len(current) {
		// Idempotent: deleting an absent id leaves the collection untouched.
		return current, nil
	}
	if err := s.write(transactionsFile, updated); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return updated, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadCategoriesLocked(ctx)
}

func (s *Store) AddCategory(ctx context.Context, c core.Category) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadCategoriesLocked(ctx)
	if err != nil {
		return nil, err
	}
	for _, existing := range current {
		if existing.ID == c.ID {
			return nil, fmt.Errorf("add category %s: %w", c.ID, store.ErrDuplicateID)
		}
	}
	updated := append(append([]core.Category(nil), current...), c)
	if err := s.write(categoriesFile, updated); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Category added", "id", c.ID, "name", c.Name, "type", c.Type)
	return updated, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadCategoriesLocked(ctx)
	if err != nil {
		return nil, err
	}
	updated := current[:0:0]
	for _, c := range current {
		if c.ID != id {
			updated = append(updated, c)
		}
	}
	if len(updated) == len(current) {
		return current, nil
	}
	if err := s.write(categoriesFile, updated); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Category deleted", "id", id)
	return updated, nil
}

func (s *Store) SaveReport(_ context.Context, r store.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var reports []store.Report
	if err := s.read(reportsFile, &reports); err != nil {
		return err
	}
	replaced := false
	for i, existing := range reports {
		if existing.Period == r.Period {
			reports[i] = r
			replaced = true
			break
		}
	}
	if !replaced {
		reports = append(reports, r)
	}
	return s.write(reportsFile, reports)
}

func (s *Store) GetReport(_ context.Context, period string) (store.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var reports []store.Report
	if err := s.read(reportsFile, &reports); err != nil {
		return store.Report{}, err
	}
	for _, r := range reports {
		if r.Period == period {
			return r, nil
		}
	}
	return store.Report{}, fmt.Errorf("report for %s: %w", period, store.ErrNotFound)
}

// loadCategoriesLocked seeds and persists the built-in default set when no
// snapshot exists yet. Caller must hold the lock.
func (s *Store) loadCategoriesLocked(ctx context.Context) ([]core.Category, error) {
	path := filepath.Join(s.dir, categoriesFile)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		seed := core.DefaultCategories()
		if err := s.write(categoriesFile, seed); err != nil {
			return nil, err
		}
		slog.InfoContext(ctx, "Seeded default categories", "count", len(seed))
		return seed, nil
	}
	var cats []core.Category
	if err := s.read(categoriesFile, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (s *Store) loadTransactions() ([]core.Transaction, error) {
	var txs []core.Transaction
	if err := s.read(transactionsFile, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// read unmarshals a collection file into out. A missing file is an empty
// collection; an unreadable file is ErrUnavailable; an unparseable file is
// ErrCorrupt and is never silently replaced.
func (s *Store) read(name string, out any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w: %v", name, store.ErrUnavailable, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w: %v", name, store.ErrCorrupt, err)
	}
	return nil
}

func (s *Store) write(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w: %v", name, store.ErrUnavailable, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w: %v", name, store.ErrUnavailable, err)
	}
	return nil
}
