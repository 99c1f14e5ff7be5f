// Package sqlite persists the ledger in a local SQLite database. Each
// mutation runs inside a single SQL transaction, preserving the same
// read-modify-write atomicity the JSON snapshot backend provides with
// its collection lock.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"wealthgrows/internal/core"
	"wealthgrows/internal/store"

	_ "modernc.org/sqlite"
)

const seededKey = "categories_seeded"

// dateFormat is fixed width (nine fractional digits, normalized to UTC) so
// lexicographic order on the date column matches temporal order. RFC3339Nano
// trims trailing zeros, which would sort "10:00:05Z" after "10:00:05.5Z".
const dateFormat = "2006-01-02T15:04:05.000000000Z"

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w: %v", store.ErrUnavailable, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w: %v", store.ErrUnavailable, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w: %v", store.ErrUnavailable, err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, amount_cents, type, category_id, category_name, macro_category, note, date
		FROM transactions
		ORDER BY date DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w: %v", store.ErrUnavailable, err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (s *Store) SaveTransaction(ctx context.Context, t core.Transaction) ([]core.Transaction, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin save transaction: %w: %v", store.ErrUnavailable, err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM transactions WHERE id = ?)`, t.ID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check transaction id: %w: %v", store.ErrUnavailable, err)
	}
	if exists {
		return nil, fmt.Errorf("save transaction %s: %w", t.ID, store.ErrDuplicateID)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO transactions (id, amount_cents, type, category_id, category_name, macro_category, note, date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Amount.Cents, string(t.Type), t.CategoryID, t.CategoryName,
		string(t.Macro), t.Note, t.Date.UTC().Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w: %v", store.ErrUnavailable, err)
	}

	updated, err := listTransactionsTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit save transaction: %w: %v", store.ErrUnavailable, err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"type", t.Type,
		"amount_cents", t.Amount.Cents,
		"category", t.CategoryName)
	return updated, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) ([]core.Transaction, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin delete transaction: %w: %v", store.ErrUnavailable, err)
	}
	defer tx.Rollback()

	// Absent ids delete zero rows; that is a no-op, not an error.
	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("delete transaction: %w: %v", store.ErrUnavailable, err)
	}
	updated, err := listTransactionsTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit delete transaction: %w: %v", store.ErrUnavailable, err)
	}
	return updated, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]core.Category, error) {
	if err := s.seedCategoriesIfNeeded(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, icon, type, macro_category
		FROM categories
		ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w: %v", store.ErrUnavailable, err)
	}
	defer rows.Close()
	return scanCategories(rows)
}

func (s *Store) AddCategory(ctx context.Context, c core.Category) ([]core.Category, error) {
	if err := s.seedCategoriesIfNeeded(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin add category: %w: %v", store.ErrUnavailable, err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE id = ?)`, c.ID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check category id: %w: %v", store.ErrUnavailable, err)
	}
	if exists {
		return nil, fmt.Errorf("add category %s: %w", c.ID, store.ErrDuplicateID)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO categories (id, name, icon, type, macro_category)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Icon, string(c.Type), string(c.Macro))
	if err != nil {
		return nil, fmt.Errorf("insert category: %w: %v", store.ErrUnavailable, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit add category: %w: %v", store.ErrUnavailable, err)
	}

	slog.InfoContext(ctx, "Category added", "id", c.ID, "name", c.Name, "type", c.Type)
	return s.ListCategories(ctx)
}

func (s *Store) DeleteCategory(ctx context.Context, id string) ([]core.Category, error) {
	if err := s.seedCategoriesIfNeeded(ctx); err != nil {
		return nil, err
	}
	// No cascade: transactions keep their snapshot fields.
	if _, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("delete category: %w: %v", store.ErrUnavailable, err)
	}
	return s.ListCategories(ctx)
}

func (s *Store) SaveReport(ctx context.Context, r store.Report) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reports (period, id, body, generated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(period) DO UPDATE SET id = excluded.id, body = excluded.body, generated_at = excluded.generated_at`,
		r.Period, r.ID, r.Body, r.GeneratedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save report: %w: %v", store.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) GetReport(ctx context.Context, period string) (store.Report, error) {
	var (
		r       store.Report
		rawTime string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT period, id, body, generated_at FROM reports WHERE period = ?`, period).
		Scan(&r.Period, &r.ID, &r.Body, &rawTime)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Report{}, fmt.Errorf("report for %s: %w", period, store.ErrNotFound)
	}
	if err != nil {
		return store.Report{}, fmt.Errorf("get report: %w: %v", store.ErrUnavailable, err)
	}
	if r.GeneratedAt, err = time.Parse(time.RFC3339Nano, rawTime); err != nil {
		return store.Report{}, fmt.Errorf("parse report timestamp %q: %w: %v", rawTime, store.ErrCorrupt, err)
	}
	return r, nil
}

// seedCategoriesIfNeeded inserts the built-in default set exactly once. The
// meta flag distinguishes "never seeded" from "user deleted everything", so
// an emptied collection is never re-seeded.
func (s *Store) seedCategoriesIfNeeded(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w: %v", store.ErrUnavailable, err)
	}
	defer tx.Rollback()

	var seeded bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM meta WHERE key = ?)`, seededKey).Scan(&seeded)
	if err != nil {
		return fmt.Errorf("check seed flag: %w: %v", store.ErrUnavailable, err)
	}
	if seeded {
		return nil
	}

	for _, c := range core.DefaultCategories() {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO categories (id, name, icon, type, macro_category)
			VALUES (?, ?, ?, ?, ?)`,
			c.ID, c.Name, c.Icon, string(c.Type), string(c.Macro))
		if err != nil {
			return fmt.Errorf("seed category %s: %w: %v", c.ID, store.ErrUnavailable, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES (?, '1')`, seededKey); err != nil {
		return fmt.Errorf("set seed flag: %w: %v", store.ErrUnavailable, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w: %v", store.ErrUnavailable, err)
	}

	slog.InfoContext(ctx, "Seeded default categories", "count", len(core.DefaultCategories()))
	return nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listTransactionsTx(ctx context.Context, q querier) ([]core.Transaction, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, amount_cents, type, category_id, category_name, macro_category, note, date
		FROM transactions
		ORDER BY date DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w: %v", store.ErrUnavailable, err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func scanTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		var (
			t       core.Transaction
			typ     string
			macro   string
			rawDate string
		)
		if err := rows.Scan(&t.ID, &t.Amount.Cents, &typ, &t.CategoryID,
			&t.CategoryName, &macro, &t.Note, &rawDate); err != nil {
			return nil, fmt.Errorf("scan transaction: %w: %v", store.ErrUnavailable, err)
		}
		date, err := time.Parse(time.RFC3339Nano, rawDate)
		if err != nil {
			return nil, fmt.Errorf("parse transaction date %q: %w: %v", rawDate, store.ErrCorrupt, err)
		}
		t.Type = core.TransactionType(typ)
		t.Macro = core.MacroCategory(macro)
		t.Date = date
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w: %v", store.ErrUnavailable, err)
	}
	return out, nil
}

func scanCategories(rows *sql.Rows) ([]core.Category, error) {
	var out []core.Category
	for rows.Next() {
		var (
			c     core.Category
			typ   string
			macro string
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &typ, &macro); err != nil {
			return nil, fmt.Errorf("scan category: %w: %v", store.ErrUnavailable, err)
		}
		c.Type = core.TransactionType(typ)
		c.Macro = core.MacroCategory(macro)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w: %v", store.ErrUnavailable, err)
	}
	return out, nil
}
