// Package sqlite implements the Record Store on a local SQLite database.
// Amounts are stored as decimal text so values survive round trips exactly.
// Save keeps the full-table-rewrite semantics of the file store by
// replacing every row inside one transaction.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/peter4652k/debttracker/internal/core"
	"github.com/peter4652k/debttracker/internal/store"
)

type Store struct {
	db *sql.DB
}

var _ store.TableStore = (*Store)(nil)

func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
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

func (s *Store) Load(ctx context.Context) (core.Table, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, name, amount_owed, balance_paid, balance_today, status
		 FROM customers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	table := core.Table{}
	for rows.Next() {
		var date, name, owed, paid, today, status string
		if err := rows.Scan(&date, &name, &owed, &paid, &today, &status); err != nil {
			return nil, fmt.Errorf("scan customer row: %w", err)
		}
		table = append(table, core.CustomerRecord{
			Date:         parseDate(date),
			Name:         name,
			AmountOwed:   parseAmount(owed),
			BalancePaid:  parseAmount(paid),
			BalanceToday: parseAmount(today),
			Status:       core.Status(status),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customer rows: %w", err)
	}
	return table.Normalize(), nil
}

func (s *Store) Save(ctx context.Context, t core.Table) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM customers`); err != nil {
		return fmt.Errorf("clear customers: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO customers (date, name, amount_owed, balance_paid, balance_today, status)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range t {
		r := &t[i]
		date := ""
		if !r.Date.IsZero() {
			date = r.Date.Format(core.DateLayout)
		}
		if _, err := stmt.ExecContext(ctx, date, r.Name,
			r.AmountOwed.String(), r.BalancePaid.String(), r.BalanceToday.String(),
			string(r.Status)); err != nil {
			return fmt.Errorf("insert customer %q: %w", r.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	slog.DebugContext(ctx, "Customer table saved to sqlite", "rows", len(t))
	return nil
}

func parseAmount(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(core.DateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
