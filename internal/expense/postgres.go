package expense

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const createExpensesTable = `
	CREATE TABLE IF NOT EXISTS expenses (
		id             TEXT PRIMARY KEY,
		description    TEXT NOT NULL DEFAULT '',
		supplier       TEXT NOT NULL DEFAULT '',
		expense_date   DATE NOT NULL,
		net            NUMERIC(12, 2) NOT NULL,
		vat            NUMERIC(12, 2) NOT NULL,
		gross          NUMERIC(12, 2) NOT NULL,
		vat_rate       INTEGER NOT NULL,
		currency       TEXT NOT NULL,
		invoice_number TEXT NOT NULL DEFAULT '',
		notes          TEXT NOT NULL DEFAULT '',
		confidence     DOUBLE PRECISION NOT NULL DEFAULT 0,
		filename       TEXT NOT NULL DEFAULT '',
		content_type   TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL
	)`

const selectExpense = `
	SELECT id, description, supplier, expense_date, net::text, vat::text, gross::text,
	       vat_rate, currency, invoice_number, notes, confidence, filename, content_type,
	       created_at, updated_at
	FROM expenses`

// PostgresDB implements the DB interface on a pgx connection pool
type PostgresDB struct {
	pool *pgxpool.Pool
}

// NewPostgresDB connects to databaseURL and creates the expenses table
func NewPostgresDB(ctx context.Context, databaseURL string) (*PostgresDB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 1 * time.Hour
	config.MaxConnIdleTime = 30 * time.Minute
	config.HealthCheckPeriod = 1 * time.Minute

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := pool.Exec(ctx, createExpensesTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating expenses table: %w", err)
	}

	return &PostgresDB{pool: pool}, nil
}

// SaveExpense inserts or replaces an expense
func (p *PostgresDB) SaveExpense(ctx context.Context, e *Expense) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO expenses (
			id, description, supplier, expense_date, net, vat, gross, vat_rate, currency,
			invoice_number, notes, confidence, filename, content_type, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric, $7::numeric, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			description = EXCLUDED.description,
			supplier = EXCLUDED.supplier,
			expense_date = EXCLUDED.expense_date,
			net = EXCLUDED.net,
			vat = EXCLUDED.vat,
			gross = EXCLUDED.gross,
			vat_rate = EXCLUDED.vat_rate,
			currency = EXCLUDED.currency,
			invoice_number = EXCLUDED.invoice_number,
			notes = EXCLUDED.notes,
			confidence = EXCLUDED.confidence,
			filename = EXCLUDED.filename,
			content_type = EXCLUDED.content_type,
			updated_at = EXCLUDED.updated_at`,
		e.ID, e.Description, e.Supplier, e.Date, e.Net.StringFixed(2), e.VAT.StringFixed(2), e.Gross.StringFixed(2),
		e.VATRate, e.Currency, e.InvoiceNumber, e.Notes, e.Confidence, e.Filename, e.ContentType,
		e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving expense: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense by ID
func (p *PostgresDB) GetExpense(ctx context.Context, id string) (*Expense, error) {
	e, err := scanExpense(p.pool.QueryRow(ctx, selectExpense+" WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting expense: %w", err)
	}
	return e, nil
}

// ListExpenses returns all expenses, newest first
func (p *PostgresDB) ListExpenses(ctx context.Context) ([]*Expense, error) {
	rows, err := p.pool.Query(ctx, selectExpense+" ORDER BY expense_date DESC, created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]*Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// DeleteExpense removes an expense
func (p *PostgresDB) DeleteExpense(ctx context.Context, id string) error {
	if _, err := p.pool.Exec(ctx, "DELETE FROM expenses WHERE id = $1", id); err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (p *PostgresDB) Close() error {
	p.pool.Close()
	return nil
}

func scanExpense(row pgx.Row) (*Expense, error) {
	var (
		e               Expense
		net, vat, gross string
	)
	err := row.Scan(
		&e.ID, &e.Description, &e.Supplier, &e.Date, &net, &vat, &gross,
		&e.VATRate, &e.Currency, &e.InvoiceNumber, &e.Notes, &e.Confidence, &e.Filename, &e.ContentType,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if e.Net, err = decimal.NewFromString(net); err != nil {
		return nil, fmt.Errorf("parsing net amount: %w", err)
	}
	if e.VAT, err = decimal.NewFromString(vat); err != nil {
		return nil, fmt.Errorf("parsing vat amount: %w", err)
	}
	if e.Gross, err = decimal.NewFromString(gross); err != nil {
		return nil, fmt.Errorf("parsing gross amount: %w", err)
	}
	return &e, nil
}
