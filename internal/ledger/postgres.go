package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labfinance/taxsim/internal/domain"
	"github.com/shopspring/decimal"
)

// Querier is the subset of *pgxpool.Pool used by PostgresSource
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads the ledger_entries and categories tables. It only
// issues SELECTs; the schema belongs to the ledger service.
type PostgresSource struct {
	DB Querier
}

// NewPostgresSource creates a source over a connection pool
func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{DB: pool}
}

// Connect opens a small pool for read-only use by the CLI
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid database url: %w", err)
	}
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConns = 4
	poolCfg.MinConns = 1
	return pgxpool.NewWithConfig(ctx, poolCfg)
}

const entriesSQL = `
    SELECT id::text, entry_date, amount::text, direction, category_id::text,
           COALESCE(unit_id, ''), COALESCE(description, '')
    FROM ledger_entries
    WHERE ($1::date IS NULL OR entry_date >= $1)
      AND ($2::date IS NULL OR entry_date < $2)
      AND ($3 = '' OR unit_id = $3)
    ORDER BY entry_date, id
`

const categoriesSQL = `
    SELECT id::text, name, COALESCE(tax_group, ''), is_informal,
           COALESCE(payroll_subtype, ''), counts_for_fator_r
    FROM categories
    ORDER BY name, id
`

func (s *PostgresSource) Entries(ctx context.Context, q Query) ([]domain.LedgerEntry, error) {
	var from, to *time.Time
	if !q.From.IsZero() {
		t := q.From.Start()
		from = &t
	}
	if !q.To.IsZero() {
		t := q.To.Next().Start()
		to = &t
	}

	rows, err := s.DB.Query(ctx, entriesSQL, from, to, q.UnitID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger_entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var (
			id, amount, direction, categoryID string
			e                                 domain.LedgerEntry
		)
		if err := rows.Scan(&id, &e.Date, &amount, &direction, &categoryID, &e.UnitID, &e.Description); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("ledger entry %q: invalid id: %w", id, err)
		}
		if e.CategoryID, err = uuid.Parse(categoryID); err != nil {
			return nil, fmt.Errorf("ledger entry %s: invalid category_id: %w", id, err)
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("ledger entry %s: invalid amount %q: %w", id, amount, err)
		}
		e.Direction = domain.Direction(direction)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ledger_entries: %w", err)
	}
	return entries, nil
}

func (s *PostgresSource) Categories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.DB.Query(ctx, categoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var (
			id, taxGroup, subtype string
			c                     domain.Category
		)
		if err := rows.Scan(&id, &c.Name, &taxGroup, &c.IsInformal, &subtype, &c.CountsForFatorR); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		if c.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("category %q: invalid id: %w", id, err)
		}
		c.TaxGroup = domain.TaxGroup(taxGroup)
		c.PayrollSubtype = domain.PayrollSubtype(subtype)
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}
	return categories, nil
}
