package ledger

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labfinance/taxsim/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRows replays fixed rows through the pgx.Rows interface
type fakeRows struct {
	rows [][]any
	pos  int
	err  error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Values() ([]any, error) {
	return r.rows[r.pos-1], nil
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.pos-1]
	if len(dest) != len(row) {
		return fmt.Errorf("expected %d destinations, got %d", len(row), len(dest))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = row[i].(string)
		case *bool:
			*p = row[i].(bool)
		case **bool:
			if row[i] == nil {
				*p = nil
			} else {
				v := row[i].(bool)
				*p = &v
			}
		case *time.Time:
			*p = row[i].(time.Time)
		default:
			return fmt.Errorf("unsupported destination %T", d)
		}
	}
	return nil
}

type fakeQuerier struct {
	rows  map[string]*fakeRows
	err   error
	calls [][]any
}

func (q *fakeQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.calls = append(q.calls, args)
	if q.err != nil {
		return nil, q.err
	}
	if sql == categoriesSQL {
		return q.rows["categories"], nil
	}
	return q.rows["entries"], nil
}

func TestPostgresSource_Entries(t *testing.T) {
	db := &fakeQuerier{rows: map[string]*fakeRows{
		"entries": {rows: [][]any{
			{"6f1c2a34-1111-4c55-9a53-0f2f4b8c0001", day("2025-06-05"), "50000.00", "credit", revenueID.String(), "lab-centro", "Faturamento"},
			{"6f1c2a34-1111-4c55-9a53-0f2f4b8c0002", day("2025-06-06"), "12000.50", "debit", salariesID.String(), "", ""},
		}},
	}}
	src := &PostgresSource{DB: db}

	q := WindowQuery(domain.NewYearMonth(2025, time.June), 12, "lab-centro")
	entries, err := src.Entries(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[1].Amount.Equal(decimal.RequireFromString("12000.50")))
	assert.Equal(t, salariesID, entries[1].CategoryID)
	assert.Equal(t, domain.DirectionDebit, entries[1].Direction)

	require.Len(t, db.calls, 1)
	from := db.calls[0][0].(*time.Time)
	to := db.calls[0][1].(*time.Time)
	assert.Equal(t, day("2024-07-01"), *from)
	assert.Equal(t, day("2025-07-01"), *to, "upper bound is exclusive")
	assert.Equal(t, "lab-centro", db.calls[0][2])
}

func TestPostgresSource_Categories(t *testing.T) {
	db := &fakeQuerier{rows: map[string]*fakeRows{
		"categories": {rows: [][]any{
			{prolaboreID.String(), "Pró-labore", "pessoal", false, "prolabore", true},
			{salariesID.String(), "Salários", "pessoal", false, "", nil},
		}},
	}}
	src := &PostgresSource{DB: db}

	categories, err := src.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, domain.PayrollSubtypeProlabore, categories[0].PayrollSubtype)
	require.NotNil(t, categories[0].CountsForFatorR)
	assert.True(t, *categories[0].CountsForFatorR)
	assert.Nil(t, categories[1].CountsForFatorR)
	assert.True(t, categories[1].IsPersonnel())
}

func TestPostgresSource_Errors(t *testing.T) {
	src := &PostgresSource{DB: &fakeQuerier{err: errors.New("connection refused")}}
	_, err := src.Entries(context.Background(), Query{})
	assert.ErrorContains(t, err, "failed to query ledger_entries")

	src = &PostgresSource{DB: &fakeQuerier{rows: map[string]*fakeRows{
		"entries": {rows: [][]any{
			{"not-a-uuid", day("2025-06-05"), "1", "credit", revenueID.String(), "", ""},
		}},
	}}}
	_, err = src.Entries(context.Background(), Query{})
	assert.ErrorContains(t, err, "invalid id")

	src = &PostgresSource{DB: &fakeQuerier{rows: map[string]*fakeRows{
		"categories": {err: errors.New("broken pipe")},
	}}}
	_, err = src.Categories(context.Background())
	assert.ErrorContains(t, err, "failed to read categories")

	// open query passes NULL bounds
	db := &fakeQuerier{rows: map[string]*fakeRows{"entries": {}}}
	_, err = (&PostgresSource{DB: db}).Entries(context.Background(), Query{})
	require.NoError(t, err)
	assert.Nil(t, db.calls[0][0].(*time.Time))
	assert.Nil(t, db.calls[0][1].(*time.Time))
}
