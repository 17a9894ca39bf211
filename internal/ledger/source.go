package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/labfinance/taxsim/internal/domain"
)

// Query selects ledger entries by month range and unit. Zero months leave the
// range open on that side; an empty UnitID matches every unit.
type Query struct {
	From   domain.YearMonth
	To     domain.YearMonth
	UnitID string
}

// WindowQuery returns the query covering n months ending at reference
func WindowQuery(reference domain.YearMonth, n int, unitID string) Query {
	return Query{From: reference.AddMonths(1 - n), To: reference, UnitID: unitID}
}

// Matches reports whether an entry falls inside the query
func (q Query) Matches(e domain.LedgerEntry) bool {
	m := e.Month()
	if !q.From.IsZero() && m.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && q.To.Before(m) {
		return false
	}
	return q.UnitID == "" || e.UnitID == q.UnitID
}

// Source supplies raw ledger entries and the category catalog
type Source interface {
	Entries(ctx context.Context, q Query) ([]domain.LedgerEntry, error)
	Categories(ctx context.Context) ([]domain.Category, error)
}

// Snapshot is a resolved read of a source
type Snapshot struct {
	Entries    []domain.LedgerEntry
	Categories []domain.Category
	// Unresolved counts entries whose category is missing from the catalog.
	Unresolved int
}

// Fetch reads the catalog and the entries of q, attaching each entry's category
func Fetch(ctx context.Context, src Source, q Query) (*Snapshot, error) {
	categories, err := src.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	entries, err := src.Entries(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger entries: %w", err)
	}
	resolved, unresolved := Resolve(entries, categories)
	return &Snapshot{Entries: resolved, Categories: categories, Unresolved: unresolved}, nil
}

// Resolve returns a copy of entries with Category filled from the catalog.
// Entries pointing at an unknown category keep only the ID and fall into the
// administrative bucket when categorized.
func Resolve(entries []domain.LedgerEntry, catalog []domain.Category) ([]domain.LedgerEntry, int) {
	byID := make(map[uuid.UUID]domain.Category, len(catalog))
	for _, c := range catalog {
		byID[c.ID] = c
	}
	out := make([]domain.LedgerEntry, len(entries))
	unresolved := 0
	for i, e := range entries {
		if c, ok := byID[e.CategoryID]; ok {
			e.Category = c
		} else {
			e.Category = domain.Category{ID: e.CategoryID}
			unresolved++
		}
		out[i] = e
	}
	return out, unresolved
}
