package ledger

import (
	"context"

	"github.com/labfinance/taxsim/internal/domain"
)

// MemorySource serves entries and categories held in memory, typically loaded
// from a workspace file.
type MemorySource struct {
	entries    []domain.LedgerEntry
	categories []domain.Category
}

// NewMemorySource creates a source over copies of the given slices
func NewMemorySource(entries []domain.LedgerEntry, categories []domain.Category) *MemorySource {
	return &MemorySource{
		entries:    append([]domain.LedgerEntry(nil), entries...),
		categories: append([]domain.Category(nil), categories...),
	}
}

func (s *MemorySource) Entries(ctx context.Context, q Query) ([]domain.LedgerEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []domain.LedgerEntry
	for _, e := range s.entries {
		if q.Matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *MemorySource) Categories(ctx context.Context) ([]domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]domain.Category(nil), s.categories...), nil
}
