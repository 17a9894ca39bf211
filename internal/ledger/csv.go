package ledger

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labfinance/taxsim/internal/domain"
	"github.com/shopspring/decimal"
)

// CSVColumns is the required header of a ledger export
var CSVColumns = []string{"date", "amount", "direction", "category_id", "unit_id", "description"}

// CSVSource reads ledger entries from a CSV export. The catalog is supplied
// separately since exports carry only category IDs.
type CSVSource struct {
	path       string
	categories []domain.Category
}

// NewCSVSource creates a source over the CSV file at path
func NewCSVSource(path string, categories []domain.Category) *CSVSource {
	return &CSVSource{path: path, categories: append([]domain.Category(nil), categories...)}
}

func (s *CSVSource) Entries(ctx context.Context, q Query) ([]domain.LedgerEntry, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger %s: %w", s.path, err)
	}
	defer f.Close()

	entries, err := ReadCSV(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	out := entries[:0]
	for _, e := range entries {
		if q.Matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *CSVSource) Categories(ctx context.Context) ([]domain.Category, error) {
	return append([]domain.Category(nil), s.categories...), nil
}

// ReadCSV parses a ledger export. Columns are located by header name so their
// order does not matter; unit_id and description may be empty. Entry IDs are
// derived from the line number and content, so rereading a file is stable.
func ReadCSV(ctx context.Context, r io.Reader) ([]domain.LedgerEntry, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range CSVColumns[:4] {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("CSV header is missing column %q", col)
		}
	}

	var entries []domain.LedgerEntry
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entry, err := parseRecord(record, index, line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseRecord(record []string, index map[string]int, line int) (domain.LedgerEntry, error) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	date, err := time.Parse("2006-01-02", field("date"))
	if err != nil {
		return domain.LedgerEntry{}, fmt.Errorf("invalid date %q", field("date"))
	}
	amount, err := decimal.NewFromString(field("amount"))
	if err != nil {
		return domain.LedgerEntry{}, fmt.Errorf("invalid amount %q", field("amount"))
	}
	direction := domain.Direction(strings.ToLower(field("direction")))
	if direction != domain.DirectionCredit && direction != domain.DirectionDebit {
		return domain.LedgerEntry{}, fmt.Errorf("%w: %q", domain.ErrUnknownDirection, field("direction"))
	}
	categoryID, err := uuid.Parse(field("category_id"))
	if err != nil {
		return domain.LedgerEntry{}, fmt.Errorf("invalid category_id %q", field("category_id"))
	}

	return domain.LedgerEntry{
		ID:          uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%d:%s", line, strings.Join(record, ",")))),
		Date:        date,
		Amount:      amount,
		Direction:   direction,
		CategoryID:  categoryID,
		UnitID:      field("unit_id"),
		Description: field("description"),
	}, nil
}
