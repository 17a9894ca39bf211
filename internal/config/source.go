package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/labfinance/taxsim/internal/domain"
	"github.com/labfinance/taxsim/internal/ledger"
)

// SourceOptions overrides where the ledger entries of a workspace are read from.
// DSN wins over CSVPath; with neither set the inline entries are used.
type SourceOptions struct {
	CSVPath string
	DSN     string
}

func (o SourceOptions) external() bool {
	return o.CSVPath != "" || o.DSN != ""
}

// Dataset is the ledger data a command runs on. Exactly one of Entries and
// Aggregates is populated.
type Dataset struct {
	Entries    []domain.LedgerEntry
	Aggregates []domain.MonthlyAggregate
	Catalog    []domain.Category
	// Unresolved counts entries whose category is not in the catalog.
	Unresolved int
}

// OpenSource returns the ledger source selected by opts. The close function is
// never nil.
func (ws *Workspace) OpenSource(ctx context.Context, opts SourceOptions) (ledger.Source, func(), error) {
	switch {
	case opts.DSN != "":
		pool, err := ledger.Connect(ctx, opts.DSN)
		if err != nil {
			return nil, func() {}, fmt.Errorf("failed to connect to ledger database: %w", err)
		}
		return ledger.NewPostgresSource(pool), pool.Close, nil
	case opts.CSVPath != "":
		path := opts.CSVPath
		if !filepath.IsAbs(path) && ws.Dir != "" && !fileExists(path) {
			path = filepath.Join(ws.Dir, path)
		}
		return ledger.NewCSVSource(path, ws.Categories), func() {}, nil
	default:
		return ledger.NewMemorySource(ws.Entries, ws.Categories), func() {}, nil
	}
}

// LoadDataset reads the span months ending at reference. Workspaces holding
// prebuilt aggregates return them unchanged unless an external source is set.
// Entries are filtered by the workspace unit_id when one is configured.
func (ws *Workspace) LoadDataset(ctx context.Context, opts SourceOptions, reference domain.YearMonth, span int) (*Dataset, error) {
	if len(ws.Aggregates) > 0 && !opts.external() {
		return &Dataset{Aggregates: ws.Aggregates, Catalog: ws.Categories}, nil
	}

	src, closeSource, err := ws.OpenSource(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer closeSource()

	snap, err := ledger.Fetch(ctx, src, ledger.WindowQuery(reference, span, ws.UnitID))
	if err != nil {
		return nil, err
	}
	return &Dataset{Entries: snap.Entries, Catalog: snap.Categories, Unresolved: snap.Unresolved}, nil
}

// fileExists checks if a file exists
func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}
