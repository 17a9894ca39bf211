package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/labfinance/taxsim/internal/domain"
	"gopkg.in/yaml.v3"
)

// Workspace is the YAML document describing one unit: its tax configuration,
// optional parameter overrides, its category catalog and either raw ledger
// entries or prebuilt monthly aggregates.
type Workspace struct {
	Unit         string              `yaml:"unit"`
	UnitID       string              `yaml:"unit_id,omitempty"`
	Reference    domain.YearMonth    `yaml:"reference,omitempty"`
	RevenueBasis domain.RevenueBasis `yaml:"revenue_basis,omitempty"`

	TaxConfig *domain.TaxConfig `yaml:"tax_config,omitempty"`

	// Parameters overrides the built-in parameters field by field.
	Parameters     yaml.Node `yaml:"tax_parameters,omitempty"`
	ParametersFile string    `yaml:"parameters_file,omitempty"`

	Categories []domain.Category         `yaml:"categories"`
	Entries    []domain.LedgerEntry      `yaml:"entries,omitempty"`
	Aggregates []domain.MonthlyAggregate `yaml:"aggregates,omitempty"`

	// TaxParameters is nil when the workspace overrides nothing.
	TaxParameters *domain.TaxParameters `yaml:"-"`
	// Dir is the directory of the workspace file.
	Dir string `yaml:"-"`
}

// InputParser handles parsing of workspace and parameter files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadWorkspace loads and validates a workspace YAML file
func (ip *InputParser) LoadWorkspace(filename string) (*Workspace, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	ws, err := ip.ParseWorkspace(data)
	if err != nil {
		return nil, err
	}
	ws.Dir = filepath.Dir(filename)

	if ws.TaxParameters == nil && ws.ParametersFile != "" {
		path := ws.ParametersFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(ws.Dir, path)
		}
		params, err := ip.LoadParameters(path)
		if err != nil {
			return nil, err
		}
		ws.TaxParameters = params
	}
	return ws, nil
}

// LoadWorkspaceWithParameters loads a workspace and replaces its tax
// parameters with the ones in parametersFile. An empty parametersFile behaves
// like LoadWorkspace.
func (ip *InputParser) LoadWorkspaceWithParameters(filename, parametersFile string) (*Workspace, error) {
	ws, err := ip.LoadWorkspace(filename)
	if err != nil {
		return nil, err
	}
	if parametersFile == "" {
		return ws, nil
	}
	params, err := ip.LoadParameters(parametersFile)
	if err != nil {
		return nil, err
	}
	ws.TaxParameters = params
	return ws, nil
}

// ReferenceMonth returns override when set, else the workspace reference,
// else the month containing now.
func (ws *Workspace) ReferenceMonth(override domain.YearMonth, now time.Time) domain.YearMonth {
	if !override.IsZero() {
		return override
	}
	if !ws.Reference.IsZero() {
		return ws.Reference
	}
	return domain.YearMonthOf(now)
}

// ParseWorkspace parses and validates a workspace document
func (ip *InputParser) ParseWorkspace(data []byte) (*Workspace, error) {
	var ws Workspace
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if !ws.Parameters.IsZero() {
		params := domain.DefaultTaxParameters()
		params.Version = ""
		if err := ws.Parameters.Decode(params); err != nil {
			return nil, fmt.Errorf("failed to parse tax_parameters: %w", err)
		}
		if params.Version == "" {
			params.Version = "workspace"
		}
		ws.TaxParameters = params
	}

	if ws.TaxConfig != nil && ws.TaxConfig.UnitName == "" {
		ws.TaxConfig.UnitName = ws.Unit
	}

	if err := ip.ValidateWorkspace(&ws); err != nil {
		return nil, fmt.Errorf("workspace validation failed: %w", err)
	}
	return &ws, nil
}

// LoadParameters loads a parameter override file. Fields absent from the file
// keep their built-in values; the result is validated.
func (ip *InputParser) LoadParameters(filename string) (*domain.TaxParameters, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	params, err := ip.ParseParameters(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return params, nil
}

// ParseParameters decodes a parameter override document over the defaults
func (ip *InputParser) ParseParameters(data []byte) (*domain.TaxParameters, error) {
	params := domain.DefaultTaxParameters()
	params.Version = ""
	if err := yaml.Unmarshal(data, params); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if params.Version == "" {
		params.Version = fmt.Sprintf("custom-%d", params.FiscalYear)
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("tax parameters validation failed: %w", err)
	}
	return params, nil
}

// ValidateWorkspace validates a parsed workspace
func (ip *InputParser) ValidateWorkspace(ws *Workspace) error {
	if ws.Unit == "" {
		return fmt.Errorf("%w: unit is required", domain.ErrInvalidConfig)
	}
	if !ws.Reference.IsZero() && !ws.Reference.Valid() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidReference, ws.Reference)
	}
	if ws.RevenueBasis != "" && !ws.RevenueBasis.Valid() {
		return fmt.Errorf("%w: unknown revenue_basis %q", domain.ErrInvalidConfig, ws.RevenueBasis)
	}
	if ws.TaxConfig != nil {
		if err := ws.TaxConfig.Validate(); err != nil {
			return fmt.Errorf("tax_config: %w", err)
		}
	}
	if ws.TaxParameters != nil {
		if err := ws.TaxParameters.Validate(); err != nil {
			return fmt.Errorf("tax_parameters: %w", err)
		}
	}
	if len(ws.Entries) > 0 && len(ws.Aggregates) > 0 {
		return fmt.Errorf("%w: entries and aggregates are mutually exclusive", domain.ErrInvalidConfig)
	}

	ids := make(map[uuid.UUID]bool, len(ws.Categories))
	for i, c := range ws.Categories {
		if err := ip.validateCategory(&c); err != nil {
			return fmt.Errorf("category %d (%s) validation failed: %w", i, c.Name, err)
		}
		if ids[c.ID] {
			return fmt.Errorf("category %d (%s): duplicate id %s", i, c.Name, c.ID)
		}
		ids[c.ID] = true
	}

	for i, e := range ws.Entries {
		if err := ip.validateEntry(&e); err != nil {
			return fmt.Errorf("entry %d validation failed: %w", i, err)
		}
	}

	months := make(map[domain.YearMonth]bool, len(ws.Aggregates))
	for i, agg := range ws.Aggregates {
		if !agg.Month.Valid() {
			return fmt.Errorf("aggregate %d: %w", i, domain.ErrInvalidReference)
		}
		if months[agg.Month] {
			return fmt.Errorf("aggregate %d: duplicate month %s", i, agg.Month)
		}
		months[agg.Month] = true
		if err := agg.Validate(); err != nil {
			return fmt.Errorf("aggregate %d: %w", i, err)
		}
	}
	return nil
}

func (ip *InputParser) validateCategory(c *domain.Category) error {
	if c.ID == uuid.Nil {
		return fmt.Errorf("id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !c.PayrollSubtype.Valid() {
		return fmt.Errorf("payroll subtype must be 'salario', 'prolabore' or 'encargos'")
	}
	if c.PayrollSubtype != domain.PayrollSubtypeUnset && !c.IsPersonnel() {
		return fmt.Errorf("payroll subtype is only allowed on personnel categories")
	}
	return nil
}

func (ip *InputParser) validateEntry(e *domain.LedgerEntry) error {
	if e.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if e.Direction != domain.DirectionCredit && e.Direction != domain.DirectionDebit {
		return fmt.Errorf("%w: %q", domain.ErrUnknownDirection, e.Direction)
	}
	if e.CategoryID == uuid.Nil {
		return fmt.Errorf("category_id is required")
	}
	return nil
}
