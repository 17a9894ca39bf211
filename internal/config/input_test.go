package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/labfinance/taxsim/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser, "Should create input parser")
}

func TestInputParser_LoadWorkspace_FileNotFound(t *testing.T) {
	parser := NewInputParser()

	ws, err := parser.LoadWorkspace("nonexistent.yaml")

	assert.Error(t, err, "Should error for nonexistent file")
	assert.Nil(t, ws, "Should return nil workspace")
	assert.Contains(t, err.Error(), "failed to read file", "Should have specific error message")
}

func TestInputParser_LoadWorkspace_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	invalidFile := filepath.Join(tmpDir, "invalid.yaml")

	err := os.WriteFile(invalidFile, []byte("invalid: yaml: content: [unclosed"), 0644)
	assert.NoError(t, err)

	parser := NewInputParser()
	ws, err := parser.LoadWorkspace(invalidFile)

	assert.Error(t, err, "Should error for invalid YAML")
	assert.Nil(t, ws, "Should return nil workspace")
	assert.Contains(t, err.Error(), "failed to parse YAML", "Should have specific error message")
}

func TestInputParser_LoadWorkspace_Entries(t *testing.T) {
	parser := NewInputParser()
	ws, err := parser.LoadWorkspace(filepath.Join("testdata", "workspace.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "Laboratório Centro", ws.Unit)
	assert.Equal(t, domain.NewYearMonth(2025, time.June), ws.Reference)
	assert.Equal(t, domain.RevenueBasisCurrentMonth, ws.RevenueBasis)
	assert.Equal(t, "testdata", ws.Dir)

	require.NotNil(t, ws.TaxConfig)
	assert.Equal(t, domain.RegimeSimplesNacional, ws.TaxConfig.Regime)
	assert.True(t, ws.TaxConfig.ISSRate.Equal(decimal.RequireFromString("0.02")))
	assert.Equal(t, "Laboratório Centro", ws.TaxConfig.UnitName, "unit name defaults to the workspace unit")
	assert.Nil(t, ws.TaxParameters, "no override means engine defaults")

	require.Len(t, ws.Categories, 5)
	salaries := ws.Categories[1]
	assert.Equal(t, domain.TaxGroupPersonnel, salaries.TaxGroup)
	assert.Equal(t, domain.PayrollSubtypeSalary, salaries.PayrollSubtype)
	require.NotNil(t, salaries.CountsForFatorR)
	assert.True(t, *salaries.CountsForFatorR)
	assert.Nil(t, ws.Categories[3].CountsForFatorR)

	require.Len(t, ws.Entries, 6)
	first := ws.Entries[0]
	assert.Equal(t, domain.DirectionCredit, first.Direction)
	assert.True(t, first.Amount.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, domain.NewYearMonth(2025, time.June), first.Month())
	assert.Equal(t, ws.Categories[0].ID, first.CategoryID)
	assert.True(t, ws.Entries[5].Amount.Equal(decimal.RequireFromString("7500.50")))
}

func TestInputParser_LoadWorkspace_AggregatesAndInlineParameters(t *testing.T) {
	parser := NewInputParser()
	ws, err := parser.LoadWorkspace(filepath.Join("testdata", "aggregates.yaml"))
	require.NoError(t, err)

	assert.Nil(t, ws.TaxConfig)
	require.Len(t, ws.Aggregates, 2)
	assert.Equal(t, domain.NewYearMonth(2025, time.May), ws.Aggregates[0].Month)
	assert.True(t, ws.Aggregates[1].InformalPayroll.Equal(decimal.NewFromInt(1500)))

	require.NotNil(t, ws.TaxParameters)
	params := ws.TaxParameters
	assert.Equal(t, "norte-2025", params.Version)
	assert.True(t, params.RealProfitBlendedRate.Equal(decimal.RequireFromString("0.05")))
	assert.True(t, params.Thresholds.MaterialityRate.Equal(decimal.RequireFromString("0.10")))

	// untouched fields keep their built-in values
	defaults := domain.DefaultTaxParameters()
	assert.True(t, params.CBSRate.Equal(defaults.CBSRate))
	assert.True(t, params.Thresholds.InformalPayrollTolerance.Equal(defaults.Thresholds.InformalPayrollTolerance))
	assert.Len(t, params.AnexoIII.Brackets, 6)
}

func TestInputParser_LoadWorkspace_ParametersFile(t *testing.T) {
	parser := NewInputParser()
	ws, err := parser.LoadWorkspace(filepath.Join("testdata", "with_parameters_file.yaml"))
	require.NoError(t, err)

	require.NotNil(t, ws.TaxParameters)
	assert.Equal(t, 2026, ws.TaxParameters.FiscalYear)
	assert.Equal(t, "custom-2026", ws.TaxParameters.Version)
}

func TestInputParser_LoadParameters(t *testing.T) {
	parser := NewInputParser()
	params, err := parser.LoadParameters(filepath.Join("testdata", "parameters.yaml"))
	require.NoError(t, err)

	assert.True(t, params.CBSRate.Equal(decimal.RequireFromString("0.09")))
	assert.True(t, params.IBSRate.Equal(decimal.RequireFromString("0.18")))
	require.Len(t, params.AnexoIII.Brackets, 2)
	assert.Nil(t, params.AnexoIII.Brackets[1].Upper)
	require.NotNil(t, params.AnexoIII.Brackets[0].Upper)
	assert.True(t, params.AnexoIII.Brackets[0].Upper.Equal(decimal.NewFromInt(200000)))
	assert.Len(t, params.AnexoV.Brackets, 6, "Anexo V keeps the built-in table")
}

func TestInputParser_LoadParameters_RejectsGap(t *testing.T) {
	parser := NewInputParser()
	params, err := parser.LoadParameters(filepath.Join("testdata", "invalid_parameters.yaml"))

	assert.Nil(t, params)
	assert.ErrorIs(t, err, domain.ErrInvalidBracketTable)
	assert.Contains(t, err.Error(), "gap or overlap")
}

func TestInputParser_ValidateWorkspace(t *testing.T) {
	parser := NewInputParser()
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing unit",
			yaml:    "categories: []",
			wantErr: "unit is required",
		},
		{
			name:    "unknown regime",
			yaml:    "unit: x\ntax_config:\n  regime: mei\n  iss_rate: 0.05",
			wantErr: "unknown regime",
		},
		{
			name:    "unknown revenue basis",
			yaml:    "unit: x\nrevenue_basis: weekly",
			wantErr: "unknown revenue_basis",
		},
		{
			name:    "subtype outside personnel",
			yaml:    "unit: x\ncategories:\n  - id: 0b7f3c1e-6d0a-4c55-9a53-0f2f4b8c0001\n    name: Exames\n    tax_group: receita_servicos\n    payroll_subtype: salario",
			wantErr: "only allowed on personnel",
		},
		{
			name:    "unknown subtype",
			yaml:    "unit: x\ncategories:\n  - id: 0b7f3c1e-6d0a-4c55-9a53-0f2f4b8c0001\n    name: Folha\n    tax_group: pessoal\n    payroll_subtype: bonus",
			wantErr: "payroll subtype must be",
		},
		{
			name: "duplicate category",
			yaml: "unit: x\ncategories:\n" +
				"  - {id: 0b7f3c1e-6d0a-4c55-9a53-0f2f4b8c0001, name: A, tax_group: pessoal}\n" +
				"  - {id: 0b7f3c1e-6d0a-4c55-9a53-0f2f4b8c0001, name: B, tax_group: pessoal}",
			wantErr: "duplicate id",
		},
		{
			name:    "unknown direction",
			yaml:    "unit: x\nentries:\n  - {date: 2025-06-01, amount: 10, direction: transfer, category_id: 0b7f3c1e-6d0a-4c55-9a53-0f2f4b8c0001}",
			wantErr: "unknown entry direction",
		},
		{
			name:    "negative aggregate",
			yaml:    "unit: x\naggregates:\n  - {month: 2025-06, service_revenue: -1}",
			wantErr: "cannot be negative",
		},
		{
			name: "entries and aggregates",
			yaml: "unit: x\n" +
				"entries:\n  - {date: 2025-06-01, amount: 10, direction: credit, category_id: 0b7f3c1e-6d0a-4c55-9a53-0f2f4b8c0001}\n" +
				"aggregates:\n  - {month: 2025-06, service_revenue: 1}",
			wantErr: "mutually exclusive",
		},
		{
			name:    "invalid inline table",
			yaml:    "unit: x\ntax_parameters:\n  anexo_iii:\n    name: Anexo III\n    brackets: []",
			wantErr: "table is empty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws, err := parser.ParseWorkspace([]byte(tt.yaml))
			assert.Nil(t, ws)
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestInputParser_LoadWorkspaceWithParameters(t *testing.T) {
	parser := NewInputParser()
	ws, err := parser.LoadWorkspaceWithParameters(
		filepath.Join("testdata", "aggregates.yaml"),
		filepath.Join("testdata", "parameters.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 2026, ws.TaxParameters.FiscalYear, "file replaces the inline override")

	ws, err = parser.LoadWorkspaceWithParameters(filepath.Join("testdata", "aggregates.yaml"), "")
	require.NoError(t, err)
	assert.Equal(t, "norte-2025", ws.TaxParameters.Version)

	_, err = parser.LoadWorkspaceWithParameters(
		filepath.Join("testdata", "workspace.yaml"),
		filepath.Join("testdata", "invalid_parameters.yaml"))
	assert.ErrorIs(t, err, domain.ErrInvalidBracketTable)
}

func TestWorkspace_ReferenceMonth(t *testing.T) {
	now := time.Date(2025, time.October, 3, 12, 0, 0, 0, time.UTC)
	override := domain.NewYearMonth(2025, time.March)

	ws := &Workspace{Reference: domain.NewYearMonth(2025, time.June)}
	assert.Equal(t, override, ws.ReferenceMonth(override, now))
	assert.Equal(t, domain.NewYearMonth(2025, time.June), ws.ReferenceMonth(domain.YearMonth{}, now))

	ws.Reference = domain.YearMonth{}
	assert.Equal(t, domain.NewYearMonth(2025, time.October), ws.ReferenceMonth(domain.YearMonth{}, now))
}
