package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labfinance/taxsim/internal/calculation"
	"github.com/labfinance/taxsim/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reference = domain.NewYearMonth(2025, time.June)

// buildAggregates returns twelve months of 50k revenue and 14k payroll (Fator R 28%)
func buildAggregates() []domain.MonthlyAggregate {
	var out []domain.MonthlyAggregate
	for _, m := range domain.MonthRange(reference, 12) {
		out = append(out, domain.MonthlyAggregate{
			Month:            m,
			ServiceRevenue:   decimal.NewFromInt(50000),
			PayrollSalaries:  decimal.NewFromInt(10000),
			PayrollProlabore: decimal.NewFromInt(4000),
		})
	}
	return out
}

func buildTestReport(t *testing.T) *Report {
	t.Helper()
	engine := calculation.NewEngine()
	aggregates := buildAggregates()

	sim, err := engine.Simulate(calculation.SimulationRequest{Reference: reference, Aggregates: aggregates})
	require.NoError(t, err)
	advice, err := engine.Advise(calculation.SimulationRequest{Reference: reference, Aggregates: aggregates})
	require.NoError(t, err)
	audit, err := engine.Audit(calculation.AuditRequest{Reference: reference, Aggregates: aggregates})
	require.NoError(t, err)
	trend, err := engine.Trend(calculation.TrendRequest{Reference: reference, Points: 3, Aggregates: aggregates})
	require.NoError(t, err)

	return &Report{Simulation: sim, Advice: advice, Audit: audit, Trend: trend}
}

func TestFormatterFunc(t *testing.T) {
	called := false
	formatter := FormatterFunc{
		ID: "test-formatter",
		F: func(report *Report) ([]byte, error) {
			called = true
			return []byte("test output"), nil
		},
	}

	data, err := formatter.Format(&Report{})
	assert.NoError(t, err)
	assert.True(t, called, "Should call the function")
	assert.Equal(t, "test output", string(data))
	assert.Equal(t, "test-formatter", formatter.Name())
}

func TestGetFormatterByName(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"table", "table"},
		{"console", "table"},
		{" TEXT ", "table"},
		{"csv", "csv"},
		{"json", "json"},
		{"json-compact", "json-compact"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := GetFormatterByName(tt.name)
			require.NotNil(t, f)
			assert.Equal(t, tt.expected, f.Name())
		})
	}

	assert.Nil(t, GetFormatterByName("html"), "Should return nil for unknown formats")
	assert.Equal(t, []string{"csv", "json", "json-compact", "table"}, AvailableFormats())
	assert.Contains(t, AvailableFormatAliases(), "console")
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount   string
		expected string
	}{
		{"0", "R$ 0,00"},
		{"5280", "R$ 5.280,00"},
		{"600000", "R$ 600.000,00"},
		{"1234567.891", "R$ 1.234.567,89"},
		{"-1200", "-R$ 1.200,00"},
		{"-0.001", "R$ 0,00"},
		{"999.995", "R$ 1.000,00"},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCurrency(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestFormatRatio(t *testing.T) {
	assert.Equal(t, "28,00%", FormatRatio(decimal.RequireFromString("0.28")))
	assert.Equal(t, "10,56%", FormatPercentage(decimal.RequireFromString("10.56")))
}

func TestTableFormatter(t *testing.T) {
	report := buildTestReport(t)
	data, err := TableFormatter{}.Format(report)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "SIMULAÇÃO TRIBUTÁRIA")
	assert.Contains(t, text, "Competência: 2025-06")
	assert.Contains(t, text, "RBT12: R$ 600.000,00")
	assert.Contains(t, text, "Fator R: 28,00% (Anexo III)")
	assert.Contains(t, text, "R$ 5.280,00")
	assert.Contains(t, text, "10,56%")
	assert.Contains(t, text, "* menor carga: Simples Nacional")
	assert.Contains(t, text, "já atinge a meta")
	assert.Contains(t, text, "Economia:  R$ 3.645,00/mês, R$ 43.740,00/ano")
	assert.Contains(t, text, "DIAGNÓSTICOS")
	assert.Contains(t, text, "AUDITORIA FATOR R")
	assert.Contains(t, text, "EVOLUÇÃO DO FATOR R")
	assert.Contains(t, text, "2025-04")
}

func TestTableFormatter_AdjustmentNeeded(t *testing.T) {
	report := &Report{Advice: &calculation.Advice{
		Reference: reference,
		FatorR:    decimal.RequireFromString("0.18"),
		Annex:     domain.AnnexV,
		Adjustment: domain.ProlaboreAdjustment{
			Status:            domain.AdjustmentNeeded,
			CurrentFatorR:     decimal.RequireFromString("0.18"),
			TargetFatorR:      decimal.RequireFromString("0.28"),
			MonthlyIncrease:   decimal.NewFromInt(5000),
			AnnualIncrease:    decimal.NewFromInt(60000),
			ProjectedFatorR:   decimal.RequireFromString("0.28"),
			AdditionalCharges: decimal.NewFromInt(1000),
			NetMonthlyBenefit: decimal.NewFromInt(2645),
		},
	}}
	data, err := TableFormatter{}.Format(report)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "Fator R: 18,00% (Anexo V)")
	assert.Contains(t, text, "Aumento mensal:       R$ 5.000,00")
	assert.Contains(t, text, "Benefício líquido:    R$ 2.645,00/mês")
	assert.NotContains(t, text, "SIMULAÇÃO")
}

func TestFormatters_EmptyReport(t *testing.T) {
	for _, name := range AvailableFormats() {
		_, err := GetFormatterByName(name).Format(&Report{})
		assert.Error(t, err, name)
	}
}

func TestCSVFormatter(t *testing.T) {
	report := buildTestReport(t)
	data, err := CSVFormatter{}.Format(report)
	require.NoError(t, err)

	blocks := strings.Split(strings.TrimSpace(string(data)), "\n\n")
	require.Len(t, blocks, 4)

	scenarios, err := csv.NewReader(strings.NewReader(blocks[0])).ReadAll()
	require.NoError(t, err)
	require.Len(t, scenarios, 5, "header plus four regimes")
	assert.Equal(t, "Regime", scenarios[0][1])
	assert.Equal(t, "simples_nacional", scenarios[1][1])
	assert.Equal(t, "5280.00", scenarios[1][6])
	assert.Equal(t, "true", scenarios[1][8])

	audit, err := csv.NewReader(strings.NewReader(blocks[2])).ReadAll()
	require.NoError(t, err)
	assert.Len(t, audit, 13)
	assert.Equal(t, "2024-07", audit[1][0])

	trend, err := csv.NewReader(strings.NewReader(blocks[3])).ReadAll()
	require.NoError(t, err)
	assert.Len(t, trend, 4)
	assert.Equal(t, "III", trend[3][4])
}

func TestJSONFormatter(t *testing.T) {
	report := buildTestReport(t)

	data, err := JSONFormatter{Pretty: true}.Format(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  ")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	sim := decoded["simulation"].(map[string]any)
	assert.Equal(t, "2025-06", sim["reference"])
	assert.Equal(t, "III", sim["annex"])
	assert.Len(t, sim["scenarios"], 4)
	assert.Len(t, decoded["trend"], 3)

	compact, err := JSONFormatter{}.Format(&Report{Trend: report.Trend})
	require.NoError(t, err)
	assert.NotContains(t, string(compact), "\n")
	assert.NotContains(t, string(compact), "simulation")
}

func TestWriteFormatted(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	formatter := FormatterFunc{ID: "fixed", F: func(*Report) ([]byte, error) { return []byte("content"), nil }}
	written, err := WriteFormatted(formatter, &Report{}, path, "json")
	require.NoError(t, err)
	assert.Equal(t, path, written)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(content))
}

func TestWriteFormatted_FormatterError(t *testing.T) {
	formatter := FormatterFunc{ID: "broken", F: func(*Report) ([]byte, error) { return nil, fmt.Errorf("formatter error") }}
	_, err := WriteFormatted(formatter, &Report{}, filepath.Join(t.TempDir(), "x.txt"), "txt")
	assert.ErrorContains(t, err, "formatter error")
}
