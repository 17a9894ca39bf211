package calculation

import (
	"testing"

	"github.com/labfinance/taxsim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diagnosticInput(t *testing.T, months []domain.MonthlyAggregate) DiagnosticInput {
	t.Helper()
	totals := ResolveWindow(months)
	fr := ResolveFatorR(totals.Folha12, totals.RBT12)
	params := domain.DefaultTaxParameters()
	base := RegimeBase{
		RBT12:          totals.RBT12,
		Folha12:        totals.Folha12,
		MonthlyRevenue: months[len(months)-1].GrossRevenue(),
		RevenueBasis:   domain.RevenueBasisCurrentMonth,
		Annex:          fr.Annex,
		Params:         params,
		Config:         domain.DefaultTaxConfig(),
	}
	comparison, err := NewRegimeComparator(nil).Compare(base)
	require.NoError(t, err)
	return DiagnosticInput{
		ParametersVersion: params.Version,
		RBT12:             totals.RBT12,
		Folha12:           totals.Folha12,
		Informal12:        totals.Informal12,
		Excluded12:        totals.Excluded12,
		FatorR:            fr.FatorR,
		Annex:             fr.Annex,
		Scenarios:         comparison.Scenarios,
		BestScenario:      comparison.Best,
		CurrentRegime:     domain.RegimeSimplesNacional,
		Window:            totals.Months,
		Params:            params,
	}
}

func codes(diags []domain.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Code
	}
	return out
}

func TestDiagnostics_AnexoIII(t *testing.T) {
	in := diagnosticInput(t, uniformWindow("50000", "12000", "3000"))
	diags := NewDiagnosticsEngine().Evaluate(in)
	assert.Equal(t, []string{"fator_r_ok"}, codes(diags))
	assert.Equal(t, domain.SeveritySuccess, diags[0].Severity)
}

func TestDiagnostics_AnexoVWithOpportunity(t *testing.T) {
	in := diagnosticInput(t, uniformWindow("50000", "8000", "0"))
	in.UsedDefaultParameters = true
	diags := NewDiagnosticsEngine().Evaluate(in)

	assert.Equal(t, []string{"parameters_default", "fator_r_below", "regime_opportunity"}, codes(diags))
	assert.Contains(t, diags[1].Message, "12.00 p.p.")
	assert.Contains(t, diags[2].Message, "CBS/IBS")
	assert.Equal(t, "[warning] "+diags[1].Message, diags[1].String())
}

func TestDiagnostics_Margin(t *testing.T) {
	// Folha12 = 174000 over 600000 -> 0.29, one point above the threshold
	in := diagnosticInput(t, uniformWindow("50000", "14500", "0"))
	diags := NewDiagnosticsEngine().Evaluate(in)
	assert.Equal(t, []string{"fator_r_ok", "fator_r_margin"}, codes(diags))
}

func TestDiagnostics_InformalPayroll(t *testing.T) {
	months := uniformWindow("50000", "12000", "3000")
	for i := range months {
		months[i].InformalPayroll = dec("4000")
	}
	diags := NewDiagnosticsEngine().Evaluate(diagnosticInput(t, months))
	assert.Contains(t, codes(diags), "informal_payroll")
}

func TestDiagnostics_RevenueConcentration(t *testing.T) {
	months := uniformWindow("10000", "3000", "0")
	months[5].ServiceRevenue = dec("100000")
	diags := NewDiagnosticsEngine().Evaluate(diagnosticInput(t, months))
	assert.Contains(t, codes(diags), "revenue_concentration")
}

func TestDiagnostics_RevenueCap(t *testing.T) {
	near := NewDiagnosticsEngine().Evaluate(diagnosticInput(t, uniformWindow("350000", "100000", "0")))
	require.Contains(t, codes(near), "revenue_cap")
	for _, d := range near {
		if d.Code == "revenue_cap" {
			assert.Equal(t, domain.SeverityInfo, d.Severity)
		}
	}

	over := NewDiagnosticsEngine().Evaluate(diagnosticInput(t, uniformWindow("450000", "130000", "0")))
	for _, d := range over {
		if d.Code == "revenue_cap" {
			assert.Equal(t, domain.SeverityWarning, d.Severity)
		}
	}
	assert.Contains(t, codes(over), "revenue_cap")
}

func TestDiagnostics_NoRevenue(t *testing.T) {
	in := diagnosticInput(t, uniformWindow("0", "0", "0"))
	in.UsedDefaultConfig = true
	diags := NewDiagnosticsEngine().Evaluate(in)
	assert.Equal(t, []string{"parameters_default", "no_revenue"}, codes(diags))
}

func TestDiagnostics_Clamped(t *testing.T) {
	in := diagnosticInput(t, uniformWindow("50000", "12000", "3000"))
	in.BracketClamped = true
	diags := NewDiagnosticsEngine().Evaluate(in)
	assert.Equal(t, []string{"bracket_clamped", "fator_r_ok"}, codes(diags))
}

func TestDiagnostics_OrderIsStable(t *testing.T) {
	months := uniformWindow("50000", "8000", "0")
	for i := range months {
		months[i].InformalPayroll = dec("5000")
	}
	in := diagnosticInput(t, months)
	in.UsedDefaultParameters = true

	engine := NewDiagnosticsEngine()
	first := engine.Evaluate(in)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, engine.Evaluate(in))
	}
	assert.Equal(t, []string{"parameters_default", "fator_r_below", "informal_payroll", "regime_opportunity"}, codes(first))
}
