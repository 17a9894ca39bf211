package calculation

import (
	"fmt"

	"github.com/labfinance/taxsim/internal/domain"
	"github.com/shopspring/decimal"
)

// DiagnosticInput is everything the rules may look at
type DiagnosticInput struct {
	UsedDefaultParameters bool
	UsedDefaultConfig     bool
	ParametersVersion     string
	BracketClamped        bool

	RBT12      decimal.Decimal
	Folha12    decimal.Decimal
	Informal12 decimal.Decimal
	Excluded12 decimal.Decimal
	FatorR     decimal.Decimal
	Annex      domain.Annex

	Scenarios     []domain.RegimeScenario
	BestScenario  domain.RegimeScenario
	CurrentRegime domain.Regime

	// Window is the padded trailing window, oldest first.
	Window []domain.MonthlyAggregate

	Params *domain.TaxParameters
}

// DiagnosticRule inspects the input and returns at most one diagnostic
type DiagnosticRule struct {
	Code  string
	Check func(in DiagnosticInput) (domain.Diagnostic, bool)
}

// DiagnosticsEngine evaluates a fixed, ordered list of independent rules.
// Output order always follows rule order.
type DiagnosticsEngine struct {
	Rules []DiagnosticRule
}

// NewDiagnosticsEngine returns the engine with the built-in rules
func NewDiagnosticsEngine() *DiagnosticsEngine {
	return &DiagnosticsEngine{Rules: DefaultDiagnosticRules()}
}

// DefaultDiagnosticRules returns the built-in rules in evaluation order
func DefaultDiagnosticRules() []DiagnosticRule {
	return []DiagnosticRule{
		{Code: "parameters_default", Check: checkDefaults},
		{Code: "bracket_clamped", Check: checkClamped},
		{Code: "fator_r", Check: checkFatorR},
		{Code: "fator_r_margin", Check: checkFatorRMargin},
		{Code: "informal_payroll", Check: checkInformalPayroll},
		{Code: "regime_opportunity", Check: checkRegimeOpportunity},
		{Code: "revenue_concentration", Check: checkRevenueConcentration},
		{Code: "revenue_cap", Check: checkRevenueCap},
		{Code: "no_revenue", Check: checkNoRevenue},
	}
}

// Evaluate runs every rule and collects the diagnostics in rule order
func (de *DiagnosticsEngine) Evaluate(in DiagnosticInput) []domain.Diagnostic {
	out := make([]domain.Diagnostic, 0, len(de.Rules))
	for _, rule := range de.Rules {
		if d, ok := rule.Check(in); ok {
			out = append(out, d)
		}
	}
	return out
}

func percentString(ratio decimal.Decimal) string {
	return ratio.Mul(hundred).StringFixed(2) + "%"
}

func checkDefaults(in DiagnosticInput) (domain.Diagnostic, bool) {
	var msg string
	switch {
	case in.UsedDefaultParameters && in.UsedDefaultConfig:
		msg = fmt.Sprintf("Parâmetros tributários padrão (%s) e configuração padrão da unidade utilizados.", in.ParametersVersion)
	case in.UsedDefaultParameters:
		msg = fmt.Sprintf("Parâmetros tributários padrão (%s) utilizados.", in.ParametersVersion)
	case in.UsedDefaultConfig:
		msg = "Configuração tributária padrão da unidade utilizada (Simples Nacional, ISS padrão)."
	default:
		return domain.Diagnostic{}, false
	}
	return domain.Diagnostic{Severity: domain.SeverityInfo, Code: "parameters_default", Message: msg}, true
}

func checkClamped(in DiagnosticInput) (domain.Diagnostic, bool) {
	if !in.BracketClamped {
		return domain.Diagnostic{}, false
	}
	return domain.Diagnostic{
		Severity: domain.SeverityWarning,
		Code:     "bracket_clamped",
		Message:  fmt.Sprintf("Alíquota efetiva negativa na tabela do %s foi ajustada para zero; revise as deduções da tabela.", in.Annex.Label()),
	}, true
}

func checkFatorR(in DiagnosticInput) (domain.Diagnostic, bool) {
	if !in.RBT12.IsPositive() {
		return domain.Diagnostic{}, false
	}
	if in.Annex == domain.AnnexV {
		shortfall := FatorRThreshold.Sub(in.FatorR)
		return domain.Diagnostic{
			Severity: domain.SeverityWarning,
			Code:     "fator_r_below",
			Message: fmt.Sprintf("Fator R de %s abaixo de %s (faltam %s p.p.); a unidade é tributada pelo Anexo V.",
				percentString(in.FatorR), percentString(FatorRThreshold), shortfall.Mul(hundred).StringFixed(2)),
		}, true
	}
	return domain.Diagnostic{
		Severity: domain.SeveritySuccess,
		Code:     "fator_r_ok",
		Message:  fmt.Sprintf("Fator R de %s garante o enquadramento no Anexo III.", percentString(in.FatorR)),
	}, true
}

func checkFatorRMargin(in DiagnosticInput) (domain.Diagnostic, bool) {
	if in.Annex != domain.AnnexIII || !in.RBT12.IsPositive() {
		return domain.Diagnostic{}, false
	}
	margin := in.FatorR.Sub(FatorRThreshold)
	if margin.GreaterThanOrEqual(in.Params.Thresholds.FatorRMarginWarning) {
		return domain.Diagnostic{}, false
	}
	return domain.Diagnostic{
		Severity: domain.SeverityInsight,
		Code:     "fator_r_margin",
		Message: fmt.Sprintf("Fator R apenas %s p.p. acima do limite; uma queda na folha pode levar ao Anexo V.",
			margin.Mul(hundred).StringFixed(2)),
	}, true
}

func checkInformalPayroll(in DiagnosticInput) (domain.Diagnostic, bool) {
	total := in.Folha12.Add(in.Informal12).Add(in.Excluded12)
	if !total.IsPositive() || !in.Informal12.IsPositive() {
		return domain.Diagnostic{}, false
	}
	share := safeRatio(in.Informal12, total)
	if !share.GreaterThan(in.Params.Thresholds.InformalPayrollTolerance) {
		return domain.Diagnostic{}, false
	}
	return domain.Diagnostic{
		Severity: domain.SeverityWarning,
		Code:     "informal_payroll",
		Message: fmt.Sprintf("Pagamentos informais representam %s da folha e não contam para o Fator R.",
			percentString(share)),
	}, true
}

func checkRegimeOpportunity(in DiagnosticInput) (domain.Diagnostic, bool) {
	if in.BestScenario.ID == "" || in.BestScenario.ID == in.CurrentRegime {
		return domain.Diagnostic{}, false
	}
	var current domain.RegimeScenario
	found := false
	for _, s := range in.Scenarios {
		if s.ID == in.CurrentRegime {
			current, found = s, true
			break
		}
	}
	if !found {
		return domain.Diagnostic{}, false
	}
	saving := current.Total.Sub(in.BestScenario.Total)
	if !saving.IsPositive() || !saving.GreaterThan(current.Total.Mul(in.Params.Thresholds.MaterialityRate)) {
		return domain.Diagnostic{}, false
	}
	return domain.Diagnostic{
		Severity: domain.SeverityInsight,
		Code:     "regime_opportunity",
		Message: fmt.Sprintf("%s resultaria em R$ %s a menos por mês que o regime atual (%s).",
			in.BestScenario.Label, saving.StringFixed(2), current.Label),
	}, true
}

func checkRevenueConcentration(in DiagnosticInput) (domain.Diagnostic, bool) {
	if !in.RBT12.IsPositive() {
		return domain.Diagnostic{}, false
	}
	var peak domain.MonthlyAggregate
	for _, m := range in.Window {
		if m.GrossRevenue().GreaterThan(peak.GrossRevenue()) {
			peak = m
		}
	}
	share := safeRatio(peak.GrossRevenue(), in.RBT12)
	if !share.GreaterThan(in.Params.Thresholds.RevenueConcentrationTolerance) {
		return domain.Diagnostic{}, false
	}
	return domain.Diagnostic{
		Severity: domain.SeverityInsight,
		Code:     "revenue_concentration",
		Message: fmt.Sprintf("A receita de %s concentra %s do RBT12; variações sazonais afetam o Fator R.",
			peak.Month, percentString(share)),
	}, true
}

func checkRevenueCap(in DiagnosticInput) (domain.Diagnostic, bool) {
	limit := in.Params.SimplesRevenueCap
	if !limit.IsPositive() {
		return domain.Diagnostic{}, false
	}
	if in.RBT12.GreaterThan(limit) {
		return domain.Diagnostic{
			Severity: domain.SeverityWarning,
			Code:     "revenue_cap",
			Message: fmt.Sprintf("RBT12 de R$ %s excede o limite do Simples Nacional (R$ %s).",
				in.RBT12.StringFixed(2), limit.StringFixed(2)),
		}, true
	}
	if in.RBT12.GreaterThanOrEqual(limit.Mul(in.Params.Thresholds.RevenueCapWarningShare)) {
		return domain.Diagnostic{
			Severity: domain.SeverityInfo,
			Code:     "revenue_cap",
			Message: fmt.Sprintf("RBT12 atingiu %s do limite do Simples Nacional.",
				percentString(safeRatio(in.RBT12, limit))),
		}, true
	}
	return domain.Diagnostic{}, false
}

func checkNoRevenue(in DiagnosticInput) (domain.Diagnostic, bool) {
	if in.RBT12.IsPositive() {
		return domain.Diagnostic{}, false
	}
	return domain.Diagnostic{
		Severity: domain.SeverityInfo,
		Code:     "no_revenue",
		Message:  "Sem receita nos últimos 12 meses; Fator R considerado zero e Anexo V aplicado.",
	}, true
}
