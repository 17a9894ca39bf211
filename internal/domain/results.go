package domain

import (
	"github.com/shopspring/decimal"
)

// RevenueBasis selects which monthly revenue the Simples scenario is applied to
type RevenueBasis string

const (
	// RevenueBasisCurrentMonth uses the reference month's actual revenue
	RevenueBasisCurrentMonth RevenueBasis = "current_month"
	// RevenueBasisRBT12Average uses RBT12 / 12
	RevenueBasisRBT12Average RevenueBasis = "rbt12_average"
)

// Valid reports whether b is a known basis
func (b RevenueBasis) Valid() bool {
	return b == RevenueBasisCurrentMonth || b == RevenueBasisRBT12Average
}

// RegimeScenario is the computed tax burden of one regime
type RegimeScenario struct {
	ID                 Regime            `json:"id"`
	Label              string            `json:"label"`
	Base               decimal.Decimal   `json:"base"`
	FederalComponent   decimal.Decimal   `json:"federalComponent"`
	MunicipalComponent decimal.Decimal   `json:"municipalComponent"`
	Total              decimal.Decimal   `json:"total"`
	PercentualReceita  decimal.Decimal   `json:"percentualReceita"`
	Comment            string            `json:"comment"`
	Detail             map[string]string `json:"detail"`
}

// Severity tags a diagnostic
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeveritySuccess Severity = "success"
	SeverityInsight Severity = "insight"
	SeverityInfo    Severity = "info"
)

// Diagnostic is one human-readable observation produced by a rule
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
}

// String formats the diagnostic as "[severity] message"
func (d Diagnostic) String() string {
	return "[" + string(d.Severity) + "] " + d.Message
}

// AdjustmentStatus is the outcome of the pro-labore advisor
type AdjustmentStatus string

const (
	AdjustmentCompliant AdjustmentStatus = "compliant"
	AdjustmentNeeded    AdjustmentStatus = "adjustment_needed"
	AdjustmentNoRevenue AdjustmentStatus = "no_revenue"
)

// ProlaboreAdjustment is the minimal monthly pro-labore increase that reaches the Anexo III threshold
type ProlaboreAdjustment struct {
	CurrentFatorR     decimal.Decimal  `json:"currentFatorR"`
	TargetFatorR      decimal.Decimal  `json:"targetFatorR"`
	Folha12           decimal.Decimal  `json:"folha12"`
	RBT12             decimal.Decimal  `json:"rbt12"`
	MonthlyIncrease   decimal.Decimal  `json:"monthlyIncrease"`
	AnnualIncrease    decimal.Decimal  `json:"annualIncrease"`
	ProjectedFatorR   decimal.Decimal  `json:"projectedFatorR"`
	Status            AdjustmentStatus `json:"status"`
	AdditionalCharges decimal.Decimal  `json:"additionalCharges"`
	NetMonthlyBenefit decimal.Decimal  `json:"netMonthlyBenefit"`
}

// AnexoSavings compares the Simples tax under Anexo III and Anexo V
type AnexoSavings struct {
	MonthlyRevenue   decimal.Decimal `json:"monthlyRevenue"`
	RBT12            decimal.Decimal `json:"rbt12"`
	EffectiveRateIII decimal.Decimal `json:"effectiveRateIII"`
	EffectiveRateV   decimal.Decimal `json:"effectiveRateV"`
	MonthlyTaxIII    decimal.Decimal `json:"monthlyTaxIII"`
	MonthlyTaxV      decimal.Decimal `json:"monthlyTaxV"`
	MonthlySavings   decimal.Decimal `json:"monthlySavings"`
	AnnualSavings    decimal.Decimal `json:"annualSavings"`
}

// SimulationOutput is the top-level result of one simulation call
type SimulationOutput struct {
	Reference    YearMonth        `json:"reference"`
	UnitName     string           `json:"unitName,omitempty"`
	Revenue      decimal.Decimal  `json:"revenue"`
	RBT12        decimal.Decimal  `json:"rbt12"`
	Folha12      decimal.Decimal  `json:"folha12"`
	FatorR       decimal.Decimal  `json:"fatorR"`
	Annex        Annex            `json:"annex"`
	Scenarios    []RegimeScenario `json:"scenarios"`
	BestScenario RegimeScenario   `json:"bestScenario"`
	Diagnostics  []Diagnostic     `json:"diagnostics"`

	Adjustment ProlaboreAdjustment `json:"adjustment"`
	Savings    AnexoSavings        `json:"savings"`

	CurrentRegime         Regime       `json:"currentRegime"`
	RevenueBasis          RevenueBasis `json:"revenueBasis"`
	ParametersVersion     string       `json:"parametersVersion"`
	UsedDefaultParameters bool         `json:"usedDefaultParameters"`
	UsedDefaultConfig     bool         `json:"usedDefaultConfig"`
}

// UsedDefaults reports whether any built-in fallback was applied
func (o *SimulationOutput) UsedDefaults() bool {
	return o.UsedDefaultParameters || o.UsedDefaultConfig
}

// DiagnosticStrings returns the diagnostics formatted as tagged strings, in rule order
func (o *SimulationOutput) DiagnosticStrings() []string {
	out := make([]string, len(o.Diagnostics))
	for i, d := range o.Diagnostics {
		out[i] = d.String()
	}
	return out
}

// Scenario returns the scenario of the given regime
func (o *SimulationOutput) Scenario(id Regime) (RegimeScenario, bool) {
	for _, s := range o.Scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return RegimeScenario{}, false
}

// AuditMonth is one month of the Fator R audit with its payroll breakdown
type AuditMonth struct {
	Month      YearMonth       `json:"month"`
	Revenue    decimal.Decimal `json:"revenue"`
	Salaries   decimal.Decimal `json:"salaries"`
	Prolabore  decimal.Decimal `json:"prolabore"`
	Charges    decimal.Decimal `json:"charges"`
	Informal   decimal.Decimal `json:"informal"`
	Excluded   decimal.Decimal `json:"excluded"`
	Payroll    decimal.Decimal `json:"payroll"`
	FatorR     decimal.Decimal `json:"fatorR"`
	HasRevenue bool            `json:"hasRevenue"`
}

// UnmappedCategory is a personnel category lacking an explicit Fator R flag
type UnmappedCategory struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	InCatalog bool   `json:"inCatalog"`
}

// AuditResult is the outcome of the Fator R audit over a 12-month window
type AuditResult struct {
	Reference             YearMonth          `json:"reference"`
	FatorRMedio           decimal.Decimal    `json:"fatorRMedio"`
	FatorRVariation       decimal.Decimal    `json:"fatorRVariation"`
	Folha12               decimal.Decimal    `json:"folha12"`
	RBT12                 decimal.Decimal    `json:"rbt12"`
	CategoriasNaoMapeadas []UnmappedCategory `json:"categoriasNaoMapeadas"`
	Sugestoes             []string           `json:"sugestoes"`
	Months                []AuditMonth       `json:"months"`
}

// TrendPoint is the rolling-window state at one reference month
type TrendPoint struct {
	Month   YearMonth       `json:"month"`
	RBT12   decimal.Decimal `json:"rbt12"`
	Folha12 decimal.Decimal `json:"folha12"`
	FatorR  decimal.Decimal `json:"fatorR"`
	Annex   Annex           `json:"annex"`
}
