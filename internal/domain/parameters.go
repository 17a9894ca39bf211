package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Annex identifies a Simples Nacional bracket table
type Annex string

const (
	AnnexIII Annex = "III"
	AnnexV   Annex = "V"
)

// Label returns the display name of the annex
func (a Annex) Label() string {
	return "Anexo " + string(a)
}

// Regime identifies one of the four tax regimes compared by the engine
type Regime string

const (
	RegimeSimplesNacional Regime = "simples_nacional"
	RegimeLucroPresumido  Regime = "lucro_presumido"
	RegimeLucroReal       Regime = "lucro_real"
	RegimeCBSIBS          Regime = "cbs_ibs"
)

// Valid reports whether r is a known regime
func (r Regime) Valid() bool {
	switch r {
	case RegimeSimplesNacional, RegimeLucroPresumido, RegimeLucroReal, RegimeCBSIBS:
		return true
	}
	return false
}

// Label returns the Portuguese display name of the regime
func (r Regime) Label() string {
	switch r {
	case RegimeSimplesNacional:
		return "Simples Nacional"
	case RegimeLucroPresumido:
		return "Lucro Presumido"
	case RegimeLucroReal:
		return "Lucro Real"
	case RegimeCBSIBS:
		return "CBS/IBS (Reforma)"
	default:
		return string(r)
	}
}

// Bracket is one row of a progressive table. The range is [Lower, Upper);
// a nil Upper means the bracket is unbounded above.
type Bracket struct {
	Index     int              `yaml:"index" json:"index"`
	Lower     decimal.Decimal  `yaml:"lower" json:"lower"`
	Upper     *decimal.Decimal `yaml:"upper,omitempty" json:"upper,omitempty"`
	Rate      decimal.Decimal  `yaml:"rate" json:"rate"`
	Deduction decimal.Decimal  `yaml:"deduction" json:"deduction"`
}

// Contains reports whether value falls inside [Lower, Upper)
func (b Bracket) Contains(value decimal.Decimal) bool {
	if value.LessThan(b.Lower) {
		return false
	}
	return b.Upper == nil || value.LessThan(*b.Upper)
}

// BracketTable is an ordered Simples Nacional annex table
type BracketTable struct {
	Name     string    `yaml:"name" json:"name"`
	Brackets []Bracket `yaml:"brackets" json:"brackets"`
}

// Validate checks that the table is non-empty, starts at zero, is contiguous and
// strictly increasing, has non-negative rates and deductions, and that only the
// last bracket is unbounded.
func (t BracketTable) Validate() error {
	field := t.Name
	if field == "" {
		field = "brackets"
	}
	if len(t.Brackets) == 0 {
		return NewBracketError(field, "table is empty")
	}
	if !t.Brackets[0].Lower.IsZero() {
		return NewBracketError(field, "first bracket must start at zero")
	}
	last := len(t.Brackets) - 1
	for i, b := range t.Brackets {
		name := fmt.Sprintf("%s[%d]", field, i)
		if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return NewBracketError(name, "rate must be between 0 and 1")
		}
		if b.Deduction.IsNegative() {
			return NewBracketError(name, "deduction cannot be negative")
		}
		if i == last {
			if b.Upper != nil {
				return NewBracketError(name, "last bracket must be unbounded")
			}
			continue
		}
		if b.Upper == nil {
			return NewBracketError(name, "only the last bracket may be unbounded")
		}
		if !b.Upper.GreaterThan(b.Lower) {
			return NewBracketError(name, "upper bound must be greater than lower bound")
		}
		if !t.Brackets[i+1].Lower.Equal(*b.Upper) {
			return NewBracketError(name, fmt.Sprintf("gap or overlap: upper %s, next lower %s",
				b.Upper.String(), t.Brackets[i+1].Lower.String()))
		}
	}
	return nil
}

// Thresholds are the tunable diagnostic and audit constants
type Thresholds struct {
	InformalPayrollTolerance      decimal.Decimal `yaml:"informal_payroll_tolerance" json:"informalPayrollTolerance"`
	MaterialityRate               decimal.Decimal `yaml:"materiality_rate" json:"materialityRate"`
	RevenueConcentrationTolerance decimal.Decimal `yaml:"revenue_concentration_tolerance" json:"revenueConcentrationTolerance"`
	FatorRMarginWarning           decimal.Decimal `yaml:"fator_r_margin_warning" json:"fatorRMarginWarning"`
	FatorRVolatilityCV            decimal.Decimal `yaml:"fator_r_volatility_cv" json:"fatorRVolatilityCV"`
	RevenueCapWarningShare        decimal.Decimal `yaml:"revenue_cap_warning_share" json:"revenueCapWarningShare"`
}

// TaxParameters is the versioned rate and table configuration of one fiscal year
type TaxParameters struct {
	Version       string `yaml:"version" json:"version"`
	FiscalYear    int    `yaml:"fiscal_year" json:"fiscalYear"`
	EffectiveFrom string `yaml:"effective_from,omitempty" json:"effectiveFrom,omitempty"`

	PresumptionRateServices   decimal.Decimal `yaml:"presumption_rate_services" json:"presumptionRateServices"`
	PISCumulativeRate         decimal.Decimal `yaml:"pis_cumulative_rate" json:"pisCumulativeRate"`
	COFINSCumulativeRate      decimal.Decimal `yaml:"cofins_cumulative_rate" json:"cofinsCumulativeRate"`
	PISNonCumulativeRate      decimal.Decimal `yaml:"pis_non_cumulative_rate" json:"pisNonCumulativeRate"`
	COFINSNonCumulativeRate   decimal.Decimal `yaml:"cofins_non_cumulative_rate" json:"cofinsNonCumulativeRate"`
	IRPJRate                  decimal.Decimal `yaml:"irpj_rate" json:"irpjRate"`
	IRPJSurtaxRate            decimal.Decimal `yaml:"irpj_surtax_rate" json:"irpjSurtaxRate"`
	IRPJSurtaxThresholdAnnual decimal.Decimal `yaml:"irpj_surtax_threshold_annual" json:"irpjSurtaxThresholdAnnual"`
	CSLLRate                  decimal.Decimal `yaml:"csll_rate" json:"csllRate"`
	RealProfitBlendedRate     decimal.Decimal `yaml:"real_profit_blended_rate" json:"realProfitBlendedRate"`
	CBSRate                   decimal.Decimal `yaml:"cbs_rate" json:"cbsRate"`
	IBSRate                   decimal.Decimal `yaml:"ibs_rate" json:"ibsRate"`
	HealthSectorReduction     decimal.Decimal `yaml:"health_sector_reduction" json:"healthSectorReduction"`
	ProlaboreChargeRate       decimal.Decimal `yaml:"prolabore_charge_rate" json:"prolaboreChargeRate"`
	SimplesRevenueCap         decimal.Decimal `yaml:"simples_revenue_cap" json:"simplesRevenueCap"`

	AnexoIII BracketTable `yaml:"anexo_iii" json:"anexoIII"`
	AnexoV   BracketTable `yaml:"anexo_v" json:"anexoV"`

	Thresholds Thresholds `yaml:"thresholds" json:"thresholds"`
}

// Table returns the bracket table of the given annex
func (p *TaxParameters) Table(annex Annex) BracketTable {
	if annex == AnnexIII {
		return p.AnexoIII
	}
	return p.AnexoV
}

// Validate checks both bracket tables and every rate. Rates must lie in [0, 1].
func (p *TaxParameters) Validate() error {
	if err := p.AnexoIII.Validate(); err != nil {
		return fmt.Errorf("anexo III: %w", err)
	}
	if err := p.AnexoV.Validate(); err != nil {
		return fmt.Errorf("anexo V: %w", err)
	}

	rates := []struct {
		name  string
		value decimal.Decimal
	}{
		{"presumption_rate_services", p.PresumptionRateServices},
		{"pis_cumulative_rate", p.PISCumulativeRate},
		{"cofins_cumulative_rate", p.COFINSCumulativeRate},
		{"pis_non_cumulative_rate", p.PISNonCumulativeRate},
		{"cofins_non_cumulative_rate", p.COFINSNonCumulativeRate},
		{"irpj_rate", p.IRPJRate},
		{"irpj_surtax_rate", p.IRPJSurtaxRate},
		{"csll_rate", p.CSLLRate},
		{"real_profit_blended_rate", p.RealProfitBlendedRate},
		{"cbs_rate", p.CBSRate},
		{"ibs_rate", p.IBSRate},
		{"health_sector_reduction", p.HealthSectorReduction},
		{"prolabore_charge_rate", p.ProlaboreChargeRate},
	}
	one := decimal.NewFromInt(1)
	for _, r := range rates {
		if r.value.IsNegative() || r.value.GreaterThan(one) {
			return NewParameterError(r.name, "must be between 0 and 1")
		}
	}
	if p.IRPJSurtaxThresholdAnnual.IsNegative() {
		return NewParameterError("irpj_surtax_threshold_annual", "cannot be negative")
	}
	if p.SimplesRevenueCap.IsNegative() {
		return NewParameterError("simples_revenue_cap", "cannot be negative")
	}
	return nil
}

// TaxConfig is the per-unit tax configuration
type TaxConfig struct {
	UnitName   string          `yaml:"unit_name,omitempty" json:"unitName,omitempty"`
	Regime     Regime          `yaml:"regime" json:"regime"`
	ISSRate    decimal.Decimal `yaml:"iss_rate" json:"issRate"`
	TaxpayerID string          `yaml:"taxpayer_id,omitempty" json:"taxpayerId,omitempty"`
}

// Validate checks the regime label and ISS rate
func (c *TaxConfig) Validate() error {
	if !c.Regime.Valid() {
		return fmt.Errorf("%w: unknown regime %q", ErrInvalidConfig, c.Regime)
	}
	if c.ISSRate.IsNegative() || c.ISSRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: iss_rate must be between 0 and 1", ErrInvalidConfig)
	}
	return nil
}
