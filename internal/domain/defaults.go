package domain

import (
	"github.com/shopspring/decimal"
)

// DefaultParametersVersion labels the built-in parameter set
const DefaultParametersVersion = "builtin-2025"

// DefaultISSRate is the municipal service tax rate used when a unit has no config
var DefaultISSRate = decimal.NewFromFloat(0.05)

func upper(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// DefaultAnexoIII returns the built-in Anexo III table (LC 123/2006, 2025 values)
func DefaultAnexoIII() BracketTable {
	return BracketTable{
		Name: "Anexo III",
		Brackets: []Bracket{
			{Index: 1, Lower: decimal.Zero, Upper: upper(180000), Rate: decimal.NewFromFloat(0.06), Deduction: decimal.Zero},
			{Index: 2, Lower: decimal.NewFromInt(180000), Upper: upper(360000), Rate: decimal.NewFromFloat(0.112), Deduction: decimal.NewFromInt(9360)},
			{Index: 3, Lower: decimal.NewFromInt(360000), Upper: upper(720000), Rate: decimal.NewFromFloat(0.135), Deduction: decimal.NewFromInt(17640)},
			{Index: 4, Lower: decimal.NewFromInt(720000), Upper: upper(1800000), Rate: decimal.NewFromFloat(0.16), Deduction: decimal.NewFromInt(35640)},
			{Index: 5, Lower: decimal.NewFromInt(1800000), Upper: upper(3600000), Rate: decimal.NewFromFloat(0.21), Deduction: decimal.NewFromInt(125640)},
			{Index: 6, Lower: decimal.NewFromInt(3600000), Rate: decimal.NewFromFloat(0.33), Deduction: decimal.NewFromInt(648000)},
		},
	}
}

// DefaultAnexoV returns the built-in Anexo V table (LC 123/2006, 2025 values)
func DefaultAnexoV() BracketTable {
	return BracketTable{
		Name: "Anexo V",
		Brackets: []Bracket{
			{Index: 1, Lower: decimal.Zero, Upper: upper(180000), Rate: decimal.NewFromFloat(0.155), Deduction: decimal.Zero},
			{Index: 2, Lower: decimal.NewFromInt(180000), Upper: upper(360000), Rate: decimal.NewFromFloat(0.18), Deduction: decimal.NewFromInt(4500)},
			{Index: 3, Lower: decimal.NewFromInt(360000), Upper: upper(720000), Rate: decimal.NewFromFloat(0.195), Deduction: decimal.NewFromInt(9900)},
			{Index: 4, Lower: decimal.NewFromInt(720000), Upper: upper(1800000), Rate: decimal.NewFromFloat(0.205), Deduction: decimal.NewFromInt(17100)},
			{Index: 5, Lower: decimal.NewFromInt(1800000), Upper: upper(3600000), Rate: decimal.NewFromFloat(0.23), Deduction: decimal.NewFromInt(62100)},
			{Index: 6, Lower: decimal.NewFromInt(3600000), Rate: decimal.NewFromFloat(0.305), Deduction: decimal.NewFromInt(540000)},
		},
	}
}

// DefaultThresholds returns the built-in diagnostic tunables
func DefaultThresholds() Thresholds {
	return Thresholds{
		InformalPayrollTolerance:      decimal.NewFromFloat(0.10),
		MaterialityRate:               decimal.NewFromFloat(0.05),
		RevenueConcentrationTolerance: decimal.NewFromFloat(0.20),
		FatorRMarginWarning:           decimal.NewFromFloat(0.02),
		FatorRVolatilityCV:            decimal.NewFromFloat(0.25),
		RevenueCapWarningShare:        decimal.NewFromFloat(0.80),
	}
}

// DefaultTaxParameters returns a fresh copy of the built-in parameters.
// Each call builds new tables so callers may modify the result freely.
func DefaultTaxParameters() *TaxParameters {
	return &TaxParameters{
		Version:    DefaultParametersVersion,
		FiscalYear: 2025,

		PresumptionRateServices:   decimal.NewFromFloat(0.32),
		PISCumulativeRate:         decimal.NewFromFloat(0.0065),
		COFINSCumulativeRate:      decimal.NewFromFloat(0.03),
		PISNonCumulativeRate:      decimal.NewFromFloat(0.0165),
		COFINSNonCumulativeRate:   decimal.NewFromFloat(0.076),
		IRPJRate:                  decimal.NewFromFloat(0.15),
		IRPJSurtaxRate:            decimal.NewFromFloat(0.10),
		IRPJSurtaxThresholdAnnual: decimal.NewFromInt(240000),
		CSLLRate:                  decimal.NewFromFloat(0.09),
		RealProfitBlendedRate:     decimal.NewFromFloat(0.048),
		CBSRate:                   decimal.NewFromFloat(0.088),
		IBSRate:                   decimal.NewFromFloat(0.177),
		HealthSectorReduction:     decimal.NewFromFloat(0.60),
		ProlaboreChargeRate:       decimal.NewFromFloat(0.20),
		SimplesRevenueCap:         decimal.NewFromInt(4800000),

		AnexoIII:   DefaultAnexoIII(),
		AnexoV:     DefaultAnexoV(),
		Thresholds: DefaultThresholds(),
	}
}

// DefaultTaxConfig returns the fallback unit configuration: Simples Nacional with the default ISS rate
func DefaultTaxConfig() *TaxConfig {
	return &TaxConfig{
		Regime:  RegimeSimplesNacional,
		ISSRate: DefaultISSRate,
	}
}
