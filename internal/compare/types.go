package compare

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/labfinance/taxsim/internal/domain"
	"github.com/labfinance/taxsim/internal/output"
)

// ComparisonResult is one unit's simulation reduced to the metrics compared across the chain
type ComparisonResult struct {
	UnitName string                   `json:"unitName"`
	Source   string                   `json:"source,omitempty"`
	Output   *domain.SimulationOutput `json:"-"`

	// Key Metrics
	Revenue       decimal.Decimal `json:"revenue"`
	RBT12         decimal.Decimal `json:"rbt12"`
	Folha12       decimal.Decimal `json:"folha12"`
	FatorR        decimal.Decimal `json:"fatorR"`
	Annex         domain.Annex    `json:"annex"`
	CurrentRegime domain.Regime   `json:"currentRegime"`
	CurrentTotal  decimal.Decimal `json:"currentTotal"`
	EffectiveRate decimal.Decimal `json:"effectiveRate"`
	BestRegime    domain.Regime   `json:"bestRegime"`
	BestTotal     decimal.Decimal `json:"bestTotal"`
	// PotentialSavings is CurrentTotal minus BestTotal, never negative.
	PotentialSavings decimal.Decimal `json:"potentialSavings"`

	Adjustment domain.ProlaboreAdjustment `json:"adjustment"`

	// Comparison to Base
	TaxDiffFromBase    decimal.Decimal `json:"taxDiffFromBase"`
	TaxPctFromBase     decimal.Decimal `json:"taxPctFromBase"`
	FatorRDiffFromBase decimal.Decimal `json:"fatorRDiffFromBase"`
}

// ChainTotals sums the monthly burden of every compared unit
type ChainTotals struct {
	Units            int             `json:"units"`
	Revenue          decimal.Decimal `json:"revenue"`
	CurrentTotal     decimal.Decimal `json:"currentTotal"`
	BestTotal        decimal.Decimal `json:"bestTotal"`
	PotentialSavings decimal.Decimal `json:"potentialSavings"`
}

// ComparisonSet is the comparison of a base unit against the other units of the chain
type ComparisonSet struct {
	Reference          domain.YearMonth   `json:"reference"`
	BaseUnitName       string             `json:"baseUnitName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Totals             ChainTotals        `json:"totals"`
	Recommendations    []string           `json:"recommendations"`
}

// All returns the base result followed by the alternatives
func (cs *ComparisonSet) All() []*ComparisonResult {
	out := make([]*ComparisonResult, 0, len(cs.AlternativeResults)+1)
	if cs.BaseResult != nil {
		out = append(out, cs.BaseResult)
	}
	for i := range cs.AlternativeResults {
		out = append(out, &cs.AlternativeResults[i])
	}
	return out
}

var hundred = decimal.NewFromInt(100)

// MetricsCalculator extracts the compared metrics from simulation outputs
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics reduces a simulation output to a comparison result
func (mc *MetricsCalculator) CalculateMetrics(out *domain.SimulationOutput) ComparisonResult {
	result := ComparisonResult{
		UnitName:      out.UnitName,
		Output:        out,
		Revenue:       out.Revenue,
		RBT12:         out.RBT12,
		Folha12:       out.Folha12,
		FatorR:        out.FatorR,
		Annex:         out.Annex,
		CurrentRegime: out.CurrentRegime,
		BestRegime:    out.BestScenario.ID,
		BestTotal:     out.BestScenario.Total,
		Adjustment:    out.Adjustment,
	}

	current, ok := out.Scenario(out.CurrentRegime)
	if !ok {
		current = out.BestScenario
	}
	result.CurrentTotal = current.Total
	result.EffectiveRate = current.PercentualReceita
	result.PotentialSavings = decimal.Max(current.Total.Sub(out.BestScenario.Total), decimal.Zero)

	return result
}

// CalculateComparison computes the deltas of a unit against the base unit
func (mc *MetricsCalculator) CalculateComparison(unit, base ComparisonResult) ComparisonResult {
	unit.TaxDiffFromBase = unit.CurrentTotal.Sub(base.CurrentTotal)
	if !base.CurrentTotal.IsZero() {
		unit.TaxPctFromBase = unit.TaxDiffFromBase.Mul(hundred).DivRound(base.CurrentTotal, 2)
	}
	unit.FatorRDiffFromBase = unit.FatorR.Sub(base.FatorR)
	return unit
}

// CalculateTotals sums the chain
func (mc *MetricsCalculator) CalculateTotals(compSet *ComparisonSet) ChainTotals {
	totals := ChainTotals{}
	for _, r := range compSet.All() {
		totals.Units++
		totals.Revenue = totals.Revenue.Add(r.Revenue)
		totals.CurrentTotal = totals.CurrentTotal.Add(r.CurrentTotal)
		totals.BestTotal = totals.BestTotal.Add(r.BestTotal)
		totals.PotentialSavings = totals.PotentialSavings.Add(r.PotentialSavings)
	}
	return totals
}

// GenerateRecommendations lists regime changes and pro-labore adjustments
// worth making, unit by unit, then the unit with the heaviest burden.
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}
	units := compSet.All()

	for _, r := range units {
		if r.PotentialSavings.IsPositive() {
			recommendations = append(recommendations, fmt.Sprintf(
				"%s: %s reduz a carga em %s/mês frente a %s",
				r.UnitName, r.BestRegime.Label(), output.FormatCurrency(r.PotentialSavings), r.CurrentRegime.Label()))
		}
		adj := r.Adjustment
		if adj.Status == domain.AdjustmentNeeded && adj.NetMonthlyBenefit.IsPositive() {
			recommendations = append(recommendations, fmt.Sprintf(
				"%s: aumentar o pró-labore em %s/mês leva ao Anexo III (benefício líquido %s/mês)",
				r.UnitName, output.FormatCurrency(adj.MonthlyIncrease), output.FormatCurrency(adj.NetMonthlyBenefit)))
		}
	}

	if len(units) > 1 {
		heaviest := units[0]
		for _, r := range units[1:] {
			if r.EffectiveRate.GreaterThan(heaviest.EffectiveRate) {
				heaviest = r
			}
		}
		recommendations = append(recommendations, fmt.Sprintf(
			"Maior carga efetiva: %s (%s da receita)", heaviest.UnitName, output.FormatPercentage(heaviest.EffectiveRate)))
	}

	return recommendations
}
