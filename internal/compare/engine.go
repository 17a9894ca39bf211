package compare

import (
	"context"
	"fmt"

	"github.com/labfinance/taxsim/internal/calculation"
	"github.com/labfinance/taxsim/internal/domain"
)

// UnitInput is one unit of the chain ready to be simulated. Label identifies
// the unit when its configuration carries no name.
type UnitInput struct {
	Label   string
	Source  string
	Request calculation.SimulationRequest
}

// CompareEngine orchestrates the comparison of units
type CompareEngine struct {
	CalcEngine        *calculation.Engine
	MetricsCalculator *MetricsCalculator
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.Engine) *CompareEngine {
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	// Reference replaces the reference month of every request when set.
	Reference domain.YearMonth
	// BaseUnit selects the base by label or unit name; empty means the first unit.
	BaseUnit string
}

// Compare simulates every unit at the same reference month and compares each
// against the base unit.
func (ce *CompareEngine) Compare(ctx context.Context, units []UnitInput, options CompareOptions) (*ComparisonSet, error) {
	if len(units) == 0 {
		return nil, fmt.Errorf("%w: no units to compare", domain.ErrInvalidParameters)
	}

	reference := options.Reference
	if reference.IsZero() {
		reference = units[0].Request.Reference
	}

	results := make([]ComparisonResult, 0, len(units))
	baseIndex := -1
	for i, unit := range units {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req := unit.Request
		req.Reference = reference
		out, err := ce.CalcEngine.Simulate(req)
		if err != nil {
			return nil, fmt.Errorf("failed to simulate unit %s: %w", unit.Label, err)
		}

		result := ce.MetricsCalculator.CalculateMetrics(out)
		result.Source = unit.Source
		if result.UnitName == "" {
			result.UnitName = unit.Label
		}
		if baseIndex < 0 && options.BaseUnit != "" &&
			(options.BaseUnit == unit.Label || options.BaseUnit == result.UnitName) {
			baseIndex = i
		}
		results = append(results, result)
	}

	if options.BaseUnit == "" {
		baseIndex = 0
	}
	if baseIndex < 0 {
		return nil, fmt.Errorf("base unit %s not found", options.BaseUnit)
	}

	base := results[baseIndex]
	alternatives := make([]ComparisonResult, 0, len(results)-1)
	for i, r := range results {
		if i == baseIndex {
			continue
		}
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(r, base))
	}

	compSet := &ComparisonSet{
		Reference:          reference,
		BaseUnitName:       base.UnitName,
		BaseResult:         &base,
		AlternativeResults: alternatives,
	}
	compSet.Totals = ce.MetricsCalculator.CalculateTotals(compSet)
	compSet.Recommendations = GenerateRecommendations(compSet)

	ce.CalcEngine.Logger.Debugf("compared %d units at %s: chain savings %s",
		compSet.Totals.Units, reference, compSet.Totals.PotentialSavings.StringFixed(2))

	return compSet, nil
}
