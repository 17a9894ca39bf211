package breakeven

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labfinance/taxsim/internal/calculation"
	"github.com/labfinance/taxsim/internal/domain"
)

var reference = domain.NewYearMonth(2025, time.June)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// request builds twelve months of 50k revenue with the given payroll
func request(salaries, prolabore string) calculation.SimulationRequest {
	months := domain.MonthRange(reference, calculation.WindowLength)
	aggregates := make([]domain.MonthlyAggregate, len(months))
	for i, m := range months {
		aggregates[i] = domain.MonthlyAggregate{
			Month:            m,
			ServiceRevenue:   dec("50000"),
			PayrollSalaries:  dec(salaries),
			PayrollProlabore: dec(prolabore),
		}
	}
	return calculation.SimulationRequest{
		Reference:  reference,
		Aggregates: aggregates,
		Config:     &domain.TaxConfig{Regime: domain.RegimeSimplesNacional, ISSRate: dec("0.05")},
	}
}

func assertNear(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	diff := got.Sub(dec(want))
	assert.True(t, !diff.IsNegative() && diff.LessThanOrEqual(dec("0.01")), "want %s (+0.01), got %s", want, got)
}

func TestNewDefaultSolver(t *testing.T) {
	engine := calculation.NewEngine()
	solver := NewDefaultSolver(engine)

	assert.Same(t, engine, solver.CalcEngine)
	assert.Equal(t, 100, solver.Options.MaxIterations)
	assert.True(t, dec("0.01").Equal(solver.Options.Tolerance))
}

func TestSolver_PayrollCrossover(t *testing.T) {
	solver := NewDefaultSolver(calculation.NewEngine())
	result, err := solver.Crossover(context.Background(), CrossoverRequest{
		Base:    request("6000", "3000"),
		Target:  TargetPayroll,
		RegimeA: domain.RegimeSimplesNacional,
		RegimeB: domain.RegimeCBSIBS,
	})
	require.NoError(t, err)

	assert.True(t, result.Found)
	assert.True(t, result.Converged)
	assert.Positive(t, result.Iterations)
	assert.Equal(t, domain.RegimeCBSIBS, result.CheaperBelow)
	assert.Equal(t, domain.RegimeSimplesNacional, result.CheaperAbove)

	// the jump to Anexo III at Fator R 0.28 is the crossover
	assertNear(t, "14000", result.Value)
	assertNear(t, "5000", result.Distance)
	assert.Equal(t, domain.AnnexV, result.Lower.Annex)
	assert.Equal(t, domain.AnnexIII, result.Upper.Annex)

	assert.True(t, dec("9000").Equal(result.Current.Value))
	assert.True(t, dec("8925").Equal(result.Current.TotalA), "got %s", result.Current.TotalA)
	assert.True(t, dec("5300").Equal(result.Current.TotalB), "got %s", result.Current.TotalB)
}

func TestSolver_PayrollCrossoverMatchesAdvisor(t *testing.T) {
	engine := calculation.NewEngine()
	req := request("6000", "3000")

	advice, err := engine.Advise(req)
	require.NoError(t, err)
	result, err := NewDefaultSolver(engine).Crossover(context.Background(), CrossoverRequest{
		Base:    req,
		Target:  TargetPayroll,
		RegimeA: domain.RegimeSimplesNacional,
		RegimeB: domain.RegimeLucroPresumido,
	})
	require.NoError(t, err)

	assertNear(t, advice.Adjustment.MonthlyIncrease.StringFixed(2), result.Distance)
}

func TestSolver_RevenueCrossover(t *testing.T) {
	lo, hi := dec("40000"), dec("60000")
	result, err := NewDefaultSolver(calculation.NewEngine()).Crossover(context.Background(), CrossoverRequest{
		Base:    request("10000", "4000"),
		Target:  TargetRevenue,
		RegimeA: domain.RegimeSimplesNacional,
		RegimeB: domain.RegimeCBSIBS,
		Bounds:  Bounds{Min: &lo, Max: &hi},
	})
	require.NoError(t, err)

	require.True(t, result.Found)
	assert.Equal(t, domain.RegimeSimplesNacional, result.CheaperBelow)
	assert.Equal(t, domain.RegimeCBSIBS, result.CheaperAbove)
	// above 50k of monthly revenue the same payroll falls below Fator R 0.28
	assertNear(t, "50000", result.Value)
}

func TestSolver_NoCrossover(t *testing.T) {
	result, err := NewDefaultSolver(calculation.NewEngine()).Crossover(context.Background(), CrossoverRequest{
		Base:    request("6000", "3000"),
		Target:  TargetPayroll,
		RegimeA: domain.RegimeSimplesNacional,
		RegimeB: domain.RegimeLucroReal,
	})
	require.NoError(t, err)

	assert.False(t, result.Found)
	assert.Zero(t, result.Iterations)
	assert.True(t, result.Value.IsZero())
	assert.Equal(t, domain.RegimeSimplesNacional, result.CheaperBelow)
	assert.Equal(t, domain.RegimeSimplesNacional, result.CheaperAbove)
	assert.True(t, dec("900").Equal(result.Lower.Value))
	assert.True(t, dec("90000").Equal(result.Upper.Value))
}

func TestSolver_IterationLimit(t *testing.T) {
	result, err := NewDefaultSolver(calculation.NewEngine()).Crossover(context.Background(), CrossoverRequest{
		Base:          request("6000", "3000"),
		Target:        TargetPayroll,
		RegimeA:       domain.RegimeSimplesNacional,
		RegimeB:       domain.RegimeCBSIBS,
		MaxIterations: 3,
	})
	require.NoError(t, err)

	assert.True(t, result.Found)
	assert.False(t, result.Converged)
	assert.Equal(t, 3, result.Iterations)
}

func TestSolver_Errors(t *testing.T) {
	solver := NewDefaultSolver(calculation.NewEngine())

	_, err := solver.Crossover(context.Background(), CrossoverRequest{
		Base:    request("0", "0"),
		Target:  TargetPayroll,
		RegimeA: domain.RegimeSimplesNacional,
		RegimeB: domain.RegimeCBSIBS,
	})
	var beErr *BreakEvenError
	require.True(t, errors.As(err, &beErr))
	assert.Equal(t, "crossover", beErr.Operation)
	assert.ErrorContains(t, err, "folha mensal of 2025-06 is zero")

	bad := request("6000", "3000")
	bad.RevenueBasis = "weekly"
	_, err = solver.Crossover(context.Background(), CrossoverRequest{
		Base:    bad,
		Target:  TargetRevenue,
		RegimeA: domain.RegimeSimplesNacional,
		RegimeB: domain.RegimeCBSIBS,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidParameters)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = solver.Crossover(ctx, CrossoverRequest{
		Base:    request("6000", "3000"),
		Target:  TargetPayroll,
		RegimeA: domain.RegimeSimplesNacional,
		RegimeB: domain.RegimeCBSIBS,
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSolver_CrossoverAll(t *testing.T) {
	multi, err := NewDefaultSolver(calculation.NewEngine()).CrossoverAll(context.Background(), CrossoverRequest{
		Base:    request("6000", "3000"),
		Target:  TargetPayroll,
		RegimeA: domain.RegimeSimplesNacional,
	})
	require.NoError(t, err)

	require.Len(t, multi.Results, 3)
	assert.Equal(t, domain.RegimeLucroPresumido, multi.Results[0].RegimeB)
	assert.True(t, multi.Results[0].Found)
	assert.False(t, multi.Results[1].Found)
	assert.True(t, multi.Results[2].Found)

	require.NotNil(t, multi.Nearest)
	assert.Equal(t, domain.RegimeLucroPresumido, multi.Nearest.RegimeB)

	require.Len(t, multi.Recommendations, 4)
	assert.Contains(t, multi.Recommendations[0], "A partir de R$ 14.000,0")
	assert.Contains(t, multi.Recommendations[0], "Simples Nacional passa a ser mais barato que Lucro Presumido (atual R$ 9.000,00)")
	assert.Equal(t, "Simples Nacional é sempre mais barato que Lucro Real entre R$ 900,00 e R$ 90.000,00 de folha mensal", multi.Recommendations[1])
	assert.Contains(t, multi.Recommendations[3], "Ponto de virada mais próximo: Simples Nacional x Lucro Presumido")
}
