package breakeven

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/labfinance/taxsim/internal/calculation"
	"github.com/labfinance/taxsim/internal/domain"
)

var (
	two = decimal.NewFromInt(2)
	ten = decimal.NewFromInt(10)
)

// Solver finds the monthly revenue or payroll at which two regimes swap places
type Solver struct {
	CalcEngine *calculation.Engine
	Options    SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(calcEngine *calculation.Engine, options SolverOptions) *Solver {
	return &Solver{
		CalcEngine: calcEngine,
		Options:    options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calcEngine *calculation.Engine) *Solver {
	return NewSolver(calcEngine, DefaultSolverOptions())
}

// Crossover scales the target across the whole window and bisects between the
// bounds until the cheaper of the two regimes changes. A result with Found
// false means one regime is cheaper over the whole interval.
func (s *Solver) Crossover(ctx context.Context, req CrossoverRequest) (*CrossoverResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if req.Tolerance.IsZero() {
		req.Tolerance = s.Options.Tolerance
	}

	window, err := s.window(req.Base)
	if err != nil {
		return nil, &BreakEvenError{Operation: "crossover", Message: "failed to build the window", Cause: err}
	}
	current := currentValue(window[len(window)-1], req.Target)
	if !current.IsPositive() {
		return nil, &BreakEvenError{
			Operation: "crossover",
			Message:   fmt.Sprintf("%s of %s is zero, nothing to scale", req.Target.Label(), req.Base.Reference),
		}
	}

	lo, hi := current.Div(ten), current.Mul(ten)
	if req.Bounds.Min != nil {
		lo = *req.Bounds.Min
	}
	if req.Bounds.Max != nil {
		hi = *req.Bounds.Max
	}
	if lo.GreaterThanOrEqual(hi) {
		return nil, &BreakEvenError{Operation: "crossover", Message: "min must be below max"}
	}

	eval := func(value decimal.Decimal) (Evaluation, error) {
		return s.evaluate(req, window, current, value)
	}

	result := &CrossoverResult{
		Target:    req.Target,
		RegimeA:   req.RegimeA,
		RegimeB:   req.RegimeB,
		Reference: req.Base.Reference,
	}
	if result.Current, err = eval(current); err != nil {
		return nil, err
	}
	lower, err := eval(lo)
	if err != nil {
		return nil, err
	}
	upper, err := eval(hi)
	if err != nil {
		return nil, err
	}
	result.CheaperBelow = lower.Cheaper(req.RegimeA, req.RegimeB)
	result.CheaperAbove = upper.Cheaper(req.RegimeA, req.RegimeB)

	if result.CheaperBelow == result.CheaperAbove {
		result.Lower, result.Upper = lower, upper
		return result, nil
	}

	// Bisection on the side of the cheaper regime
	for result.Iterations < req.MaxIterations && upper.Value.Sub(lower.Value).GreaterThan(req.Tolerance) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		result.Iterations++

		mid, err := eval(lower.Value.Add(upper.Value).Div(two))
		if err != nil {
			return nil, err
		}
		if mid.Cheaper(req.RegimeA, req.RegimeB) == result.CheaperBelow {
			lower = mid
		} else {
			upper = mid
		}
	}

	result.Lower, result.Upper = lower, upper
	result.Found = true
	result.Converged = upper.Value.Sub(lower.Value).LessThanOrEqual(req.Tolerance)
	result.Value = upper.Value.RoundCeil(2)
	result.Distance = result.Value.Sub(current.Round(2))

	s.CalcEngine.Logger.Debugf("crossover %s/%s on %s: %s after %d iterations",
		req.RegimeA, req.RegimeB, req.Target, result.Value.StringFixed(2), result.Iterations)

	return result, nil
}

// evaluate simulates the window with the target scaled to value
func (s *Solver) evaluate(req CrossoverRequest, window []domain.MonthlyAggregate, current, value decimal.Decimal) (Evaluation, error) {
	scaled := req.Base
	scaled.Entries = nil
	scaled.Aggregates = scaleWindow(window, req.Target, value.Div(current))

	out, err := s.CalcEngine.Simulate(scaled)
	if err != nil {
		return Evaluation{}, &BreakEvenError{
			Operation: "evaluate",
			Message:   fmt.Sprintf("simulation at %s %s failed", req.Target.Label(), value.StringFixed(2)),
			Cause:     err,
		}
	}
	a, okA := out.Scenario(req.RegimeA)
	b, okB := out.Scenario(req.RegimeB)
	if !okA || !okB {
		return Evaluation{}, &BreakEvenError{Operation: "evaluate", Message: "regime missing from the simulation"}
	}
	return Evaluation{
		Value:  value,
		TotalA: a.Total,
		TotalB: b.Total,
		FatorR: out.FatorR,
		Annex:  out.Annex,
	}, nil
}

// window returns the aligned twelve months of the request
func (s *Solver) window(req calculation.SimulationRequest) ([]domain.MonthlyAggregate, error) {
	months := domain.MonthRange(req.Reference, calculation.WindowLength)
	if len(req.Aggregates) > 0 {
		return calculation.AlignMonths(req.Aggregates, months)
	}
	aggregates, _, err := s.CalcEngine.Aggregator.Aggregate(req.Entries, months)
	return aggregates, err
}

// currentValue is the monthly value of the target in the reference month
func currentValue(m domain.MonthlyAggregate, target Target) decimal.Decimal {
	if target == TargetPayroll {
		return m.FatorRPayroll()
	}
	return m.GrossRevenue()
}

// scaleWindow multiplies the target fields of every month by factor
func scaleWindow(months []domain.MonthlyAggregate, target Target, factor decimal.Decimal) []domain.MonthlyAggregate {
	out := make([]domain.MonthlyAggregate, len(months))
	for i, m := range months {
		switch target {
		case TargetRevenue:
			m.ServiceRevenue = m.ServiceRevenue.Mul(factor)
			m.OtherRevenue = m.OtherRevenue.Mul(factor)
		case TargetPayroll:
			m.PayrollSalaries = m.PayrollSalaries.Mul(factor)
			m.PayrollProlabore = m.PayrollProlabore.Mul(factor)
			m.PayrollCharges = m.PayrollCharges.Mul(factor)
		}
		out[i] = m
	}
	return out
}
