package breakeven

import (
	"github.com/shopspring/decimal"

	"github.com/labfinance/taxsim/internal/calculation"
	"github.com/labfinance/taxsim/internal/domain"
)

// Target is the monthly quantity varied by the solver
type Target string

const (
	// TargetRevenue scales every revenue field of the window
	TargetRevenue Target = "revenue"
	// TargetPayroll scales salaries, pro-labore and payroll charges of the window
	TargetPayroll Target = "payroll"
)

// Valid reports whether t is a known target
func (t Target) Valid() bool {
	return t == TargetRevenue || t == TargetPayroll
}

// Label returns the Portuguese name of the target
func (t Target) Label() string {
	switch t {
	case TargetRevenue:
		return "receita mensal"
	case TargetPayroll:
		return "folha mensal"
	default:
		return string(t)
	}
}

// Bounds limit the monthly value searched. Nil bounds default to a tenth and
// ten times the current value.
type Bounds struct {
	Min *decimal.Decimal `json:"min,omitempty"`
	Max *decimal.Decimal `json:"max,omitempty"`
}

// CrossoverRequest asks for the monthly value of Target at which RegimeA and
// RegimeB carry the same tax.
type CrossoverRequest struct {
	Base          calculation.SimulationRequest
	Target        Target
	RegimeA       domain.Regime
	RegimeB       domain.Regime
	Bounds        Bounds
	MaxIterations int             // Maximum solver iterations
	Tolerance     decimal.Decimal // Width of the final bracket, in reais
}

// Validate checks the request before any simulation runs
func (r *CrossoverRequest) Validate() error {
	if !r.Target.Valid() {
		return &BreakEvenError{Operation: "validate_request", Message: "unsupported target: " + string(r.Target)}
	}
	if !r.RegimeA.Valid() || !r.RegimeB.Valid() {
		return &BreakEvenError{Operation: "validate_request", Message: "unknown regime"}
	}
	if r.RegimeA == r.RegimeB {
		return &BreakEvenError{Operation: "validate_request", Message: "regimes must differ"}
	}
	if r.Bounds.Min != nil && r.Bounds.Min.IsNegative() {
		return &BreakEvenError{Operation: "validate_request", Message: "min cannot be negative"}
	}
	if r.Bounds.Min != nil && r.Bounds.Max != nil && r.Bounds.Min.GreaterThanOrEqual(*r.Bounds.Max) {
		return &BreakEvenError{Operation: "validate_request", Message: "min must be below max"}
	}
	return nil
}

// Evaluation is the tax of both regimes at one monthly value
type Evaluation struct {
	Value  decimal.Decimal `json:"value"`
	TotalA decimal.Decimal `json:"totalA"`
	TotalB decimal.Decimal `json:"totalB"`
	FatorR decimal.Decimal `json:"fatorR"`
	Annex  domain.Annex    `json:"annex"`
}

// Diff is TotalA minus TotalB
func (e Evaluation) Diff() decimal.Decimal {
	return e.TotalA.Sub(e.TotalB)
}

// Cheaper returns the regime with the lower tax; ties go to a
func (e Evaluation) Cheaper(a, b domain.Regime) domain.Regime {
	if e.TotalB.LessThan(e.TotalA) {
		return b
	}
	return a
}

// CrossoverResult is the outcome of one crossover search
type CrossoverResult struct {
	Target     Target          `json:"target"`
	RegimeA    domain.Regime   `json:"regimeA"`
	RegimeB    domain.Regime   `json:"regimeB"`
	Reference  domain.YearMonth `json:"reference"`
	Current    Evaluation      `json:"current"`
	Lower      Evaluation      `json:"lower"`
	Upper      Evaluation      `json:"upper"`
	Found      bool            `json:"found"`
	Converged  bool            `json:"converged"`
	Iterations int             `json:"iterations"`

	// Value is the monthly value, rounded to cents, where the cheaper regime
	// changes. Zero unless Found.
	Value decimal.Decimal `json:"value"`
	// Distance is Value minus the current monthly value.
	Distance     decimal.Decimal `json:"distance"`
	CheaperBelow domain.Regime   `json:"cheaperBelow"`
	CheaperAbove domain.Regime   `json:"cheaperAbove"`
}

// MultiResult holds the crossovers of one regime against every other regime
type MultiResult struct {
	Target          Target            `json:"target"`
	Regime          domain.Regime     `json:"regime"`
	Results         []CrossoverResult `json:"results"`
	Nearest         *CrossoverResult  `json:"nearest,omitempty"`
	Recommendations []string          `json:"recommendations"`
}

// SolverOptions configures the solver algorithm
type SolverOptions struct {
	Tolerance     decimal.Decimal // Convergence tolerance
	MaxIterations int             // Maximum iterations
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.RequireFromString("0.01"), // one cent
		MaxIterations: 100,
	}
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
