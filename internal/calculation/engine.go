package calculation

import (
	"fmt"

	"github.com/labfinance/taxsim/internal/domain"
	"github.com/shopspring/decimal"
)

// SimulationRequest is the input of one simulation. Either Entries or
// Aggregates is used as the monthly source; nil Params or Config fall back to
// the built-in defaults.
type SimulationRequest struct {
	Reference    domain.YearMonth
	Entries      []domain.LedgerEntry
	Aggregates   []domain.MonthlyAggregate
	Params       *domain.TaxParameters
	Config       *domain.TaxConfig
	RevenueBasis domain.RevenueBasis
}

// AuditRequest is the input of a Fator R audit
type AuditRequest struct {
	Reference  domain.YearMonth
	Entries    []domain.LedgerEntry
	Aggregates []domain.MonthlyAggregate
	Catalog    []domain.Category
	Params     *domain.TaxParameters
}

// TrendRequest asks for the rolling-window state at Points consecutive
// reference months ending at Reference.
type TrendRequest struct {
	Reference  domain.YearMonth
	Points     int
	Entries    []domain.LedgerEntry
	Aggregates []domain.MonthlyAggregate
	// Naive recomputes every window from scratch instead of sliding.
	Naive bool
}

// DefaultTrendPoints is used when a trend request does not set Points
const DefaultTrendPoints = 12

// Advice is the advisory widget payload
type Advice struct {
	Reference  domain.YearMonth           `json:"reference"`
	FatorR     decimal.Decimal            `json:"fatorR"`
	Annex      domain.Annex               `json:"annex"`
	Adjustment domain.ProlaboreAdjustment `json:"adjustment"`
	Savings    domain.AnexoSavings        `json:"savings"`
}

// Engine orchestrates aggregation, the rolling window, regime comparison,
// advice, diagnostics and audit. It holds no per-call state.
type Engine struct {
	Categorizer *Categorizer
	Aggregator  *Aggregator
	Brackets    *BracketCalculator
	Comparator  *RegimeComparator
	Advisor     *Advisor
	Diagnostics *DiagnosticsEngine
	Auditor     *AuditReconciler
	Logger      Logger
}

// NewEngine creates an engine with the built-in categorizer terms and rules
func NewEngine() *Engine {
	return NewEngineWithCategorizer(NewCategorizer())
}

// NewEngineWithCategorizer creates an engine using a custom categorizer
func NewEngineWithCategorizer(categorizer *Categorizer) *Engine {
	brackets := NewBracketCalculator()
	e := &Engine{
		Categorizer: categorizer,
		Aggregator:  &Aggregator{Categorizer: categorizer},
		Brackets:    brackets,
		Comparator:  NewRegimeComparator(brackets),
		Advisor:     NewAdvisor(brackets),
		Diagnostics: NewDiagnosticsEngine(),
		Auditor:     NewAuditReconciler(),
	}
	e.SetLogger(nil)
	return e
}

// SetLogger sets the logger on the engine and its components; nil resets to a no-op logger
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	e.Logger = l
	e.Aggregator.Logger = l
	e.Brackets.Logger = l
	e.Advisor.Logger = l
	e.Auditor.Logger = l
}

// ResolveParameters returns the parameters to use and whether the defaults were
// applied. Supplied parameters are validated on every call.
func ResolveParameters(p *domain.TaxParameters) (*domain.TaxParameters, bool, error) {
	if p == nil {
		return domain.DefaultTaxParameters(), true, nil
	}
	if err := p.Validate(); err != nil {
		return nil, false, err
	}
	return p, false, nil
}

// ResolveConfig returns the config to use and whether the default was applied
func ResolveConfig(c *domain.TaxConfig) (*domain.TaxConfig, bool, error) {
	if c == nil {
		return domain.DefaultTaxConfig(), true, nil
	}
	if err := c.Validate(); err != nil {
		return nil, false, err
	}
	return c, false, nil
}

// Simulate computes Fator R, the four regime scenarios, advice and diagnostics
// for one reference month. A failed call returns no output.
func (e *Engine) Simulate(req SimulationRequest) (*domain.SimulationOutput, error) {
	if !req.Reference.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidReference, req.Reference)
	}
	basis, err := resolveBasis(req.RevenueBasis)
	if err != nil {
		return nil, err
	}
	params, defaultParams, err := ResolveParameters(req.Params)
	if err != nil {
		return nil, fmt.Errorf("failed to validate tax parameters: %w", err)
	}
	config, defaultConfig, err := ResolveConfig(req.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to validate tax config: %w", err)
	}

	months, err := e.monthlyAggregates(req.Reference, WindowLength, req.Entries, req.Aggregates)
	if err != nil {
		return nil, err
	}
	totals := ResolveWindow(months)
	fr := ResolveFatorR(totals.Folha12, totals.RBT12)
	current := months[len(months)-1]
	revenue := current.GrossRevenue()

	monthlyRevenue := revenue
	if basis == domain.RevenueBasisRBT12Average {
		monthlyRevenue = roundMoney(totals.RBT12.Div(twelve))
	}

	e.Logger.Debugf("simulate %s: RBT12=%s Folha12=%s FatorR=%s annex=%s basis=%s",
		req.Reference, totals.RBT12.StringFixed(2), totals.Folha12.StringFixed(2), fr.FatorR.String(), fr.Annex, basis)

	comparison, err := e.Comparator.Compare(RegimeBase{
		RBT12:          totals.RBT12,
		Folha12:        totals.Folha12,
		MonthlyRevenue: monthlyRevenue,
		RevenueBasis:   basis,
		Annex:          fr.Annex,
		Params:         params,
		Config:         config,
	})
	if err != nil {
		return nil, err
	}

	adjustment, savings, err := e.advise(totals, monthlyRevenue, params)
	if err != nil {
		return nil, err
	}

	diagnostics := e.Diagnostics.Evaluate(DiagnosticInput{
		UsedDefaultParameters: defaultParams,
		UsedDefaultConfig:     defaultConfig,
		ParametersVersion:     params.Version,
		BracketClamped:        comparison.Clamped,
		RBT12:                 totals.RBT12,
		Folha12:               totals.Folha12,
		Informal12:            totals.Informal12,
		Excluded12:            totals.Excluded12,
		FatorR:                fr.FatorR,
		Annex:                 fr.Annex,
		Scenarios:             comparison.Scenarios,
		BestScenario:          comparison.Best,
		CurrentRegime:         config.Regime,
		Window:                totals.Months,
		Params:                params,
	})

	return &domain.SimulationOutput{
		Reference:             req.Reference,
		UnitName:              config.UnitName,
		Revenue:               revenue,
		RBT12:                 totals.RBT12,
		Folha12:               totals.Folha12,
		FatorR:                fr.FatorR,
		Annex:                 fr.Annex,
		Scenarios:             comparison.Scenarios,
		BestScenario:          comparison.Best,
		Diagnostics:           diagnostics,
		Adjustment:            adjustment,
		Savings:               savings,
		CurrentRegime:         config.Regime,
		RevenueBasis:          basis,
		ParametersVersion:     params.Version,
		UsedDefaultParameters: defaultParams,
		UsedDefaultConfig:     defaultConfig,
	}, nil
}

// Advise returns the pro-labore adjustment and the anexo savings for the
// reference month without running the regime comparison.
func (e *Engine) Advise(req SimulationRequest) (*Advice, error) {
	if !req.Reference.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidReference, req.Reference)
	}
	basis, err := resolveBasis(req.RevenueBasis)
	if err != nil {
		return nil, err
	}
	params, _, err := ResolveParameters(req.Params)
	if err != nil {
		return nil, fmt.Errorf("failed to validate tax parameters: %w", err)
	}
	months, err := e.monthlyAggregates(req.Reference, WindowLength, req.Entries, req.Aggregates)
	if err != nil {
		return nil, err
	}
	totals := ResolveWindow(months)
	fr := ResolveFatorR(totals.Folha12, totals.RBT12)

	monthlyRevenue := months[len(months)-1].GrossRevenue()
	if basis == domain.RevenueBasisRBT12Average {
		monthlyRevenue = roundMoney(totals.RBT12.Div(twelve))
	}
	adjustment, savings, err := e.advise(totals, monthlyRevenue, params)
	if err != nil {
		return nil, err
	}
	return &Advice{
		Reference:  req.Reference,
		FatorR:     fr.FatorR,
		Annex:      fr.Annex,
		Adjustment: adjustment,
		Savings:    savings,
	}, nil
}

// resolveBasis defaults an empty basis to the current month
func resolveBasis(basis domain.RevenueBasis) (domain.RevenueBasis, error) {
	if basis == "" {
		return domain.RevenueBasisCurrentMonth, nil
	}
	if !basis.Valid() {
		return "", domain.NewParameterError("revenue_basis", fmt.Sprintf("unknown basis %q", basis))
	}
	return basis, nil
}

func (e *Engine) advise(totals WindowTotals, monthlyRevenue decimal.Decimal, params *domain.TaxParameters) (domain.ProlaboreAdjustment, domain.AnexoSavings, error) {
	adjustment := e.Advisor.Prolabore(totals.Folha12, totals.RBT12, params.ProlaboreChargeRate)
	savings, err := e.Advisor.AnexoSavings(monthlyRevenue, totals.RBT12, params)
	if err != nil {
		return domain.ProlaboreAdjustment{}, domain.AnexoSavings{}, fmt.Errorf("failed to compute anexo savings: %w", err)
	}
	return e.Advisor.Couple(adjustment, savings), savings, nil
}

// Audit reconciles the twelve months ending at the reference month
func (e *Engine) Audit(req AuditRequest) (*domain.AuditResult, error) {
	if !req.Reference.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidReference, req.Reference)
	}
	params, _, err := ResolveParameters(req.Params)
	if err != nil {
		return nil, fmt.Errorf("failed to validate tax parameters: %w", err)
	}
	months, err := e.monthlyAggregates(req.Reference, WindowLength, req.Entries, req.Aggregates)
	if err != nil {
		return nil, err
	}
	return e.Auditor.Reconcile(AuditInput{
		Reference: req.Reference,
		Months:    months,
		Catalog:   req.Catalog,
		Entries:   req.Entries,
		Params:    params,
	}), nil
}

// Trend returns one point per reference month, oldest first. The sliding path
// and the naive path produce identical values.
func (e *Engine) Trend(req TrendRequest) ([]domain.TrendPoint, error) {
	if !req.Reference.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidReference, req.Reference)
	}
	points := req.Points
	if points <= 0 {
		points = DefaultTrendPoints
	}
	span := points + WindowLength - 1
	months, err := e.monthlyAggregates(req.Reference, span, req.Entries, req.Aggregates)
	if err != nil {
		return nil, err
	}
	if req.Naive {
		return naiveTrend(months, points), nil
	}
	return slidingTrend(months, points), nil
}

func naiveTrend(months []domain.MonthlyAggregate, points int) []domain.TrendPoint {
	out := make([]domain.TrendPoint, 0, points)
	first := len(months) - points
	for i := first; i < len(months); i++ {
		totals := ResolveWindow(months[:i+1])
		out = append(out, trendPoint(months[i].Month, totals.Folha12, totals.RBT12))
	}
	return out
}

func slidingTrend(months []domain.MonthlyAggregate, points int) []domain.TrendPoint {
	out := make([]domain.TrendPoint, 0, points)
	window := NewSlidingWindow()
	first := len(months) - points
	for i, m := range months {
		window.Push(m)
		if i >= first {
			out = append(out, trendPoint(m.Month, window.Folha12(), window.RBT12()))
		}
	}
	return out
}

func trendPoint(month domain.YearMonth, folha12, rbt12 decimal.Decimal) domain.TrendPoint {
	fr := ResolveFatorR(folha12, rbt12)
	return domain.TrendPoint{
		Month:   month,
		RBT12:   rbt12,
		Folha12: folha12,
		FatorR:  fr.FatorR,
		Annex:   fr.Annex,
	}
}

// monthlyAggregates builds the n months ending at reference from ledger entries
// or from prebuilt aggregates.
func (e *Engine) monthlyAggregates(reference domain.YearMonth, n int, entries []domain.LedgerEntry, aggregates []domain.MonthlyAggregate) ([]domain.MonthlyAggregate, error) {
	if len(entries) > 0 && len(aggregates) > 0 {
		return nil, fmt.Errorf("%w: supply either ledger entries or monthly aggregates, not both", domain.ErrInvalidParameters)
	}
	months := domain.MonthRange(reference, n)
	if len(aggregates) > 0 {
		aligned, err := AlignMonths(aggregates, months)
		if err != nil {
			return nil, fmt.Errorf("failed to align monthly aggregates: %w", err)
		}
		return aligned, nil
	}
	result, _, err := e.Aggregator.Aggregate(entries, months)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ledger entries: %w", err)
	}
	return result, nil
}
