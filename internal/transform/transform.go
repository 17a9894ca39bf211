package transform

import (
	"fmt"
	"strings"

	"github.com/labfinance/taxsim/internal/calculation"
	"github.com/labfinance/taxsim/internal/domain"
)

// Scenario is a simulation request over an aligned twelve-month window that
// what-if transforms can rewrite.
type Scenario struct {
	Name    string
	Request calculation.SimulationRequest
}

// NewScenario aggregates the ledger entries of req into the window ending at
// req.Reference. Transforms only edit monthly aggregates, never entries.
func NewScenario(engine *calculation.Engine, name string, req calculation.SimulationRequest) (*Scenario, error) {
	months := domain.MonthRange(req.Reference, calculation.WindowLength)

	var window []domain.MonthlyAggregate
	var err error
	if len(req.Aggregates) > 0 {
		window, err = calculation.AlignMonths(req.Aggregates, months)
	} else {
		window, _, err = engine.Aggregator.Aggregate(req.Entries, months)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build the window of %s: %w", name, err)
	}

	req.Entries = nil
	req.Aggregates = window
	return &Scenario{Name: name, Request: req}, nil
}

// DeepCopy returns a copy whose window and config can be edited freely.
// Params are shared and never modified.
func (s *Scenario) DeepCopy() *Scenario {
	c := *s
	c.Request.Aggregates = append([]domain.MonthlyAggregate(nil), s.Request.Aggregates...)
	if s.Request.Config != nil {
		cfg := *s.Request.Config
		c.Request.Config = &cfg
	}
	return &c
}

// config returns the scenario's config, installing the default one when unset
func (s *Scenario) config() *domain.TaxConfig {
	if s.Request.Config == nil {
		s.Request.Config = domain.DefaultTaxConfig()
	}
	return s.Request.Config
}

// ScenarioTransform is a what-if edit of a scenario. Transforms compose: each
// receives the output of the previous one.
type ScenarioTransform interface {
	// Apply returns a modified copy of base; base is left untouched.
	Apply(base *Scenario) (*Scenario, error)

	// Name returns the identifier used in transform specs (e.g., "raise_prolabore").
	Name() string

	// Description returns a Portuguese description of the change.
	Description() string

	// Validate checks the transform parameters against base without applying.
	Validate(base *Scenario) error
}

// ApplyTransforms applies transforms in order to a copy of base.
func ApplyTransforms(base *Scenario, transforms []ScenarioTransform) (*Scenario, error) {
	if base == nil {
		return nil, fmt.Errorf("base scenario cannot be nil")
	}

	if len(transforms) == 0 {
		return base.DeepCopy(), nil
	}

	current := base
	for i, transform := range transforms {
		if transform == nil {
			return nil, fmt.Errorf("transform at index %d is nil", i)
		}

		if err := transform.Validate(current); err != nil {
			return nil, fmt.Errorf("transform %s validation failed: %w", transform.Name(), err)
		}

		next, err := transform.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("transform %s failed: %w", transform.Name(), err)
		}

		current = next
	}

	return current, nil
}

// Describe joins the descriptions of transforms
func Describe(transforms []ScenarioTransform) string {
	parts := make([]string, len(transforms))
	for i, t := range transforms {
		parts[i] = t.Description()
	}
	return strings.Join(parts, "; ")
}

// TransformError represents an error that occurred during transformation.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError creates a new TransformError.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}
