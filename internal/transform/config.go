package transform

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/labfinance/taxsim/internal/domain"
	"github.com/labfinance/taxsim/internal/output"
)

// SetRegime switches the unit's current regime. The four scenarios are
// always computed; the current regime drives the savings and the advice.
type SetRegime struct {
	Regime domain.Regime
}

func (t *SetRegime) Name() string { return "set_regime" }

func (t *SetRegime) Description() string {
	return "Optar pelo " + t.Regime.Label()
}

func (t *SetRegime) Validate(base *Scenario) error {
	if base == nil {
		return NewTransformError(t.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if !t.Regime.Valid() {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("unknown regime %q", t.Regime), domain.ErrInvalidConfig)
	}
	return nil
}

func (t *SetRegime) Apply(base *Scenario) (*Scenario, error) {
	modified := base.DeepCopy()
	modified.config().Regime = t.Regime
	return modified, nil
}

// SetISSRate replaces the municipal ISS rate
type SetISSRate struct {
	Rate decimal.Decimal
}

func (t *SetISSRate) Name() string { return "set_iss_rate" }

func (t *SetISSRate) Description() string {
	return "ISS municipal de " + output.FormatRatio(t.Rate)
}

func (t *SetISSRate) Validate(base *Scenario) error {
	if base == nil {
		return NewTransformError(t.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if t.Rate.IsNegative() || t.Rate.GreaterThan(decimal.NewFromInt(1)) {
		return NewTransformError(t.Name(), "validate", "rate must be between 0 and 1", domain.ErrInvalidConfig)
	}
	return nil
}

func (t *SetISSRate) Apply(base *Scenario) (*Scenario, error) {
	modified := base.DeepCopy()
	modified.config().ISSRate = t.Rate
	return modified, nil
}

// SetRevenueBasis selects the monthly revenue the Simples scenario is applied to
type SetRevenueBasis struct {
	Basis domain.RevenueBasis
}

func (t *SetRevenueBasis) Name() string { return "set_basis" }

func (t *SetRevenueBasis) Description() string {
	if t.Basis == domain.RevenueBasisRBT12Average {
		return "Base de receita: média RBT12"
	}
	return "Base de receita: mês corrente"
}

func (t *SetRevenueBasis) Validate(base *Scenario) error {
	if base == nil {
		return NewTransformError(t.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if !t.Basis.Valid() {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("unknown revenue basis %q", t.Basis), domain.ErrInvalidParameters)
	}
	return nil
}

func (t *SetRevenueBasis) Apply(base *Scenario) (*Scenario, error) {
	modified := base.DeepCopy()
	modified.Request.RevenueBasis = t.Basis
	return modified, nil
}
