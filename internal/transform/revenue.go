package transform

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/labfinance/taxsim/internal/output"
)

// ScaleRevenue multiplies every revenue field of the window by Factor.
// A factor of 1.10 models a 10% growth in billed exams.
type ScaleRevenue struct {
	Factor decimal.Decimal
}

func (t *ScaleRevenue) Name() string { return "scale_revenue" }

func (t *ScaleRevenue) Description() string {
	change := t.Factor.Sub(decimal.NewFromInt(1))
	verb := "Aumentar"
	if change.IsNegative() {
		verb = "Reduzir"
	}
	return fmt.Sprintf("%s a receita em %s", verb, output.FormatRatio(change.Abs()))
}

func (t *ScaleRevenue) Validate(base *Scenario) error {
	if base == nil {
		return NewTransformError(t.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if !t.Factor.IsPositive() {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("factor must be positive, got %s", t.Factor), nil)
	}
	return nil
}

func (t *ScaleRevenue) Apply(base *Scenario) (*Scenario, error) {
	modified := base.DeepCopy()
	for i := range modified.Request.Aggregates {
		m := &modified.Request.Aggregates[i]
		m.ServiceRevenue = m.ServiceRevenue.Mul(t.Factor)
		m.OtherRevenue = m.OtherRevenue.Mul(t.Factor)
	}
	return modified, nil
}
