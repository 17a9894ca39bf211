package transform

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/labfinance/taxsim/internal/domain"
	"github.com/labfinance/taxsim/internal/output"
)

// payrollField selects one payroll component of a monthly aggregate
type payrollField func(m *domain.MonthlyAggregate) *decimal.Decimal

func prolabore(m *domain.MonthlyAggregate) *decimal.Decimal { return &m.PayrollProlabore }
func salaries(m *domain.MonthlyAggregate) *decimal.Decimal  { return &m.PayrollSalaries }

// adjustPayroll adds amount to field in every month of the window. A negative
// amount may not take any month below zero.
func adjustPayroll(name string, base *Scenario, field payrollField, amount decimal.Decimal) error {
	if base == nil {
		return NewTransformError(name, "validate", "base scenario cannot be nil", nil)
	}
	if amount.IsZero() {
		return NewTransformError(name, "validate", "amount cannot be zero", nil)
	}
	if len(base.Request.Aggregates) == 0 {
		return NewTransformError(name, "validate", "scenario has no monthly window", nil)
	}
	for i := range base.Request.Aggregates {
		m := &base.Request.Aggregates[i]
		if field(m).Add(amount).IsNegative() {
			return NewTransformError(name, "validate",
				fmt.Sprintf("%s would become negative in %s", name, m.Month), nil)
		}
	}
	return nil
}

func applyPayroll(base *Scenario, field payrollField, amount decimal.Decimal) *Scenario {
	modified := base.DeepCopy()
	for i := range modified.Request.Aggregates {
		v := field(&modified.Request.Aggregates[i])
		*v = v.Add(amount)
	}
	return modified
}

func describeChange(what string, amount decimal.Decimal) string {
	verb := "Aumentar"
	if amount.IsNegative() {
		verb = "Reduzir"
	}
	return fmt.Sprintf("%s %s em %s/mês", verb, what, output.FormatCurrency(amount.Abs()))
}

// RaiseProlabore adds a monthly amount to the partners' pro-labore in every
// month of the window, the change the pro-labore advice suggests.
type RaiseProlabore struct {
	Amount decimal.Decimal
}

func (t *RaiseProlabore) Name() string { return "raise_prolabore" }

func (t *RaiseProlabore) Description() string {
	return describeChange("o pró-labore", t.Amount)
}

func (t *RaiseProlabore) Validate(base *Scenario) error {
	return adjustPayroll(t.Name(), base, prolabore, t.Amount)
}

func (t *RaiseProlabore) Apply(base *Scenario) (*Scenario, error) {
	return applyPayroll(base, prolabore, t.Amount), nil
}

// RaiseSalaries adds a monthly amount to CLT salaries in every month of the window
type RaiseSalaries struct {
	Amount decimal.Decimal
}

func (t *RaiseSalaries) Name() string { return "raise_salaries" }

func (t *RaiseSalaries) Description() string {
	return describeChange("os salários", t.Amount)
}

func (t *RaiseSalaries) Validate(base *Scenario) error {
	return adjustPayroll(t.Name(), base, salaries, t.Amount)
}

func (t *RaiseSalaries) Apply(base *Scenario) (*Scenario, error) {
	return applyPayroll(base, salaries, t.Amount), nil
}
