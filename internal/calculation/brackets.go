package calculation

import (
	"fmt"

	"github.com/labfinance/taxsim/internal/domain"
	"github.com/shopspring/decimal"
)

// BracketResult is the Simples Nacional rate resolved for one RBT12
type BracketResult struct {
	Table         string
	Bracket       domain.Bracket
	NominalRate   decimal.Decimal
	Deduction     decimal.Decimal
	EffectiveRate decimal.Decimal
	// Clamped is set when (RBT12*r - d)/RBT12 came out negative and was forced to zero.
	Clamped bool
}

// BracketCalculator resolves effective rates from progressive annex tables
type BracketCalculator struct {
	Logger Logger
}

// NewBracketCalculator creates a calculator that logs nothing
func NewBracketCalculator() *BracketCalculator {
	return &BracketCalculator{Logger: NopLogger{}}
}

// EffectiveRate locates the bracket containing rbt12 and returns
// (rbt12*r - d)/rbt12, or the first bracket's nominal rate when rbt12 is zero.
// The table must already be validated.
func (bc *BracketCalculator) EffectiveRate(rbt12 decimal.Decimal, table domain.BracketTable) (BracketResult, error) {
	if len(table.Brackets) == 0 {
		return BracketResult{}, domain.NewBracketError(table.Name, "table is empty")
	}
	if rbt12.IsNegative() {
		return BracketResult{}, domain.NewParameterError("rbt12", "cannot be negative")
	}

	if rbt12.IsZero() {
		first := table.Brackets[0]
		return BracketResult{
			Table:         table.Name,
			Bracket:       first,
			NominalRate:   first.Rate,
			Deduction:     first.Deduction,
			EffectiveRate: first.Rate,
		}, nil
	}

	bracket, ok := findBracket(rbt12, table)
	if !ok {
		return BracketResult{}, domain.NewBracketError(table.Name, fmt.Sprintf("no bracket contains %s", rbt12.String()))
	}

	effective := rbt12.Mul(bracket.Rate).Sub(bracket.Deduction).DivRound(rbt12, ratioPrecision)
	result := BracketResult{
		Table:         table.Name,
		Bracket:       bracket,
		NominalRate:   bracket.Rate,
		Deduction:     bracket.Deduction,
		EffectiveRate: effective,
	}
	if effective.IsNegative() {
		result.EffectiveRate = decimal.Zero
		result.Clamped = true
		bc.logger().Warnf("%s bracket %d yields negative effective rate %s at RBT12 %s; clamped to zero",
			table.Name, bracket.Index, effective.String(), rbt12.StringFixed(2))
	}
	return result, nil
}

// MonthlyTax applies an effective rate to a monthly revenue, rounded to cents
func (bc *BracketCalculator) MonthlyTax(result BracketResult, monthlyRevenue decimal.Decimal) decimal.Decimal {
	return roundMoney(monthlyRevenue.Mul(result.EffectiveRate))
}

func (bc *BracketCalculator) logger() Logger {
	if bc.Logger == nil {
		return NopLogger{}
	}
	return bc.Logger
}

func findBracket(value decimal.Decimal, table domain.BracketTable) (domain.Bracket, bool) {
	for _, b := range table.Brackets {
		if b.Contains(value) {
			return b, true
		}
	}
	return domain.Bracket{}, false
}
