package calculation

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// ratioPrecision is the number of decimal places kept for ratios and effective rates
const ratioPrecision = 10

// roundMoney rounds to cents, half away from zero
func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// safeRatio divides num by den, returning zero when den is zero
func safeRatio(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.DivRound(den, ratioPrecision)
}

// percentOf returns part/whole*100 rounded to two places, zero when whole is zero
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).DivRound(whole, 2)
}
