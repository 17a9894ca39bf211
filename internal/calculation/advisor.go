package calculation

import (
	"fmt"

	"github.com/labfinance/taxsim/internal/domain"
	"github.com/shopspring/decimal"
)

// Advisor computes the pro-labore adjustment needed to reach Anexo III and the
// Simples savings obtainable by crossing the threshold.
type Advisor struct {
	Brackets *BracketCalculator
	Logger   Logger
}

// NewAdvisor creates an advisor sharing the given bracket calculator
func NewAdvisor(brackets *BracketCalculator) *Advisor {
	if brackets == nil {
		brackets = NewBracketCalculator()
	}
	return &Advisor{Brackets: brackets, Logger: NopLogger{}}
}

// Prolabore solves (Folha12 + 12*delta) / RBT12 = FatorRThreshold for the monthly
// increase delta. A non-positive delta means the unit is already compliant.
// chargeRate is the employer charge applied on top of the extra pro-labore.
func (a *Advisor) Prolabore(folha12, rbt12, chargeRate decimal.Decimal) domain.ProlaboreAdjustment {
	adj := domain.ProlaboreAdjustment{
		CurrentFatorR: ResolveFatorR(folha12, rbt12).FatorR,
		TargetFatorR:  FatorRThreshold,
		Folha12:       folha12,
		RBT12:         rbt12,
	}
	if !rbt12.IsPositive() {
		adj.Status = domain.AdjustmentNoRevenue
		adj.ProjectedFatorR = decimal.Zero
		return adj
	}

	delta := rbt12.Mul(FatorRThreshold).Sub(folha12).Div(twelve)
	if !delta.IsPositive() {
		adj.Status = domain.AdjustmentCompliant
		adj.ProjectedFatorR = adj.CurrentFatorR
		return adj
	}

	// round up to the cent so the projected ratio never lands just below the threshold
	delta = delta.RoundCeil(2)
	annual := delta.Mul(twelve)
	adj.Status = domain.AdjustmentNeeded
	adj.MonthlyIncrease = delta
	adj.AnnualIncrease = annual
	adj.ProjectedFatorR = safeRatio(folha12.Add(annual), rbt12)
	adj.AdditionalCharges = roundMoney(delta.Mul(chargeRate))
	adj.NetMonthlyBenefit = adj.AdditionalCharges.Neg()
	return adj
}

// AnexoSavings runs the bracket calculator for both annexes at the same RBT12
// and reports the monthly and annual difference (Anexo V minus Anexo III).
func (a *Advisor) AnexoSavings(monthlyRevenue, rbt12 decimal.Decimal, params *domain.TaxParameters) (domain.AnexoSavings, error) {
	rateIII, err := a.Brackets.EffectiveRate(rbt12, params.AnexoIII)
	if err != nil {
		return domain.AnexoSavings{}, fmt.Errorf("anexo III: %w", err)
	}
	rateV, err := a.Brackets.EffectiveRate(rbt12, params.AnexoV)
	if err != nil {
		return domain.AnexoSavings{}, fmt.Errorf("anexo V: %w", err)
	}

	taxIII := a.Brackets.MonthlyTax(rateIII, monthlyRevenue)
	taxV := a.Brackets.MonthlyTax(rateV, monthlyRevenue)
	monthly := taxV.Sub(taxIII)

	return domain.AnexoSavings{
		MonthlyRevenue:   monthlyRevenue,
		RBT12:            rbt12,
		EffectiveRateIII: rateIII.EffectiveRate,
		EffectiveRateV:   rateV.EffectiveRate,
		MonthlyTaxIII:    taxIII,
		MonthlyTaxV:      taxV,
		MonthlySavings:   monthly,
		AnnualSavings:    monthly.Mul(twelve),
	}, nil
}

// Couple fills the net benefit of an adjustment from the anexo savings
func (a *Advisor) Couple(adj domain.ProlaboreAdjustment, savings domain.AnexoSavings) domain.ProlaboreAdjustment {
	if adj.Status != domain.AdjustmentNeeded {
		return adj
	}
	adj.NetMonthlyBenefit = savings.MonthlySavings.Sub(adj.AdditionalCharges)
	return adj
}
