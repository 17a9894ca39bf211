package calculation

import (
	"github.com/labfinance/taxsim/internal/domain"
	"github.com/shopspring/decimal"
)

// FatorRThreshold is the statutory payroll-to-revenue ratio at or above which
// Anexo III applies. It is the only branch point between the two annexes.
var FatorRThreshold = decimal.RequireFromString("0.28")

// FatorRResult is the resolved ratio and annex
type FatorRResult struct {
	FatorR decimal.Decimal
	Annex  domain.Annex
}

// ratioStep is the smallest ratio increment kept at ratioPrecision places
var ratioStep = decimal.New(1, -ratioPrecision)

// ResolveFatorR computes Folha12/RBT12 (zero when there is no revenue) and the
// applicable annex. The annex comparison is done on the unrounded operands; a
// ratio below the threshold that would round up to 0.28 is reported as the
// largest value below it, so ResolveAnnex(FatorR) always agrees with Annex.
func ResolveFatorR(folha12, rbt12 decimal.Decimal) FatorRResult {
	if !rbt12.IsPositive() {
		return FatorRResult{FatorR: decimal.Zero, Annex: domain.AnnexV}
	}
	ratio := safeRatio(folha12, rbt12)
	if folha12.GreaterThanOrEqual(rbt12.Mul(FatorRThreshold)) {
		return FatorRResult{FatorR: ratio, Annex: domain.AnnexIII}
	}
	if ratio.GreaterThanOrEqual(FatorRThreshold) {
		ratio = FatorRThreshold.Sub(ratioStep)
	}
	return FatorRResult{FatorR: ratio, Annex: domain.AnnexV}
}

// ResolveAnnex is the step function of Fator R at exactly 0.28
func ResolveAnnex(fatorR decimal.Decimal) domain.Annex {
	if fatorR.GreaterThanOrEqual(FatorRThreshold) {
		return domain.AnnexIII
	}
	return domain.AnnexV
}
