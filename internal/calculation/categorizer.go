package calculation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/labfinance/taxsim/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CATEGORY ROUTING:
//
// Personnel expenses are routed in this order:
//   1. informal flag                  -> informal payroll (never counts toward Fator R)
//   2. counts_for_fator_r == false    -> excluded payroll
//   3. explicit payroll subtype       -> salaries / pro-labore / charges
//   4. name heuristic (legacy data)   -> pro-labore terms, then charge terms, else salaries
//
// The name heuristic only exists for categories created before the subtype
// field; it folds case and accents before matching.

// DefaultProlaboreTerms are matched against category names by the heuristic
var DefaultProlaboreTerms = []string{"pro-labore", "prolabore", "pro labore", "retirada"}

// DefaultChargeTerms are matched after the pro-labore terms
var DefaultChargeTerms = []string{"inss", "fgts", "encargo", "previdencia"}

// Increment is the categorized effect of one ledger entry
type Increment struct {
	Bucket domain.Bucket
	Amount decimal.Decimal
	// Heuristic is true when the bucket came from name matching rather than structured attributes.
	Heuristic bool
}

// Categorizer maps ledger entries onto aggregate buckets
type Categorizer struct {
	prolaboreTerms []string
	chargeTerms    []string
}

// NewCategorizer creates a categorizer with the built-in keyword lists
func NewCategorizer() *Categorizer {
	return NewCategorizerWithTerms(DefaultProlaboreTerms, DefaultChargeTerms)
}

// NewCategorizerWithTerms creates a categorizer with custom keyword lists.
// Terms are normalized once here; the categorizer is read-only afterwards.
func NewCategorizerWithTerms(prolaboreTerms, chargeTerms []string) *Categorizer {
	c := &Categorizer{}
	for _, t := range prolaboreTerms {
		c.prolaboreTerms = append(c.prolaboreTerms, foldText(t))
	}
	for _, t := range chargeTerms {
		c.chargeTerms = append(c.chargeTerms, foldText(t))
	}
	return c
}

// Categorize returns the bucket and absolute amount of an entry
func (c *Categorizer) Categorize(entry domain.LedgerEntry) (Increment, error) {
	amount := entry.Amount.Abs()
	cat := entry.Category

	switch entry.Direction {
	case domain.DirectionCredit:
		if cat.TaxGroup == domain.TaxGroupServiceRevenue {
			return Increment{Bucket: domain.BucketServiceRevenue, Amount: amount}, nil
		}
		return Increment{Bucket: domain.BucketOtherRevenue, Amount: amount}, nil
	case domain.DirectionDebit:
		// handled below
	default:
		return Increment{}, fmt.Errorf("%w: %q (entry %s)", domain.ErrUnknownDirection, entry.Direction, entry.ID)
	}

	switch cat.TaxGroup {
	case domain.TaxGroupPersonnel:
		bucket, heuristic := c.personnelBucket(cat)
		return Increment{Bucket: bucket, Amount: amount, Heuristic: heuristic}, nil
	case domain.TaxGroupInputs:
		return Increment{Bucket: domain.BucketInputsCost, Amount: amount}, nil
	case domain.TaxGroupThirdPartyService:
		return Increment{Bucket: domain.BucketThirdPartyServices, Amount: amount}, nil
	case domain.TaxGroupFinancial:
		return Increment{Bucket: domain.BucketFinancialExpense, Amount: amount}, nil
	case domain.TaxGroupTaxes:
		return Increment{Bucket: domain.BucketTaxesPaid, Amount: amount}, nil
	default:
		return Increment{Bucket: domain.BucketAdministrativeExpense, Amount: amount}, nil
	}
}

func (c *Categorizer) personnelBucket(cat domain.Category) (domain.Bucket, bool) {
	if cat.IsInformal {
		return domain.BucketInformalPayroll, false
	}
	if cat.CountsForFatorR != nil && !*cat.CountsForFatorR {
		return domain.BucketExcludedPayroll, false
	}
	switch cat.PayrollSubtype {
	case domain.PayrollSubtypeProlabore:
		return domain.BucketPayrollProlabore, false
	case domain.PayrollSubtypeCharges:
		return domain.BucketPayrollCharges, false
	case domain.PayrollSubtypeSalary:
		return domain.BucketPayrollSalaries, false
	}

	name := foldText(cat.Name)
	if containsAny(name, c.prolaboreTerms) {
		return domain.BucketPayrollProlabore, true
	}
	if containsAny(name, c.chargeTerms) {
		return domain.BucketPayrollCharges, true
	}
	return domain.BucketPayrollSalaries, true
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if t != "" && strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// foldText lowercases and strips diacritics ("Pró-Labore" -> "pro-labore")
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
