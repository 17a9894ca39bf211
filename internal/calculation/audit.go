package calculation

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/labfinance/taxsim/internal/domain"
	"github.com/shopspring/decimal"
)

// AuditInput is what the reconciler needs for one 12-month window
type AuditInput struct {
	Reference domain.YearMonth
	// Months must be aligned to the window, oldest first.
	Months  []domain.MonthlyAggregate
	Catalog []domain.Category
	Entries []domain.LedgerEntry
	Params  *domain.TaxParameters
}

// AuditReconciler keeps the per-month payroll breakdown that the rolling window
// collapses, and cross-checks the category catalog.
type AuditReconciler struct {
	Logger Logger
}

// NewAuditReconciler creates a reconciler that logs nothing
func NewAuditReconciler() *AuditReconciler {
	return &AuditReconciler{Logger: NopLogger{}}
}

// Reconcile builds the audit result. fatorRMedio is the arithmetic mean of the
// monthly ratios over months that had revenue, not the rolling-window ratio.
func (ar *AuditReconciler) Reconcile(in AuditInput) *domain.AuditResult {
	result := &domain.AuditResult{
		Reference: in.Reference,
		Months:    make([]domain.AuditMonth, 0, len(in.Months)),
	}

	var ratios []decimal.Decimal
	var noPayrollMonths []string
	for _, m := range in.Months {
		revenue := m.GrossRevenue()
		payroll := m.FatorRPayroll()
		row := domain.AuditMonth{
			Month:      m.Month,
			Revenue:    revenue,
			Salaries:   m.PayrollSalaries,
			Prolabore:  m.PayrollProlabore,
			Charges:    m.PayrollCharges,
			Informal:   m.InformalPayroll,
			Excluded:   m.ExcludedPayroll,
			Payroll:    payroll,
			FatorR:     safeRatio(payroll, revenue),
			HasRevenue: revenue.IsPositive(),
		}
		result.Months = append(result.Months, row)
		result.RBT12 = result.RBT12.Add(revenue)
		result.Folha12 = result.Folha12.Add(payroll)

		if row.HasRevenue {
			ratios = append(ratios, row.FatorR)
			if payroll.IsZero() {
				noPayrollMonths = append(noPayrollMonths, m.Month.String())
			}
		}
	}

	result.FatorRMedio = mean(ratios)
	result.FatorRVariation = coefficientOfVariation(ratios, result.FatorRMedio)
	result.CategoriasNaoMapeadas = unmappedCategories(in.Catalog, in.Entries)
	result.Sugestoes = ar.suggestions(result, noPayrollMonths, in.Params)

	if n := len(result.CategoriasNaoMapeadas); n > 0 {
		ar.logger().Infof("audit %s: %d personnel categories without a Fator R flag", in.Reference, n)
	}
	return result
}

func (ar *AuditReconciler) suggestions(result *domain.AuditResult, noPayrollMonths []string, params *domain.TaxParameters) []string {
	var out []string
	if n := len(result.CategoriasNaoMapeadas); n > 0 {
		names := make([]string, n)
		for i, c := range result.CategoriasNaoMapeadas {
			names[i] = c.Name
		}
		out = append(out, fmt.Sprintf("Classifique %d categoria(s) de pessoal quanto à inclusão no Fator R: %s.",
			n, strings.Join(names, ", ")))
	}
	if result.FatorRVariation.GreaterThan(params.Thresholds.FatorRVolatilityCV) {
		out = append(out, fmt.Sprintf("O Fator R mensal oscila muito (coeficiente de variação %s); distribua a folha e o pró-labore de forma mais uniforme.",
			result.FatorRVariation.StringFixed(2)))
	}
	if result.RBT12.IsPositive() && result.FatorRMedio.LessThan(FatorRThreshold) {
		out = append(out, fmt.Sprintf("Fator R médio de %s abaixo de %s; avalie aumentar o pró-labore para migrar ao Anexo III.",
			percentString(result.FatorRMedio), percentString(FatorRThreshold)))
	}
	if len(noPayrollMonths) > 0 {
		out = append(out, fmt.Sprintf("Meses com receita e sem folha formal: %s; verifique lançamentos ausentes.",
			strings.Join(noPayrollMonths, ", ")))
	}
	return out
}

func (ar *AuditReconciler) logger() Logger {
	if ar.Logger == nil {
		return NopLogger{}
	}
	return ar.Logger
}

func mean(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	return sum.DivRound(decimal.NewFromInt(int64(len(values))), ratioPrecision)
}

// coefficientOfVariation is the population standard deviation over the mean
func coefficientOfVariation(values []decimal.Decimal, avg decimal.Decimal) decimal.Decimal {
	if len(values) < 2 || !avg.IsPositive() {
		return decimal.Zero
	}
	variance := decimal.Zero
	for _, v := range values {
		d := v.Sub(avg)
		variance = variance.Add(d.Mul(d))
	}
	variance = variance.DivRound(decimal.NewFromInt(int64(len(values))), ratioPrecision)
	f, _ := variance.Float64()
	std := decimal.NewFromFloat(math.Sqrt(f))
	return std.DivRound(avg, 4)
}

// unmappedCategories lists each personnel category without an explicit Fator R
// flag once, sorted by name then ID. Categories referenced by entries but absent
// from the catalog are reported with InCatalog false.
func unmappedCategories(catalog []domain.Category, entries []domain.LedgerEntry) []domain.UnmappedCategory {
	seen := make(map[string]bool)
	inCatalog := make(map[uuid.UUID]bool, len(catalog))
	out := []domain.UnmappedCategory{}

	for _, c := range catalog {
		if c.ID != uuid.Nil {
			inCatalog[c.ID] = true
		}
		if !c.IsPersonnel() || c.IsMappedForFatorR() {
			continue
		}
		key := categoryKey(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, domain.UnmappedCategory{ID: idString(c.ID), Name: c.Name, InCatalog: true})
	}

	for _, e := range entries {
		c := e.Category
		if c.ID == uuid.Nil {
			c.ID = e.CategoryID
		}
		if !c.IsPersonnel() || c.IsMappedForFatorR() || inCatalog[c.ID] {
			continue
		}
		key := categoryKey(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, domain.UnmappedCategory{ID: idString(c.ID), Name: c.Name, InCatalog: false})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func categoryKey(c domain.Category) string {
	if c.ID != uuid.Nil {
		return c.ID.String()
	}
	return "name:" + foldText(c.Name)
}

func idString(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}
