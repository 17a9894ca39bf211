package compare

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/labfinance/taxsim/internal/output"
)

const (
	baseMarker   = " (base)"
	minNameWidth = 22
	maxNameWidth = 48
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing units
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	// Header
	sb.WriteString("COMPARATIVO DE UNIDADES\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Competência: %s\n", compSet.Reference))
	sb.WriteString(fmt.Sprintf("Unidade base: %s\n", compSet.BaseUnitName))
	sb.WriteString("\n")

	nameWidth := tf.nameWidth(compSet)
	numWidth := 14
	ruleWidth := nameWidth + 74

	sb.WriteString(fmt.Sprintf("%-*s %*s %8s %-18s %*s %*s\n",
		nameWidth, "Unidade",
		numWidth, "RBT12",
		"Fator R",
		"Regime atual",
		numWidth, "Carga atual",
		numWidth, "Economia"))
	sb.WriteString(strings.Repeat("-", ruleWidth) + "\n")

	sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", ruleWidth) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}
	sb.WriteString(strings.Repeat("=", ruleWidth) + "\n")

	t := compSet.Totals
	sb.WriteString(fmt.Sprintf("Rede (%d unidades): carga atual %s, menor carga %s, economia %s/mês\n",
		t.Units, output.FormatCurrency(t.CurrentTotal), output.FormatCurrency(t.BestTotal), output.FormatCurrency(t.PotentialSavings)))

	// Deltas from base
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARAÇÃO COM A BASE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.UnitName))
			sb.WriteString(fmt.Sprintf("  Carga mensal:  %s%s (%s)\n",
				tf.deltaSymbol(alt.TaxDiffFromBase),
				output.FormatCurrency(alt.TaxDiffFromBase.Abs()),
				output.FormatPercentage(alt.TaxPctFromBase)))
			if !alt.FatorRDiffFromBase.IsZero() {
				sb.WriteString(fmt.Sprintf("  Fator R:       %s%s p.p.\n",
					tf.deltaSymbol(alt.FatorRDiffFromBase),
					strings.Replace(alt.FatorRDiffFromBase.Abs().Mul(hundred).StringFixed(2), ".", ",", 1)))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMENDAÇÕES\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// nameWidth fits the longest unit name plus the base marker, up to maxNameWidth runes
func (tf *TableFormatter) nameWidth(compSet *ComparisonSet) int {
	width := minNameWidth
	fit := func(r *ComparisonResult) {
		if n := utf8.RuneCountInString(r.UnitName) + len(baseMarker); n > width {
			width = n
		}
	}
	if compSet.BaseResult != nil {
		fit(compSet.BaseResult)
	}
	for i := range compSet.AlternativeResults {
		fit(&compSet.AlternativeResults[i])
	}
	return min(width, maxNameWidth)
}

// formatRow formats a single unit row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.UnitName
	if isBase {
		name += baseMarker
	}
	return fmt.Sprintf("%-*s %*s %8s %-18s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, output.FormatCurrency(result.RBT12),
		output.FormatRatio(result.FatorR),
		tf.truncate(result.CurrentRegime.Label(), 18),
		numWidth, output.FormatCurrency(result.CurrentTotal),
		numWidth, output.FormatCurrency(result.PotentialSavings))
}

// deltaSymbol returns the sign shown before an absolute delta
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

// truncate truncates a string to maxLen runes
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// FormatCompact creates a single-line summary of the tax delta of each unit
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseUnitName))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		if alt.TaxDiffFromBase.IsPositive() {
			change = "+" + output.FormatCurrency(alt.TaxDiffFromBase)
		} else if alt.TaxDiffFromBase.IsNegative() {
			change = output.FormatCurrency(alt.TaxDiffFromBase)
		}
		sb.WriteString(fmt.Sprintf("%s: %s", alt.UnitName, change))
	}

	return sb.String()
}
