package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/labfinance/taxsim/internal/output"
)

// TableFormatter formats crossover results as a console table
type TableFormatter struct{}

// Format generates a formatted table for one crossover
func (tf *TableFormatter) Format(result *CrossoverResult) string {
	var sb strings.Builder

	sb.WriteString("PONTO DE EQUILÍBRIO ENTRE REGIMES\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	tf.writeResult(&sb, result)
	return sb.String()
}

// FormatMulti generates the table of one regime against every other regime
func (tf *TableFormatter) FormatMulti(multi *MultiResult) string {
	var sb strings.Builder

	sb.WriteString("PONTOS DE EQUILÍBRIO - " + strings.ToUpper(multi.Regime.Label()) + "\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	for i := range multi.Results {
		tf.writeResult(&sb, &multi.Results[i])
	}

	if len(multi.Recommendations) > 0 {
		sb.WriteString("RECOMENDAÇÕES\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range multi.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (tf *TableFormatter) writeResult(sb *strings.Builder, r *CrossoverResult) {
	sb.WriteString(fmt.Sprintf("%s x %s (%s, competência %s)\n", r.RegimeA.Label(), r.RegimeB.Label(), r.Target.Label(), r.Reference))
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Valor atual:     %s  (%s %s, %s %s)\n",
		output.FormatCurrency(r.Current.Value),
		r.RegimeA.Label(), output.FormatCurrency(r.Current.TotalA),
		r.RegimeB.Label(), output.FormatCurrency(r.Current.TotalB)))

	if !r.Found {
		sb.WriteString(fmt.Sprintf("Sem cruzamento entre %s e %s: %s é sempre mais barato\n\n",
			output.FormatCurrency(r.Lower.Value), output.FormatCurrency(r.Upper.Value), r.CheaperBelow.Label()))
		return
	}

	sb.WriteString(fmt.Sprintf("Ponto de virada: %s  (%s)\n", output.FormatCurrency(r.Value), tf.formatStatus(r)))
	sb.WriteString(fmt.Sprintf("Distância:       %s\n", tf.formatDelta(r)))
	sb.WriteString(fmt.Sprintf("Abaixo:          %s\n", r.CheaperBelow.Label()))
	sb.WriteString(fmt.Sprintf("Acima:           %s\n", r.CheaperAbove.Label()))
	if r.Lower.Annex != r.Upper.Annex {
		sb.WriteString(fmt.Sprintf("Mudança de anexo: %s -> %s (Fator R %s)\n",
			r.Lower.Annex.Label(), r.Upper.Annex.Label(), output.FormatRatio(r.Upper.FatorR)))
	}
	sb.WriteString("\n")
}

// formatStatus reports convergence
func (tf *TableFormatter) formatStatus(r *CrossoverResult) string {
	if r.Converged {
		return fmt.Sprintf("%d iterações", r.Iterations)
	}
	return fmt.Sprintf("não convergiu em %d iterações", r.Iterations)
}

func (tf *TableFormatter) formatDelta(r *CrossoverResult) string {
	if r.Distance.IsNegative() {
		return output.FormatCurrency(r.Distance.Abs()) + " abaixo do atual"
	}
	return output.FormatCurrency(r.Distance) + " acima do atual"
}

// FormatJSON encodes a crossover or multi result
func FormatJSON(v any, pretty bool) (string, error) {
	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode break-even result: %w", err)
	}
	return string(data) + "\n", nil
}
