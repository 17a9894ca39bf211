package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/labfinance/taxsim/internal/calculation"
	"github.com/labfinance/taxsim/internal/domain"
)

const lineWidth = 80

// TableFormatter renders reports as console tables
type TableFormatter struct{}

func (TableFormatter) Name() string { return "table" }

func (tf TableFormatter) Format(report *Report) ([]byte, error) {
	if report.IsEmpty() {
		return nil, fmt.Errorf("nothing to format")
	}
	buf := &bytes.Buffer{}
	if report.Simulation != nil {
		tf.writeSimulation(buf, report.Simulation)
	}
	if report.Advice != nil {
		tf.writeAdvice(buf, report.Advice)
	}
	if report.Audit != nil {
		tf.writeAudit(buf, report.Audit)
	}
	if len(report.Trend) > 0 {
		tf.writeTrend(buf, report.Trend)
	}
	return buf.Bytes(), nil
}

func (tf TableFormatter) writeSimulation(buf *bytes.Buffer, out *domain.SimulationOutput) {
	title := "SIMULAÇÃO TRIBUTÁRIA"
	if out.UnitName != "" {
		title += " - " + out.UnitName
	}
	header(buf, title)
	fmt.Fprintf(buf, "Competência: %s   Base de receita: %s   Parâmetros: %s\n",
		out.Reference, out.RevenueBasis, out.ParametersVersion)
	fmt.Fprintf(buf, "Receita do mês: %s\n", FormatCurrency(out.Revenue))
	fmt.Fprintf(buf, "RBT12: %s   Folha12: %s\n", FormatCurrency(out.RBT12), FormatCurrency(out.Folha12))
	fmt.Fprintf(buf, "Fator R: %s (%s)\n\n", FormatRatio(out.FatorR), out.Annex.Label())

	fmt.Fprintf(buf, "  %-30s %14s %14s %14s %9s\n", "Regime", "Federal", "Municipal", "Total", "% Receita")
	buf.WriteString(strings.Repeat("-", lineWidth) + "\n")
	for _, s := range out.Scenarios {
		marker := " "
		if s.ID == out.BestScenario.ID {
			marker = "*"
		}
		if s.ID == out.CurrentRegime {
			marker += ">"
		} else {
			marker += " "
		}
		fmt.Fprintf(buf, "%s%-30s %14s %14s %14s %9s\n",
			marker,
			truncate(s.Label, 30),
			FormatCurrency(s.FederalComponent),
			FormatCurrency(s.MunicipalComponent),
			FormatCurrency(s.Total),
			FormatPercentage(s.PercentualReceita))
	}
	buf.WriteString(strings.Repeat("-", lineWidth) + "\n")
	fmt.Fprintf(buf, "* menor carga: %s (%s)   > regime atual: %s\n\n",
		out.BestScenario.Label, FormatCurrency(out.BestScenario.Total), out.CurrentRegime.Label())

	writeAdjustment(buf, out.Adjustment)
	writeSavings(buf, out.Savings)

	if len(out.Diagnostics) > 0 {
		buf.WriteString("DIAGNÓSTICOS\n")
		buf.WriteString(strings.Repeat("-", lineWidth) + "\n")
		for _, d := range out.Diagnostics {
			fmt.Fprintf(buf, "- %s\n", d)
		}
		buf.WriteString("\n")
	}
}

func (tf TableFormatter) writeAdvice(buf *bytes.Buffer, advice *calculation.Advice) {
	header(buf, "ORIENTAÇÃO FATOR R")
	fmt.Fprintf(buf, "Competência: %s   Fator R: %s (%s)\n\n", advice.Reference, FormatRatio(advice.FatorR), advice.Annex.Label())
	writeAdjustment(buf, advice.Adjustment)
	writeSavings(buf, advice.Savings)
}

func writeAdjustment(buf *bytes.Buffer, adj domain.ProlaboreAdjustment) {
	buf.WriteString("AJUSTE DE PRÓ-LABORE\n")
	buf.WriteString(strings.Repeat("-", lineWidth) + "\n")
	switch adj.Status {
	case domain.AdjustmentNoRevenue:
		buf.WriteString("Sem receita nos últimos 12 meses.\n\n")
		return
	case domain.AdjustmentCompliant:
		fmt.Fprintf(buf, "Fator R %s já atinge a meta de %s.\n\n", FormatRatio(adj.CurrentFatorR), FormatRatio(adj.TargetFatorR))
		return
	}
	fmt.Fprintf(buf, "Fator R atual:        %s (meta %s)\n", FormatRatio(adj.CurrentFatorR), FormatRatio(adj.TargetFatorR))
	fmt.Fprintf(buf, "Aumento mensal:       %s\n", FormatCurrency(adj.MonthlyIncrease))
	fmt.Fprintf(buf, "Aumento anual:        %s\n", FormatCurrency(adj.AnnualIncrease))
	fmt.Fprintf(buf, "Fator R projetado:    %s\n", FormatRatio(adj.ProjectedFatorR))
	fmt.Fprintf(buf, "Encargos adicionais:  %s\n", FormatCurrency(adj.AdditionalCharges))
	fmt.Fprintf(buf, "Benefício líquido:    %s/mês\n\n", FormatCurrency(adj.NetMonthlyBenefit))
}

func writeSavings(buf *bytes.Buffer, s domain.AnexoSavings) {
	buf.WriteString("ANEXO III x ANEXO V\n")
	buf.WriteString(strings.Repeat("-", lineWidth) + "\n")
	fmt.Fprintf(buf, "Anexo III: %s (alíquota efetiva %s)\n", FormatCurrency(s.MonthlyTaxIII), FormatRatio(s.EffectiveRateIII))
	fmt.Fprintf(buf, "Anexo V:   %s (alíquota efetiva %s)\n", FormatCurrency(s.MonthlyTaxV), FormatRatio(s.EffectiveRateV))
	fmt.Fprintf(buf, "Economia:  %s/mês, %s/ano\n\n", FormatCurrency(s.MonthlySavings), FormatCurrency(s.AnnualSavings))
}

func (tf TableFormatter) writeAudit(buf *bytes.Buffer, audit *domain.AuditResult) {
	header(buf, "AUDITORIA FATOR R")
	fmt.Fprintf(buf, "Competência: %s   RBT12: %s   Folha12: %s\n",
		audit.Reference, FormatCurrency(audit.RBT12), FormatCurrency(audit.Folha12))
	fmt.Fprintf(buf, "Fator R médio: %s   Coeficiente de variação: %s\n\n",
		FormatRatio(audit.FatorRMedio), FormatRatio(audit.FatorRVariation))

	fmt.Fprintf(buf, "%-8s %14s %12s %12s %12s %12s %8s\n", "Mês", "Receita", "Salários", "Pró-labore", "Encargos", "Informal", "Fator R")
	buf.WriteString(strings.Repeat("-", lineWidth) + "\n")
	for _, m := range audit.Months {
		fr := "-"
		if m.HasRevenue {
			fr = FormatRatio(m.FatorR)
		}
		fmt.Fprintf(buf, "%-8s %14s %12s %12s %12s %12s %8s\n",
			m.Month,
			FormatCurrency(m.Revenue),
			FormatCurrency(m.Salaries),
			FormatCurrency(m.Prolabore),
			FormatCurrency(m.Charges),
			FormatCurrency(m.Informal),
			fr)
	}
	buf.WriteString("\n")

	if len(audit.CategoriasNaoMapeadas) > 0 {
		buf.WriteString("CATEGORIAS NÃO MAPEADAS\n")
		buf.WriteString(strings.Repeat("-", lineWidth) + "\n")
		for _, c := range audit.CategoriasNaoMapeadas {
			note := ""
			if !c.InCatalog {
				note = " (fora do catálogo)"
			}
			fmt.Fprintf(buf, "- %s%s\n", c.Name, note)
		}
		buf.WriteString("\n")
	}
	if len(audit.Sugestoes) > 0 {
		buf.WriteString("SUGESTÕES\n")
		buf.WriteString(strings.Repeat("-", lineWidth) + "\n")
		for _, s := range audit.Sugestoes {
			fmt.Fprintf(buf, "- %s\n", s)
		}
		buf.WriteString("\n")
	}
}

func (tf TableFormatter) writeTrend(buf *bytes.Buffer, points []domain.TrendPoint) {
	header(buf, "EVOLUÇÃO DO FATOR R")
	fmt.Fprintf(buf, "%-8s %18s %18s %10s %10s\n", "Mês", "RBT12", "Folha12", "Fator R", "Anexo")
	buf.WriteString(strings.Repeat("-", lineWidth) + "\n")
	for _, p := range points {
		fmt.Fprintf(buf, "%-8s %18s %18s %10s %10s\n",
			p.Month, FormatCurrency(p.RBT12), FormatCurrency(p.Folha12), FormatRatio(p.FatorR), p.Annex.Label())
	}
	buf.WriteString("\n")
}

func header(buf *bytes.Buffer, title string) {
	buf.WriteString(title + "\n")
	buf.WriteString(strings.Repeat("=", lineWidth) + "\n")
}

// truncate shortens s to maxLen runes
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
