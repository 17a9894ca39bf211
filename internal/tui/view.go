package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/labfinance/taxsim/internal/calculation"
	"github.com/labfinance/taxsim/internal/domain"
	"github.com/labfinance/taxsim/internal/output"
	"github.com/labfinance/taxsim/internal/tui/components"
	"github.com/labfinance/taxsim/internal/tui/tuistyles"
)

// gaugeMax is the Fator R drawn at full gauge width
var gaugeMax = decimal.RequireFromString("0.5")

// View renders the current state of the application
func (m Model) View() string {
	if m.err != nil {
		return m.renderApp(m.renderError())
	}
	if m.showHelp {
		return m.renderApp(m.renderHelp())
	}
	if m.results == nil {
		return m.renderApp(m.renderLoading())
	}

	var content string
	switch m.tab {
	case TabScenarios:
		content = m.renderScenarios()
	case TabAdvice:
		content = m.renderAdvice()
	case TabAudit:
		content = m.renderAudit()
	case TabDiagnostics:
		content = m.renderDiagnostics()
	}
	if m.loading {
		content = tuistyles.InfoStyle.Render("⠋ "+m.loadingMessage) + "\n" + content
	}
	return m.renderApp(content)
}

// renderApp wraps content with title bar, tabs and status bar
func (m Model) renderApp(content string) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		m.renderTabs(),
		content,
		m.renderStatusBar(),
	)
}

// renderTitleBar renders the application title and the unit breadcrumb
func (m Model) renderTitleBar() string {
	title := tuistyles.TitleStyle.Render("TAXSIM - Simulação tributária e Fator R")
	crumb := m.tab.String()
	if m.workspace != nil {
		crumb = fmt.Sprintf("%s / %s / %s", m.workspace.Unit, m.reference, m.tab)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, tuistyles.SubtitleStyle.Render(crumb))
}

func (m Model) renderTabs() string {
	parts := make([]string, 0, len(allTabs))
	for i, t := range allTabs {
		label := fmt.Sprintf("%d %s", i+1, t)
		if t == m.tab {
			parts = append(parts, tuistyles.ActiveTabStyle.Render(label))
		} else {
			parts = append(parts, tuistyles.InactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...) + "\n"
}

// renderStatusBar renders the bottom status bar with keyboard shortcuts
func (m Model) renderStatusBar() string {
	shortcuts := make([]string, 0, len(m.keys.ShortHelp()))
	for _, b := range m.keys.ShortHelp() {
		shortcuts = append(shortcuts, formatShortcut(b.Help().Key, b.Help().Desc))
	}
	return tuistyles.StatusBarStyle.Width(m.width).Render(strings.Join(shortcuts, " • "))
}

// formatShortcut formats a keyboard shortcut with key and description
func formatShortcut(key, desc string) string {
	return tuistyles.StatusKeyStyle.Render(key) + " " + desc
}

func (m Model) renderLoading() string {
	message := m.loadingMessage
	if message == "" {
		message = "Carregando..."
	}
	return tuistyles.BorderStyle.Render("⠋ " + message)
}

func (m Model) renderError() string {
	return tuistyles.ErrorStyle.Render(fmt.Sprintf("Erro: %s\n\nPressione qualquer tecla para continuar...", m.err))
}

func (m Model) renderHelp() string {
	var sb strings.Builder
	sb.WriteString("ATALHOS\n\n")
	for _, b := range m.keys.FullHelp() {
		sb.WriteString(fmt.Sprintf("  %-10s %s\n", b.Help().Key, b.Help().Desc))
	}
	return tuistyles.BorderStyle.Render(strings.TrimRight(sb.String(), "\n"))
}

func (m Model) renderScenarios() string {
	sim := m.results.Simulation
	fatorOK := sim.Annex == domain.AnnexIII

	cards := []*components.MetricCard{
		components.NewMetricCard("Receita do mês", output.FormatCurrency(sim.Revenue)),
		components.NewMetricCard("RBT12", output.FormatCurrency(sim.RBT12)),
		components.NewMetricCard("Folha12", output.FormatCurrency(sim.Folha12)),
		components.NewMetricCard("Fator R", output.FormatRatio(sim.FatorR)).WithStatus(fatorOK, sim.Annex.Label()),
	}
	if sim.UsedDefaults() {
		cards[0].WithDescription("parâmetros padrão")
	}

	regimeCards := make([]*components.RegimeCard, 0, len(sim.Scenarios))
	for _, s := range sim.Scenarios {
		regimeCards = append(regimeCards, components.NewRegimeCard(s).
			MarkBest(s.ID == sim.BestScenario.ID).
			MarkCurrent(s.ID == sim.CurrentRegime).
			WithWidth(m.cardWidth()))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		components.MetricGrid(cards, 4),
		components.RegimeGrid(regimeCards),
	)
}

func (m Model) cardWidth() int {
	w := m.width/2 - 2
	if w < 30 {
		return 30
	}
	return w
}

func (m Model) renderAdvice() string {
	sim := m.results.Simulation
	adj := sim.Adjustment
	var sb strings.Builder

	gauge := components.NewGauge("Fator R (12 meses)", sim.FatorR, calculation.FatorRThreshold, gaugeMax)
	sb.WriteString(gauge.Render() + "\n\n")

	sb.WriteString(tuistyles.TableHeaderStyle.Render("Ajuste de pró-labore") + "\n")
	switch adj.Status {
	case domain.AdjustmentNoRevenue:
		sb.WriteString("Sem receita nos últimos 12 meses.\n")
	case domain.AdjustmentCompliant:
		sb.WriteString(tuistyles.StatusStyle(true).Render("✓ Fator R já atinge a meta; nenhum ajuste necessário.") + "\n")
	default:
		sb.WriteString(fmt.Sprintf("Aumento mensal:      %s\n", output.FormatCurrency(adj.MonthlyIncrease)))
		sb.WriteString(fmt.Sprintf("Aumento anual:       %s\n", output.FormatCurrency(adj.AnnualIncrease)))
		sb.WriteString(fmt.Sprintf("Fator R projetado:   %s\n", output.FormatRatio(adj.ProjectedFatorR)))
		sb.WriteString(fmt.Sprintf("Encargos adicionais: %s\n", output.FormatCurrency(adj.AdditionalCharges)))
		sb.WriteString(fmt.Sprintf("Benefício líquido:   %s\n",
			tuistyles.StatusStyle(adj.NetMonthlyBenefit.IsPositive()).Render(output.FormatCurrency(adj.NetMonthlyBenefit)+"/mês")))
	}

	s := sim.Savings
	sb.WriteString("\n" + tuistyles.TableHeaderStyle.Render("Anexo III x Anexo V") + "\n")
	sb.WriteString(fmt.Sprintf("Anexo III: %s (%s)\n", output.FormatCurrency(s.MonthlyTaxIII), output.FormatRatio(s.EffectiveRateIII)))
	sb.WriteString(fmt.Sprintf("Anexo V:   %s (%s)\n", output.FormatCurrency(s.MonthlyTaxV), output.FormatRatio(s.EffectiveRateV)))
	sb.WriteString(fmt.Sprintf("Economia:  %s/mês, %s/ano\n", output.FormatCurrency(s.MonthlySavings), output.FormatCurrency(s.AnnualSavings)))

	if len(m.results.Trend) > 0 {
		sb.WriteString("\n" + tuistyles.TableHeaderStyle.Render(fmt.Sprintf("%-8s %16s %10s %9s", "Mês", "RBT12", "Fator R", "Anexo")) + "\n")
		for _, p := range m.results.Trend {
			row := fmt.Sprintf("%-8s %16s %10s %9s", p.Month, output.FormatCurrency(p.RBT12), output.FormatRatio(p.FatorR), p.Annex.Label())
			if p.Month == m.reference {
				row = tuistyles.TableHighlightStyle.Render(row)
			}
			sb.WriteString(row + "\n")
		}
	}
	return tuistyles.BorderStyle.Render(strings.TrimRight(sb.String(), "\n"))
}

func (m Model) renderAudit() string {
	audit := m.results.Audit
	var sb strings.Builder

	sb.WriteString(components.MetricGrid([]*components.MetricCard{
		components.NewMetricCard("Fator R médio", output.FormatRatio(audit.FatorRMedio)).
			WithStatus(audit.FatorRMedio.GreaterThanOrEqual(calculation.FatorRThreshold), "meta "+output.FormatRatio(calculation.FatorRThreshold)),
		components.NewMetricCard("Variação (CV)", output.FormatRatio(audit.FatorRVariation)),
		components.NewMetricCard("Sem categoria", fmt.Sprintf("%d lançamentos", m.results.Unresolved)),
	}, 3))
	sb.WriteString("\n")

	header := fmt.Sprintf("%-8s %14s %13s %13s %13s %9s", "Mês", "Receita", "Salários", "Pró-labore", "Encargos", "Fator R")
	sb.WriteString(tuistyles.TableHeaderStyle.Render(header) + "\n")
	for _, mo := range audit.Months {
		fr := "-"
		if mo.HasRevenue {
			fr = output.FormatRatio(mo.FatorR)
		}
		sb.WriteString(fmt.Sprintf("%-8s %14s %13s %13s %13s %9s\n",
			mo.Month,
			output.FormatCurrency(mo.Revenue),
			output.FormatCurrency(mo.Salaries),
			output.FormatCurrency(mo.Prolabore),
			output.FormatCurrency(mo.Charges),
			fr))
	}

	if len(audit.CategoriasNaoMapeadas) > 0 {
		sb.WriteString("\n" + tuistyles.TableHeaderStyle.Render("Categorias não mapeadas") + "\n")
		for _, c := range audit.CategoriasNaoMapeadas {
			sb.WriteString("• " + c.Name + "\n")
		}
	}
	if len(audit.Sugestoes) > 0 {
		sb.WriteString("\n" + tuistyles.TableHeaderStyle.Render("Sugestões") + "\n")
		for _, s := range audit.Sugestoes {
			sb.WriteString("• " + s + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m Model) renderDiagnostics() string {
	diags := m.results.Simulation.Diagnostics
	if len(diags) == 0 {
		return tuistyles.BorderStyle.Render("Nenhum diagnóstico para " + m.reference.String())
	}
	var sb strings.Builder
	for _, d := range diags {
		tag := tuistyles.SeverityStyle(d.Severity).Bold(true).Render(fmt.Sprintf("%-8s", d.Severity))
		sb.WriteString(tag + " " + d.Message + "\n")
	}
	return tuistyles.BorderStyle.Render(strings.TrimRight(sb.String(), "\n"))
}
