package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/labfinance/taxsim/internal/domain"
	"github.com/labfinance/taxsim/internal/output"
	"github.com/labfinance/taxsim/internal/tui/tuistyles"
)

// RegimeCard displays one regime scenario
type RegimeCard struct {
	Scenario  domain.RegimeScenario
	IsBest    bool
	IsCurrent bool
	Width     int
}

// NewRegimeCard creates a card for a scenario
func NewRegimeCard(s domain.RegimeScenario) *RegimeCard {
	return &RegimeCard{Scenario: s, Width: 36}
}

// MarkBest flags the lowest-burden scenario
func (r *RegimeCard) MarkBest(best bool) *RegimeCard {
	r.IsBest = best
	return r
}

// MarkCurrent flags the regime the unit is currently taxed under
func (r *RegimeCard) MarkCurrent(current bool) *RegimeCard {
	r.IsCurrent = current
	return r
}

// WithWidth sets the card width
func (r *RegimeCard) WithWidth(width int) *RegimeCard {
	r.Width = width
	return r
}

// Tags returns the badges shown next to the title
func (r *RegimeCard) Tags() []string {
	var tags []string
	if r.IsBest {
		tags = append(tags, "menor carga")
	}
	if r.IsCurrent {
		tags = append(tags, "atual")
	}
	return tags
}

// Render returns the styled regime card
func (r *RegimeCard) Render() string {
	s := r.Scenario
	var content strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(s.Label)
	if tags := r.Tags(); len(tags) > 0 {
		title += " " + tuistyles.TableHighlightStyle.Render("["+strings.Join(tags, ", ")+"]")
	}
	content.WriteString(title + "\n\n")

	line := func(label, value string) {
		content.WriteString(fmt.Sprintf("%s %s\n", tuistyles.MetricLabelStyle.Render(fmt.Sprintf("%-10s", label)), value))
	}
	line("Federal", output.FormatCurrency(s.FederalComponent))
	line("Municipal", output.FormatCurrency(s.MunicipalComponent))
	line("Total", tuistyles.MetricValueStyle.Render(output.FormatCurrency(s.Total)))
	line("% receita", output.FormatPercentage(s.PercentualReceita))
	if s.Comment != "" {
		content.WriteString("\n" + lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Italic(true).Render(s.Comment))
	}

	border := tuistyles.ColorBorder
	if r.IsBest {
		border = tuistyles.ColorSuccess
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(r.Width).
		Render(strings.TrimRight(content.String(), "\n"))
}

// RegimeGrid renders the cards two per row
func RegimeGrid(cards []*RegimeCard) string {
	var rows, current []string
	for i, c := range cards {
		current = append(current, c.Render())
		if (i+1)%2 == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current = nil
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
