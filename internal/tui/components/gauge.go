package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/labfinance/taxsim/internal/output"
	"github.com/labfinance/taxsim/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// Gauge draws a ratio against a target as a bar with a target marker
type Gauge struct {
	Label  string
	Value  decimal.Decimal
	Target decimal.Decimal
	// Max is the ratio drawn at full width.
	Max   decimal.Decimal
	Width int
}

// NewGauge creates a gauge scaled to 0..max
func NewGauge(label string, value, target, max decimal.Decimal) *Gauge {
	return &Gauge{Label: label, Value: value, Target: target, Max: max, Width: 40}
}

// WithWidth sets the bar width
func (g *Gauge) WithWidth(width int) *Gauge {
	g.Width = width
	return g
}

// Reached reports whether the value meets the target
func (g *Gauge) Reached() bool {
	return g.Value.GreaterThanOrEqual(g.Target)
}

// cells converts a ratio into a bar position in 0..Width
func (g *Gauge) cells(ratio decimal.Decimal) int {
	if !g.Max.IsPositive() || g.Width <= 0 {
		return 0
	}
	n := int(ratio.Div(g.Max).Mul(decimal.NewFromInt(int64(g.Width))).IntPart())
	if n < 0 {
		return 0
	}
	if n > g.Width {
		return g.Width
	}
	return n
}

// Render returns the styled gauge
func (g *Gauge) Render() string {
	var content strings.Builder
	if g.Label != "" {
		content.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorForeground).Render(g.Label))
		content.WriteString("\n")
	}

	filled := g.cells(g.Value)
	target := g.cells(g.Target)
	barStyle := tuistyles.StatusStyle(g.Reached())
	emptyStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorBorder)
	markStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorAccent).Bold(true)

	content.WriteString("[")
	for i := 0; i < g.Width; i++ {
		switch {
		case i == target:
			content.WriteString(markStyle.Render("|"))
		case i < filled:
			content.WriteString(barStyle.Render("█"))
		default:
			content.WriteString(emptyStyle.Render("░"))
		}
	}
	content.WriteString("] ")
	content.WriteString(fmt.Sprintf("%s / meta %s", output.FormatRatio(g.Value), output.FormatRatio(g.Target)))
	return content.String()
}
