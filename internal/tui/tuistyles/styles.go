// Package tuistyles holds the shared lipgloss palette so components and the
// root model can both use it without an import cycle.
package tuistyles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/labfinance/taxsim/internal/domain"
)

// Colors
var (
	ColorPrimary   = lipgloss.Color("#2E7D9A")
	ColorSecondary = lipgloss.Color("#5C6BC0")
	ColorAccent    = lipgloss.Color("#F9A825")
	ColorSuccess   = lipgloss.Color("#43A047")
	ColorWarning   = lipgloss.Color("#FB8C00")
	ColorDanger    = lipgloss.Color("#E53935")
	ColorInfo      = lipgloss.Color("#1E88E5")

	ColorForeground = lipgloss.Color("#ECEFF1")
	ColorMuted      = lipgloss.Color("#78909C")
	ColorBorder     = lipgloss.Color("#455A64")
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorForeground).
			Background(lipgloss.Color("#263238")).
			Padding(0, 1)

	StatusKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	ActiveTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorForeground).
			Background(ColorPrimary).
			Padding(0, 2)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Padding(0, 2)

	MetricLabelStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)

	MetricValueStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorForeground)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary)

	TableHighlightStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDanger).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDanger).
			Padding(1, 2)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)
)

// SeverityColor maps a diagnostic severity to its color
func SeverityColor(s domain.Severity) lipgloss.Color {
	switch s {
	case domain.SeverityWarning:
		return ColorWarning
	case domain.SeveritySuccess:
		return ColorSuccess
	case domain.SeverityInsight:
		return ColorSecondary
	default:
		return ColorInfo
	}
}

// SeverityStyle returns the text style of a diagnostic severity
func SeverityStyle(s domain.Severity) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(SeverityColor(s))
}

// StatusStyle colors good and bad outcomes
func StatusStyle(ok bool) lipgloss.Style {
	if ok {
		return lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
}

// StatusIndicator returns a check mark or a warning sign
func StatusIndicator(ok bool) string {
	if ok {
		return "✓"
	}
	return "!"
}
