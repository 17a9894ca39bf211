package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/labfinance/taxsim/internal/tui/tuistyles"
)

// MetricCard displays a single metric with label, value, and an optional status line
type MetricCard struct {
	Label       string
	Value       string
	Status      *Status
	Description string
	Width       int
}

// Status marks a metric as meeting or missing its target
type Status struct {
	OK   bool
	Note string // e.g. "meta 28%" or "faltam 2,50 p.p."
}

// NewMetricCard creates a new metric card
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{
		Label: label,
		Value: value,
		Width: 26,
	}
}

// WithStatus adds a status line to the metric card
func (m *MetricCard) WithStatus(ok bool, note string) *MetricCard {
	m.Status = &Status{OK: ok, Note: note}
	return m
}

// WithDescription adds a description/subtitle
func (m *MetricCard) WithDescription(desc string) *MetricCard {
	m.Description = desc
	return m
}

// WithWidth sets the card width
func (m *MetricCard) WithWidth(width int) *MetricCard {
	m.Width = width
	return m
}

// Render returns the styled metric card
func (m *MetricCard) Render() string {
	content := tuistyles.MetricLabelStyle.Render(m.Label) + "\n" + tuistyles.MetricValueStyle.Render(m.Value)

	if m.Status != nil {
		content += "\n" + tuistyles.StatusStyle(m.Status.OK).Render(tuistyles.StatusIndicator(m.Status.OK)+" "+m.Status.Note)
	}
	if m.Description != "" {
		content += "\n" + tuistyles.SubtitleStyle.Render(m.Description)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(0, 1).
		Width(m.Width).
		Render(content)
}

// RenderCompact returns a compact inline version without border
func (m *MetricCard) RenderCompact() string {
	out := tuistyles.MetricLabelStyle.Render(m.Label+":") + " " + tuistyles.MetricValueStyle.Render(m.Value)
	if m.Status != nil {
		out += " " + tuistyles.StatusStyle(m.Status.OK).Render(tuistyles.StatusIndicator(m.Status.OK)+" "+m.Status.Note)
	}
	return out
}

// MetricGrid renders multiple metric cards in a grid layout
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 {
		return ""
	}
	if columns < 1 {
		columns = 1
	}

	var rows, currentRow []string
	for i, card := range cards {
		currentRow = append(currentRow, card.Render())
		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, currentRow...))
			currentRow = nil
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
