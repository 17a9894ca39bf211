package components

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/labfinance/taxsim/internal/domain"
)

func TestMetricCard(t *testing.T) {
	card := NewMetricCard("Fator R", "28,00%").WithStatus(true, "Anexo III").WithDescription("12 meses")
	out := card.Render()

	assert.Contains(t, out, "Fator R")
	assert.Contains(t, out, "28,00%")
	assert.Contains(t, out, "✓ Anexo III")
	assert.Contains(t, out, "12 meses")

	compact := NewMetricCard("RBT12", "R$ 600.000,00").WithStatus(false, "abaixo").RenderCompact()
	assert.Equal(t, "RBT12: R$ 600.000,00 ! abaixo", compact)
}

func TestMetricGrid(t *testing.T) {
	assert.Empty(t, MetricGrid(nil, 2))

	cards := []*MetricCard{NewMetricCard("A", "1"), NewMetricCard("B", "2"), NewMetricCard("C", "3")}
	grid := MetricGrid(cards, 2)
	lines := strings.Split(grid, "\n")
	// two rows of bordered cards, each four lines tall
	assert.Len(t, lines, 8)
}

func TestRegimeCard(t *testing.T) {
	s := domain.RegimeScenario{
		ID:                 domain.RegimeSimplesNacional,
		Label:              "Simples Nacional",
		FederalComponent:   decimal.NewFromInt(5280),
		Total:              decimal.NewFromInt(5280),
		PercentualReceita:  decimal.RequireFromString("10.56"),
		Comment:            "DAS unificado",
		MunicipalComponent: decimal.Zero,
	}
	card := NewRegimeCard(s).MarkBest(true).MarkCurrent(true).WithWidth(44)
	assert.Equal(t, []string{"menor carga", "atual"}, card.Tags())

	out := card.Render()
	assert.Contains(t, out, "Simples Nacional [menor carga, atual]")
	assert.Contains(t, out, "R$ 5.280,00")
	assert.Contains(t, out, "10,56%")
	assert.Contains(t, out, "DAS unificado")

	assert.Empty(t, NewRegimeCard(s).Tags())
	assert.NotEmpty(t, RegimeGrid([]*RegimeCard{card, NewRegimeCard(s)}))
}

func TestGauge(t *testing.T) {
	target := decimal.RequireFromString("0.28")
	max := decimal.RequireFromString("0.5")

	g := NewGauge("Fator R", decimal.RequireFromString("0.25"), target, max).WithWidth(10)
	assert.False(t, g.Reached())
	assert.Equal(t, 5, g.cells(g.Value))
	assert.Equal(t, 5, g.cells(target))
	assert.Equal(t, 10, g.cells(decimal.NewFromInt(3)), "clamped to the width")
	assert.Equal(t, 0, g.cells(decimal.NewFromInt(-1)))

	out := g.Render()
	assert.Contains(t, out, "25,00% / meta 28,00%")
	assert.Contains(t, out, "|")

	assert.True(t, NewGauge("", target, target, max).Reached())
	assert.Equal(t, 0, NewGauge("", target, target, decimal.Zero).cells(target))
}
