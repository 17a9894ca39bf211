package tui

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labfinance/taxsim/internal/config"
	"github.com/labfinance/taxsim/internal/domain"
)

var fixture = filepath.Join("testdata", "workspace.yaml")

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loadedModel returns a model whose first computation has completed
func loadedModel(t *testing.T) Model {
	t.Helper()
	ws, err := config.NewInputParser().LoadWorkspace(fixture)
	require.NoError(t, err)

	m := NewModelWithWorkspace(ws, Options{WorkspacePath: fixture})
	cmd := m.Init()
	require.NotNil(t, cmd)
	updated, _ := m.Update(cmd())
	return updated.(Model)
}

func TestModel_InitialComputation(t *testing.T) {
	m := loadedModel(t)

	require.NotNil(t, m.Results())
	assert.False(t, m.loading)
	assert.Equal(t, domain.NewYearMonth(2025, time.June), m.Reference())

	sim := m.Results().Simulation
	assert.Equal(t, domain.AnnexIII, sim.Annex)
	assert.Equal(t, domain.RegimeSimplesNacional, sim.BestScenario.ID)
	assert.Equal(t, domain.RegimeLucroPresumido, sim.CurrentRegime)
	assert.Len(t, m.Results().Trend, 12)
	assert.Len(t, m.Results().Audit.Months, 12)

	view := m.View()
	assert.Contains(t, view, "Laboratório Centro / 2025-06 / Cenários")
	assert.Contains(t, view, "R$ 600.000,00")
	assert.Contains(t, view, "menor carga")
	assert.Contains(t, view, "R$ 8.165,00")
}

func TestModel_LoadWorkspaceFromFile(t *testing.T) {
	m := NewModel(Options{WorkspacePath: fixture})
	assert.Contains(t, m.View(), "Carregando workspace")

	msg := m.Init()()
	loaded, ok := msg.(WorkspaceLoadedMsg)
	require.True(t, ok, "got %T", msg)

	updated, cmd := m.Update(loaded)
	m = updated.(Model)
	assert.True(t, m.loading)
	require.NotNil(t, cmd)

	updated, _ = m.Update(cmd())
	m = updated.(Model)
	require.NotNil(t, m.Results())
	assert.Equal(t, "Laboratório Centro", m.Results().Simulation.UnitName)
}

func TestModel_LoadWorkspaceError(t *testing.T) {
	m := NewModel(Options{WorkspacePath: "missing.yaml"})
	msg := m.Init()()
	_, ok := msg.(ErrorMsg)
	require.True(t, ok)

	updated, _ := m.Update(msg)
	m = updated.(Model)
	assert.Contains(t, m.View(), "Erro: failed to read file")

	// without a workspace, dismissing the error quits
	_, cmd := m.Update(runes("x"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_TabNavigation(t *testing.T) {
	m := loadedModel(t)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	assert.Equal(t, TabAdvice, m.ActiveTab())
	assert.Contains(t, m.View(), "meta 28,00%")
	assert.Contains(t, m.View(), "Economia:  R$ 3.645,00/mês")

	updated, _ = m.Update(runes("3"))
	m = updated.(Model)
	assert.Equal(t, TabAudit, m.ActiveTab())
	assert.Contains(t, m.View(), "Fator R médio")

	updated, _ = m.Update(runes("4"))
	m = updated.(Model)
	assert.Equal(t, TabDiagnostics, m.ActiveTab())
	assert.Contains(t, m.View(), "insight")

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	assert.Equal(t, TabScenarios, m.ActiveTab(), "tabs wrap around")

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = updated.(Model)
	assert.Equal(t, TabDiagnostics, m.ActiveTab())
}

func TestModel_MonthNavigation(t *testing.T) {
	m := loadedModel(t)
	june := m.Results()

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = updated.(Model)
	assert.Equal(t, domain.NewYearMonth(2025, time.May), m.Reference())
	assert.True(t, m.loading)
	require.NotNil(t, cmd)

	// keys that move months are ignored while a computation is running
	updated, again := m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Nil(t, again)
	assert.Equal(t, domain.NewYearMonth(2025, time.May), updated.(Model).Reference())

	// a result for the month we left is dropped
	updated, _ = m.Update(ResultsMsg{Results: june})
	assert.Same(t, june, updated.(Model).Results())

	updated, _ = m.Update(cmd())
	m = updated.(Model)
	require.NotNil(t, m.Results())
	assert.Equal(t, domain.NewYearMonth(2025, time.May), m.Results().Reference)
	assert.Contains(t, m.View(), "2025-05")

	updated, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = updated.(Model)
	assert.Equal(t, domain.NewYearMonth(2025, time.June), m.Reference())
	assert.NotNil(t, cmd)
}

func TestModel_ComputationError(t *testing.T) {
	m := loadedModel(t)

	updated, _ := m.Update(ResultsMsg{Err: errors.New("connection refused")})
	m = updated.(Model)
	assert.Contains(t, m.View(), "Erro: connection refused")

	updated, cmd := m.Update(runes("x"))
	m = updated.(Model)
	assert.Nil(t, cmd)
	assert.NotContains(t, m.View(), "Erro:")
	assert.NotNil(t, m.Results(), "previous results are kept")
}

func TestModel_HelpAndQuit(t *testing.T) {
	m := loadedModel(t)

	updated, _ := m.Update(runes("?"))
	m = updated.(Model)
	assert.Contains(t, m.View(), "ATALHOS")
	assert.Contains(t, m.View(), "mês anterior")

	updated, _ = m.Update(runes("?"))
	assert.NotContains(t, updated.(Model).View(), "ATALHOS")

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_Reload(t *testing.T) {
	m := loadedModel(t)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = updated.(Model)
	m.loading = false

	updated, cmd := m.Update(runes("r"))
	m = updated.(Model)
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, WorkspaceLoadedMsg{}, msg)

	updated, _ = m.Update(msg)
	assert.Equal(t, domain.NewYearMonth(2025, time.May), updated.(Model).Reference(), "reload keeps the viewed month")
}

func TestModel_WindowSize(t *testing.T) {
	m := loadedModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 50})
	m = updated.(Model)
	assert.Equal(t, 140, m.width)
	assert.Equal(t, 68, m.cardWidth())
}
