package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/labfinance/taxsim/internal/calculation"
	"github.com/labfinance/taxsim/internal/config"
	"github.com/labfinance/taxsim/internal/domain"
)

// Options selects the workspace and the ledger source of the viewer
type Options struct {
	WorkspacePath  string
	ParametersPath string
	Source         config.SourceOptions
	// Reference overrides the workspace reference month when set.
	Reference domain.YearMonth
}

// Model represents the entire application state
type Model struct {
	tab      Tab
	showHelp bool
	keys     keyMap

	// Terminal dimensions
	width  int
	height int

	opts      Options
	workspace *config.Workspace
	engine    *calculation.Engine
	reference domain.YearMonth
	results   *Results

	err            error
	loading        bool
	loadingMessage string

	now func() time.Time
}

// NewModel creates a model that loads its workspace from opts.WorkspacePath
func NewModel(opts Options) Model {
	return Model{
		tab:            TabScenarios,
		keys:           defaultKeyMap(),
		opts:           opts,
		engine:         calculation.NewEngine(),
		width:          100,
		height:         30,
		loading:        true,
		loadingMessage: "Carregando workspace...",
		now:            time.Now,
	}
}

// NewModelWithWorkspace creates a model over an already loaded workspace
func NewModelWithWorkspace(ws *config.Workspace, opts Options) Model {
	m := NewModel(opts)
	m.setWorkspace(ws)
	m.loadingMessage = "Calculando " + m.reference.String() + "..."
	return m
}

// setWorkspace installs ws; a month already being viewed survives a reload
func (m *Model) setWorkspace(ws *config.Workspace) {
	m.workspace = ws
	if m.reference.IsZero() {
		m.reference = ws.ReferenceMonth(m.opts.Reference, m.now())
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	if m.workspace != nil {
		return computeCmd(m.engine, m.workspace, m.opts.Source, m.reference)
	}
	return loadWorkspaceCmd(m.opts)
}

// Reference returns the month currently displayed
func (m Model) Reference() domain.YearMonth { return m.reference }

// ActiveTab returns the selected tab
func (m Model) ActiveTab() Tab { return m.tab }

// Results returns the last successful computation, or nil
func (m Model) Results() *Results { return m.results }

// loadWorkspaceCmd returns a command that loads the workspace file
func loadWorkspaceCmd(opts Options) tea.Cmd {
	return func() tea.Msg {
		ws, err := config.NewInputParser().LoadWorkspaceWithParameters(opts.WorkspacePath, opts.ParametersPath)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return WorkspaceLoadedMsg{Workspace: ws}
	}
}

// computeCmd returns a command that runs simulation, audit and trend for one month
func computeCmd(engine *calculation.Engine, ws *config.Workspace, source config.SourceOptions, reference domain.YearMonth) tea.Cmd {
	return func() tea.Msg {
		results, err := compute(context.Background(), engine, ws, source, reference)
		return ResultsMsg{Results: results, Err: err}
	}
}

func compute(ctx context.Context, engine *calculation.Engine, ws *config.Workspace, source config.SourceOptions, reference domain.YearMonth) (*Results, error) {
	span := calculation.DefaultTrendPoints + calculation.WindowLength - 1
	data, err := ws.LoadDataset(ctx, source, reference, span)
	if err != nil {
		return nil, err
	}

	sim, err := engine.Simulate(calculation.SimulationRequest{
		Reference:    reference,
		Entries:      data.Entries,
		Aggregates:   data.Aggregates,
		Params:       ws.TaxParameters,
		Config:       ws.TaxConfig,
		RevenueBasis: ws.RevenueBasis,
	})
	if err != nil {
		return nil, fmt.Errorf("simulation %s: %w", reference, err)
	}
	audit, err := engine.Audit(calculation.AuditRequest{
		Reference:  reference,
		Entries:    data.Entries,
		Aggregates: data.Aggregates,
		Catalog:    data.Catalog,
		Params:     ws.TaxParameters,
	})
	if err != nil {
		return nil, fmt.Errorf("audit %s: %w", reference, err)
	}
	trend, err := engine.Trend(calculation.TrendRequest{
		Reference:  reference,
		Entries:    data.Entries,
		Aggregates: data.Aggregates,
	})
	if err != nil {
		return nil, fmt.Errorf("trend %s: %w", reference, err)
	}

	return &Results{
		Reference:  reference,
		Simulation: sim,
		Audit:      audit,
		Trend:      trend,
		Unresolved: data.Unresolved,
	}, nil
}
