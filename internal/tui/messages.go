package tui

import (
	"github.com/labfinance/taxsim/internal/config"
	"github.com/labfinance/taxsim/internal/domain"
)

// Tab identifies one of the result panels
type Tab int

const (
	TabScenarios Tab = iota
	TabAdvice
	TabAudit
	TabDiagnostics
)

var allTabs = []Tab{TabScenarios, TabAdvice, TabAudit, TabDiagnostics}

func (t Tab) String() string {
	switch t {
	case TabScenarios:
		return "Cenários"
	case TabAdvice:
		return "Fator R"
	case TabAudit:
		return "Auditoria"
	case TabDiagnostics:
		return "Diagnósticos"
	default:
		return "?"
	}
}

// Results is everything computed for one reference month
type Results struct {
	Reference  domain.YearMonth
	Simulation *domain.SimulationOutput
	Audit      *domain.AuditResult
	Trend      []domain.TrendPoint
	// Unresolved counts ledger entries whose category is not in the catalog.
	Unresolved int
}

// Message types for the Bubble Tea update cycle

// WorkspaceLoadedMsg signals the workspace file has been parsed
type WorkspaceLoadedMsg struct {
	Workspace *config.Workspace
}

// ResultsMsg carries the outcome of a computation
type ResultsMsg struct {
	Results *Results
	Err     error
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}
