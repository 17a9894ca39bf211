package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case WorkspaceLoadedMsg:
		m.setWorkspace(msg.Workspace)
		return m.recompute("Calculando " + m.reference.String() + "...")

	case ResultsMsg:
		if msg.Err != nil {
			m.loading = false
			m.err = msg.Err
			return m, nil
		}
		// a late result for a month we already left is dropped
		if msg.Results == nil || msg.Results.Reference != m.reference {
			return m, nil
		}
		m.loading = false
		m.results = msg.Results
		return m, nil

	case ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// any key dismisses an error; without a workspace there is nothing else to show
	if m.err != nil {
		m.err = nil
		if m.workspace == nil {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp

	case key.Matches(msg, m.keys.NextTab):
		m.tab = allTabs[(int(m.tab)+1)%len(allTabs)]

	case key.Matches(msg, m.keys.PrevTab):
		m.tab = allTabs[(int(m.tab)+len(allTabs)-1)%len(allTabs)]

	case key.Matches(msg, m.keys.Jump):
		idx := int(msg.String()[0] - '1')
		if idx >= 0 && idx < len(allTabs) {
			m.tab = allTabs[idx]
		}

	case key.Matches(msg, m.keys.PrevMonth):
		if m.workspace != nil && !m.loading {
			m.reference = m.reference.Prev()
			return m.recompute("Calculando " + m.reference.String() + "...")
		}

	case key.Matches(msg, m.keys.NextMonth):
		if m.workspace != nil && !m.loading {
			m.reference = m.reference.Next()
			return m.recompute("Calculando " + m.reference.String() + "...")
		}

	case key.Matches(msg, m.keys.Reload):
		if !m.loading && m.opts.WorkspacePath != "" {
			m.loading = true
			m.loadingMessage = "Recarregando workspace..."
			return m, loadWorkspaceCmd(m.opts)
		}
	}
	return m, nil
}

func (m Model) recompute(message string) (tea.Model, tea.Cmd) {
	m.loading = true
	m.loadingMessage = message
	return m, computeCmd(m.engine, m.workspace, m.opts.Source, m.reference)
}
