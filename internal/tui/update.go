package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case savedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		}

	case syncedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		} else {
			m.plan = msg.plan
			m.clampCursor()
		}

	case sealedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		} else {
			m.plan.IsSealed = true
			if prog, err := m.store.GetProgress(); err == nil {
				m.prog = prog
			}
			m.state = StateStats
		}

	case tea.KeyMsg:
		m.errMsg = ""
		if m.state == StateConfirmSeal {
			return m.updateConfirmSeal(msg)
		}
		return m.updateMain(msg)
	}

	return m, nil
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Tab):
		if m.state == StateDay {
			m.state = StateStats
		} else {
			m.state = StateDay
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		if m.state == StateDay && m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.state == StateDay && m.cursor < len(m.plan.Items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Toggle):
		if m.state == StateDay && !m.plan.IsSealed && m.cursor < len(m.plan.Items) {
			m.plan.Items[m.cursor].Completed = !m.plan.Items[m.cursor].Completed
			return m, m.savePlanCmd(m.plan)
		}

	case key.Matches(msg, m.keys.Sync):
		if m.state == StateDay && !m.plan.IsSealed {
			return m, m.syncCmd()
		}

	case key.Matches(msg, m.keys.Seal):
		if !m.plan.IsSealed {
			m.state = StateConfirmSeal
		}
	}

	return m, nil
}

func (m Model) updateConfirmSeal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.state = StateDay
		return m, m.sealCmd()
	case "n", "N", "q", "esc":
		m.state = StateDay
	}
	return m, nil
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.plan.Items) {
		m.cursor = len(m.plan.Items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
