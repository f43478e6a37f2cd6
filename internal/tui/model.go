package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gritday/gritday/internal/merge"
	"github.com/gritday/gritday/internal/models"
	"github.com/gritday/gritday/internal/planner"
	"github.com/gritday/gritday/internal/storage"
)

type SessionState int

const (
	StateDay SessionState = iota
	StateStats
	StateConfirmSeal
)

type Model struct {
	store   storage.Provider
	planner *planner.Planner
	queue   *storage.SaveQueue

	date string
	plan models.DayPlan
	prog models.UserProgress

	state    SessionState
	keys     KeyMap
	help     help.Model
	cursor   int
	width    int
	height   int
	errMsg   string
	quitting bool
}

func NewModel(store storage.Provider, pl *planner.Planner, queue *storage.SaveQueue, date string) Model {
	m := Model{
		store:   store,
		planner: pl,
		queue:   queue,
		date:    date,
		state:   StateDay,
		keys:    DefaultKeyMap(),
		help:    help.New(),
	}
	if plan, err := store.GetPlan(date); err == nil {
		m.plan = plan
	}
	if prog, err := store.GetProgress(); err == nil {
		m.prog = prog
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Messages produced by async persistence commands.
type savedMsg struct{ err error }
type sealedMsg struct {
	sum models.DaySummary
	err error
}
type syncedMsg struct {
	plan models.DayPlan
	err  error
}

// savePlanCmd persists the plan through the session save queue so toggles
// land in the order they were made.
func (m Model) savePlanCmd(plan models.DayPlan) tea.Cmd {
	return func() tea.Msg {
		err := m.queue.Do(func() error { return m.store.SavePlan(plan) })
		return savedMsg{err: err}
	}
}

func (m Model) syncCmd() tea.Cmd {
	return func() tea.Msg {
		var plan models.DayPlan
		err := m.queue.Do(func() error {
			var err error
			plan, err = m.planner.Sync(m.date, merge.Options{KeepCompletion: true, KeepManual: true})
			return err
		})
		return syncedMsg{plan: plan, err: err}
	}
}

func (m Model) sealCmd() tea.Cmd {
	return func() tea.Msg {
		var sum models.DaySummary
		err := m.queue.Do(func() error {
			var err error
			sum, _, err = m.planner.Seal(m.date, time.Now().UTC())
			return err
		})
		return sealedMsg{sum: sum, err: err}
	}
}
