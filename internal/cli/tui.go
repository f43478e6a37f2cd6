package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gritday/gritday/internal/tui"
)

type TuiCmd struct {
	Date string `arg:"" optional:"" default:"today" help:"Date to open (YYYY-MM-DD or 'today')."`
}

func (c *TuiCmd) Run(ctx *Context) error {
	date, err := resolveDate(c.Date)
	if err != nil {
		return err
	}
	if _, err := ctx.Planner.EnsurePlan(date); err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewModel(ctx.Store, ctx.Planner, ctx.Queue, date), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
