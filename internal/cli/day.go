package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/gritday/gritday/internal/constants"
	"github.com/gritday/gritday/internal/models"
	"github.com/gritday/gritday/internal/planner"
	"github.com/gritday/gritday/internal/progress"
	"github.com/gritday/gritday/internal/utils"
)

type DayShowCmd struct {
	Date string `arg:"" optional:"" default:"today" help:"Date to show (YYYY-MM-DD or 'today')."`
}

func (c *DayShowCmd) Run(ctx *Context) error {
	date, err := resolveDate(c.Date)
	if err != nil {
		return err
	}

	plan, err := ctx.Planner.EnsurePlan(date)
	if err != nil {
		return err
	}
	fmt.Print(renderPlan(plan))

	if plan.IsSealed {
		sum, err := ctx.Store.GetSummary(date)
		if err == nil && sum.IsSealed {
			fmt.Printf("\nHabits %d%%, score %d%% — %s\n", sum.OperatorPct, sum.ScorePct, sum.Status)
		}
	}
	return nil
}

// setCompleted toggles one item and persists the plan.
func setCompleted(ctx *Context, date, ref string, completed bool) error {
	plan, err := ctx.Planner.EnsurePlan(date)
	if err != nil {
		return err
	}
	if plan.IsSealed {
		return fmt.Errorf("%w: %s", planner.ErrSealed, date)
	}

	idx, err := itemByRef(&plan, ref)
	if err != nil {
		return err
	}
	plan.Items[idx].Completed = completed

	if err := ctx.save(func() error { return ctx.Store.SavePlan(plan) }); err != nil {
		return err
	}

	verb := "Unchecked:"
	if completed {
		verb = "Done:"
	}
	fmt.Printf("%s %s\n", verb, plan.Items[idx].Text)
	return nil
}

type DayCheckCmd struct {
	Item string `arg:"" help:"Item number (from 'day show') or item id."`
	Date string `help:"Date (YYYY-MM-DD), defaults to today." default:"today"`
}

func (c *DayCheckCmd) Run(ctx *Context) error {
	date, err := resolveDate(c.Date)
	if err != nil {
		return err
	}
	return setCompleted(ctx, date, c.Item, true)
}

type DayUncheckCmd struct {
	Item string `arg:"" help:"Item number (from 'day show') or item id."`
	Date string `help:"Date (YYYY-MM-DD), defaults to today." default:"today"`
}

func (c *DayUncheckCmd) Run(ctx *Context) error {
	date, err := resolveDate(c.Date)
	if err != nil {
		return err
	}
	return setCompleted(ctx, date, c.Item, false)
}

type DayAddCmd struct {
	Kind string `arg:"" enum:"habit,task" help:"Item kind: habit or task."`
	Text string `arg:"" help:"Item text."`
	Time string `help:"Display time for tasks (HH:MM)."`
	Date string `help:"Date (YYYY-MM-DD), defaults to today." default:"today"`
}

func (c *DayAddCmd) Run(ctx *Context) error {
	date, err := resolveDate(c.Date)
	if err != nil {
		return err
	}
	if c.Time != "" {
		if c.Kind != constants.KindTask {
			return errors.New("only tasks carry a time")
		}
		if !utils.ValidTime(c.Time) {
			return fmt.Errorf("invalid time %q, expected HH:MM", c.Time)
		}
	}

	plan, err := ctx.Planner.EnsurePlan(date)
	if err != nil {
		return err
	}
	if plan.IsSealed {
		return fmt.Errorf("%w: %s", planner.ErrSealed, date)
	}

	plan.Items = append(plan.Items, models.DayPlanItem{
		ID:        utils.NewID(),
		Kind:      models.ItemKind(c.Kind),
		Text:      c.Text,
		Time:      c.Time,
		Source:    models.SourceManual,
		CreatedAt: utils.Now(),
	})

	if err := ctx.save(func() error { return ctx.Store.SavePlan(plan) }); err != nil {
		return err
	}
	fmt.Printf("Added %s %q to %s. Manual items survive syncs that keep manual items.\n", c.Kind, c.Text, date)
	return nil
}

type DayEditCmd struct {
	Item string `arg:"" help:"Item number (from 'day show') or item id."`
	Text string `help:"New text."`
	Time string `help:"New display time (HH:MM), tasks only. Pass 'none' to clear."`
	Date string `help:"Date (YYYY-MM-DD), defaults to today." default:"today"`
}

func (c *DayEditCmd) Run(ctx *Context) error {
	if c.Text == "" && c.Time == "" {
		return errors.New("nothing to change, pass --text and/or --time")
	}

	date, err := resolveDate(c.Date)
	if err != nil {
		return err
	}
	plan, err := ctx.Planner.EnsurePlan(date)
	if err != nil {
		return err
	}
	if plan.IsSealed {
		return fmt.Errorf("%w: %s", planner.ErrSealed, date)
	}

	idx, err := itemByRef(&plan, c.Item)
	if err != nil {
		return err
	}
	item := &plan.Items[idx]

	if c.Text != "" {
		item.Text = c.Text
	}
	switch {
	case c.Time == "none":
		item.Time = ""
	case c.Time != "":
		if item.Kind != models.KindTask {
			return errors.New("only tasks carry a time")
		}
		if !utils.ValidTime(c.Time) {
			return fmt.Errorf("invalid time %q, expected HH:MM", c.Time)
		}
		item.Time = c.Time
	}

	// Once edited by hand, later syncs never pull the preset's text or
	// time back over this item.
	item.UserEdited = true

	if err := ctx.save(func() error { return ctx.Store.SavePlan(plan) }); err != nil {
		return err
	}
	fmt.Printf("Updated item: %s\n", item.Text)
	return nil
}

type DayRemoveCmd struct {
	Item string `arg:"" help:"Item number (from 'day show') or item id."`
	Date string `help:"Date (YYYY-MM-DD), defaults to today." default:"today"`
}

func (c *DayRemoveCmd) Run(ctx *Context) error {
	date, err := resolveDate(c.Date)
	if err != nil {
		return err
	}
	plan, err := ctx.Planner.EnsurePlan(date)
	if err != nil {
		return err
	}
	if plan.IsSealed {
		return fmt.Errorf("%w: %s", planner.ErrSealed, date)
	}

	idx, err := itemByRef(&plan, c.Item)
	if err != nil {
		return err
	}
	item := plan.Items[idx]
	if !item.IsManual() {
		return fmt.Errorf("%q comes from the preset; remove it there and sync, so it gets archived instead of lost", item.Text)
	}
	plan.Items = append(plan.Items[:idx], plan.Items[idx+1:]...)

	if err := ctx.save(func() error { return ctx.Store.SavePlan(plan) }); err != nil {
		return err
	}
	fmt.Printf("Removed %q from %s\n", item.Text, date)
	return nil
}

type DaySealCmd struct {
	Date string `arg:"" optional:"" default:"today" help:"Date to seal (YYYY-MM-DD or 'today')."`
	Yes  bool   `help:"Skip the confirmation prompt."`
}

func (c *DaySealCmd) Run(ctx *Context) error {
	date, err := resolveDate(c.Date)
	if err != nil {
		return err
	}

	if !c.Yes && !ctx.Yes {
		ok, err := confirm(fmt.Sprintf("Seal %s?", date),
			"A sealed day is final: its items and summary never change again.")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
	}

	var (
		sum  models.DaySummary
		prog models.UserProgress
	)
	err = ctx.save(func() error {
		var err error
		sum, prog, err = ctx.Planner.Seal(date, time.Now().UTC())
		return err
	})
	if err != nil {
		return err
	}

	fmt.Printf("Sealed %s: habits %d%%, score %d%% (%s)\n", date, sum.OperatorPct, sum.ScorePct, sum.Status)
	fmt.Printf("+%d XP, streak %d day(s)\n", progress.XPForDay(sum), prog.CurrentStreak)
	return nil
}
