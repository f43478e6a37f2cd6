package cli

import (
	"fmt"

	"github.com/gritday/gritday/internal/merge"
)

type SyncCmd struct {
	Date           string `arg:"" optional:"" default:"today" help:"Date to sync (YYYY-MM-DD or 'today')."`
	KeepCompletion bool   `default:"true" negatable:"" help:"Keep completion state on matched items."`
	KeepManual     bool   `default:"true" negatable:"" help:"Keep manually added items."`
	Yes            bool   `help:"Skip the confirmation prompt."`
}

func (c *SyncCmd) Run(ctx *Context) error {
	date, err := resolveDate(c.Date)
	if err != nil {
		return err
	}

	// Dropping manual items cannot be undone, so ask first.
	if !c.KeepManual && !c.Yes && !ctx.Yes {
		ok, err := confirm(fmt.Sprintf("Sync %s without keeping manual items?", date),
			"Every item you added by hand on this day will be removed.")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
	}

	opts := merge.Options{
		KeepCompletion: c.KeepCompletion,
		KeepManual:     c.KeepManual,
	}

	err = ctx.save(func() error {
		_, err := ctx.Planner.Sync(date, opts)
		return err
	})
	if err != nil {
		return err
	}

	plan, err := ctx.Store.GetPlan(date)
	if err != nil {
		return err
	}
	fmt.Printf("Synced %s with the active preset.\n\n", date)
	fmt.Print(renderPlan(plan))
	return nil
}
