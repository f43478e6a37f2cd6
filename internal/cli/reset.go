package cli

import (
	"fmt"
)

type ResetCmd struct {
	Yes bool `help:"Skip the confirmation prompt."`
}

func (c *ResetCmd) Run(ctx *Context) error {
	if !c.Yes && !ctx.Yes {
		ok, err := confirm("Wipe all gritday data?",
			fmt.Sprintf("Every preset, plan, summary, journal entry, goal, transaction and your XP in %s will be deleted.", ctx.Store.Describe()))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := ctx.save(func() error { return ctx.Store.Reset() }); err != nil {
		return err
	}
	fmt.Println("All data wiped. Starting fresh.")
	return nil
}
