package cli

import (
	"fmt"

	"github.com/gritday/gritday/internal/models"
	"github.com/gritday/gritday/internal/utils"
)

type GoalAddCmd struct {
	Title string `arg:"" help:"Goal title."`
	Note  string `help:"Optional note."`
}

func (c *GoalAddCmd) Run(ctx *Context) error {
	goal := models.Goal{
		ID:        utils.NewID(),
		Title:     c.Title,
		Note:      c.Note,
		CreatedAt: utils.Now(),
	}
	if err := ctx.save(func() error { return ctx.Store.SaveGoal(goal) }); err != nil {
		return err
	}
	fmt.Printf("Added goal %q\n", goal.Title)
	return nil
}

type GoalListCmd struct {
	All bool `help:"Include completed goals."`
}

func (c *GoalListCmd) Run(ctx *Context) error {
	goals, err := ctx.Store.GetGoals()
	if err != nil {
		return err
	}

	shown := 0
	for _, g := range goals {
		if g.Done && !c.All {
			continue
		}
		line := fmt.Sprintf("%s %s", checkbox(g.Done), g.Title)
		if g.Note != "" {
			line += mutedStyle.Render("  — " + g.Note)
		}
		fmt.Printf("%s  %s\n", line, mutedStyle.Render(g.ID))
		shown++
	}
	if shown == 0 {
		fmt.Println("No goals. Add one with 'gritday goal add'.")
	}
	return nil
}

// findGoal resolves a goal reference, trying id first and then an exact
// title match.
func findGoal(ctx *Context, ref string) (models.Goal, error) {
	goals, err := ctx.Store.GetGoals()
	if err != nil {
		return models.Goal{}, err
	}
	for _, g := range goals {
		if g.ID == ref {
			return g, nil
		}
	}
	for _, g := range goals {
		if g.Title == ref {
			return g, nil
		}
	}
	return models.Goal{}, fmt.Errorf("no goal %q", ref)
}

type GoalDoneCmd struct {
	Goal string `arg:"" help:"Goal id or exact title."`
}

func (c *GoalDoneCmd) Run(ctx *Context) error {
	g, err := findGoal(ctx, c.Goal)
	if err != nil {
		return err
	}
	if g.Done {
		fmt.Printf("Goal %q is already done\n", g.Title)
		return nil
	}
	g.Done = true
	g.CompletedAt = utils.Now()
	if err := ctx.save(func() error { return ctx.Store.SaveGoal(g) }); err != nil {
		return err
	}
	fmt.Printf("Completed goal %q\n", g.Title)
	return nil
}

type GoalDeleteCmd struct {
	Goal string `arg:"" help:"Goal id or exact title."`
}

func (c *GoalDeleteCmd) Run(ctx *Context) error {
	g, err := findGoal(ctx, c.Goal)
	if err != nil {
		return err
	}
	if err := ctx.save(func() error { return ctx.Store.DeleteGoal(g.ID) }); err != nil {
		return err
	}
	fmt.Printf("Deleted goal %q\n", g.Title)
	return nil
}
