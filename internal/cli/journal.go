package cli

import (
	"fmt"
	"strings"

	"github.com/gritday/gritday/internal/models"
	"github.com/gritday/gritday/internal/utils"
)

type JournalAddCmd struct {
	Body []string `arg:"" help:"Entry text."`
	Date string   `help:"Date (YYYY-MM-DD), defaults to today." default:"today"`
}

func (c *JournalAddCmd) Run(ctx *Context) error {
	date, err := resolveDate(c.Date)
	if err != nil {
		return err
	}

	entry := models.JournalEntry{
		ID:        utils.NewID(),
		Date:      date,
		Body:      strings.Join(c.Body, " "),
		CreatedAt: utils.Now(),
	}
	if err := ctx.save(func() error { return ctx.Store.SaveJournalEntry(entry) }); err != nil {
		return err
	}
	fmt.Printf("Journaled for %s\n", date)
	return nil
}

type JournalListCmd struct {
	Date string `help:"Only show entries for this date (YYYY-MM-DD or 'today')."`
}

func (c *JournalListCmd) Run(ctx *Context) error {
	entries, err := ctx.Store.GetJournal()
	if err != nil {
		return err
	}

	filter := ""
	if c.Date != "" {
		filter, err = resolveDate(c.Date)
		if err != nil {
			return err
		}
	}

	shown := 0
	lastDate := ""
	for _, e := range entries {
		if filter != "" && e.Date != filter {
			continue
		}
		if e.Date != lastDate {
			fmt.Println(headerStyle.Render(e.Date))
			lastDate = e.Date
		}
		fmt.Printf("  %s  %s\n", e.Body, mutedStyle.Render(e.ID))
		shown++
	}
	if shown == 0 {
		fmt.Println("No journal entries.")
	}
	return nil
}

type JournalDeleteCmd struct {
	ID string `arg:"" help:"Entry id (from 'journal list')."`
}

func (c *JournalDeleteCmd) Run(ctx *Context) error {
	if err := ctx.save(func() error { return ctx.Store.DeleteJournalEntry(c.ID) }); err != nil {
		return err
	}
	fmt.Println("Deleted journal entry")
	return nil
}
