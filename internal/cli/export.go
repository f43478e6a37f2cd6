package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gritday/gritday/internal/constants"
	"github.com/gritday/gritday/internal/models"
	"github.com/gritday/gritday/internal/utils"
)

// exportDoc is the stable JSON shape written by 'gritday export'.
type exportDoc struct {
	App          string               `json:"app"`
	Version      string               `json:"version"`
	ExportedAt   string               `json:"exported_at"`
	Presets      []models.Preset      `json:"presets"`
	Plans        []models.DayPlan     `json:"plans"`
	Summaries    []models.DaySummary  `json:"summaries"`
	Progress     models.UserProgress  `json:"progress"`
	Journal      []models.JournalEntry `json:"journal"`
	Goals        []models.Goal        `json:"goals"`
	Transactions []models.Transaction `json:"transactions"`
}

type ExportCmd struct {
	Out  string `help:"Write to this file instead of stdout." type:"path"`
	From string `help:"First date of the plan range (YYYY-MM-DD)."`
	To   string `help:"Last date of the plan range (YYYY-MM-DD or 'today')." default:"today"`
	Days int    `default:"30" help:"Range length when --from is not given."`
}

func (c *ExportCmd) Run(ctx *Context) error {
	to, err := resolveDate(c.To)
	if err != nil {
		return err
	}
	from := c.From
	if from == "" {
		from = utils.AddDays(to, -(c.Days - 1))
	} else if _, err := utils.ParseDate(from); err != nil {
		return err
	}

	doc := exportDoc{
		App:        constants.AppName,
		Version:    constants.Version,
		ExportedAt: utils.Now(),
	}

	if doc.Presets, err = ctx.Store.GetPresets(); err != nil {
		return err
	}
	if doc.Progress, err = ctx.Store.GetProgress(); err != nil {
		return err
	}
	if doc.Journal, err = ctx.Store.GetJournal(); err != nil {
		return err
	}
	if doc.Goals, err = ctx.Store.GetGoals(); err != nil {
		return err
	}
	if doc.Transactions, err = ctx.Store.GetTransactions(); err != nil {
		return err
	}

	for d := from; d <= to; d = utils.AddDays(d, 1) {
		plan, err := ctx.Store.GetPlan(d)
		if err != nil {
			return err
		}
		if len(plan.Items) > 0 || len(plan.Archived) > 0 || plan.IsSealed {
			doc.Plans = append(doc.Plans, plan)
		}
		sum, err := ctx.Store.GetSummary(d)
		if err != nil {
			return err
		}
		if sum.IsSealed {
			doc.Summaries = append(doc.Summaries, sum)
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if c.Out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(c.Out, data, 0o600); err != nil {
		return err
	}
	fmt.Printf("Exported to %s (%d plans, %d summaries)\n", c.Out, len(doc.Plans), len(doc.Summaries))
	return nil
}
