package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gritday/gritday/internal/models"
	"github.com/gritday/gritday/internal/utils"
)

// parseCents turns a dollar amount like "12.50" or "-3" into cents.
func parseCents(s string) (int64, error) {
	f, err := strconv.ParseFloat(strings.TrimPrefix(s, "$"), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return int64(math.Round(f * 100)), nil
}

type EarnAddCmd struct {
	Amount string `arg:"" help:"Dollar amount, negative for spending (e.g. 12.50 or -3)."`
	Label  string `arg:"" help:"What the money was for."`
	Date   string `help:"Date (YYYY-MM-DD), defaults to today." default:"today"`
}

func (c *EarnAddCmd) Run(ctx *Context) error {
	cents, err := parseCents(c.Amount)
	if err != nil {
		return err
	}
	date, err := resolveDate(c.Date)
	if err != nil {
		return err
	}

	txn := models.Transaction{
		ID:        utils.NewID(),
		Date:      date,
		Label:     c.Label,
		Cents:     cents,
		CreatedAt: utils.Now(),
	}
	if err := ctx.save(func() error { return ctx.Store.SaveTransaction(txn) }); err != nil {
		return err
	}
	fmt.Printf("Recorded %s for %q\n", moneyString(cents), c.Label)
	return nil
}

type EarnListCmd struct {
	Limit int `default:"20" help:"How many recent transactions to show."`
}

func (c *EarnListCmd) Run(ctx *Context) error {
	txns, err := ctx.Store.GetTransactions()
	if err != nil {
		return err
	}

	var balance int64
	for _, t := range txns {
		balance += t.Cents
	}

	fmt.Printf("Balance: %s\n\n", headerStyle.Render(moneyString(balance)))
	if len(txns) == 0 {
		fmt.Println("No transactions yet.")
		return nil
	}

	// Transactions come back oldest first; show the most recent ones.
	start := 0
	if c.Limit > 0 && len(txns) > c.Limit {
		start = len(txns) - c.Limit
	}
	for _, t := range txns[start:] {
		amount := moneyString(t.Cents)
		if t.Cents < 0 {
			amount = dangerStyle.Render(amount)
		}
		fmt.Printf("%s  %10s  %s  %s\n", t.Date, amount, t.Label, mutedStyle.Render(t.ID))
	}
	return nil
}

type EarnDeleteCmd struct {
	ID string `arg:"" help:"Transaction id (from 'earn list')."`
}

func (c *EarnDeleteCmd) Run(ctx *Context) error {
	if err := ctx.save(func() error { return ctx.Store.DeleteTransaction(c.ID) }); err != nil {
		return err
	}
	fmt.Println("Deleted transaction")
	return nil
}
