package cli

import (
	"fmt"
	"strings"

	"github.com/gritday/gritday/internal/rank"
)

type RankCmd struct{}

func (c *RankCmd) Run(ctx *Context) error {
	prog, err := ctx.Store.GetProgress()
	if err != nil {
		return err
	}
	r := rank.ComputeRankFromXP(prog.XP)

	fmt.Printf("%s  %s\n", headerStyle.Render(r.Name), mutedStyle.Render(fmt.Sprintf("%d XP", prog.XP)))
	if r.NextName == "" {
		fmt.Println("Top of the ladder.")
	} else {
		fmt.Printf("%s  %d XP to %s\n", progressBar(r.ProgressPct, 30), rank.XPToNext(prog.XP), r.NextName)
	}

	fmt.Printf("\nStreak: %d day(s), best %d\n", prog.CurrentStreak, prog.BestStreak)
	if prog.LastSealedDate != "" {
		fmt.Printf("Last sealed: %s\n", prog.LastSealedDate)
	}
	return nil
}

func progressBar(pct, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * width / 100
	return "[" + doneStyle.Render(strings.Repeat("█", filled)) + strings.Repeat("░", width-filled) + "]"
}
