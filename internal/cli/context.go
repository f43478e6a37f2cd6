package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gritday/gritday/internal/identity"
	"github.com/gritday/gritday/internal/models"
	"github.com/gritday/gritday/internal/planner"
	"github.com/gritday/gritday/internal/storage"
	"github.com/gritday/gritday/internal/utils"
)

type Context struct {
	Store   storage.Provider
	Planner *planner.Planner
	Queue   *storage.SaveQueue
	Ident   *identity.Cache

	// Yes skips interactive confirmations, for scripted use.
	Yes bool
}

// save routes a write through the session save queue so rapid commands
// cannot persist out of order.
func (ctx *Context) save(fn func() error) error {
	if ctx.Queue == nil {
		return fn()
	}
	return ctx.Queue.Do(fn)
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	dangerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// resolveDate turns "today" or a YYYY-MM-DD string into a validated date
// string.
func resolveDate(s string) (string, error) {
	if s == "" || s == "today" {
		return utils.Today(), nil
	}
	if _, err := utils.ParseDate(s); err != nil {
		return "", err
	}
	return s, nil
}

func checkbox(done bool) string {
	if done {
		return doneStyle.Render("[x]")
	}
	return "[ ]"
}

// renderPlan prints a numbered day plan, habits first. Numbers are what
// the check/uncheck/edit commands address.
func renderPlan(plan models.DayPlan) string {
	var b strings.Builder

	title := fmt.Sprintf("Plan for %s", plan.Date)
	if plan.IsSealed {
		title += " (sealed)"
	}
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n\n")

	if len(plan.Items) == 0 {
		b.WriteString(mutedStyle.Render("  Nothing planned. Run 'gritday sync' or 'gritday day add'.\n"))
		return b.String()
	}

	writeKind := func(kind models.ItemKind, label string) {
		done, total := plan.Counts(kind)
		wrote := false
		for i, it := range plan.Items {
			if it.Kind != kind {
				continue
			}
			if !wrote {
				b.WriteString(fmt.Sprintf("%s (%d/%d)\n", label, done, total))
				wrote = true
			}
			line := fmt.Sprintf("  %2d. %s %s", i+1, checkbox(it.Completed), it.Text)
			if it.Time != "" {
				line += mutedStyle.Render("  @" + it.Time)
			}
			if it.IsManual() {
				line += mutedStyle.Render("  (manual)")
			}
			b.WriteString(line + "\n")
		}
		if wrote {
			b.WriteString("\n")
		}
	}

	writeKind(models.KindHabit, "Habits")
	writeKind(models.KindTask, "Tasks")

	if len(plan.Archived) > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d archived item(s), removed from the preset\n", len(plan.Archived))))
	}
	return b.String()
}

// itemByRef resolves a 1-based display number or an item id to an index in
// plan.Items.
func itemByRef(plan *models.DayPlan, ref string) (int, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(plan.Items) {
			return -1, fmt.Errorf("no item numbered %d (plan has %d items)", n, len(plan.Items))
		}
		return n - 1, nil
	}
	if idx := plan.FindItem(ref); idx >= 0 {
		return idx, nil
	}
	return -1, fmt.Errorf("no item %q in plan for %s", ref, plan.Date)
}

// moneyString formats a cents amount as a signed dollar string.
func moneyString(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
