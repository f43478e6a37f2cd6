package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gritday/gritday/internal/models"
	"github.com/gritday/gritday/internal/rank"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateDay:
		content = docStyle.Render(m.viewDay())
	case StateStats:
		content = docStyle.Render(m.viewStats())
	case StateConfirmSeal:
		content = m.viewConfirmSeal()
	}

	parts := []string{m.viewTabs(), content}
	if m.errMsg != "" {
		parts = append(parts, errStyle.Render("  "+m.errMsg))
	}
	parts = append(parts, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Day", "Stats"} {
		if m.state == SessionState(i) || (m.state == StateConfirmSeal && i == 0) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewDay() string {
	var b strings.Builder

	b.WriteString(m.date)
	if m.plan.IsSealed {
		b.WriteString("  " + sealedStyle.Render("SEALED"))
	}
	b.WriteString("\n\n")

	if len(m.plan.Items) == 0 {
		b.WriteString(mutedStyle.Render("Nothing planned. Press 'g' to sync the active preset."))
		return b.String()
	}

	lastKind := models.ItemKind("")
	for i, it := range m.plan.Items {
		if it.Kind != lastKind {
			if lastKind != "" {
				b.WriteString("\n")
			}
			label := "Habits"
			if it.Kind == models.KindTask {
				label = "Tasks"
			}
			done, total := m.plan.Counts(it.Kind)
			b.WriteString(mutedStyle.Render(fmt.Sprintf("%s %d/%d", label, done, total)))
			b.WriteString("\n")
			lastKind = it.Kind
		}

		cursor := "  "
		if i == m.cursor && m.state == StateDay {
			cursor = cursorStyle.Render("> ")
		}
		box := "[ ]"
		text := it.Text
		if it.Completed {
			box = doneStyle.Render("[x]")
			text = doneStyle.Render(text)
		}
		line := cursor + box + " " + text
		if it.Time != "" {
			line += mutedStyle.Render("  @" + it.Time)
		}
		if it.IsManual() {
			line += mutedStyle.Render("  ·manual")
		}
		b.WriteString(line + "\n")
	}

	if n := len(m.plan.Archived); n > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("\n%d archived item(s)", n)))
	}
	return b.String()
}

func (m Model) viewStats() string {
	var b strings.Builder

	r := rank.ComputeRankFromXP(m.prog.XP)
	b.WriteString(fmt.Sprintf("%s  %s\n", cursorStyle.Render(r.Name), mutedStyle.Render(fmt.Sprintf("%d XP", m.prog.XP))))
	if r.NextName != "" {
		b.WriteString(fmt.Sprintf("%d XP to %s (%d%%)\n", rank.XPToNext(m.prog.XP), r.NextName, r.ProgressPct))
	} else {
		b.WriteString("Top of the ladder.\n")
	}
	b.WriteString(fmt.Sprintf("\nStreak: %d day(s), best %d\n", m.prog.CurrentStreak, m.prog.BestStreak))

	if sum, err := m.store.GetSummary(m.date); err == nil && sum.IsSealed {
		b.WriteString(fmt.Sprintf("\n%s sealed: habits %d%%, score %d%% — %s\n",
			sum.Date, sum.OperatorPct, sum.ScorePct, sum.Status))
	}
	return b.String()
}

func (m Model) viewConfirmSeal() string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Seal %s? This is final.", m.date)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
