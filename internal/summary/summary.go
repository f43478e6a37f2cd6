// Package summary derives the read-only per-day snapshot created when a
// plan is sealed.
package summary

import (
	"time"

	"github.com/gritday/gritday/internal/constants"
	"github.com/gritday/gritday/internal/models"
)

// Summarize aggregates a day plan into its sealed snapshot. Habit
// completion alone drives OperatorPct; the combined score lets tasks add
// credit up to constants.TaskScoreCap slots so a long task list cannot
// drown out habits. A day with no habits scores an operator percentage of
// zero: it cannot extend a perfect streak.
func Summarize(plan models.DayPlan, sealedAt time.Time) models.DaySummary {
	habitsDone, habitsTotal := plan.Counts(models.KindHabit)
	tasksDone, tasksTotal := plan.Counts(models.KindTask)

	operatorPct := 0
	if habitsTotal > 0 {
		operatorPct = habitsDone * 100 / habitsTotal
	}

	cappedDone := min(tasksDone, constants.TaskScoreCap)
	cappedTotal := min(tasksTotal, constants.TaskScoreCap)
	scorePct := 0
	if habitsTotal+cappedTotal > 0 {
		scorePct = (habitsDone + cappedDone) * 100 / (habitsTotal + cappedTotal)
	}

	return models.DaySummary{
		Date:        plan.Date,
		OperatorPct: operatorPct,
		ScorePct:    scorePct,
		IsSealed:    true,
		SealedAt:    sealedAt.UTC().Format(time.RFC3339),
		Status:      statusFor(scorePct),
	}
}

func statusFor(scorePct int) models.DayStatus {
	switch {
	case scorePct >= 90:
		return models.StatusExcellent
	case scorePct >= 70:
		return models.StatusGood
	case scorePct >= 40:
		return models.StatusFair
	default:
		return models.StatusPoor
	}
}
