// Package planner orchestrates the merge engine, summary derivation, and
// progress updates against the storage port. The merge and updater
// functions stay pure; all persistence happens here.
package planner

import (
	"errors"
	"fmt"
	"time"

	"github.com/gritday/gritday/internal/logger"
	"github.com/gritday/gritday/internal/merge"
	"github.com/gritday/gritday/internal/models"
	"github.com/gritday/gritday/internal/progress"
	"github.com/gritday/gritday/internal/storage"
	"github.com/gritday/gritday/internal/summary"
	"github.com/gritday/gritday/internal/utils"
)

var (
	// ErrSealed is returned when an operation targets an already sealed day.
	ErrSealed = errors.New("day is sealed")
	// ErrNoActivePreset is returned when a sync is requested but no preset
	// is active.
	ErrNoActivePreset = errors.New("no active preset, run 'gritday preset use' first")
)

type Planner struct {
	Store  storage.Provider
	Engine *merge.Engine
}

func New(store storage.Provider) *Planner {
	return &Planner{
		Store:  store,
		Engine: merge.New(),
	}
}

// EnsurePlan returns the plan for the given date, seeding a fresh day from
// the active preset the first time the date is touched. Days that already
// have content, or users with no active preset, get the stored plan as-is.
func (p *Planner) EnsurePlan(date string) (models.DayPlan, error) {
	plan, err := p.Store.GetPlan(date)
	if err != nil {
		return models.DayPlan{}, err
	}
	if len(plan.Items) > 0 || plan.ActivePresetID != "" || plan.IsSealed {
		return plan, nil
	}

	prog, err := p.Store.GetProgress()
	if err != nil {
		return models.DayPlan{}, err
	}
	if prog.ActivePresetID == "" {
		return plan, nil
	}

	preset, err := p.Store.GetPreset(prog.ActivePresetID)
	if errors.Is(err, storage.ErrNotFound) {
		logger.Warn("Active preset no longer exists", "preset_id", prog.ActivePresetID)
		return plan, nil
	}
	if err != nil {
		return models.DayPlan{}, err
	}

	plan = p.Engine.Apply(preset, plan, merge.Options{KeepCompletion: true, KeepManual: true})
	if err := p.Store.SavePlan(plan); err != nil {
		return models.DayPlan{}, err
	}
	logger.Info("Seeded day plan from preset", "date", date, "preset", preset.Name)
	return plan, nil
}

// Sync merges the active preset into the date's plan with the given
// options and persists the result. Sealed days are immutable.
func (p *Planner) Sync(date string, opts merge.Options) (models.DayPlan, error) {
	plan, err := p.Store.GetPlan(date)
	if err != nil {
		return models.DayPlan{}, err
	}
	if plan.IsSealed {
		return models.DayPlan{}, fmt.Errorf("%w: %s", ErrSealed, date)
	}

	prog, err := p.Store.GetProgress()
	if err != nil {
		return models.DayPlan{}, err
	}
	if prog.ActivePresetID == "" {
		return models.DayPlan{}, ErrNoActivePreset
	}
	preset, err := p.Store.GetPreset(prog.ActivePresetID)
	if errors.Is(err, storage.ErrNotFound) {
		return models.DayPlan{}, ErrNoActivePreset
	}
	if err != nil {
		return models.DayPlan{}, err
	}

	plan = p.Engine.Apply(preset, plan, opts)
	if err := p.Store.SavePlan(plan); err != nil {
		return models.DayPlan{}, err
	}
	return plan, nil
}

// Seal derives the day's summary, marks the plan sealed, and folds the
// result into user progress. Sealing an already sealed day is rejected;
// the summary written at first seal is never mutated afterward.
func (p *Planner) Seal(date string, now time.Time) (models.DaySummary, models.UserProgress, error) {
	plan, err := p.Store.GetPlan(date)
	if err != nil {
		return models.DaySummary{}, models.UserProgress{}, err
	}
	if plan.IsSealed {
		return models.DaySummary{}, models.UserProgress{}, fmt.Errorf("%w: %s", ErrSealed, date)
	}

	sum := summary.Summarize(plan, now)

	prevStreak := 0
	if prev, err := utils.PrevDay(date); err == nil {
		prevStreak = progress.Streak(p.Store, prev)
	}

	plan.IsSealed = true
	if err := p.Store.SavePlan(plan); err != nil {
		return models.DaySummary{}, models.UserProgress{}, err
	}
	if err := p.Store.SaveSummary(sum); err != nil {
		return models.DaySummary{}, models.UserProgress{}, err
	}

	prog, err := p.Store.UpdateProgress(func(cur models.UserProgress) models.UserProgress {
		return progress.ApplySeal(cur, sum, prevStreak, now)
	})
	if err != nil {
		return models.DaySummary{}, models.UserProgress{}, err
	}

	logger.Info("Sealed day", "date", date, "operator_pct", sum.OperatorPct, "score_pct", sum.ScorePct)
	return sum, prog, nil
}
