// Package merge reconciles a preset template into a day plan. The engine is
// a pure transformation: it performs no I/O and never fails for well-formed
// inputs; persistence of the returned plan is the caller's responsibility.
package merge

import (
	"time"

	"github.com/google/uuid"

	"github.com/gritday/gritday/internal/models"
	"github.com/gritday/gritday/internal/utils"
)

// Options controls how much day-specific state survives a merge.
type Options struct {
	// KeepCompletion preserves each matched item's completed flag instead of
	// resetting it to false.
	KeepCompletion bool
	// KeepManual carries manually added items over to the output. When false
	// they are dropped outright, not archived; callers must confirm with the
	// user before invoking a destructive merge.
	KeepManual bool
}

// Engine applies presets to day plans. NewID and Now are injectable for
// deterministic tests.
type Engine struct {
	NewID func() string
	Now   func() time.Time
}

func New() *Engine {
	return &Engine{
		NewID: uuid.NewString,
		Now:   time.Now,
	}
}

// textKey is the fallback index key for items whose preset linkage was lost:
// normalized text combined with kind.
type textKey struct {
	kind models.ItemKind
	text string
}

// Apply merges the preset's current habits and tasks into the plan and
// returns a new plan value. The input plan is not mutated; every produced
// item is a fresh copy.
//
// Matching is two-tier: identity on PresetItemID first, then normalized
// text plus kind for items whose linkage was lost (legacy data, or a preset
// deleted and recreated under new ids). Identity always wins over text so a
// rename cannot bind to a different, coincidentally same-named item. Plan
// items not claimed by any preset item are moved to the archive. Duplicate
// normalized text within one preset kind resolves first-match-wins in
// preset order: a consumed plan item leaves both indexes.
func (e *Engine) Apply(preset models.Preset, plan models.DayPlan, opts Options) models.DayPlan {
	byItemID := make(map[string]models.DayPlanItem)
	byText := make(map[textKey]models.DayPlanItem)
	for _, it := range plan.Items {
		if it.Source != models.SourcePreset {
			continue
		}
		if it.PresetItemID != "" {
			byItemID[it.PresetItemID] = it
		}
		key := textKey{kind: it.Kind, text: utils.NormalizeText(it.Text)}
		if _, taken := byText[key]; !taken {
			byText[key] = it
		}
	}

	consumed := make(map[string]bool)
	now := e.Now().UTC().Format(time.RFC3339)

	merged := make([]models.DayPlanItem, 0, len(preset.Habits)+len(preset.Tasks))
	merged = append(merged, e.applyKind(preset, preset.Habits, models.KindHabit, byItemID, byText, consumed, opts, now)...)
	merged = append(merged, e.applyKind(preset, preset.Tasks, models.KindTask, byItemID, byText, consumed, opts, now)...)

	archived := append([]models.DayPlanItem(nil), plan.Archived...)
	for _, it := range plan.Items {
		if it.Source == models.SourcePreset && !consumed[it.ID] {
			archived = append(archived, it)
		}
	}

	if opts.KeepManual {
		for _, it := range plan.Items {
			if it.Source == models.SourceManual {
				merged = append(merged, it)
			}
		}
	}

	out := plan
	out.ActivePresetID = preset.ID
	out.PresetUpdatedAt = preset.UpdatedAt
	out.Items = merged
	out.Archived = archived
	return out
}

func (e *Engine) applyKind(
	preset models.Preset,
	items []models.PresetItem,
	kind models.ItemKind,
	byItemID map[string]models.DayPlanItem,
	byText map[textKey]models.DayPlanItem,
	consumed map[string]bool,
	opts Options,
	now string,
) []models.DayPlanItem {
	out := make([]models.DayPlanItem, 0, len(items))
	for _, pi := range items {
		existing, ok := byItemID[pi.ID]
		if !ok {
			existing, ok = byText[textKey{kind: kind, text: utils.NormalizeText(pi.Text)}]
		}
		if !ok {
			out = append(out, models.DayPlanItem{
				ID:           e.NewID(),
				Kind:         kind,
				Text:         pi.Text,
				Time:         pi.Time,
				Source:       models.SourcePreset,
				PresetID:     preset.ID,
				PresetItemID: pi.ID,
				CreatedAt:    now,
			})
			continue
		}

		item := existing
		item.PresetID = preset.ID
		item.PresetItemID = pi.ID
		if !opts.KeepCompletion {
			item.Completed = false
		}
		if !item.UserEdited {
			item.Text = pi.Text
			if kind == models.KindTask {
				item.Time = pi.Time
			}
		}
		out = append(out, item)

		consumed[existing.ID] = true
		if existing.PresetItemID != "" {
			delete(byItemID, existing.PresetItemID)
		}
		tk := textKey{kind: existing.Kind, text: utils.NormalizeText(existing.Text)}
		if cur, found := byText[tk]; found && cur.ID == existing.ID {
			delete(byText, tk)
		}
	}
	return out
}
