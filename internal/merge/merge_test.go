package merge

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/gritday/gritday/internal/models"
)

// newTestEngine returns an engine with deterministic ids and a fixed clock.
func newTestEngine() *Engine {
	n := 0
	return &Engine{
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
		Now: func() time.Time {
			return time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
		},
	}
}

func presetWith(habits, tasks []models.PresetItem) models.Preset {
	return models.Preset{
		ID:        "preset-1",
		Name:      "Morning",
		Habits:    habits,
		Tasks:     tasks,
		UpdatedAt: "2025-06-01T07:00:00Z",
	}
}

func TestApplySeedsEmptyPlan(t *testing.T) {
	e := newTestEngine()
	preset := presetWith([]models.PresetItem{{ID: "a", Text: "Hydrate"}}, nil)
	plan := models.DayPlan{Date: "2025-06-01"}

	got := e.Apply(preset, plan, Options{KeepCompletion: true, KeepManual: true})

	if len(got.Items) != 1 {
		t.Fatalf("Apply() produced %d items, want 1", len(got.Items))
	}
	item := got.Items[0]
	if item.Kind != models.KindHabit {
		t.Errorf("item.Kind = %q, want %q", item.Kind, models.KindHabit)
	}
	if item.Text != "Hydrate" {
		t.Errorf("item.Text = %q, want %q", item.Text, "Hydrate")
	}
	if item.PresetItemID != "a" {
		t.Errorf("item.PresetItemID = %q, want %q", item.PresetItemID, "a")
	}
	if item.Completed {
		t.Error("item.Completed = true, want false for a fresh item")
	}
	if item.Source != models.SourcePreset {
		t.Errorf("item.Source = %q, want %q", item.Source, models.SourcePreset)
	}
	if item.UserEdited {
		t.Error("item.UserEdited = true, want false for a fresh item")
	}
	if len(got.Archived) != 0 {
		t.Errorf("Apply() archived %d items, want 0", len(got.Archived))
	}
	if got.ActivePresetID != preset.ID {
		t.Errorf("got.ActivePresetID = %q, want %q", got.ActivePresetID, preset.ID)
	}
	if got.PresetUpdatedAt != preset.UpdatedAt {
		t.Errorf("got.PresetUpdatedAt = %q, want %q", got.PresetUpdatedAt, preset.UpdatedAt)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	e := newTestEngine()
	preset := presetWith(
		[]models.PresetItem{{ID: "h1", Text: "Meditate"}, {ID: "h2", Text: "Read"}},
		[]models.PresetItem{{ID: "t1", Text: "Inbox zero", Time: "09:00"}},
	)
	plan := models.DayPlan{
		Date: "2025-06-01",
		Items: []models.DayPlanItem{
			{ID: "p1", Kind: models.KindHabit, Text: "Meditate", Completed: true, Source: models.SourcePreset, PresetID: "preset-1", PresetItemID: "h1", CreatedAt: "2025-05-31T08:00:00Z"},
			{ID: "m1", Kind: models.KindTask, Text: "Call plumber", Source: models.SourceManual, CreatedAt: "2025-06-01T07:30:00Z"},
		},
	}
	opts := Options{KeepCompletion: true, KeepManual: true}

	once := e.Apply(preset, plan, opts)
	twice := e.Apply(preset, once, opts)

	// Fresh ids differ between runs, so compare with ids and timestamps of
	// the first run's new items carried into the second.
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Apply() is not idempotent:\nfirst:  %+v\nsecond: %+v", once, twice)
	}
}

func TestApplyIdentityMatchBeatsTextMatch(t *testing.T) {
	e := newTestEngine()
	preset := presetWith([]models.PresetItem{
		{ID: "h1", Text: "Meditate"},
		{ID: "h2", Text: "read"},
	}, nil)
	plan := models.DayPlan{
		Date: "2025-06-01",
		Items: []models.DayPlanItem{
			{ID: "p1", Kind: models.KindHabit, Text: "Read", Source: models.SourcePreset, PresetID: "preset-1", PresetItemID: "h1"},
		},
	}

	got := e.Apply(preset, plan, Options{KeepCompletion: true, KeepManual: true})

	if len(got.Items) != 2 {
		t.Fatalf("Apply() produced %d items, want 2", len(got.Items))
	}
	// The existing item must bind to h1 by identity and take its new text,
	// not bind to h2 by its old text.
	if got.Items[0].ID != "p1" {
		t.Fatalf("first item id = %q, want existing item %q", got.Items[0].ID, "p1")
	}
	if got.Items[0].PresetItemID != "h1" {
		t.Errorf("first item PresetItemID = %q, want %q", got.Items[0].PresetItemID, "h1")
	}
	if got.Items[0].Text != "Meditate" {
		t.Errorf("first item text = %q, want %q", got.Items[0].Text, "Meditate")
	}
	if got.Items[1].PresetItemID != "h2" {
		t.Errorf("second item PresetItemID = %q, want fresh item bound to %q", got.Items[1].PresetItemID, "h2")
	}
	if got.Items[1].ID == "p1" {
		t.Error("second item reused the existing plan item, want a fresh item")
	}
}

func TestApplyTextFallbackRepairsLostLink(t *testing.T) {
	e := newTestEngine()
	preset := presetWith([]models.PresetItem{{ID: "new-id", Text: "Morning  Run"}}, nil)
	plan := models.DayPlan{
		Date: "2025-06-01",
		Items: []models.DayPlanItem{
			// Linkage lost: no PresetItemID, but text matches after
			// normalization.
			{ID: "p1", Kind: models.KindHabit, Text: "  morning run ", Completed: true, Source: models.SourcePreset},
		},
	}

	got := e.Apply(preset, plan, Options{KeepCompletion: true, KeepManual: true})

	if len(got.Items) != 1 {
		t.Fatalf("Apply() produced %d items, want 1", len(got.Items))
	}
	item := got.Items[0]
	if item.ID != "p1" {
		t.Errorf("item.ID = %q, want existing item %q", item.ID, "p1")
	}
	if item.PresetItemID != "new-id" {
		t.Errorf("item.PresetItemID = %q, want repaired link %q", item.PresetItemID, "new-id")
	}
	if !item.Completed {
		t.Error("item.Completed = false, want true with KeepCompletion")
	}
	if len(got.Archived) != 0 {
		t.Errorf("Apply() archived %d items, want 0", len(got.Archived))
	}
}

func TestApplyUserEditedTextIsSticky(t *testing.T) {
	e := newTestEngine()
	preset := presetWith(nil, []models.PresetItem{{ID: "t1", Text: "Original", Time: "10:00"}})
	plan := models.DayPlan{
		Date: "2025-06-01",
		Items: []models.DayPlanItem{
			{ID: "p1", Kind: models.KindTask, Text: "Custom text", Time: "14:30", Source: models.SourcePreset, PresetID: "preset-1", PresetItemID: "t1", UserEdited: true},
		},
	}

	got := e.Apply(preset, plan, Options{KeepCompletion: true, KeepManual: true})

	item := got.Items[0]
	if item.Text != "Custom text" {
		t.Errorf("item.Text = %q, want user-edited %q preserved", item.Text, "Custom text")
	}
	if item.Time != "14:30" {
		t.Errorf("item.Time = %q, want user-edited %q preserved", item.Time, "14:30")
	}
	if !item.UserEdited {
		t.Error("item.UserEdited = false, want sticky true")
	}
	// Bookkeeping fields are still updated.
	if item.PresetID != "preset-1" || item.PresetItemID != "t1" {
		t.Errorf("bookkeeping = (%q, %q), want (%q, %q)", item.PresetID, item.PresetItemID, "preset-1", "t1")
	}
}

func TestApplyArchivesRemovedPresetItems(t *testing.T) {
	e := newTestEngine()
	full := presetWith([]models.PresetItem{
		{ID: "h1", Text: "Hydrate"},
		{ID: "h2", Text: "Stretch"},
	}, nil)
	plan := e.Apply(full, models.DayPlan{Date: "2025-06-01"}, Options{KeepCompletion: true, KeepManual: true})
	plan.Items[1].Completed = true
	stretchID := plan.Items[1].ID

	trimmed := full
	trimmed.Habits = full.Habits[:1]
	trimmed.UpdatedAt = "2025-06-01T09:00:00Z"

	got := e.Apply(trimmed, plan, Options{KeepCompletion: true, KeepManual: true})

	if len(got.Items) != 1 {
		t.Fatalf("Apply() kept %d items, want 1", len(got.Items))
	}
	if got.Items[0].PresetItemID != "h1" {
		t.Errorf("kept item PresetItemID = %q, want %q", got.Items[0].PresetItemID, "h1")
	}
	if len(got.Archived) != 1 {
		t.Fatalf("Apply() archived %d items, want 1", len(got.Archived))
	}
	arch := got.Archived[0]
	if arch.ID != stretchID {
		t.Errorf("archived item id = %q, want %q", arch.ID, stretchID)
	}
	if arch.Text != "Stretch" || !arch.Completed {
		t.Errorf("archived item fields changed: %+v", arch)
	}

	// The archived item must not resurface on a further merge.
	again := e.Apply(trimmed, got, Options{KeepCompletion: true, KeepManual: true})
	if len(again.Items) != 1 {
		t.Errorf("repeat Apply() produced %d items, want 1", len(again.Items))
	}
	if len(again.Archived) != 1 {
		t.Errorf("repeat Apply() archived %d items, want 1", len(again.Archived))
	}
}

func TestApplyArchiveAppendsAfterExisting(t *testing.T) {
	e := newTestEngine()
	preset := presetWith(nil, nil)
	plan := models.DayPlan{
		Date: "2025-06-01",
		Items: []models.DayPlanItem{
			{ID: "p1", Kind: models.KindHabit, Text: "Hydrate", Source: models.SourcePreset, PresetItemID: "h1"},
		},
		Archived: []models.DayPlanItem{
			{ID: "old", Kind: models.KindHabit, Text: "Journal", Source: models.SourcePreset, PresetItemID: "h0"},
		},
	}

	got := e.Apply(preset, plan, Options{KeepCompletion: true, KeepManual: true})

	if len(got.Archived) != 2 {
		t.Fatalf("Apply() archived %d items, want 2", len(got.Archived))
	}
	if got.Archived[0].ID != "old" || got.Archived[1].ID != "p1" {
		t.Errorf("archive order = [%q, %q], want [%q, %q]", got.Archived[0].ID, got.Archived[1].ID, "old", "p1")
	}
}

func TestApplyCompletionReset(t *testing.T) {
	tests := []struct {
		name           string
		keepCompletion bool
		wantCompleted  bool
	}{
		{name: "keep completion", keepCompletion: true, wantCompleted: true},
		{name: "reset completion", keepCompletion: false, wantCompleted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine()
			preset := presetWith([]models.PresetItem{{ID: "h1", Text: "Hydrate"}}, nil)
			plan := models.DayPlan{
				Date: "2025-06-01",
				Items: []models.DayPlanItem{
					{ID: "p1", Kind: models.KindHabit, Text: "Hydrate", Completed: true, Source: models.SourcePreset, PresetItemID: "h1"},
				},
			}

			got := e.Apply(preset, plan, Options{KeepCompletion: tt.keepCompletion, KeepManual: true})
			if got.Items[0].Completed != tt.wantCompleted {
				t.Errorf("item.Completed = %v, want %v", got.Items[0].Completed, tt.wantCompleted)
			}
		})
	}
}

func TestApplyManualItems(t *testing.T) {
	e := newTestEngine()
	preset := presetWith([]models.PresetItem{{ID: "h1", Text: "Hydrate"}}, nil)
	plan := models.DayPlan{
		Date: "2025-06-01",
		Items: []models.DayPlanItem{
			{ID: "p1", Kind: models.KindHabit, Text: "Hydrate", Source: models.SourcePreset, PresetItemID: "h1"},
			{ID: "m1", Kind: models.KindTask, Text: "Call plumber", Source: models.SourceManual},
		},
	}

	t.Run("keep manual carries items after preset items", func(t *testing.T) {
		got := e.Apply(preset, plan, Options{KeepCompletion: true, KeepManual: true})
		if len(got.Items) != 2 {
			t.Fatalf("Apply() produced %d items, want 2", len(got.Items))
		}
		if got.Items[1].ID != "m1" {
			t.Errorf("last item id = %q, want manual item %q", got.Items[1].ID, "m1")
		}
		if got.Items[1].Source != models.SourceManual {
			t.Errorf("last item source = %q, want %q", got.Items[1].Source, models.SourceManual)
		}
	})

	t.Run("drop manual excludes items without archiving", func(t *testing.T) {
		got := e.Apply(preset, plan, Options{KeepCompletion: true, KeepManual: false})
		if len(got.Items) != 1 {
			t.Fatalf("Apply() produced %d items, want 1", len(got.Items))
		}
		if got.Items[0].Source != models.SourcePreset {
			t.Errorf("remaining item source = %q, want %q", got.Items[0].Source, models.SourcePreset)
		}
		if len(got.Archived) != 0 {
			t.Errorf("Apply() archived %d items, want 0 (manual items are dropped, not archived)", len(got.Archived))
		}
	})
}

func TestApplyOrdersHabitsBeforeTasks(t *testing.T) {
	e := newTestEngine()
	preset := presetWith(
		[]models.PresetItem{{ID: "h1", Text: "Hydrate"}, {ID: "h2", Text: "Stretch"}},
		[]models.PresetItem{{ID: "t1", Text: "Ship report", Time: "11:00"}},
	)
	plan := models.DayPlan{
		Date: "2025-06-01",
		Items: []models.DayPlanItem{
			{ID: "m1", Kind: models.KindTask, Text: "Manual", Source: models.SourceManual},
		},
	}

	got := e.Apply(preset, plan, Options{KeepCompletion: true, KeepManual: true})

	want := []string{"h1", "h2", "t1", ""}
	if len(got.Items) != len(want) {
		t.Fatalf("Apply() produced %d items, want %d", len(got.Items), len(want))
	}
	for i, w := range want {
		if got.Items[i].PresetItemID != w {
			t.Errorf("items[%d].PresetItemID = %q, want %q", i, got.Items[i].PresetItemID, w)
		}
	}
}

func TestApplyDuplicateNormalizedTextFirstMatchWins(t *testing.T) {
	e := newTestEngine()
	preset := presetWith([]models.PresetItem{
		{ID: "h1", Text: "Read"},
		{ID: "h2", Text: "read"},
	}, nil)
	plan := models.DayPlan{
		Date: "2025-06-01",
		Items: []models.DayPlanItem{
			// One lingering id-less item; two preset items normalize to the
			// same text. The first preset item in order claims it.
			{ID: "p1", Kind: models.KindHabit, Text: "READ", Completed: true, Source: models.SourcePreset},
		},
	}

	got := e.Apply(preset, plan, Options{KeepCompletion: true, KeepManual: true})

	if len(got.Items) != 2 {
		t.Fatalf("Apply() produced %d items, want 2", len(got.Items))
	}
	if got.Items[0].ID != "p1" || got.Items[0].PresetItemID != "h1" {
		t.Errorf("first preset item did not claim the lingering item: %+v", got.Items[0])
	}
	if got.Items[1].ID == "p1" {
		t.Error("second preset item rebound the already-consumed item, want a fresh item")
	}
	if len(got.Archived) != 0 {
		t.Errorf("Apply() archived %d items, want 0", len(got.Archived))
	}
}

func TestApplyDefensiveOnDegenerateInputs(t *testing.T) {
	e := newTestEngine()

	t.Run("empty preset empties preset items", func(t *testing.T) {
		preset := presetWith(nil, nil)
		plan := models.DayPlan{
			Date: "2025-06-01",
			Items: []models.DayPlanItem{
				{ID: "p1", Kind: models.KindHabit, Text: "Hydrate", Source: models.SourcePreset, PresetItemID: "h1"},
			},
		}
		got := e.Apply(preset, plan, Options{KeepCompletion: true, KeepManual: true})
		if len(got.Items) != 0 {
			t.Errorf("Apply() produced %d items, want 0", len(got.Items))
		}
		if len(got.Archived) != 1 {
			t.Errorf("Apply() archived %d items, want 1", len(got.Archived))
		}
	})

	t.Run("zero-value plan", func(t *testing.T) {
		preset := presetWith([]models.PresetItem{{ID: "h1", Text: "Hydrate"}}, nil)
		got := e.Apply(preset, models.DayPlan{}, Options{})
		if len(got.Items) != 1 {
			t.Errorf("Apply() produced %d items, want 1", len(got.Items))
		}
	})

	t.Run("sealed plan data is not corrupted", func(t *testing.T) {
		preset := presetWith([]models.PresetItem{{ID: "h1", Text: "Hydrate"}}, nil)
		plan := models.DayPlan{
			Date:     "2025-06-01",
			IsSealed: true,
			Items: []models.DayPlanItem{
				{ID: "p1", Kind: models.KindHabit, Text: "Hydrate", Completed: true, Source: models.SourcePreset, PresetItemID: "h1"},
			},
		}
		got := e.Apply(preset, plan, Options{KeepCompletion: true, KeepManual: true})
		if !got.IsSealed {
			t.Error("got.IsSealed = false, want sealed flag preserved")
		}
		if len(got.Items) != 1 || got.Items[0].ID != "p1" {
			t.Errorf("sealed plan items corrupted: %+v", got.Items)
		}
	})
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	e := newTestEngine()
	preset := presetWith([]models.PresetItem{{ID: "h1", Text: "New text"}}, nil)
	plan := models.DayPlan{
		Date: "2025-06-01",
		Items: []models.DayPlanItem{
			{ID: "p1", Kind: models.KindHabit, Text: "Old text", Completed: true, Source: models.SourcePreset, PresetItemID: "h1"},
		},
	}
	before := plan.Items[0]

	_ = e.Apply(preset, plan, Options{KeepCompletion: false, KeepManual: false})

	if !reflect.DeepEqual(plan.Items[0], before) {
		t.Errorf("Apply() mutated its input: %+v", plan.Items[0])
	}
}
