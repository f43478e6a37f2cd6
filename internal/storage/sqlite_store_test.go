package storage

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/gritday/gritday/internal/models"
	"github.com/gritday/gritday/internal/progress"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := NewSQLiteStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLoadRequiresInit(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "missing.db")
	store := NewSQLiteStore(dbPath)
	if err := store.Load(); err == nil {
		t.Error("Load() on uninitialized path = nil, want error")
	}
}

func TestPresetRoundTrip(t *testing.T) {
	store := setupTestStore(t)

	preset := models.Preset{
		ID:   "preset-1",
		Name: "Morning",
		Habits: []models.PresetItem{
			{ID: "h1", Text: "Hydrate"},
		},
		Tasks: []models.PresetItem{
			{ID: "t1", Text: "Inbox zero", Time: "09:00"},
		},
		UpdatedAt: "2025-06-01T07:00:00Z",
	}
	if err := store.SavePreset(preset); err != nil {
		t.Fatalf("SavePreset() error = %v", err)
	}

	got, err := store.GetPreset("preset-1")
	if err != nil {
		t.Fatalf("GetPreset() error = %v", err)
	}
	if got.Name != "Morning" || len(got.Habits) != 1 || len(got.Tasks) != 1 {
		t.Errorf("GetPreset() = %+v, want round-tripped preset", got)
	}
	if got.Tasks[0].Time != "09:00" {
		t.Errorf("task time = %q, want %q", got.Tasks[0].Time, "09:00")
	}

	if _, err := store.GetPreset("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPreset(missing) error = %v, want ErrNotFound", err)
	}

	if err := store.DeletePreset("preset-1"); err != nil {
		t.Fatalf("DeletePreset() error = %v", err)
	}
	if _, err := store.GetPreset("preset-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPreset(deleted) error = %v, want ErrNotFound", err)
	}
}

func TestGetPresetsSortedByName(t *testing.T) {
	store := setupTestStore(t)

	for _, name := range []string{"Evening", "Morning", "Afternoon"} {
		if err := store.SavePreset(models.Preset{ID: name, Name: name}); err != nil {
			t.Fatalf("SavePreset(%s) error = %v", name, err)
		}
	}

	presets, err := store.GetPresets()
	if err != nil {
		t.Fatalf("GetPresets() error = %v", err)
	}
	want := []string{"Afternoon", "Evening", "Morning"}
	if len(presets) != len(want) {
		t.Fatalf("GetPresets() returned %d presets, want %d", len(presets), len(want))
	}
	for i, w := range want {
		if presets[i].Name != w {
			t.Errorf("presets[%d].Name = %q, want %q", i, presets[i].Name, w)
		}
	}
}

func TestPlanDefaultsWhenAbsent(t *testing.T) {
	store := setupTestStore(t)

	plan, err := store.GetPlan("2025-06-01")
	if err != nil {
		t.Fatalf("GetPlan() error = %v", err)
	}
	if plan.Date != "2025-06-01" {
		t.Errorf("plan.Date = %q, want %q", plan.Date, "2025-06-01")
	}
	if len(plan.Items) != 0 || len(plan.Archived) != 0 {
		t.Errorf("absent plan not empty: %+v", plan)
	}
	if plan.IsSealed {
		t.Error("absent plan is sealed, want unsealed")
	}
}

func TestPlanRoundTrip(t *testing.T) {
	store := setupTestStore(t)

	plan := models.DayPlan{
		Date:            "2025-06-01",
		ActivePresetID:  "preset-1",
		PresetUpdatedAt: "2025-06-01T07:00:00Z",
		Items: []models.DayPlanItem{
			{ID: "i1", Kind: models.KindHabit, Text: "Hydrate", Completed: true, Source: models.SourcePreset, PresetID: "preset-1", PresetItemID: "h1", CreatedAt: "2025-06-01T08:00:00Z"},
			{ID: "i2", Kind: models.KindTask, Text: "Call plumber", Source: models.SourceManual, UserEdited: true, CreatedAt: "2025-06-01T08:05:00Z"},
		},
		Archived: []models.DayPlanItem{
			{ID: "i0", Kind: models.KindHabit, Text: "Old habit", Source: models.SourcePreset, PresetItemID: "h0", CreatedAt: "2025-05-30T08:00:00Z"},
		},
	}
	if err := store.SavePlan(plan); err != nil {
		t.Fatalf("SavePlan() error = %v", err)
	}

	got, err := store.GetPlan("2025-06-01")
	if err != nil {
		t.Fatalf("GetPlan() error = %v", err)
	}
	if len(got.Items) != 2 || len(got.Archived) != 1 {
		t.Fatalf("GetPlan() = %d items / %d archived, want 2 / 1", len(got.Items), len(got.Archived))
	}
	if got.Items[0] != plan.Items[0] || got.Items[1] != plan.Items[1] {
		t.Errorf("items did not round-trip exactly: %+v", got.Items)
	}
	if got.Archived[0] != plan.Archived[0] {
		t.Errorf("archive did not round-trip exactly: %+v", got.Archived)
	}

	// Saving again with changes is an upsert on the date.
	got.IsSealed = true
	if err := store.SavePlan(got); err != nil {
		t.Fatalf("SavePlan() upsert error = %v", err)
	}
	again, err := store.GetPlan("2025-06-01")
	if err != nil {
		t.Fatalf("GetPlan() error = %v", err)
	}
	if !again.IsSealed {
		t.Error("upsert did not persist the sealed flag")
	}
}

func TestSummaryRoundTrip(t *testing.T) {
	store := setupTestStore(t)

	sum, err := store.GetSummary("2025-06-01")
	if err != nil {
		t.Fatalf("GetSummary() error = %v", err)
	}
	if sum.IsSealed {
		t.Error("absent summary is sealed, want unsealed default")
	}

	want := models.DaySummary{
		Date:        "2025-06-01",
		OperatorPct: 100,
		ScorePct:    95,
		IsSealed:    true,
		SealedAt:    "2025-06-01T21:00:00Z",
		Status:      models.StatusExcellent,
	}
	if err := store.SaveSummary(want); err != nil {
		t.Fatalf("SaveSummary() error = %v", err)
	}
	got, err := store.GetSummary("2025-06-01")
	if err != nil {
		t.Fatalf("GetSummary() error = %v", err)
	}
	if got != want {
		t.Errorf("GetSummary() = %+v, want %+v", got, want)
	}
}

func TestGetProgressDefault(t *testing.T) {
	store := setupTestStore(t)

	// An empty store synthesizes the zero-XP default rather than a bare
	// zero value, so the rank fields are populated from the first read.
	got, err := store.GetProgress()
	if err != nil {
		t.Fatalf("GetProgress() error = %v", err)
	}
	if want := progress.Default(); !reflect.DeepEqual(got, want) {
		t.Errorf("GetProgress() on empty store = %+v, want %+v", got, want)
	}
}

func TestUpdateProgress(t *testing.T) {
	store := setupTestStore(t)

	// Absent progress synthesizes a zero-XP default for the updater.
	got, err := store.UpdateProgress(func(p models.UserProgress) models.UserProgress {
		if p.XP != 0 {
			t.Errorf("updater saw XP = %d, want 0 default", p.XP)
		}
		p.XP = 125
		p.CurrentStreak = 1
		return p
	})
	if err != nil {
		t.Fatalf("UpdateProgress() error = %v", err)
	}
	if got.XP != 125 {
		t.Errorf("UpdateProgress() returned XP = %d, want 125", got.XP)
	}

	// The next read-modify-write sees the persisted state.
	got, err = store.UpdateProgress(func(p models.UserProgress) models.UserProgress {
		p.XP += 75
		return p
	})
	if err != nil {
		t.Fatalf("UpdateProgress() error = %v", err)
	}
	if got.XP != 200 {
		t.Errorf("UpdateProgress() returned XP = %d, want 200", got.XP)
	}

	stored, err := store.GetProgress()
	if err != nil {
		t.Fatalf("GetProgress() error = %v", err)
	}
	if stored.XP != 200 || stored.CurrentStreak != 1 {
		t.Errorf("GetProgress() = %+v, want persisted update", stored)
	}
}

func TestJournalGoalsTransactions(t *testing.T) {
	store := setupTestStore(t)

	if err := store.SaveJournalEntry(models.JournalEntry{ID: "j1", Date: "2025-06-02", Body: "later", CreatedAt: "2025-06-02T21:00:00Z"}); err != nil {
		t.Fatalf("SaveJournalEntry() error = %v", err)
	}
	if err := store.SaveJournalEntry(models.JournalEntry{ID: "j2", Date: "2025-06-01", Body: "earlier", CreatedAt: "2025-06-01T21:00:00Z"}); err != nil {
		t.Fatalf("SaveJournalEntry() error = %v", err)
	}
	entries, err := store.GetJournal()
	if err != nil {
		t.Fatalf("GetJournal() error = %v", err)
	}
	if len(entries) != 2 || entries[0].ID != "j2" {
		t.Errorf("GetJournal() order = %+v, want date ascending", entries)
	}
	if err := store.DeleteJournalEntry("j1"); err != nil {
		t.Fatalf("DeleteJournalEntry() error = %v", err)
	}
	if err := store.DeleteJournalEntry("j1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteJournalEntry(missing) error = %v, want ErrNotFound", err)
	}

	if err := store.SaveGoal(models.Goal{ID: "g1", Title: "Run a 10k", CreatedAt: "2025-06-01T09:00:00Z"}); err != nil {
		t.Fatalf("SaveGoal() error = %v", err)
	}
	goals, err := store.GetGoals()
	if err != nil {
		t.Fatalf("GetGoals() error = %v", err)
	}
	if len(goals) != 1 || goals[0].Title != "Run a 10k" {
		t.Errorf("GetGoals() = %+v", goals)
	}

	if err := store.SaveTransaction(models.Transaction{ID: "x1", Date: "2025-06-01", Label: "Freelance", Cents: 12550, CreatedAt: "2025-06-01T18:00:00Z"}); err != nil {
		t.Fatalf("SaveTransaction() error = %v", err)
	}
	txns, err := store.GetTransactions()
	if err != nil {
		t.Fatalf("GetTransactions() error = %v", err)
	}
	if len(txns) != 1 || txns[0].Cents != 12550 {
		t.Errorf("GetTransactions() = %+v", txns)
	}
}

func TestMalformedRecordTreatedAsAbsent(t *testing.T) {
	store := setupTestStore(t)

	// Corrupt the stored blob directly.
	if _, err := store.db.Exec(
		"INSERT INTO records (key, value, updated_at) VALUES (?, ?, ?)",
		planKey("2025-06-01"), "{not json", "2025-06-01T00:00:00Z",
	); err != nil {
		t.Fatalf("failed to plant malformed record: %v", err)
	}

	plan, err := store.GetPlan("2025-06-01")
	if err != nil {
		t.Fatalf("GetPlan() on malformed record error = %v, want nil", err)
	}
	if len(plan.Items) != 0 {
		t.Errorf("GetPlan() = %+v, want empty default", plan)
	}
}

func TestReset(t *testing.T) {
	store := setupTestStore(t)

	if err := store.SavePreset(models.Preset{ID: "p1", Name: "Morning"}); err != nil {
		t.Fatalf("SavePreset() error = %v", err)
	}
	if _, err := store.UpdateProgress(func(p models.UserProgress) models.UserProgress {
		p.XP = 500
		return p
	}); err != nil {
		t.Fatalf("UpdateProgress() error = %v", err)
	}

	if err := store.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	presets, err := store.GetPresets()
	if err != nil {
		t.Fatalf("GetPresets() error = %v", err)
	}
	if len(presets) != 0 {
		t.Errorf("GetPresets() after Reset() = %d presets, want 0", len(presets))
	}
	p, err := store.GetProgress()
	if err != nil {
		t.Fatalf("GetProgress() error = %v", err)
	}
	if p.XP != 0 {
		t.Errorf("GetProgress() after Reset() XP = %d, want 0", p.XP)
	}
}
