package storage

import (
	"encoding/json"
	"sort"

	"github.com/gritday/gritday/internal/logger"
	"github.com/gritday/gritday/internal/models"
	"github.com/gritday/gritday/internal/progress"
)

// keyValue is the raw backend surface the two realizations provide. get
// reports absence with ok=false; put is an upsert. Both backends store
// JSON-encoded records, so the resource logic above them is identical and
// records round-trip exactly between backends.
type keyValue interface {
	get(key string) (value []byte, ok bool, err error)
	put(key string, value []byte) error
	wipe() error
}

// recordStore implements the per-resource contract of Provider on top of a
// keyValue backend. Malformed stored JSON is logged and treated as absent,
// never propagated as a failure.
type recordStore struct {
	kv keyValue
}

func getRecord[T any](s recordStore, key string) (T, bool, error) {
	var zero T
	raw, ok, err := s.kv.get(key)
	if err != nil || !ok {
		return zero, false, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		logger.Warn("Discarding malformed stored record", "key", key, "error", err)
		return zero, false, nil
	}
	return v, true, nil
}

func putRecord(s recordStore, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.kv.put(key, raw)
}

// getCollection loads a map-blob resource, empty when absent.
func getCollection[T any](s recordStore, key string) (map[string]T, error) {
	m, ok, err := getRecord[map[string]T](s, key)
	if err != nil {
		return nil, err
	}
	if !ok || m == nil {
		return make(map[string]T), nil
	}
	return m, nil
}

func saveToCollection[T any](s recordStore, key, id string, v T) error {
	m, err := getCollection[T](s, key)
	if err != nil {
		return err
	}
	m[id] = v
	return putRecord(s, key, m)
}

func deleteFromCollection[T any](s recordStore, key, id string) error {
	m, err := getCollection[T](s, key)
	if err != nil {
		return err
	}
	if _, ok := m[id]; !ok {
		return ErrNotFound
	}
	delete(m, id)
	return putRecord(s, key, m)
}

func (s recordStore) GetPresets() ([]models.Preset, error) {
	m, err := getCollection[models.Preset](s, keyPresets)
	if err != nil {
		return nil, err
	}
	presets := make([]models.Preset, 0, len(m))
	for _, p := range m {
		presets = append(presets, p)
	}
	sort.Slice(presets, func(i, j int) bool { return presets[i].Name < presets[j].Name })
	return presets, nil
}

func (s recordStore) GetPreset(id string) (models.Preset, error) {
	m, err := getCollection[models.Preset](s, keyPresets)
	if err != nil {
		return models.Preset{}, err
	}
	p, ok := m[id]
	if !ok {
		return models.Preset{}, ErrNotFound
	}
	return p, nil
}

func (s recordStore) SavePreset(p models.Preset) error {
	return saveToCollection(s, keyPresets, p.ID, p)
}

func (s recordStore) DeletePreset(id string) error {
	return deleteFromCollection[models.Preset](s, keyPresets, id)
}

func (s recordStore) GetPlan(date string) (models.DayPlan, error) {
	plan, ok, err := getRecord[models.DayPlan](s, planKey(date))
	if err != nil {
		return models.DayPlan{}, err
	}
	if !ok {
		return models.DayPlan{Date: date}, nil
	}
	if plan.Items == nil {
		plan.Items = []models.DayPlanItem{}
	}
	if plan.Archived == nil {
		plan.Archived = []models.DayPlanItem{}
	}
	return plan, nil
}

func (s recordStore) SavePlan(plan models.DayPlan) error {
	return putRecord(s, planKey(plan.Date), plan)
}

func (s recordStore) GetSummary(date string) (models.DaySummary, error) {
	sum, ok, err := getRecord[models.DaySummary](s, summaryKey(date))
	if err != nil {
		return models.DaySummary{}, err
	}
	if !ok {
		return models.DaySummary{Date: date}, nil
	}
	return sum, nil
}

func (s recordStore) SaveSummary(sum models.DaySummary) error {
	return putRecord(s, summaryKey(sum.Date), sum)
}

func (s recordStore) GetProgress() (models.UserProgress, error) {
	p, ok, err := getRecord[models.UserProgress](s, keyProgress)
	if err != nil {
		return models.UserProgress{}, err
	}
	if !ok {
		return progress.Default(), nil
	}
	return p, nil
}

func (s recordStore) UpdateProgress(update func(models.UserProgress) models.UserProgress) (models.UserProgress, error) {
	cur, err := s.GetProgress()
	if err != nil {
		return models.UserProgress{}, err
	}
	next := update(cur)
	if err := putRecord(s, keyProgress, next); err != nil {
		return models.UserProgress{}, err
	}
	return next, nil
}

func (s recordStore) GetJournal() ([]models.JournalEntry, error) {
	m, err := getCollection[models.JournalEntry](s, keyJournal)
	if err != nil {
		return nil, err
	}
	entries := make([]models.JournalEntry, 0, len(m))
	for _, e := range m {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date < entries[j].Date
		}
		return entries[i].CreatedAt < entries[j].CreatedAt
	})
	return entries, nil
}

func (s recordStore) SaveJournalEntry(e models.JournalEntry) error {
	return saveToCollection(s, keyJournal, e.ID, e)
}

func (s recordStore) DeleteJournalEntry(id string) error {
	return deleteFromCollection[models.JournalEntry](s, keyJournal, id)
}

func (s recordStore) GetGoals() ([]models.Goal, error) {
	m, err := getCollection[models.Goal](s, keyGoals)
	if err != nil {
		return nil, err
	}
	goals := make([]models.Goal, 0, len(m))
	for _, g := range m {
		goals = append(goals, g)
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].CreatedAt < goals[j].CreatedAt })
	return goals, nil
}

func (s recordStore) SaveGoal(g models.Goal) error {
	return saveToCollection(s, keyGoals, g.ID, g)
}

func (s recordStore) DeleteGoal(id string) error {
	return deleteFromCollection[models.Goal](s, keyGoals, id)
}

func (s recordStore) GetTransactions() ([]models.Transaction, error) {
	m, err := getCollection[models.Transaction](s, keyTransactions)
	if err != nil {
		return nil, err
	}
	txns := make([]models.Transaction, 0, len(m))
	for _, t := range m {
		txns = append(txns, t)
	}
	sort.Slice(txns, func(i, j int) bool {
		if txns[i].Date != txns[j].Date {
			return txns[i].Date < txns[j].Date
		}
		return txns[i].CreatedAt < txns[j].CreatedAt
	})
	return txns, nil
}

func (s recordStore) SaveTransaction(t models.Transaction) error {
	return saveToCollection(s, keyTransactions, t.ID, t)
}

func (s recordStore) DeleteTransaction(id string) error {
	return deleteFromCollection[models.Transaction](s, keyTransactions, id)
}

func (s recordStore) Reset() error {
	return s.kv.wipe()
}
