package models

type ItemKind string

const (
	KindHabit ItemKind = "habit"
	KindTask  ItemKind = "task"
)

type ItemSource string

const (
	SourcePreset ItemSource = "preset"
	SourceManual ItemSource = "manual"
)

// DayPlanItem is one concrete habit or task instance on a specific day.
//
// Invariants: manual items carry no preset linkage (PresetID and
// PresetItemID empty); preset items are identified by PresetItemID, the
// primary merge key. UserEdited is sticky: once a user has edited the text
// or time, a merge never overwrites them from the preset again.
type DayPlanItem struct {
	ID           string     `json:"id"`
	Kind         ItemKind   `json:"kind"`
	Text         string     `json:"text"`
	Time         string     `json:"time,omitempty"` // HH:MM display string, tasks only
	Completed    bool       `json:"completed"`
	Source       ItemSource `json:"source"`
	PresetID     string     `json:"preset_id,omitempty"`
	PresetItemID string     `json:"preset_item_id,omitempty"`
	UserEdited   bool       `json:"user_edited"`
	CreatedAt    string     `json:"created_at"` // RFC3339 timestamp
}

// IsManual reports whether the item was added by hand rather than derived
// from a preset.
func (i DayPlanItem) IsManual() bool {
	return i.Source == SourceManual
}

// DayPlan is the per-date instance document. Items derived from a preset
// that later disappear from the template are moved to Archived, never
// silently dropped. Once sealed the plan is logically immutable.
type DayPlan struct {
	Date            string        `json:"date"` // YYYY-MM-DD
	ActivePresetID  string        `json:"active_preset_id,omitempty"`
	PresetUpdatedAt string        `json:"preset_updated_at,omitempty"` // RFC3339 timestamp
	Items           []DayPlanItem `json:"items"`
	Archived        []DayPlanItem `json:"archived"`
	IsSealed        bool          `json:"is_sealed"`
}

// FindItem returns the index of the item with the given id, or -1.
func (p *DayPlan) FindItem(id string) int {
	for i := range p.Items {
		if p.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// Counts returns completed and total item counts for the given kind.
func (p *DayPlan) Counts(kind ItemKind) (done, total int) {
	for _, it := range p.Items {
		if it.Kind != kind {
			continue
		}
		total++
		if it.Completed {
			done++
		}
	}
	return done, total
}
