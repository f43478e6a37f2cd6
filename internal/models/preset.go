package models

// PresetItem is a single habit or task template entry. The ID is stable
// across edits: matching during a merge is by identity, not by value.
type PresetItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Time string `json:"time,omitempty"` // HH:MM display string, tasks only
}

// Preset is a named template of habits and tasks. UpdatedAt changes whenever
// the item lists change and is the staleness signal a day plan compares
// against.
type Preset struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Habits    []PresetItem `json:"habits"`
	Tasks     []PresetItem `json:"tasks"`
	UpdatedAt string       `json:"updated_at"` // RFC3339 timestamp
}
