package models

// UserProgress is the singleton gamification record. It is created lazily
// with zero XP on first need and mutated exclusively through the storage
// port's read-modify-write updater.
type UserProgress struct {
	XP             int    `json:"xp"`
	RankKey        string `json:"rank_key"`
	XPToNext       int    `json:"xp_to_next"`
	BestStreak     int    `json:"best_streak"`
	CurrentStreak  int    `json:"current_streak"`
	LastSealedDate string `json:"last_sealed_date,omitempty"` // YYYY-MM-DD
	UpdatedAt      string `json:"updated_at,omitempty"`       // RFC3339 timestamp
	ActivePresetID string `json:"active_preset_id,omitempty"`
}
