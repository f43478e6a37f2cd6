package models

type DayStatus string

const (
	StatusExcellent DayStatus = "excellent"
	StatusGood      DayStatus = "good"
	StatusFair      DayStatus = "fair"
	StatusPoor      DayStatus = "poor"
)

// DaySummary is the read-only aggregation of a sealed day plan. It is
// created once at seal time and never touched by the merge engine.
type DaySummary struct {
	Date        string    `json:"date"`         // YYYY-MM-DD
	OperatorPct int       `json:"operator_pct"` // habit completion only
	ScorePct    int       `json:"score_pct"`    // habits plus capped task credit
	IsSealed    bool      `json:"is_sealed"`
	SealedAt    string    `json:"sealed_at,omitempty"` // RFC3339 timestamp
	Status      DayStatus `json:"status"`
}
