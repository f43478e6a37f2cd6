package storage

// Logical resource keys. Collections (presets, journal, goals,
// transactions) are stored as single map blobs keyed by record id; day
// plans and summaries are one record per date; user progress is a
// singleton. The remote backend scopes every key by user id.
const (
	keyPresets      = "presets"
	keyProgress     = "progress"
	keyJournal      = "journal"
	keyGoals        = "goals"
	keyTransactions = "transactions"

	planKeyPrefix    = "plan:"
	summaryKeyPrefix = "summary:"
)

func planKey(date string) string {
	return planKeyPrefix + date
}

func summaryKey(date string) string {
	return summaryKeyPrefix + date
}
