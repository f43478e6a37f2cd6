package models

// JournalEntry is a dated free-text note.
type JournalEntry struct {
	ID        string `json:"id"`
	Date      string `json:"date"` // YYYY-MM-DD
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`           // RFC3339 timestamp
	UpdatedAt string `json:"updated_at,omitempty"` // RFC3339 timestamp
}

// Goal is a long-running objective, independent of any single day.
type Goal struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Note        string `json:"note,omitempty"`
	Done        bool   `json:"done"`
	CreatedAt   string `json:"created_at"`             // RFC3339 timestamp
	CompletedAt string `json:"completed_at,omitempty"` // RFC3339 timestamp
}

// Transaction is one entry in the earnings ledger. Amounts are in cents;
// negative amounts record spending.
type Transaction struct {
	ID        string `json:"id"`
	Date      string `json:"date"` // YYYY-MM-DD
	Label     string `json:"label"`
	Cents     int64  `json:"cents"`
	CreatedAt string `json:"created_at"` // RFC3339 timestamp
}
