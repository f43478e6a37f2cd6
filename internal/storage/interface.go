package storage

import (
	"errors"

	"github.com/gritday/gritday/internal/models"
)

var (
	// ErrNotFound is returned when a record addressed by id does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrNotConfigured is returned by the remote backend when no connection
	// string was provided for a write. Reads degrade to empty values instead.
	ErrNotConfigured = errors.New("remote storage is not configured")
	// ErrNotAuthenticated is returned by the remote backend when no user
	// identity is available for a write. Sign in again and retry.
	ErrNotAuthenticated = errors.New("not authenticated, sign in again")
	// ErrNotLoaded is returned when a store is used before Init or Load.
	ErrNotLoaded = errors.New("storage not loaded")
)

// Provider is the uniform key-value contract over the application's logical
// resources, realized by a local SQLite-backed store and a remote
// Postgres-backed store. Get calls for keyed resources return an empty
// default when the record is absent; Save calls are idempotent upserts on
// the resource's natural key.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Presets
	GetPresets() ([]models.Preset, error)
	GetPreset(id string) (models.Preset, error)
	SavePreset(models.Preset) error
	DeletePreset(id string) error

	// Day plans, keyed by date
	GetPlan(date string) (models.DayPlan, error)
	SavePlan(models.DayPlan) error

	// Day summaries, keyed by date
	GetSummary(date string) (models.DaySummary, error)
	SaveSummary(models.DaySummary) error

	// User progress singleton. UpdateProgress is a read-modify-write: it
	// fetches current state (a zero-XP default when absent), applies the
	// pure updater, persists the result, and returns it. Last write wins at
	// the granularity of one full record.
	GetProgress() (models.UserProgress, error)
	UpdateProgress(update func(models.UserProgress) models.UserProgress) (models.UserProgress, error)

	// Journal
	GetJournal() ([]models.JournalEntry, error)
	SaveJournalEntry(models.JournalEntry) error
	DeleteJournalEntry(id string) error

	// Goals
	GetGoals() ([]models.Goal, error)
	SaveGoal(models.Goal) error
	DeleteGoal(id string) error

	// Earnings ledger
	GetTransactions() ([]models.Transaction, error)
	SaveTransaction(models.Transaction) error
	DeleteTransaction(id string) error

	// Reset wipes every stored record, user progress included.
	Reset() error

	// Describe returns a non-sensitive identifier for diagnostics output.
	Describe() string
}
