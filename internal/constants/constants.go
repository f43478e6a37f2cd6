package constants

const (
	AppName            = "gritday"
	Version            = "v0.2.0"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/gritday/gritday.db"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// EnvDatabase and EnvUser are read at startup (optionally via a .env file)
	// before flags are parsed.
	EnvDatabase = "GRITDAY_DB"
	EnvUser     = "GRITDAY_USER"

	// TaskScoreCap bounds how much task completion can contribute to a day's
	// combined score. Habits are uncapped; tasks beyond the cap earn nothing.
	TaskScoreCap = 10

	// PerfectDayBonus is the extra XP awarded when every habit of a sealed
	// day was completed.
	PerfectDayBonus = 25
)

// Item kinds in a day plan.
const (
	KindHabit = "habit"
	KindTask  = "task"
)

// Item sources in a day plan.
const (
	SourcePreset = "preset"
	SourceManual = "manual"
)
