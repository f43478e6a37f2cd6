package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/gritday/gritday/internal/cli"
	"github.com/gritday/gritday/internal/constants"
	"github.com/gritday/gritday/internal/errors"
	"github.com/gritday/gritday/internal/identity"
	"github.com/gritday/gritday/internal/keyring"
	"github.com/gritday/gritday/internal/logger"
	"github.com/gritday/gritday/internal/planner"
	"github.com/gritday/gritday/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Db      string `help:"Database path or postgres:// connection string." env:"GRITDAY_DB" type:"path" default:"~/.config/gritday/gritday.db"`
	User    string `help:"User id for remote storage." env:"GRITDAY_USER"`
	Debug   bool   `help:"Verbose logging to stderr."`
	Yes     bool   `short:"y" help:"Answer yes to all confirmation prompts."`

	Init   cli.InitCmd   `cmd:"" help:"Initialize gritday storage."`
	Tui    cli.TuiCmd    `cmd:"" help:"Open the interactive day view." default:"1"`
	Sync   cli.SyncCmd   `cmd:"" help:"Merge the active preset into a day."`
	Seal   cli.DaySealCmd `cmd:"" help:"Seal a day and bank its XP."`
	Rank   cli.RankCmd   `cmd:"" help:"Show XP, rank and streak."`
	Export cli.ExportCmd `cmd:"" help:"Dump all data as JSON."`
	Reset  cli.ResetCmd  `cmd:"" help:"Wipe all stored data."`
	Doctor cli.DoctorCmd `cmd:"" help:"Run health checks."`

	Preset struct {
		Create cli.PresetCreateCmd `cmd:"" help:"Create a preset."`
		List   cli.PresetListCmd   `cmd:"" help:"List presets."`
		Show   cli.PresetShowCmd   `cmd:"" help:"Show a preset's items."`
		Rename cli.PresetRenameCmd `cmd:"" help:"Rename a preset."`
		Delete cli.PresetDeleteCmd `cmd:"" help:"Delete a preset."`
		Use    cli.PresetUseCmd    `cmd:"" help:"Set the active preset."`
		Add    cli.PresetAddCmd    `cmd:"" help:"Add a habit or task to a preset."`
		Remove cli.PresetRemoveCmd `cmd:"" help:"Remove an item from a preset."`
		Move   cli.PresetMoveCmd   `cmd:"" help:"Reorder an item within a preset."`
	} `cmd:"" help:"Manage day templates."`

	Day struct {
		Show    cli.DayShowCmd    `cmd:"" help:"Show a day's plan."`
		Check   cli.DayCheckCmd   `cmd:"" help:"Mark an item done."`
		Uncheck cli.DayUncheckCmd `cmd:"" help:"Mark an item not done."`
		Add     cli.DayAddCmd     `cmd:"" help:"Add a one-off item to a day."`
		Edit    cli.DayEditCmd    `cmd:"" help:"Edit an item's text or time."`
		Remove  cli.DayRemoveCmd  `cmd:"" help:"Remove a manual item from a day."`
		Seal    cli.DaySealCmd    `cmd:"" help:"Seal a day and bank its XP."`
	} `cmd:"" help:"Work with a single day."`

	Journal struct {
		Add    cli.JournalAddCmd    `cmd:"" help:"Add a journal entry."`
		List   cli.JournalListCmd   `cmd:"" help:"List journal entries."`
		Delete cli.JournalDeleteCmd `cmd:"" help:"Delete a journal entry."`
	} `cmd:"" help:"Keep a daily journal."`

	Goal struct {
		Add    cli.GoalAddCmd    `cmd:"" help:"Add a goal."`
		List   cli.GoalListCmd   `cmd:"" help:"List goals."`
		Done   cli.GoalDoneCmd   `cmd:"" help:"Complete a goal."`
		Delete cli.GoalDeleteCmd `cmd:"" help:"Delete a goal."`
	} `cmd:"" help:"Track long-running goals."`

	Earn struct {
		Add    cli.EarnAddCmd    `cmd:"" help:"Record an earning or spending."`
		List   cli.EarnListCmd   `cmd:"" help:"Show balance and recent transactions."`
		Delete cli.EarnDeleteCmd `cmd:"" help:"Delete a transaction."`
	} `cmd:"" help:"Track the earnings ledger."`

	Remote struct {
		Set    cli.RemoteSetCmd    `cmd:"" help:"Store a remote connection string in the OS keyring."`
		Clear  cli.RemoteClearCmd  `cmd:"" help:"Remove the stored remote connection."`
		Status cli.RemoteStatusCmd `cmd:"" help:"Show storage and sign-in status."`
	} `cmd:"" help:"Configure remote (Postgres) storage."`
}

func isPostgres(s string) bool {
	return strings.HasPrefix(s, "postgres://") ||
		strings.HasPrefix(s, "postgresql://") ||
		strings.Contains(s, "host=")
}

func main() {
	// A .env next to the database config is the simplest way to pin
	// GRITDAY_USER on a machine. Missing files are fine.
	if home, err := os.UserHomeDir(); err == nil {
		_ = godotenv.Load(filepath.Join(home, ".config", "gritday", ".env"))
	}
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Preset-driven daily habits and tasks, with XP to keep you honest"),
		kong.UsageOnError(),
		kong.Vars{"version": constants.Version},
	)

	configDir := filepath.Dir(CLI.Db)
	if isPostgres(CLI.Db) {
		if home, err := os.UserHomeDir(); err == nil {
			configDir = filepath.Join(home, ".config", "gritday")
		}
	}
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		errors.Fatalf("failed to initialize logging: %v", err)
	}

	// Backend selection: an explicit postgres connection string wins, then a
	// keyring-stored one, then the local SQLite file.
	connStr := ""
	if isPostgres(CLI.Db) {
		connStr = CLI.Db
	} else if stored, err := keyring.GetConnectionString(); err == nil {
		connStr = stored
	}

	var (
		store storage.Provider
		ident *identity.Cache
	)
	if connStr != "" {
		ident = identity.NewCache(func() (string, error) {
			if CLI.User != "" {
				return CLI.User, nil
			}
			return "", identity.ErrNoIdentity
		})
		store = storage.NewPostgresStore(connStr, ident)
	} else {
		store = storage.NewSQLiteStore(CLI.Db)
	}

	queue := storage.NewSaveQueue()
	appCtx := &cli.Context{
		Store:   store,
		Planner: planner.New(store),
		Queue:   queue,
		Ident:   ident,
		Yes:     CLI.Yes,
	}

	// Everything except init and the keyring commands needs loaded storage.
	command := ctx.Command()
	if command != "init" && !strings.HasPrefix(command, "remote ") {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	err := ctx.Run(appCtx)
	queue.Close()
	if cerr := store.Close(); cerr != nil {
		logger.Warn("Failed to close storage", "error", cerr)
	}
	// Fatal is a no-op on nil, so the happy path falls through.
	errors.Fatal(err)
}
