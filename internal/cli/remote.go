package cli

import (
	"errors"
	"fmt"

	"github.com/gritday/gritday/internal/constants"
	"github.com/gritday/gritday/internal/keyring"
	"github.com/gritday/gritday/internal/storage"
)

// RemoteSetCmd stores the Postgres connection string in the OS keyring so
// later runs pick up the remote backend without flags.
type RemoteSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store."`
}

func (c *RemoteSetCmd) Run(ctx *Context) error {
	_, err := storage.ValidateConnString(c.ConnectionString)
	if err != nil {
		if errors.Is(err, storage.ErrEmbeddedCredentials) {
			// The keyring itself is the credential store; an embedded
			// password is tolerated there but flagged.
			fmt.Println("⚠ Connection string contains an embedded password.")
			fmt.Println("  It will live only in the encrypted OS keyring, but consider .pgpass instead.")
		} else {
			return fmt.Errorf("invalid connection string: %w", err)
		}
	}

	if err := keyring.SetConnectionString(c.ConnectionString); err != nil {
		return err
	}
	if ctx.Ident != nil {
		ctx.Ident.Invalidate()
	}
	fmt.Println("✓ Remote connection stored in OS keyring")
	fmt.Printf("  Set %s to your user id to sync, e.g. in ~/.config/gritday/.env\n", constants.EnvUser)
	return nil
}

// RemoteClearCmd removes the stored connection string and drops any cached
// identity.
type RemoteClearCmd struct{}

func (c *RemoteClearCmd) Run(ctx *Context) error {
	err := keyring.DeleteConnectionString()
	if errors.Is(err, keyring.ErrNotFound) {
		fmt.Println("No remote connection was stored.")
		return nil
	}
	if err != nil {
		return err
	}
	if ctx.Ident != nil {
		ctx.Ident.Invalidate()
	}
	fmt.Println("✓ Remote connection removed. Future runs use local storage.")
	return nil
}

type RemoteStatusCmd struct{}

func (c *RemoteStatusCmd) Run(ctx *Context) error {
	fmt.Printf("Storage: %s\n", ctx.Store.Describe())

	if !keyring.IsAvailable() {
		fmt.Println("❌ OS keyring is not available")
		return nil
	}
	fmt.Println("✓ OS keyring available")

	if _, err := keyring.GetConnectionString(); err == nil {
		fmt.Println("✓ Remote connection string stored")
	} else if errors.Is(err, keyring.ErrNotFound) {
		fmt.Println("ℹ No remote connection string stored")
	} else {
		return err
	}

	if ctx.Ident == nil {
		fmt.Println("ℹ Running against local storage, no identity needed")
		return nil
	}
	if id, err := ctx.Ident.UserID(); err == nil {
		fmt.Printf("✓ Signed in as %s\n", id)
	} else {
		fmt.Printf("⚠ No user identity: reads fall back to empty data, writes are rejected (set %s)\n", constants.EnvUser)
	}
	return nil
}
