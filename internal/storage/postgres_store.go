package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	pq "github.com/lib/pq"

	"github.com/gritday/gritday/internal/constants"
	"github.com/gritday/gritday/internal/identity"
	"github.com/gritday/gritday/internal/logger"
)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

// PostgresStore is the remote backend: records are keyed by (user_id, key)
// so multiple clients of the same user converge on one dataset. Reads with
// no resolvable identity degrade to empty values so the application stays
// usable read-only before sign-in completes; writes fail fast.
type PostgresStore struct {
	recordStore
	connStr string
	ident   *identity.Cache
	db      *sql.DB
}

func NewPostgresStore(connStr string, ident *identity.Cache) *PostgresStore {
	s := &PostgresStore{
		connStr: connStr,
		ident:   ident,
	}
	s.recordStore = recordStore{kv: &postgresKV{store: s}}
	s.ensureSearchPath()
	return s
}

func (s *PostgresStore) ensureSearchPath() {
	// Ensure search_path is set to gritday in the connection string
	if strings.HasPrefix(s.connStr, "postgres://") || strings.HasPrefix(s.connStr, "postgresql://") {
		u, err := url.Parse(s.connStr)
		if err != nil {
			logger.Warn("Failed to parse Postgres connection string", "error", err)
			return
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", constants.AppName)
			u.RawQuery = q.Encode()
			s.connStr = u.String()
		}
	} else if s.connStr != "" && !hasDSNParam(s.connStr, "search_path") {
		s.connStr = strings.TrimSpace(s.connStr) + " search_path=" + constants.AppName
	}
}

// hasDSNParam returns true if the DSN-style connection string contains the
// given parameter key (case-insensitive).
func hasDSNParam(connStr, param string) bool {
	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], param) {
			return true
		}
	}
	return false
}

// hasSSLMode checks if the connection string contains an sslmode parameter
// in either URL or DSN form.
func hasSSLMode(connStr string) bool {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" {
		for key := range u.Query() {
			if strings.EqualFold(key, "sslmode") {
				return true
			}
		}
	}
	return hasDSNParam(connStr, "sslmode")
}

// ValidateConnString checks that a connection string is a valid PostgreSQL
// connection string (URI or DSN) and that it does not embed a password.
// Credentials belong in the OS keyring, environment, or .pgpass.
func ValidateConnString(connStr string) (bool, error) {
	if strings.TrimSpace(connStr) == "" {
		return false, fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}

	if _, err := pq.NewConnector(connStr); err != nil {
		return false, fmt.Errorf("%w: invalid connection string format: %v", ErrInvalidConnectionString, err)
	}

	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		parsedURL, err := url.Parse(connStr)
		if err != nil {
			return false, fmt.Errorf("%w: failed to parse connection URL: %v", ErrInvalidConnectionString, err)
		}
		if _, isSet := parsedURL.User.Password(); isSet {
			return false, ErrEmbeddedCredentials
		}
	} else {
		for _, pair := range strings.Fields(connStr) {
			parts := strings.SplitN(pair, "=", 2)
			if len(parts) == 2 && strings.EqualFold(strings.TrimSpace(parts[0]), "password") {
				return false, ErrEmbeddedCredentials
			}
		}
	}

	return true, nil
}

func (s *PostgresStore) Init() error {
	if s.connStr == "" {
		return ErrNotConfigured
	}

	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.Exec("CREATE SCHEMA IF NOT EXISTS " + constants.AppName); err != nil {
		db.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}
	s.db = db

	if err := s.ping(); err != nil {
		return err
	}

	if err := s.createSchema(); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

func (s *PostgresStore) Load() error {
	if s.db != nil {
		return nil
	}
	if s.connStr == "" {
		return ErrNotConfigured
	}

	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	return s.ping()
}

func (s *PostgresStore) ping() error {
	if err := s.db.Ping(); err != nil {
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(s.connStr) {
			return fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *PostgresStore) Describe() string {
	// Never expose the connection string
	return "postgresql"
}

func (s *PostgresStore) createSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS records (
			user_id    TEXT NOT NULL,
			key        TEXT NOT NULL,
			value      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (user_id, key)
		)
	`)
	return err
}

// postgresKV adapts the store to the raw keyValue surface, scoping every
// key by the cached user identity.
type postgresKV struct {
	store *PostgresStore
}

func (s *postgresKV) get(key string) ([]byte, bool, error) {
	userID, err := s.store.ident.UserID()
	if err != nil {
		// Reads degrade to "absent" before sign-in so the UI stays
		// functional read-only.
		logger.Debug("Remote read without identity, returning empty", "key", key)
		return nil, false, nil
	}
	if s.store.db == nil {
		return nil, false, ErrNotLoaded
	}

	var value []byte
	err = s.store.db.QueryRow("SELECT value FROM records WHERE user_id = $1 AND key = $2", userID, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read record %s: %w", key, err)
	}
	return value, true, nil
}

func (s *postgresKV) put(key string, value []byte) error {
	userID, err := s.store.ident.UserID()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
	}
	if s.store.db == nil {
		return ErrNotLoaded
	}

	_, err = s.store.db.Exec(`
		INSERT INTO records (user_id, key, value, updated_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		userID, key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to write record %s: %w", key, err)
	}
	return nil
}

func (s *postgresKV) wipe() error {
	userID, err := s.store.ident.UserID()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
	}
	if s.store.db == nil {
		return ErrNotLoaded
	}

	_, err = s.store.db.Exec("DELETE FROM records WHERE user_id = $1", userID)
	if err != nil {
		return fmt.Errorf("failed to wipe records: %w", err)
	}
	return nil
}
