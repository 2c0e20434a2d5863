package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - handshakes, contacts, known_cases, exposure_days
const currentSchemaVersion = 1

// DefaultBusyTimeoutMS is how long SQLite waits on a locked file.
const DefaultBusyTimeoutMS = 5000

// Table names, in the order they are dropped and counted.
const (
	TableHandshakes   = "handshakes"
	TableContacts     = "contacts"
	TableKnownCases   = "known_cases"
	TableExposureDays = "exposure_days"
)

// Tables lists every table owned by the store.
var Tables = []string{TableHandshakes, TableContacts, TableKnownCases, TableExposureDays}

// Store provides durable storage for contact-tracing records.
type Store struct {
	db *sql.DB
}

// Option configures Open.
type Option func(*options)

type options struct {
	busyTimeoutMS  int
	integrityCheck bool
}

// WithBusyTimeout sets the SQLite busy timeout in milliseconds.
func WithBusyTimeout(ms int) Option {
	return func(o *options) {
		o.busyTimeoutMS = ms
	}
}

// WithIntegrityCheck runs PRAGMA quick_check on open. A failing check is
// reported as KindRequiresReset.
func WithIntegrityCheck(enabled bool) Option {
	return func(o *options) {
		o.integrityCheck = enabled
	}
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and creates missing tables.
//
// Every failure is returned as a classified *Error. Callers must treat it as
// fatal: the persisted state is corrupted or inaccessible.
//
// This function is idempotent - safe to call multiple times.
func Open(path string, opts ...Option) (*Store, error) {
	o := options{busyTimeoutMS: DefaultBusyTimeoutMS}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, classify("open", "", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, classify("open", "", err)
	}

	// One connection: the store has exactly one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db, o.busyTimeoutMS); err != nil {
		db.Close()
		return nil, classify("open", "", err)
	}

	if o.integrityCheck {
		if err := checkIntegrity(db); err != nil {
			db.Close()
			return nil, classify("integrity check", "", err)
		}
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, classify("apply schema", "", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer using Store methods when available.
func (s *Store) DB() *sql.DB {
	return s.db
}

// RecreateTables drops every table and creates it again, discarding all
// persisted records. The drop and create run in one transaction.
func (s *Store) RecreateTables(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("recreate tables", "", err)
	}
	defer tx.Rollback()

	for _, table := range Tables {
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return classify("drop table", table, err)
		}
	}

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return classify("create tables", "", err)
	}

	if err := tx.Commit(); err != nil {
		return classify("recreate tables", "", err)
	}
	return nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB, busyTimeoutMS int) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeoutMS),
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}

	return nil
}

// checkIntegrity runs PRAGMA quick_check and fails unless it reports "ok".
func checkIntegrity(db *sql.DB) error {
	var result string
	if err := db.QueryRow("PRAGMA quick_check").Scan(&result); err != nil {
		return fmt.Errorf("quick_check: %w", err)
	}
	if result != "ok" {
		return &Error{Kind: KindRequiresReset, Op: "integrity check", Err: fmt.Errorf("quick_check: %s", result)}
	}
	return nil
}

// applySchema creates tables if they don't exist and records the schema
// version. This function is idempotent.
func applySchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	// A newer file was written by a newer binary; reading it would risk
	// silently misinterpreting columns.
	if version > currentSchemaVersion {
		return &Error{
			Kind: KindRequiresReset,
			Op:   "apply schema",
			Err:  fmt.Errorf("schema version %d is newer than supported version %d", version, currentSchemaVersion),
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}

	if version < currentSchemaVersion {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
			return fmt.Errorf("set user_version: %w", err)
		}
	}

	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
