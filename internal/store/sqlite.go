package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/model"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/source"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db   *sqlx.DB
	path string
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// An in-memory database exists per connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db, path: dbPath}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// Type returns the backend identifier for the local mirror.
func (s *SQLiteStore) Type() source.SourceType {
	return source.SourceTypeSQLite
}

// ValidateConnection pings the database and reports its schema version.
func (s *SQLiteStore) ValidateConnection(ctx context.Context) (string, error) {
	if err := s.db.PingContext(ctx); err != nil {
		return "", fmt.Errorf("pinging sqlite db: %w", err)
	}
	var version int
	if err := s.db.GetContext(ctx, &version, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
		return "", fmt.Errorf("reading schema version: %w", err)
	}
	return fmt.Sprintf("%s (schema v%d)", s.path, version), nil
}

// GetRecord loads a requested item by sys_id.
func (s *SQLiteStore) GetRecord(ctx context.Context, ritmSysID string) (*model.Record, error) {
	var rec model.Record
	err := s.db.GetContext(ctx, &rec, `
		SELECT sys_id, number, cat_item AS catalog_item, state
		FROM sc_req_item
		WHERE sys_id = ? OR number = ?`, ritmSysID, ritmSysID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("requested item %s: %w", ritmSysID, source.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting requested item %s: %w", ritmSysID, err)
	}
	return &rec, nil
}

// GetRequestVariables joins the option tables the same way the platform
// does. Options without a named definition are skipped; NULL values are
// returned as "".
func (s *SQLiteStore) GetRequestVariables(
	ctx context.Context,
	ritmSysID string,
) (model.Variables, error) {
	if ritmSysID == "" {
		return nil, fmt.Errorf("requested item sys_id must not be empty")
	}

	var rows []struct {
		Name  string `db:"name"`
		Value string `db:"value"`
	}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT def.name AS name, COALESCE(opt.value, '') AS value
		FROM sc_item_option_mtom m
		JOIN sc_item_option opt ON opt.sys_id = m.sc_item_option
		JOIN item_option_new def ON def.sys_id = opt.item_option_new
		WHERE m.request_item = ? AND def.name <> ''
		ORDER BY m.rowid`, ritmSysID)
	if err != nil {
		return nil, fmt.Errorf("querying variables for %s: %w", ritmSysID, err)
	}

	vars := make(model.Variables, len(rows))
	for _, r := range rows {
		vars[r.Name] = r.Value
	}
	return vars, nil
}

// LookupUserEmail returns the email of a sys_user.
func (s *SQLiteStore) LookupUserEmail(ctx context.Context, userSysID string) (string, error) {
	var email string
	err := s.db.GetContext(ctx, &email, "SELECT email FROM sys_user WHERE sys_id = ?", userSysID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("user %s: %w", userSysID, source.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("getting user %s: %w", userSysID, err)
	}
	if email == "" {
		return "", fmt.Errorf("user %s has no email: %w", userSysID, source.ErrNotFound)
	}
	return email, nil
}

// RequesterEmail follows sc_req_item.request -> sc_request.requested_for
// -> sys_user.email.
func (s *SQLiteStore) RequesterEmail(ctx context.Context, ritmSysID string) (string, error) {
	var email sql.NullString
	err := s.db.GetContext(ctx, &email, `
		SELECT u.email
		FROM sc_req_item i
		JOIN sc_request r ON r.sys_id = i.request
		JOIN sys_user u ON u.sys_id = r.requested_for
		WHERE i.sys_id = ?`, ritmSysID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("requester of %s: %w", ritmSysID, source.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("getting requester of %s: %w", ritmSysID, err)
	}
	if !email.Valid || email.String == "" {
		return "", fmt.Errorf("requester of %s has no email: %w", ritmSysID, source.ErrNotFound)
	}
	return email.String, nil
}

// WriteWorkNotes overwrites the work_notes column of the requested item.
func (s *SQLiteStore) WriteWorkNotes(ctx context.Context, ritmSysID string, note string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE sc_req_item
		SET work_notes = ?, updated_at = CURRENT_TIMESTAMP
		WHERE sys_id = ?`, note, ritmSysID)
	if err != nil {
		return fmt.Errorf("writing work notes on %s: %w", ritmSysID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("writing work notes on %s: %w", ritmSysID, source.ErrNotFound)
	}
	return nil
}

// newSysID returns a 32-character hex identifier in the platform's format.
func newSysID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
