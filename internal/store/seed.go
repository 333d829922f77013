package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/model"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/source"
)

// CreateUser inserts a sys_user row and returns its sys_id.
func (s *SQLiteStore) CreateUser(ctx context.Context, u User) (string, error) {
	if u.SysID == "" {
		u.SysID = newSysID()
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO sys_user (sys_id, user_name, name, email)
		VALUES (:sys_id, :user_name, :name, :email)`, u)
	if err != nil {
		return "", fmt.Errorf("creating user %s: %w", u.UserName, err)
	}
	return u.SysID, nil
}

// CreateRequest inserts a parent sc_request. requestedFor may be empty.
func (s *SQLiteStore) CreateRequest(ctx context.Context, requestedFor string) (string, error) {
	sysID := newSysID()

	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM sc_request"); err != nil {
		return "", fmt.Errorf("counting requests: %w", err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sc_request (sys_id, number, requested_for)
		VALUES (?, ?, ?)`,
		sysID, fmt.Sprintf("REQ%07d", count+1), nullIfEmpty(requestedFor),
	)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	return sysID, nil
}

// CreateRequestItem inserts a requested item and returns it.
func (s *SQLiteStore) CreateRequestItem(
	ctx context.Context,
	item RequestItemSeed,
) (*model.Record, error) {
	if item.SysID == "" {
		item.SysID = newSysID()
	}
	if item.State == "" {
		item.State = "1"
	}
	if item.Number == "" {
		var count int
		if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM sc_req_item"); err != nil {
			return nil, fmt.Errorf("counting requested items: %w", err)
		}
		item.Number = fmt.Sprintf("RITM%07d", count+1)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sc_req_item (sys_id, number, request, cat_item, state)
		VALUES (?, ?, ?, ?, ?)`,
		item.SysID, item.Number, nullIfEmpty(item.RequestID), item.CatalogItem, item.State,
	)
	if err != nil {
		return nil, fmt.Errorf("creating requested item %s: %w", item.Number, err)
	}

	return &model.Record{
		SysID:       item.SysID,
		Number:      item.Number,
		CatalogItem: item.CatalogItem,
		State:       item.State,
	}, nil
}

// AddVariable attaches a named variable value to a requested item,
// creating the variable definition on first use.
func (s *SQLiteStore) AddVariable(ctx context.Context, ritmSysID, name, value string) error {
	if name == "" {
		return fmt.Errorf("variable name must not be empty")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var defID string
	err = tx.GetContext(ctx, &defID, "SELECT sys_id FROM item_option_new WHERE name = ?", name)
	if errors.Is(err, sql.ErrNoRows) {
		defID = newSysID()
		_, err = tx.ExecContext(ctx,
			"INSERT INTO item_option_new (sys_id, name) VALUES (?, ?)", defID, name)
	}
	if err != nil {
		return fmt.Errorf("resolving variable definition %s: %w", name, err)
	}

	optID := newSysID()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO sc_item_option (sys_id, item_option_new, value)
		VALUES (?, ?, ?)`, optID, defID, value); err != nil {
		return fmt.Errorf("creating option %s: %w", name, err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO sc_item_option_mtom (sys_id, request_item, sc_item_option)
		VALUES (?, ?, ?)`, newSysID(), ritmSysID, optID); err != nil {
		return fmt.Errorf("linking option %s to %s: %w", name, ritmSysID, err)
	}

	return tx.Commit()
}

// SetState updates the state of a requested item.
func (s *SQLiteStore) SetState(ctx context.Context, ritmSysID, state string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE sc_req_item
		SET state = ?, updated_at = CURRENT_TIMESTAMP
		WHERE sys_id = ?`, state, ritmSysID)
	if err != nil {
		return fmt.Errorf("setting state on %s: %w", ritmSysID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("setting state on %s: %w", ritmSysID, source.ErrNotFound)
	}
	return nil
}

// GetWorkNotes returns the current work_notes of a requested item.
func (s *SQLiteStore) GetWorkNotes(ctx context.Context, ritmSysID string) (string, error) {
	var notes string
	err := s.db.GetContext(ctx, &notes, "SELECT work_notes FROM sc_req_item WHERE sys_id = ?", ritmSysID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("requested item %s: %w", ritmSysID, source.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("getting work notes of %s: %w", ritmSysID, err)
	}
	return notes, nil
}

// nullIfEmpty maps "" to SQL NULL for optional references.
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
