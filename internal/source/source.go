package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/model"
)

// ErrNotFound is returned when a requested record or user does not exist.
var ErrNotFound = errors.New("not found")

// AuthError indicates that authentication has failed or expired for a source.
// It is returned by source clients when a 401 response is received.
type AuthError struct {
	SourceType SourceType
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s): %s", e.SourceType, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// SourceType identifies the kind of external system an error came from.
type SourceType string

const (
	SourceTypeServiceNow SourceType = "servicenow"
	SourceTypeGitHub     SourceType = "github"
	SourceTypeSQLite     SourceType = "sqlite"
)

// VariableSource collects the catalog variables of a requested item.
type VariableSource interface {
	// GetRequestVariables returns every named variable linked to the
	// requested item. Associations whose variable definition is missing
	// or unnamed are skipped. An empty result is valid.
	GetRequestVariables(ctx context.Context, ritmSysID string) (model.Variables, error)
}

// UserDirectory resolves platform users.
type UserDirectory interface {
	// LookupUserEmail returns the email of the user with the given
	// sys_id. Returns ErrNotFound when the user does not exist.
	LookupUserEmail(ctx context.Context, userSysID string) (string, error)
}

// RequesterDirectory resolves the requester of a requested item.
type RequesterDirectory interface {
	// RequesterEmail follows requested item -> request -> requested_for
	// -> email. Returns ErrNotFound when any link is missing.
	RequesterEmail(ctx context.Context, ritmSysID string) (string, error)
}

// NoteWriter writes the outcome note back onto a requested item.
type NoteWriter interface {
	// WriteWorkNotes overwrites the record's work_notes field.
	WriteWorkNotes(ctx context.Context, ritmSysID string, note string) error
}

// RecordStore is the contract every ITSM backend implements: the
// ServiceNow Table API adapter and the local SQLite mirror.
type RecordStore interface {
	VariableSource
	UserDirectory
	RequesterDirectory
	NoteWriter

	// Type returns the backend identifier.
	Type() SourceType

	// GetRecord loads the requested item by sys_id.
	GetRecord(ctx context.Context, ritmSysID string) (*model.Record, error)

	// ValidateConnection verifies credentials and connectivity.
	// Returns a human-readable status message on success.
	ValidateConnection(ctx context.Context) (string, error)
}
