package store

import (
	"context"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/model"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/source"
)

// User is a sys_user row of the local mirror.
type User struct {
	SysID    string `db:"sys_id"`
	UserName string `db:"user_name"`
	Name     string `db:"name"`
	Email    string `db:"email"`
}

// RequestItemSeed describes a requested item to insert. Empty SysID and
// Number values are generated.
type RequestItemSeed struct {
	SysID       string
	Number      string
	RequestID   string
	CatalogItem string
	State       string
}

// Store is the local record mirror: a source.RecordStore plus the
// seeding operations used by the seed command and tests.
type Store interface {
	source.RecordStore

	CreateUser(ctx context.Context, u User) (string, error)
	CreateRequest(ctx context.Context, requestedFor string) (string, error)
	CreateRequestItem(ctx context.Context, item RequestItemSeed) (*model.Record, error)
	AddVariable(ctx context.Context, ritmSysID, name, value string) error
	SetState(ctx context.Context, ritmSysID, state string) error
	GetWorkNotes(ctx context.Context, ritmSysID string) (string, error)

	Close() error
}

var _ Store = (*SQLiteStore)(nil)
