package testutil

import (
	"context"
	"testing"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/model"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/store"
)

// Var is one catalog variable attached by SeedRecord.
type Var struct {
	Name  string
	Value string
}

// RecordSeed describes a requested item created by SeedRecord.
type RecordSeed struct {
	Number         string
	CatalogItem    string
	State          string
	RequesterEmail string
	Vars           []Var
}

// SeedRecord creates a requested item with its parent request, optional
// requester and variables, failing the test on any error.
func SeedRecord(t *testing.T, s *store.SQLiteStore, seed RecordSeed) model.Record {
	t.Helper()
	ctx := context.Background()

	var userID string
	if seed.RequesterEmail != "" {
		var err error
		userID, err = s.CreateUser(ctx, store.User{UserName: seed.RequesterEmail, Email: seed.RequesterEmail})
		if err != nil {
			t.Fatalf("creating requester: %v", err)
		}
	}

	reqID, err := s.CreateRequest(ctx, userID)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}

	rec, err := s.CreateRequestItem(ctx, store.RequestItemSeed{
		Number:      seed.Number,
		RequestID:   reqID,
		CatalogItem: seed.CatalogItem,
		State:       seed.State,
	})
	if err != nil {
		t.Fatalf("creating requested item: %v", err)
	}

	for _, v := range seed.Vars {
		if err := s.AddVariable(ctx, rec.SysID, v.Name, v.Value); err != nil {
			t.Fatalf("adding variable %s: %v", v.Name, err)
		}
	}
	return *rec
}
