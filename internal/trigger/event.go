package trigger

import (
	"slices"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/model"
)

// Snapshot is the state of a requested item on one side of an update.
type Snapshot struct {
	SysID       string `json:"sys_id" validate:"required"`
	Number      string `json:"number"`
	State       string `json:"state" validate:"required"`
	CatalogItem string `json:"catalog_item"`
}

// Record returns the snapshot as the invocation's target record.
func (s Snapshot) Record() model.Record {
	return model.Record{
		SysID:       s.SysID,
		Number:      s.Number,
		CatalogItem: s.CatalogItem,
		State:       s.State,
	}
}

// PriorSnapshot is the record before the update. Only State is read, and
// the platform may send nothing else, so no field is required.
type PriorSnapshot struct {
	SysID       string `json:"sys_id,omitempty"`
	Number      string `json:"number,omitempty"`
	State       string `json:"state"`
	CatalogItem string `json:"catalog_item,omitempty"`
}

// Event is the outbound notification the platform sends after a
// requested item is updated. Previous is nil for inserts.
type Event struct {
	Current  Snapshot       `json:"current" validate:"required"`
	Previous *PriorSnapshot `json:"previous,omitempty"`
}

// Qualifies reports whether the event is a transition into the
// in-progress state of one of the configured catalog items.
func Qualifies(ev Event, cfg model.TriggerConfig) bool {
	if ev.Current.State != cfg.InProgressState {
		return false
	}
	if ev.Previous != nil && ev.Previous.State == ev.Current.State {
		return false
	}
	return slices.Contains(cfg.CatalogItems, ev.Current.CatalogItem)
}
