package model

// Record is the requested item (RITM) that triggered an invocation.
// It is the identity used for variable lookups and the target of the
// work-notes write-back.
type Record struct {
	// SysID is the platform's unique identifier for the record.
	SysID string `json:"sys_id" db:"sys_id"`

	// Number is the human-facing ticket number (e.g., RITM0012345).
	Number string `json:"number" db:"number"`

	// CatalogItem is the display name of the catalog item ordered.
	CatalogItem string `json:"catalog_item" db:"catalog_item"`

	// State is the raw state value of the record.
	State string `json:"state" db:"state"`
}
