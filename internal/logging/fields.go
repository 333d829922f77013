package logging

import (
	"time"

	"go.uber.org/zap"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/model"
)

// Common field names for consistent logging across commands.
const (
	FieldService      = "service"
	FieldInvocationID = "invocation_id"
	FieldTicket       = "ticket"
	FieldRecordSysID  = "ritm_sys_id"
	FieldCatalogItem  = "catalog_item"
	FieldArchetype    = "archetype"
	FieldStatus       = "status"
	FieldRepository   = "repository"
	FieldBackend      = "backend"
	FieldDuration     = "duration_ms"
)

// Service returns a field for the service name.
func Service(name string) zap.Field {
	return zap.String(FieldService, name)
}

// InvocationID returns a field for the per-invocation correlation id.
func InvocationID(id string) zap.Field {
	return zap.String(FieldInvocationID, id)
}

// Ticket returns a field for the RITM number.
func Ticket(number string) zap.Field {
	return zap.String(FieldTicket, number)
}

// RecordSysID returns a field for the RITM sys_id.
func RecordSysID(id string) zap.Field {
	return zap.String(FieldRecordSysID, id)
}

// CatalogItem returns a field for the catalog item label.
func CatalogItem(label string) zap.Field {
	return zap.String(FieldCatalogItem, label)
}

// Archetype returns a field for the request archetype.
func Archetype(a model.Archetype) zap.Field {
	return zap.String(FieldArchetype, string(a))
}

// Status returns a field for an HTTP status code.
func Status(code int) zap.Field {
	return zap.Int(FieldStatus, code)
}

// Repository returns a field for the dispatch target.
func Repository(owner, repo string) zap.Field {
	return zap.String(FieldRepository, owner+"/"+repo)
}

// Backend returns a field for the record store backend.
func Backend(name string) zap.Field {
	return zap.String(FieldBackend, name)
}

// Duration returns a field for an elapsed time in milliseconds.
func Duration(d time.Duration) zap.Field {
	return zap.Int64(FieldDuration, d.Milliseconds())
}
