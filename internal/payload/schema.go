package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SchemaVersion identifies the client_payload layout. It is written into
// extra_data so workflows can reject a layout they were not built for.
// Bump it whenever a field moves between tiers.
const SchemaVersion = "3"

// MaxFields is the receiving API's ceiling on client_payload properties.
const MaxFields = 10

// SlotCount is the number of archetype-specific top-level fields.
const SlotCount = 3

// Field names of the fixed layout.
const (
	FieldTicketNumber          = "ticket_number"
	FieldRequestType           = "request_type"
	FieldProjectName           = "project_name"
	FieldPrincipalInvestigator = "principal_investigator"
	FieldDepartment            = "department"
	FieldCostCenter            = "cost_center"
	FieldExtraData             = "extra_data"
	FieldSchemaVersion         = "schema_version"
)

// tierOneCount is the number of always-present common fields.
const tierOneCount = 6

// Compile-time guard: the layout can never exceed the ceiling.
var _ [MaxFields - tierOneCount - SlotCount - 1]struct{}

// Field is one top-level client_payload property.
type Field struct {
	Name  string
	Value string
}

// ClientPayload is the versioned client_payload contract: six common
// fields, up to SlotCount archetype fields, and extra_data holding every
// other attribute as a JSON object string.
type ClientPayload struct {
	TicketNumber          string
	RequestType           string
	ProjectName           string
	PrincipalInvestigator string
	Department            string
	CostCenter            string

	// Slots holds the promoted archetype fields. Slots with an empty Name
	// are omitted from the wire form.
	Slots [SlotCount]Field

	// ExtraData is the serialized overflow document. Always present.
	ExtraData string
}

// Fields returns the top-level properties in wire order.
func (p ClientPayload) Fields() []Field {
	fields := make([]Field, 0, MaxFields)
	fields = append(fields,
		Field{FieldTicketNumber, p.TicketNumber},
		Field{FieldRequestType, p.RequestType},
		Field{FieldProjectName, p.ProjectName},
		Field{FieldPrincipalInvestigator, p.PrincipalInvestigator},
		Field{FieldDepartment, p.Department},
		Field{FieldCostCenter, p.CostCenter},
	)
	for _, slot := range p.Slots {
		if slot.Name != "" {
			fields = append(fields, slot)
		}
	}
	fields = append(fields, Field{FieldExtraData, p.ExtraData})
	return fields
}

// Get returns the value of a top-level property by name.
func (p ClientPayload) Get(name string) (string, bool) {
	for _, f := range p.Fields() {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Extra decodes the extra_data document.
func (p ClientPayload) Extra() (map[string]string, error) {
	return DecodeExtraData(p.ExtraData)
}

// MarshalJSON writes the properties as a flat object in wire order.
func (p ClientPayload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range p.Fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, fmt.Errorf("marshaling field name %q: %w", f.Name, err)
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("marshaling field %q: %w", f.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DispatchPayload is the repository_dispatch request body.
type DispatchPayload struct {
	EventType     string        `json:"event_type"`
	ClientPayload ClientPayload `json:"client_payload"`
}

// DecodeExtraData parses an extra_data string into its fields.
func DecodeExtraData(s string) (map[string]string, error) {
	out := make(map[string]string)
	if s == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("decoding extra_data: %w", err)
	}
	return out, nil
}
