package payload

import (
	"encoding/json"
	"fmt"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/model"
)

// Tier-one defaults.
const (
	DefaultProjectName = "research-project"
	DefaultDepartment  = "research"
)

// Summary carries the record-derived inputs of a payload.
type Summary struct {
	TicketNumber          string
	PrincipalInvestigator string
}

// Builder assembles dispatch payloads from per-archetype policies.
type Builder struct {
	eventType string
	policies  map[model.Archetype]Policy
}

// NewBuilder validates the policies and returns a builder for eventType.
func NewBuilder(eventType string, policies []Policy) (*Builder, error) {
	b := &Builder{
		eventType: eventType,
		policies:  make(map[model.Archetype]Policy, len(policies)),
	}
	for _, p := range policies {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := b.policies[p.Archetype]; dup {
			return nil, fmt.Errorf("duplicate policy for %s", p.Archetype)
		}
		b.policies[p.Archetype] = p
	}
	return b, nil
}

// NewDefaultBuilder returns a builder using DefaultPolicies.
func NewDefaultBuilder() *Builder {
	b, err := NewBuilder(model.EventType, DefaultPolicies())
	if err != nil {
		panic(fmt.Sprintf("payload: default policies: %v", err))
	}
	return b
}

// Build assembles the payload. It never fails: an archetype without a
// policy gets the common fields and an extra_data holding only the
// schema version.
func (b *Builder) Build(
	archetype model.Archetype,
	vars model.Variables,
	summary Summary,
) DispatchPayload {
	cp := ClientPayload{
		TicketNumber:          summary.TicketNumber,
		RequestType:           string(archetype),
		ProjectName:           vars.Get("project_name", DefaultProjectName),
		PrincipalInvestigator: summary.PrincipalInvestigator,
		Department:            vars.Get("department", DefaultDepartment),
		CostCenter:            vars.FirstOf("", "grant_code", "funding_source", "cost_center"),
	}

	extra := map[string]string{FieldSchemaVersion: SchemaVersion}

	policy := b.policies[archetype]
	for i, rule := range policy.Promoted {
		if i < SlotCount {
			cp.Slots[i] = Field{Name: rule.Name, Value: rule.Value(vars, summary)}
			continue
		}
		extra[rule.Name] = rule.Value(vars, summary)
	}
	for _, rule := range policy.Folded {
		extra[rule.Name] = rule.Value(vars, summary)
	}

	// A map[string]string always marshals.
	data, _ := json.Marshal(extra)
	cp.ExtraData = string(data)

	eventType := b.eventType
	if policy.EventType != "" {
		eventType = policy.EventType
	}

	return DispatchPayload{
		EventType:     eventType,
		ClientPayload: cp,
	}
}

// Policy returns the policy registered for archetype.
func (b *Builder) Policy(archetype model.Archetype) (Policy, bool) {
	p, ok := b.policies[archetype]
	return p, ok
}
