package payload

import (
	"fmt"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/model"
)

// FieldRule produces one archetype-specific attribute from the request
// variables.
type FieldRule struct {
	Name    string
	resolve func(model.Variables, Summary) string
}

// Value evaluates the rule against vars and the record summary.
func (r FieldRule) Value(vars model.Variables, summary Summary) string {
	if r.resolve == nil {
		return ""
	}
	return r.resolve(vars, summary)
}

// FromVariable copies a variable of the same name, or def when the
// variable is absent or empty.
func FromVariable(name, def string) FieldRule {
	return FieldRule{
		Name: name,
		resolve: func(vars model.Variables, _ Summary) string {
			return vars.Get(name, def)
		},
	}
}

// Fixed always yields value.
func Fixed(name, value string) FieldRule {
	return FieldRule{
		Name:    name,
		resolve: func(model.Variables, Summary) string { return value },
	}
}

// Derived computes the value with fn.
func Derived(name string, fn func(model.Variables) string) FieldRule {
	return FieldRule{
		Name:    name,
		resolve: func(vars model.Variables, _ Summary) string { return fn(vars) },
	}
}

// Requester yields the resolved identity of the record.
func Requester(name string) FieldRule {
	return FieldRule{
		Name:    name,
		resolve: func(_ model.Variables, s Summary) string { return s.PrincipalInvestigator },
	}
}

// Policy assigns an archetype's attributes to tiers. Promoted rules fill
// the top-level slots in order; anything past SlotCount is folded along
// with the Folded rules into extra_data. An empty EventType uses the
// builder's default.
type Policy struct {
	Archetype model.Archetype
	EventType string
	Promoted  []FieldRule
	Folded    []FieldRule
}

// PromotedNames returns the names of the rules that fit a slot.
func (p Policy) PromotedNames() []string {
	names := make([]string, 0, SlotCount)
	for i, r := range p.Promoted {
		if i == SlotCount {
			break
		}
		names = append(names, r.Name)
	}
	return names
}

// FoldedNames returns the names written into extra_data, overflow first.
func (p Policy) FoldedNames() []string {
	var names []string
	if len(p.Promoted) > SlotCount {
		for _, r := range p.Promoted[SlotCount:] {
			names = append(names, r.Name)
		}
	}
	for _, r := range p.Folded {
		names = append(names, r.Name)
	}
	return names
}

// Validate rejects rules that would shadow a fixed field or repeat a
// promoted name.
func (p Policy) Validate() error {
	reserved := map[string]bool{
		FieldTicketNumber:          true,
		FieldRequestType:           true,
		FieldProjectName:           true,
		FieldPrincipalInvestigator: true,
		FieldDepartment:            true,
		FieldCostCenter:            true,
		FieldExtraData:             true,
	}

	seen := make(map[string]bool, len(p.Promoted))
	for _, r := range p.Promoted {
		switch {
		case r.Name == "":
			return fmt.Errorf("policy %s: promoted rule without a name", p.Archetype)
		case reserved[r.Name]:
			return fmt.Errorf("policy %s: %q is a reserved field", p.Archetype, r.Name)
		case seen[r.Name]:
			return fmt.Errorf("policy %s: %q promoted twice", p.Archetype, r.Name)
		}
		seen[r.Name] = true
	}

	for _, r := range p.Folded {
		if r.Name == "" {
			return fmt.Errorf("policy %s: folded rule without a name", p.Archetype)
		}
		if r.Name == FieldSchemaVersion {
			return fmt.Errorf("policy %s: %q is reserved in extra_data", p.Archetype, r.Name)
		}
	}
	return nil
}

// DefaultPolicies returns the field layout the provisioning workflows
// currently read. environment is both promoted and folded so workflows
// reading either location keep working.
func DefaultPolicies() []Policy {
	return []Policy{
		{
			Archetype: model.ArchetypeStandardResearch,
			Promoted: []FieldRule{
				Derived("workload_types", WorkloadTypes),
				Fixed("environment", "dev"),
			},
			Folded: []FieldRule{
				FromVariable("data_type", "non_phi"),
				FromVariable("expected_end_date", ""),
				FromVariable("additional_users", ""),
				Fixed("environment", "dev"),
				Fixed("security_level", "standard"),
			},
		},
		{
			Archetype: model.ArchetypePHIAVE,
			Promoted: []FieldRule{
				FromVariable("irb_number", ""),
				FromVariable("access_method", "both"),
				Fixed("environment", "prod"),
			},
			Folded: []FieldRule{
				FromVariable("irb_status", ""),
				FromVariable("expected_duration", "6_months"),
				FromVariable("data_retention", "90_days"),
				Fixed("environment", "prod"),
				Fixed("security_level", "hipaa"),
				Fixed("data_classification", "phi"),
			},
		},
		{
			Archetype: model.ArchetypeCloudResource,
			EventType: model.CloudEventType,
			Promoted: []FieldRule{
				FromVariable("resource_type", ""),
				FromVariable("resource_name", ""),
				FromVariable("environment", "dev"),
			},
			Folded: []FieldRule{
				Requester("requested_by"),
				FromVariable("environment", "dev"),
				FromVariable("vm_size", "Standard_D2s_v3"),
				FromVariable("os_type", "ubuntu"),
				FromVariable("storage_tier", "Standard"),
				FromVariable("replication", "LRS"),
				FromVariable("pricing_tier", "standard"),
				FromVariable("data_classification", "internal"),
			},
		},
	}
}
