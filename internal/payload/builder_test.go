package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/model"
)

func wireFields(t *testing.T, p DispatchPayload) map[string]interface{} {
	t.Helper()
	data, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded struct {
		EventType     string                 `json:"event_type"`
		ClientPayload map[string]interface{} `json:"client_payload"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, p.EventType, decoded.EventType)
	return decoded.ClientPayload
}

func TestBuild_StandardResearch(t *testing.T) {
	b := NewDefaultBuilder()
	vars := model.Variables{
		"project_name":         "GenomeX",
		"department":           "Bio",
		"workload_ml":          "true",
		"funding_source":       "NIH-R01",
		"expected_end_date":    "2027-06-30",
		"workload_statistical": "false",
	}

	p := b.Build(model.ArchetypeStandardResearch, vars, Summary{
		TicketNumber:          "RITM0010001",
		PrincipalInvestigator: "pi@umich.edu",
	})

	assert.Equal(t, model.EventType, p.EventType)
	fields := wireFields(t, p)
	assert.Len(t, fields, 9)
	assert.Equal(t, "RITM0010001", fields["ticket_number"])
	assert.Equal(t, "standard_research", fields["request_type"])
	assert.Equal(t, "GenomeX", fields["project_name"])
	assert.Equal(t, "pi@umich.edu", fields["principal_investigator"])
	assert.Equal(t, "Bio", fields["department"])
	assert.Equal(t, "NIH-R01", fields["cost_center"])
	assert.Equal(t, "ml", fields["workload_types"])
	assert.Equal(t, "dev", fields["environment"])

	extra, err := p.ClientPayload.Extra()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"schema_version":    SchemaVersion,
		"data_type":         "non_phi",
		"expected_end_date": "2027-06-30",
		"additional_users":  "",
		"environment":       "dev",
		"security_level":    "standard",
	}, extra)
}

func TestBuild_PHIAVE(t *testing.T) {
	b := NewDefaultBuilder()
	vars := model.Variables{
		"irb_number": "HUM00012345",
		"irb_status": "approved",
		"grant_code": "G-77",
	}

	p := b.Build(model.ArchetypePHIAVE, vars, Summary{TicketNumber: "RITM0010002"})

	assert.Equal(t, model.EventType, p.EventType)
	fields := wireFields(t, p)
	assert.Len(t, fields, 10)
	assert.Equal(t, "phi_ave", fields["request_type"])
	assert.Equal(t, "research-project", fields["project_name"])
	assert.Equal(t, "research", fields["department"])
	assert.Equal(t, "G-77", fields["cost_center"])
	assert.Equal(t, "HUM00012345", fields["irb_number"])
	assert.Equal(t, "both", fields["access_method"])
	assert.Equal(t, "prod", fields["environment"])
	assert.NotContains(t, fields, "irb_status")

	extra, err := DecodeExtraData(fields["extra_data"].(string))
	require.NoError(t, err)
	assert.Equal(t, "approved", extra["irb_status"])
	assert.Equal(t, "6_months", extra["expected_duration"])
	assert.Equal(t, "90_days", extra["data_retention"])
	assert.Equal(t, "hipaa", extra["security_level"])
	assert.Equal(t, "phi", extra["data_classification"])
	assert.Equal(t, SchemaVersion, extra["schema_version"])
}

func TestBuild_FieldCountNeverExceedsCeiling(t *testing.T) {
	b := NewDefaultBuilder()

	// Every known variable set, plus a pile of unknown ones.
	full := model.Variables{
		"project_name": "p", "department": "d", "grant_code": "g", "funding_source": "f",
		"workload_statistical": "true", "workload_imaging": "true", "workload_ml": "true",
		"workload_data_prep": "true", "workload_unsure": "true",
		"data_type": "x", "expected_end_date": "x", "additional_users": "x",
		"irb_number": "x", "irb_status": "x", "access_method": "x",
		"expected_duration": "x", "data_retention": "x",
		"resource_type": "x", "resource_name": "x", "environment": "x", "cost_center": "x",
		"vm_size": "x", "os_type": "x", "storage_tier": "x", "replication": "x",
		"pricing_tier": "x", "data_classification": "x",
	}
	for i := 0; i < 50; i++ {
		full[fmt.Sprintf("custom_%d", i)] = "v"
	}

	for _, archetype := range append(model.Archetypes(), model.Archetype("unknown")) {
		for _, vars := range []model.Variables{nil, {}, full} {
			p := b.Build(archetype, vars, Summary{})
			assert.LessOrEqual(t, len(wireFields(t, p)), MaxFields, "archetype %s", archetype)
			assert.LessOrEqual(t, len(p.ClientPayload.Fields()), MaxFields)
		}
	}
}

func TestBuild_CloudResourceAllFields(t *testing.T) {
	b := NewDefaultBuilder()
	vars := model.Variables{
		"resource_type":       "virtual_machine",
		"resource_name":       "lab-vm-01",
		"environment":         "test",
		"cost_center":         "CC-1234",
		"vm_size":             "Standard_D4s_v3",
		"os_type":             "windows",
		"storage_tier":        "Premium",
		"replication":         "GRS",
		"pricing_tier":        "premium",
		"data_classification": "confidential",
		"project_name":        "LabVM",
		"department":          "Radiology",
	}

	p := b.Build(model.ArchetypeCloudResource, vars, Summary{
		TicketNumber:          "RITM0010003",
		PrincipalInvestigator: "requester@umich.edu",
	})

	assert.Equal(t, model.CloudEventType, p.EventType)
	fields := wireFields(t, p)
	assert.LessOrEqual(t, len(fields), MaxFields)
	assert.Len(t, fields, 10)
	assert.Equal(t, "cloud_resource", fields["request_type"])
	assert.Equal(t, "CC-1234", fields["cost_center"])
	assert.Equal(t, "virtual_machine", fields["resource_type"])
	assert.Equal(t, "lab-vm-01", fields["resource_name"])
	assert.Equal(t, "test", fields["environment"])
	assert.NotContains(t, fields, "vm_size")

	extra, err := p.ClientPayload.Extra()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"schema_version":      SchemaVersion,
		"requested_by":        "requester@umich.edu",
		"environment":         "test",
		"vm_size":             "Standard_D4s_v3",
		"os_type":             "windows",
		"storage_tier":        "Premium",
		"replication":         "GRS",
		"pricing_tier":        "premium",
		"data_classification": "confidential",
	}, extra)
}

func TestBuild_CloudResourceDefaults(t *testing.T) {
	p := NewDefaultBuilder().Build(model.ArchetypeCloudResource, model.Variables{}, Summary{})

	fields := wireFields(t, p)
	assert.Equal(t, "dev", fields["environment"])
	assert.Equal(t, "", fields["cost_center"])

	extra, err := p.ClientPayload.Extra()
	require.NoError(t, err)
	assert.Equal(t, "Standard_D2s_v3", extra["vm_size"])
	assert.Equal(t, "ubuntu", extra["os_type"])
	assert.Equal(t, "Standard", extra["storage_tier"])
	assert.Equal(t, "LRS", extra["replication"])
	assert.Equal(t, "standard", extra["pricing_tier"])
	assert.Equal(t, "internal", extra["data_classification"])
}

func TestPolicy_Names(t *testing.T) {
	b := NewDefaultBuilder()
	policy, ok := b.Policy(model.ArchetypeCloudResource)
	require.True(t, ok)

	assert.Equal(t, []string{"resource_type", "resource_name", "environment"}, policy.PromotedNames())
	assert.Equal(t, "requested_by", policy.FoldedNames()[0])
	assert.Contains(t, policy.FoldedNames(), "vm_size")

	overflow := Policy{Promoted: []FieldRule{Fixed("a", ""), Fixed("b", ""), Fixed("c", ""), Fixed("d", "")}}
	assert.Equal(t, []string{"a", "b", "c"}, overflow.PromotedNames())
	assert.Equal(t, []string{"d"}, overflow.FoldedNames())

	_, ok = b.Policy(model.Archetype("unknown"))
	assert.False(t, ok)
}

func TestBuild_OverflowingPromotionsAreFolded(t *testing.T) {
	policy := Policy{
		Archetype: model.ArchetypeStandardResearch,
		Promoted: []FieldRule{
			Fixed("a", "1"),
			Fixed("b", "2"),
			Fixed("c", "3"),
			Fixed("d", "4"),
			FromVariable("e", "five"),
		},
	}
	b, err := NewBuilder(model.EventType, []Policy{policy})
	require.NoError(t, err)

	p := b.Build(model.ArchetypeStandardResearch, model.Variables{}, Summary{})
	fields := wireFields(t, p)

	assert.Len(t, fields, MaxFields)
	assert.Contains(t, fields, "c")
	assert.NotContains(t, fields, "d")

	extra, err := p.ClientPayload.Extra()
	require.NoError(t, err)
	assert.Equal(t, "4", extra["d"])
	assert.Equal(t, "five", extra["e"])
}

func TestBuild_UnknownArchetype(t *testing.T) {
	p := NewDefaultBuilder().Build(model.Archetype("azure_resource"), model.Variables{}, Summary{})

	fields := wireFields(t, p)
	assert.Len(t, fields, 7)

	extra, err := p.ClientPayload.Extra()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"schema_version": SchemaVersion}, extra)
}

func TestBuild_WireOrder(t *testing.T) {
	p := NewDefaultBuilder().Build(model.ArchetypePHIAVE, model.Variables{}, Summary{})

	data, err := json.Marshal(p.ClientPayload)
	require.NoError(t, err)

	var names []string
	dec := json.NewDecoder(bytes.NewReader(data))
	_, err = dec.Token()
	require.NoError(t, err)
	for dec.More() {
		tok, err := dec.Token()
		require.NoError(t, err)
		names = append(names, tok.(string))
		_, err = dec.Token()
		require.NoError(t, err)
	}

	assert.Equal(t, []string{
		"ticket_number", "request_type", "project_name", "principal_investigator",
		"department", "cost_center", "irb_number", "access_method", "environment", "extra_data",
	}, names)
}

func TestNewBuilder_RejectsInvalidPolicies(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
	}{
		{"shadows common field", Policy{Archetype: "x", Promoted: []FieldRule{Fixed("project_name", "p")}}},
		{"shadows extra_data", Policy{Archetype: "x", Promoted: []FieldRule{Fixed("extra_data", "p")}}},
		{"duplicate promotion", Policy{Archetype: "x", Promoted: []FieldRule{Fixed("a", "1"), Fixed("a", "2")}}},
		{"unnamed folded rule", Policy{Archetype: "x", Folded: []FieldRule{Fixed("", "1")}}},
		{"folded schema_version", Policy{Archetype: "x", Folded: []FieldRule{Fixed("schema_version", "9")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBuilder(model.EventType, []Policy{tt.policy})
			assert.Error(t, err)
		})
	}

	_, err := NewBuilder(model.EventType, []Policy{{Archetype: "x"}, {Archetype: "x"}})
	assert.Error(t, err)
}

func TestClientPayload_Get(t *testing.T) {
	p := NewDefaultBuilder().Build(model.ArchetypeStandardResearch, model.Variables{}, Summary{})

	v, ok := p.ClientPayload.Get("workload_types")
	assert.True(t, ok)
	assert.Equal(t, "general", v)

	_, ok = p.ClientPayload.Get("irb_number")
	assert.False(t, ok)
}
