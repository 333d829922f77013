package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		label string
		want  model.Archetype
	}{
		{"Request Secure PHI Research (AVE)", model.ArchetypePHIAVE},
		{"Start Research Computing", model.ArchetypeStandardResearch},
		{"PHI only", model.ArchetypePHIAVE},
		{"AVE workspace", model.ArchetypePHIAVE},
		{"Secure phi research", model.ArchetypeStandardResearch},
		{"Request Azure Cloud Resource", model.ArchetypeCloudResource},
		{"Request Azure Resource", model.ArchetypeCloudResource},
		{"Cloud Resource Request", model.ArchetypeCloudResource},
		{"Azure PHI enclave", model.ArchetypePHIAVE},
		{"", model.ArchetypeStandardResearch},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.label))
		})
	}
}

func TestWorkloadTypes(t *testing.T) {
	tests := []struct {
		name string
		vars model.Variables
		want string
	}{
		{
			name: "statistical and ml",
			vars: model.Variables{"workload_statistical": "true", "workload_ml": "true"},
			want: "statistical,ml",
		},
		{
			name: "no flags",
			vars: model.Variables{},
			want: "general",
		},
		{
			name: "non-true value ignored",
			vars: model.Variables{"workload_imaging": "yes"},
			want: "general",
		},
		{
			name: "all flags in fixed order",
			vars: model.Variables{
				"workload_unsure":      "true",
				"workload_data_prep":   "true",
				"workload_ml":          "true",
				"workload_imaging":     "true",
				"workload_statistical": "true",
			},
			want: "statistical,imaging,ml,data_prep,recommend",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WorkloadTypes(tt.vars))
		})
	}
}
