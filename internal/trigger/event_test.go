package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/model"
)

func TestQualifies(t *testing.T) {
	cfg := model.DefaultAppConfig().Trigger

	snap := func(state, item string) Snapshot {
		return Snapshot{SysID: "sys1", Number: "RITM1", State: state, CatalogItem: item}
	}
	prev := func(state string) *PriorSnapshot {
		return &PriorSnapshot{State: state}
	}

	tests := []struct {
		name string
		ev   Event
		want bool
	}{
		{
			name: "standard enters in progress",
			ev:   Event{Current: snap("3", "Start Research Computing"), Previous: prev("1")},
			want: true,
		},
		{
			name: "phi enters in progress",
			ev:   Event{Current: snap("3", "Request Secure PHI Research (AVE)"), Previous: prev("2")},
			want: true,
		},
		{
			name: "insert directly in progress",
			ev:   Event{Current: snap("3", "Start Research Computing")},
			want: true,
		},
		{
			name: "already in progress",
			ev:   Event{Current: snap("3", "Start Research Computing"), Previous: prev("3")},
			want: false,
		},
		{
			name: "other state",
			ev:   Event{Current: snap("4", "Start Research Computing"), Previous: prev("3")},
			want: false,
		},
		{
			name: "cloud resource enters in progress",
			ev:   Event{Current: snap("3", "Request Azure Cloud Resource"), Previous: prev("1")},
			want: true,
		},
		{
			name: "other catalog item",
			ev:   Event{Current: snap("3", "Request Azure Resource"), Previous: prev("1")},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Qualifies(tt.ev, cfg))
		})
	}
}

func TestSnapshot_Record(t *testing.T) {
	s := Snapshot{SysID: "a", Number: "RITM2", State: "3", CatalogItem: "x"}
	assert.Equal(t, model.Record{SysID: "a", Number: "RITM2", State: "3", CatalogItem: "x"}, s.Record())
}
