package payload

import (
	"strings"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/model"
)

// Markers that route a catalog item to the secure PHI archetype.
// Matching is a case-sensitive substring test.
var phiMarkers = []string{"PHI", "AVE"}

// Markers that route a catalog item to the cloud resource archetype.
var cloudMarkers = []string{"Cloud Resource", "Azure"}

// Classify maps a catalog item label to its archetype. PHI markers win;
// then cloud markers; everything else is standard_research.
func Classify(label string) model.Archetype {
	switch {
	case containsAny(label, phiMarkers):
		return model.ArchetypePHIAVE
	case containsAny(label, cloudMarkers):
		return model.ArchetypeCloudResource
	default:
		return model.ArchetypeStandardResearch
	}
}

func containsAny(label string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(label, marker) {
			return true
		}
	}
	return false
}
