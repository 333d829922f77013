package model

// Archetype classifies a request and drives which fields are sent to
// the provisioning workflow.
type Archetype string

const (
	ArchetypeStandardResearch Archetype = "standard_research"
	ArchetypePHIAVE           Archetype = "phi_ave"
	ArchetypeCloudResource    Archetype = "cloud_resource"
)

// Archetypes lists every archetype in classification order.
func Archetypes() []Archetype {
	return []Archetype{ArchetypeStandardResearch, ArchetypePHIAVE, ArchetypeCloudResource}
}

// DisplayName returns the label used in work notes.
func (a Archetype) DisplayName() string {
	switch a {
	case ArchetypePHIAVE:
		return "Secure PHI Research (AVE)"
	case ArchetypeCloudResource:
		return "Cloud Resource"
	default:
		return "Standard Research Computing"
	}
}

// Environment returns the target environment tag for the archetype.
func (a Archetype) Environment() string {
	if a == ArchetypePHIAVE {
		return "prod"
	}
	return "dev"
}
