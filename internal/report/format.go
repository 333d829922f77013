package report

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/model"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/payload"
)

// Note texts shown to requesters and fulfillers.
const (
	SuccessBanner      = "Provisioning workflow triggered successfully!"
	CloudSuccessBanner = "GitHub Actions workflow triggered successfully!"
	ConfigErrorNote    = "ERROR: GitHub integration not configured. Contact IT administrator."

	authFailedHeader     = "ERROR: GitHub authentication failed. Contact IT administrator."
	repoNotFoundHeader   = "ERROR: GitHub repository not found. Contact IT administrator."
	rejectedHeader       = "ERROR: Failed to trigger provisioning."
	transportErrorHeader = "ERROR: Exception during provisioning trigger."

	notAvailable = "N/A"
)

// FormatSuccess renders the note for an accepted dispatch.
func FormatSuccess(archetype model.Archetype, vars model.Variables) string {
	var b strings.Builder
	if archetype == model.ArchetypeCloudResource {
		b.WriteString(CloudSuccessBanner + "\n\n")
		fmt.Fprintf(&b, "Resource Type: %s\n", vars.Get("resource_type", notAvailable))
		fmt.Fprintf(&b, "Resource Name: %s\n", vars.Get("resource_name", notAvailable))
		fmt.Fprintf(&b, "Environment: %s\n\n", vars.Get("environment", "dev"))
		b.WriteString("Provisioning is in progress. You will be notified when complete.")
		return b.String()
	}

	b.WriteString(SuccessBanner + "\n\n")
	b.WriteString("Request Details:\n")
	fmt.Fprintf(&b, "- Type: %s\n", archetype.DisplayName())
	fmt.Fprintf(&b, "- Project: %s\n", vars.Get("project_name", notAvailable))

	if archetype == model.ArchetypePHIAVE {
		fmt.Fprintf(&b, "- IRB: %s\n", vars.Get("irb_number", notAvailable))
		fmt.Fprintf(&b, "- Access: %s\n\n", vars.Get("access_method", notAvailable))
		b.WriteString("Security Level: HIPAA Compliant\n")
		b.WriteString("Expected provisioning time: 15-30 minutes\n")
		b.WriteString("You will receive email updates throughout the process.")
		return b.String()
	}

	fmt.Fprintf(&b, "- Department: %s\n", vars.Get("department", notAvailable))
	fmt.Fprintf(&b, "- Workloads: %s\n\n", payload.WorkloadTypes(vars))
	b.WriteString("Expected provisioning time: 10-15 minutes\n")
	b.WriteString("You will receive an email when your environment is ready.")
	return b.String()
}

// FormatRejected renders the note for a dispatch answered with a
// non-success status. The body is echoed verbatim.
func FormatRejected(outcome model.Outcome) string {
	header := rejectedHeader
	switch outcome.Status {
	case http.StatusUnauthorized:
		header = authFailedHeader
	case http.StatusNotFound:
		header = repoNotFoundHeader
	}

	lines := []string{header, "Status: " + strconv.Itoa(outcome.Status)}
	if outcome.Body != "" {
		lines = append(lines, "Response: "+outcome.Body)
	}
	return strings.Join(lines, "\n")
}

// FormatOutcome picks the success or rejection note.
func FormatOutcome(archetype model.Archetype, vars model.Variables, outcome model.Outcome) string {
	if outcome.Success() {
		return FormatSuccess(archetype, vars)
	}
	return FormatRejected(outcome)
}

// FormatTransportFailure renders the note for a dispatch that never
// produced a response.
func FormatTransportFailure(err error) string {
	return transportErrorHeader + "\n" + err.Error()
}
