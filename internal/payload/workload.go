package payload

import (
	"strings"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/model"
)

// GeneralWorkload is reported when no workload flag is set.
const GeneralWorkload = "general"

// workloadFlags maps checkbox variables to workload labels, in output order.
var workloadFlags = []struct {
	variable string
	label    string
}{
	{"workload_statistical", "statistical"},
	{"workload_imaging", "imaging"},
	{"workload_ml", "ml"},
	{"workload_data_prep", "data_prep"},
	{"workload_unsure", "recommend"},
}

// WorkloadTypes derives the comma-separated workload summary. A flag
// counts only when its value is exactly "true".
func WorkloadTypes(vars model.Variables) string {
	var labels []string
	for _, f := range workloadFlags {
		if vars.IsTrue(f.variable) {
			labels = append(labels, f.label)
		}
	}
	if len(labels) == 0 {
		return GeneralWorkload
	}
	return strings.Join(labels, ",")
}
