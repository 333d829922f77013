package model

import "net/http"

// Outcome is the result of a completed dispatch call. HTTP-level
// failures are represented here as data; only transport faults are
// returned as errors by the dispatch client.
type Outcome struct {
	// Status is the HTTP status code returned by the dispatch endpoint.
	Status int `json:"status"`

	// Body is the raw response body, kept verbatim for reporting.
	Body string `json:"body,omitempty"`
}

// Success reports whether the dispatch was accepted. GitHub answers
// 204 No Content; 200 is accepted as well.
func (o Outcome) Success() bool {
	return o.Status == http.StatusNoContent || o.Status == http.StatusOK
}

// Reason returns a short explanation for the well-known rejection
// statuses, or "" for everything else.
func (o Outcome) Reason() string {
	switch o.Status {
	case http.StatusUnauthorized:
		return "authentication failed"
	case http.StatusNotFound:
		return "repository not found"
	default:
		return ""
	}
}
