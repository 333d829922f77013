package github

// Repository is the subset of GET /repos/{owner}/{repo} used for
// connection checks.
type Repository struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Private  bool   `json:"private"`
}

// ErrorResponse is the standard GitHub error body.
type ErrorResponse struct {
	Message          string `json:"message"`
	DocumentationURL string `json:"documentation_url"`
}
