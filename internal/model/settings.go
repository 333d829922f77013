package model

import (
	"fmt"
	"strings"
	"time"
)

// Repository_dispatch events the provisioning workflows listen for. They
// are fixed by the workflow definitions, not by operators.
const (
	EventType      = "provision-research-environment"
	CloudEventType = "provision-azure-resource"
)

// UserAgent identifies dispatch calls in the GitHub audit log.
const UserAgent = "ServiceNow-UMM-ResearchComputing"

// DefaultFallbackEmail is used when neither the PI nor the requester
// email can be resolved.
const DefaultFallbackEmail = "unknown@umich.edu"

// Secrets holds credentials resolved outside the YAML file.
type Secrets struct {
	GitHubPAT          string
	ServiceNowPassword string
	WebhookToken       string
}

// Settings is the configuration of a single invocation. It is built once
// at invocation start and passed by value to every component.
type Settings struct {
	Owner         string
	Repo          string
	APIBaseURL    string
	PAT           string
	UserAgent     string
	Timeout       time.Duration
	FallbackEmail string
}

// NewSettings snapshots cfg and secrets into an invocation Settings value.
func NewSettings(cfg *AppConfig, secrets Secrets) Settings {
	fallback := cfg.Identity.FallbackEmail
	if fallback == "" {
		fallback = DefaultFallbackEmail
	}
	return Settings{
		Owner:         cfg.GitHub.Owner,
		Repo:          cfg.GitHub.Repo,
		APIBaseURL:    strings.TrimRight(cfg.GitHub.APIBaseURL, "/"),
		PAT:           strings.TrimSpace(secrets.GitHubPAT),
		UserAgent:     UserAgent,
		Timeout:       time.Duration(cfg.GitHub.TimeoutSec) * time.Second,
		FallbackEmail: fallback,
	}
}

// Configured reports whether the dispatch credential is present.
func (s Settings) Configured() bool {
	return s.PAT != ""
}

// DispatchURL returns the repository_dispatch endpoint for the target repo.
func (s Settings) DispatchURL() string {
	return fmt.Sprintf("%s/repos/%s/%s/dispatches", s.APIBaseURL, s.Owner, s.Repo)
}

// RepoURL returns the repository endpoint used for connection checks.
func (s Settings) RepoURL() string {
	return fmt.Sprintf("%s/repos/%s/%s", s.APIBaseURL, s.Owner, s.Repo)
}
