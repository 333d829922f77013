package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/model"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/payload"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/source"
)

// maxResponseSize caps how much of an error body is kept for reporting.
const maxResponseSize = 1 << 20

// Client issues repository_dispatch calls against the GitHub REST API.
// Unlike the record store client it never retries: a second POST would
// start a second provisioning run.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a dispatch client. A nil httpClient gets a default
// client with a 30 second timeout.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{httpClient: httpClient}
}

// Dispatch sends the payload to the repository_dispatch endpoint once.
// Every HTTP status is returned as an Outcome; only faults that prevent
// a response (serialization, network, timeout) are returned as errors.
func (c *Client) Dispatch(
	ctx context.Context,
	settings model.Settings,
	p payload.DispatchPayload,
) (model.Outcome, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return model.Outcome{}, fmt.Errorf("marshaling dispatch payload: %w", err)
	}

	if settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, settings.Timeout)
		defer cancel()
	}

	req, err := c.newRequest(ctx, settings, http.MethodPost, settings.DispatchURL(), bytes.NewReader(data))
	if err != nil {
		return model.Outcome{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Outcome{}, fmt.Errorf("sending dispatch to %s/%s: %w", settings.Owner, settings.Repo, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return model.Outcome{}, fmt.Errorf("reading dispatch response: %w", err)
	}

	return model.Outcome{
		Status: resp.StatusCode,
		Body:   string(body),
	}, nil
}

// ValidateConnection verifies the token can see the target repository.
// Returns the repository's full name on success.
func (c *Client) ValidateConnection(ctx context.Context, settings model.Settings) (string, error) {
	req, err := c.newRequest(ctx, settings, http.MethodGet, settings.RepoURL(), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request GET %s: %w", settings.RepoURL(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return "", &source.AuthError{
			SourceType: source.SourceTypeGitHub,
			Message:    "authentication failed (401): check the GitHub Personal Access Token",
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var ghErr ErrorResponse
		if json.Unmarshal(body, &ghErr) == nil && ghErr.Message != "" {
			return "", fmt.Errorf(
				"github API error (%d) on GET %s: %s",
				resp.StatusCode, settings.RepoURL(), ghErr.Message,
			)
		}
		return "", fmt.Errorf(
			"unexpected status %d on GET %s: %s",
			resp.StatusCode, settings.RepoURL(), string(body),
		)
	}

	var repo Repository
	if err := json.Unmarshal(body, &repo); err != nil {
		return "", fmt.Errorf("unmarshaling repository: %w", err)
	}
	return repo.FullName, nil
}

// newRequest builds a request carrying the fixed GitHub headers.
func (c *Client) newRequest(
	ctx context.Context,
	settings model.Settings,
	method string,
	url string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Authorization", "token "+settings.PAT)
	req.Header.Set("User-Agent", settings.UserAgent)
	return req, nil
}
