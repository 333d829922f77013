package servicenow

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/model"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/source"
)

// Adapter implements source.RecordStore on top of the Table API.
type Adapter struct {
	client   *Client
	baseURL  string
	username string
}

// NewAdapter creates a new ServiceNow record store adapter.
func NewAdapter(
	baseURL string,
	username string,
	password string,
	timeout time.Duration,
) *Adapter {
	return &Adapter{
		client:   NewClient(baseURL, username, password, timeout),
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
	}
}

// Type returns the backend identifier for ServiceNow.
func (a *Adapter) Type() source.SourceType {
	return source.SourceTypeServiceNow
}

// ValidateConnection verifies credentials by reading the integration
// account's own sys_user row. Returns the account's display name.
func (a *Adapter) ValidateConnection(ctx context.Context) (string, error) {
	var resp UserListResponse
	path := tablePath(tableUser, "", url.Values{
		"sysparm_query":  {"user_name=" + a.username},
		"sysparm_fields": {"sys_id,user_name,name"},
		"sysparm_limit":  {"1"},
	})
	if err := a.client.Get(ctx, path, &resp); err != nil {
		return "", fmt.Errorf("validating ServiceNow connection: %w", err)
	}
	if len(resp.Result) == 0 {
		return a.username, nil
	}
	return resp.Result[0].Name, nil
}

// GetRecord loads a requested item by sys_id.
func (a *Adapter) GetRecord(ctx context.Context, ritmSysID string) (*model.Record, error) {
	if ritmSysID == "" {
		return nil, fmt.Errorf("requested item sys_id must not be empty")
	}

	var resp RequestItemResponse
	path := tablePath(tableRequestItem, ritmSysID, url.Values{
		"sysparm_fields": {"sys_id,number,state,cat_item.name"},
	})
	if err := a.client.Get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("getting requested item %s: %w", ritmSysID, err)
	}

	return &model.Record{
		SysID:       resp.Result.SysID,
		Number:      resp.Result.Number,
		CatalogItem: resp.Result.CatalogItemName,
		State:       resp.Result.State,
	}, nil
}

// GetRequestVariables reads every sc_item_option_mtom row linked to the
// requested item and maps variable name to value.
func (a *Adapter) GetRequestVariables(
	ctx context.Context,
	ritmSysID string,
) (model.Variables, error) {
	if ritmSysID == "" {
		return nil, fmt.Errorf("requested item sys_id must not be empty")
	}

	var resp OptionLinkListResponse
	path := tablePath(tableOptionLink, "", url.Values{
		"sysparm_query": {"request_item=" + ritmSysID},
		"sysparm_fields": {strings.Join([]string{
			"sc_item_option",
			"sc_item_option.item_option_new.name",
			"sc_item_option.value",
		}, ",")},
	})
	if err := a.client.Get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("getting variables for %s: %w", ritmSysID, err)
	}

	vars := make(model.Variables, len(resp.Result))
	for _, link := range resp.Result {
		if link.Option == "" || link.Name == "" {
			continue
		}
		vars[link.Name] = link.Value
	}
	return vars, nil
}

// LookupUserEmail returns the email of a sys_user.
func (a *Adapter) LookupUserEmail(ctx context.Context, userSysID string) (string, error) {
	if userSysID == "" {
		return "", fmt.Errorf("user sys_id: %w", source.ErrNotFound)
	}

	var resp UserResponse
	path := tablePath(tableUser, userSysID, url.Values{
		"sysparm_fields": {"sys_id,email"},
	})
	if err := a.client.Get(ctx, path, &resp); err != nil {
		return "", fmt.Errorf("getting user %s: %w", userSysID, err)
	}
	if resp.Result.Email == "" {
		return "", fmt.Errorf("user %s has no email: %w", userSysID, source.ErrNotFound)
	}
	return resp.Result.Email, nil
}

// RequesterEmail follows request.requested_for.email on the requested item.
func (a *Adapter) RequesterEmail(ctx context.Context, ritmSysID string) (string, error) {
	var resp RequesterResponse
	path := tablePath(tableRequestItem, ritmSysID, url.Values{
		"sysparm_fields": {"request,request.requested_for,request.requested_for.email"},
	})
	if err := a.client.Get(ctx, path, &resp); err != nil {
		return "", fmt.Errorf("getting requester of %s: %w", ritmSysID, err)
	}

	switch {
	case resp.Result.RequestSysID == "":
		return "", fmt.Errorf("%s has no parent request: %w", ritmSysID, source.ErrNotFound)
	case resp.Result.RequestedFor == "":
		return "", fmt.Errorf("request of %s has no requested_for: %w", ritmSysID, source.ErrNotFound)
	case resp.Result.Email == "":
		return "", fmt.Errorf("requester of %s has no email: %w", ritmSysID, source.ErrNotFound)
	}
	return resp.Result.Email, nil
}

// WriteWorkNotes overwrites the work_notes field of the requested item.
func (a *Adapter) WriteWorkNotes(ctx context.Context, ritmSysID string, note string) error {
	path := tablePath(tableRequestItem, ritmSysID, url.Values{
		"sysparm_fields": {"sys_id"},
	})
	if err := a.client.Patch(ctx, path, WorkNotesUpdate{WorkNotes: note}, nil); err != nil {
		return fmt.Errorf("writing work notes on %s: %w", ritmSysID, err)
	}
	return nil
}

// tablePath builds a Table API path. Reference fields are requested as
// plain sys_id strings so every column decodes as a string.
func tablePath(table, sysID string, params url.Values) string {
	path := "/api/now/table/" + table
	if sysID != "" {
		path += "/" + url.PathEscape(sysID)
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("sysparm_exclude_reference_link", "true")
	return path + "?" + params.Encode()
}
