package servicenow

// Tables read and written by the adapter.
const (
	tableRequestItem = "sc_req_item"
	tableOptionLink  = "sc_item_option_mtom"
	tableUser        = "sys_user"
)

// RequestItem is a requested item (sc_req_item) with the dot-walked
// catalog item name.
type RequestItem struct {
	SysID           string `json:"sys_id"`
	Number          string `json:"number"`
	State           string `json:"state"`
	CatalogItemName string `json:"cat_item.name"`
}

// RequestItemResponse wraps a single requested item.
type RequestItemResponse struct {
	Result RequestItem `json:"result"`
}

// RequesterFields carries the dot-walked requester email of a requested item.
type RequesterFields struct {
	RequestSysID string `json:"request"`
	RequestedFor string `json:"request.requested_for"`
	Email        string `json:"request.requested_for.email"`
}

// RequesterResponse wraps RequesterFields.
type RequesterResponse struct {
	Result RequesterFields `json:"result"`
}

// OptionLink is one row of sc_item_option_mtom with the variable name
// and value dot-walked through sc_item_option.
type OptionLink struct {
	Option string `json:"sc_item_option"`
	Name   string `json:"sc_item_option.item_option_new.name"`
	Value  string `json:"sc_item_option.value"`
}

// OptionLinkListResponse wraps the join table rows of a requested item.
type OptionLinkListResponse struct {
	Result []OptionLink `json:"result"`
}

// User is a sys_user row.
type User struct {
	SysID    string `json:"sys_id"`
	UserName string `json:"user_name"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// UserResponse wraps a single user.
type UserResponse struct {
	Result User `json:"result"`
}

// UserListResponse wraps a list of users.
type UserListResponse struct {
	Result []User `json:"result"`
}

// WorkNotesUpdate is the PATCH body for the write-back.
type WorkNotesUpdate struct {
	WorkNotes string `json:"work_notes"`
}

// ErrorResponse is the standard Table API error format.
type ErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	} `json:"error"`
	Status string `json:"status"`
}
