package admin

import "time"

// UserInfoResponse is the HTTP response DTO for one platform user.
type UserInfoResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Institution     string    `json:"institution,omitempty"`
	Role            string    `json:"role,omitempty"`
	ProfileComplete bool      `json:"profile_complete"`
	WantsToBeEditor bool      `json:"wants_to_be_editor"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UsersListResponse wraps the list of users for HTTP response.
type UsersListResponse struct {
	Users []*UserInfoResponse `json:"users"`
	Total int                 `json:"total"`
}

// AuditListResponse wraps recent audit events.
type AuditListResponse struct {
	Events any `json:"events"`
	Total  int `json:"total"`
}
