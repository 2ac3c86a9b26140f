package model

import "time"

type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleParticipant Role = "PARTICIPANT"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleParticipant
}

// User is the internal record for an authenticated principal. ExternalID is
// the identity provider's user id and stays nil until the first sync.
// WorkspaceID is nil while the user belongs to no workspace; role only
// carries authority inside that workspace.
type User struct {
	ID          int64     `json:"id,string"`
	ExternalID  *string   `json:"external_id,omitempty"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
	WorkspaceID *int64    `json:"workspace_id,string,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// MemberOf reports whether the user belongs to the given workspace. A user
// belongs to at most one workspace, so membership is exact equality.
func (u *User) MemberOf(workspaceID int64) bool {
	return u.WorkspaceID != nil && *u.WorkspaceID == workspaceID
}
