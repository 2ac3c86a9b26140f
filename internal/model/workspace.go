package model

import "time"

type Workspace struct {
	ID        int64     `json:"id,string"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WorkspaceStats holds the per-tenant aggregate counts shown on the admin
// dashboard. Each count is computed independently, never via a join that
// could inflate rows.
type WorkspaceStats struct {
	MemberCount     int64 `json:"member_count"`
	ChallengeCount  int64 `json:"challenge_count"`
	EnrollmentCount int64 `json:"enrollment_count"`
}
