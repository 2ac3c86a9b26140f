package model

import (
	"fmt"
	"strings"
	"time"
)

type EnrollmentStatus string

const (
	EnrollmentStatusPending   EnrollmentStatus = "pending"
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
	EnrollmentStatusWithdrawn EnrollmentStatus = "withdrawn"
)

// ParseEnrollmentStatus normalizes free-form input into the closed status
// enumeration. Casing is normalized; anything outside the enumeration is
// rejected.
func ParseEnrollmentStatus(s string) (EnrollmentStatus, error) {
	status := EnrollmentStatus(strings.ToLower(strings.TrimSpace(s)))
	switch status {
	case EnrollmentStatusPending, EnrollmentStatusActive,
		EnrollmentStatusCompleted, EnrollmentStatusWithdrawn:
		return status, nil
	}
	return "", fmt.Errorf("unknown enrollment status %q", s)
}

// Enrollment records a user's participation in a challenge. It carries no
// workspace id of its own; tenant scoping is derived from the owning
// challenge.
type Enrollment struct {
	ID          int64            `json:"id,string"`
	UserID      int64            `json:"user_id,string"`
	ChallengeID int64            `json:"challenge_id,string"`
	Status      EnrollmentStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
