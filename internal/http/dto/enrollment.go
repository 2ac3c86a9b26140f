package dto

import (
	"time"

	"changemaker.app/server/internal/model"
)

type CreateEnrollmentRequest struct {
	ChallengeID int64 `json:"challenge_id,string" binding:"required"`
	// UserID lets an admin enroll another member; absent means self-enroll.
	UserID *int64 `json:"user_id,string,omitempty"`
}

type UpdateEnrollmentRequest struct {
	Status string `json:"status" binding:"required"`
}

type EnrollmentResponse struct {
	ID          int64     `json:"id,string"`
	UserID      int64     `json:"user_id,string"`
	ChallengeID int64     `json:"challenge_id,string"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToEnrollmentResponse(enr *model.Enrollment) *EnrollmentResponse {
	return &EnrollmentResponse{
		ID:          enr.ID,
		UserID:      enr.UserID,
		ChallengeID: enr.ChallengeID,
		Status:      string(enr.Status),
		CreatedAt:   enr.CreatedAt,
		UpdatedAt:   enr.UpdatedAt,
	}
}

func ToEnrollmentResponses(enrollments []model.Enrollment) []EnrollmentResponse {
	out := make([]EnrollmentResponse, len(enrollments))
	for i := range enrollments {
		out[i] = *ToEnrollmentResponse(&enrollments[i])
	}
	return out
}
