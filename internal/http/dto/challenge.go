package dto

import (
	"time"

	"changemaker.app/server/internal/model"
)

type CreateChallengeRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=255"`
	Description string `json:"description" binding:"required,min=1,max=10000"`
}

type UpdateChallengeRequest struct {
	Title       *string `json:"title,omitempty" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=10000"`
}

type ChallengeResponse struct {
	ID          int64     `json:"id,string"`
	WorkspaceID int64     `json:"workspace_id,string"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToChallengeResponse(ch *model.Challenge) *ChallengeResponse {
	return &ChallengeResponse{
		ID:          ch.ID,
		WorkspaceID: ch.WorkspaceID,
		Title:       ch.Title,
		Description: ch.Description,
		CreatedAt:   ch.CreatedAt,
		UpdatedAt:   ch.UpdatedAt,
	}
}

func ToChallengeResponses(challenges []model.Challenge) []ChallengeResponse {
	out := make([]ChallengeResponse, len(challenges))
	for i := range challenges {
		out[i] = *ToChallengeResponse(&challenges[i])
	}
	return out
}
