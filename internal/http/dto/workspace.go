package dto

import (
	"time"

	"changemaker.app/server/internal/model"
)

type CreateWorkspaceRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
	Slug string `json:"slug" binding:"required,min=2,max=50"`
}

type UpdateWorkspaceRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
}

type WorkspaceResponse struct {
	ID        int64     `json:"id,string"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type WorkspaceStatsResponse struct {
	MemberCount     int64 `json:"member_count"`
	ChallengeCount  int64 `json:"challenge_count"`
	EnrollmentCount int64 `json:"enrollment_count"`
}

func ToWorkspaceResponse(ws *model.Workspace) *WorkspaceResponse {
	return &WorkspaceResponse{
		ID:        ws.ID,
		Name:      ws.Name,
		Slug:      ws.Slug,
		CreatedAt: ws.CreatedAt,
		UpdatedAt: ws.UpdatedAt,
	}
}

func ToWorkspaceStatsResponse(stats *model.WorkspaceStats) *WorkspaceStatsResponse {
	return &WorkspaceStatsResponse{
		MemberCount:     stats.MemberCount,
		ChallengeCount:  stats.ChallengeCount,
		EnrollmentCount: stats.EnrollmentCount,
	}
}
