package dto

import (
	"strconv"
	"time"

	"changemaker.app/server/internal/model"
)

type UserResponse struct {
	ID          int64     `json:"id,string"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	WorkspaceID *string   `json:"workspace_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToUserResponse(u *model.User) *UserResponse {
	resp := &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.WorkspaceID != nil {
		wsID := strconv.FormatInt(*u.WorkspaceID, 10)
		resp.WorkspaceID = &wsID
	}
	return resp
}

func ToUserResponses(users []model.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = *ToUserResponse(&users[i])
	}
	return out
}
