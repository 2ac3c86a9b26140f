package store

import (
	"context"
	"errors"

	"changemaker.app/server/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist. Entities
// that exist in another workspace are reported the same way, so callers can
// never distinguish "absent" from "not yours".
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert violates a uniqueness constraint.
var ErrConflict = errors.New("already exists")

// UserStore defines the contract for user data access
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// UpsertByExternalID atomically creates or refreshes the user keyed by
	// the unique external id. Role is only overwritten when updateRole is
	// set. The user's fields are replaced with the stored row.
	UpsertByExternalID(ctx context.Context, user *model.User, updateRole bool) error
	SetWorkspace(ctx context.Context, userID int64, workspaceID *int64) error
	UpdateRole(ctx context.Context, userID int64, role model.Role) error
	ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.User, error)
	CountByWorkspace(ctx context.Context, workspaceID int64) (int64, error)
	DetachFromWorkspace(ctx context.Context, workspaceID int64) error
}

// WorkspaceStore defines the contract for workspace data access
type WorkspaceStore interface {
	GetByID(ctx context.Context, id int64) (*model.Workspace, error)
	GetBySlug(ctx context.Context, slug string) (*model.Workspace, error)
	Create(ctx context.Context, ws *model.Workspace) error
	UpdateName(ctx context.Context, id int64, name string) (*model.Workspace, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]model.Workspace, error)
}

// ChallengeStore defines the contract for challenge data access. Every
// operation takes the owning workspace id and applies it in the query
// filter; this is the tenant-isolation invariant, not an optimization.
type ChallengeStore interface {
	Get(ctx context.Context, workspaceID, id int64) (*model.Challenge, error)
	ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.Challenge, error)
	Create(ctx context.Context, ch *model.Challenge) error
	Update(ctx context.Context, ch *model.Challenge) error
	Delete(ctx context.Context, workspaceID, id int64) error
	CountByWorkspace(ctx context.Context, workspaceID int64) (int64, error)
	DeleteByWorkspace(ctx context.Context, workspaceID int64) error
}

// EnrollmentStore defines the contract for enrollment data access.
// Enrollments carry no workspace id; every scoped query here joins through
// challenges.workspace_id. All enrollment SQL lives in this store so the
// join can never be forgotten at a call site.
type EnrollmentStore interface {
	Get(ctx context.Context, workspaceID, id int64) (*model.Enrollment, error)
	GetByUserAndChallenge(ctx context.Context, userID, challengeID int64) (*model.Enrollment, error)
	ListForUser(ctx context.Context, workspaceID, userID int64) ([]model.Enrollment, error)
	ListForWorkspace(ctx context.Context, workspaceID int64) ([]model.Enrollment, error)
	Create(ctx context.Context, e *model.Enrollment) error
	UpdateStatus(ctx context.Context, workspaceID, id int64, status model.EnrollmentStatus) (*model.Enrollment, error)
	Delete(ctx context.Context, workspaceID, id int64) error
	DeleteByChallenge(ctx context.Context, workspaceID, challengeID int64) error
	DeleteByWorkspace(ctx context.Context, workspaceID int64) error
	CountByWorkspace(ctx context.Context, workspaceID int64) (int64, error)
}

// SessionStore defines the contract for session data access. Sessions are
// addressed by their bearer token, never by the surrogate row id.
type SessionStore interface {
	GetValid(ctx context.Context, token string) (*model.Session, error) // checks expiry
	Create(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) error
}
