package service

import (
	"context"
	"errors"
	"fmt"

	"changemaker.app/server/internal/model"
	"changemaker.app/server/internal/store"
)

// AccessGuard decides, per request, whether an authenticated principal may
// act in a workspace. The guarantees strictly nest: admin implies member
// implies authenticated. Decisions are never cached between requests.
type AccessGuard interface {
	// RequireMember resolves the slug and denies unless the principal's
	// workspace is exactly the resolved one.
	RequireMember(ctx context.Context, principal *model.User, slug string) (*model.Workspace, error)
	// RequireAdmin composes RequireMember, then re-reads the principal's
	// role from the store. A session minted before a demotion therefore
	// loses admin authority immediately.
	RequireAdmin(ctx context.Context, principal *model.User, slug string) (*model.Workspace, error)
}

type accessGuard struct {
	userStore      store.UserStore
	workspaceStore store.WorkspaceStore
}

func NewAccessGuard(userStore store.UserStore, workspaceStore store.WorkspaceStore) AccessGuard {
	return &accessGuard{
		userStore:      userStore,
		workspaceStore: workspaceStore,
	}
}

func (g *accessGuard) RequireMember(ctx context.Context, principal *model.User, slug string) (*model.Workspace, error) {
	workspace, err := g.workspaceStore.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("resolving workspace: %w", err)
	}

	if !principal.MemberOf(workspace.ID) {
		return nil, ErrNotMember
	}

	return workspace, nil
}

func (g *accessGuard) RequireAdmin(ctx context.Context, principal *model.User, slug string) (*model.Workspace, error) {
	workspace, err := g.RequireMember(ctx, principal, slug)
	if err != nil {
		return nil, err
	}

	// Re-verify against the durable store rather than the session-carried
	// principal: the role claim can lag behind administrative changes.
	current, err := g.userStore.GetByID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotMember
		}
		return nil, fmt.Errorf("re-verifying role: %w", err)
	}

	if !current.MemberOf(workspace.ID) {
		return nil, ErrNotMember
	}
	if !current.IsAdmin() {
		return nil, ErrAdminRequired
	}

	return workspace, nil
}
