package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"changemaker.app/server/common"
	"changemaker.app/server/common/id"
	"changemaker.app/server/internal/model"
	"changemaker.app/server/internal/store"
)

// WorkspaceService is the tenant directory: it resolves slugs to
// workspaces, manages the workspace lifecycle and membership, and computes
// per-tenant aggregates.
type WorkspaceService interface {
	ResolveBySlug(ctx context.Context, slug string) (*model.Workspace, error)
	List(ctx context.Context) ([]model.Workspace, error)
	Create(ctx context.Context, name, slug string, creatorID int64) (*model.Workspace, error)
	UpdateName(ctx context.Context, workspaceID int64, name string) (*model.Workspace, error)
	Delete(ctx context.Context, workspaceID int64) error
	Join(ctx context.Context, userID, workspaceID int64) error
	Leave(ctx context.Context, userID int64) error
	Members(ctx context.Context, workspaceID int64) ([]model.User, error)
	Stats(ctx context.Context, workspaceID int64) (*model.WorkspaceStats, error)
}

type workspaceService struct {
	stores   StoreProvider
	txRunner TxRunner
}

func NewWorkspaceService(stores StoreProvider, txRunner TxRunner) WorkspaceService {
	return &workspaceService{
		stores:   stores,
		txRunner: txRunner,
	}
}

func (s *workspaceService) ResolveBySlug(ctx context.Context, slug string) (*model.Workspace, error) {
	ws, err := s.stores.Workspaces().GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("resolving workspace: %w", err)
	}
	return ws, nil
}

func (s *workspaceService) List(ctx context.Context) ([]model.Workspace, error) {
	return s.stores.Workspaces().List(ctx)
}

// Create makes a new workspace and puts the creator in it as ADMIN. The
// slug pre-check is advisory; the unique constraint is the authoritative
// guard against a concurrent claim.
func (s *workspaceService) Create(ctx context.Context, name, slug string, creatorID int64) (*model.Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrValidation)
	}
	if err := common.ValidateSlug(slug); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	// Fast path: reject an obviously taken slug before opening a tx.
	if _, err := s.stores.Workspaces().GetBySlug(ctx, slug); err == nil {
		return nil, ErrSlugTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("checking slug availability: %w", err)
	}

	ws := &model.Workspace{
		ID:   id.New(),
		Slug: slug,
		Name: name,
	}

	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if err := stores.Workspaces().Create(ctx, ws); err != nil {
			return err
		}
		if err := stores.Users().SetWorkspace(ctx, creatorID, &ws.ID); err != nil {
			return fmt.Errorf("attaching creator: %w", err)
		}
		if err := stores.Users().UpdateRole(ctx, creatorID, model.RoleAdmin); err != nil {
			return fmt.Errorf("promoting creator: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrSlugTaken
		}
		slog.ErrorContext(ctx, "failed to create workspace",
			"error", err,
			"slug", slug,
		)
		return nil, fmt.Errorf("creating workspace: %w", err)
	}

	slog.InfoContext(ctx, "workspace created",
		"workspace_id", ws.ID,
		"slug", ws.Slug,
	)
	return ws, nil
}

func (s *workspaceService) UpdateName(ctx context.Context, workspaceID int64, name string) (*model.Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrValidation)
	}

	ws, err := s.stores.Workspaces().UpdateName(ctx, workspaceID, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("updating workspace: %w", err)
	}
	return ws, nil
}

// Delete tears down a workspace: enrollments first, then challenges, then
// member de-association, then the workspace row, all in one transaction.
func (s *workspaceService) Delete(ctx context.Context, workspaceID int64) error {
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if err := stores.Enrollments().DeleteByWorkspace(ctx, workspaceID); err != nil {
			return fmt.Errorf("deleting enrollments: %w", err)
		}
		if err := stores.Challenges().DeleteByWorkspace(ctx, workspaceID); err != nil {
			return fmt.Errorf("deleting challenges: %w", err)
		}
		if err := stores.Users().DetachFromWorkspace(ctx, workspaceID); err != nil {
			return fmt.Errorf("detaching members: %w", err)
		}
		return stores.Workspaces().Delete(ctx, workspaceID)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrWorkspaceNotFound
		}
		return fmt.Errorf("deleting workspace: %w", err)
	}

	slog.InfoContext(ctx, "workspace deleted", "workspace_id", workspaceID)
	return nil
}

func (s *workspaceService) Join(ctx context.Context, userID, workspaceID int64) error {
	if _, err := s.stores.Workspaces().GetByID(ctx, workspaceID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrWorkspaceNotFound
		}
		return fmt.Errorf("resolving workspace: %w", err)
	}

	if err := s.stores.Users().SetWorkspace(ctx, userID, &workspaceID); err != nil {
		return fmt.Errorf("joining workspace: %w", err)
	}

	slog.InfoContext(ctx, "user joined workspace",
		"user_id", userID,
		"workspace_id", workspaceID,
	)
	return nil
}

func (s *workspaceService) Leave(ctx context.Context, userID int64) error {
	if err := s.stores.Users().SetWorkspace(ctx, userID, nil); err != nil {
		return fmt.Errorf("leaving workspace: %w", err)
	}
	return nil
}

func (s *workspaceService) Members(ctx context.Context, workspaceID int64) ([]model.User, error) {
	return s.stores.Users().ListByWorkspace(ctx, workspaceID)
}

// Stats computes member, challenge and enrollment counts as three
// independent queries; joining them would inflate rows.
func (s *workspaceService) Stats(ctx context.Context, workspaceID int64) (*model.WorkspaceStats, error) {
	members, err := s.stores.Users().CountByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("counting members: %w", err)
	}
	challenges, err := s.stores.Challenges().CountByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("counting challenges: %w", err)
	}
	enrollments, err := s.stores.Enrollments().CountByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("counting enrollments: %w", err)
	}

	return &model.WorkspaceStats{
		MemberCount:     members,
		ChallengeCount:  challenges,
		EnrollmentCount: enrollments,
	}, nil
}
