package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"changemaker.app/server/common/id"
	"changemaker.app/server/internal/model"
	"changemaker.app/server/internal/store"
)

// ChallengeUpdate carries a partial update. Nil fields are left untouched.
type ChallengeUpdate struct {
	Title       *string
	Description *string
}

// ChallengeService manages challenges inside a single workspace. Every
// operation takes the caller's workspace id and scopes the row lookup with
// it, so a challenge belonging to another tenant is indistinguishable from
// one that does not exist.
type ChallengeService interface {
	List(ctx context.Context, workspaceID int64) ([]model.Challenge, error)
	Get(ctx context.Context, challengeID, workspaceID int64) (*model.Challenge, error)
	Create(ctx context.Context, workspaceID int64, title, description string) (*model.Challenge, error)
	Update(ctx context.Context, challengeID, workspaceID int64, patch ChallengeUpdate) (*model.Challenge, error)
	Delete(ctx context.Context, challengeID, workspaceID int64) error
}

type challengeService struct {
	stores   StoreProvider
	txRunner TxRunner
}

func NewChallengeService(stores StoreProvider, txRunner TxRunner) ChallengeService {
	return &challengeService{
		stores:   stores,
		txRunner: txRunner,
	}
}

func (s *challengeService) List(ctx context.Context, workspaceID int64) ([]model.Challenge, error) {
	return s.stores.Challenges().ListByWorkspace(ctx, workspaceID)
}

func (s *challengeService) Get(ctx context.Context, challengeID, workspaceID int64) (*model.Challenge, error) {
	ch, err := s.stores.Challenges().Get(ctx, workspaceID, challengeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("getting challenge: %w", err)
	}
	return ch, nil
}

func (s *challengeService) Create(ctx context.Context, workspaceID int64, title, description string) (*model.Challenge, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return nil, fmt.Errorf("%w: title must not be empty", ErrValidation)
	}
	if description == "" {
		return nil, fmt.Errorf("%w: description must not be empty", ErrValidation)
	}

	ch := &model.Challenge{
		ID:          id.New(),
		WorkspaceID: workspaceID,
		Title:       title,
		Description: description,
	}
	if err := s.stores.Challenges().Create(ctx, ch); err != nil {
		return nil, fmt.Errorf("creating challenge: %w", err)
	}

	slog.InfoContext(ctx, "challenge created",
		"challenge_id", ch.ID,
		"workspace_id", workspaceID,
	)
	return ch, nil
}

// Update reads and rewrites the challenge in one transaction so a
// concurrent patch cannot be half-applied.
func (s *challengeService) Update(ctx context.Context, challengeID, workspaceID int64, patch ChallengeUpdate) (*model.Challenge, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, fmt.Errorf("%w: title must not be empty", ErrValidation)
	}
	if patch.Description != nil && strings.TrimSpace(*patch.Description) == "" {
		return nil, fmt.Errorf("%w: description must not be empty", ErrValidation)
	}

	var updated *model.Challenge
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		ch, err := stores.Challenges().Get(ctx, workspaceID, challengeID)
		if err != nil {
			return err
		}
		if patch.Title != nil {
			ch.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Description != nil {
			ch.Description = strings.TrimSpace(*patch.Description)
		}
		if err := stores.Challenges().Update(ctx, ch); err != nil {
			return err
		}
		updated = ch
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("updating challenge: %w", err)
	}
	return updated, nil
}

// Delete removes the challenge's enrollments first, then the challenge,
// inside one transaction.
func (s *challengeService) Delete(ctx context.Context, challengeID, workspaceID int64) error {
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if _, err := stores.Challenges().Get(ctx, workspaceID, challengeID); err != nil {
			return err
		}
		if err := stores.Enrollments().DeleteByChallenge(ctx, workspaceID, challengeID); err != nil {
			return fmt.Errorf("deleting enrollments: %w", err)
		}
		return stores.Challenges().Delete(ctx, workspaceID, challengeID)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrNotFound
		}
		return fmt.Errorf("deleting challenge: %w", err)
	}

	slog.InfoContext(ctx, "challenge deleted",
		"challenge_id", challengeID,
		"workspace_id", workspaceID,
	)
	return nil
}
