package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"changemaker.app/server/common/id"
	"changemaker.app/server/internal/model"
	"changemaker.app/server/internal/store"
)

// ErrAlreadyEnrolled is returned when the user already has an enrollment
// for the challenge.
var ErrAlreadyEnrolled = errors.New("user already enrolled in challenge")

// EnrollmentService manages enrollments. Enrollments carry no workspace id
// of their own; isolation comes from joining through the challenge's
// workspace on every read and write.
type EnrollmentService interface {
	Create(ctx context.Context, user *model.User, challengeID, workspaceID int64) (*model.Enrollment, error)
	Get(ctx context.Context, enrollmentID, workspaceID int64) (*model.Enrollment, error)
	ListForUser(ctx context.Context, userID, workspaceID int64) ([]model.Enrollment, error)
	ListForWorkspace(ctx context.Context, workspaceID int64) ([]model.Enrollment, error)
	UpdateStatus(ctx context.Context, enrollmentID, workspaceID int64, status string) (*model.Enrollment, error)
	Delete(ctx context.Context, enrollmentID, workspaceID int64) error
}

type enrollmentService struct {
	stores   StoreProvider
	txRunner TxRunner
}

func NewEnrollmentService(stores StoreProvider, txRunner TxRunner) EnrollmentService {
	return &enrollmentService{
		stores:   stores,
		txRunner: txRunner,
	}
}

// Create enrolls a user in a challenge. The membership and duplicate
// checks run inside the same transaction as the insert; the unique
// constraint on (user_id, challenge_id) is the authoritative guard.
func (s *enrollmentService) Create(ctx context.Context, user *model.User, challengeID, workspaceID int64) (*model.Enrollment, error) {
	if !user.MemberOf(workspaceID) {
		return nil, ErrAccessDenied
	}

	enr := &model.Enrollment{
		ID:          id.New(),
		UserID:      user.ID,
		ChallengeID: challengeID,
		Status:      model.EnrollmentStatusActive,
	}

	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if _, err := stores.Challenges().Get(ctx, workspaceID, challengeID); err != nil {
			return err
		}
		if _, err := stores.Enrollments().GetByUserAndChallenge(ctx, user.ID, challengeID); err == nil {
			return ErrAlreadyEnrolled
		} else if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("checking existing enrollment: %w", err)
		}
		return stores.Enrollments().Create(ctx, enr)
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, store.ErrNotFound
		case errors.Is(err, ErrAlreadyEnrolled), errors.Is(err, store.ErrConflict):
			return nil, ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("creating enrollment: %w", err)
	}

	slog.InfoContext(ctx, "enrollment created",
		"enrollment_id", enr.ID,
		"user_id", user.ID,
		"challenge_id", challengeID,
	)
	return enr, nil
}

func (s *enrollmentService) Get(ctx context.Context, enrollmentID, workspaceID int64) (*model.Enrollment, error) {
	enr, err := s.stores.Enrollments().Get(ctx, workspaceID, enrollmentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("getting enrollment: %w", err)
	}
	return enr, nil
}

func (s *enrollmentService) ListForUser(ctx context.Context, userID, workspaceID int64) ([]model.Enrollment, error) {
	return s.stores.Enrollments().ListForUser(ctx, workspaceID, userID)
}

func (s *enrollmentService) ListForWorkspace(ctx context.Context, workspaceID int64) ([]model.Enrollment, error) {
	return s.stores.Enrollments().ListForWorkspace(ctx, workspaceID)
}

func (s *enrollmentService) UpdateStatus(ctx context.Context, enrollmentID, workspaceID int64, status string) (*model.Enrollment, error) {
	parsed, err := model.ParseEnrollmentStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	enr, err := s.stores.Enrollments().UpdateStatus(ctx, workspaceID, enrollmentID, parsed)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("updating enrollment status: %w", err)
	}
	return enr, nil
}

func (s *enrollmentService) Delete(ctx context.Context, enrollmentID, workspaceID int64) error {
	if err := s.stores.Enrollments().Delete(ctx, workspaceID, enrollmentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrNotFound
		}
		return fmt.Errorf("deleting enrollment: %w", err)
	}
	return nil
}
