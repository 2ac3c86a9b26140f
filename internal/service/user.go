package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"changemaker.app/server/common/id"
	"changemaker.app/server/internal/model"
	"changemaker.app/server/internal/store"
)

// syncTimeout bounds the principal upsert transaction so a contended
// first-time sign-in cannot hold a connection indefinitely.
const syncTimeout = 10 * time.Second

type UserService interface {
	// Sync resolves an external identity to an internal user, creating the
	// record on first sight. Safe under concurrent first-time sign-in for
	// the same identity: the write is an atomic upsert keyed by the unique
	// external id. roleHint may be empty; when set it refreshes the stored
	// role.
	Sync(ctx context.Context, externalID, email string, roleHint model.Role) (*model.User, error)
	GetByID(ctx context.Context, userID int64) (*model.User, error)
}

type userService struct {
	userStore store.UserStore
	txRunner  TxRunner
}

func NewUserService(userStore store.UserStore, txRunner TxRunner) UserService {
	return &userService{
		userStore: userStore,
		txRunner:  txRunner,
	}
}

func (s *userService) Sync(ctx context.Context, externalID, email string, roleHint model.Role) (*model.User, error) {
	if externalID == "" || email == "" {
		return nil, fmt.Errorf("%w: missing external id or email", ErrInvalidPrincipal)
	}

	role := model.RoleParticipant
	updateRole := false
	if roleHint != "" {
		if !roleHint.Valid() {
			return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidPrincipal, roleHint)
		}
		role = roleHint
		updateRole = true
	}

	user := &model.User{
		ID:         id.New(),
		ExternalID: &externalID,
		Email:      email,
		Role:       role,
	}

	ctx, cancel := context.WithTimeout(ctx, syncTimeout)
	defer cancel()

	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		return stores.Users().UpsertByExternalID(ctx, user, updateRole)
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			slog.WarnContext(ctx, "principal sync conflict",
				"email", email,
				"external_id", externalID,
			)
			return nil, fmt.Errorf("%w: email already linked to another identity", ErrSyncConflict)
		}
		slog.ErrorContext(ctx, "failed to upsert user",
			"error", err,
			"email", email,
			"external_id", externalID,
		)
		return nil, fmt.Errorf("upserting user: %w", err)
	}

	return user, nil
}

func (s *userService) GetByID(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return user, nil
}
