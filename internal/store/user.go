package store

import (
	"context"
	"errors"

	"changemaker.app/server/core/db"
	"changemaker.app/server/internal/model"
	"github.com/jackc/pgx/v5"
)

type userStore struct {
	dbtx db.DBTX
}

const userColumns = "id, external_id, email, role, workspace_id, created_at, updated_at"

func (s *userStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row := s.dbtx.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return scanUser(row)
}

func (s *userStore) GetByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	row := s.dbtx.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE external_id = $1", externalID)
	return scanUser(row)
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.dbtx.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email)
	return scanUser(row)
}

// UpsertByExternalID collapses find-or-create into a single conditional
// write so concurrent first-time sign-ins for the same identity cannot
// produce duplicate rows. An email collision with a different external id
// still trips the email uniqueness constraint and surfaces as ErrConflict.
func (s *userStore) UpsertByExternalID(ctx context.Context, user *model.User, updateRole bool) error {
	row := s.dbtx.QueryRow(ctx, `
		INSERT INTO users (id, external_id, email, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (external_id) DO UPDATE SET
			email      = EXCLUDED.email,
			role       = CASE WHEN $5 THEN EXCLUDED.role ELSE users.role END,
			updated_at = now()
		RETURNING `+userColumns,
		user.ID, user.ExternalID, user.Email, user.Role, updateRole,
	)
	stored, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	*user = *stored
	return nil
}

func (s *userStore) SetWorkspace(ctx context.Context, userID int64, workspaceID *int64) error {
	tag, err := s.dbtx.Exec(ctx,
		"UPDATE users SET workspace_id = $2, updated_at = now() WHERE id = $1",
		userID, workspaceID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *userStore) UpdateRole(ctx context.Context, userID int64, role model.Role) error {
	tag, err := s.dbtx.Exec(ctx,
		"UPDATE users SET role = $2, updated_at = now() WHERE id = $1",
		userID, role,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *userStore) ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.User, error) {
	rows, err := s.dbtx.Query(ctx,
		"SELECT "+userColumns+" FROM users WHERE workspace_id = $1 ORDER BY email ASC",
		workspaceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.ExternalID, &u.Email, &u.Role, &u.WorkspaceID, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

func (s *userStore) CountByWorkspace(ctx context.Context, workspaceID int64) (int64, error) {
	var count int64
	err := s.dbtx.QueryRow(ctx,
		"SELECT COUNT(*) FROM users WHERE workspace_id = $1", workspaceID,
	).Scan(&count)
	return count, err
}

// DetachFromWorkspace clears workspace membership for every user in the
// workspace. Used by the workspace delete cascade.
func (s *userStore) DetachFromWorkspace(ctx context.Context, workspaceID int64) error {
	_, err := s.dbtx.Exec(ctx,
		"UPDATE users SET workspace_id = NULL, updated_at = now() WHERE workspace_id = $1",
		workspaceID,
	)
	return err
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.ExternalID, &u.Email, &u.Role, &u.WorkspaceID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
