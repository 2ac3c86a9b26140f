package store

import (
	"context"
	"errors"

	"changemaker.app/server/core/db"
	"changemaker.app/server/internal/model"
	"github.com/jackc/pgx/v5"
)

type enrollmentStore struct {
	dbtx db.DBTX
}

// Every scoped query joins enrollments to challenges on workspace_id. The
// inner-join form below is the only way enrollment rows are ever selected
// or mutated with a workspace filter.
const enrollmentScopedSelect = `
	SELECT e.id, e.user_id, e.challenge_id, e.status, e.created_at, e.updated_at
	FROM enrollments e
	JOIN challenges c ON c.id = e.challenge_id`

func (s *enrollmentStore) Get(ctx context.Context, workspaceID, id int64) (*model.Enrollment, error) {
	row := s.dbtx.QueryRow(ctx,
		enrollmentScopedSelect+" WHERE e.id = $1 AND c.workspace_id = $2",
		id, workspaceID,
	)
	return scanEnrollment(row)
}

func (s *enrollmentStore) GetByUserAndChallenge(ctx context.Context, userID, challengeID int64) (*model.Enrollment, error) {
	row := s.dbtx.QueryRow(ctx, `
		SELECT id, user_id, challenge_id, status, created_at, updated_at
		FROM enrollments WHERE user_id = $1 AND challenge_id = $2`,
		userID, challengeID,
	)
	return scanEnrollment(row)
}

func (s *enrollmentStore) ListForUser(ctx context.Context, workspaceID, userID int64) ([]model.Enrollment, error) {
	rows, err := s.dbtx.Query(ctx,
		enrollmentScopedSelect+` WHERE e.user_id = $1 AND c.workspace_id = $2
		ORDER BY e.created_at DESC`,
		userID, workspaceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEnrollments(rows)
}

func (s *enrollmentStore) ListForWorkspace(ctx context.Context, workspaceID int64) ([]model.Enrollment, error) {
	rows, err := s.dbtx.Query(ctx,
		enrollmentScopedSelect+` WHERE c.workspace_id = $1
		ORDER BY e.created_at DESC`,
		workspaceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEnrollments(rows)
}

// Create inserts the enrollment. The (user_id, challenge_id) uniqueness
// constraint is the authoritative duplicate guard; any pre-check in the
// service is a fast path that may race.
func (s *enrollmentStore) Create(ctx context.Context, e *model.Enrollment) error {
	row := s.dbtx.QueryRow(ctx, `
		INSERT INTO enrollments (id, user_id, challenge_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, challenge_id, status, created_at, updated_at`,
		e.ID, e.UserID, e.ChallengeID, e.Status,
	)
	stored, err := scanEnrollment(row)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	*e = *stored
	return nil
}

func (s *enrollmentStore) UpdateStatus(ctx context.Context, workspaceID, id int64, status model.EnrollmentStatus) (*model.Enrollment, error) {
	row := s.dbtx.QueryRow(ctx, `
		UPDATE enrollments e SET status = $3, updated_at = now()
		FROM challenges c
		WHERE e.id = $1 AND c.id = e.challenge_id AND c.workspace_id = $2
		RETURNING e.id, e.user_id, e.challenge_id, e.status, e.created_at, e.updated_at`,
		id, workspaceID, status,
	)
	return scanEnrollment(row)
}

func (s *enrollmentStore) Delete(ctx context.Context, workspaceID, id int64) error {
	tag, err := s.dbtx.Exec(ctx, `
		DELETE FROM enrollments e
		USING challenges c
		WHERE e.id = $1 AND c.id = e.challenge_id AND c.workspace_id = $2`,
		id, workspaceID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *enrollmentStore) DeleteByChallenge(ctx context.Context, workspaceID, challengeID int64) error {
	_, err := s.dbtx.Exec(ctx, `
		DELETE FROM enrollments e
		USING challenges c
		WHERE e.challenge_id = $1 AND c.id = e.challenge_id AND c.workspace_id = $2`,
		challengeID, workspaceID,
	)
	return err
}

func (s *enrollmentStore) DeleteByWorkspace(ctx context.Context, workspaceID int64) error {
	_, err := s.dbtx.Exec(ctx, `
		DELETE FROM enrollments e
		USING challenges c
		WHERE c.id = e.challenge_id AND c.workspace_id = $1`,
		workspaceID,
	)
	return err
}

func (s *enrollmentStore) CountByWorkspace(ctx context.Context, workspaceID int64) (int64, error) {
	var count int64
	err := s.dbtx.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM enrollments e
		JOIN challenges c ON c.id = e.challenge_id
		WHERE c.workspace_id = $1`,
		workspaceID,
	).Scan(&count)
	return count, err
}

func scanEnrollment(row pgx.Row) (*model.Enrollment, error) {
	var e model.Enrollment
	err := row.Scan(&e.ID, &e.UserID, &e.ChallengeID, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func collectEnrollments(rows pgx.Rows) ([]model.Enrollment, error) {
	var result []model.Enrollment
	for rows.Next() {
		var e model.Enrollment
		if err := rows.Scan(&e.ID, &e.UserID, &e.ChallengeID, &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}
