package store

import (
	"context"
	"errors"

	"changemaker.app/server/core/db"
	"changemaker.app/server/internal/model"
	"github.com/jackc/pgx/v5"
)

type challengeStore struct {
	dbtx db.DBTX
}

const challengeColumns = "id, workspace_id, title, description, created_at, updated_at"

func (s *challengeStore) Get(ctx context.Context, workspaceID, id int64) (*model.Challenge, error) {
	row := s.dbtx.QueryRow(ctx,
		"SELECT "+challengeColumns+" FROM challenges WHERE id = $1 AND workspace_id = $2",
		id, workspaceID,
	)
	return scanChallenge(row)
}

func (s *challengeStore) ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.Challenge, error) {
	rows, err := s.dbtx.Query(ctx,
		"SELECT "+challengeColumns+" FROM challenges WHERE workspace_id = $1 ORDER BY title ASC",
		workspaceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectChallenges(rows)
}

func (s *challengeStore) Create(ctx context.Context, ch *model.Challenge) error {
	row := s.dbtx.QueryRow(ctx, `
		INSERT INTO challenges (id, workspace_id, title, description)
		VALUES ($1, $2, $3, $4)
		RETURNING `+challengeColumns,
		ch.ID, ch.WorkspaceID, ch.Title, ch.Description,
	)
	stored, err := scanChallenge(row)
	if err != nil {
		return err
	}
	*ch = *stored
	return nil
}

// Update writes title and description. The workspace id is part of the
// WHERE clause, so a challenge in another workspace comes back ErrNotFound
// exactly like a missing one.
func (s *challengeStore) Update(ctx context.Context, ch *model.Challenge) error {
	row := s.dbtx.QueryRow(ctx, `
		UPDATE challenges SET title = $3, description = $4, updated_at = now()
		WHERE id = $1 AND workspace_id = $2
		RETURNING `+challengeColumns,
		ch.ID, ch.WorkspaceID, ch.Title, ch.Description,
	)
	stored, err := scanChallenge(row)
	if err != nil {
		return err
	}
	*ch = *stored
	return nil
}

func (s *challengeStore) Delete(ctx context.Context, workspaceID, id int64) error {
	tag, err := s.dbtx.Exec(ctx,
		"DELETE FROM challenges WHERE id = $1 AND workspace_id = $2",
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

func (s *challengeStore) CountByWorkspace(ctx context.Context, workspaceID int64) (int64, error) {
	var count int64
	err := s.dbtx.QueryRow(ctx,
		"SELECT COUNT(*) FROM challenges WHERE workspace_id = $1", workspaceID,
	).Scan(&count)
	return count, err
}

func (s *challengeStore) DeleteByWorkspace(ctx context.Context, workspaceID int64) error {
	_, err := s.dbtx.Exec(ctx,
		"DELETE FROM challenges WHERE workspace_id = $1", workspaceID)
	return err
}

func scanChallenge(row pgx.Row) (*model.Challenge, error) {
	var ch model.Challenge
	err := row.Scan(&ch.ID, &ch.WorkspaceID, &ch.Title, &ch.Description, &ch.CreatedAt, &ch.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ch, nil
}

func collectChallenges(rows pgx.Rows) ([]model.Challenge, error) {
	var result []model.Challenge
	for rows.Next() {
		var ch model.Challenge
		if err := rows.Scan(&ch.ID, &ch.WorkspaceID, &ch.Title, &ch.Description, &ch.CreatedAt, &ch.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, ch)
	}
	return result, rows.Err()
}
