package store

import (
	"context"
	"errors"

	"changemaker.app/server/core/db"
	"changemaker.app/server/internal/model"
	"github.com/jackc/pgx/v5"
)

type workspaceStore struct {
	dbtx db.DBTX
}

const workspaceColumns = "id, slug, name, created_at, updated_at"

func (s *workspaceStore) GetByID(ctx context.Context, id int64) (*model.Workspace, error) {
	row := s.dbtx.QueryRow(ctx,
		"SELECT "+workspaceColumns+" FROM workspaces WHERE id = $1", id)
	return scanWorkspace(row)
}

func (s *workspaceStore) GetBySlug(ctx context.Context, slug string) (*model.Workspace, error) {
	row := s.dbtx.QueryRow(ctx,
		"SELECT "+workspaceColumns+" FROM workspaces WHERE slug = $1", slug)
	return scanWorkspace(row)
}

func (s *workspaceStore) Create(ctx context.Context, ws *model.Workspace) error {
	row := s.dbtx.QueryRow(ctx, `
		INSERT INTO workspaces (id, slug, name)
		VALUES ($1, $2, $3)
		RETURNING `+workspaceColumns,
		ws.ID, ws.Slug, ws.Name,
	)
	stored, err := scanWorkspace(row)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	*ws = *stored
	return nil
}

func (s *workspaceStore) UpdateName(ctx context.Context, id int64, name string) (*model.Workspace, error) {
	row := s.dbtx.QueryRow(ctx, `
		UPDATE workspaces SET name = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+workspaceColumns,
		id, name,
	)
	return scanWorkspace(row)
}

func (s *workspaceStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.dbtx.Exec(ctx, "DELETE FROM workspaces WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *workspaceStore) List(ctx context.Context) ([]model.Workspace, error) {
	rows, err := s.dbtx.Query(ctx,
		"SELECT "+workspaceColumns+" FROM workspaces ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Workspace
	for rows.Next() {
		var ws model.Workspace
		if err := rows.Scan(&ws.ID, &ws.Slug, &ws.Name, &ws.CreatedAt, &ws.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, ws)
	}
	return result, rows.Err()
}

func scanWorkspace(row pgx.Row) (*model.Workspace, error) {
	var ws model.Workspace
	err := row.Scan(&ws.ID, &ws.Slug, &ws.Name, &ws.CreatedAt, &ws.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ws, nil
}
