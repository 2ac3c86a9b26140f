package store

import (
	"context"
	"errors"

	"changemaker.app/server/core/db"
	"changemaker.app/server/internal/model"
	"github.com/jackc/pgx/v5"
)

type sessionStore struct {
	dbtx db.DBTX
}

func (s *sessionStore) GetValid(ctx context.Context, token string) (*model.Session, error) {
	row := s.dbtx.QueryRow(ctx, `
		SELECT id, token, user_id, expires_at, created_at
		FROM sessions WHERE token = $1 AND expires_at > now()`,
		token,
	)
	var session model.Session
	err := row.Scan(&session.ID, &session.Token, &session.UserID, &session.ExpiresAt, &session.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (s *sessionStore) Create(ctx context.Context, session *model.Session) error {
	row := s.dbtx.QueryRow(ctx, `
		INSERT INTO sessions (id, token, user_id, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, token, user_id, expires_at, created_at`,
		session.ID, session.Token, session.UserID, session.ExpiresAt,
	)
	return row.Scan(&session.ID, &session.Token, &session.UserID, &session.ExpiresAt, &session.CreatedAt)
}

func (s *sessionStore) Delete(ctx context.Context, token string) error {
	_, err := s.dbtx.Exec(ctx, "DELETE FROM sessions WHERE token = $1", token)
	return err
}

func (s *sessionStore) DeleteExpired(ctx context.Context) error {
	_, err := s.dbtx.Exec(ctx, "DELETE FROM sessions WHERE expires_at <= now()")
	return err
}
