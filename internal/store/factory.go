package store

import (
	"errors"

	"changemaker.app/server/core/db"
	"github.com/jackc/pgx/v5/pgconn"
)

// Stores bundles the per-entity stores over a single database handle. The
// handle may be the shared pool or a transaction; see service.TxRunner.
type Stores struct {
	dbtx db.DBTX
}

func NewStores(dbtx db.DBTX) *Stores {
	return &Stores{dbtx: dbtx}
}

func (s *Stores) Users() UserStore {
	return &userStore{dbtx: s.dbtx}
}

func (s *Stores) Workspaces() WorkspaceStore {
	return &workspaceStore{dbtx: s.dbtx}
}

func (s *Stores) Challenges() ChallengeStore {
	return &challengeStore{dbtx: s.dbtx}
}

func (s *Stores) Enrollments() EnrollmentStore {
	return &enrollmentStore{dbtx: s.dbtx}
}

func (s *Stores) Sessions() SessionStore {
	return &sessionStore{dbtx: s.dbtx}
}

// isUniqueViolation checks for a PostgreSQL unique violation (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
