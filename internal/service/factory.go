package service

import (
	"changemaker.app/server/core/config"
	"changemaker.app/server/core/db"
	"changemaker.app/server/internal/store"
)

// Services bundles every service behind its interface for handler wiring.
type Services struct {
	Users       UserService
	Auth        AuthService
	Guard       AccessGuard
	Workspaces  WorkspaceService
	Challenges  ChallengeService
	Enrollments EnrollmentService
}

func NewServices(cfg config.Config, database *db.DB, stores *store.Stores) *Services {
	txRunner := NewTxRunner(database)
	users := NewUserService(stores.Users(), txRunner)

	return &Services{
		Users:       users,
		Auth:        NewAuthService(users, stores.Sessions(), cfg.WorkOS),
		Guard:       NewAccessGuard(stores.Users(), stores.Workspaces()),
		Workspaces:  NewWorkspaceService(stores, txRunner),
		Challenges:  NewChallengeService(stores, txRunner),
		Enrollments: NewEnrollmentService(stores, txRunner),
	}
}
