package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"changemaker.app/server/common"
	"changemaker.app/server/common/id"
	"changemaker.app/server/common/logger"
	"changemaker.app/server/core/config"
	"changemaker.app/server/core/db"
	"changemaker.app/server/internal/model"
	"changemaker.app/server/internal/store"
)

// seed populates a development database with a demo workspace, an admin, a
// participant and a couple of challenges. It is idempotent: rows that
// already exist are left alone.
func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Setup(cfg)

	if cfg.IsProduction() {
		slog.ErrorContext(ctx, "refusing to seed a production database")
		os.Exit(1)
	}

	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := seed(ctx, database); err != nil {
		slog.ErrorContext(ctx, "seed failed", "error", err)
		os.Exit(1)
	}

	slog.InfoContext(ctx, "seed complete")
}

func seed(ctx context.Context, database *db.DB) error {
	return database.WithTx(ctx, func(tx db.DBTX) error {
		stores := store.NewStores(tx)

		slug, err := common.Slugify("Demo Workspace", "demo")
		if err != nil {
			return err
		}

		ws, err := stores.Workspaces().GetBySlug(ctx, slug)
		if errors.Is(err, store.ErrNotFound) {
			ws = &model.Workspace{ID: id.New(), Slug: slug, Name: "Demo Workspace"}
			if err := stores.Workspaces().Create(ctx, ws); err != nil {
				return err
			}
			slog.InfoContext(ctx, "workspace seeded", "slug", ws.Slug)
		} else if err != nil {
			return err
		}

		admin, err := seedUser(ctx, stores, "admin@changemaker.test", model.RoleAdmin, ws.ID)
		if err != nil {
			return err
		}
		participant, err := seedUser(ctx, stores, "participant@changemaker.test", model.RoleParticipant, ws.ID)
		if err != nil {
			return err
		}

		challenges, err := stores.Challenges().ListByWorkspace(ctx, ws.ID)
		if err != nil {
			return err
		}
		if len(challenges) > 0 {
			return nil
		}

		titles := []struct {
			title       string
			description string
		}{
			{"30 Days of Cycling", "Commute by bike every workday for a month."},
			{"Zero Waste Week", "Go a full week without producing landfill waste."},
		}
		var first *model.Challenge
		for _, t := range titles {
			ch := &model.Challenge{
				ID:          id.New(),
				WorkspaceID: ws.ID,
				Title:       t.title,
				Description: t.description,
			}
			if err := stores.Challenges().Create(ctx, ch); err != nil {
				return err
			}
			if first == nil {
				first = ch
			}
			slog.InfoContext(ctx, "challenge seeded", "title", ch.Title)
		}

		enr := &model.Enrollment{
			ID:          id.New(),
			UserID:      participant.ID,
			ChallengeID: first.ID,
			Status:      model.EnrollmentStatusActive,
		}
		if err := stores.Enrollments().Create(ctx, enr); err != nil && !errors.Is(err, store.ErrConflict) {
			return err
		}

		slog.InfoContext(ctx, "demo data ready",
			"workspace", ws.Slug,
			"admin", admin.Email,
			"participant", participant.Email,
		)
		return nil
	})
}

func seedUser(ctx context.Context, stores *store.Stores, email string, role model.Role, workspaceID int64) (*model.User, error) {
	user, err := stores.Users().GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	externalID := "seed_" + email
	user = &model.User{
		ID:          id.New(),
		ExternalID:  &externalID,
		Email:       email,
		Role:        role,
		WorkspaceID: &workspaceID,
	}
	if err := stores.Users().UpsertByExternalID(ctx, user, true); err != nil {
		return nil, err
	}
	if err := stores.Users().SetWorkspace(ctx, user.ID, &workspaceID); err != nil {
		return nil, err
	}
	user.WorkspaceID = &workspaceID
	return user, nil
}
