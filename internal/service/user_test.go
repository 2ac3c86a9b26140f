package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"changemaker.app/server/internal/model"
	"changemaker.app/server/internal/service"
	"changemaker.app/server/internal/store"
)

var _ = Describe("UserService", func() {
	var (
		stores   *mockStores
		txRunner *mockTxRunner
		svc      service.UserService
	)

	BeforeEach(func() {
		stores = newMockStores()
		txRunner = &mockTxRunner{stores: stores}
		svc = service.NewUserService(stores.users, txRunner)
	})

	Describe("Sync", func() {
		It("creates a user on first sign-in", func() {
			stores.users.upsertFn = func(_ context.Context, user *model.User, updateRole bool) error {
				Expect(updateRole).To(BeFalse())
				Expect(user.Role).To(Equal(model.RoleParticipant))
				return nil
			}

			user, err := svc.Sync(context.Background(), "workos_123", "ada@example.com", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Email).To(Equal("ada@example.com"))
			Expect(*user.ExternalID).To(Equal("workos_123"))
			Expect(txRunner.txCalls).To(Equal(1))
		})

		It("is idempotent for a known external id", func() {
			stored := &model.User{ID: 42, Email: "ada@example.com", Role: model.RoleAdmin}
			stores.users.upsertFn = func(_ context.Context, user *model.User, _ bool) error {
				*user = *stored
				return nil
			}

			user, err := svc.Sync(context.Background(), "workos_123", "ada@example.com", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(user.ID).To(Equal(int64(42)))
			Expect(user.Role).To(Equal(model.RoleAdmin))
		})

		It("rejects a missing external id", func() {
			_, err := svc.Sync(context.Background(), "", "ada@example.com", "")
			Expect(errors.Is(err, service.ErrInvalidPrincipal)).To(BeTrue())
			Expect(stores.users.upsertCalls).To(BeZero())
		})

		It("rejects a missing email", func() {
			_, err := svc.Sync(context.Background(), "workos_123", "", "")
			Expect(errors.Is(err, service.ErrInvalidPrincipal)).To(BeTrue())
		})

		It("rejects an unknown role hint", func() {
			_, err := svc.Sync(context.Background(), "workos_123", "ada@example.com", "SUPERUSER")
			Expect(errors.Is(err, service.ErrInvalidPrincipal)).To(BeTrue())
		})

		It("applies a valid role hint", func() {
			var gotUpdateRole bool
			stores.users.upsertFn = func(_ context.Context, user *model.User, updateRole bool) error {
				gotUpdateRole = updateRole
				Expect(user.Role).To(Equal(model.RoleAdmin))
				return nil
			}

			_, err := svc.Sync(context.Background(), "workos_123", "ada@example.com", model.RoleAdmin)
			Expect(err).NotTo(HaveOccurred())
			Expect(gotUpdateRole).To(BeTrue())
		})

		It("maps a uniqueness violation to a sync conflict", func() {
			stores.users.upsertFn = func(_ context.Context, _ *model.User, _ bool) error {
				return store.ErrConflict
			}

			_, err := svc.Sync(context.Background(), "workos_456", "ada@example.com", "")
			Expect(errors.Is(err, service.ErrSyncConflict)).To(BeTrue())
		})
	})

	Describe("GetByID", func() {
		It("returns the stored user", func() {
			stores.users.getByIDFn = func(_ context.Context, id int64) (*model.User, error) {
				return &model.User{ID: id, Email: "ada@example.com"}, nil
			}

			user, err := svc.GetByID(context.Background(), 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(user.ID).To(Equal(int64(7)))
		})
	})
})
