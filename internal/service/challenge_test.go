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

var _ = Describe("ChallengeService", func() {
	var (
		stores   *mockStores
		txRunner *mockTxRunner
		svc      service.ChallengeService
	)

	BeforeEach(func() {
		stores = newMockStores()
		txRunner = &mockTxRunner{stores: stores}
		svc = service.NewChallengeService(stores, txRunner)
	})

	Describe("Create", func() {
		It("trims and stores the challenge in the caller's workspace", func() {
			var created *model.Challenge
			stores.challenges.createFn = func(_ context.Context, ch *model.Challenge) error {
				created = ch
				return nil
			}

			ch, err := svc.Create(context.Background(), 100, "  Bike to Work  ", " Ride daily. ")
			Expect(err).NotTo(HaveOccurred())
			Expect(ch.Title).To(Equal("Bike to Work"))
			Expect(ch.Description).To(Equal("Ride daily."))
			Expect(created.WorkspaceID).To(Equal(int64(100)))
		})

		It("rejects an empty title", func() {
			_, err := svc.Create(context.Background(), 100, "   ", "desc")
			Expect(errors.Is(err, service.ErrValidation)).To(BeTrue())
		})

		It("rejects a whitespace-only description", func() {
			_, err := svc.Create(context.Background(), 100, "Bike to Work", "  ")
			Expect(errors.Is(err, service.ErrValidation)).To(BeTrue())
		})
	})

	Describe("Get", func() {
		It("masks a challenge from another workspace as not found", func() {
			stores.challenges.getFn = func(_ context.Context, workspaceID, id int64) (*model.Challenge, error) {
				// The store filters by workspace id; a foreign row never
				// comes back.
				if workspaceID == 100 && id == 1 {
					return &model.Challenge{ID: 1, WorkspaceID: 100, Title: "t"}, nil
				}
				return nil, store.ErrNotFound
			}

			_, err := svc.Get(context.Background(), 1, 200)
			Expect(errors.Is(err, store.ErrNotFound)).To(BeTrue())

			ch, err := svc.Get(context.Background(), 1, 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(ch.ID).To(Equal(int64(1)))
		})
	})

	Describe("Update", func() {
		BeforeEach(func() {
			stores.challenges.getFn = func(_ context.Context, workspaceID, id int64) (*model.Challenge, error) {
				if workspaceID != 100 {
					return nil, store.ErrNotFound
				}
				return &model.Challenge{ID: id, WorkspaceID: 100, Title: "Old", Description: "old desc"}, nil
			}
		})

		It("applies only the provided fields", func() {
			title := "New Title"
			ch, err := svc.Update(context.Background(), 1, 100, service.ChallengeUpdate{Title: &title})
			Expect(err).NotTo(HaveOccurred())
			Expect(ch.Title).To(Equal("New Title"))
			Expect(ch.Description).To(Equal("old desc"))
			Expect(txRunner.txCalls).To(Equal(1))
		})

		It("rejects clearing the title", func() {
			empty := "  "
			_, err := svc.Update(context.Background(), 1, 100, service.ChallengeUpdate{Title: &empty})
			Expect(errors.Is(err, service.ErrValidation)).To(BeTrue())
			Expect(txRunner.txCalls).To(BeZero())
		})

		It("masks a cross-workspace update as not found", func() {
			title := "New"
			_, err := svc.Update(context.Background(), 1, 200, service.ChallengeUpdate{Title: &title})
			Expect(errors.Is(err, store.ErrNotFound)).To(BeTrue())
		})
	})

	Describe("Delete", func() {
		It("removes enrollments before the challenge in one transaction", func() {
			stores.challenges.getFn = func(_ context.Context, workspaceID, id int64) (*model.Challenge, error) {
				return &model.Challenge{ID: id, WorkspaceID: workspaceID, Title: "t"}, nil
			}
			var order []string
			stores.enrollments.deleteByChallengeFn = func(_ context.Context, _, _ int64) error {
				order = append(order, "enrollments")
				return nil
			}
			stores.challenges.deleteFn = func(_ context.Context, _, _ int64) error {
				order = append(order, "challenge")
				return nil
			}

			Expect(svc.Delete(context.Background(), 1, 100)).To(Succeed())
			Expect(order).To(Equal([]string{"enrollments", "challenge"}))
			Expect(txRunner.txCalls).To(Equal(1))
		})

		It("masks a cross-workspace delete as not found", func() {
			err := svc.Delete(context.Background(), 1, 200)
			Expect(errors.Is(err, store.ErrNotFound)).To(BeTrue())
			Expect(stores.challenges.deleteCalls).To(BeZero())
		})
	})
})
