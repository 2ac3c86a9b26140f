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

var _ = Describe("EnrollmentService", func() {
	var (
		stores   *mockStores
		txRunner *mockTxRunner
		svc      service.EnrollmentService
	)

	member := func(workspaceID int64) *model.User {
		return &model.User{ID: 7, Email: "ada@example.com", Role: model.RoleParticipant, WorkspaceID: &workspaceID}
	}

	BeforeEach(func() {
		stores = newMockStores()
		txRunner = &mockTxRunner{stores: stores}
		svc = service.NewEnrollmentService(stores, txRunner)

		stores.challenges.getFn = func(_ context.Context, workspaceID, id int64) (*model.Challenge, error) {
			if workspaceID == 100 && id == 1 {
				return &model.Challenge{ID: 1, WorkspaceID: 100, Title: "t"}, nil
			}
			return nil, store.ErrNotFound
		}
	})

	Describe("Create", func() {
		It("enrolls a member with an active status", func() {
			enr, err := svc.Create(context.Background(), member(100), 1, 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(enr.Status).To(Equal(model.EnrollmentStatusActive))
			Expect(enr.UserID).To(Equal(int64(7)))
			Expect(enr.ChallengeID).To(Equal(int64(1)))
			Expect(txRunner.txCalls).To(Equal(1))
		})

		It("denies a user from another workspace", func() {
			_, err := svc.Create(context.Background(), member(200), 1, 100)
			Expect(errors.Is(err, service.ErrAccessDenied)).To(BeTrue())
			Expect(txRunner.txCalls).To(BeZero())
		})

		It("reports a challenge outside the workspace as not found", func() {
			_, err := svc.Create(context.Background(), member(100), 99, 100)
			Expect(errors.Is(err, store.ErrNotFound)).To(BeTrue())
			Expect(stores.enrollments.createCalls).To(BeZero())
		})

		It("rejects a duplicate enrollment found by the pre-check", func() {
			stores.enrollments.getByUserAndChallengeFn = func(_ context.Context, _, _ int64) (*model.Enrollment, error) {
				return &model.Enrollment{ID: 5, UserID: 7, ChallengeID: 1}, nil
			}

			_, err := svc.Create(context.Background(), member(100), 1, 100)
			Expect(errors.Is(err, service.ErrAlreadyEnrolled)).To(BeTrue())
			Expect(stores.enrollments.createCalls).To(BeZero())
		})

		It("rejects a duplicate that slipped past the pre-check", func() {
			stores.enrollments.createFn = func(_ context.Context, _ *model.Enrollment) error {
				return store.ErrConflict
			}

			_, err := svc.Create(context.Background(), member(100), 1, 100)
			Expect(errors.Is(err, service.ErrAlreadyEnrolled)).To(BeTrue())
		})
	})

	Describe("UpdateStatus", func() {
		It("normalizes casing before storing", func() {
			var gotStatus model.EnrollmentStatus
			stores.enrollments.updateStatusFn = func(_ context.Context, _, id int64, status model.EnrollmentStatus) (*model.Enrollment, error) {
				gotStatus = status
				return &model.Enrollment{ID: id, Status: status}, nil
			}

			enr, err := svc.UpdateStatus(context.Background(), 5, 100, " COMPLETED ")
			Expect(err).NotTo(HaveOccurred())
			Expect(gotStatus).To(Equal(model.EnrollmentStatusCompleted))
			Expect(enr.Status).To(Equal(model.EnrollmentStatusCompleted))
		})

		It("rejects a status outside the enumeration", func() {
			_, err := svc.UpdateStatus(context.Background(), 5, 100, "paused")
			Expect(errors.Is(err, service.ErrValidation)).To(BeTrue())
		})

		It("masks a cross-workspace enrollment as not found", func() {
			stores.enrollments.updateStatusFn = func(_ context.Context, _, _ int64, _ model.EnrollmentStatus) (*model.Enrollment, error) {
				return nil, store.ErrNotFound
			}

			_, err := svc.UpdateStatus(context.Background(), 5, 200, "completed")
			Expect(errors.Is(err, store.ErrNotFound)).To(BeTrue())
		})
	})

	Describe("Delete", func() {
		It("deletes within the workspace scope", func() {
			var gotWorkspace, gotID int64
			stores.enrollments.deleteFn = func(_ context.Context, workspaceID, id int64) error {
				gotWorkspace, gotID = workspaceID, id
				return nil
			}

			Expect(svc.Delete(context.Background(), 5, 100)).To(Succeed())
			Expect(gotWorkspace).To(Equal(int64(100)))
			Expect(gotID).To(Equal(int64(5)))
		})
	})
})
