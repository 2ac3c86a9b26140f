package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"changemaker.app/server/internal/http/handler"
	"changemaker.app/server/internal/model"
	"changemaker.app/server/internal/service"
	"changemaker.app/server/internal/store"
)

var _ = Describe("EnrollmentHandler", func() {
	var (
		router *gin.Engine
		svc    *mockEnrollmentService
		users  *mockUserService
		guard  *mockAccessGuard
		user   *model.User
	)

	workspaceID := int64(100)

	newRouter := func(u *model.User) *gin.Engine {
		h := handler.NewEnrollmentHandler(svc, users, guard)
		r := gin.New()
		r.Use(asUser(u))
		r.GET("/workspaces/:slug/enrollments", h.List)
		r.POST("/workspaces/:slug/enrollments", h.Create)
		r.PATCH("/workspaces/:slug/enrollments/:id", h.UpdateStatus)
		r.DELETE("/workspaces/:slug/enrollments/:id", h.Delete)
		return r
	}

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		svc = &mockEnrollmentService{}
		users = &mockUserService{}
		guard = &mockAccessGuard{}
		user = &model.User{ID: 7, Email: "ada@example.com", Role: model.RoleParticipant, WorkspaceID: &workspaceID}

		// Default: the enrollment under test belongs to the caller.
		svc.getFn = func(_ context.Context, enrollmentID, _ int64) (*model.Enrollment, error) {
			return &model.Enrollment{ID: enrollmentID, UserID: 7, ChallengeID: 1, Status: model.EnrollmentStatusActive}, nil
		}

		guard.requireMemberFn = func(_ context.Context, _ *model.User, slug string) (*model.Workspace, error) {
			return &model.Workspace{ID: workspaceID, Slug: slug}, nil
		}
		guard.requireAdminFn = func(_ context.Context, _ *model.User, slug string) (*model.Workspace, error) {
			return &model.Workspace{ID: workspaceID, Slug: slug}, nil
		}

		router = newRouter(user)
	})

	Describe("Create", func() {
		It("returns 201 with the new enrollment", func() {
			svc.createFn = func(_ context.Context, u *model.User, challengeID, wsID int64) (*model.Enrollment, error) {
				Expect(u.ID).To(Equal(int64(7)))
				Expect(wsID).To(Equal(workspaceID))
				return &model.Enrollment{ID: 5, UserID: u.ID, ChallengeID: challengeID, Status: model.EnrollmentStatusActive}, nil
			}

			body, _ := json.Marshal(map[string]any{"challenge_id": "1"})
			req := httptest.NewRequest(http.MethodPost, "/workspaces/acme/enrollments", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["status"]).To(Equal("active"))
		})

		It("returns 409 on a duplicate enrollment", func() {
			svc.createFn = func(_ context.Context, _ *model.User, _, _ int64) (*model.Enrollment, error) {
				return nil, service.ErrAlreadyEnrolled
			}

			body, _ := json.Marshal(map[string]any{"challenge_id": "1"})
			req := httptest.NewRequest(http.MethodPost, "/workspaces/acme/enrollments", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusConflict))
		})

		It("allows an admin to enroll another member", func() {
			admin := &model.User{ID: 8, Email: "root@example.com", Role: model.RoleAdmin, WorkspaceID: &workspaceID}
			target := &model.User{ID: 9, Email: "bob@example.com", Role: model.RoleParticipant, WorkspaceID: &workspaceID}
			users.getByIDFn = func(_ context.Context, userID int64) (*model.User, error) {
				Expect(userID).To(Equal(int64(9)))
				return target, nil
			}
			svc.createFn = func(_ context.Context, u *model.User, challengeID, _ int64) (*model.Enrollment, error) {
				Expect(u.ID).To(Equal(int64(9)))
				return &model.Enrollment{ID: 6, UserID: u.ID, ChallengeID: challengeID, Status: model.EnrollmentStatusActive}, nil
			}

			body, _ := json.Marshal(map[string]any{"challenge_id": "1", "user_id": "9"})
			req := httptest.NewRequest(http.MethodPost, "/workspaces/acme/enrollments", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			newRouter(admin).ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))
		})

		It("forbids a participant from enrolling someone else", func() {
			guard.requireAdminFn = func(_ context.Context, _ *model.User, _ string) (*model.Workspace, error) {
				return nil, service.ErrAdminRequired
			}

			body, _ := json.Marshal(map[string]any{"challenge_id": "1", "user_id": "9"})
			req := httptest.NewRequest(http.MethodPost, "/workspaces/acme/enrollments", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("returns 404 when the challenge is outside the workspace", func() {
			svc.createFn = func(_ context.Context, _ *model.User, _, _ int64) (*model.Enrollment, error) {
				return nil, store.ErrNotFound
			}

			body, _ := json.Marshal(map[string]any{"challenge_id": "999"})
			req := httptest.NewRequest(http.MethodPost, "/workspaces/acme/enrollments", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("List", func() {
		It("lists only the caller's enrollments for a participant", func() {
			var listedUser int64
			svc.listForUserFn = func(_ context.Context, userID, _ int64) ([]model.Enrollment, error) {
				listedUser = userID
				return []model.Enrollment{{ID: 5, UserID: userID, ChallengeID: 1, Status: model.EnrollmentStatusActive}}, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/workspaces/acme/enrollments", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(listedUser).To(Equal(int64(7)))
		})

		It("lists the whole workspace for an admin", func() {
			admin := &model.User{ID: 8, Email: "root@example.com", Role: model.RoleAdmin, WorkspaceID: &workspaceID}
			var listedWorkspace int64
			svc.listForWorkspaceFn = func(_ context.Context, wsID int64) ([]model.Enrollment, error) {
				listedWorkspace = wsID
				return nil, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/workspaces/acme/enrollments", nil)
			w := httptest.NewRecorder()

			newRouter(admin).ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(listedWorkspace).To(Equal(workspaceID))
		})
	})

	Describe("UpdateStatus", func() {
		It("returns 400 for a status outside the enumeration", func() {
			svc.updateStatusFn = func(_ context.Context, _, _ int64, status string) (*model.Enrollment, error) {
				return nil, service.ErrValidation
			}

			body, _ := json.Marshal(map[string]any{"status": "paused"})
			req := httptest.NewRequest(http.MethodPatch, "/workspaces/acme/enrollments/5", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 200 with the updated enrollment", func() {
			svc.updateStatusFn = func(_ context.Context, enrollmentID, _ int64, status string) (*model.Enrollment, error) {
				return &model.Enrollment{ID: enrollmentID, Status: model.EnrollmentStatusCompleted}, nil
			}

			body, _ := json.Marshal(map[string]any{"status": "completed"})
			req := httptest.NewRequest(http.MethodPatch, "/workspaces/acme/enrollments/5", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["status"]).To(Equal("completed"))
		})
	})

	Describe("Delete", func() {
		It("allows the owner to withdraw", func() {
			var deleted int64
			svc.deleteFn = func(_ context.Context, enrollmentID, _ int64) error {
				deleted = enrollmentID
				return nil
			}

			req := httptest.NewRequest(http.MethodDelete, "/workspaces/acme/enrollments/5", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(deleted).To(Equal(int64(5)))
		})

		It("forbids a participant from deleting another member's enrollment", func() {
			svc.getFn = func(_ context.Context, enrollmentID, _ int64) (*model.Enrollment, error) {
				return &model.Enrollment{ID: enrollmentID, UserID: 9, ChallengeID: 1}, nil
			}

			req := httptest.NewRequest(http.MethodDelete, "/workspaces/acme/enrollments/5", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("returns 404 for an enrollment in another workspace", func() {
			svc.deleteFn = func(_ context.Context, _, _ int64) error {
				return store.ErrNotFound
			}

			req := httptest.NewRequest(http.MethodDelete, "/workspaces/acme/enrollments/5", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})
})
