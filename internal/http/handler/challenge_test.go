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

var _ = Describe("ChallengeHandler", func() {
	var (
		router *gin.Engine
		svc    *mockChallengeService
		guard  *mockAccessGuard
		user   *model.User
	)

	workspaceID := int64(100)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		svc = &mockChallengeService{}
		guard = &mockAccessGuard{}
		user = &model.User{ID: 7, Email: "ada@example.com", Role: model.RoleAdmin, WorkspaceID: &workspaceID}

		guard.requireMemberFn = func(_ context.Context, _ *model.User, slug string) (*model.Workspace, error) {
			return &model.Workspace{ID: workspaceID, Slug: slug}, nil
		}
		guard.requireAdminFn = func(_ context.Context, _ *model.User, slug string) (*model.Workspace, error) {
			return &model.Workspace{ID: workspaceID, Slug: slug}, nil
		}

		h := handler.NewChallengeHandler(svc, guard)
		router = gin.New()
		router.Use(asUser(user))
		router.GET("/workspaces/:slug/challenges", h.List)
		router.POST("/workspaces/:slug/challenges", h.Create)
		router.GET("/workspaces/:slug/challenges/:id", h.Get)
		router.PATCH("/workspaces/:slug/challenges/:id", h.Update)
		router.DELETE("/workspaces/:slug/challenges/:id", h.Delete)
	})

	Describe("Create", func() {
		It("returns 201 and scopes the challenge to the workspace", func() {
			svc.createFn = func(_ context.Context, wsID int64, title, description string) (*model.Challenge, error) {
				Expect(wsID).To(Equal(workspaceID))
				return &model.Challenge{ID: 1, WorkspaceID: wsID, Title: title, Description: description}, nil
			}

			body, _ := json.Marshal(map[string]any{"title": "Bike to Work", "description": "Ride daily."})
			req := httptest.NewRequest(http.MethodPost, "/workspaces/acme/challenges", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))
		})

		It("returns 400 when the title is missing", func() {
			req := httptest.NewRequest(http.MethodPost, "/workspaces/acme/challenges", bytes.NewBufferString(`{}`))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 403 for a participant", func() {
			guard.requireAdminFn = func(_ context.Context, _ *model.User, _ string) (*model.Workspace, error) {
				return nil, service.ErrAdminRequired
			}

			body, _ := json.Marshal(map[string]any{"title": "Bike to Work", "description": "Ride daily."})
			req := httptest.NewRequest(http.MethodPost, "/workspaces/acme/challenges", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})
	})

	Describe("Get", func() {
		It("returns 404 for a challenge in another workspace", func() {
			svc.getFn = func(_ context.Context, _, _ int64) (*model.Challenge, error) {
				return nil, store.ErrNotFound
			}

			req := httptest.NewRequest(http.MethodGet, "/workspaces/acme/challenges/999", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("returns 400 for a malformed id", func() {
			req := httptest.NewRequest(http.MethodGet, "/workspaces/acme/challenges/abc", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 200 with the challenge", func() {
			svc.getFn = func(_ context.Context, challengeID, wsID int64) (*model.Challenge, error) {
				return &model.Challenge{ID: challengeID, WorkspaceID: wsID, Title: "Bike"}, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/workspaces/acme/challenges/1", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["title"]).To(Equal("Bike"))
		})
	})

	Describe("Update", func() {
		It("passes only the provided fields", func() {
			svc.updateFn = func(_ context.Context, _, _ int64, patch service.ChallengeUpdate) (*model.Challenge, error) {
				Expect(patch.Title).NotTo(BeNil())
				Expect(*patch.Title).To(Equal("New"))
				Expect(patch.Description).To(BeNil())
				return &model.Challenge{ID: 1, WorkspaceID: workspaceID, Title: "New"}, nil
			}

			body, _ := json.Marshal(map[string]any{"title": "New"})
			req := httptest.NewRequest(http.MethodPatch, "/workspaces/acme/challenges/1", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
		})
	})

	Describe("Delete", func() {
		It("returns 200 after a cascade delete", func() {
			var deleted int64
			svc.deleteFn = func(_ context.Context, challengeID, _ int64) error {
				deleted = challengeID
				return nil
			}

			req := httptest.NewRequest(http.MethodDelete, "/workspaces/acme/challenges/1", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(deleted).To(Equal(int64(1)))
		})
	})
})
