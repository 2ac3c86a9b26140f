package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"changemaker.app/server/internal/http/dto"
	"changemaker.app/server/internal/http/middleware"
	"changemaker.app/server/internal/model"
	"changemaker.app/server/internal/service"
	"changemaker.app/server/internal/store"
	"github.com/gin-gonic/gin"
)

type EnrollmentHandler struct {
	enrollmentService service.EnrollmentService
	userService       service.UserService
	guard             service.AccessGuard
}

func NewEnrollmentHandler(
	enrollmentService service.EnrollmentService,
	userService service.UserService,
	guard service.AccessGuard,
) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollmentService: enrollmentService,
		userService:       userService,
		guard:             guard,
	}
}

// Create enrolls the authenticated user in a challenge of their workspace.
// Admins may enroll another member by passing user_id.
func (h *EnrollmentHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	caller := middleware.GetUser(ctx)

	ws, err := h.guard.RequireMember(ctx, caller, c.Param("slug"))
	if err != nil {
		respondGuardError(c, err)
		return
	}

	var req dto.CreateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "challenge_id is required"})
		return
	}

	enrollee := caller
	if req.UserID != nil && *req.UserID != caller.ID {
		if _, err := h.guard.RequireAdmin(ctx, caller, c.Param("slug")); err != nil {
			respondGuardError(c, err)
			return
		}
		enrollee, err = h.userService.GetByID(ctx, *req.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			slog.ErrorContext(ctx, "failed to resolve enrollee", "error", err, "user_id", *req.UserID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create enrollment"})
			return
		}
	}

	enr, err := h.enrollmentService.Create(ctx, enrollee, req.ChallengeID, ws.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "challenge not found"})
		case errors.Is(err, service.ErrAlreadyEnrolled):
			c.JSON(http.StatusConflict, gin.H{"error": "already enrolled in this challenge"})
		default:
			slog.ErrorContext(ctx, "failed to create enrollment",
				"error", err,
				"challenge_id", req.ChallengeID,
				"user_id", enrollee.ID,
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create enrollment"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToEnrollmentResponse(enr))
}

// List returns every enrollment in the workspace for admins (optionally
// filtered by user_id), and only the caller's own enrollments for
// participants.
func (h *EnrollmentHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	ws, err := h.guard.RequireMember(ctx, user, c.Param("slug"))
	if err != nil {
		respondGuardError(c, err)
		return
	}

	var enrollments []model.Enrollment
	switch {
	case user.IsAdmin() && c.Query("user_id") != "":
		userID, perr := strconv.ParseInt(c.Query("user_id"), 10, 64)
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
			return
		}
		enrollments, err = h.enrollmentService.ListForUser(ctx, userID, ws.ID)
	case user.IsAdmin():
		enrollments, err = h.enrollmentService.ListForWorkspace(ctx, ws.ID)
	default:
		enrollments, err = h.enrollmentService.ListForUser(ctx, user.ID, ws.ID)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to list enrollments", "error", err, "workspace_id", ws.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list enrollments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"enrollments": dto.ToEnrollmentResponses(enrollments)})
}

func (h *EnrollmentHandler) UpdateStatus(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	ws, err := h.guard.RequireMember(ctx, user, c.Param("slug"))
	if err != nil {
		respondGuardError(c, err)
		return
	}

	enrollmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if !h.ownerOrAdmin(c, user, enrollmentID, ws.ID) {
		return
	}

	var req dto.UpdateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	enr, err := h.enrollmentService.UpdateStatus(ctx, enrollmentID, ws.ID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "enrollment not found"})
		default:
			slog.ErrorContext(ctx, "failed to update enrollment", "error", err, "enrollment_id", enrollmentID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update enrollment"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToEnrollmentResponse(enr))
}

func (h *EnrollmentHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	ws, err := h.guard.RequireMember(ctx, user, c.Param("slug"))
	if err != nil {
		respondGuardError(c, err)
		return
	}

	enrollmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if !h.ownerOrAdmin(c, user, enrollmentID, ws.ID) {
		return
	}

	if err := h.enrollmentService.Delete(ctx, enrollmentID, ws.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "enrollment not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to delete enrollment", "error", err, "enrollment_id", enrollmentID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete enrollment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "enrollment deleted"})
}

// ownerOrAdmin admits admins and the enrollment's owner. It writes the error
// response itself and reports whether the caller may proceed.
func (h *EnrollmentHandler) ownerOrAdmin(c *gin.Context, user *model.User, enrollmentID, workspaceID int64) bool {
	if user.IsAdmin() {
		return true
	}

	ctx := c.Request.Context()
	enr, err := h.enrollmentService.Get(ctx, enrollmentID, workspaceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "enrollment not found"})
			return false
		}
		slog.ErrorContext(ctx, "failed to get enrollment", "error", err, "enrollment_id", enrollmentID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get enrollment"})
		return false
	}
	if enr.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return false
	}
	return true
}
