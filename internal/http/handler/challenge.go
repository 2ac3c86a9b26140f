package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"changemaker.app/server/internal/http/dto"
	"changemaker.app/server/internal/http/middleware"
	"changemaker.app/server/internal/service"
	"changemaker.app/server/internal/store"
	"github.com/gin-gonic/gin"
)

type ChallengeHandler struct {
	challengeService service.ChallengeService
	guard            service.AccessGuard
}

func NewChallengeHandler(challengeService service.ChallengeService, guard service.AccessGuard) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
		guard:            guard,
	}
}

func (h *ChallengeHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	ws, err := h.guard.RequireMember(ctx, user, c.Param("slug"))
	if err != nil {
		respondGuardError(c, err)
		return
	}

	challenges, err := h.challengeService.List(ctx, ws.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list challenges", "error", err, "workspace_id", ws.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list challenges"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"challenges": dto.ToChallengeResponses(challenges)})
}

func (h *ChallengeHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	ws, err := h.guard.RequireMember(ctx, user, c.Param("slug"))
	if err != nil {
		respondGuardError(c, err)
		return
	}

	challengeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	challenge, err := h.challengeService.Get(ctx, challengeID, ws.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "challenge not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to get challenge", "error", err, "challenge_id", challengeID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get challenge"})
		return
	}

	c.JSON(http.StatusOK, dto.ToChallengeResponse(challenge))
}

func (h *ChallengeHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	ws, err := h.guard.RequireAdmin(ctx, user, c.Param("slug"))
	if err != nil {
		respondGuardError(c, err)
		return
	}

	var req dto.CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	challenge, err := h.challengeService.Create(ctx, ws.ID, req.Title, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		slog.ErrorContext(ctx, "failed to create challenge", "error", err, "workspace_id", ws.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create challenge"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToChallengeResponse(challenge))
}

func (h *ChallengeHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	ws, err := h.guard.RequireAdmin(ctx, user, c.Param("slug"))
	if err != nil {
		respondGuardError(c, err)
		return
	}

	challengeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	challenge, err := h.challengeService.Update(ctx, challengeID, ws.ID, service.ChallengeUpdate{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "challenge not found"})
		default:
			slog.ErrorContext(ctx, "failed to update challenge", "error", err, "challenge_id", challengeID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update challenge"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToChallengeResponse(challenge))
}

func (h *ChallengeHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	ws, err := h.guard.RequireAdmin(ctx, user, c.Param("slug"))
	if err != nil {
		respondGuardError(c, err)
		return
	}

	challengeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.challengeService.Delete(ctx, challengeID, ws.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "challenge not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to delete challenge", "error", err, "challenge_id", challengeID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete challenge"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "challenge deleted"})
}
