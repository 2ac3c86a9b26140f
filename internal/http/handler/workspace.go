package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"changemaker.app/server/internal/http/dto"
	"changemaker.app/server/internal/http/middleware"
	"changemaker.app/server/internal/service"
	"github.com/gin-gonic/gin"
)

type WorkspaceHandler struct {
	workspaceService service.WorkspaceService
	guard            service.AccessGuard
}

func NewWorkspaceHandler(workspaceService service.WorkspaceService, guard service.AccessGuard) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: workspaceService,
		guard:            guard,
	}
}

func (h *WorkspaceHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	workspaces, err := h.workspaceService.List(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list workspaces", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list workspaces"})
		return
	}

	resp := make([]dto.WorkspaceResponse, len(workspaces))
	for i := range workspaces {
		resp[i] = *dto.ToWorkspaceResponse(&workspaces[i])
	}
	c.JSON(http.StatusOK, gin.H{"workspaces": resp})
}

func (h *WorkspaceHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	var req dto.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and slug are required"})
		return
	}

	ws, err := h.workspaceService.Create(ctx, req.Name, req.Slug, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrSlugTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "workspace slug already taken"})
		default:
			slog.ErrorContext(ctx, "failed to create workspace", "error", err, "slug", req.Slug)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create workspace"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToWorkspaceResponse(ws))
}

func (h *WorkspaceHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	ws, err := h.guard.RequireMember(ctx, user, c.Param("slug"))
	if err != nil {
		respondGuardError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkspaceResponse(ws))
}

func (h *WorkspaceHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	ws, err := h.guard.RequireAdmin(ctx, user, c.Param("slug"))
	if err != nil {
		respondGuardError(c, err)
		return
	}

	var req dto.UpdateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	updated, err := h.workspaceService.UpdateName(ctx, ws.ID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrWorkspaceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "workspace not found"})
		default:
			slog.ErrorContext(ctx, "failed to update workspace", "error", err, "workspace_id", ws.ID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update workspace"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkspaceResponse(updated))
}

func (h *WorkspaceHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	ws, err := h.guard.RequireAdmin(ctx, user, c.Param("slug"))
	if err != nil {
		respondGuardError(c, err)
		return
	}

	if err := h.workspaceService.Delete(ctx, ws.ID); err != nil {
		if errors.Is(err, service.ErrWorkspaceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "workspace not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to delete workspace", "error", err, "workspace_id", ws.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete workspace"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "workspace deleted"})
}

func (h *WorkspaceHandler) Join(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	ws, err := h.workspaceService.ResolveBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrWorkspaceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "workspace not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to resolve workspace", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to join workspace"})
		return
	}

	if err := h.workspaceService.Join(ctx, user.ID, ws.ID); err != nil {
		slog.ErrorContext(ctx, "failed to join workspace", "error", err, "workspace_id", ws.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to join workspace"})
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkspaceResponse(ws))
}

func (h *WorkspaceHandler) Leave(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	if _, err := h.guard.RequireMember(ctx, user, c.Param("slug")); err != nil {
		respondGuardError(c, err)
		return
	}

	if err := h.workspaceService.Leave(ctx, user.ID); err != nil {
		slog.ErrorContext(ctx, "failed to leave workspace", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to leave workspace"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "left workspace"})
}

func (h *WorkspaceHandler) Members(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	ws, err := h.guard.RequireAdmin(ctx, user, c.Param("slug"))
	if err != nil {
		respondGuardError(c, err)
		return
	}

	members, err := h.workspaceService.Members(ctx, ws.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list members", "error", err, "workspace_id", ws.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list members"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": dto.ToUserResponses(members)})
}

func (h *WorkspaceHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	ws, err := h.guard.RequireAdmin(ctx, user, c.Param("slug"))
	if err != nil {
		respondGuardError(c, err)
		return
	}

	stats, err := h.workspaceService.Stats(ctx, ws.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to compute stats", "error", err, "workspace_id", ws.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkspaceStatsResponse(stats))
}
