package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"changemaker.app/server/internal/service"
	"github.com/gin-gonic/gin"
)

// respondGuardError maps access guard failures to responses. A workspace
// that exists but belongs to someone else surfaces as 403, an unknown slug
// as 404, so cross-tenant probing learns nothing beyond membership.
func respondGuardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrWorkspaceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "workspace not found"})
	case errors.Is(err, service.ErrNotMember):
		c.JSON(http.StatusForbidden, gin.H{"error": "not a member of this workspace"})
	case errors.Is(err, service.ErrAdminRequired):
		c.JSON(http.StatusForbidden, gin.H{"error": "admin privileges required"})
	default:
		slog.ErrorContext(c.Request.Context(), "access check failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
