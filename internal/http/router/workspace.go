package router

import (
	"changemaker.app/server/internal/http/handler"
	"github.com/gin-gonic/gin"
)

func WorkspaceRouter(
	rg *gin.RouterGroup,
	ws *handler.WorkspaceHandler,
	ch *handler.ChallengeHandler,
	enr *handler.EnrollmentHandler,
) {
	rg.GET("", ws.List)
	rg.POST("", ws.Create)

	rg.GET("/:slug", ws.Get)
	rg.PATCH("/:slug", ws.Update)
	rg.DELETE("/:slug", ws.Delete)
	rg.POST("/:slug/join", ws.Join)
	rg.POST("/:slug/leave", ws.Leave)
	rg.GET("/:slug/members", ws.Members)
	rg.GET("/:slug/stats", ws.Stats)

	rg.GET("/:slug/challenges", ch.List)
	rg.POST("/:slug/challenges", ch.Create)
	rg.GET("/:slug/challenges/:id", ch.Get)
	rg.PUT("/:slug/challenges/:id", ch.Update)
	rg.PATCH("/:slug/challenges/:id", ch.Update)
	rg.DELETE("/:slug/challenges/:id", ch.Delete)

	rg.GET("/:slug/enrollments", enr.List)
	rg.POST("/:slug/enrollments", enr.Create)
	rg.PATCH("/:slug/enrollments/:id", enr.UpdateStatus)
	rg.DELETE("/:slug/enrollments/:id", enr.Delete)
}
