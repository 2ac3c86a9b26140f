package router

import (
	"changemaker.app/server/internal/http/handler"
	"changemaker.app/server/internal/http/middleware"
	"changemaker.app/server/internal/service"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	DashboardURL string
	IsProduction bool
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authHandler := handler.NewAuthHandler(services.Auth, cfg.DashboardURL, cfg.IsProduction)
	AuthRouter(router.Group("/auth"), authHandler, services.Auth, cfg.IsProduction)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RequireAuth(services.Auth, cfg.IsProduction))
	{
		workspaceHandler := handler.NewWorkspaceHandler(services.Workspaces, services.Guard)
		challengeHandler := handler.NewChallengeHandler(services.Challenges, services.Guard)
		enrollmentHandler := handler.NewEnrollmentHandler(services.Enrollments, services.Users, services.Guard)
		WorkspaceRouter(v1.Group("/workspaces"), workspaceHandler, challengeHandler, enrollmentHandler)
	}
}
