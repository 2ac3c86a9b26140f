package router

import (
	"changemaker.app/server/internal/http/handler"
	"changemaker.app/server/internal/http/middleware"
	"changemaker.app/server/internal/service"
	"github.com/gin-gonic/gin"
)

func AuthRouter(rg *gin.RouterGroup, h *handler.AuthHandler, authService service.AuthService, secureCookies bool) {
	rg.GET("/login", h.Login)
	rg.GET("/callback", h.Callback)
	rg.POST("/logout", h.Logout)
	rg.GET("/me", middleware.RequireAuth(authService, secureCookies), h.Me)
}
