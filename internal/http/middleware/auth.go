package middleware

import (
	"context"
	"errors"
	"net/http"

	"changemaker.app/server/common/logger"
	"changemaker.app/server/internal/model"
	"changemaker.app/server/internal/service"
	"github.com/gin-gonic/gin"
)

type contextKey string

const (
	// SessionCookieName is the cookie carrying the session bearer token.
	SessionCookieName = "changemaker_session"

	userContextKey contextKey = "user"
)

// RequireAuth validates the session cookie and attaches the resolved user
// to the request context. Requests without a valid session are rejected
// with 401 before reaching the handler.
func RequireAuth(authService service.AuthService, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := SessionToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		user, session, err := authService.ValidateSession(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrSessionExpired) || errors.Is(err, service.ErrUserNotFound) {
				ClearSessionCookie(c, secureCookies)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to validate session"})
			return
		}

		ctx := WithUser(c.Request.Context(), user)
		ctx = logger.WithLogFields(ctx, logger.LogFields{
			UserID:      logger.Ptr(user.ID),
			SessionID:   logger.Ptr(session.ID),
			WorkspaceID: user.WorkspaceID,
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUser returns the authenticated user from the request context, or nil
// when RequireAuth did not run.
func GetUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}

// SessionToken returns the bearer token from the session cookie.
func SessionToken(c *gin.Context) (string, error) {
	token, err := c.Cookie(SessionCookieName)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", http.ErrNoCookie
	}
	return token, nil
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetCookie(
		SessionCookieName,
		"",
		-1,
		"/",
		"",
		secure,
		true,
	)
}
