package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	iauth "github.com/nazmulhs/campushub/internal/auth"
	"github.com/nazmulhs/campushub/internal/middleware"
	"github.com/nazmulhs/campushub/internal/models"
)

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if req := c.Request; req != nil {
		return req.Context()
	}
	return context.Background()
}

// currentUser returns the authenticated member set by the auth middleware.
func currentUser(c *gin.Context) (*models.User, bool) {
	value, ok := c.Get(middleware.CtxUserKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}

func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserIDKey)
}

func currentRole(c *gin.Context) string {
	return c.GetString(middleware.CtxRoleKey)
}

// currentGuest returns the guest-token claims set by the guest auth middleware.
func currentGuest(c *gin.Context) (*iauth.GuestClaims, bool) {
	value, ok := c.Get(middleware.CtxGuestClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*iauth.GuestClaims)
	return claims, ok && claims != nil
}
