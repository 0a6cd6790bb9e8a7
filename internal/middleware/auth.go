package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	iauth "github.com/nazmulhs/campushub/internal/auth"
	"github.com/nazmulhs/campushub/internal/models"
	apperrors "github.com/nazmulhs/campushub/pkg/errors"
	"github.com/nazmulhs/campushub/pkg/response"
)

const (
	CtxUserKey        = "authUser"
	CtxUserIDKey      = "userID"
	CtxRoleKey        = "userRole"
	CtxGuestClaimsKey = "guestClaims"
)

// Auth enforces member JWT authentication. The user row is loaded on every
// request so deactivated accounts lose access before their token expires.
func Auth(jwt *iauth.JWTService, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := jwt.ValidateUserToken(token)
		if err != nil {
			// Normalise all validation failures to 401
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		var user models.User
		if err := db.WithContext(c.Request.Context()).
			Where("id = ?", claims.UserID).
			First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				response.Error(c, apperrors.ErrUnauthorized)
			} else {
				response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
			}
			c.Abort()
			return
		}

		if !user.IsActive {
			response.Error(c, apperrors.ErrAccountInactive)
			c.Abort()
			return
		}

		c.Set(CtxUserKey, &user)
		c.Set(CtxUserIDKey, user.ID)
		c.Set(CtxRoleKey, user.Role)

		c.Next()
	}
}

// GuestAuth enforces guest JWT authentication. Guest tokens carry their event
// scope in the claims, so no database lookup is needed.
func GuestAuth(jwt *iauth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := jwt.ValidateGuestToken(token)
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		c.Set(CtxGuestClaimsKey, claims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authz := c.GetHeader("Authorization")
	if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
		return "", false
	}
	return strings.TrimSpace(authz[7:]), true
}
