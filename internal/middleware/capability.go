package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/nazmulhs/campushub/internal/permissions"
	apperrors "github.com/nazmulhs/campushub/pkg/errors"
	"github.com/nazmulhs/campushub/pkg/response"
)

// RequireCapability checks that the authenticated user's role holds the
// capability. It must run after Auth.
func RequireCapability(checker *permissions.Checker, capability permissions.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(CtxRoleKey)
		if !ok {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}
		raw, _ := v.(string)
		role, err := permissions.ParseRole(raw)
		if err != nil {
			response.Error(c, apperrors.ErrForbidden)
			c.Abort()
			return
		}

		if err := checker.Check(role, capability); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Next()
	}
}
