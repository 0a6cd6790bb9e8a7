package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	iauth "github.com/nazmulhs/campushub/internal/auth"
	"github.com/nazmulhs/campushub/internal/database/testutil"
	"github.com/nazmulhs/campushub/internal/models"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *gorm.DB, *iauth.JWTService, *models.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	jwt, err := iauth.NewJWTService(iauth.JWTConfig{Secret: "test-secret", Issuer: "campushub-test"})
	require.NoError(t, err)

	user := &models.User{
		StudentID:  "S001",
		Email:      "s001@example.com",
		Name:       "Member",
		Password:   "hash",
		Role:       models.RoleStudent,
		IsVerified: true,
		IsActive:   true,
	}
	require.NoError(t, db.Create(user).Error)

	r := gin.New()
	r.GET("/me", Auth(jwt, db), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxUserIDKey))
	})
	return r, db, jwt, user
}

func TestAuthAcceptsValidToken(t *testing.T) {
	r, _, jwt, user := newAuthRouter(t)

	token, err := jwt.GenerateUserToken(user.ID, user.Role)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, user.ID, w.Body.String())
}

func TestAuthRejectsMissingOrGarbageToken(t *testing.T) {
	r, _, _, _ := newAuthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsGuestTokenOnMemberRoute(t *testing.T) {
	r, _, jwt, _ := newAuthRouter(t)

	token, err := jwt.GenerateGuestToken("guest-1", []string{"event-1"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsDeactivatedUser(t *testing.T) {
	r, db, jwt, user := newAuthRouter(t)

	token, err := jwt.GenerateUserToken(user.ID, user.Role)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.User{}).
		Where("id = ?", user.ID).Update("is_active", false).Error)

	// Deactivation cuts access even while the token is still valid.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGuestAuthSetsClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)

	jwt, err := iauth.NewJWTService(iauth.JWTConfig{Secret: "test-secret", Issuer: "campushub-test"})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/guest", GuestAuth(jwt), func(c *gin.Context) {
		claims := c.MustGet(CtxGuestClaimsKey).(*iauth.GuestClaims)
		c.String(http.StatusOK, claims.GuestID)
	})

	token, err := jwt.GenerateGuestToken("guest-9", []string{"event-9"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guest", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "guest-9", w.Body.String())
}
