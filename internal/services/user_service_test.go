package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nazmulhs/campushub/internal/models"
	"github.com/nazmulhs/campushub/pkg/crypto"
	apperrors "github.com/nazmulhs/campushub/pkg/errors"
)

func TestRegisterCreatesLockedAccount(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService(t, "example.edu")

	user, err := svc.Register(context.Background(), RegisterInput{
		StudentID: "C210041",
		Email:     "someone@gmail.com",
		Name:      "Someone",
		Password:  "secret123",
	})
	require.NoError(t, err)
	require.Equal(t, models.RoleStudent, user.Role)
	require.False(t, user.IsVerified)
	require.False(t, user.IsActive)
	require.Len(t, env.mailer.sent, 1)

	var stats models.Stats
	require.NoError(t, env.db.First(&stats).Error)
	require.EqualValues(t, 1, stats.TotalUsers)
	require.EqualValues(t, 1, stats.Students)
}

func TestRegisterUniversityEmailAutoActivates(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService(t, "example.edu")

	user, err := svc.Register(context.Background(), RegisterInput{
		StudentID: "C210042",
		Email:     "c210042@example.edu",
		Name:      "Campus",
		Password:  "secret123",
	})
	require.NoError(t, err)
	require.True(t, user.IsActive)
	require.False(t, user.IsVerified)
}

func TestRegisterDuplicateRejected(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService(t, "")

	_, err := svc.Register(context.Background(), RegisterInput{
		StudentID: "C210043", Email: "dup@example.com", Name: "A", Password: "secret123",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{
		StudentID: "C210043", Email: "other@example.com", Name: "B", Password: "secret123",
	})
	require.Error(t, err)
	require.Equal(t, apperrors.ErrConflict.Code, apperrors.FromError(err).Code)

	_, err = svc.Register(context.Background(), RegisterInput{
		StudentID: "C210099", Email: "dup@example.com", Name: "C", Password: "secret123",
	})
	require.Error(t, err)
	require.Equal(t, apperrors.ErrConflict.Code, apperrors.FromError(err).Code)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService(t, "")

	_, err := svc.Register(context.Background(), RegisterInput{
		StudentID: "C210044", Email: "a@example.com", Name: "A",
		Password: "secret123", Role: models.RoleAdmin,
	})
	require.Error(t, err)
}

func loginReadyUser(t *testing.T, env *testEnv, email, password string, verified, active bool) *models.User {
	t.Helper()
	hash, err := crypto.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		StudentID:  "S-" + email,
		Email:      email,
		Name:       "Login User",
		Password:   hash,
		Role:       models.RoleStudent,
		IsVerified: verified,
		IsActive:   active,
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func TestLoginHappyPath(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService(t, "")
	loginReadyUser(t, env, "login@example.com", "secret123", true, true)

	result, err := svc.Login(context.Background(), "login@example.com", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)

	claims, err := env.jwt.ValidateUserToken(result.Token)
	require.NoError(t, err)
	require.Equal(t, result.User.ID, claims.UserID)
	require.Equal(t, models.RoleStudent, claims.Role)
}

func TestLoginRefusesUnverifiedAndInactive(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService(t, "")
	loginReadyUser(t, env, "unverified@example.com", "secret123", false, true)
	loginReadyUser(t, env, "inactive@example.com", "secret123", true, false)

	_, err := svc.Login(context.Background(), "unverified@example.com", "secret123")
	require.ErrorIs(t, err, apperrors.ErrEmailNotVerified)

	_, err = svc.Login(context.Background(), "inactive@example.com", "secret123")
	require.ErrorIs(t, err, apperrors.ErrAccountInactive)
}

func TestLoginBadPassword(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService(t, "")
	loginReadyUser(t, env, "badpass@example.com", "secret123", true, true)

	_, err := svc.Login(context.Background(), "badpass@example.com", "wrong")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "ghost@example.com", "secret123")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginResetsOTPAttempts(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService(t, "")
	user := loginReadyUser(t, env, "attempts@example.com", "secret123", true, true)
	require.NoError(t, env.db.Model(user).Update("otp_attempts", 3).Error)

	_, err := svc.Login(context.Background(), "attempts@example.com", "secret123")
	require.NoError(t, err)

	var stored models.User
	require.NoError(t, env.db.First(&stored, "id = ?", user.ID).Error)
	require.Zero(t, stored.OTPAttempts)
}

func TestUpdateProfileEmailChangeConsumesAllowanceAndLocks(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService(t, "example.edu")
	user := loginReadyUser(t, env, "before@example.com", "secret123", true, true)

	newEmail := "after@example.com"
	updated, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{Email: &newEmail})
	require.NoError(t, err)
	require.Equal(t, newEmail, updated.Email)
	require.False(t, updated.IsVerified)
	require.False(t, updated.IsActive)
	require.Zero(t, updated.EmailChangeCount)
	require.NotEmpty(t, env.mailer.sent)

	// The allowance is spent; another change is refused.
	another := "third@example.com"
	_, err = svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{Email: &another})
	require.Error(t, err)
}

func TestActivateRequiresVerifiedUser(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService(t, "")
	unverified := env.createUser(t, "U100", "u100@example.com", models.RoleStudent, false, false)
	verified := env.createUser(t, "U101", "u101@example.com", models.RoleStudent, true, false)

	_, err := svc.Activate(context.Background(), unverified.ID)
	require.Error(t, err)

	activated, err := svc.Activate(context.Background(), verified.ID)
	require.NoError(t, err)
	require.True(t, activated.IsActive)

	inactive, err := svc.ListInactive(context.Background())
	require.NoError(t, err)
	require.Empty(t, inactive)
}
