package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nazmulhs/campushub/internal/models"
	apperrors "github.com/nazmulhs/campushub/pkg/errors"
)

func TestIssueAndSendStoresCodeAndEmails(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "C001", "c001@example.com", models.RoleStudent, false, false)

	require.NoError(t, env.otp.IssueAndSend(context.Background(), user))

	var stored models.User
	require.NoError(t, env.db.First(&stored, "id = ?", user.ID).Error)
	require.NotNil(t, stored.OTPCode)
	require.Len(t, *stored.OTPCode, 6)
	require.NotNil(t, stored.OTPCreatedAt)
	require.False(t, stored.IsVerified)

	require.Len(t, env.mailer.sent, 1)
	require.Contains(t, env.mailer.sent[0].Body, *stored.OTPCode)
}

func TestVerifySucceedsExactlyOnce(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "C002", "c002@example.com", models.RoleStudent, false, true)
	require.NoError(t, env.otp.IssueAndSend(context.Background(), user))

	verified, err := env.otp.Verify(context.Background(), user.Email, *user.OTPCode)
	require.NoError(t, err)
	require.True(t, verified.IsVerified)
	require.Nil(t, verified.OTPCode)

	// The code was consumed; a second attempt finds nothing pending.
	_, err = env.otp.Verify(context.Background(), user.Email, *user.OTPCode)
	require.ErrorIs(t, err, ErrOTPNotFound)
}

func TestVerifyWrongCodeIncrementsAttempts(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "C003", "c003@example.com", models.RoleStudent, false, true)
	require.NoError(t, env.otp.IssueAndSend(context.Background(), user))

	_, err := env.otp.Verify(context.Background(), user.Email, "000000x")
	require.ErrorIs(t, err, ErrOTPMismatch)

	var stored models.User
	require.NoError(t, env.db.First(&stored, "id = ?", user.ID).Error)
	require.Equal(t, 1, stored.OTPAttempts)
	require.False(t, stored.IsVerified)
}

func TestVerifyExpiredCode(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "C004", "c004@example.com", models.RoleStudent, false, true)
	require.NoError(t, env.otp.IssueAndSend(context.Background(), user))

	env.otp.now = func() time.Time { return time.Now().Add(otpTTL + time.Minute) }

	_, err := env.otp.Verify(context.Background(), user.Email, *user.OTPCode)
	require.ErrorIs(t, err, ErrOTPExpired)
}

func TestResendWithinCooldownCarriesRemainingSeconds(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "C005", "c005@example.com", models.RoleStudent, false, true)
	require.NoError(t, env.otp.IssueAndSend(context.Background(), user))

	err := env.otp.Resend(context.Background(), user.Email)
	require.Error(t, err)

	appErr := apperrors.FromError(err)
	require.Equal(t, 429, appErr.StatusCode)
	require.Greater(t, appErr.RetryAfter, 0)
	require.LessOrEqual(t, appErr.RetryAfter, 60)
}

func TestResendAfterCooldownIssuesNewCode(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "C006", "c006@example.com", models.RoleStudent, false, true)
	require.NoError(t, env.otp.IssueAndSend(context.Background(), user))

	env.otp.now = func() time.Time { return time.Now().Add(otpResendCooldown + time.Second) }

	require.NoError(t, env.otp.Resend(context.Background(), user.Email))
	require.Len(t, env.mailer.sent, 2)

	var stored models.User
	require.NoError(t, env.db.First(&stored, "id = ?", user.ID).Error)
	require.NotNil(t, stored.OTPCode)
	require.Len(t, *stored.OTPCode, 6)
	// Codes can collide, but the issue timestamp always moves forward.
	require.True(t, stored.OTPCreatedAt.After(*user.OTPCreatedAt))
}

func TestVerifyInactiveUserNotifiesAdmins(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "A001", "admin@example.com", models.RoleAdmin, true, true)
	user := env.createUser(t, "C007", "c007@example.com", models.RoleStudent, false, false)
	require.NoError(t, env.otp.IssueAndSend(context.Background(), user))

	_, err := env.otp.Verify(context.Background(), user.Email, *user.OTPCode)
	require.NoError(t, err)

	var count int64
	require.NoError(t, env.db.Model(&models.Notification{}).
		Where("user_id = ?", admin.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestVerifyUnknownEmail(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.otp.Verify(context.Background(), "nobody@example.com", "123456")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}
