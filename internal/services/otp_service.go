package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nazmulhs/campushub/internal/models"
	"github.com/nazmulhs/campushub/internal/realtime"
	apperrors "github.com/nazmulhs/campushub/pkg/errors"
	"github.com/nazmulhs/campushub/pkg/logger"
	"github.com/nazmulhs/campushub/pkg/mail"
	"github.com/nazmulhs/campushub/pkg/metrics"
)

const (
	otpDigits         = 6
	otpTTL            = 10 * time.Minute
	otpResendCooldown = 60 * time.Second
)

// OTP verification errors exposed to handlers.
var (
	ErrOTPNotFound = apperrors.New("OTP_NOT_FOUND", "No pending verification code for this account", 400)
	ErrOTPMismatch = apperrors.New("OTP_MISMATCH", "Incorrect verification code", 400)
	ErrOTPExpired  = apperrors.New("OTP_EXPIRED", "Verification code expired, request a new one", 400)
)

// OTPService manages email verification codes.
type OTPService struct {
	db            *gorm.DB
	mailer        mail.Mailer
	notifications *NotificationService
	hub           *realtime.Hub
	log           *zap.Logger
	now           func() time.Time
}

// NewOTPService constructs an OTPService. The hub and notification service
// are optional; when nil the admin fan-out is skipped.
func NewOTPService(db *gorm.DB, mailer mail.Mailer, notifications *NotificationService, hub *realtime.Hub) (*OTPService, error) {
	if db == nil {
		return nil, errors.New("otp service: db is required")
	}
	return &OTPService{
		db:            db,
		mailer:        mailer,
		notifications: notifications,
		hub:           hub,
		log:           logger.WithModule("otp"),
		now:           time.Now,
	}, nil
}

// IssueAndSend generates a fresh code for the user, persists it, and emails
// it. Delivery failures are logged, not returned, so a flaky relay never
// blocks registration.
func (s *OTPService) IssueAndSend(ctx context.Context, user *models.User) error {
	ctx = ensureContext(ctx)
	if user == nil || user.ID == "" {
		return errors.New("otp service: user is required")
	}

	code, err := generateOTP()
	if err != nil {
		return fmt.Errorf("otp service: generate code: %w", err)
	}

	issuedAt := s.now().UTC()
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"otp_code":       code,
			"otp_created_at": issuedAt,
			"is_verified":    false,
		}).Error; err != nil {
		return fmt.Errorf("otp service: store code: %w", err)
	}

	user.OTPCode = &code
	user.OTPCreatedAt = &issuedAt
	user.IsVerified = false

	s.sendCode(ctx, user.Email, user.Name, code)
	return nil
}

// Verify checks the submitted code for the account registered under email.
// A correct code succeeds exactly once: it is cleared on success.
func (s *OTPService) Verify(ctx context.Context, email, code string) (*models.User, error) {
	ctx = ensureContext(ctx)
	email = strings.ToLower(strings.TrimSpace(email))
	code = strings.TrimSpace(code)

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("otp service: load user: %w", err)
	}

	if user.OTPCode == nil || user.OTPCreatedAt == nil {
		metrics.OTPVerifications.WithLabelValues("invalid").Inc()
		return nil, ErrOTPNotFound
	}

	if s.now().Sub(*user.OTPCreatedAt) > otpTTL {
		metrics.OTPVerifications.WithLabelValues("expired").Inc()
		return nil, ErrOTPExpired
	}

	if *user.OTPCode != code {
		metrics.OTPVerifications.WithLabelValues("invalid").Inc()
		if err := s.db.WithContext(ctx).Model(&models.User{}).
			Where("id = ?", user.ID).
			Update("otp_attempts", gorm.Expr("otp_attempts + 1")).Error; err != nil {
			s.log.Warn("failed to record otp attempt", zap.Error(err))
		}
		return nil, ErrOTPMismatch
	}

	wasVerified := user.IsVerified
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"otp_code":       nil,
			"otp_created_at": nil,
			"otp_attempts":   0,
			"is_verified":    true,
		}).Error; err != nil {
		return nil, fmt.Errorf("otp service: mark verified: %w", err)
	}

	user.OTPCode = nil
	user.OTPCreatedAt = nil
	user.OTPAttempts = 0
	user.IsVerified = true

	metrics.OTPVerifications.WithLabelValues("success").Inc()

	if !wasVerified {
		if err := incrementStats(s.db.WithContext(ctx), map[string]int{"verified_users": 1}); err != nil {
			s.log.Warn("failed to bump verified counter", zap.Error(err))
		}
	}

	if !user.IsActive {
		s.notifyAdminsPendingActivation(ctx, &user)
	}

	return &user, nil
}

// Resend issues a new code unless one was sent within the cooldown window.
// Rejections carry the remaining wait in seconds.
func (s *OTPService) Resend(ctx context.Context, email string) error {
	ctx = ensureContext(ctx)
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("otp service: load user: %w", err)
	}

	if user.OTPCreatedAt != nil {
		elapsed := s.now().Sub(*user.OTPCreatedAt)
		if elapsed < otpResendCooldown {
			remaining := int((otpResendCooldown - elapsed).Seconds())
			if remaining < 1 {
				remaining = 1
			}
			return apperrors.NewCooldown("A code was sent recently", remaining)
		}
	}

	return s.IssueAndSend(ctx, &user)
}

func (s *OTPService) notifyAdminsPendingActivation(ctx context.Context, user *models.User) {
	var admins []models.User
	if err := s.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", models.RoleAdmin, true).
		Find(&admins).Error; err != nil {
		s.log.Warn("failed to load admins for activation notice", zap.Error(err))
		return
	}

	if s.notifications != nil {
		for _, admin := range admins {
			if _, err := s.notifications.Create(ctx, CreateNotificationInput{
				UserID:  admin.ID,
				Type:    models.NotificationAnnouncement,
				Title:   "User awaiting activation",
				Message: fmt.Sprintf("%s (%s) verified their email and awaits activation", user.Name, user.Email),
				Metadata: map[string]any{
					"user_id": user.ID,
					"email":   user.Email,
				},
			}); err != nil {
				s.log.Warn("failed to notify admin", zap.String("admin_id", admin.ID), zap.Error(err))
			}
		}
	}

	if s.hub != nil {
		s.hub.BroadcastStream(realtime.StreamAdminUsers, realtime.Message{
			Event: "user.pending_activation",
			Data: map[string]any{
				"user_id":    user.ID,
				"name":       user.Name,
				"email":      user.Email,
				"student_id": user.StudentID,
			},
		})
	}
}

func (s *OTPService) sendCode(ctx context.Context, email, name, code string) {
	if s.mailer == nil {
		return
	}

	err := s.mailer.Send(ctx, mail.Message{
		To:      []string{email},
		Subject: "Your verification code",
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour verification code is %s. It expires in %d minutes.\n",
			name, code, int(otpTTL.Minutes())),
	})
	switch {
	case err == nil:
		metrics.EmailsSent.WithLabelValues("otp", "success").Inc()
	case errors.Is(err, mail.ErrSMTPDisabled):
		s.log.Debug("smtp disabled, otp email skipped", zap.String("email", email))
	default:
		metrics.EmailsSent.WithLabelValues("otp", "failure").Inc()
		s.log.Warn("failed to send otp email", zap.String("email", email), zap.Error(err))
	}
}

func generateOTP() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n), nil
}
