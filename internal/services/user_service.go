package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nazmulhs/campushub/internal/auth"
	"github.com/nazmulhs/campushub/internal/media"
	"github.com/nazmulhs/campushub/internal/models"
	"github.com/nazmulhs/campushub/internal/realtime"
	"github.com/nazmulhs/campushub/pkg/crypto"
	apperrors "github.com/nazmulhs/campushub/pkg/errors"
	"github.com/nazmulhs/campushub/pkg/logger"
	"github.com/nazmulhs/campushub/pkg/metrics"
)

// RegisterInput carries a new member registration.
type RegisterInput struct {
	StudentID    string
	Email        string
	Name         string
	Password     string
	Role         string
	Batch        string
	DepartmentID string
}

// LoginResult bundles the issued token with the authenticated user.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// UpdateProfileInput lists the mutable profile fields. Nil pointers leave the
// field untouched.
type UpdateProfileInput struct {
	Name         *string
	Batch        *string
	DepartmentID *string
	Email        *string
}

// UserService implements account registration, login, and profile management.
type UserService struct {
	db       *gorm.DB
	jwt      *auth.JWTService
	otp      *OTPService
	uploader media.Uploader
	hub      *realtime.Hub
	log      *zap.Logger

	// universityDomain auto-activates accounts registered with a matching
	// email, e.g. "example.edu".
	universityDomain string
}

// NewUserService constructs a UserService. The uploader and hub are optional.
func NewUserService(db *gorm.DB, jwtService *auth.JWTService, otp *OTPService, uploader media.Uploader, hub *realtime.Hub, universityDomain string) (*UserService, error) {
	if db == nil {
		return nil, errors.New("user service: db is required")
	}
	if jwtService == nil {
		return nil, errors.New("user service: jwt service is required")
	}
	if otp == nil {
		return nil, errors.New("user service: otp service is required")
	}
	return &UserService{
		db:               db,
		jwt:              jwtService,
		otp:              otp,
		uploader:         uploader,
		hub:              hub,
		log:              logger.WithModule("users"),
		universityDomain: strings.TrimPrefix(strings.ToLower(strings.TrimSpace(universityDomain)), "@"),
	}, nil
}

// Register creates a member account and kicks off email verification.
// University-domain emails are activated immediately; everyone else waits for
// an administrator.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	email := strings.ToLower(strings.TrimSpace(input.Email))
	studentID := strings.TrimSpace(input.StudentID)
	if email == "" || studentID == "" {
		return nil, apperrors.NewBadRequest("student id and email are required")
	}

	role := defaultIfEmpty(strings.ToLower(strings.TrimSpace(input.Role)), models.RoleStudent)
	if role != models.RoleStudent && role != models.RoleTeacher {
		return nil, apperrors.NewBadRequest("role must be student or teacher")
	}

	var departmentID *string
	if strings.TrimSpace(input.DepartmentID) != "" {
		var department models.Department
		if err := s.db.WithContext(ctx).
			Where("id = ? AND is_active = ?", strings.TrimSpace(input.DepartmentID), true).
			First(&department).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrNotFound.WithMessage("Department not found")
			}
			return nil, fmt.Errorf("user service: load department: %w", err)
		}
		departmentID = &department.ID
	}

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("user service: hash password: %w", err)
	}

	user := models.User{
		StudentID:    studentID,
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		Password:     hash,
		Role:         role,
		Batch:        strings.TrimSpace(input.Batch),
		DepartmentID: departmentID,
		IsActive:     s.isUniversityEmail(email),
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewConflict("An account with this student id or email already exists")
		}
		return nil, fmt.Errorf("user service: create user: %w", err)
	}

	deltas := map[string]int{"total_users": 1}
	if role == models.RoleTeacher {
		deltas["teachers"] = 1
	} else {
		deltas["students"] = 1
	}
	if err := incrementStats(s.db.WithContext(ctx), deltas); err != nil {
		s.log.Warn("failed to bump user counters", zap.Error(err))
	}

	if err := s.otp.IssueAndSend(ctx, &user); err != nil {
		s.log.Warn("failed to issue otp after registration", zap.String("user_id", user.ID), zap.Error(err))
	}

	return &user, nil
}

// Login authenticates by email and password, refusing unverified or inactive
// accounts. A successful login resets the OTP attempt counter.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	ctx = ensureContext(ctx)
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := s.db.WithContext(ctx).Preload("Department").
		Where("email = ?", email).First(&user).Error; err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("user service: load user: %w", err)
	}

	if !crypto.VerifyPassword(user.Password, password) {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsVerified {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.ErrEmailNotVerified
	}
	if !user.IsActive {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.ErrAccountInactive
	}

	if user.OTPAttempts != 0 {
		if err := s.db.WithContext(ctx).Model(&models.User{}).
			Where("id = ?", user.ID).
			Update("otp_attempts", 0).Error; err != nil {
			s.log.Warn("failed to reset otp attempts", zap.Error(err))
		}
	}

	token, err := s.jwt.GenerateUserToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	return &LoginResult{Token: token, User: &user}, nil
}

// Get loads a user by ID.
func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	ctx = ensureContext(ctx)

	var user models.User
	if err := s.db.WithContext(ctx).Preload("Department").
		Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("user service: load user: %w", err)
	}
	return &user, nil
}

// UpdateProfile applies the supplied profile changes. Changing the email
// consumes one of the account's email changes, locks the account again, and
// restarts verification.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}

	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Batch != nil {
		updates["batch"] = strings.TrimSpace(*input.Batch)
	}
	if input.DepartmentID != nil {
		var department models.Department
		if err := s.db.WithContext(ctx).
			Where("id = ? AND is_active = ?", strings.TrimSpace(*input.DepartmentID), true).
			First(&department).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrNotFound.WithMessage("Department not found")
			}
			return nil, fmt.Errorf("user service: load department: %w", err)
		}
		updates["department_id"] = department.ID
	}

	emailChanged := false
	if input.Email != nil {
		newEmail := strings.ToLower(strings.TrimSpace(*input.Email))
		if newEmail != "" && newEmail != user.Email {
			if user.EmailChangeCount <= 0 {
				return nil, apperrors.NewBadRequest("Email change limit reached")
			}
			updates["email"] = newEmail
			updates["email_change_count"] = user.EmailChangeCount - 1
			updates["is_verified"] = false
			updates["is_active"] = s.isUniversityEmail(newEmail)
			emailChanged = true
		}
	}

	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).Updates(updates).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewConflict("An account with this email already exists")
		}
		return nil, fmt.Errorf("user service: update profile: %w", err)
	}

	user, err = s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if emailChanged {
		if err := s.otp.IssueAndSend(ctx, user); err != nil {
			s.log.Warn("failed to issue otp after email change", zap.String("user_id", user.ID), zap.Error(err))
		}
	}

	return user, nil
}

// UpdateProfilePicture uploads a new image, stores its URL, and removes the
// previous one from the image host.
func (s *UserService) UpdateProfilePicture(ctx context.Context, userID string, file io.Reader, filename string) (*models.User, error) {
	ctx = ensureContext(ctx)
	if s.uploader == nil {
		return nil, apperrors.NewBadRequest("Image uploads are not configured")
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.uploader.Upload(ctx, file, filename, "profiles")
	if err != nil {
		return nil, err
	}

	oldURL := user.ProfilePicture
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("profile_picture", url).Error; err != nil {
		return nil, fmt.Errorf("user service: store picture url: %w", err)
	}
	user.ProfilePicture = url

	if oldURL != "" {
		if err := s.uploader.Delete(ctx, oldURL); err != nil {
			s.log.Warn("failed to delete previous profile picture", zap.String("url", oldURL), zap.Error(err))
		}
	}

	return user, nil
}

// ListInactive returns verified accounts still waiting for activation.
func (s *UserService) ListInactive(ctx context.Context) ([]models.User, error) {
	ctx = ensureContext(ctx)

	var users []models.User
	if err := s.db.WithContext(ctx).Preload("Department").
		Where("is_verified = ? AND is_active = ?", true, false).
		Order("created_at ASC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("user service: list inactive: %w", err)
	}
	return users, nil
}

// Activate unlocks a verified account and announces it on the admin stream.
func (s *UserService) Activate(ctx context.Context, userID string) (*models.User, error) {
	ctx = ensureContext(ctx)

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsVerified {
		return nil, apperrors.NewBadRequest("User has not verified their email yet")
	}
	if user.IsActive {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_active", true).Error; err != nil {
		return nil, fmt.Errorf("user service: activate user: %w", err)
	}
	user.IsActive = true

	if s.hub != nil {
		s.hub.BroadcastStream(realtime.StreamAdminUsers, realtime.Message{
			Event: "user.activated",
			Data:  map[string]any{"user_id": user.ID, "email": user.Email},
		})
	}

	return user, nil
}

// Stats returns the singleton counter row.
func (s *UserService) Stats(ctx context.Context) (*models.Stats, error) {
	ctx = ensureContext(ctx)

	var stats models.Stats
	if err := s.db.WithContext(ctx).First(&stats).Error; err != nil {
		return nil, fmt.Errorf("user service: load stats: %w", err)
	}
	return &stats, nil
}

func (s *UserService) isUniversityEmail(email string) bool {
	if s.universityDomain == "" {
		return false
	}
	return strings.HasSuffix(email, "@"+s.universityDomain)
}
