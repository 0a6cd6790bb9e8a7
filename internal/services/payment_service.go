package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nazmulhs/campushub/internal/models"
	apperrors "github.com/nazmulhs/campushub/pkg/errors"
	"github.com/nazmulhs/campushub/pkg/logger"
)

// CreatePaymentInput records a course-registration fee payment.
type CreatePaymentInput struct {
	RegistrationID string
	Amount         float64
	Method         string
	TransactionID  string
}

// UpdatePaymentInput lists the fields an administrator may correct.
type UpdatePaymentInput struct {
	Amount        *float64
	Method        *string
	Status        *string
	TransactionID *string
}

// PaymentService manages course-registration payments.
type PaymentService struct {
	db            *gorm.DB
	notifications *NotificationService
	log           *zap.Logger
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(db *gorm.DB, notifications *NotificationService) (*PaymentService, error) {
	if db == nil {
		return nil, errors.New("payment service: db is required")
	}
	return &PaymentService{
		db:            db,
		notifications: notifications,
		log:           logger.WithModule("payments"),
	}, nil
}

// Create records a completed payment for the student's registration and
// confirms the registration in the same transaction.
func (s *PaymentService) Create(ctx context.Context, studentID string, input CreatePaymentInput) (*models.Payment, error) {
	ctx = ensureContext(ctx)

	if input.Amount <= 0 {
		return nil, apperrors.NewBadRequest("amount must be positive")
	}
	method, err := normalisePaymentMethod(input.Method)
	if err != nil {
		return nil, err
	}

	var registration models.CourseRegistration
	if err := s.db.WithContext(ctx).
		Where("id = ? AND student_id = ?", strings.TrimSpace(input.RegistrationID), studentID).
		First(&registration).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound.WithMessage("Registration not found")
		}
		return nil, fmt.Errorf("payment service: load registration: %w", err)
	}

	payment := models.Payment{
		RegistrationID: registration.ID,
		Amount:         input.Amount,
		Method:         method,
		Status:         models.PaymentStatusCompleted,
		TransactionID:  strings.TrimSpace(input.TransactionID),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			if isUniqueConstraintError(err) {
				return apperrors.NewConflict("This registration already has a payment")
			}
			return fmt.Errorf("payment service: create payment: %w", err)
		}

		return tx.Model(&models.CourseRegistration{}).
			Where("id = ?", registration.ID).
			Update("status", models.RegistrationStatusConfirmed).Error
	})
	if err != nil {
		return nil, err
	}

	return s.get(ctx, payment.ID)
}

// ListPaymentsInput filters payment listings.
type ListPaymentsInput struct {
	UserID string
	Role   string
}

// List returns payments scoped by the caller's role: students see their own,
// teachers see payments for courses they run routines for, admins see all.
func (s *PaymentService) List(ctx context.Context, input ListPaymentsInput) ([]models.Payment, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).
		Preload("Registration").
		Preload("Registration.Course").
		Preload("Registration.Student").
		Order("payments.created_at DESC")

	switch input.Role {
	case models.RoleAdmin:
	case models.RoleTeacher:
		query = query.
			Joins("JOIN course_registrations ON course_registrations.id = payments.registration_id").
			Joins("JOIN routines ON routines.course_id = course_registrations.course_id").
			Where("routines.teacher_id = ?", input.UserID).
			Distinct("payments.*")
	default:
		query = query.
			Joins("JOIN course_registrations ON course_registrations.id = payments.registration_id").
			Where("course_registrations.student_id = ?", input.UserID)
	}

	var payments []models.Payment
	if err := query.Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("payment service: list payments: %w", err)
	}
	return payments, nil
}

// Get loads a payment, restricting students to their own rows.
func (s *PaymentService) Get(ctx context.Context, paymentID, userID, role string) (*models.Payment, error) {
	ctx = ensureContext(ctx)

	payment, err := s.get(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if role == models.RoleStudent {
		if payment.Registration == nil || payment.Registration.StudentID != userID {
			return nil, apperrors.ErrNotFound
		}
	}
	return payment, nil
}

// Update lets an administrator correct a payment; the owning student is
// notified about the change.
func (s *PaymentService) Update(ctx context.Context, paymentID string, input UpdatePaymentInput) (*models.Payment, error) {
	ctx = ensureContext(ctx)

	payment, err := s.get(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Amount != nil {
		if *input.Amount <= 0 {
			return nil, apperrors.NewBadRequest("amount must be positive")
		}
		updates["amount"] = *input.Amount
	}
	if input.Method != nil {
		method, err := normalisePaymentMethod(*input.Method)
		if err != nil {
			return nil, err
		}
		updates["method"] = method
	}
	if input.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*input.Status))
		switch status {
		case models.PaymentStatusPending, models.PaymentStatusCompleted, models.PaymentStatusFailed:
			updates["status"] = status
		default:
			return nil, apperrors.NewBadRequest("unknown payment status")
		}
	}
	if input.TransactionID != nil {
		updates["transaction_id"] = strings.TrimSpace(*input.TransactionID)
	}

	if len(updates) == 0 {
		return payment, nil
	}

	if err := s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ?", paymentID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("payment service: update payment: %w", err)
	}

	if s.notifications != nil && payment.Registration != nil {
		if _, err := s.notifications.Create(ctx, CreateNotificationInput{
			UserID:  payment.Registration.StudentID,
			Type:    models.NotificationCourseUpdate,
			Title:   "Payment updated",
			Message: "An administrator updated one of your course payments",
			Metadata: map[string]any{
				"payment_id": paymentID,
			},
		}); err != nil {
			s.log.Warn("failed to notify student about payment update", zap.Error(err))
		}
	}

	return s.get(ctx, paymentID)
}

// Delete removes a payment and reverts its registration to pending.
func (s *PaymentService) Delete(ctx context.Context, paymentID string) error {
	ctx = ensureContext(ctx)

	payment, err := s.get(ctx, paymentID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", paymentID).Delete(&models.Payment{}).Error; err != nil {
			return fmt.Errorf("payment service: delete payment: %w", err)
		}

		return tx.Model(&models.CourseRegistration{}).
			Where("id = ?", payment.RegistrationID).
			Update("status", models.RegistrationStatusPending).Error
	})
}

func (s *PaymentService) get(ctx context.Context, paymentID string) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.WithContext(ctx).
		Preload("Registration").
		Preload("Registration.Course").
		Where("id = ?", paymentID).
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("payment service: load payment: %w", err)
	}
	return &payment, nil
}

func normalisePaymentMethod(method string) (string, error) {
	method = strings.ToLower(strings.TrimSpace(method))
	switch method {
	case models.PaymentMethodBkash, models.PaymentMethodNagad, models.PaymentMethodRocket:
		return method, nil
	default:
		return "", apperrors.NewBadRequest("payment method must be bkash, nagad, or rocket")
	}
}
