package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nazmulhs/campushub/internal/models"
	apperrors "github.com/nazmulhs/campushub/pkg/errors"
	"github.com/nazmulhs/campushub/pkg/logger"
	"github.com/nazmulhs/campushub/pkg/mail"
	"github.com/nazmulhs/campushub/pkg/metrics"
)

// CreateEventInput carries a new event.
type CreateEventInput struct {
	Title               string
	Description         string
	StartTime           time.Time
	EndTime             time.Time
	Venue               string
	IsPaid              bool
	FeeAmount           float64
	PaymentInstructions string
	ManagerIDs          []string
	DepartmentIDs       []string
	BatchesAllowed      map[string]any
}

// UpdateEventInput lists mutable event fields.
type UpdateEventInput struct {
	Title               *string
	Description         *string
	StartTime           *time.Time
	EndTime             *time.Time
	Venue               *string
	PaymentInstructions *string
}

// SubmitEventPaymentInput carries a member's fee proof.
type SubmitEventPaymentInput struct {
	RegistrationID string
	Amount         float64
	Method         string
	TrxID          string
	Screenshot     string
}

// EventService manages events, their registrations, and fee verification.
type EventService struct {
	db            *gorm.DB
	mailer        mail.Mailer
	notifications *NotificationService
	log           *zap.Logger
}

// NewEventService constructs an EventService. Mailer and notifications are optional.
func NewEventService(db *gorm.DB, mailer mail.Mailer, notifications *NotificationService) (*EventService, error) {
	if db == nil {
		return nil, errors.New("event service: db is required")
	}
	return &EventService{
		db:            db,
		mailer:        mailer,
		notifications: notifications,
		log:           logger.WithModule("events"),
	}, nil
}

// Create persists a new event owned by creatorID.
func (s *EventService) Create(ctx context.Context, creatorID string, input CreateEventInput) (*models.Event, error) {
	ctx = ensureContext(ctx)

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewBadRequest("title is required")
	}
	if input.EndTime.Before(input.StartTime) {
		return nil, apperrors.NewBadRequest("end time must be after start time")
	}
	if input.IsPaid && input.FeeAmount <= 0 {
		return nil, apperrors.NewBadRequest("paid events need a positive fee amount")
	}

	batches, err := encodeJSONMap(input.BatchesAllowed)
	if err != nil {
		return nil, apperrors.NewBadRequest("invalid batches payload")
	}

	event := models.Event{
		Title:               title,
		Description:         strings.TrimSpace(input.Description),
		CreatorID:           creatorID,
		StartTime:           input.StartTime,
		EndTime:             input.EndTime,
		Venue:               strings.TrimSpace(input.Venue),
		IsPaid:              input.IsPaid,
		FeeAmount:           input.FeeAmount,
		PaymentInstructions: strings.TrimSpace(input.PaymentInstructions),
		BatchesAllowed:      batches,
		IsActive:            true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("event service: create event: %w", err)
		}

		if managerIDs := normaliseIDs(input.ManagerIDs); len(managerIDs) > 0 {
			var managers []models.User
			if err := tx.Where("id IN ?", managerIDs).Find(&managers).Error; err != nil {
				return fmt.Errorf("event service: load managers: %w", err)
			}
			if len(managers) != len(managerIDs) {
				return apperrors.ErrNotFound.WithMessage("One or more managers not found")
			}
			if err := tx.Model(&event).Association("Managers").Append(managers); err != nil {
				return fmt.Errorf("event service: attach managers: %w", err)
			}
		}

		if departmentIDs := normaliseIDs(input.DepartmentIDs); len(departmentIDs) > 0 {
			var departments []models.Department
			if err := tx.Where("id IN ?", departmentIDs).Find(&departments).Error; err != nil {
				return fmt.Errorf("event service: load departments: %w", err)
			}
			if len(departments) != len(departmentIDs) {
				return apperrors.ErrNotFound.WithMessage("One or more departments not found")
			}
			if err := tx.Model(&event).Association("DepartmentsAllowed").Append(departments); err != nil {
				return fmt.Errorf("event service: attach departments: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, event.ID)
}

// Get loads an event with its managers and departments.
func (s *EventService) Get(ctx context.Context, eventID string) (*models.Event, error) {
	ctx = ensureContext(ctx)

	var event models.Event
	if err := s.db.WithContext(ctx).
		Preload("Creator").
		Preload("Managers").
		Preload("DepartmentsAllowed").
		Where("id = ?", eventID).
		First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("event service: load event: %w", err)
	}
	return &event, nil
}

// ListActive returns active events ordered by start time.
func (s *EventService) ListActive(ctx context.Context) ([]models.Event, error) {
	ctx = ensureContext(ctx)

	var events []models.Event
	if err := s.db.WithContext(ctx).
		Preload("DepartmentsAllowed").
		Where("is_active = ?", true).
		Order("start_time ASC").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("event service: list events: %w", err)
	}
	return events, nil
}

// Update changes event details. Only the creator, a manager, or an admin may
// edit; the creator and managers are notified and guests emailed.
func (s *EventService) Update(ctx context.Context, eventID, actorID, actorRole string, input UpdateEventInput) (*models.Event, error) {
	ctx = ensureContext(ctx)

	event, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !s.canManage(event, actorID, actorRole) {
		return nil, apperrors.ErrForbidden
	}

	updates := map[string]any{}
	if input.Title != nil && strings.TrimSpace(*input.Title) != "" {
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.StartTime != nil {
		updates["start_time"] = *input.StartTime
	}
	if input.EndTime != nil {
		updates["end_time"] = *input.EndTime
	}
	if input.Venue != nil {
		updates["venue"] = strings.TrimSpace(*input.Venue)
	}
	if input.PaymentInstructions != nil {
		updates["payment_instructions"] = strings.TrimSpace(*input.PaymentInstructions)
	}

	if len(updates) == 0 {
		return event, nil
	}

	if err := s.db.WithContext(ctx).Model(&models.Event{}).
		Where("id = ?", eventID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("event service: update event: %w", err)
	}

	s.notifyTeam(ctx, event, "Event updated", fmt.Sprintf("%q was updated", event.Title))
	s.emailGuests(ctx, event, "Event details changed",
		fmt.Sprintf("The event %q you are invited to has updated details.", event.Title))

	return s.Get(ctx, eventID)
}

// End deactivates the event and removes its guests. Only the creator or an
// admin may end an event.
func (s *EventService) End(ctx context.Context, eventID, actorID, actorRole string) error {
	ctx = ensureContext(ctx)

	event, err := s.Get(ctx, eventID)
	if err != nil {
		return err
	}
	if event.CreatorID != actorID && actorRole != models.RoleAdmin {
		return apperrors.ErrForbidden
	}

	if err := s.db.WithContext(ctx).Model(&models.Event{}).
		Where("id = ?", eventID).
		Update("is_active", false).Error; err != nil {
		return fmt.Errorf("event service: end event: %w", err)
	}

	if err := RemoveGuestsFromEvent(ctx, s.db, eventID); err != nil {
		s.log.Warn("failed to sweep guests for ended event", zap.String("event_id", eventID), zap.Error(err))
	}

	return nil
}

// Register signs a member up. Paid events start in pending_payment, free
// events are approved immediately. The registrant is emailed either way.
func (s *EventService) Register(ctx context.Context, eventID string, user *models.User) (*models.EventRegistration, error) {
	ctx = ensureContext(ctx)
	if user == nil {
		return nil, errors.New("event service: user is required")
	}

	event, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsActive {
		return nil, apperrors.NewBadRequest("Event is no longer active")
	}
	if err := s.checkAudience(event, user); err != nil {
		return nil, err
	}

	status := models.EventRegStatusApproved
	if event.IsPaid {
		status = models.EventRegStatusPendingPayment
	}

	registration := models.EventRegistration{
		EventID:      eventID,
		UserID:       user.ID,
		DepartmentID: user.DepartmentID,
		Batch:        user.Batch,
		Status:       status,
	}

	if err := s.db.WithContext(ctx).Create(&registration).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewConflict("Already registered for this event")
		}
		return nil, fmt.Errorf("event service: create registration: %w", err)
	}

	body := fmt.Sprintf("You are registered for %q.", event.Title)
	if event.IsPaid {
		body = fmt.Sprintf(
			"You are registered for %q. Please submit the %0.2f fee to complete your registration.\n\n%s",
			event.Title, event.FeeAmount, event.PaymentInstructions)
	}
	s.sendMail(ctx, []string{user.Email}, "Event registration", body)

	return &registration, nil
}

// SubmitPayment records a fee proof and flags the registration as
// payment_submitted. Managers are emailed for review.
func (s *EventService) SubmitPayment(ctx context.Context, userID string, input SubmitEventPaymentInput) (*models.EventPayment, error) {
	ctx = ensureContext(ctx)

	if input.Amount <= 0 {
		return nil, apperrors.NewBadRequest("amount must be positive")
	}
	method, err := normalisePaymentMethod(input.Method)
	if err != nil {
		return nil, err
	}

	var registration models.EventRegistration
	if err := s.db.WithContext(ctx).Preload("Event").
		Where("id = ? AND user_id = ?", strings.TrimSpace(input.RegistrationID), userID).
		First(&registration).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound.WithMessage("Registration not found")
		}
		return nil, fmt.Errorf("event service: load registration: %w", err)
	}

	if registration.Status == models.EventRegStatusApproved {
		return nil, apperrors.NewBadRequest("Registration is already approved")
	}

	payment := models.EventPayment{
		RegistrationID:     registration.ID,
		Amount:             input.Amount,
		Method:             method,
		TrxID:              strings.TrimSpace(input.TrxID),
		Screenshot:         strings.TrimSpace(input.Screenshot),
		VerificationStatus: models.EventPaymentPending,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			if isUniqueConstraintError(err) {
				return apperrors.NewConflict("A payment was already submitted for this registration")
			}
			return fmt.Errorf("event service: create payment: %w", err)
		}

		return tx.Model(&models.EventRegistration{}).
			Where("id = ?", registration.ID).
			Update("status", models.EventRegStatusPaymentSubmitted).Error
	})
	if err != nil {
		return nil, err
	}

	if registration.Event != nil {
		event, loadErr := s.Get(ctx, registration.EventID)
		if loadErr == nil {
			recipients := make([]string, 0, len(event.Managers)+1)
			if event.Creator != nil {
				recipients = append(recipients, event.Creator.Email)
			}
			for _, manager := range event.Managers {
				recipients = append(recipients, manager.Email)
			}
			s.sendMail(ctx, recipients, "Event payment submitted",
				fmt.Sprintf("A payment for %q awaits verification.", event.Title))
		}
	}

	return &payment, nil
}

// VerifyPayment lets a manager approve or reject a submitted fee. Approval
// approves the registration; rejection sends it back to pending_payment.
func (s *EventService) VerifyPayment(ctx context.Context, paymentID, actorID, actorRole string, approve bool) (*models.EventPayment, error) {
	ctx = ensureContext(ctx)

	var payment models.EventPayment
	if err := s.db.WithContext(ctx).
		Preload("Registration").
		Where("id = ?", paymentID).
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("event service: load payment: %w", err)
	}
	if payment.Registration == nil {
		return nil, apperrors.ErrNotFound
	}

	event, err := s.Get(ctx, payment.Registration.EventID)
	if err != nil {
		return nil, err
	}
	if !s.canManage(event, actorID, actorRole) {
		return nil, apperrors.ErrForbidden
	}

	verification := models.EventPaymentRejected
	registrationStatus := models.EventRegStatusPendingPayment
	if approve {
		verification = models.EventPaymentApproved
		registrationStatus = models.EventRegStatusApproved
	}

	now := time.Now().UTC()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.EventPayment{}).
			Where("id = ?", paymentID).
			Updates(map[string]any{
				"verification_status": verification,
				"verified_by_id":      actorID,
				"verified_at":         now,
			}).Error; err != nil {
			return fmt.Errorf("event service: verify payment: %w", err)
		}

		return tx.Model(&models.EventRegistration{}).
			Where("id = ?", payment.RegistrationID).
			Update("status", registrationStatus).Error
	})
	if err != nil {
		return nil, err
	}

	payment.VerificationStatus = verification
	payment.VerifiedByID = &actorID
	payment.VerifiedAt = &now
	return &payment, nil
}

// ListRegistrations returns the registrations for an event, restricted to
// its management team.
func (s *EventService) ListRegistrations(ctx context.Context, eventID, actorID, actorRole string) ([]models.EventRegistration, error) {
	ctx = ensureContext(ctx)

	event, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !s.canManage(event, actorID, actorRole) {
		return nil, apperrors.ErrForbidden
	}

	var registrations []models.EventRegistration
	if err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Department").
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&registrations).Error; err != nil {
		return nil, fmt.Errorf("event service: list registrations: %w", err)
	}
	return registrations, nil
}

func (s *EventService) canManage(event *models.Event, actorID, actorRole string) bool {
	if actorRole == models.RoleAdmin || event.CreatorID == actorID {
		return true
	}
	for _, manager := range event.Managers {
		if manager.ID == actorID {
			return true
		}
	}
	return false
}

// checkAudience enforces the event's department and batch restrictions.
func (s *EventService) checkAudience(event *models.Event, user *models.User) error {
	if len(event.DepartmentsAllowed) == 0 {
		return nil
	}

	if user.DepartmentID == nil {
		return apperrors.ErrForbidden.WithMessage("This event is restricted to specific departments")
	}

	var department *models.Department
	for i := range event.DepartmentsAllowed {
		if event.DepartmentsAllowed[i].ID == *user.DepartmentID {
			department = &event.DepartmentsAllowed[i]
			break
		}
	}
	if department == nil {
		return apperrors.ErrForbidden.WithMessage("This event is restricted to specific departments")
	}

	batchesByDept := decodeJSONMap(event.BatchesAllowed)
	if len(batchesByDept) == 0 {
		return nil
	}
	raw, ok := batchesByDept[department.Code]
	if !ok {
		return nil
	}
	allowed, ok := raw.([]any)
	if !ok || len(allowed) == 0 {
		return nil
	}
	for _, batch := range allowed {
		if str, ok := batch.(string); ok && str == user.Batch {
			return nil
		}
	}
	return apperrors.ErrForbidden.WithMessage("This event is restricted to specific batches")
}

func (s *EventService) notifyTeam(ctx context.Context, event *models.Event, title, message string) {
	if s.notifications == nil {
		return
	}

	recipients := map[string]struct{}{event.CreatorID: {}}
	for _, manager := range event.Managers {
		recipients[manager.ID] = struct{}{}
	}

	for userID := range recipients {
		if _, err := s.notifications.Create(ctx, CreateNotificationInput{
			UserID:  userID,
			Type:    models.NotificationAnnouncement,
			Title:   title,
			Message: message,
			Metadata: map[string]any{
				"event_id": event.ID,
			},
		}); err != nil {
			s.log.Warn("failed to notify event team", zap.String("user_id", userID), zap.Error(err))
		}
	}
}

func (s *EventService) emailGuests(ctx context.Context, event *models.Event, subject, body string) {
	guests, err := guestsForEvent(ctx, s.db, event.ID)
	if err != nil {
		s.log.Warn("failed to load event guests", zap.String("event_id", event.ID), zap.Error(err))
		return
	}

	emails := make([]string, 0, len(guests))
	for _, guest := range guests {
		emails = append(emails, guest.Email)
	}
	s.sendMail(ctx, emails, subject, body)
}

func (s *EventService) sendMail(ctx context.Context, to []string, subject, body string) {
	if s.mailer == nil || len(to) == 0 {
		return
	}

	err := s.mailer.Send(ctx, mail.Message{To: to, Subject: subject, Body: body})
	switch {
	case err == nil:
		metrics.EmailsSent.WithLabelValues("notice", "success").Inc()
	case errors.Is(err, mail.ErrSMTPDisabled):
	default:
		metrics.EmailsSent.WithLabelValues("notice", "failure").Inc()
		s.log.Warn("failed to send event email", zap.Error(err))
	}
}
