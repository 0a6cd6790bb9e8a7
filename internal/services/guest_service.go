package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nazmulhs/campushub/internal/auth"
	"github.com/nazmulhs/campushub/internal/models"
	"github.com/nazmulhs/campushub/pkg/crypto"
	apperrors "github.com/nazmulhs/campushub/pkg/errors"
	"github.com/nazmulhs/campushub/pkg/logger"
	"github.com/nazmulhs/campushub/pkg/mail"
	"github.com/nazmulhs/campushub/pkg/metrics"
)

// GuestLoginResult bundles a guest token with the guest row.
type GuestLoginResult struct {
	Token string            `json:"token"`
	Guest *models.GuestUser `json:"guest"`
}

// GuestService manages ephemeral event guests.
type GuestService struct {
	db     *gorm.DB
	jwt    *auth.JWTService
	mailer mail.Mailer
	events *EventService
	log    *zap.Logger
}

// NewGuestService constructs a GuestService.
func NewGuestService(db *gorm.DB, jwtService *auth.JWTService, mailer mail.Mailer, events *EventService) (*GuestService, error) {
	if db == nil {
		return nil, errors.New("guest service: db is required")
	}
	if jwtService == nil {
		return nil, errors.New("guest service: jwt service is required")
	}
	if events == nil {
		return nil, errors.New("guest service: event service is required")
	}
	return &GuestService{
		db:     db,
		jwt:    jwtService,
		mailer: mailer,
		events: events,
		log:    logger.WithModule("guests"),
	}, nil
}

// Register invites a guest to an event. Only the event's creator or a
// manager may invite; an existing guest gains the event instead of a new row.
func (s *GuestService) Register(ctx context.Context, eventID, actorID, actorRole, email, name, password string) (*models.GuestUser, error) {
	ctx = ensureContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(name) == "" || password == "" {
		return nil, apperrors.NewBadRequest("email, name, and password are required")
	}

	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsActive {
		return nil, apperrors.NewBadRequest("Event is no longer active")
	}
	if !s.events.canManage(event, actorID, actorRole) {
		return nil, apperrors.ErrForbidden
	}

	var guest models.GuestUser
	err = s.db.WithContext(ctx).Where("email = ?", email).First(&guest).Error
	switch {
	case err == nil:
		eventIDs := decodeStringList(guest.EventIDs)
		if containsString(eventIDs, eventID) {
			return nil, apperrors.NewConflict("Guest is already invited to this event")
		}
		eventIDs = append(eventIDs, eventID)
		if err := s.db.WithContext(ctx).Model(&models.GuestUser{}).
			Where("id = ?", guest.ID).
			Update("event_ids", encodeStringList(eventIDs)).Error; err != nil {
			return nil, fmt.Errorf("guest service: extend guest events: %w", err)
		}
		guest.EventIDs = encodeStringList(eventIDs)

	case errors.Is(err, gorm.ErrRecordNotFound):
		hash, hashErr := crypto.HashPassword(password)
		if hashErr != nil {
			return nil, fmt.Errorf("guest service: hash password: %w", hashErr)
		}
		guest = models.GuestUser{
			Email:    email,
			Name:     strings.TrimSpace(name),
			Password: hash,
			EventIDs: encodeStringList([]string{eventID}),
		}
		if err := s.db.WithContext(ctx).Create(&guest).Error; err != nil {
			if isUniqueConstraintError(err) {
				return nil, apperrors.NewConflict("A guest with this email already exists")
			}
			return nil, fmt.Errorf("guest service: create guest: %w", err)
		}

	default:
		return nil, fmt.Errorf("guest service: load guest: %w", err)
	}

	s.sendInvitation(ctx, &guest, event)
	return &guest, nil
}

// Login authenticates a guest and issues a token scoped to their events.
func (s *GuestService) Login(ctx context.Context, email, password string) (*GuestLoginResult, error) {
	ctx = ensureContext(ctx)
	email = strings.ToLower(strings.TrimSpace(email))

	var guest models.GuestUser
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&guest).Error; err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("guest service: load guest: %w", err)
	}

	if !crypto.VerifyPassword(guest.Password, password) {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateGuestToken(guest.ID, decodeStringList(guest.EventIDs))
	if err != nil {
		return nil, err
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	return &GuestLoginResult{Token: token, Guest: &guest}, nil
}

// EventsFor returns the active events in the guest token's scope.
func (s *GuestService) EventsFor(ctx context.Context, eventIDs []string) ([]models.Event, error) {
	ctx = ensureContext(ctx)

	eventIDs = normaliseIDs(eventIDs)
	if len(eventIDs) == 0 {
		return nil, nil
	}

	var events []models.Event
	if err := s.db.WithContext(ctx).
		Preload("DepartmentsAllowed").
		Where("id IN ? AND is_active = ?", eventIDs, true).
		Order("start_time ASC").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("guest service: list events: %w", err)
	}
	return events, nil
}

// EventFor returns one event, provided it is inside the guest's scope.
func (s *GuestService) EventFor(ctx context.Context, eventIDs []string, eventID string) (*models.Event, error) {
	if !containsString(eventIDs, eventID) {
		return nil, apperrors.ErrForbidden
	}
	return s.events.Get(ensureContext(ctx), eventID)
}

// DeleteForEvent removes the event from every guest's scope, deleting guests
// left with no events.
func (s *GuestService) DeleteForEvent(ctx context.Context, eventID string) error {
	return RemoveGuestsFromEvent(ensureContext(ctx), s.db, eventID)
}

func (s *GuestService) sendInvitation(ctx context.Context, guest *models.GuestUser, event *models.Event) {
	if s.mailer == nil {
		return
	}

	err := s.mailer.Send(ctx, mail.Message{
		To:      []string{guest.Email},
		Subject: fmt.Sprintf("You are invited to %s", event.Title),
		Body: fmt.Sprintf(
			"Hi %s,\n\nYou have been invited to %q at %s. Log in with this email address to view the event.\n",
			guest.Name, event.Title, event.Venue),
	})
	switch {
	case err == nil:
		metrics.EmailsSent.WithLabelValues("notice", "success").Inc()
	case errors.Is(err, mail.ErrSMTPDisabled):
	default:
		metrics.EmailsSent.WithLabelValues("notice", "failure").Inc()
		s.log.Warn("failed to send guest invitation", zap.String("email", guest.Email), zap.Error(err))
	}
}

// guestsForEvent returns guests whose scope contains the event.
func guestsForEvent(ctx context.Context, db *gorm.DB, eventID string) ([]models.GuestUser, error) {
	var guests []models.GuestUser
	if err := db.WithContext(ctx).Find(&guests).Error; err != nil {
		return nil, err
	}

	matched := guests[:0]
	for _, guest := range guests {
		if containsString(decodeStringList(guest.EventIDs), eventID) {
			matched = append(matched, guest)
		}
	}
	return matched, nil
}

// RemoveGuestsFromEvent strips the event from matching guests, deleting any
// guest whose scope becomes empty. Shared by event shutdown and the
// maintenance sweep.
func RemoveGuestsFromEvent(ctx context.Context, db *gorm.DB, eventID string) error {
	guests, err := guestsForEvent(ctx, db, eventID)
	if err != nil {
		return err
	}

	for _, guest := range guests {
		remaining := make([]string, 0)
		for _, id := range decodeStringList(guest.EventIDs) {
			if id != eventID {
				remaining = append(remaining, id)
			}
		}

		if len(remaining) == 0 {
			if err := db.WithContext(ctx).Where("id = ?", guest.ID).
				Delete(&models.GuestUser{}).Error; err != nil {
				return err
			}
			continue
		}

		if err := db.WithContext(ctx).Model(&models.GuestUser{}).
			Where("id = ?", guest.ID).
			Update("event_ids", encodeStringList(remaining)).Error; err != nil {
			return err
		}
	}
	return nil
}
