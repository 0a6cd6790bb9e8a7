package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nazmulhs/campushub/internal/models"
	apperrors "github.com/nazmulhs/campushub/pkg/errors"
)

type guestFixture struct {
	env     *testEnv
	events  *EventService
	svc     *GuestService
	creator *models.User
	event   *models.Event
}

func newGuestFixture(t *testing.T) *guestFixture {
	t.Helper()

	env := newTestEnv(t)
	events, err := NewEventService(env.db, env.mailer, env.notifications)
	require.NoError(t, err)
	svc, err := NewGuestService(env.db, env.jwt, env.mailer, events)
	require.NoError(t, err)

	creator := env.createUser(t, "T500", "host@example.com", models.RoleTeacher, true, true)
	start := time.Now().Add(24 * time.Hour)
	event, err := events.Create(context.Background(), creator.ID, CreateEventInput{
		Title:     "Guest Night",
		StartTime: start,
		EndTime:   start.Add(3 * time.Hour),
		Venue:     "Auditorium",
	})
	require.NoError(t, err)

	return &guestFixture{env: env, events: events, svc: svc, creator: creator, event: event}
}

func TestGuestRegisterSendsInvitation(t *testing.T) {
	f := newGuestFixture(t)

	guest, err := f.svc.Register(context.Background(), f.event.ID, f.creator.ID, models.RoleTeacher,
		"Guest@Example.com", "Visiting Guest", "guest-pass")
	require.NoError(t, err)
	require.Equal(t, "guest@example.com", guest.Email)
	require.Equal(t, []string{f.event.ID}, decodeStringList(guest.EventIDs))
	require.NotEqual(t, "guest-pass", guest.Password)

	require.Len(t, f.env.mailer.sent, 1)
	require.Contains(t, f.env.mailer.sent[0].Subject, "Guest Night")
}

func TestGuestRegisterRequiresManagement(t *testing.T) {
	f := newGuestFixture(t)

	stranger := f.env.createUser(t, "S500", "s500@example.com", models.RoleStudent, true, true)
	_, err := f.svc.Register(context.Background(), f.event.ID, stranger.ID, models.RoleStudent,
		"guest@example.com", "Guest", "pass")
	require.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestGuestRegisterExtendsExistingGuest(t *testing.T) {
	f := newGuestFixture(t)

	_, err := f.svc.Register(context.Background(), f.event.ID, f.creator.ID, models.RoleTeacher,
		"guest@example.com", "Guest", "pass")
	require.NoError(t, err)

	// Same event twice is a conflict.
	_, err = f.svc.Register(context.Background(), f.event.ID, f.creator.ID, models.RoleTeacher,
		"guest@example.com", "Guest", "pass")
	require.Error(t, err)
	require.Equal(t, apperrors.ErrConflict.Code, apperrors.FromError(err).Code)

	start := time.Now().Add(48 * time.Hour)
	second, err := f.events.Create(context.Background(), f.creator.ID, CreateEventInput{
		Title:     "Closing Ceremony",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	require.NoError(t, err)

	guest, err := f.svc.Register(context.Background(), second.ID, f.creator.ID, models.RoleTeacher,
		"guest@example.com", "Guest", "ignored")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{f.event.ID, second.ID}, decodeStringList(guest.EventIDs))

	var count int64
	require.NoError(t, f.env.db.Model(&models.GuestUser{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestGuestLoginIssuesScopedToken(t *testing.T) {
	f := newGuestFixture(t)

	guest, err := f.svc.Register(context.Background(), f.event.ID, f.creator.ID, models.RoleTeacher,
		"guest@example.com", "Guest", "guest-pass")
	require.NoError(t, err)

	result, err := f.svc.Login(context.Background(), "guest@example.com", "guest-pass")
	require.NoError(t, err)
	require.Equal(t, guest.ID, result.Guest.ID)

	claims, err := f.env.jwt.ValidateGuestToken(result.Token)
	require.NoError(t, err)
	require.Equal(t, guest.ID, claims.GuestID)
	require.Equal(t, []string{f.event.ID}, claims.EventIDs)

	_, err = f.svc.Login(context.Background(), "guest@example.com", "wrong")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.svc.Login(context.Background(), "unknown@example.com", "guest-pass")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestGuestEventAccessScopedToToken(t *testing.T) {
	f := newGuestFixture(t)

	events, err := f.svc.EventsFor(context.Background(), []string{f.event.ID})
	require.NoError(t, err)
	require.Len(t, events, 1)

	event, err := f.svc.EventFor(context.Background(), []string{f.event.ID}, f.event.ID)
	require.NoError(t, err)
	require.Equal(t, f.event.ID, event.ID)

	_, err = f.svc.EventFor(context.Background(), []string{"another"}, f.event.ID)
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	// Ended events drop out of the listing.
	require.NoError(t, f.events.End(context.Background(), f.event.ID, f.creator.ID, models.RoleTeacher))
	events, err = f.svc.EventsFor(context.Background(), []string{f.event.ID})
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestGuestScopeShrinksWhenEventRemoved(t *testing.T) {
	f := newGuestFixture(t)

	start := time.Now().Add(48 * time.Hour)
	second, err := f.events.Create(context.Background(), f.creator.ID, CreateEventInput{
		Title:     "After Party",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	require.NoError(t, err)

	guest, err := f.svc.Register(context.Background(), f.event.ID, f.creator.ID, models.RoleTeacher,
		"guest@example.com", "Guest", "pass")
	require.NoError(t, err)
	_, err = f.svc.Register(context.Background(), second.ID, f.creator.ID, models.RoleTeacher,
		"guest@example.com", "Guest", "pass")
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteForEvent(context.Background(), f.event.ID))

	var reloaded models.GuestUser
	require.NoError(t, f.env.db.First(&reloaded, "id = ?", guest.ID).Error)
	require.Equal(t, []string{second.ID}, decodeStringList(reloaded.EventIDs))

	// Removing the last event deletes the guest outright.
	require.NoError(t, f.svc.DeleteForEvent(context.Background(), second.ID))
	var count int64
	require.NoError(t, f.env.db.Model(&models.GuestUser{}).Count(&count).Error)
	require.Zero(t, count)
}
