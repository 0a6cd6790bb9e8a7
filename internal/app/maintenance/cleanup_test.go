package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nazmulhs/campushub/internal/database/testutil"
	"github.com/nazmulhs/campushub/internal/models"
)

func seedEventWithGuest(t *testing.T, db *gorm.DB, title string, active bool, end time.Time, guestEmail string) *models.Event {
	t.Helper()

	creator := &models.User{
		StudentID:  "T-" + title,
		Email:      title + "@example.com",
		Name:       "Organizer",
		Password:   "hash",
		Role:       models.RoleTeacher,
		IsVerified: true,
		IsActive:   true,
	}
	require.NoError(t, db.Create(creator).Error)

	event := &models.Event{
		Title:     title,
		CreatorID: creator.ID,
		StartTime: end.Add(-2 * time.Hour),
		EndTime:   end,
		IsActive:  active,
	}
	require.NoError(t, db.Create(event).Error)

	guest := &models.GuestUser{
		Email:    guestEmail,
		Name:     "Guest",
		Password: "hash",
		EventIDs: []byte(`["` + event.ID + `"]`),
	}
	require.NoError(t, db.Create(guest).Error)

	return event
}

func TestSweepEndedEventGuests(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	seedEventWithGuest(t, db, "ended", true, now.Add(-time.Hour), "ended-guest@example.com")
	seedEventWithGuest(t, db, "running", true, now.Add(time.Hour), "running-guest@example.com")

	swept, err := SweepEndedEventGuests(context.Background(), db, now)
	require.NoError(t, err)
	require.Equal(t, 1, swept)

	var guests []models.GuestUser
	require.NoError(t, db.Find(&guests).Error)
	require.Len(t, guests, 1)
	require.Equal(t, "running-guest@example.com", guests[0].Email)
}

func TestClearExpiredOTPCodes(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	stale := "123456"
	staleAt := now.Add(-time.Hour)
	fresh := "654321"
	freshAt := now.Add(-time.Minute)

	users := []*models.User{
		{StudentID: "S1", Email: "stale@example.com", Name: "Stale", Password: "h", Role: models.RoleStudent, OTPCode: &stale, OTPCreatedAt: &staleAt},
		{StudentID: "S2", Email: "fresh@example.com", Name: "Fresh", Password: "h", Role: models.RoleStudent, OTPCode: &fresh, OTPCreatedAt: &freshAt},
	}
	for _, user := range users {
		require.NoError(t, db.Create(user).Error)
	}

	cleared, err := ClearExpiredOTPCodes(context.Background(), db, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, cleared)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "email = ?", "stale@example.com").Error)
	require.Nil(t, reloaded.OTPCode)
	require.Nil(t, reloaded.OTPCreatedAt)

	reloaded = models.User{}
	require.NoError(t, db.First(&reloaded, "email = ?", "fresh@example.com").Error)
	require.NotNil(t, reloaded.OTPCode)
}

func TestCleanerRunOnce(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	seedEventWithGuest(t, db, "finished", false, now.Add(-3*time.Hour), "finished-guest@example.com")

	cleaner := NewCleaner(db, WithNow(func() time.Time { return now }))
	require.NoError(t, cleaner.RunOnce(context.Background()))

	var count int64
	require.NoError(t, db.Model(&models.GuestUser{}).Count(&count).Error)
	require.Zero(t, count)
}
