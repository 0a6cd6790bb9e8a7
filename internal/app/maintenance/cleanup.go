package maintenance

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nazmulhs/campushub/internal/models"
	"github.com/nazmulhs/campushub/internal/services"
	"github.com/nazmulhs/campushub/pkg/logger"
)

const (
	defaultGuestSpec = "@hourly"
	defaultOTPSpec   = "@hourly"

	// otpRetention mirrors the verification code lifetime; codes older than
	// this can never be redeemed and are cleared.
	otpRetention = 10 * time.Minute
)

// Cleaner coordinates background maintenance: sweeping guests of ended events
// and clearing expired verification codes.
type Cleaner struct {
	db   *gorm.DB
	cron *cron.Cron
	now  func() time.Time
	log  *zap.Logger

	guestSchedule string
	otpSchedule   string
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithNow overrides the clock used for expiry comparisons.
func WithNow(now func() time.Time) Option {
	return func(cleaner *Cleaner) {
		if now != nil {
			cleaner.now = now
		}
	}
}

// WithGuestSchedule overrides the cron specification for the guest sweep.
func WithGuestSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.guestSchedule = spec
		}
	}
}

// WithOTPSchedule overrides the cron specification for the code sweep.
func WithOTPSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.otpSchedule = spec
		}
	}
}

// NewCleaner constructs a Cleaner with sensible defaults.
func NewCleaner(db *gorm.DB, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		db:            db,
		now:           time.Now,
		guestSchedule: defaultGuestSpec,
		otpSchedule:   defaultOTPSpec,
		log:           logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return cleaner
}

// Start registers the cleanup jobs with the cron scheduler and launches it.
func (c *Cleaner) Start() error {
	if c.db == nil {
		return nil
	}

	if _, err := c.cron.AddFunc(c.guestSchedule, func() {
		if _, err := SweepEndedEventGuests(context.Background(), c.db, c.now()); err != nil {
			c.log.Warn("guest sweep failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	if _, err := c.cron.AddFunc(c.otpSchedule, func() {
		if _, err := ClearExpiredOTPCodes(context.Background(), c.db, c.now()); err != nil {
			c.log.Warn("otp sweep failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	c.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes all cleanup routines sequentially. Primarily used in tests
// and during graceful shutdown.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.db == nil {
		return nil
	}

	var errs error
	if _, err := SweepEndedEventGuests(ctx, c.db, c.now()); err != nil {
		errs = multierr.Append(errs, err)
	}
	if _, err := ClearExpiredOTPCodes(ctx, c.db, c.now()); err != nil {
		errs = multierr.Append(errs, err)
	}
	return errs
}

// SweepEndedEventGuests removes ended events from guest scopes, deleting
// guests whose scope becomes empty. Returns the number of events swept.
func SweepEndedEventGuests(ctx context.Context, db *gorm.DB, now time.Time) (int, error) {
	if db == nil {
		return 0, errors.New("guest sweep: db is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var events []models.Event
	if err := db.WithContext(ctx).
		Where("is_active = ? OR end_time < ?", false, now).
		Find(&events).Error; err != nil {
		return 0, err
	}

	var errs error
	swept := 0
	for _, event := range events {
		if err := services.RemoveGuestsFromEvent(ctx, db, event.ID); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		swept++
	}
	return swept, errs
}

// ClearExpiredOTPCodes nulls out verification codes past their lifetime so
// stale codes cannot linger in the database.
func ClearExpiredOTPCodes(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	if db == nil {
		return 0, errors.New("otp sweep: db is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cutoff := now.Add(-otpRetention)
	result := db.WithContext(ctx).
		Model(&models.User{}).
		Where("otp_code IS NOT NULL AND otp_created_at < ?", cutoff).
		Updates(map[string]any{
			"otp_code":       nil,
			"otp_created_at": nil,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
