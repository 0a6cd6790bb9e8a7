package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/nazmulhs/campushub/internal/models"
	apperrors "github.com/nazmulhs/campushub/pkg/errors"
)

// RegistrationService manages a student's own course registrations.
type RegistrationService struct {
	db *gorm.DB
}

// NewRegistrationService constructs a RegistrationService.
func NewRegistrationService(db *gorm.DB) (*RegistrationService, error) {
	if db == nil {
		return nil, errors.New("registration service: db is required")
	}
	return &RegistrationService{db: db}, nil
}

// Create registers the student for a course section. Registering for the
// same course twice returns the existing row instead of failing.
func (s *RegistrationService) Create(ctx context.Context, studentID, courseID, section string) (*models.CourseRegistration, error) {
	ctx = ensureContext(ctx)

	courseID = strings.TrimSpace(courseID)
	section = strings.TrimSpace(section)
	if courseID == "" {
		return nil, apperrors.NewBadRequest("course id is required")
	}

	var course models.Course
	if err := s.db.WithContext(ctx).Where("id = ?", courseID).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound.WithMessage("Course not found")
		}
		return nil, fmt.Errorf("registration service: load course: %w", err)
	}

	registration := models.CourseRegistration{
		StudentID: studentID,
		CourseID:  courseID,
		Section:   section,
		Status:    models.RegistrationStatusPending,
	}

	if err := s.db.WithContext(ctx).Create(&registration).Error; err != nil {
		if isUniqueConstraintError(err) {
			var existing models.CourseRegistration
			if lookupErr := s.db.WithContext(ctx).Preload("Course").
				Where("student_id = ? AND course_id = ?", studentID, courseID).
				First(&existing).Error; lookupErr == nil {
				return &existing, nil
			}
			return nil, apperrors.NewConflict("Already registered for this course")
		}
		return nil, fmt.Errorf("registration service: create registration: %w", err)
	}

	return s.Get(ctx, studentID, registration.ID)
}

// Get loads one of the student's registrations.
func (s *RegistrationService) Get(ctx context.Context, studentID, registrationID string) (*models.CourseRegistration, error) {
	ctx = ensureContext(ctx)

	var registration models.CourseRegistration
	if err := s.db.WithContext(ctx).Preload("Course").Preload("Course.Department").
		Where("id = ? AND student_id = ?", registrationID, studentID).
		First(&registration).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("registration service: load registration: %w", err)
	}
	return &registration, nil
}

// ListForStudent returns the student's registrations, newest first.
func (s *RegistrationService) ListForStudent(ctx context.Context, studentID string) ([]models.CourseRegistration, error) {
	ctx = ensureContext(ctx)

	var registrations []models.CourseRegistration
	if err := s.db.WithContext(ctx).Preload("Course").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&registrations).Error; err != nil {
		return nil, fmt.Errorf("registration service: list registrations: %w", err)
	}
	return registrations, nil
}

// UpdateSection changes the section of a pending registration.
func (s *RegistrationService) UpdateSection(ctx context.Context, studentID, registrationID, section string) (*models.CourseRegistration, error) {
	ctx = ensureContext(ctx)

	registration, err := s.Get(ctx, studentID, registrationID)
	if err != nil {
		return nil, err
	}
	if registration.Status == models.RegistrationStatusConfirmed {
		return nil, apperrors.NewBadRequest("Confirmed registrations cannot change section")
	}

	if err := s.db.WithContext(ctx).Model(&models.CourseRegistration{}).
		Where("id = ?", registrationID).
		Update("section", strings.TrimSpace(section)).Error; err != nil {
		return nil, fmt.Errorf("registration service: update section: %w", err)
	}

	return s.Get(ctx, studentID, registrationID)
}

// Delete removes a registration the student owns, along with any payment.
func (s *RegistrationService) Delete(ctx context.Context, studentID, registrationID string) error {
	ctx = ensureContext(ctx)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("registration_id = ?", registrationID).
			Delete(&models.Payment{}).Error; err != nil {
			return fmt.Errorf("registration service: delete payment: %w", err)
		}

		result := tx.Where("id = ? AND student_id = ?", registrationID, studentID).
			Delete(&models.CourseRegistration{})
		if result.Error != nil {
			return fmt.Errorf("registration service: delete registration: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}
