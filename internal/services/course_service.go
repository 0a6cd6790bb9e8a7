package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nazmulhs/campushub/internal/media"
	"github.com/nazmulhs/campushub/internal/models"
	apperrors "github.com/nazmulhs/campushub/pkg/errors"
	"github.com/nazmulhs/campushub/pkg/logger"
)

// CreateCourseInput carries a new catalog entry.
type CreateCourseInput struct {
	CourseCode   string
	Title        string
	CreditHour   int
	DepartmentID string
}

// UpdateCourseInput lists mutable course fields. Resource lists are excluded
// on purpose; they change only through the resource operations.
type UpdateCourseInput struct {
	Title        *string
	CreditHour   *int
	DepartmentID *string
}

// CourseResources groups the four resource lists for API consumers.
type CourseResources struct {
	MidTheoryResources  []string `json:"mid_theory_resources"`
	MidPreviousSolves   []string `json:"mid_previous_solves"`
	FinalResources      []string `json:"final_resources"`
	FinalPreviousSolves []string `json:"final_previous_solves"`
}

// CourseService manages the course catalog and its shared resources.
type CourseService struct {
	db            *gorm.DB
	uploader      media.Uploader
	notifications *NotificationService
	log           *zap.Logger
}

// NewCourseService constructs a CourseService. Uploader and notifications are optional.
func NewCourseService(db *gorm.DB, uploader media.Uploader, notifications *NotificationService) (*CourseService, error) {
	if db == nil {
		return nil, errors.New("course service: db is required")
	}
	return &CourseService{
		db:            db,
		uploader:      uploader,
		notifications: notifications,
		log:           logger.WithModule("courses"),
	}, nil
}

// Create adds a course with empty resource lists.
func (s *CourseService) Create(ctx context.Context, input CreateCourseInput) (*models.Course, error) {
	ctx = ensureContext(ctx)

	code := strings.ToUpper(strings.TrimSpace(input.CourseCode))
	if code == "" {
		return nil, apperrors.NewBadRequest("course code is required")
	}
	if input.CreditHour < 0 || input.CreditHour > 5 {
		return nil, apperrors.NewBadRequest("credit hour must be between 0 and 5")
	}

	var department models.Department
	if err := s.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(input.DepartmentID)).
		First(&department).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound.WithMessage("Department not found")
		}
		return nil, fmt.Errorf("course service: load department: %w", err)
	}

	course := models.Course{
		CourseCode:          code,
		Title:               strings.TrimSpace(input.Title),
		CreditHour:          input.CreditHour,
		DepartmentID:        department.ID,
		MidTheoryResources:  encodeStringList(nil),
		MidPreviousSolves:   encodeStringList(nil),
		FinalResources:      encodeStringList(nil),
		FinalPreviousSolves: encodeStringList(nil),
	}

	if err := s.db.WithContext(ctx).Create(&course).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewConflict("A course with this code already exists")
		}
		return nil, fmt.Errorf("course service: create course: %w", err)
	}

	return &course, nil
}

// Get loads a course by ID.
func (s *CourseService) Get(ctx context.Context, courseID string) (*models.Course, error) {
	ctx = ensureContext(ctx)

	var course models.Course
	if err := s.db.WithContext(ctx).Preload("Department").
		Where("id = ?", courseID).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("course service: load course: %w", err)
	}
	return &course, nil
}

// List returns the catalog, optionally filtered by department.
func (s *CourseService) List(ctx context.Context, departmentID string) ([]models.Course, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).Preload("Department").Order("course_code ASC")
	if strings.TrimSpace(departmentID) != "" {
		query = query.Where("department_id = ?", strings.TrimSpace(departmentID))
	}

	var courses []models.Course
	if err := query.Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("course service: list courses: %w", err)
	}
	return courses, nil
}

// Update changes catalog metadata, leaving the resource lists untouched.
func (s *CourseService) Update(ctx context.Context, courseID string, input UpdateCourseInput) (*models.Course, error) {
	ctx = ensureContext(ctx)

	course, err := s.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Title != nil && strings.TrimSpace(*input.Title) != "" {
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.CreditHour != nil {
		if *input.CreditHour < 0 || *input.CreditHour > 5 {
			return nil, apperrors.NewBadRequest("credit hour must be between 0 and 5")
		}
		updates["credit_hour"] = *input.CreditHour
	}
	if input.DepartmentID != nil {
		var department models.Department
		if err := s.db.WithContext(ctx).
			Where("id = ?", strings.TrimSpace(*input.DepartmentID)).
			First(&department).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrNotFound.WithMessage("Department not found")
			}
			return nil, fmt.Errorf("course service: load department: %w", err)
		}
		updates["department_id"] = department.ID
	}

	if len(updates) == 0 {
		return course, nil
	}

	if err := s.db.WithContext(ctx).Model(&models.Course{}).
		Where("id = ?", courseID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("course service: update course: %w", err)
	}

	return s.Get(ctx, courseID)
}

// Delete removes a course and its registrations.
func (s *CourseService) Delete(ctx context.Context, courseID string) error {
	ctx = ensureContext(ctx)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", courseID).
			Delete(&models.CourseRegistration{}).Error; err != nil {
			return fmt.Errorf("course service: delete registrations: %w", err)
		}

		result := tx.Where("id = ?", courseID).Delete(&models.Course{})
		if result.Error != nil {
			return fmt.Errorf("course service: delete course: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}

// AddResource appends a URL to one of the course's resource lists and
// notifies confirmed registrants.
func (s *CourseService) AddResource(ctx context.Context, courseID, field, url string) (*models.Course, error) {
	ctx = ensureContext(ctx)

	url = strings.TrimSpace(url)
	if url == "" {
		return nil, apperrors.NewBadRequest("resource url is required")
	}

	course, err := s.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}

	list, column, err := resourceList(course, field)
	if err != nil {
		return nil, err
	}
	if containsString(list, url) {
		return nil, apperrors.NewConflict("Resource already present")
	}

	list = append(list, url)
	if err := s.db.WithContext(ctx).Model(&models.Course{}).
		Where("id = ?", courseID).
		Update(column, encodeStringList(list)).Error; err != nil {
		return nil, fmt.Errorf("course service: add resource: %w", err)
	}

	s.notifyRegistrants(ctx, course, "New study resource added")
	return s.Get(ctx, courseID)
}

// UpdateResource replaces an existing resource URL. The old URL must be
// present in the targeted list; its hosted image is removed afterwards.
func (s *CourseService) UpdateResource(ctx context.Context, courseID, field, oldURL, newURL string) (*models.Course, error) {
	ctx = ensureContext(ctx)

	oldURL = strings.TrimSpace(oldURL)
	newURL = strings.TrimSpace(newURL)
	if oldURL == "" || newURL == "" {
		return nil, apperrors.NewBadRequest("old and new resource urls are required")
	}

	course, err := s.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}

	list, column, err := resourceList(course, field)
	if err != nil {
		return nil, err
	}

	replaced := false
	for i, existing := range list {
		if existing == oldURL {
			list[i] = newURL
			replaced = true
			break
		}
	}
	if !replaced {
		return nil, apperrors.ErrNotFound.WithMessage("Resource not found in list")
	}

	if err := s.db.WithContext(ctx).Model(&models.Course{}).
		Where("id = ?", courseID).
		Update(column, encodeStringList(list)).Error; err != nil {
		return nil, fmt.Errorf("course service: update resource: %w", err)
	}

	s.deleteHosted(ctx, oldURL)
	s.notifyRegistrants(ctx, course, "A study resource was updated")
	return s.Get(ctx, courseID)
}

// DeleteResource removes a URL from the targeted list and deletes its hosted
// image.
func (s *CourseService) DeleteResource(ctx context.Context, courseID, field, url string) (*models.Course, error) {
	ctx = ensureContext(ctx)

	url = strings.TrimSpace(url)
	course, err := s.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}

	list, column, err := resourceList(course, field)
	if err != nil {
		return nil, err
	}

	filtered := make([]string, 0, len(list))
	removed := false
	for _, existing := range list {
		if existing == url {
			removed = true
			continue
		}
		filtered = append(filtered, existing)
	}
	if !removed {
		return nil, apperrors.ErrNotFound.WithMessage("Resource not found in list")
	}

	if err := s.db.WithContext(ctx).Model(&models.Course{}).
		Where("id = ?", courseID).
		Update(column, encodeStringList(filtered)).Error; err != nil {
		return nil, fmt.Errorf("course service: delete resource: %w", err)
	}

	s.deleteHosted(ctx, url)
	return s.Get(ctx, courseID)
}

// ResourcesFor returns the resource lists, enforcing the viewer's standing:
// students need a confirmed registration with a completed payment; teachers
// and admins see everything.
func (s *CourseService) ResourcesFor(ctx context.Context, courseID, userID, role string) (*CourseResources, error) {
	ctx = ensureContext(ctx)

	course, err := s.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if role == models.RoleStudent {
		var count int64
		if err := s.db.WithContext(ctx).
			Model(&models.CourseRegistration{}).
			Joins("JOIN payments ON payments.registration_id = course_registrations.id AND payments.status = ?", models.PaymentStatusCompleted).
			Where("course_registrations.student_id = ? AND course_registrations.course_id = ? AND course_registrations.status = ?",
				userID, courseID, models.RegistrationStatusConfirmed).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("course service: check registration: %w", err)
		}
		if count == 0 {
			return nil, apperrors.ErrForbidden.WithMessage("A confirmed, paid registration is required to view resources")
		}
	}

	return &CourseResources{
		MidTheoryResources:  decodeStringList(course.MidTheoryResources),
		MidPreviousSolves:   decodeStringList(course.MidPreviousSolves),
		FinalResources:      decodeStringList(course.FinalResources),
		FinalPreviousSolves: decodeStringList(course.FinalPreviousSolves),
	}, nil
}

func (s *CourseService) deleteHosted(ctx context.Context, url string) {
	if s.uploader == nil || url == "" {
		return
	}
	if err := s.uploader.Delete(ctx, url); err != nil {
		s.log.Warn("failed to delete hosted resource", zap.String("url", url), zap.Error(err))
	}
}

func (s *CourseService) notifyRegistrants(ctx context.Context, course *models.Course, message string) {
	if s.notifications == nil {
		return
	}

	var registrations []models.CourseRegistration
	if err := s.db.WithContext(ctx).
		Where("course_id = ? AND status = ?", course.ID, models.RegistrationStatusConfirmed).
		Find(&registrations).Error; err != nil {
		s.log.Warn("failed to load registrants", zap.String("course_id", course.ID), zap.Error(err))
		return
	}

	for _, registration := range registrations {
		if _, err := s.notifications.Create(ctx, CreateNotificationInput{
			UserID:  registration.StudentID,
			Type:    models.NotificationCourseUpdate,
			Title:   course.CourseCode,
			Message: message,
			Metadata: map[string]any{
				"course_id": course.ID,
			},
		}); err != nil {
			s.log.Warn("failed to notify registrant", zap.String("student_id", registration.StudentID), zap.Error(err))
		}
	}
}

// resourceList resolves the named resource field to its decoded list and
// database column.
func resourceList(course *models.Course, field string) ([]string, string, error) {
	switch strings.ToLower(strings.TrimSpace(field)) {
	case models.ResourceFieldMidTheory:
		return decodeStringList(course.MidTheoryResources), "mid_theory_resources", nil
	case models.ResourceFieldMidSolves:
		return decodeStringList(course.MidPreviousSolves), "mid_previous_solves", nil
	case models.ResourceFieldFinalResources:
		return decodeStringList(course.FinalResources), "final_resources", nil
	case models.ResourceFieldFinalSolves:
		return decodeStringList(course.FinalPreviousSolves), "final_previous_solves", nil
	default:
		return nil, "", apperrors.NewBadRequest("unknown resource field")
	}
}
