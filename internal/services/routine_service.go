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

var routineDays = map[string]struct{}{
	"saturday": {}, "sunday": {}, "monday": {}, "tuesday": {},
	"wednesday": {}, "thursday": {}, "friday": {},
}

// RoutineInput carries a timetable slot.
type RoutineInput struct {
	CourseID     string
	TeacherID    string
	DepartmentID string
	Day          string
	Period       int
	RoomNumber   string
	Section      string
}

// RoutineService manages the timetable and its conflict rules.
type RoutineService struct {
	db            *gorm.DB
	notifications *NotificationService
	log           *zap.Logger
}

// NewRoutineService constructs a RoutineService.
func NewRoutineService(db *gorm.DB, notifications *NotificationService) (*RoutineService, error) {
	if db == nil {
		return nil, errors.New("routine service: db is required")
	}
	return &RoutineService{
		db:            db,
		notifications: notifications,
		log:           logger.WithModule("routines"),
	}, nil
}

// Create adds a slot after the conflict checks pass. The assigned teacher
// gains a confirmed registration for the course and is notified.
func (s *RoutineService) Create(ctx context.Context, input RoutineInput) (*models.Routine, error) {
	ctx = ensureContext(ctx)

	normalised, err := s.validate(ctx, &input)
	if err != nil {
		return nil, err
	}
	if err := s.checkConflicts(ctx, normalised, ""); err != nil {
		return nil, err
	}

	routine := models.Routine{
		CourseID:     normalised.CourseID,
		TeacherID:    normalised.TeacherID,
		DepartmentID: normalised.DepartmentID,
		Day:          normalised.Day,
		Period:       normalised.Period,
		RoomNumber:   normalised.RoomNumber,
		Section:      normalised.Section,
	}

	if err := s.db.WithContext(ctx).Create(&routine).Error; err != nil {
		return nil, fmt.Errorf("routine service: create routine: %w", err)
	}

	s.ensureTeacherRegistration(ctx, normalised.TeacherID, normalised.CourseID, normalised.Section)
	s.notifyTeacher(ctx, normalised.TeacherID, &routine, "You were assigned a new class slot")

	return s.Get(ctx, routine.ID)
}

// Update changes a slot, re-running the conflict checks against every other
// row. Changing any conflicting field clears a previous conflict.
func (s *RoutineService) Update(ctx context.Context, routineID string, input RoutineInput) (*models.Routine, error) {
	ctx = ensureContext(ctx)

	existing, err := s.Get(ctx, routineID)
	if err != nil {
		return nil, err
	}

	normalised, err := s.validate(ctx, &input)
	if err != nil {
		return nil, err
	}
	if err := s.checkConflicts(ctx, normalised, routineID); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&models.Routine{}).
		Where("id = ?", routineID).
		Updates(map[string]any{
			"course_id":     normalised.CourseID,
			"teacher_id":    normalised.TeacherID,
			"department_id": normalised.DepartmentID,
			"day":           normalised.Day,
			"period":        normalised.Period,
			"room_number":   normalised.RoomNumber,
			"section":       normalised.Section,
		}).Error; err != nil {
		return nil, fmt.Errorf("routine service: update routine: %w", err)
	}

	if existing.TeacherID != normalised.TeacherID {
		s.ensureTeacherRegistration(ctx, normalised.TeacherID, normalised.CourseID, normalised.Section)
	}
	s.notifyTeacher(ctx, normalised.TeacherID, existing, "One of your class slots was changed")

	return s.Get(ctx, routineID)
}

// Get loads a routine slot.
func (s *RoutineService) Get(ctx context.Context, routineID string) (*models.Routine, error) {
	ctx = ensureContext(ctx)

	var routine models.Routine
	if err := s.db.WithContext(ctx).
		Preload("Course").
		Preload("Teacher").
		Preload("Department").
		Where("id = ?", routineID).
		First(&routine).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("routine service: load routine: %w", err)
	}
	return &routine, nil
}

// ListFor returns the timetable scoped by role: admins see everything,
// teachers their own slots, students the slots of their confirmed courses.
func (s *RoutineService) ListFor(ctx context.Context, userID, role string) ([]models.Routine, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).
		Preload("Course").
		Preload("Teacher").
		Preload("Department").
		Order("day ASC, period ASC")

	switch role {
	case models.RoleAdmin:
	case models.RoleTeacher:
		query = query.Where("teacher_id = ?", userID)
	default:
		query = query.Where("course_id IN (?)", s.db.
			Model(&models.CourseRegistration{}).
			Select("course_id").
			Where("student_id = ? AND status = ?", userID, models.RegistrationStatusConfirmed))
	}

	var routines []models.Routine
	if err := query.Find(&routines).Error; err != nil {
		return nil, fmt.Errorf("routine service: list routines: %w", err)
	}
	return routines, nil
}

// Delete removes a slot. The teacher's auto-created registration goes with it
// when no other slot keeps them on the course.
func (s *RoutineService) Delete(ctx context.Context, routineID string) error {
	ctx = ensureContext(ctx)

	routine, err := s.Get(ctx, routineID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", routineID).Delete(&models.Routine{}).Error; err != nil {
			return fmt.Errorf("routine service: delete routine: %w", err)
		}

		var remaining int64
		if err := tx.Model(&models.Routine{}).
			Where("teacher_id = ? AND course_id = ?", routine.TeacherID, routine.CourseID).
			Count(&remaining).Error; err != nil {
			return err
		}
		if remaining == 0 {
			if err := tx.Where("student_id = ? AND course_id = ?", routine.TeacherID, routine.CourseID).
				Delete(&models.CourseRegistration{}).Error; err != nil {
				return fmt.Errorf("routine service: delete teacher registration: %w", err)
			}
		}
		return nil
	})
}

// validate resolves referenced rows and normalises the input.
func (s *RoutineService) validate(ctx context.Context, input *RoutineInput) (*RoutineInput, error) {
	day := strings.ToLower(strings.TrimSpace(input.Day))
	if _, ok := routineDays[day]; !ok {
		return nil, apperrors.NewBadRequest("unknown day")
	}
	if input.Period < 1 || input.Period > 6 {
		return nil, apperrors.NewBadRequest("period must be between 1 and 6")
	}
	room := strings.TrimSpace(input.RoomNumber)
	section := strings.TrimSpace(input.Section)
	if room == "" || section == "" {
		return nil, apperrors.NewBadRequest("room number and section are required")
	}

	var course models.Course
	if err := s.db.WithContext(ctx).Where("id = ?", strings.TrimSpace(input.CourseID)).
		First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound.WithMessage("Course not found")
		}
		return nil, fmt.Errorf("routine service: load course: %w", err)
	}

	var teacher models.User
	if err := s.db.WithContext(ctx).
		Where("id = ? AND role = ?", strings.TrimSpace(input.TeacherID), models.RoleTeacher).
		First(&teacher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound.WithMessage("Teacher not found")
		}
		return nil, fmt.Errorf("routine service: load teacher: %w", err)
	}

	var department models.Department
	if err := s.db.WithContext(ctx).Where("id = ?", strings.TrimSpace(input.DepartmentID)).
		First(&department).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound.WithMessage("Department not found")
		}
		return nil, fmt.Errorf("routine service: load department: %w", err)
	}

	return &RoutineInput{
		CourseID:     course.ID,
		TeacherID:    teacher.ID,
		DepartmentID: department.ID,
		Day:          day,
		Period:       input.Period,
		RoomNumber:   room,
		Section:      section,
	}, nil
}

// checkConflicts rejects a slot when the teacher, the room, or the course
// section is already busy at the same (day, period). excludeID skips the row
// being updated.
func (s *RoutineService) checkConflicts(ctx context.Context, input *RoutineInput, excludeID string) error {
	base := s.db.WithContext(ctx).Model(&models.Routine{}).
		Where("day = ? AND period = ?", input.Day, input.Period)
	if excludeID != "" {
		base = base.Where("id <> ?", excludeID)
	}

	var count int64
	if err := base.Session(&gorm.Session{}).
		Where("teacher_id = ?", input.TeacherID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("routine service: teacher conflict check: %w", err)
	}
	if count > 0 {
		return apperrors.NewConflict("The teacher already has a class at this time")
	}

	if err := base.Session(&gorm.Session{}).
		Where("room_number = ?", input.RoomNumber).
		Count(&count).Error; err != nil {
		return fmt.Errorf("routine service: room conflict check: %w", err)
	}
	if count > 0 {
		return apperrors.NewConflict("The room is already booked at this time")
	}

	if err := base.Session(&gorm.Session{}).
		Where("course_id = ? AND section = ?", input.CourseID, input.Section).
		Count(&count).Error; err != nil {
		return fmt.Errorf("routine service: section conflict check: %w", err)
	}
	if count > 0 {
		return apperrors.NewConflict("This course section already has a class at this time")
	}

	return nil
}

// ensureTeacherRegistration confirms or creates the teacher's registration
// for the assigned course.
func (s *RoutineService) ensureTeacherRegistration(ctx context.Context, teacherID, courseID, section string) {
	var registration models.CourseRegistration
	err := s.db.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", teacherID, courseID).
		First(&registration).Error

	switch {
	case err == nil:
		if registration.Status != models.RegistrationStatusConfirmed {
			if err := s.db.WithContext(ctx).Model(&models.CourseRegistration{}).
				Where("id = ?", registration.ID).
				Update("status", models.RegistrationStatusConfirmed).Error; err != nil {
				s.log.Warn("failed to confirm teacher registration", zap.Error(err))
			}
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		registration = models.CourseRegistration{
			StudentID: teacherID,
			CourseID:  courseID,
			Section:   section,
			Status:    models.RegistrationStatusConfirmed,
		}
		if err := s.db.WithContext(ctx).Create(&registration).Error; err != nil && !isUniqueConstraintError(err) {
			s.log.Warn("failed to create teacher registration", zap.Error(err))
		}
	default:
		s.log.Warn("failed to load teacher registration", zap.Error(err))
	}
}

func (s *RoutineService) notifyTeacher(ctx context.Context, teacherID string, routine *models.Routine, message string) {
	if s.notifications == nil {
		return
	}
	if _, err := s.notifications.Create(ctx, CreateNotificationInput{
		UserID:  teacherID,
		Type:    models.NotificationRoutineChange,
		Title:   "Timetable update",
		Message: message,
		Metadata: map[string]any{
			"routine_id": routine.ID,
		},
	}); err != nil {
		s.log.Warn("failed to notify teacher", zap.String("teacher_id", teacherID), zap.Error(err))
	}
}
