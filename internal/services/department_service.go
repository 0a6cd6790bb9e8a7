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

// DepartmentService manages academic departments.
type DepartmentService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewDepartmentService constructs a DepartmentService.
func NewDepartmentService(db *gorm.DB) (*DepartmentService, error) {
	if db == nil {
		return nil, errors.New("department service: db is required")
	}
	return &DepartmentService{db: db, log: logger.WithModule("departments")}, nil
}

// Create adds a department. Name and code must be unique.
func (s *DepartmentService) Create(ctx context.Context, name, code string) (*models.Department, error) {
	ctx = ensureContext(ctx)

	name = strings.TrimSpace(name)
	code = strings.ToUpper(strings.TrimSpace(code))
	if name == "" || code == "" {
		return nil, apperrors.NewBadRequest("name and code are required")
	}

	department := models.Department{Name: name, Code: code, IsActive: true}
	if err := s.db.WithContext(ctx).Create(&department).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewConflict("A department with this name or code already exists")
		}
		return nil, fmt.Errorf("department service: create department: %w", err)
	}

	if err := incrementStats(s.db.WithContext(ctx), map[string]int{"departments": 1}); err != nil {
		s.log.Warn("failed to bump department counter", zap.Error(err))
	}

	return &department, nil
}

// ListActive returns active departments ordered by name.
func (s *DepartmentService) ListActive(ctx context.Context) ([]models.Department, error) {
	ctx = ensureContext(ctx)

	var departments []models.Department
	if err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&departments).Error; err != nil {
		return nil, fmt.Errorf("department service: list departments: %w", err)
	}
	return departments, nil
}

// Get loads a department by ID.
func (s *DepartmentService) Get(ctx context.Context, id string) (*models.Department, error) {
	ctx = ensureContext(ctx)

	var department models.Department
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&department).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("department service: load department: %w", err)
	}
	return &department, nil
}
