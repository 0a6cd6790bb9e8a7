package database

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/nazmulhs/campushub/internal/models"
	"github.com/nazmulhs/campushub/pkg/crypto"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Department{},
		&models.Course{},
		&models.CourseRegistration{},
		&models.Payment{},
		&models.Event{},
		&models.EventRegistration{},
		&models.EventPayment{},
		&models.GuestUser{},
		&models.Notification{},
		&models.Routine{},
		&models.Stats{},
		&models.CacheEntry{},
	)
}

// SeedData ensures the stats singleton exists.
func SeedData(db *gorm.DB) error {
	return EnsureStats(db)
}

// EnsureStats creates the singleton stats row when missing.
func EnsureStats(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Stats{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.Create(&models.Stats{}).Error
}

// SeedAdmin provisions a bootstrap administrator account when none exists.
// The account is created verified and active so the first deployment can log
// in and activate everyone else.
func SeedAdmin(db *gorm.DB, studentID, email, password string) error {
	studentID = strings.TrimSpace(studentID)
	email = strings.TrimSpace(strings.ToLower(email))
	if studentID == "" || email == "" || password == "" {
		return errors.New("admin seed requires student id, email, and password")
	}

	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.User{
		StudentID:  studentID,
		Email:      email,
		Name:       "Administrator",
		Password:   hash,
		Role:       models.RoleAdmin,
		IsVerified: true,
		IsActive:   true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	return db.Model(&models.Stats{}).
		Where("1 = 1").
		Updates(map[string]any{
			"total_users":    gorm.Expr("total_users + 1"),
			"verified_users": gorm.Expr("verified_users + 1"),
		}).Error
}
