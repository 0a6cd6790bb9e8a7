package database

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nazmulhs/campushub/internal/models"
)

func openMigrated(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(Config{Driver: "sqlite"})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrateAndSeed(db))
	return db
}

func TestSeedCreatesStatsSingletonOnce(t *testing.T) {
	db := openMigrated(t)

	require.NoError(t, SeedData(db))

	var count int64
	require.NoError(t, db.Model(&models.Stats{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestSeedAdminIsIdempotent(t *testing.T) {
	db := openMigrated(t)

	require.NoError(t, SeedAdmin(db, "ADMIN-001", "admin@example.edu", "changeme"))
	require.NoError(t, SeedAdmin(db, "ADMIN-001", "admin@example.edu", "changeme"))

	var admins int64
	require.NoError(t, db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error)
	require.EqualValues(t, 1, admins)

	var stats models.Stats
	require.NoError(t, db.First(&stats).Error)
	require.EqualValues(t, 1, stats.TotalUsers)
	require.EqualValues(t, 1, stats.VerifiedUsers)
}

func TestSeedAdminValidatesInput(t *testing.T) {
	db := openMigrated(t)

	require.Error(t, SeedAdmin(db, "", "admin@example.edu", "changeme"))
	require.Error(t, SeedAdmin(db, "ADMIN-001", "admin@example.edu", ""))
}

func TestCourseRegistrationStudentAssociation(t *testing.T) {
	db := openMigrated(t)

	// Users must be insertable on their own: the registration's Student
	// association keys on course_registrations.student_id, never on users.
	student := models.User{StudentID: "C-2021-001", Email: "reg@example.edu", Name: "Reg", Password: "x"}
	require.NoError(t, db.Create(&student).Error)

	dept := models.Department{Name: "Physics", Code: "PHY"}
	require.NoError(t, db.Create(&dept).Error)
	course := models.Course{CourseCode: "PHY-101", Title: "Mechanics", DepartmentID: dept.ID}
	require.NoError(t, db.Create(&course).Error)

	reg := models.CourseRegistration{StudentID: student.ID, CourseID: course.ID, Section: "A"}
	require.NoError(t, db.Create(&reg).Error)

	var loaded models.CourseRegistration
	require.NoError(t, db.Preload("Student").First(&loaded, "id = ?", reg.ID).Error)
	require.NotNil(t, loaded.Student)
	require.Equal(t, student.ID, loaded.Student.ID)
	require.Equal(t, "C-2021-001", loaded.Student.StudentID)
}

func TestUniqueIndexesEnforced(t *testing.T) {
	db := openMigrated(t)

	dept := models.Department{Name: "Computer Science", Code: "CSE"}
	require.NoError(t, db.Create(&dept).Error)
	require.Error(t, db.Create(&models.Department{Name: "Computer Science", Code: "CSE2"}).Error)

	student := models.User{StudentID: "C123", Email: "s@example.edu", Name: "S", Password: "x"}
	require.NoError(t, db.Create(&student).Error)

	course := models.Course{CourseCode: "CSE-101", Title: "Intro", DepartmentID: dept.ID}
	require.NoError(t, db.Create(&course).Error)

	reg := models.CourseRegistration{StudentID: student.ID, CourseID: course.ID, Section: "A"}
	require.NoError(t, db.Create(&reg).Error)
	require.Error(t, db.Create(&models.CourseRegistration{StudentID: student.ID, CourseID: course.ID, Section: "B"}).Error)
}
