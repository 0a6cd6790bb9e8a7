package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nazmulhs/campushub/internal/auth"
	"github.com/nazmulhs/campushub/internal/database/testutil"
	"github.com/nazmulhs/campushub/internal/models"
	"github.com/nazmulhs/campushub/pkg/mail"
)

type recordingMailer struct {
	sent []mail.Message
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

type testEnv struct {
	db            *gorm.DB
	jwt           *auth.JWTService
	mailer        *recordingMailer
	notifications *NotificationService
	otp           *OTPService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())

	jwtService, err := auth.NewJWTService(auth.JWTConfig{Secret: "test-secret", Issuer: "campushub-test"})
	require.NoError(t, err)

	mailer := &recordingMailer{}

	notifications, err := NewNotificationService(db, nil)
	require.NoError(t, err)

	otp, err := NewOTPService(db, mailer, notifications, nil)
	require.NoError(t, err)

	return &testEnv{
		db:            db,
		jwt:           jwtService,
		mailer:        mailer,
		notifications: notifications,
		otp:           otp,
	}
}

func (e *testEnv) userService(t *testing.T, universityDomain string) *UserService {
	t.Helper()
	svc, err := NewUserService(e.db, e.jwt, e.otp, nil, nil, universityDomain)
	require.NoError(t, err)
	return svc
}

func (e *testEnv) createDepartment(t *testing.T, name, code string) *models.Department {
	t.Helper()
	department := &models.Department{Name: name, Code: code, IsActive: true}
	require.NoError(t, e.db.Create(department).Error)
	return department
}

func (e *testEnv) createUser(t *testing.T, studentID, email, role string, verified, active bool) *models.User {
	t.Helper()
	user := &models.User{
		StudentID:  studentID,
		Email:      email,
		Name:       "Test User",
		Password:   "not-a-real-hash",
		Role:       role,
		IsVerified: verified,
		IsActive:   active,
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) createCourse(t *testing.T, code string, departmentID string) *models.Course {
	t.Helper()
	course := &models.Course{
		CourseCode:   code,
		Title:        "Course " + code,
		CreditHour:   3,
		DepartmentID: departmentID,
	}
	require.NoError(t, e.db.Create(course).Error)
	return course
}
