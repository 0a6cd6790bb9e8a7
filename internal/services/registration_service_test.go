package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nazmulhs/campushub/internal/models"
	apperrors "github.com/nazmulhs/campushub/pkg/errors"
)

func TestRegistrationCreateAndDuplicate(t *testing.T) {
	env := newTestEnv(t)
	svc, err := NewRegistrationService(env.db)
	require.NoError(t, err)

	dept := env.createDepartment(t, "Computer Science", "CSE")
	student := env.createUser(t, "S100", "s100@example.com", models.RoleStudent, true, true)
	course := env.createCourse(t, "CSE-110", dept.ID)

	first, err := svc.Create(context.Background(), student.ID, course.ID, "A")
	require.NoError(t, err)
	require.Equal(t, models.RegistrationStatusPending, first.Status)

	// Registering the same course again hands back the existing row.
	second, err := svc.Create(context.Background(), student.ID, course.ID, "B")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "A", second.Section)

	var count int64
	require.NoError(t, env.db.Model(&models.CourseRegistration{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestRegistrationCreateUnknownCourse(t *testing.T) {
	env := newTestEnv(t)
	svc, err := NewRegistrationService(env.db)
	require.NoError(t, err)

	student := env.createUser(t, "S101", "s101@example.com", models.RoleStudent, true, true)

	_, err = svc.Create(context.Background(), student.ID, "missing", "A")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRegistrationGetScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	svc, err := NewRegistrationService(env.db)
	require.NoError(t, err)

	dept := env.createDepartment(t, "Computer Science", "CSE")
	student := env.createUser(t, "S102", "s102@example.com", models.RoleStudent, true, true)
	other := env.createUser(t, "S103", "s103@example.com", models.RoleStudent, true, true)
	course := env.createCourse(t, "CSE-111", dept.ID)

	reg, err := svc.Create(context.Background(), student.ID, course.ID, "A")
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), other.ID, reg.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	got, err := svc.Get(context.Background(), student.ID, reg.ID)
	require.NoError(t, err)
	require.Equal(t, reg.ID, got.ID)
}

func TestRegistrationUpdateSectionRefusesConfirmed(t *testing.T) {
	env := newTestEnv(t)
	svc, err := NewRegistrationService(env.db)
	require.NoError(t, err)

	dept := env.createDepartment(t, "Computer Science", "CSE")
	student := env.createUser(t, "S104", "s104@example.com", models.RoleStudent, true, true)
	course := env.createCourse(t, "CSE-112", dept.ID)

	reg, err := svc.Create(context.Background(), student.ID, course.ID, "A")
	require.NoError(t, err)

	updated, err := svc.UpdateSection(context.Background(), student.ID, reg.ID, "B")
	require.NoError(t, err)
	require.Equal(t, "B", updated.Section)

	require.NoError(t, env.db.Model(&models.CourseRegistration{}).
		Where("id = ?", reg.ID).
		Update("status", models.RegistrationStatusConfirmed).Error)

	_, err = svc.UpdateSection(context.Background(), student.ID, reg.ID, "C")
	require.Error(t, err)
}

func TestRegistrationDeleteRemovesPayment(t *testing.T) {
	env := newTestEnv(t)
	svc, err := NewRegistrationService(env.db)
	require.NoError(t, err)

	dept := env.createDepartment(t, "Computer Science", "CSE")
	student := env.createUser(t, "S105", "s105@example.com", models.RoleStudent, true, true)
	course := env.createCourse(t, "CSE-113", dept.ID)

	reg, err := svc.Create(context.Background(), student.ID, course.ID, "A")
	require.NoError(t, err)

	require.NoError(t, env.db.Create(&models.Payment{
		RegistrationID: reg.ID,
		Amount:         1500,
		Method:         models.PaymentMethodBkash,
		Status:         models.PaymentStatusCompleted,
		TransactionID:  "TRX-1",
	}).Error)

	require.NoError(t, svc.Delete(context.Background(), student.ID, reg.ID))

	var payments int64
	require.NoError(t, env.db.Model(&models.Payment{}).Count(&payments).Error)
	require.Zero(t, payments)

	require.ErrorIs(t, svc.Delete(context.Background(), student.ID, reg.ID), apperrors.ErrNotFound)
}
