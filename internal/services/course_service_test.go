package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nazmulhs/campushub/internal/models"
	apperrors "github.com/nazmulhs/campushub/pkg/errors"
)

type courseFixture struct {
	env  *testEnv
	svc  *CourseService
	dept *models.Department
}

func newCourseFixture(t *testing.T) *courseFixture {
	t.Helper()

	env := newTestEnv(t)
	svc, err := NewCourseService(env.db, nil, env.notifications)
	require.NoError(t, err)

	dept := env.createDepartment(t, "Computer Science", "CSE")
	return &courseFixture{env: env, svc: svc, dept: dept}
}

func TestCourseCreateAndDuplicateCode(t *testing.T) {
	f := newCourseFixture(t)

	course, err := f.svc.Create(context.Background(), CreateCourseInput{
		CourseCode:   " cse-301 ",
		Title:        "Algorithms",
		CreditHour:   3,
		DepartmentID: f.dept.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "CSE-301", course.CourseCode)
	require.Equal(t, []string{}, decodeStringList(course.MidTheoryResources))

	_, err = f.svc.Create(context.Background(), CreateCourseInput{
		CourseCode:   "CSE-301",
		Title:        "Algorithms again",
		CreditHour:   3,
		DepartmentID: f.dept.ID,
	})
	require.Error(t, err)
	require.Equal(t, apperrors.ErrConflict.Code, apperrors.FromError(err).Code)

	_, err = f.svc.Create(context.Background(), CreateCourseInput{
		CourseCode:   "CSE-302",
		CreditHour:   7,
		DepartmentID: f.dept.ID,
	})
	require.Error(t, err)

	_, err = f.svc.Create(context.Background(), CreateCourseInput{
		CourseCode:   "CSE-303",
		CreditHour:   3,
		DepartmentID: "missing",
	})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCourseListFilteredByDepartment(t *testing.T) {
	f := newCourseFixture(t)
	eee := f.env.createDepartment(t, "Electrical Engineering", "EEE")

	f.env.createCourse(t, "CSE-310", f.dept.ID)
	f.env.createCourse(t, "EEE-210", eee.ID)

	all, err := f.svc.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	filtered, err := f.svc.List(context.Background(), eee.ID)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, "EEE-210", filtered[0].CourseCode)
}

func TestCourseResourceAddUpdateDelete(t *testing.T) {
	f := newCourseFixture(t)
	course := f.env.createCourse(t, "CSE-320", f.dept.ID)

	updated, err := f.svc.AddResource(context.Background(), course.ID, models.ResourceFieldMidTheory, "https://cdn.example.com/notes-1.pdf")
	require.NoError(t, err)
	require.Equal(t, []string{"https://cdn.example.com/notes-1.pdf"}, decodeStringList(updated.MidTheoryResources))

	_, err = f.svc.AddResource(context.Background(), course.ID, models.ResourceFieldMidTheory, "https://cdn.example.com/notes-1.pdf")
	require.Error(t, err)
	require.Equal(t, apperrors.ErrConflict.Code, apperrors.FromError(err).Code)

	_, err = f.svc.AddResource(context.Background(), course.ID, "homework", "https://cdn.example.com/x.pdf")
	require.Error(t, err)

	updated, err = f.svc.UpdateResource(context.Background(), course.ID, models.ResourceFieldMidTheory,
		"https://cdn.example.com/notes-1.pdf", "https://cdn.example.com/notes-2.pdf")
	require.NoError(t, err)
	require.Equal(t, []string{"https://cdn.example.com/notes-2.pdf"}, decodeStringList(updated.MidTheoryResources))

	_, err = f.svc.UpdateResource(context.Background(), course.ID, models.ResourceFieldMidTheory,
		"https://cdn.example.com/notes-1.pdf", "https://cdn.example.com/notes-3.pdf")
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	updated, err = f.svc.DeleteResource(context.Background(), course.ID, models.ResourceFieldMidTheory, "https://cdn.example.com/notes-2.pdf")
	require.NoError(t, err)
	require.Empty(t, decodeStringList(updated.MidTheoryResources))
}

func TestCourseResourceAddNotifiesConfirmedRegistrants(t *testing.T) {
	f := newCourseFixture(t)
	course := f.env.createCourse(t, "CSE-321", f.dept.ID)

	confirmed := f.env.createUser(t, "S300", "s300@example.com", models.RoleStudent, true, true)
	pending := f.env.createUser(t, "S301", "s301@example.com", models.RoleStudent, true, true)

	require.NoError(t, f.env.db.Create(&models.CourseRegistration{
		StudentID: confirmed.ID, CourseID: course.ID, Section: "A",
		Status: models.RegistrationStatusConfirmed,
	}).Error)
	require.NoError(t, f.env.db.Create(&models.CourseRegistration{
		StudentID: pending.ID, CourseID: course.ID, Section: "A",
		Status: models.RegistrationStatusPending,
	}).Error)

	_, err := f.svc.AddResource(context.Background(), course.ID, models.ResourceFieldFinalResources, "https://cdn.example.com/final.pdf")
	require.NoError(t, err)

	var count int64
	require.NoError(t, f.env.db.Model(&models.Notification{}).
		Where("user_id = ?", confirmed.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)

	require.NoError(t, f.env.db.Model(&models.Notification{}).
		Where("user_id = ?", pending.ID).Count(&count).Error)
	require.Zero(t, count)
}

func TestCourseResourcesForRequiresPaidConfirmedRegistration(t *testing.T) {
	f := newCourseFixture(t)
	course := f.env.createCourse(t, "CSE-322", f.dept.ID)

	_, err := f.svc.AddResource(context.Background(), course.ID, models.ResourceFieldMidSolves, "https://cdn.example.com/solves.pdf")
	require.NoError(t, err)

	student := f.env.createUser(t, "S302", "s302@example.com", models.RoleStudent, true, true)

	// No registration at all.
	_, err = f.svc.ResourcesFor(context.Background(), course.ID, student.ID, models.RoleStudent)
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	registration := &models.CourseRegistration{
		StudentID: student.ID, CourseID: course.ID, Section: "A",
		Status: models.RegistrationStatusConfirmed,
	}
	require.NoError(t, f.env.db.Create(registration).Error)

	// Confirmed but unpaid still fails.
	_, err = f.svc.ResourcesFor(context.Background(), course.ID, student.ID, models.RoleStudent)
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	require.NoError(t, f.env.db.Create(&models.Payment{
		RegistrationID: registration.ID,
		Amount:         1500,
		Method:         models.PaymentMethodBkash,
		Status:         models.PaymentStatusCompleted,
	}).Error)

	resources, err := f.svc.ResourcesFor(context.Background(), course.ID, student.ID, models.RoleStudent)
	require.NoError(t, err)
	require.Equal(t, []string{"https://cdn.example.com/solves.pdf"}, resources.MidPreviousSolves)

	// Teachers bypass the registration gate.
	teacher := f.env.createUser(t, "T300", "t300@example.com", models.RoleTeacher, true, true)
	_, err = f.svc.ResourcesFor(context.Background(), course.ID, teacher.ID, models.RoleTeacher)
	require.NoError(t, err)
}

func TestCourseUpdateAndDelete(t *testing.T) {
	f := newCourseFixture(t)
	course := f.env.createCourse(t, "CSE-330", f.dept.ID)

	title := "Operating Systems"
	credit := 4
	updated, err := f.svc.Update(context.Background(), course.ID, UpdateCourseInput{
		Title:      &title,
		CreditHour: &credit,
	})
	require.NoError(t, err)
	require.Equal(t, "Operating Systems", updated.Title)
	require.Equal(t, 4, updated.CreditHour)

	bad := 9
	_, err = f.svc.Update(context.Background(), course.ID, UpdateCourseInput{CreditHour: &bad})
	require.Error(t, err)

	student := f.env.createUser(t, "S303", "s303@example.com", models.RoleStudent, true, true)
	require.NoError(t, f.env.db.Create(&models.CourseRegistration{
		StudentID: student.ID, CourseID: course.ID, Section: "A",
		Status: models.RegistrationStatusPending,
	}).Error)

	require.NoError(t, f.svc.Delete(context.Background(), course.ID))

	var registrations int64
	require.NoError(t, f.env.db.Model(&models.CourseRegistration{}).Count(&registrations).Error)
	require.Zero(t, registrations)

	require.ErrorIs(t, f.svc.Delete(context.Background(), course.ID), apperrors.ErrNotFound)
}
