package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nazmulhs/campushub/internal/models"
	apperrors "github.com/nazmulhs/campushub/pkg/errors"
)

func TestDepartmentCreate(t *testing.T) {
	env := newTestEnv(t)
	svc, err := NewDepartmentService(env.db)
	require.NoError(t, err)

	dept, err := svc.Create(context.Background(), "Computer Science", " cse ")
	require.NoError(t, err)
	require.Equal(t, "CSE", dept.Code)
	require.True(t, dept.IsActive)

	var stats models.Stats
	require.NoError(t, env.db.First(&stats).Error)
	require.EqualValues(t, 1, stats.Departments)

	_, err = svc.Create(context.Background(), "Computer Science and Engineering", "CSE")
	require.Error(t, err)
	require.Equal(t, apperrors.ErrConflict.Code, apperrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), "", "EEE")
	require.Error(t, err)
}

func TestDepartmentListActive(t *testing.T) {
	env := newTestEnv(t)
	svc, err := NewDepartmentService(env.db)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "Mathematics", "MAT")
	require.NoError(t, err)
	cse, err := svc.Create(context.Background(), "Computer Science", "CSE")
	require.NoError(t, err)

	require.NoError(t, env.db.Model(&models.Department{}).
		Where("id = ?", cse.ID).Update("is_active", false).Error)

	departments, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, departments, 1)
	require.Equal(t, "MAT", departments[0].Code)

	got, err := svc.Get(context.Background(), cse.ID)
	require.NoError(t, err)
	require.Equal(t, "CSE", got.Code)

	_, err = svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}
