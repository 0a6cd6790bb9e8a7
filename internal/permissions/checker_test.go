package permissions

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/nazmulhs/campushub/pkg/errors"
)

func TestParseRole(t *testing.T) {
	role, err := ParseRole(" Admin ")
	require.NoError(t, err)
	require.Equal(t, RoleAdmin, role)

	_, err = ParseRole("superuser")
	require.Error(t, err)
}

func TestCheckerAllowed(t *testing.T) {
	checker := NewChecker()

	require.True(t, checker.Allowed(RoleAdmin, CapRoutineManage))
	require.True(t, checker.Allowed(RoleStudent, CapRegistrationOwn))
	require.False(t, checker.Allowed(RoleStudent, CapRoutineManage))
	require.False(t, checker.Allowed(RoleTeacher, CapUserActivate))
	require.False(t, checker.Allowed(Role("guest"), CapResourceView))
}

func TestCheckerCheckReturnsForbidden(t *testing.T) {
	checker := NewChecker()

	require.NoError(t, checker.Check(RoleAdmin, CapDepartmentManage))

	err := checker.Check(RoleStudent, CapDepartmentManage)
	require.ErrorIs(t, err, apperrors.ErrForbidden)
}
