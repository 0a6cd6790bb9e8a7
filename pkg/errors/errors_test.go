package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppErrorWithInternal(t *testing.T) {
	base := ErrNotFound
	inner := errors.New("row missing")

	wrapped := base.WithInternal(inner)
	require.NotSame(t, base, wrapped)
	require.Equal(t, base.Code, wrapped.Code)
	require.ErrorIs(t, wrapped, inner)
	require.Contains(t, wrapped.Error(), "row missing")

	// The shared sentinel must stay untouched.
	require.Nil(t, base.Internal)
}

func TestAppErrorCopiesMatchSentinel(t *testing.T) {
	custom := ErrNotFound.WithMessage("Course not found")
	require.ErrorIs(t, custom, ErrNotFound)

	wrapped := ErrConflict.WithInternal(errors.New("duplicate key"))
	require.ErrorIs(t, wrapped, ErrConflict)

	// Distinct codes must not match each other.
	require.NotErrorIs(t, custom, ErrConflict)
	require.NotErrorIs(t, errors.New("plain"), ErrNotFound)
}

func TestFromError(t *testing.T) {
	appErr := NewBadRequest("email is required")
	require.Same(t, appErr, FromError(appErr))

	generic := FromError(errors.New("boom"))
	require.Equal(t, ErrInternalServer.Code, generic.Code)
	require.Equal(t, http.StatusInternalServerError, generic.StatusCode)

	require.Nil(t, FromError(nil))
}

func TestNewCooldownCarriesRetrySeconds(t *testing.T) {
	err := NewCooldown("Please wait before requesting a new OTP", 42)
	require.Equal(t, http.StatusTooManyRequests, err.StatusCode)
	require.Contains(t, err.Message, "42s")
}

func TestNewUpstreamForwardsMessage(t *testing.T) {
	inner := errors.New("image host returned 503")
	err := NewUpstream("media", inner)
	require.Equal(t, http.StatusInternalServerError, err.StatusCode)
	require.Contains(t, err.Message, "image host returned 503")
	require.ErrorIs(t, err, inner)
}
