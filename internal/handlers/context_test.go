package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arifdev/recipely/backend/internal/models"
	"github.com/arifdev/recipely/backend/internal/services"
)

func TestMapServiceError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{services.ErrSelfFollow, http.StatusBadRequest},
		{services.ErrInvalidRating, http.StatusBadRequest},
		{services.ErrEmptyComment, http.StatusBadRequest},
		{services.ErrAlreadyFollowing, http.StatusConflict},
		{services.ErrNotFollowing, http.StatusConflict},
		{services.ErrAlreadyLiked, http.StatusConflict},
		{services.ErrNotLiked, http.StatusConflict},
		{services.ErrAlreadySaved, http.StatusConflict},
		{services.ErrNotSaved, http.StatusConflict},
		{services.ErrUserNotFound, http.StatusNotFound},
		{services.ErrRecipeNotFound, http.StatusNotFound},
		{services.ErrNotificationNotFound, http.StatusNotFound},
		{services.ErrForbidden, http.StatusForbidden},
		{errors.New("mongo timeout"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		httpErr, ok := mapServiceError(tc.err).(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, tc.code, httpErr.Code, "error %v", tc.err)
	}
}

func TestMapServiceErrorUnwrapsWrapped(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), services.ErrRecipeNotFound)
	httpErr, ok := mapServiceError(wrapped).(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestGetUserIDFromContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	assert.Empty(t, getUserIDFromContext(c))

	c.Set("user", &models.JwtCustomClaims{UserID: "abc123"})
	assert.Equal(t, "abc123", getUserIDFromContext(c))

	// wrong claim type in context yields no identity
	c.Set("user", "not-claims")
	assert.Empty(t, getUserIDFromContext(c))
}
