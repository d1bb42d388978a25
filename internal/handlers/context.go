package handlers

import (
	"errors"
	"net/http"

	"github.com/arifdev/recipely/backend/internal/models"
	"github.com/arifdev/recipely/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext extracts the authenticated user's ID from the JWT
// claims placed in the context by the auth middleware. Returns "" when
// the request carries no valid identity.
func getUserIDFromContext(c echo.Context) string {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return ""
	}
	return claims.UserID
}

// mapServiceError translates the stores' typed errors into HTTP errors.
// Conflicts surface as 409 so clients can tell "already done" apart from
// a genuine failure and reconcile optimistic UI state.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, services.ErrSelfFollow),
		errors.Is(err, services.ErrInvalidRating),
		errors.Is(err, services.ErrEmptyComment):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())

	case errors.Is(err, services.ErrAlreadyFollowing),
		errors.Is(err, services.ErrNotFollowing),
		errors.Is(err, services.ErrAlreadyLiked),
		errors.Is(err, services.ErrNotLiked),
		errors.Is(err, services.ErrAlreadySaved),
		errors.Is(err, services.ErrNotSaved):
		return echo.NewHTTPError(http.StatusConflict, err.Error())

	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrRecipeNotFound),
		errors.Is(err, services.ErrNotificationNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())

	case errors.Is(err, services.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
