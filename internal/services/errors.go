package services

import "errors"

// Typed errors returned by the stores. Validation and conflict errors are
// expected client-side conditions; handlers map them to 4xx responses so
// callers can tell an "already done" apart from a genuine failure.
var (
	// validation
	ErrSelfFollow    = errors.New("cannot follow yourself")
	ErrInvalidRating = errors.New("rating value must be between 1 and 5")
	ErrEmptyComment  = errors.New("comment text cannot be empty")

	// conflict
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotFollowing     = errors.New("not following this user")
	ErrAlreadyLiked     = errors.New("recipe already liked")
	ErrNotLiked         = errors.New("recipe not liked")
	ErrAlreadySaved     = errors.New("recipe already saved")
	ErrNotSaved         = errors.New("recipe not saved")

	// not found
	ErrUserNotFound         = errors.New("user not found")
	ErrRecipeNotFound       = errors.New("recipe not found")
	ErrNotificationNotFound = errors.New("notification not found")

	// authorization
	ErrForbidden = errors.New("not allowed")
)
