package handlers

import (
	"errors"
	"net/http"

	"github.com/arifdev/recipely/backend/internal/models"
	"github.com/arifdev/recipely/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHandler handles HTTP requests related to user profiles
type UserHandler struct {
	userRepository   repositories.UserRepository
	recipeRepository repositories.RecipeRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, recipeRepo repositories.RecipeRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo, recipeRepository: recipeRepo}
}

// RegisterUserRoutes registers user profile-related routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/profile/:username", h.GetProfile)
	g.GET("/users/:id", h.GetUser)
	g.PUT("/users/profile", h.UpdateProfile)
}

// GetUser retrieves a user by ID
func (h *UserHandler) GetUser(c echo.Context) error {
	userID := c.Param("id")
	if _, err := primitive.ObjectIDFromHex(userID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, user)
}

// GetProfile retrieves a user's public profile by username, with their
// recipe count and follower/following counts.
func (h *UserHandler) GetProfile(c echo.Context) error {
	username := c.Param("username")

	user, err := h.userRepository.GetUserByUsername(c.Request().Context(), username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	recipeCount, err := h.recipeRepository.CountByUserID(c.Request().Context(), user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{
		"user":            user,
		"recipe_count":    recipeCount,
		"follower_count":  len(user.Followers),
		"following_count": len(user.Following),
	}})
}

// UpdateProfile updates the authenticated user's profile
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.UpdateProfile(c.Request().Context(), currentUserID, &req)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, user)
}

// SearchUsers searches for users by name or username
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query 'q' is required")
	}

	users, err := h.userRepository.SearchUsers(c.Request().Context(), query, 50)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, toCompactList(users))
}

func toCompactList(users []models.User) []models.UserCompact {
	compact := make([]models.UserCompact, len(users))
	for i := range users {
		compact[i] = users[i].ToCompact()
	}
	return compact
}
