package handlers

import (
	"net/http"

	"github.com/arifdev/recipely/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LikeHandler handles HTTP requests related to recipe likes
type LikeHandler struct {
	gateway *services.InteractionGateway
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(gateway *services.InteractionGateway) *LikeHandler {
	return &LikeHandler{gateway: gateway}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/recipes/:id/like", h.LikeRecipe)
	g.DELETE("/recipes/:id/like", h.UnlikeRecipe)
}

// LikeRecipe handles liking a recipe
func (h *LikeHandler) LikeRecipe(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	recipeID := c.Param("id")
	if _, err := primitive.ObjectIDFromHex(recipeID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid recipe ID")
	}

	res, err := h.gateway.Like(c.Request().Context(), currentUserID, recipeID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{
		"liked":      true,
		"likers":     res.Likers,
		"like_count": res.LikeCount,
	}})
}

// UnlikeRecipe handles unliking a recipe
func (h *LikeHandler) UnlikeRecipe(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	recipeID := c.Param("id")
	if _, err := primitive.ObjectIDFromHex(recipeID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid recipe ID")
	}

	res, err := h.gateway.Unlike(c.Request().Context(), currentUserID, recipeID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{
		"liked":      false,
		"likers":     res.Likers,
		"like_count": res.LikeCount,
	}})
}
