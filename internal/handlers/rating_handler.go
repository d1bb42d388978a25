package handlers

import (
	"net/http"

	"github.com/arifdev/recipely/backend/internal/models"
	"github.com/arifdev/recipely/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RatingHandler handles recipe rating HTTP requests
type RatingHandler struct {
	gateway *services.InteractionGateway
}

// NewRatingHandler creates a new RatingHandler
func NewRatingHandler(gateway *services.InteractionGateway) *RatingHandler {
	return &RatingHandler{gateway: gateway}
}

// RegisterRatingRoutes registers rating routes
func (h *RatingHandler) RegisterRatingRoutes(g *echo.Group) {
	g.PUT("/recipes/:id/rate", h.RateRecipe)
}

// RateRecipe sets or replaces the authenticated user's rating of a recipe
func (h *RatingHandler) RateRecipe(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	recipeID := c.Param("id")
	if _, err := primitive.ObjectIDFromHex(recipeID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid recipe ID")
	}

	var req models.RateRecipeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.gateway.Rate(c.Request().Context(), currentUserID, recipeID, req.Value)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{
		"average":      res.Average,
		"rating_count": res.RatingCount,
	}})
}
