package handlers

import (
	"net/http"
	"strconv"

	"github.com/arifdev/recipely/backend/internal/repositories"
	"github.com/arifdev/recipely/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SavedRecipeHandler handles save/bookmark HTTP requests
type SavedRecipeHandler struct {
	gateway *services.InteractionGateway
	recipes repositories.RecipeRepository
}

// NewSavedRecipeHandler creates a new SavedRecipeHandler
func NewSavedRecipeHandler(gateway *services.InteractionGateway, recipes repositories.RecipeRepository) *SavedRecipeHandler {
	return &SavedRecipeHandler{gateway: gateway, recipes: recipes}
}

// RegisterSavedRecipeRoutes registers saved recipe routes
func (h *SavedRecipeHandler) RegisterSavedRecipeRoutes(g *echo.Group) {
	g.POST("/recipes/:id/save", h.SaveRecipe)
	g.DELETE("/recipes/:id/save", h.UnsaveRecipe)
	g.GET("/recipes/saved", h.GetSavedRecipes)
}

// SaveRecipe bookmarks a recipe
func (h *SavedRecipeHandler) SaveRecipe(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	recipeID := c.Param("id")
	if _, err := primitive.ObjectIDFromHex(recipeID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid recipe ID")
	}

	res, err := h.gateway.Save(c.Request().Context(), currentUserID, recipeID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{
		"saved":      true,
		"save_count": res.SaveCount,
	}})
}

// UnsaveRecipe removes a recipe from the user's saved set
func (h *SavedRecipeHandler) UnsaveRecipe(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	recipeID := c.Param("id")
	if _, err := primitive.ObjectIDFromHex(recipeID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid recipe ID")
	}

	res, err := h.gateway.Unsave(c.Request().Context(), currentUserID, recipeID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{
		"saved":      false,
		"save_count": res.SaveCount,
	}})
}

// GetSavedRecipes lists the authenticated user's saved recipes
func (h *SavedRecipeHandler) GetSavedRecipes(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	uid, err := primitive.ObjectIDFromHex(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	skip := int64((page - 1) * limit)

	recipes, err := h.recipes.GetSavedByUser(c.Request().Context(), uid, skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"recipes": recipes}})
}
