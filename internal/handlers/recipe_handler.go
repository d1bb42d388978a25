package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/arifdev/recipely/backend/internal/models"
	"github.com/arifdev/recipely/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecipeHandler handles recipe CRUD HTTP requests
type RecipeHandler struct {
	recipeRepository repositories.RecipeRepository
	userRepository   repositories.UserRepository
}

// NewRecipeHandler creates a new RecipeHandler
func NewRecipeHandler(recipeRepo repositories.RecipeRepository, userRepo repositories.UserRepository) *RecipeHandler {
	return &RecipeHandler{
		recipeRepository: recipeRepo,
		userRepository:   userRepo,
	}
}

// RegisterRecipeRoutes registers recipe-related routes
func (h *RecipeHandler) RegisterRecipeRoutes(g *echo.Group) {
	g.POST("/recipes", h.CreateRecipe)
	g.GET("/recipes", h.GetAllRecipes)
	g.GET("/recipes/search", h.SearchRecipes)
	g.GET("/recipes/:id", h.GetRecipe)
	g.PUT("/recipes/:id", h.UpdateRecipe)
	g.DELETE("/recipes/:id", h.DeleteRecipe)
}

// CreateRecipe creates a new recipe owned by the authenticated user
func (h *RecipeHandler) CreateRecipe(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	uid, err := primitive.ObjectIDFromHex(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	var req models.CreateRecipeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	recipe := &models.Recipe{
		UserID:       uid,
		Title:        req.Title,
		Description:  req.Description,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		Images:       req.Images,
		PrepTime:     req.PrepTime,
		CookTime:     req.CookTime,
		Difficulty:   req.Difficulty,
		Servings:     req.Servings,
		Tags:         req.Tags,
	}

	if err := h.recipeRepository.CreateRecipe(c.Request().Context(), recipe); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, recipe)
}

// GetAllRecipes retrieves all recipes with pagination, newest first
func (h *RecipeHandler) GetAllRecipes(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	skip := int64((page - 1) * limit)

	recipes, err := h.recipeRepository.GetAllRecipes(c.Request().Context(), skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, recipes)
}

// SearchRecipes searches recipes by title, description, ingredients and tags
func (h *RecipeHandler) SearchRecipes(c echo.Context) error {
	term := c.QueryParam("term")
	if term == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query 'term' is required")
	}

	recipes, err := h.recipeRepository.SearchRecipes(c.Request().Context(), term, 50)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, recipes)
}

// GetRecipe retrieves a recipe by ID
func (h *RecipeHandler) GetRecipe(c echo.Context) error {
	recipeID := c.Param("id")
	if _, err := primitive.ObjectIDFromHex(recipeID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid recipe ID")
	}

	recipe, err := h.recipeRepository.GetRecipeByID(c.Request().Context(), recipeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Recipe not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{
		"recipe":         recipe,
		"average_rating": recipe.AverageRating(),
	}})
}

// UpdateRecipe updates a recipe. Only the author may update.
func (h *RecipeHandler) UpdateRecipe(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	recipeID := c.Param("id")
	if _, err := primitive.ObjectIDFromHex(recipeID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid recipe ID")
	}

	recipe, err := h.recipeRepository.GetRecipeByID(c.Request().Context(), recipeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Recipe not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if recipe.UserID.Hex() != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the author can update this recipe")
	}

	var req models.UpdateRecipeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updated, err := h.recipeRepository.UpdateRecipe(c.Request().Context(), recipeID, &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteRecipe deletes a recipe. Only the author may delete.
func (h *RecipeHandler) DeleteRecipe(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	recipeID := c.Param("id")
	if _, err := primitive.ObjectIDFromHex(recipeID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid recipe ID")
	}

	recipe, err := h.recipeRepository.GetRecipeByID(c.Request().Context(), recipeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Recipe not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if recipe.UserID.Hex() != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the author can delete this recipe")
	}

	if err := h.recipeRepository.DeleteRecipe(c.Request().Context(), recipeID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
