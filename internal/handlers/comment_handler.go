package handlers

import (
	"net/http"

	"github.com/arifdev/recipely/backend/internal/models"
	"github.com/arifdev/recipely/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentHandler handles recipe comment HTTP requests
type CommentHandler struct {
	gateway *services.InteractionGateway
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(gateway *services.InteractionGateway) *CommentHandler {
	return &CommentHandler{gateway: gateway}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/recipes/:id/comments", h.CreateComment)
}

// CreateComment appends a comment to a recipe
func (h *CommentHandler) CreateComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	recipeID := c.Param("id")
	if _, err := primitive.ObjectIDFromHex(recipeID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid recipe ID")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.gateway.Comment(c.Request().Context(), currentUserID, recipeID, req.Text)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"comment": res.Comment}})
}
