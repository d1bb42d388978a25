package handlers

import (
	"net/http"

	"github.com/arifdev/recipely/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	gateway *services.InteractionGateway
	graph   *services.GraphStore
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(gateway *services.InteractionGateway, graph *services.GraphStore) *FollowHandler {
	return &FollowHandler{gateway: gateway, graph: graph}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.PUT("/users/:id/follow", h.FollowUser)
	g.PUT("/users/:id/unfollow", h.UnfollowUser)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
}

// FollowUser follows a user
func (h *FollowHandler) FollowUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID := c.Param("id")
	if _, err := primitive.ObjectIDFromHex(targetID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	res, err := h.gateway.Follow(c.Request().Context(), currentUserID, targetID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{
		"following":        true,
		"actor_following":  res.ActorFollowing,
		"target_followers": res.TargetFollowers,
	}})
}

// UnfollowUser unfollows a user
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID := c.Param("id")
	if _, err := primitive.ObjectIDFromHex(targetID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	res, err := h.gateway.Unfollow(c.Request().Context(), currentUserID, targetID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{
		"following":        false,
		"actor_following":  res.ActorFollowing,
		"target_followers": res.TargetFollowers,
	}})
}

// GetFollowers lists the users following the given user
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	userID := c.Param("id")
	if _, err := primitive.ObjectIDFromHex(userID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	users, err := h.graph.Followers(c.Request().Context(), userID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"followers": toCompactList(users)}})
}

// GetFollowing lists the users the given user follows
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	userID := c.Param("id")
	if _, err := primitive.ObjectIDFromHex(userID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	users, err := h.graph.Following(c.Request().Context(), userID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": toCompactList(users)}})
}
