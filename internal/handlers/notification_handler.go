package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/arifdev/recipely/backend/internal/models"
	"github.com/arifdev/recipely/backend/internal/repositories"
	"github.com/arifdev/recipely/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notifications  *services.NotificationLog
	userRepository repositories.UserRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications *services.NotificationLog, userRepo repositories.UserRepository) *NotificationHandler {
	return &NotificationHandler{
		notifications:  notifications,
		userRepository: userRepo,
	}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.DELETE("/notifications", h.DeleteAllNotifications)
}

// EnrichedNotification includes actor info
type EnrichedNotification struct {
	models.Notification
	Actor models.UserCompact `json:"actor"`
}

func (h *NotificationHandler) enrichNotifications(c echo.Context, notifications []models.Notification) []EnrichedNotification {
	enriched := make([]EnrichedNotification, len(notifications))
	userCache := make(map[string]models.UserCompact)

	for i, n := range notifications {
		enriched[i] = EnrichedNotification{Notification: n}
		if actor, ok := userCache[n.ActorID]; ok {
			enriched[i].Actor = actor
		} else {
			user, err := h.userRepository.GetUserByID(c.Request().Context(), n.ActorID)
			if err == nil {
				compact := user.ToCompact()
				userCache[n.ActorID] = compact
				enriched[i].Actor = compact
			}
		}
	}
	return enriched
}

// GetNotifications returns the authenticated user's notifications,
// newest first, paginated
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	notifications, total, err := h.notifications.ListForRecipient(currentUserID, page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	enriched := h.enrichNotifications(c, notifications)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"notifications": enriched,
		},
		"meta": echo.Map{
			"currentPage":     page,
			"totalPages":      totalPages,
			"totalItems":      total,
			"itemsPerPage":    limit,
			"hasNextPage":     page < totalPages,
			"hasPreviousPage": page > 1,
		},
	})
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	count, err := h.notifications.UnreadCount(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"count": count}})
}

// MarkAsRead marks one of the caller's notifications as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	notifID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID")
	}

	notification, err := h.notifications.MarkRead(uint(notifID), currentUserID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"notification": notification}})
}

// DeleteAllNotifications purges all of the caller's notifications
func (h *NotificationHandler) DeleteAllNotifications(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.notifications.PurgeForRecipient(currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"deleted": true}})
}
