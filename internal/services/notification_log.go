package services

import (
	"errors"

	"github.com/arifdev/recipely/backend/internal/models"
	"github.com/arifdev/recipely/backend/internal/repositories"
)

// NotificationLog creates and reads persisted notification records.
// Recording is invoked by the gateway after a successful mutation; it is
// never on the critical path of that mutation.
type NotificationLog struct {
	repo repositories.NotificationRepository
}

// NewNotificationLog creates a new NotificationLog
func NewNotificationLog(repo repositories.NotificationRepository) *NotificationLog {
	return &NotificationLog{repo: repo}
}

// Record persists a notification describing "actor did kind to recipient".
// A user acting on their own resource never notifies itself: when actor
// and recipient match, Record returns (nil, nil) and writes nothing.
func (l *NotificationLog) Record(kind, actorID, recipientID, recipeID, content string) (*models.Notification, error) {
	if actorID == recipientID {
		return nil, nil
	}

	notification := &models.Notification{
		Type:        kind,
		ActorID:     actorID,
		RecipientID: recipientID,
		RecipeID:    recipeID,
		Content:     content,
	}
	if err := l.repo.CreateNotification(notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// MarkRead marks a notification read. Only the recipient may mark their
// own notification; any other requester gets ErrForbidden.
func (l *NotificationLog) MarkRead(notificationID uint, requesterID string) (*models.Notification, error) {
	notification, err := l.repo.GetNotificationByID(notificationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	if notification.RecipientID != requesterID {
		return nil, ErrForbidden
	}

	if err := l.repo.MarkAsRead(notificationID); err != nil {
		return nil, err
	}
	notification.IsRead = true
	return notification, nil
}

// ListForRecipient returns a recipient's notifications, newest first
func (l *NotificationLog) ListForRecipient(recipientID string, page, limit int) ([]models.Notification, int64, error) {
	return l.repo.GetByRecipientID(recipientID, page, limit)
}

// UnreadCount returns the recipient's unread notification count
func (l *NotificationLog) UnreadCount(recipientID string) (int64, error) {
	return l.repo.GetUnreadCount(recipientID)
}

// PurgeForRecipient deletes all of the recipient's notifications
func (l *NotificationLog) PurgeForRecipient(recipientID string) error {
	return l.repo.DeleteAllForRecipient(recipientID)
}
