package repositories

import (
	"fmt"

	"github.com/arifdev/recipely/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetNotificationByID(id uint) (*models.Notification, error)
	GetByRecipientID(recipientID string, page, limit int) ([]models.Notification, int64, error)
	GetUnreadCount(recipientID string) (int64, error)
	MarkAsRead(notificationID uint) error
	DeleteAllForRecipient(recipientID string) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a NotificationRepository backed by PostgreSQL
func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *postgresNotificationRepository) GetNotificationByID(id uint) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.First(&notification, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("notification %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &notification, nil
}

func (r *postgresNotificationRepository) GetByRecipientID(recipientID string, page, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	r.db.Model(&models.Notification{}).Where("recipient_id = ?", recipientID).Count(&total)

	offset := (page - 1) * limit
	err := r.db.Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error

	return notifications, total, err
}

func (r *postgresNotificationRepository) GetUnreadCount(recipientID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = false", recipientID).Count(&count).Error
	return count, err
}

func (r *postgresNotificationRepository) MarkAsRead(notificationID uint) error {
	return r.db.Model(&models.Notification{}).Where("id = ?", notificationID).Update("is_read", true).Error
}

func (r *postgresNotificationRepository) DeleteAllForRecipient(recipientID string) error {
	return r.db.Where("recipient_id = ?", recipientID).Delete(&models.Notification{}).Error
}
