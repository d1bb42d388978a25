package models

import "time"

// Notification kinds recorded by the notification log
const (
	NotificationTypeFollow  = "follow"
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
)

// Notification represents a persisted user notification (PostgreSQL).
// ActorID and RecipientID are MongoDB user ObjectIDs in hex form;
// RecipeID is set for like and comment notifications.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"size:30;index"`
	ActorID     string    `json:"actor_id" gorm:"size:24;index"`
	RecipientID string    `json:"recipient_id" gorm:"size:24;index"`
	RecipeID    string    `json:"recipe_id,omitempty" gorm:"size:24"`
	Content     string    `json:"content,omitempty" gorm:"size:500"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}
