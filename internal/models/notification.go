package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationBookingRequest  NotificationType = "booking_request"
	NotificationBookingAccepted NotificationType = "booking_accepted"
	NotificationBookingDeclined NotificationType = "booking_declined"
	NotificationNewRequest      NotificationType = "new_request"
	NotificationProfileUpdate   NotificationType = "profile_update"
	NotificationOther           NotificationType = "other"
)

// Notification represents a user notification (PostgreSQL)
type Notification struct {
	ID        uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID        `json:"user_id" gorm:"type:uuid;index"`
	Type      NotificationType `json:"type" gorm:"size:30;index"`
	Title     string           `json:"title" gorm:"size:200"`
	Message   string           `json:"message"`
	RelatedID *uuid.UUID       `json:"related_id,omitempty" gorm:"type:uuid"` // booking or request id
	IsRead    bool             `json:"is_read" gorm:"default:false;index"`
	CreatedAt time.Time        `json:"created_at" gorm:"index"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
