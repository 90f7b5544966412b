package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingAccepted  BookingStatus = "accepted"
	BookingDeclined  BookingStatus = "declined"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking is a helper's application to a request. A helper can hold at most
// one booking per request.
type Booking struct {
	ID            uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	RequestID     uuid.UUID     `json:"request_id" gorm:"type:uuid;uniqueIndex:idx_booking_request_helper"`
	Request       *Request      `json:"request,omitempty" gorm:"foreignKey:RequestID"`
	HelperID      uuid.UUID     `json:"helper_id" gorm:"type:uuid;uniqueIndex:idx_booking_request_helper;index"`
	Helper        *Profile      `json:"helper,omitempty" gorm:"foreignKey:HelperID"`
	RequesterID   uuid.UUID     `json:"requester_id" gorm:"type:uuid;index"`
	Requester     *Profile      `json:"requester,omitempty" gorm:"foreignKey:RequesterID"`
	AgreedPrice   *float64      `json:"agreed_price,omitempty"`
	Notes         *string       `json:"notes,omitempty"`
	Status        BookingStatus `json:"status" gorm:"size:20;default:'pending';index"`
	ScheduledDate *time.Time    `json:"scheduled_date,omitempty"`
	CreatedAt     time.Time     `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// IsParticipant reports whether userID is the helper or the requester
func (b *Booking) IsParticipant(userID uuid.UUID) bool {
	return b.HelperID == userID || b.RequesterID == userID
}

// ApplyRequest defines the request body for applying to a request
type ApplyRequest struct {
	AgreedPrice *float64 `json:"agreed_price,omitempty" validate:"omitempty,gte=0"`
	Notes       *string  `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// UpdateBookingStatusRequest defines the request body for moving a booking through its lifecycle
type UpdateBookingStatusRequest struct {
	Status        string     `json:"status" validate:"required,oneof=accepted declined completed cancelled"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
}
