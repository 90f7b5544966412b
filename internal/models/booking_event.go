package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingEvent records a single lifecycle transition (MongoDB)
type BookingEvent struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	BookingID     string             `json:"booking_id" bson:"booking_id"`
	ActorID       string             `json:"actor_id" bson:"actor_id"`
	FromStatus    BookingStatus      `json:"from_status,omitempty" bson:"from_status,omitempty"`
	ToStatus      BookingStatus      `json:"to_status" bson:"to_status"`
	ScheduledDate *time.Time         `json:"scheduled_date,omitempty" bson:"scheduled_date,omitempty"`
	OccurredAt    time.Time          `json:"occurred_at" bson:"occurred_at"`
}
