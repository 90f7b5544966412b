package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is left by one participant of a completed booking about the other
type Review struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	BookingID  uuid.UUID `json:"booking_id" gorm:"type:uuid;uniqueIndex:idx_review_booking_reviewer"`
	ReviewerID uuid.UUID `json:"reviewer_id" gorm:"type:uuid;uniqueIndex:idx_review_booking_reviewer"`
	Reviewer   *Profile  `json:"reviewer,omitempty" gorm:"foreignKey:ReviewerID"`
	RevieweeID uuid.UUID `json:"reviewee_id" gorm:"type:uuid;index"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type CreateReviewRequest struct {
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

// AverageRating returns the unweighted mean of ratings and their count.
// An empty slice yields (0, 0).
func AverageRating(ratings []int) (float64, int) {
	if len(ratings) == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings)), len(ratings)
}
