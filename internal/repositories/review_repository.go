package repositories

import (
	"context"

	"github.com/anonto42/neighborly/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewRepository defines the interface for review operations
type ReviewRepository interface {
	CreateReviewAndRefreshRating(ctx context.Context, review *models.Review) (*models.Profile, error)
	GetReviewByBookingAndReviewer(ctx context.Context, bookingID, reviewerID uuid.UUID) (*models.Review, error)
	GetReviewsByReviewee(ctx context.Context, revieweeID uuid.UUID, limit int) ([]models.Review, error)
	GetReviewsByBooking(ctx context.Context, bookingID uuid.UUID) ([]models.Review, error)
}

type postgresReviewRepository struct {
	db *gorm.DB
}

func NewPostgresReviewRepository(db *gorm.DB) ReviewRepository {
	return &postgresReviewRepository{db: db}
}

// CreateReviewAndRefreshRating inserts the review and recomputes the
// reviewee's rating and total_reviews from every review they have received.
// Both writes commit together or not at all.
func (r *postgresReviewRepository) CreateReviewAndRefreshRating(ctx context.Context, review *models.Review) (*models.Profile, error) {
	var profile models.Profile

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Reviewer").Create(review).Error; err != nil {
			return err
		}

		var ratings []int
		if err := tx.Model(&models.Review{}).
			Where("reviewee_id = ?", review.RevieweeID).
			Pluck("rating", &ratings).Error; err != nil {
			return err
		}

		avg, count := models.AverageRating(ratings)
		result := tx.Model(&models.Profile{}).
			Where("id = ?", review.RevieweeID).
			Updates(map[string]interface{}{"rating": avg, "total_reviews": count})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Where("id = ?", review.RevieweeID).First(&profile).Error
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *postgresReviewRepository) GetReviewByBookingAndReviewer(ctx context.Context, bookingID, reviewerID uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).Where("booking_id = ? AND reviewer_id = ?", bookingID, reviewerID).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *postgresReviewRepository) GetReviewsByReviewee(ctx context.Context, revieweeID uuid.UUID, limit int) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Preload("Reviewer").
		Where("reviewee_id = ?", revieweeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&reviews).Error
	return reviews, err
}

func (r *postgresReviewRepository) GetReviewsByBooking(ctx context.Context, bookingID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).Order("created_at ASC").Find(&reviews).Error
	return reviews, err
}
