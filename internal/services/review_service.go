package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/anonto42/neighborly/backend/internal/models"
	"github.com/anonto42/neighborly/backend/internal/repositories"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const reviewListLimit = 50

// ReviewService records reviews and keeps profile ratings in step with them
type ReviewService struct {
	bookings repositories.BookingRepository
	reviews  repositories.ReviewRepository
	logger   *slog.Logger
}

func NewReviewService(bookings repositories.BookingRepository, reviews repositories.ReviewRepository, logger *slog.Logger) *ReviewService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewService{bookings: bookings, reviews: reviews, logger: logger}
}

// ReviewResult is a stored review and the reviewee's refreshed profile
type ReviewResult struct {
	Review   *models.Review  `json:"review"`
	Reviewee *models.Profile `json:"reviewee"`
}

// Submit stores a review by one participant of a completed booking about the
// other participant and recomputes the reviewee's aggregate rating.
func (s *ReviewService) Submit(ctx context.Context, sess Session, bookingID uuid.UUID, in models.CreateReviewRequest) (*ReviewResult, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, validationf("rating must be between 1 and 5")
	}

	b, err := s.bookings.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, storeErr("booking", err)
	}
	if !b.IsParticipant(sess.UserID) {
		return nil, forbiddenf("only booking participants can leave a review")
	}
	if b.Status != models.BookingCompleted {
		return nil, validationf("booking must be completed before it can be reviewed")
	}

	_, err = s.reviews.GetReviewByBookingAndReviewer(ctx, b.ID, sess.UserID)
	if err == nil {
		return nil, conflictf("you have already reviewed this booking")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeErr("review", err)
	}

	review := &models.Review{
		BookingID:  b.ID,
		ReviewerID: sess.UserID,
		RevieweeID: revieweeFor(b, sess.UserID),
		Rating:     in.Rating,
		Comment:    in.Comment,
	}
	profile, err := s.reviews.CreateReviewAndRefreshRating(ctx, review)
	if err != nil {
		return nil, storeErr("review", err)
	}

	s.logger.Info("review submitted",
		slog.String("booking_id", b.ID.String()),
		slog.String("reviewee_id", review.RevieweeID.String()),
		slog.Float64("rating", profile.Rating),
		slog.Int("total_reviews", profile.TotalReviews))
	return &ReviewResult{Review: review, Reviewee: profile}, nil
}

// ListForProfile returns the reviews a member has received, newest first
func (s *ReviewService) ListForProfile(ctx context.Context, profileID uuid.UUID) ([]models.Review, error) {
	reviews, err := s.reviews.GetReviewsByReviewee(ctx, profileID, reviewListLimit)
	if err != nil {
		return nil, storeErr("reviews", err)
	}
	return reviews, nil
}

// revieweeFor picks the other participant of a booking
func revieweeFor(b *models.Booking, reviewerID uuid.UUID) uuid.UUID {
	if reviewerID == b.RequesterID {
		return b.HelperID
	}
	return b.RequesterID
}
