package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anonto42/neighborly/backend/internal/models"
	"github.com/anonto42/neighborly/backend/internal/repositories"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notifier delivers a notification to a single user
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, typ models.NotificationType, title, message string, relatedID *uuid.UUID)
}

// BookingService owns the booking lifecycle: applying to requests and moving
// bookings between statuses on behalf of their participants.
type BookingService struct {
	requests repositories.RequestRepository
	bookings repositories.BookingRepository
	profiles repositories.ProfileRepository
	reviews  repositories.ReviewRepository
	events   repositories.BookingEventRepository
	notifier Notifier
	logger   *slog.Logger
}

// NewBookingService wires the lifecycle. events may be nil, in which case no
// history is kept.
func NewBookingService(
	requests repositories.RequestRepository,
	bookings repositories.BookingRepository,
	profiles repositories.ProfileRepository,
	reviews repositories.ReviewRepository,
	events repositories.BookingEventRepository,
	notifier Notifier,
	logger *slog.Logger,
) *BookingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BookingService{
		requests: requests,
		bookings: bookings,
		profiles: profiles,
		reviews:  reviews,
		events:   events,
		notifier: notifier,
		logger:   logger,
	}
}

// BookingDetail is a booking as its participants see it, with the reviews
// left on it so far
type BookingDetail struct {
	*models.Booking
	Reviews []models.Review `json:"reviews"`
	// ReviewedByMe is true once the caller has reviewed this booking
	ReviewedByMe bool `json:"reviewed_by_me"`
	// CanReview is true while the booking is completed and the caller has not reviewed it
	CanReview bool `json:"can_review"`
}

// BookingLists splits a member's bookings by the role they play in them
type BookingLists struct {
	AsHelper    []models.Booking `json:"as_helper"`
	AsRequester []models.Booking `json:"as_requester"`
}

// Apply creates a pending booking for the caller on an open request
func (s *BookingService) Apply(ctx context.Context, sess Session, requestID uuid.UUID, in models.ApplyRequest) (*models.Booking, error) {
	req, err := s.requests.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, storeErr("request", err)
	}
	if req.Status != models.RequestOpen {
		return nil, validationf("request is %s and no longer accepts applications", req.Status)
	}
	if req.RequesterID == sess.UserID {
		return nil, forbiddenf("cannot apply to your own request")
	}
	if in.AgreedPrice != nil && *in.AgreedPrice < 0 {
		return nil, validationf("agreed_price must not be negative")
	}

	existing, err := s.bookings.GetBookingByRequestAndHelper(ctx, requestID, sess.UserID)
	if err == nil && existing != nil {
		return nil, conflictf("you have already applied to this request")
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeErr("booking", err)
	}

	booking := &models.Booking{
		RequestID:   req.ID,
		HelperID:    sess.UserID,
		RequesterID: req.RequesterID,
		AgreedPrice: in.AgreedPrice,
		Notes:       in.Notes,
		Status:      models.BookingPending,
	}
	if err := s.bookings.CreateBooking(ctx, booking); err != nil {
		return nil, storeErr("booking", err)
	}

	s.notifier.Notify(ctx, req.RequesterID, models.NotificationBookingRequest,
		"New booking request",
		fmt.Sprintf("%s applied to help with %q", s.displayName(ctx, sess.UserID), req.Title),
		&booking.ID)
	s.recordEvent(ctx, booking.ID, sess.UserID, "", models.BookingPending, nil)

	s.logger.Info("booking created",
		slog.String("booking_id", booking.ID.String()),
		slog.String("request_id", req.ID.String()),
		slog.String("helper_id", sess.UserID.String()))
	return booking, nil
}

// SetStatus moves a booking to a new status. The write only lands if the
// booking is still in the status that was read; otherwise ErrConflict.
func (s *BookingService) SetStatus(ctx context.Context, sess Session, bookingID uuid.UUID, to models.BookingStatus, scheduledDate *time.Time) (*models.Booking, error) {
	b, err := s.bookings.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, storeErr("booking", err)
	}
	if !b.IsParticipant(sess.UserID) {
		return nil, forbiddenf("not a participant of this booking")
	}
	if !CanTransition(b.Status, to) {
		return nil, validationf("cannot move booking from %s to %s", b.Status, to)
	}
	if err := authorizeTransition(b.RequesterID == sess.UserID, to); err != nil {
		return nil, err
	}
	if scheduledDate != nil && to != models.BookingAccepted {
		return nil, validationf("scheduled_date can only be set when accepting")
	}

	ok, err := s.bookings.UpdateBookingStatus(ctx, b.ID, b.Status, to, scheduledDate)
	if err != nil {
		return nil, storeErr("booking", err)
	}
	if !ok {
		return nil, conflictf("booking was modified concurrently, reload and retry")
	}

	updated, err := s.bookings.GetBookingWithDetails(ctx, b.ID)
	if err != nil {
		return nil, storeErr("booking", err)
	}

	switch to {
	case models.BookingAccepted:
		s.notifier.Notify(ctx, b.HelperID, models.NotificationBookingAccepted,
			"Booking accepted",
			fmt.Sprintf("Your application for %q was accepted", requestTitle(updated)),
			&b.ID)
	case models.BookingDeclined:
		s.notifier.Notify(ctx, b.HelperID, models.NotificationBookingDeclined,
			"Booking declined",
			fmt.Sprintf("Your application for %q was declined", requestTitle(updated)),
			&b.ID)
	}
	s.recordEvent(ctx, b.ID, sess.UserID, b.Status, to, scheduledDate)

	s.logger.Info("booking status changed",
		slog.String("booking_id", b.ID.String()),
		slog.String("from", string(b.Status)),
		slog.String("to", string(to)),
		slog.String("actor_id", sess.UserID.String()))
	return updated, nil
}

// Cancel is SetStatus to cancelled
func (s *BookingService) Cancel(ctx context.Context, sess Session, bookingID uuid.UUID) (*models.Booking, error) {
	return s.SetStatus(ctx, sess, bookingID, models.BookingCancelled, nil)
}

// Get returns a booking with its request, participants and reviews. Only
// participants may read it.
func (s *BookingService) Get(ctx context.Context, sess Session, bookingID uuid.UUID) (*BookingDetail, error) {
	b, err := s.bookings.GetBookingWithDetails(ctx, bookingID)
	if err != nil {
		return nil, storeErr("booking", err)
	}
	if !b.IsParticipant(sess.UserID) {
		return nil, forbiddenf("not a participant of this booking")
	}

	reviews, err := s.reviews.GetReviewsByBooking(ctx, b.ID)
	if err != nil {
		return nil, storeErr("reviews", err)
	}
	detail := &BookingDetail{Booking: b, Reviews: reviews}
	for _, r := range reviews {
		if r.ReviewerID == sess.UserID {
			detail.ReviewedByMe = true
		}
	}
	detail.CanReview = b.Status == models.BookingCompleted && !detail.ReviewedByMe
	return detail, nil
}

func (s *BookingService) ListForUser(ctx context.Context, sess Session) (*BookingLists, error) {
	asHelper, err := s.bookings.GetBookingsByHelper(ctx, sess.UserID)
	if err != nil {
		return nil, storeErr("bookings", err)
	}
	asRequester, err := s.bookings.GetBookingsByRequester(ctx, sess.UserID)
	if err != nil {
		return nil, storeErr("bookings", err)
	}
	return &BookingLists{AsHelper: asHelper, AsRequester: asRequester}, nil
}

// ApplicationFor returns the caller's booking on a request, or nil if they
// have not applied.
func (s *BookingService) ApplicationFor(ctx context.Context, sess Session, requestID uuid.UUID) (*models.Booking, error) {
	b, err := s.bookings.GetBookingByRequestAndHelper(ctx, requestID, sess.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("booking", err)
	}
	return b, nil
}

// History returns the recorded transitions of a booking, oldest first
func (s *BookingService) History(ctx context.Context, sess Session, bookingID uuid.UUID) ([]models.BookingEvent, error) {
	b, err := s.bookings.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, storeErr("booking", err)
	}
	if !b.IsParticipant(sess.UserID) {
		return nil, forbiddenf("not a participant of this booking")
	}
	if s.events == nil {
		return []models.BookingEvent{}, nil
	}
	events, err := s.events.GetEventsByBookingID(ctx, b.ID.String())
	if err != nil {
		return nil, fmt.Errorf("%w: booking history: %w", ErrStore, err)
	}
	return events, nil
}

func (s *BookingService) recordEvent(ctx context.Context, bookingID, actorID uuid.UUID, from, to models.BookingStatus, scheduledDate *time.Time) {
	if s.events == nil {
		return
	}
	ev := &models.BookingEvent{
		BookingID:     bookingID.String(),
		ActorID:       actorID.String(),
		FromStatus:    from,
		ToStatus:      to,
		ScheduledDate: scheduledDate,
	}
	if err := s.events.RecordEvent(ctx, ev); err != nil {
		s.logger.Warn("failed to record booking event",
			slog.String("booking_id", bookingID.String()),
			slog.Any("err", err))
	}
}

func (s *BookingService) displayName(ctx context.Context, userID uuid.UUID) string {
	p, err := s.profiles.GetProfileByID(ctx, userID)
	if err != nil || p.DisplayName == "" {
		return "Someone"
	}
	return p.DisplayName
}

func requestTitle(b *models.Booking) string {
	if b.Request == nil {
		return "your request"
	}
	return b.Request.Title
}
