package handlers

import (
	"net/http"

	"github.com/anonto42/neighborly/backend/internal/models"
	"github.com/anonto42/neighborly/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// ReviewHandler handles review submission and listing
type ReviewHandler struct {
	reviews *services.ReviewService
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviews *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// RegisterReviewRoutes registers review routes
func (h *ReviewHandler) RegisterReviewRoutes(g *echo.Group) {
	g.POST("/bookings/:id/reviews", h.SubmitReview)
	g.GET("/profiles/:id/reviews", h.GetProfileReviews)
}

// SubmitReview reviews the other participant of a completed booking
func (h *ReviewHandler) SubmitReview(c echo.Context) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	bookingID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req models.CreateReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.reviews.Submit(c.Request().Context(), sess, bookingID, req)
	if err != nil {
		return httpError(c, err)
	}
	return respond(c, http.StatusCreated, result)
}

func (h *ReviewHandler) GetProfileReviews(c echo.Context) error {
	profileID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	reviews, err := h.reviews.ListForProfile(c.Request().Context(), profileID)
	if err != nil {
		return httpError(c, err)
	}
	return respond(c, http.StatusOK, echo.Map{"reviews": reviews})
}
