package handlers

import (
	"net/http"

	"github.com/anonto42/neighborly/backend/internal/models"
	"github.com/anonto42/neighborly/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// BookingHandler handles HTTP requests related to bookings
type BookingHandler struct {
	bookings *services.BookingService
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookings *services.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// RegisterBookingRoutes registers booking-related routes
func (h *BookingHandler) RegisterBookingRoutes(g *echo.Group) {
	g.GET("/bookings", h.GetMyBookings)
	g.GET("/bookings/:id", h.GetBooking)
	g.PUT("/bookings/:id/status", h.UpdateBookingStatus)
	g.POST("/bookings/:id/cancel", h.CancelBooking)
	g.GET("/bookings/:id/history", h.GetBookingHistory)
}

// GetMyBookings returns the caller's bookings split by role
func (h *BookingHandler) GetMyBookings(c echo.Context) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	lists, err := h.bookings.ListForUser(c.Request().Context(), sess)
	if err != nil {
		return httpError(c, err)
	}
	return respond(c, http.StatusOK, lists)
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	booking, err := h.bookings.Get(c.Request().Context(), sess, id)
	if err != nil {
		return httpError(c, err)
	}
	return respond(c, http.StatusOK, booking)
}

// UpdateBookingStatus accepts, declines, completes or cancels a booking
func (h *BookingHandler) UpdateBookingStatus(c echo.Context) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateBookingStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	status, ok := services.ParseBookingStatus(req.Status)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown status")
	}

	booking, err := h.bookings.SetStatus(c.Request().Context(), sess, id, status, req.ScheduledDate)
	if err != nil {
		return httpError(c, err)
	}
	return respond(c, http.StatusOK, booking)
}

func (h *BookingHandler) CancelBooking(c echo.Context) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	booking, err := h.bookings.Cancel(c.Request().Context(), sess, id)
	if err != nil {
		return httpError(c, err)
	}
	return respond(c, http.StatusOK, booking)
}

func (h *BookingHandler) GetBookingHistory(c echo.Context) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	events, err := h.bookings.History(c.Request().Context(), sess, id)
	if err != nil {
		return httpError(c, err)
	}
	return respond(c, http.StatusOK, echo.Map{"events": events})
}
