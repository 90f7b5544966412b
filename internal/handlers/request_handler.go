package handlers

import (
	"net/http"

	"github.com/anonto42/neighborly/backend/internal/models"
	"github.com/anonto42/neighborly/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// RequestHandler handles HTTP requests for posted help requests
type RequestHandler struct {
	requests *services.RequestService
	bookings *services.BookingService
}

// NewRequestHandler creates a new RequestHandler
func NewRequestHandler(requests *services.RequestService, bookings *services.BookingService) *RequestHandler {
	return &RequestHandler{requests: requests, bookings: bookings}
}

// RegisterRequestRoutes registers request routes
func (h *RequestHandler) RegisterRequestRoutes(g *echo.Group) {
	g.POST("/requests", h.CreateRequest)
	g.GET("/requests", h.BrowseRequests)
	g.GET("/requests/mine", h.GetMyRequests)
	g.GET("/requests/:id", h.GetRequest)
	g.PUT("/requests/:id/status", h.UpdateRequestStatus)
	g.GET("/requests/:id/application", h.GetMyApplication)
	g.POST("/requests/:id/apply", h.Apply)
	g.GET("/stats", h.GetStats)
}

// requestView adds display fields to a request
type requestView struct {
	models.Request
	BudgetLabel    string   `json:"budget_label"`
	SuggestedPrice *float64 `json:"suggested_price,omitempty"`
}

func toRequestView(r models.Request) requestView {
	return requestView{
		Request:        r,
		BudgetLabel:    services.FormatBudget(r.BudgetMin, r.BudgetMax),
		SuggestedPrice: services.SuggestedPrice(&r),
	}
}

func toRequestViews(reqs []models.Request) []requestView {
	views := make([]requestView, len(reqs))
	for i := range reqs {
		views[i] = toRequestView(reqs[i])
	}
	return views
}

// CreateRequest posts a new request for help
func (h *RequestHandler) CreateRequest(c echo.Context) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}

	var req models.CreateRequestRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	created, err := h.requests.Create(c.Request().Context(), sess, req)
	if err != nil {
		return httpError(c, err)
	}
	return respond(c, http.StatusCreated, toRequestView(*created))
}

// BrowseRequests lists open requests with optional skill, urgency and search filters
func (h *RequestHandler) BrowseRequests(c echo.Context) error {
	page, limit := pageParams(c, 20, 50)
	filter := models.RequestFilter{
		Skill:   c.QueryParam("skill"),
		Urgency: c.QueryParam("urgency"),
		Search:  c.QueryParam("search"),
		Page:    page,
		Limit:   limit,
	}

	reqs, total, err := h.requests.Browse(c.Request().Context(), filter)
	if err != nil {
		return httpError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"requests": toRequestViews(reqs),
		},
		"meta": paginationMeta(page, limit, total),
	})
}

func (h *RequestHandler) GetMyRequests(c echo.Context) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	reqs, err := h.requests.ListMine(c.Request().Context(), sess)
	if err != nil {
		return httpError(c, err)
	}
	return respond(c, http.StatusOK, echo.Map{"requests": toRequestViews(reqs)})
}

func (h *RequestHandler) GetRequest(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	req, err := h.requests.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(c, err)
	}
	return respond(c, http.StatusOK, toRequestView(*req))
}

// UpdateRequestStatus lets the requester close, complete or reopen a request
func (h *RequestHandler) UpdateRequestStatus(c echo.Context) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateRequestStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := h.requests.UpdateStatus(c.Request().Context(), sess, id, models.RequestStatus(req.Status))
	if err != nil {
		return httpError(c, err)
	}
	return respond(c, http.StatusOK, toRequestView(*updated))
}

// GetMyApplication returns the caller's booking on a request, if any
func (h *RequestHandler) GetMyApplication(c echo.Context) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	booking, err := h.bookings.ApplicationFor(c.Request().Context(), sess, id)
	if err != nil {
		return httpError(c, err)
	}
	return respond(c, http.StatusOK, echo.Map{"applied": booking != nil, "booking": booking})
}

// Apply creates a pending booking on the request for the caller
func (h *RequestHandler) Apply(c echo.Context) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req models.ApplyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	booking, err := h.bookings.Apply(c.Request().Context(), sess, id, req)
	if err != nil {
		return httpError(c, err)
	}
	return respond(c, http.StatusCreated, booking)
}

// GetStats returns the marketplace counters
func (h *RequestHandler) GetStats(c echo.Context) error {
	stats, err := h.requests.Stats(c.Request().Context())
	if err != nil {
		return httpError(c, err)
	}
	return respond(c, http.StatusOK, stats)
}
