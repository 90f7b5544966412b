package services

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/anonto42/neighborly/backend/internal/models"
	"github.com/anonto42/neighborly/backend/internal/repositories"
	"github.com/google/uuid"
)

const (
	defaultBrowseLimit = 20
	maxBrowseLimit     = 50
	myRequestsLimit    = 50
)

var requestTransitions = map[models.RequestStatus][]models.RequestStatus{
	models.RequestOpen:   {models.RequestClosed, models.RequestCompleted},
	models.RequestClosed: {models.RequestOpen},
}

// RequestService manages posted requests
type RequestService struct {
	requests repositories.RequestRepository
	bookings repositories.BookingRepository
	profiles repositories.ProfileRepository
	logger   *slog.Logger
}

func NewRequestService(requests repositories.RequestRepository, bookings repositories.BookingRepository, profiles repositories.ProfileRepository, logger *slog.Logger) *RequestService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RequestService{requests: requests, bookings: bookings, profiles: profiles, logger: logger}
}

// Stats are the marketplace counters shown on the landing page
type Stats struct {
	Members           int64 `json:"members"`
	Requests          int64 `json:"requests"`
	CompletedBookings int64 `json:"completed_bookings"`
}

func (s *RequestService) Create(ctx context.Context, sess Session, in models.CreateRequestRequest) (*models.Request, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	skill := strings.TrimSpace(in.SkillNeeded)
	if title == "" || description == "" || skill == "" {
		return nil, validationf("title, description and skill_needed are required")
	}
	if (in.BudgetMin != nil && *in.BudgetMin < 0) || (in.BudgetMax != nil && *in.BudgetMax < 0) {
		return nil, validationf("budget must not be negative")
	}
	if in.BudgetMin != nil && in.BudgetMax != nil && *in.BudgetMin > *in.BudgetMax {
		return nil, validationf("budget_min must not exceed budget_max")
	}

	urgency := models.UrgencyMedium
	if in.Urgency != "" {
		urgency = models.Urgency(in.Urgency)
		switch urgency {
		case models.UrgencyLow, models.UrgencyMedium, models.UrgencyHigh, models.UrgencyUrgent:
		default:
			return nil, validationf("unknown urgency %q", in.Urgency)
		}
	}

	req := &models.Request{
		RequesterID: sess.UserID,
		Title:       title,
		Description: description,
		SkillNeeded: skill,
		Location:    in.Location,
		BudgetMin:   in.BudgetMin,
		BudgetMax:   in.BudgetMax,
		Urgency:     urgency,
		Status:      models.RequestOpen,
	}
	if err := s.requests.CreateRequest(ctx, req); err != nil {
		return nil, storeErr("request", err)
	}

	s.logger.Info("request created",
		slog.String("request_id", req.ID.String()),
		slog.String("skill", req.SkillNeeded))
	return req, nil
}

func (s *RequestService) Get(ctx context.Context, id uuid.UUID) (*models.Request, error) {
	req, err := s.requests.GetRequestByID(ctx, id)
	if err != nil {
		return nil, storeErr("request", err)
	}
	return req, nil
}

// Browse lists open requests with optional filters, newest first
func (s *RequestService) Browse(ctx context.Context, filter models.RequestFilter) ([]models.Request, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > maxBrowseLimit {
		filter.Limit = defaultBrowseLimit
	}
	filter.Skill = strings.TrimSpace(filter.Skill)
	filter.Search = strings.TrimSpace(filter.Search)

	reqs, total, err := s.requests.GetOpenRequests(ctx, filter)
	if err != nil {
		return nil, 0, storeErr("requests", err)
	}
	return reqs, total, nil
}

func (s *RequestService) ListMine(ctx context.Context, sess Session) ([]models.Request, error) {
	reqs, err := s.requests.GetRequestsByRequester(ctx, sess.UserID, myRequestsLimit)
	if err != nil {
		return nil, storeErr("requests", err)
	}
	return reqs, nil
}

// UpdateStatus lets a requester close, complete or reopen their own request
func (s *RequestService) UpdateStatus(ctx context.Context, sess Session, id uuid.UUID, to models.RequestStatus) (*models.Request, error) {
	req, err := s.requests.GetRequestByID(ctx, id)
	if err != nil {
		return nil, storeErr("request", err)
	}
	if req.RequesterID != sess.UserID {
		return nil, forbiddenf("only the requester can change this request")
	}

	allowed := false
	for _, st := range requestTransitions[req.Status] {
		if st == to {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, validationf("cannot move request from %s to %s", req.Status, to)
	}

	if err := s.requests.UpdateRequestStatus(ctx, id, to); err != nil {
		return nil, storeErr("request", err)
	}
	req.Status = to
	return req, nil
}

func (s *RequestService) Stats(ctx context.Context) (*Stats, error) {
	members, err := s.profiles.CountProfiles(ctx)
	if err != nil {
		return nil, storeErr("profiles", err)
	}
	requests, err := s.requests.CountRequests(ctx)
	if err != nil {
		return nil, storeErr("requests", err)
	}
	completed, err := s.bookings.CountBookingsByStatus(ctx, models.BookingCompleted)
	if err != nil {
		return nil, storeErr("bookings", err)
	}
	return &Stats{Members: members, Requests: requests, CompletedBookings: completed}, nil
}

// FormatBudget renders a budget range for display. A zero bound counts as unset.
func FormatBudget(min, max *float64) string {
	hasMin := min != nil && *min != 0
	hasMax := max != nil && *max != 0
	switch {
	case hasMin && hasMax:
		return "$" + formatAmount(*min) + " - $" + formatAmount(*max)
	case hasMin:
		return "$" + formatAmount(*min) + "+"
	case hasMax:
		return "Up to $" + formatAmount(*max)
	default:
		return "Budget not specified"
	}
}

// SuggestedPrice is the midpoint of a request's budget, or whichever bound
// is set. It is nil when no budget was given.
func SuggestedPrice(req *models.Request) *float64 {
	var p float64
	switch {
	case req.BudgetMin != nil && req.BudgetMax != nil:
		p = (*req.BudgetMin + *req.BudgetMax) / 2
	case req.BudgetMin != nil:
		p = *req.BudgetMin
	case req.BudgetMax != nil:
		p = *req.BudgetMax
	default:
		return nil
	}
	return &p
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
