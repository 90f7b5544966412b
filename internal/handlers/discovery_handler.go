package handlers

import (
	"net/http"

	"github.com/anonto42/neighborly/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// DiscoveryHandler serves the discover page
type DiscoveryHandler struct {
	discovery *services.DiscoveryService
}

// NewDiscoveryHandler creates a new DiscoveryHandler
func NewDiscoveryHandler(discovery *services.DiscoveryService) *DiscoveryHandler {
	return &DiscoveryHandler{discovery: discovery}
}

// RegisterDiscoveryRoutes registers discovery routes
func (h *DiscoveryHandler) RegisterDiscoveryRoutes(g *echo.Group) {
	g.GET("/discover/matching", h.GetMatchingRequests)
	g.GET("/discover/trending", h.GetTrendingSkills)
	g.GET("/discover/members", h.GetRecentMembers)
}

// GetMatchingRequests returns open requests that need one of the caller's skills
func (h *DiscoveryHandler) GetMatchingRequests(c echo.Context) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	reqs, err := h.discovery.MatchingRequests(c.Request().Context(), sess)
	if err != nil {
		return httpError(c, err)
	}
	return respond(c, http.StatusOK, echo.Map{"requests": toRequestViews(reqs)})
}

func (h *DiscoveryHandler) GetTrendingSkills(c echo.Context) error {
	trending, err := h.discovery.TrendingSkills(c.Request().Context())
	if err != nil {
		return httpError(c, err)
	}
	return respond(c, http.StatusOK, echo.Map{"skills": trending})
}

func (h *DiscoveryHandler) GetRecentMembers(c echo.Context) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	members, err := h.discovery.RecentMembers(c.Request().Context(), sess)
	if err != nil {
		return httpError(c, err)
	}
	return respond(c, http.StatusOK, echo.Map{"members": members})
}
