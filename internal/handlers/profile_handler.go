package handlers

import (
	"net/http"

	"github.com/anonto42/neighborly/backend/internal/models"
	"github.com/anonto42/neighborly/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// ProfileHandler handles HTTP requests related to member profiles
type ProfileHandler struct {
	profiles *services.ProfileService
	skills   *services.SkillService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profiles *services.ProfileService, skills *services.SkillService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, skills: skills}
}

// RegisterProfileRoutes registers profile-related routes
func (h *ProfileHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)    // Get own profile
	g.PUT("/profile", h.UpdateProfile) // Update own profile
	g.GET("/profiles/:id", h.GetMember)
}

// profileView is a profile with the skills it offers
type profileView struct {
	*models.Profile
	Skills []models.UserSkill `json:"skills"`
}

type ownProfileView struct {
	models.OwnProfile
	Skills []models.UserSkill `json:"skills"`
}

func (h *ProfileHandler) GetMember(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	profile, err := h.profiles.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(c, err)
	}
	return h.render(c, profile, false)
}

// GetProfile retrieves the authenticated user's profile
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	profile, err := h.profiles.Get(c.Request().Context(), sess.UserID)
	if err != nil {
		return httpError(c, err)
	}
	return h.render(c, profile, true)
}

// UpdateProfile updates the authenticated user's profile
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}

	var req models.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	profile, err := h.profiles.Update(c.Request().Context(), sess, req)
	if err != nil {
		return httpError(c, err)
	}
	return respond(c, http.StatusOK, profile.Own())
}

// render shows contact details only when own is set
func (h *ProfileHandler) render(c echo.Context, profile *models.Profile, own bool) error {
	skills, err := h.skills.ListForUser(c.Request().Context(), profile.ID)
	if err != nil {
		return httpError(c, err)
	}
	if own {
		return respond(c, http.StatusOK, ownProfileView{OwnProfile: profile.Own(), Skills: skills})
	}
	return respond(c, http.StatusOK, profileView{Profile: profile, Skills: skills})
}
