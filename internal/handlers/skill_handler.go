package handlers

import (
	"net/http"

	"github.com/anonto42/neighborly/backend/internal/models"
	"github.com/anonto42/neighborly/backend/internal/services"
	"github.com/labstack/echo/v4"
)

type SkillHandler struct {
	skills *services.SkillService
}

func NewSkillHandler(skills *services.SkillService) *SkillHandler {
	return &SkillHandler{skills: skills}
}

func (h *SkillHandler) RegisterSkillRoutes(g *echo.Group) {
	g.GET("/skills", h.ListSkills)
	g.GET("/me/skills", h.ListMySkills)
	g.POST("/me/skills", h.AddSkill)
	g.DELETE("/me/skills/:id", h.RemoveSkill)
}

// ListSkills returns the catalogue, flat and grouped by category
func (h *SkillHandler) ListSkills(c echo.Context) error {
	skills, err := h.skills.List(c.Request().Context())
	if err != nil {
		return httpError(c, err)
	}
	return respond(c, http.StatusOK, echo.Map{
		"skills":     skills,
		"categories": services.GroupByCategory(skills),
	})
}

func (h *SkillHandler) ListMySkills(c echo.Context) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	skills, err := h.skills.ListForUser(c.Request().Context(), sess.UserID)
	if err != nil {
		return httpError(c, err)
	}
	return respond(c, http.StatusOK, echo.Map{"skills": skills})
}

func (h *SkillHandler) AddSkill(c echo.Context) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}

	var req models.AddUserSkillRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	us, err := h.skills.Add(c.Request().Context(), sess, req)
	if err != nil {
		return httpError(c, err)
	}
	return respond(c, http.StatusCreated, us)
}

func (h *SkillHandler) RemoveSkill(c echo.Context) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.skills.Remove(c.Request().Context(), sess, id); err != nil {
		return httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
