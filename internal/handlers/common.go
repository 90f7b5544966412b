package handlers

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/anonto42/neighborly/backend/internal/middleware"
	"github.com/anonto42/neighborly/backend/internal/models"
	"github.com/anonto42/neighborly/backend/internal/services"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// getSession returns the authenticated caller set by JWTAuthMiddleware
func getSession(c echo.Context) (services.Session, bool) {
	claims, ok := c.Get(middleware.UserClaimsKey).(*models.JwtCustomClaims)
	if !ok || claims == nil || claims.UserID == uuid.Nil {
		return services.Session{}, false
	}
	return services.Session{UserID: claims.UserID, Email: claims.Email}, true
}

func requireSession(c echo.Context) (services.Session, error) {
	sess, ok := getSession(c)
	if !ok {
		return services.Session{}, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return sess, nil
}

// httpError maps service errors onto HTTP status codes
func httpError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	slog.Error("request failed",
		slog.String("method", c.Request().Method),
		slog.String("path", c.Path()),
		slog.Any("err", err))
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
}

func parseUUIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

// bindAndValidate decodes the request body into req and runs tag validation
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

func pageParams(c echo.Context, defaultLimit, maxLimit int) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	return page, limit
}

func paginationMeta(page, limit int, total int64) echo.Map {
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return echo.Map{
		"currentPage":     page,
		"totalPages":      totalPages,
		"totalItems":      total,
		"itemsPerPage":    limit,
		"hasNextPage":     page < totalPages,
		"hasPreviousPage": page > 1,
	}
}

func respond(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}
