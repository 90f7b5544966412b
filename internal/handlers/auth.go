package handlers

import (
	"net/http"
	"time"

	"github.com/anonto42/neighborly/backend/internal/middleware"
	"github.com/anonto42/neighborly/backend/internal/models"
	"github.com/anonto42/neighborly/backend/internal/services"
	"github.com/anonto42/neighborly/backend/pkg/firebase"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// AuthHandler turns an external identity into a local session token
type AuthHandler struct {
	profiles      *services.ProfileService
	verifier      middleware.TokenVerifier
	jwtSecret     string
	tokenDuration time.Duration
	allowDevLogin bool
}

// NewAuthHandler creates a new AuthHandler. verifier may be nil when Firebase
// is not configured.
func NewAuthHandler(profiles *services.ProfileService, verifier middleware.TokenVerifier, jwtSecret string, tokenDuration time.Duration, allowDevLogin bool) *AuthHandler {
	return &AuthHandler{
		profiles:      profiles,
		verifier:      verifier,
		jwtSecret:     jwtSecret,
		tokenDuration: tokenDuration,
		allowDevLogin: allowDevLogin,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	if h.verifier != nil {
		g.POST("/firebase-login", h.FirebaseLogin, middleware.FirebaseAuthMiddleware(h.verifier))
	}
	if h.allowDevLogin {
		g.POST("/token", h.DevLogin)
	}
}

// DevLoginRequest defines the request body for the development login
type DevLoginRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name" validate:"omitempty,max=100"`
}

// DevLogin issues a token for any email. Only mounted outside production.
func (h *AuthHandler) DevLogin(c echo.Context) error {
	var req DevLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.login(c, req.Email, req.DisplayName)
}

// FirebaseLogin exchanges a verified Firebase ID token for a local JWT
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	identity, ok := c.Get(middleware.FirebaseIdentityKey).(*firebase.Identity)
	if !ok || identity == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}
	return h.login(c, identity.Email, identity.Name)
}

func (h *AuthHandler) login(c echo.Context, email, name string) error {
	profile, err := h.profiles.Ensure(c.Request().Context(), email, name)
	if err != nil {
		return httpError(c, err)
	}

	token, err := h.generateJWT(profile)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, echo.Map{"token": token, "profile": profile.Own()})
}

// generateJWT generates a JWT token for a given profile
func (h *AuthHandler) generateJWT(profile *models.Profile) (string, error) {
	now := time.Now()
	claims := &models.JwtCustomClaims{
		UserID: profile.ID,
		Email:  profile.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(h.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   profile.ID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
