package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/anonto42/neighborly/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
)

// FirebaseIdentityKey is the echo context key holding the verified *firebase.Identity
const FirebaseIdentityKey = "firebaseIdentity"

// TokenVerifier verifies a Firebase ID token
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebase.Identity, error)
}

// FirebaseAuthMiddleware creates an Echo middleware to verify Firebase ID tokens
func FirebaseAuthMiddleware(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			idToken, err := bearerToken(c)
			if err != nil {
				return err
			}

			identity, err := verifier.VerifyIDToken(c.Request().Context(), idToken)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token")
			}

			c.Set(FirebaseIdentityKey, identity)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
	}

	// Expecting "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
	}
	return parts[1], nil
}
