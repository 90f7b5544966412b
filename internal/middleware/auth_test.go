package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anonto42/neighborly/backend/internal/models"
	"github.com/anonto42/neighborly/backend/pkg/firebase"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, secret string, userID uuid.UUID, expires time.Time) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID: userID,
		Email:  "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

// serve runs mw in front of a handler that echoes back what the middleware stored
func serve(mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, c
}

func TestJWTAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	mw := JWTAuthMiddleware("secret")

	t.Run("valid token", func(t *testing.T) {
		rec, c := serve(mw, "Bearer "+signed(t, "secret", userID, time.Now().Add(time.Hour)))
		assert.Equal(t, http.StatusOK, rec.Code)
		claims, ok := c.Get(UserClaimsKey).(*models.JwtCustomClaims)
		require.True(t, ok)
		assert.Equal(t, userID, claims.UserID)
	})

	cases := map[string]string{
		"missing header":  "",
		"wrong scheme":    "Basic abc",
		"garbage token":   "Bearer abc.def.ghi",
		"wrong secret":    "Bearer " + signed(t, "other", userID, time.Now().Add(time.Hour)),
		"expired token":   "Bearer " + signed(t, "secret", userID, time.Now().Add(-time.Minute)),
		"missing user id": "Bearer " + signed(t, "secret", uuid.Nil, time.Now().Add(time.Hour)),
		"empty bearer":    "Bearer ",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			rec, c := serve(mw, header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Nil(t, c.Get(UserClaimsKey))
		})
	}
}

type fakeVerifier struct {
	identity *firebase.Identity
	seen     string
}

func (f *fakeVerifier) VerifyIDToken(ctx context.Context, idToken string) (*firebase.Identity, error) {
	f.seen = idToken
	if f.identity == nil {
		return nil, errors.New("token rejected")
	}
	return f.identity, nil
}

func TestFirebaseAuthMiddleware(t *testing.T) {
	t.Run("verified", func(t *testing.T) {
		v := &fakeVerifier{identity: &firebase.Identity{UID: "u1", Email: "bob@example.com"}}
		rec, c := serve(FirebaseAuthMiddleware(v), "Bearer id-token")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "id-token", v.seen)
		assert.Equal(t, v.identity, c.Get(FirebaseIdentityKey))
	})

	t.Run("rejected", func(t *testing.T) {
		v := &fakeVerifier{}
		rec, c := serve(FirebaseAuthMiddleware(v), "Bearer id-token")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, c.Get(FirebaseIdentityKey))
	})

	t.Run("no header", func(t *testing.T) {
		v := &fakeVerifier{}
		rec, _ := serve(FirebaseAuthMiddleware(v), "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, v.seen)
	})
}
