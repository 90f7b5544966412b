package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/neighborly/backend/internal/router"
	"github.com/anonto42/neighborly/backend/internal/validators"
	"github.com/anonto42/neighborly/backend/pkg/config"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	quiet := slog.New(slog.NewJSONHandler(io.Discard, nil))

	e := echo.New()
	e.Validator = validators.NewValidator()
	config.SetupMiddleware(e, quiet, 5*time.Second)
	require.NoError(t, router.SetupRoutes(context.Background(), e, db, nil, router.Options{
		JWTSecret:     testSecret,
		TokenDuration: time.Hour,
		AllowDevLogin: true,
		Logger:        quiet,
	}))
	return e
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func do(t *testing.T, e *echo.Echo, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

type member struct {
	token string
	id    uuid.UUID
}

func login(t *testing.T, e *echo.Echo, email string) member {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token",
		strings.NewReader(`{"email":"`+email+`"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Token   string `json:"token"`
		Profile struct {
			ID uuid.UUID `json:"id"`
		} `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out.Token)
	return member{token: out.Token, id: out.Profile.ID}
}

func idOf(t *testing.T, env envelope) string {
	t.Helper()
	var v struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &v))
	require.NotEmpty(t, v.ID)
	return v.ID
}

func TestHealth(t *testing.T) {
	e := newServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"up"`)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	e := newServer(t)

	code, _ := do(t, e, http.MethodGet, "/api/v1/requests", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = do(t, e, http.MethodGet, "/api/v1/requests", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestDevLoginIsIdempotent(t *testing.T) {
	e := newServer(t)
	first := login(t, e, "Alice@Example.com")
	second := login(t, e, "alice@example.com")
	assert.Equal(t, first.id, second.id)

	code, env := do(t, e, http.MethodGet, "/api/v1/profile", first.token, nil)
	require.Equal(t, http.StatusOK, code)
	var p struct {
		Email       string        `json:"email"`
		DisplayName string        `json:"display_name"`
		Skills      []interface{} `json:"skills"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, "alice@example.com", p.Email)
	assert.Equal(t, "alice", p.DisplayName)
	assert.Empty(t, p.Skills)
}

func TestContactDetailsStayPrivate(t *testing.T) {
	e := newServer(t)
	alice := login(t, e, "alice.private@example.com")
	bob := login(t, e, "bob@example.com")

	code, _ := do(t, e, http.MethodPut, "/api/v1/profile", alice.token, map[string]interface{}{
		"phone": "555-0100",
	})
	require.Equal(t, http.StatusOK, code)

	code, env := do(t, e, http.MethodPost, "/api/v1/requests", alice.token, map[string]interface{}{
		"title":        "Walk my dog",
		"description":  "Twice a day",
		"skill_needed": "Pet Care",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	requestID := idOf(t, env)

	for _, path := range []string{
		"/api/v1/requests",
		"/api/v1/requests/" + requestID,
		"/api/v1/profiles/" + alice.id.String(),
	} {
		code, env = do(t, e, http.MethodGet, path, bob.token, nil)
		require.Equal(t, http.StatusOK, code, path)
		assert.NotContains(t, string(env.Data), "alice.private@example.com", path)
		assert.NotContains(t, string(env.Data), "555-0100", path)
		assert.NotContains(t, string(env.Data), `"email"`, path)
	}

	code, env = do(t, e, http.MethodGet, "/api/v1/profile", alice.token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"email":"alice.private@example.com"`)
	assert.Contains(t, string(env.Data), `"phone":"555-0100"`)
}

func TestRequestErrorsMapToStatus(t *testing.T) {
	e := newServer(t)
	alice := login(t, e, "alice@example.com")

	code, _ := do(t, e, http.MethodGet, "/api/v1/requests/not-a-uuid", alice.token, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, e, http.MethodGet, "/api/v1/requests/"+uuid.NewString(), alice.token, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, e, http.MethodPost, "/api/v1/requests", alice.token, map[string]interface{}{
		"title": "x",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, e, http.MethodPost, "/api/v1/requests", alice.token, map[string]interface{}{
		"title":        "Fix my sink",
		"description":  "Leaking under the counter",
		"skill_needed": "Plumbing",
		"budget_min":   50,
		"budget_max":   20,
	})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestBookingFlow(t *testing.T) {
	e := newServer(t)
	alice := login(t, e, "alice@example.com")
	bob := login(t, e, "bob@example.com")

	code, env := do(t, e, http.MethodPost, "/api/v1/requests", alice.token, map[string]interface{}{
		"title":        "Fix my sink",
		"description":  "Leaking under the counter",
		"skill_needed": "Plumbing",
		"budget_min":   20,
		"budget_max":   40,
		"urgency":      "high",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	requestID := idOf(t, env)
	assert.Contains(t, string(env.Data), `"budget_label":"$20 - $40"`)

	// requester cannot apply to their own request
	code, _ = do(t, e, http.MethodPost, "/api/v1/requests/"+requestID+"/apply", alice.token, map[string]interface{}{})
	assert.Equal(t, http.StatusForbidden, code)

	code, env = do(t, e, http.MethodPost, "/api/v1/requests/"+requestID+"/apply", bob.token, map[string]interface{}{
		"agreed_price": 30,
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	bookingID := idOf(t, env)

	code, _ = do(t, e, http.MethodPost, "/api/v1/requests/"+requestID+"/apply", bob.token, map[string]interface{}{})
	assert.Equal(t, http.StatusConflict, code)

	code, env = do(t, e, http.MethodGet, "/api/v1/requests/"+requestID+"/application", bob.token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"applied":true`)

	code, env = do(t, e, http.MethodGet, "/api/v1/notifications/unread-count", alice.token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"count":1}`, string(env.Data))

	// only the requester accepts
	code, _ = do(t, e, http.MethodPut, "/api/v1/bookings/"+bookingID+"/status", bob.token, map[string]interface{}{
		"status": "accepted",
	})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = do(t, e, http.MethodPut, "/api/v1/bookings/"+bookingID+"/status", alice.token, map[string]interface{}{
		"status": "accepted",
	})
	require.Equal(t, http.StatusOK, code)

	// reviews need a completed booking
	code, _ = do(t, e, http.MethodPost, "/api/v1/bookings/"+bookingID+"/reviews", alice.token, map[string]interface{}{
		"rating": 5,
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, e, http.MethodPut, "/api/v1/bookings/"+bookingID+"/status", bob.token, map[string]interface{}{
		"status": "completed",
	})
	require.Equal(t, http.StatusOK, code)

	code, _ = do(t, e, http.MethodPut, "/api/v1/bookings/"+bookingID+"/status", alice.token, map[string]interface{}{
		"status": "declined",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = do(t, e, http.MethodPost, "/api/v1/bookings/"+bookingID+"/reviews", alice.token, map[string]interface{}{
		"rating":  4,
		"comment": "Quick and tidy",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)

	code, _ = do(t, e, http.MethodPost, "/api/v1/bookings/"+bookingID+"/reviews", alice.token, map[string]interface{}{
		"rating": 5,
	})
	assert.Equal(t, http.StatusConflict, code)

	code, env = do(t, e, http.MethodGet, "/api/v1/bookings/"+bookingID, alice.token, nil)
	require.Equal(t, http.StatusOK, code)
	var detail struct {
		Status       string        `json:"status"`
		Reviews      []interface{} `json:"reviews"`
		ReviewedByMe bool          `json:"reviewed_by_me"`
		CanReview    bool          `json:"can_review"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "completed", detail.Status)
	assert.Len(t, detail.Reviews, 1)
	assert.True(t, detail.ReviewedByMe)
	assert.False(t, detail.CanReview)
	assert.NotContains(t, string(env.Data), "bob@example.com")

	code, env = do(t, e, http.MethodGet, "/api/v1/profiles/"+bob.id.String(), alice.token, nil)
	require.Equal(t, http.StatusOK, code)
	var helper struct {
		Rating       float64 `json:"rating"`
		TotalReviews int     `json:"total_reviews"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &helper))
	assert.Equal(t, 4.0, helper.Rating)
	assert.Equal(t, 1, helper.TotalReviews)

	code, env = do(t, e, http.MethodGet, "/api/v1/bookings", bob.token, nil)
	require.Equal(t, http.StatusOK, code)
	var lists struct {
		AsHelper    []map[string]interface{} `json:"as_helper"`
		AsRequester []map[string]interface{} `json:"as_requester"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &lists))
	assert.Len(t, lists.AsHelper, 1)
	assert.Empty(t, lists.AsRequester)
}

func TestBookingStatusRejectsUnknownStatus(t *testing.T) {
	e := newServer(t)
	alice := login(t, e, "alice@example.com")

	code, _ := do(t, e, http.MethodPut, "/api/v1/bookings/"+uuid.NewString()+"/status", alice.token, map[string]interface{}{
		"status": "pending",
	})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSkillsAndDiscovery(t *testing.T) {
	e := newServer(t)
	alice := login(t, e, "alice@example.com")
	bob := login(t, e, "bob@example.com")

	code, env := do(t, e, http.MethodGet, "/api/v1/skills", bob.token, nil)
	require.Equal(t, http.StatusOK, code)
	var catalogue struct {
		Skills []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"skills"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &catalogue))
	require.NotEmpty(t, catalogue.Skills)

	var plumbingID string
	for _, s := range catalogue.Skills {
		if s.Name == "Plumbing" {
			plumbingID = s.ID
		}
	}
	require.NotEmpty(t, plumbingID)

	code, _ = do(t, e, http.MethodPost, "/api/v1/me/skills", bob.token, map[string]interface{}{
		"skill_id":         plumbingID,
		"experience_level": "expert",
	})
	require.Equal(t, http.StatusCreated, code)

	code, _ = do(t, e, http.MethodPost, "/api/v1/me/skills", bob.token, map[string]interface{}{
		"skill_id":         plumbingID,
		"experience_level": "expert",
	})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = do(t, e, http.MethodPost, "/api/v1/requests", alice.token, map[string]interface{}{
		"title":        "Fix my sink",
		"description":  "Leaking under the counter",
		"skill_needed": "Plumbing",
	})
	require.Equal(t, http.StatusCreated, code)

	code, env = do(t, e, http.MethodGet, "/api/v1/discover/matching", bob.token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "Fix my sink")

	code, env = do(t, e, http.MethodGet, "/api/v1/discover/trending", bob.token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"skill":"Plumbing"`)
}
