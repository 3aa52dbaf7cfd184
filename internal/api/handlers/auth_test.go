package handlers_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackhub/hackhub/internal/api/dto"
	"github.com/hackhub/hackhub/internal/api/handlers"
	"github.com/hackhub/hackhub/internal/api/middleware"
	"github.com/hackhub/hackhub/internal/auth"
	"github.com/hackhub/hackhub/internal/database/models"
	"github.com/hackhub/hackhub/internal/tasks"
	"github.com/hackhub/hackhub/internal/testutil"
)

type authEnvelope struct {
	StatusCode int              `json:"statusCode"`
	Data       dto.AuthResponse `json:"data"`
	Message    string           `json:"message"`
	Success    bool             `json:"success"`
}

type userEnvelope struct {
	StatusCode int              `json:"statusCode"`
	Data       dto.UserResponse `json:"data"`
	Message    string           `json:"message"`
	Success    bool             `json:"success"`
}

type errorEnvelope struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors"`
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func setupAuthTestRouter(t *testing.T) (*chi.Mux, *testutil.TestSetup, *testutil.FakeEnqueuer) {
	tc := testutil.NewTestContext(t)

	queue := &testutil.FakeEnqueuer{}
	authService := auth.NewService(tc.DB, tc.JWTService, queue, 15*time.Minute, testLogger())
	handler := handlers.NewAuthHandler(authService, testLogger())

	r := chi.NewRouter()
	r.Post("/api/v1/auth/register", handler.Register)
	r.Post("/api/v1/auth/login", handler.Login)
	r.Post("/api/v1/auth/verify", handler.Verify)
	r.Post("/api/v1/auth/resend-code", handler.ResendCode)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tc.JWTService))
		r.Get("/api/v1/me", handler.Me)
	})

	return r, tc, queue
}

func TestAuthHandler_Register(t *testing.T) {
	router, tc, queue := setupAuthTestRouter(t)
	defer tc.Cleanup()

	t.Run("successful registration", func(t *testing.T) {
		body := map[string]string{
			"email":    "newuser@example.com",
			"password": "securepassword123",
			"fullName": "New User",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/register", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code, "Body: %s", rr.Body.String())

		var resp authEnvelope
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.Data.Token)
		assert.Equal(t, "newuser@example.com", resp.Data.User.Email)
		assert.Equal(t, "USER", resp.Data.User.Role)
		assert.False(t, resp.Data.User.IsVerified)

		assert.Contains(t, queue.TypesEnqueued(), tasks.TypeVerificationEmail)
	})

	t.Run("duplicate email", func(t *testing.T) {
		body := map[string]string{
			"email":    "duplicate@example.com",
			"password": "securepassword123",
			"fullName": "First User",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/register", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusCreated, rr.Code)

		req = testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/register", body)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("missing email", func(t *testing.T) {
		body := map[string]string{
			"password": "securepassword123",
			"fullName": "No Email User",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/register", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var resp errorEnvelope
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "Validation failed", resp.Message)
		assert.NotEmpty(t, resp.Errors)
	})

	t.Run("password too short", func(t *testing.T) {
		body := map[string]string{
			"email":    "shortpw@example.com",
			"password": "short",
			"fullName": "Short PW User",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/register", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/auth/register", nil)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	router, tc, _ := setupAuthTestRouter(t)
	defer tc.Cleanup()

	registerBody := map[string]string{
		"email":    "logintest@example.com",
		"password": "securepassword123",
		"fullName": "Login Test User",
	}
	req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/register", registerBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	t.Run("successful login", func(t *testing.T) {
		body := map[string]string{
			"email":    "logintest@example.com",
			"password": "securepassword123",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "Body: %s", rr.Body.String())

		var resp authEnvelope
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.NotEmpty(t, resp.Data.Token)
		assert.Equal(t, "logintest@example.com", resp.Data.User.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		body := map[string]string{
			"email":    "logintest@example.com",
			"password": "wrongpassword",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("non-existent user", func(t *testing.T) {
		body := map[string]string{
			"email":    "nonexistent@example.com",
			"password": "anypassword",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("missing password", func(t *testing.T) {
		body := map[string]string{
			"email": "logintest@example.com",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAuthHandler_Verify(t *testing.T) {
	router, tc, queue := setupAuthTestRouter(t)
	defer tc.Cleanup()

	registerBody := map[string]string{
		"email":    "verifyme@example.com",
		"password": "securepassword123",
		"fullName": "Verify Me",
	}
	req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/register", registerBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	// The code never leaves the API, so read it straight from the database.
	var user models.User
	require.NoError(t, tc.DB.Where("email = ?", "verifyme@example.com").First(&user).Error)
	require.Len(t, user.VerificationCode, 6)

	t.Run("wrong code", func(t *testing.T) {
		wrong := "000000"
		if user.VerificationCode == wrong {
			wrong = "000001"
		}
		body := map[string]string{"email": "verifyme@example.com", "code": wrong}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/verify", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("successful verification", func(t *testing.T) {
		body := map[string]string{"email": "verifyme@example.com", "code": user.VerificationCode}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/verify", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "Body: %s", rr.Body.String())

		var resp userEnvelope
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.True(t, resp.Data.IsVerified)

		assert.Contains(t, queue.TypesEnqueued(), tasks.TypeWelcomeEmail)
	})

	t.Run("already verified", func(t *testing.T) {
		body := map[string]string{"email": "verifyme@example.com", "code": user.VerificationCode}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/verify", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		body := map[string]string{"email": "ghost@example.com", "code": "123456"}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/verify", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("non-numeric code rejected", func(t *testing.T) {
		body := map[string]string{"email": "verifyme@example.com", "code": "abc123"}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/verify", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAuthHandler_ResendCode(t *testing.T) {
	router, tc, _ := setupAuthTestRouter(t)
	defer tc.Cleanup()

	registerBody := map[string]string{
		"email":    "resend@example.com",
		"password": "securepassword123",
		"fullName": "Resend User",
	}
	req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/register", registerBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var before models.User
	require.NoError(t, tc.DB.Where("email = ?", "resend@example.com").First(&before).Error)

	t.Run("rotates the code", func(t *testing.T) {
		body := map[string]string{"email": "resend@example.com"}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/resend-code", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "Body: %s", rr.Body.String())

		var after models.User
		require.NoError(t, tc.DB.Where("email = ?", "resend@example.com").First(&after).Error)
		assert.Len(t, after.VerificationCode, 6)
		// A fresh expiry is the observable guarantee; the code itself can
		// collide one time in a million.
		assert.False(t, after.CodeExpiresAt.Before(*before.CodeExpiresAt))
	})

	t.Run("already verified account", func(t *testing.T) {
		body := map[string]string{"email": tc.User.Email}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/resend-code", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		body := map[string]string{"email": "ghost@example.com"}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/resend-code", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	router, tc, _ := setupAuthTestRouter(t)
	defer tc.Cleanup()

	t.Run("returns the caller", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/me", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp userEnvelope
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, tc.User.ID.String(), resp.Data.ID)
		assert.Equal(t, tc.User.Email, resp.Data.Email)
	})

	t.Run("requires a token", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, "GET", "/api/v1/me", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
