package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hackhub/hackhub/internal/api/apierr"
	"github.com/hackhub/hackhub/internal/api/dto"
	"github.com/hackhub/hackhub/internal/api/middleware"
	"github.com/hackhub/hackhub/internal/auth"
)

// AuthHandler handles registration, login and email verification.
type AuthHandler struct {
	authService *auth.Service
	logger      *slog.Logger
}

func NewAuthHandler(authService *auth.Service, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register creates an unverified account and emails a verification code.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	resp, err := h.authService.Register(r.Context(), auth.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		apierr.Handle(w, h.logger, err)
		return
	}

	writeData(w, http.StatusCreated, dto.NewAuthResponse(resp.Token, resp.User), "Registered successfully, check your email for the verification code")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	resp, err := h.authService.Login(r.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		apierr.Handle(w, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, dto.NewAuthResponse(resp.Token, resp.User), "Logged in successfully")
}

// Verify confirms the emailed code and marks the account verified.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	user, err := h.authService.Verify(r.Context(), auth.VerifyInput{
		Email: req.Email,
		Code:  req.Code,
	})
	if err != nil {
		apierr.Handle(w, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, dto.NewUserResponse(user), "Email verified successfully")
}

func (h *AuthHandler) ResendCode(w http.ResponseWriter, r *http.Request) {
	var req dto.ResendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	if err := h.authService.ResendCode(r.Context(), req.Email); err != nil {
		apierr.Handle(w, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, nil, "Verification code sent")
}

// Me returns the profile of the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		apierr.Handle(w, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, dto.NewUserResponse(user), "")
}
