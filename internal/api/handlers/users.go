package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/hackhub/hackhub/internal/api/apierr"
	"github.com/hackhub/hackhub/internal/api/dto"
	"github.com/hackhub/hackhub/internal/api/middleware"
	"github.com/hackhub/hackhub/internal/database/models"
	"github.com/hackhub/hackhub/internal/users"
)

// UserHandler handles profile, avatar, role and search endpoints.
type UserHandler struct {
	userService   *users.Service
	maxUploadSize int64
	logger        *slog.Logger
}

func NewUserHandler(userService *users.Service, maxUploadSize int64, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userService:   userService,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// GetProfile returns a public profile by path id.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseIDParam(w, r, "userId", "Invalid user id")
	if !ok {
		return
	}

	user, err := h.userService.Get(r.Context(), userID)
	if err != nil {
		apierr.Handle(w, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, dto.NewUserResponse(user), "")
}

// GetProfileByUsername returns a public profile by the userName query parameter.
func (h *UserHandler) GetProfileByUsername(w http.ResponseWriter, r *http.Request) {
	userName := r.URL.Query().Get("userName")
	if userName == "" {
		apierr.Write(w, http.StatusBadRequest, "userName query parameter is required")
		return
	}

	user, err := h.userService.GetByUsername(r.Context(), userName)
	if err != nil {
		apierr.Handle(w, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, dto.NewUserResponse(user), "")
}

// UpdateProfile edits the caller's own profile fields.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), middleware.GetUserID(r.Context()), users.UpdateProfileInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		UserName:    req.UserName,
		Bio:         req.Bio,
		Location:    req.Location,
		Skills:      req.Skills,
		Interests:   req.Interests,
		SocialLinks: req.SocialLinks,
	})
	if err != nil {
		apierr.Handle(w, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, dto.NewUserResponse(user), "Profile updated successfully")
}

// UploadAvatar accepts a multipart image and stores it under the avatar key.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		apierr.Write(w, http.StatusBadRequest, "Avatar exceeds the upload size limit or the form is malformed")
		return
	}

	file, _, err := r.FormFile("avatar")
	if err != nil {
		apierr.Write(w, http.StatusBadRequest, "avatar file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		apierr.Write(w, http.StatusBadRequest, "Could not read the uploaded file")
		return
	}
	if len(data) == 0 {
		apierr.Write(w, http.StatusBadRequest, "Uploaded file is empty")
		return
	}

	url, err := h.userService.UploadAvatar(r.Context(), middleware.GetUserID(r.Context()), data)
	if err != nil {
		apierr.Handle(w, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, dto.AvatarResponse{AvatarURL: url}, "Avatar uploaded successfully")
}

// UpdateRole switches a user between USER and ORGANIZER.
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	actorID := middleware.GetUserID(r.Context())
	targetID := actorID
	if req.UserID != "" {
		id, err := uuid.Parse(req.UserID)
		if err != nil {
			apierr.Write(w, http.StatusBadRequest, "Invalid user id")
			return
		}
		targetID = id
	}

	user, err := h.userService.UpdateRole(r.Context(), actorID, models.Role(middleware.GetUserRole(r.Context())), targetID, models.Role(req.Role))
	if err != nil {
		apierr.Handle(w, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, dto.NewUserResponse(user), "Role updated successfully")
}

// Search finds users by name, username or email fragment.
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			apierr.Write(w, http.StatusBadRequest, "limit must be a number")
			return
		}
		limit = n
	}

	list, err := h.userService.Search(r.Context(), query, limit)
	if err != nil {
		apierr.Handle(w, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, dto.NewUserResponses(list), "")
}
