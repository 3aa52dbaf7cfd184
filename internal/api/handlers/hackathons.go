package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hackhub/hackhub/internal/api/apierr"
	"github.com/hackhub/hackhub/internal/api/dto"
	"github.com/hackhub/hackhub/internal/api/middleware"
	"github.com/hackhub/hackhub/internal/database/models"
)

// HackathonHandler manages the events that teams form around.
type HackathonHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewHackathonHandler(db *gorm.DB, logger *slog.Logger) *HackathonHandler {
	return &HackathonHandler{
		db:     db,
		logger: logger,
	}
}

// Create registers a hackathon. Organizer role is enforced on the route.
func (h *HackathonHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateHackathonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = generateSlug(req.Name)
	}

	hackathon := models.Hackathon{
		Name:        strings.TrimSpace(req.Name),
		Slug:        slug,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		OrganizerID: middleware.GetUserID(r.Context()),
	}
	if err := h.db.WithContext(r.Context()).Create(&hackathon).Error; err != nil {
		if isDuplicateSlug(err) {
			apierr.Write(w, http.StatusConflict, "A hackathon with this slug already exists")
			return
		}
		apierr.Handle(w, h.logger, err)
		return
	}

	writeData(w, http.StatusCreated, dto.NewHackathonResponse(&hackathon), "Hackathon created successfully")
}

// Get looks a hackathon up by UUID, falling back to slug.
func (h *HackathonHandler) Get(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "hackathonId")

	query := h.db.WithContext(r.Context())
	if id, err := uuid.Parse(ref); err == nil {
		query = query.Where("id = ?", id)
	} else {
		query = query.Where("slug = ?", ref)
	}

	var hackathon models.Hackathon
	if err := query.First(&hackathon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierr.Write(w, http.StatusNotFound, "Hackathon not found")
			return
		}
		apierr.Handle(w, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, dto.NewHackathonResponse(&hackathon), "")
}

// List returns hackathons that have not ended yet, soonest first.
func (h *HackathonHandler) List(w http.ResponseWriter, r *http.Request) {
	var list []models.Hackathon
	err := h.db.WithContext(r.Context()).
		Where("ends_at > ?", time.Now().UTC()).
		Order("starts_at ASC").
		Find(&list).Error
	if err != nil {
		apierr.Handle(w, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, dto.NewHackathonResponses(list), "")
}

func generateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, "'", "")
	return strings.Join(strings.Fields(slug), "-")
}

func isDuplicateSlug(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
