package dto

import (
	"time"

	"github.com/hackhub/hackhub/internal/api/validation"
	"github.com/hackhub/hackhub/internal/database/models"
)

type CreateHackathonRequest struct {
	Name        string    `json:"name" validate:"required,max=200"`
	Slug        string    `json:"slug" validate:"omitempty,max=100"`
	Description string    `json:"description" validate:"omitempty,max=2000"`
	Location    string    `json:"location" validate:"omitempty,max=200"`
	StartsAt    time.Time `json:"startsAt" validate:"required"`
	EndsAt      time.Time `json:"endsAt" validate:"required,gtfield=StartsAt"`
}

func (r CreateHackathonRequest) Validate() map[string]string {
	return validation.Struct(r)
}

type HackathonResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	OrganizerID string    `json:"organizerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

func NewHackathonResponse(h *models.Hackathon) HackathonResponse {
	return HackathonResponse{
		ID:          h.ID.String(),
		Name:        h.Name,
		Slug:        h.Slug,
		Description: h.Description,
		Location:    h.Location,
		StartsAt:    h.StartsAt,
		EndsAt:      h.EndsAt,
		OrganizerID: h.OrganizerID.String(),
		CreatedAt:   h.CreatedAt,
	}
}

func NewHackathonResponses(hackathons []models.Hackathon) []HackathonResponse {
	out := make([]HackathonResponse, 0, len(hackathons))
	for i := range hackathons {
		out = append(out, NewHackathonResponse(&hackathons[i]))
	}
	return out
}
