package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hackhub/hackhub/internal/api/apierr"
	"github.com/hackhub/hackhub/internal/api/dto"
	"github.com/hackhub/hackhub/internal/api/middleware"
	"github.com/hackhub/hackhub/internal/teams"
)

// TeamHandler handles team formation and membership endpoints.
type TeamHandler struct {
	teamService *teams.Service
	logger      *slog.Logger
}

func NewTeamHandler(teamService *teams.Service, logger *slog.Logger) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
		logger:      logger,
	}
}

// Create registers a new team with the caller as leader and first member.
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	hackathonID, err := uuid.Parse(req.HackathonID)
	if err != nil {
		apierr.Write(w, http.StatusBadRequest, "Invalid hackathon id")
		return
	}

	team, err := h.teamService.Create(r.Context(), teams.CreateTeamInput{
		HackathonID: hackathonID,
		CreatorID:   middleware.GetUserID(r.Context()),
		Name:        req.Name,
		Description: req.Description,
		MaxMembers:  req.MaxMembers,
	})
	if err != nil {
		apierr.Handle(w, h.logger, err)
		return
	}

	writeData(w, http.StatusCreated, dto.NewTeamResponse(team), "Team created successfully")
}

func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	teamID, ok := parseIDParam(w, r, "teamId", "Invalid team id")
	if !ok {
		return
	}

	team, err := h.teamService.GetByID(r.Context(), teamID)
	if err != nil {
		apierr.Handle(w, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, dto.NewTeamResponse(team), "")
}

// Update edits team name, description or capacity. Leader only.
func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	teamID, ok := parseIDParam(w, r, "teamId", "Invalid team id")
	if !ok {
		return
	}

	var req dto.UpdateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	team, err := h.teamService.UpdateInfo(r.Context(), teamID, middleware.GetUserID(r.Context()), teams.UpdateTeamInput{
		Name:        req.Name,
		Description: req.Description,
		MaxMembers:  req.MaxMembers,
	})
	if err != nil {
		apierr.Handle(w, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, dto.NewTeamResponse(team), "Team updated successfully")
}

func (h *TeamHandler) Join(w http.ResponseWriter, r *http.Request) {
	teamID, ok := parseIDParam(w, r, "teamId", "Invalid team id")
	if !ok {
		return
	}

	team, err := h.teamService.Join(r.Context(), teamID, middleware.GetUserID(r.Context()))
	if err != nil {
		apierr.Handle(w, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, dto.NewTeamResponse(team), "Joined team successfully")
}

func (h *TeamHandler) Leave(w http.ResponseWriter, r *http.Request) {
	teamID, ok := parseIDParam(w, r, "teamId", "Invalid team id")
	if !ok {
		return
	}

	if err := h.teamService.Leave(r.Context(), teamID, middleware.GetUserID(r.Context())); err != nil {
		apierr.Handle(w, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, nil, "Left team successfully")
}

// RemoveMember kicks a member out of the team. Leader only.
func (h *TeamHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	teamID, ok := parseIDParam(w, r, "teamId", "Invalid team id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(w, r, "userId", "Invalid user id")
	if !ok {
		return
	}

	if err := h.teamService.RemoveMember(r.Context(), teamID, middleware.GetUserID(r.Context()), userID); err != nil {
		apierr.Handle(w, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, nil, "Member removed successfully")
}

// Transfer hands team leadership to another member. Leader only.
func (h *TeamHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	teamID, ok := parseIDParam(w, r, "teamId", "Invalid team id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(w, r, "userId", "Invalid user id")
	if !ok {
		return
	}

	team, err := h.teamService.TransferLeadership(r.Context(), teamID, middleware.GetUserID(r.Context()), userID)
	if err != nil {
		apierr.Handle(w, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, dto.NewTeamResponse(team), "Leadership transferred successfully")
}

func (h *TeamHandler) ListByHackathon(w http.ResponseWriter, r *http.Request) {
	hackathonID, ok := parseIDParam(w, r, "hackathonId", "Invalid hackathon id")
	if !ok {
		return
	}

	list, err := h.teamService.ListByHackathon(r.Context(), hackathonID)
	if err != nil {
		apierr.Handle(w, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, dto.NewTeamResponses(list), "")
}

// MyTeams lists every team the caller belongs to, across hackathons.
func (h *TeamHandler) MyTeams(w http.ResponseWriter, r *http.Request) {
	list, err := h.teamService.ListUserTeams(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		apierr.Handle(w, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, dto.NewTeamResponses(list), "")
}

// parseIDParam reads a UUID path parameter, writing a 400 when malformed.
func parseIDParam(w http.ResponseWriter, r *http.Request, name, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		apierr.Write(w, http.StatusBadRequest, message)
		return uuid.Nil, false
	}
	return id, true
}
