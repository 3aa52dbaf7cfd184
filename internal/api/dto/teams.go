package dto

import (
	"time"

	"github.com/hackhub/hackhub/internal/api/validation"
	"github.com/hackhub/hackhub/internal/database/models"
)

type CreateTeamRequest struct {
	HackathonID string `json:"hackathonId" validate:"required,uuid"`
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	MaxMembers  int    `json:"maxMembers" validate:"required,min=1"`
}

func (r CreateTeamRequest) Validate() map[string]string {
	return validation.Struct(r)
}

type UpdateTeamRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	MaxMembers  *int    `json:"maxMembers" validate:"omitempty,min=1"`
}

func (r UpdateTeamRequest) Validate() map[string]string {
	return validation.Struct(r)
}

type TeamMemberResponse struct {
	UserID    string    `json:"userId"`
	FullName  string    `json:"fullName"`
	UserName  *string   `json:"userName"`
	AvatarURL string    `json:"avatarUrl"`
	JoinedAt  time.Time `json:"joinedAt"`
}

type TeamResponse struct {
	ID          string               `json:"id"`
	HackathonID string               `json:"hackathonId"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	LeaderID    string               `json:"leaderId"`
	MaxMembers  int                  `json:"maxMembers"`
	MemberCount int                  `json:"memberCount"`
	Members     []TeamMemberResponse `json:"members"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

func NewTeamResponse(team *models.Team) TeamResponse {
	members := make([]TeamMemberResponse, 0, len(team.Members))
	for _, m := range team.Members {
		member := TeamMemberResponse{
			UserID:   m.UserID.String(),
			JoinedAt: m.JoinedAt,
		}
		if m.User != nil {
			member.FullName = m.User.FullName
			member.UserName = m.User.UserName
			member.AvatarURL = m.User.AvatarURL
		}
		members = append(members, member)
	}

	return TeamResponse{
		ID:          team.ID.String(),
		HackathonID: team.HackathonID.String(),
		Name:        team.Name,
		Description: team.Description,
		LeaderID:    team.LeaderID.String(),
		MaxMembers:  team.MaxMembers,
		MemberCount: len(members),
		Members:     members,
		CreatedAt:   team.CreatedAt,
		UpdatedAt:   team.UpdatedAt,
	}
}

func NewTeamResponses(teams []models.Team) []TeamResponse {
	out := make([]TeamResponse, 0, len(teams))
	for i := range teams {
		out = append(out, NewTeamResponse(&teams[i]))
	}
	return out
}
