package dto

import (
	"time"

	"github.com/hackhub/hackhub/internal/api/validation"
	"github.com/hackhub/hackhub/internal/database/models"
)

type UpdateProfileRequest struct {
	FirstName   *string            `json:"firstName" validate:"omitempty,max=100"`
	LastName    *string            `json:"lastName" validate:"omitempty,max=100"`
	UserName    *string            `json:"userName" validate:"omitempty,username"`
	Bio         *string            `json:"bio" validate:"omitempty,max=2000"`
	Location    *string            `json:"location" validate:"omitempty,max=200"`
	Skills      *[]string          `json:"skills" validate:"omitempty,max=50,dive,min=1,max=50"`
	Interests   *[]string          `json:"interests" validate:"omitempty,max=50,dive,min=1,max=50"`
	SocialLinks *map[string]string `json:"socialLinks" validate:"omitempty,dive,url"`
}

func (r UpdateProfileRequest) Validate() map[string]string {
	errs := validation.Struct(r)

	// An empty userName clears the handle, so let it through
	if r.UserName != nil && *r.UserName == "" {
		delete(errs, "userName")
	}
	return errs
}

type UpdateRoleRequest struct {
	UserID string `json:"userId" validate:"omitempty,uuid"`
	Role   string `json:"role" validate:"required,oneof=USER ORGANIZER"`
}

func (r UpdateRoleRequest) Validate() map[string]string {
	return validation.Struct(r)
}

type UserResponse struct {
	ID          string            `json:"id"`
	Email       string            `json:"email"`
	FullName    string            `json:"fullName"`
	UserName    *string           `json:"userName"`
	Role        string            `json:"role"`
	AvatarURL   string            `json:"avatarUrl"`
	Bio         string            `json:"bio"`
	Location    string            `json:"location"`
	Skills      []string          `json:"skills"`
	Interests   []string          `json:"interests"`
	SocialLinks map[string]string `json:"socialLinks"`
	IsVerified  bool              `json:"isVerified"`
	CreatedAt   time.Time         `json:"createdAt"`
}

func NewUserResponse(user *models.User) UserResponse {
	resp := UserResponse{
		ID:          user.ID.String(),
		Email:       user.Email,
		FullName:    user.FullName,
		UserName:    user.UserName,
		Role:        string(user.Role),
		AvatarURL:   user.AvatarURL,
		Bio:         user.Bio,
		Location:    user.Location,
		Skills:      user.Skills,
		Interests:   user.Interests,
		SocialLinks: user.SocialLinks,
		IsVerified:  user.IsVerified,
		CreatedAt:   user.CreatedAt,
	}
	if resp.Skills == nil {
		resp.Skills = []string{}
	}
	if resp.Interests == nil {
		resp.Interests = []string{}
	}
	if resp.SocialLinks == nil {
		resp.SocialLinks = map[string]string{}
	}
	return resp
}

func NewUserResponses(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}

type AvatarResponse struct {
	AvatarURL string `json:"avatarUrl"`
}
