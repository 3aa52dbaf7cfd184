package dto

import (
	"github.com/hackhub/hackhub/internal/api/validation"
	"github.com/hackhub/hackhub/internal/database/models"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	FullName string `json:"fullName" validate:"required,max=200"`
}

func (r RegisterRequest) Validate() map[string]string {
	return validation.Struct(r)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r LoginRequest) Validate() map[string]string {
	return validation.Struct(r)
}

type VerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

func (r VerifyRequest) Validate() map[string]string {
	return validation.Struct(r)
}

type ResendCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r ResendCodeRequest) Validate() map[string]string {
	return validation.Struct(r)
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func NewAuthResponse(token string, user *models.User) AuthResponse {
	return AuthResponse{
		Token: token,
		User:  NewUserResponse(user),
	}
}
