package models

import (
	"time"
)

type Role string

const (
	RoleUser      Role = "USER"
	RoleOrganizer Role = "ORGANIZER"
)

// User represents a registered account and its public profile.
type User struct {
	Base
	Email        string  `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string  `gorm:"not null" json:"-"`
	FullName     string  `gorm:"not null" json:"full_name"`
	UserName     *string `gorm:"uniqueIndex" json:"user_name"`
	Role         Role    `gorm:"not null;default:USER" json:"role"`

	AvatarURL   string     `json:"avatar_url"`
	Bio         string     `json:"bio"`
	Location    string     `json:"location"`
	Skills      StringList `gorm:"type:text" json:"skills"`
	Interests   StringList `gorm:"type:text" json:"interests"`
	SocialLinks StringMap  `gorm:"type:text" json:"social_links"`

	IsVerified       bool       `gorm:"not null;default:false" json:"is_verified"`
	VerificationCode string     `json:"-"`
	CodeExpiresAt    *time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}
