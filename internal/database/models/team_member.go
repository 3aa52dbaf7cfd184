package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeamMember links a user to a team. Rows are hard-deleted on leave so the
// unique (team_id, user_id) index never blocks a re-join.
type TeamMember struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TeamID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_team_user" json:"team_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_team_user;index" json:"user_id"`
	JoinedAt time.Time `gorm:"not null" json:"joined_at"`

	Team *Team `gorm:"foreignKey:TeamID" json:"-"`
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (m *TeamMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now().UTC()
	}
	return nil
}

func (TeamMember) TableName() string {
	return "team_members"
}
