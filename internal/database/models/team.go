package models

import (
	"github.com/google/uuid"
)

// Team groups users within a single hackathon. The leader is always also a
// member; MaxMembers bounds the member count including the leader.
type Team struct {
	Base
	HackathonID uuid.UUID `gorm:"type:uuid;not null;index" json:"hackathon_id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	MaxMembers  int       `gorm:"not null" json:"max_members"`

	LeaderID uuid.UUID `gorm:"type:uuid;not null;index" json:"leader_id"`
	Leader   *User     `gorm:"foreignKey:LeaderID" json:"leader,omitempty"`

	Hackathon *Hackathon   `gorm:"foreignKey:HackathonID" json:"hackathon,omitempty"`
	Members   []TeamMember `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}

func (Team) TableName() string {
	return "teams"
}
