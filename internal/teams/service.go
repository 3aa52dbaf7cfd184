package teams

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hackhub/hackhub/internal/database/models"
)

// Service enforces team lifecycle and membership invariants. Every
// check-then-write sequence runs inside one transaction with the team row
// locked, so concurrent joins cannot overfill a team.
type Service struct {
	db               *gorm.DB
	deleteEmptyTeams bool
	logger           *slog.Logger
}

func NewService(db *gorm.DB, deleteEmptyTeams bool, logger *slog.Logger) *Service {
	return &Service{
		db:               db,
		deleteEmptyTeams: deleteEmptyTeams,
		logger:           logger,
	}
}

type CreateTeamInput struct {
	HackathonID uuid.UUID
	CreatorID   uuid.UUID
	Name        string
	Description string
	MaxMembers  int
}

type UpdateTeamInput struct {
	Name        *string
	Description *string
	MaxMembers  *int
}

// Create makes a new team with the creator as leader and first member.
func (s *Service) Create(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, ErrNameRequired
	}
	if input.MaxMembers < 1 {
		return nil, ErrInvalidMaxMembers
	}

	var hackathon models.Hackathon
	if err := s.db.WithContext(ctx).First(&hackathon, input.HackathonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHackathonNotFound
		}
		return nil, err
	}

	var team models.Team
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := s.memberOfHackathonTeam(tx, input.HackathonID, input.CreatorID)
		if err != nil {
			return err
		}
		if taken {
			return ErrAlreadyInTeam
		}

		team = models.Team{
			HackathonID: input.HackathonID,
			Name:        input.Name,
			Description: input.Description,
			MaxMembers:  input.MaxMembers,
			LeaderID:    input.CreatorID,
		}
		if err := tx.Create(&team).Error; err != nil {
			return err
		}

		member := models.TeamMember{
			TeamID: team.ID,
			UserID: input.CreatorID,
		}
		if err := tx.Create(&member).Error; err != nil {
			if isDuplicateKeyError(err) {
				return ErrAlreadyInTeam
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("team created", "team_id", team.ID, "hackathon_id", input.HackathonID, "leader_id", input.CreatorID)
	return s.GetByID(ctx, team.ID)
}

// Join adds the user to the team and returns the updated roster.
func (s *Service) Join(ctx context.Context, teamID, userID uuid.UUID) (*models.Team, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		team, err := s.lockTeam(tx, teamID)
		if err != nil {
			return err
		}

		var isMember int64
		if err := tx.Model(&models.TeamMember{}).
			Where("team_id = ? AND user_id = ?", teamID, userID).
			Count(&isMember).Error; err != nil {
			return err
		}
		if isMember > 0 {
			return ErrAlreadyMember
		}

		taken, err := s.memberOfHackathonTeam(tx, team.HackathonID, userID)
		if err != nil {
			return err
		}
		if taken {
			return ErrAlreadyInTeam
		}

		var count int64
		if err := tx.Model(&models.TeamMember{}).
			Where("team_id = ?", teamID).
			Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(team.MaxMembers) {
			return ErrTeamFull
		}

		member := models.TeamMember{TeamID: teamID, UserID: userID}
		if err := tx.Create(&member).Error; err != nil {
			if isDuplicateKeyError(err) {
				return ErrAlreadyMember
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user joined team", "team_id", teamID, "user_id", userID)
	return s.GetByID(ctx, teamID)
}

// Leave removes the caller's membership. A leader with other members must
// transfer leadership first. When the sole member leaves, the team is
// deleted or kept empty depending on configuration.
func (s *Service) Leave(ctx context.Context, teamID, userID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		team, err := s.lockTeam(tx, teamID)
		if err != nil {
			return err
		}

		var membership models.TeamMember
		if err := tx.Where("team_id = ? AND user_id = ?", teamID, userID).
			First(&membership).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMemberNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&models.TeamMember{}).
			Where("team_id = ?", teamID).
			Count(&count).Error; err != nil {
			return err
		}

		if userID == team.LeaderID && count > 1 {
			return ErrLeadershipRequired
		}

		if err := tx.Delete(&membership).Error; err != nil {
			return err
		}

		if count == 1 && s.deleteEmptyTeams {
			if err := tx.Delete(team).Error; err != nil {
				return err
			}
			s.logger.Info("empty team deleted", "team_id", teamID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("user left team", "team_id", teamID, "user_id", userID)
	return nil
}

// RemoveMember lets the leader remove another member. Removing the leader
// is rejected; leadership has to move first.
func (s *Service) RemoveMember(ctx context.Context, teamID, actorID, targetID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		team, err := s.lockTeam(tx, teamID)
		if err != nil {
			return err
		}

		if actorID != team.LeaderID {
			return ErrNotLeader
		}
		if targetID == team.LeaderID {
			return ErrLeadershipRequired
		}

		var membership models.TeamMember
		if err := tx.Where("team_id = ? AND user_id = ?", teamID, targetID).
			First(&membership).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMemberNotFound
			}
			return err
		}

		if err := tx.Delete(&membership).Error; err != nil {
			return err
		}

		s.logger.Info("member removed", "team_id", teamID, "user_id", targetID, "by", actorID)
		return nil
	})
}

// TransferLeadership hands the team to another current member.
func (s *Service) TransferLeadership(ctx context.Context, teamID, actorID, newLeaderID uuid.UUID) (*models.Team, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		team, err := s.lockTeam(tx, teamID)
		if err != nil {
			return err
		}

		if actorID != team.LeaderID {
			return ErrNotLeader
		}
		if newLeaderID == actorID {
			return nil
		}

		var isMember int64
		if err := tx.Model(&models.TeamMember{}).
			Where("team_id = ? AND user_id = ?", teamID, newLeaderID).
			Count(&isMember).Error; err != nil {
			return err
		}
		if isMember == 0 {
			return ErrMemberNotFound
		}

		if err := tx.Model(team).Update("leader_id", newLeaderID).Error; err != nil {
			return err
		}

		s.logger.Info("leadership transferred", "team_id", teamID, "from", actorID, "to", newLeaderID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, teamID)
}

// UpdateInfo applies a partial update to name, description and max size.
func (s *Service) UpdateInfo(ctx context.Context, teamID, actorID uuid.UUID, input UpdateTeamInput) (*models.Team, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		team, err := s.lockTeam(tx, teamID)
		if err != nil {
			return err
		}

		if actorID != team.LeaderID {
			return ErrNotLeader
		}

		updates := map[string]interface{}{}
		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return ErrNameRequired
			}
			updates["name"] = name
		}
		if input.Description != nil {
			updates["description"] = *input.Description
		}
		if input.MaxMembers != nil {
			if *input.MaxMembers < 1 {
				return ErrInvalidMaxMembers
			}
			var count int64
			if err := tx.Model(&models.TeamMember{}).
				Where("team_id = ?", teamID).
				Count(&count).Error; err != nil {
				return err
			}
			if int64(*input.MaxMembers) < count {
				return ErrMaxBelowCount
			}
			updates["max_members"] = *input.MaxMembers
		}

		if len(updates) == 0 {
			return nil
		}
		return tx.Model(team).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, teamID)
}

// GetByID loads a team with its leader and member roster.
func (s *Service) GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	var team models.Team
	if err := s.db.WithContext(ctx).
		Preload("Leader").
		Preload("Members.User").
		First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

// ListByHackathon returns all teams of a hackathon, oldest first.
func (s *Service) ListByHackathon(ctx context.Context, hackathonID uuid.UUID) ([]models.Team, error) {
	var list []models.Team
	if err := s.db.WithContext(ctx).
		Preload("Leader").
		Preload("Members.User").
		Where("hackathon_id = ?", hackathonID).
		Order("created_at ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ListUserTeams returns every team the user is currently a member of,
// across all hackathons.
func (s *Service) ListUserTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, error) {
	var list []models.Team
	if err := s.db.WithContext(ctx).
		Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ?", userID).
		Preload("Leader").
		Preload("Members.User").
		Order("teams.created_at ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// lockTeam loads the team row with a row lock where the dialect supports
// it. sqlite has a single writer, so the plain read is enough there.
func (s *Service) lockTeam(tx *gorm.DB, teamID uuid.UUID) (*models.Team, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var team models.Team
	if err := q.First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

// memberOfHackathonTeam reports whether the user already belongs to any
// team of the hackathon.
func (s *Service) memberOfHackathonTeam(tx *gorm.DB, hackathonID, userID uuid.UUID) (bool, error) {
	var count int64
	err := tx.Model(&models.TeamMember{}).
		Joins("JOIN teams ON teams.id = team_members.team_id").
		Where("teams.hackathon_id = ? AND team_members.user_id = ? AND teams.deleted_at IS NULL", hackathonID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
