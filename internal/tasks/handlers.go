package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"github.com/hackhub/hackhub/internal/database/models"
	"github.com/hackhub/hackhub/internal/mail"
)

type Handler struct {
	db         *gorm.DB
	logger     *slog.Logger
	mailer     mail.Mailer
	purgeAfter time.Duration
}

func NewHandler(db *gorm.DB, logger *slog.Logger, mailer mail.Mailer, purgeAfter time.Duration) *Handler {
	return &Handler{
		db:         db,
		logger:     logger,
		mailer:     mailer,
		purgeAfter: purgeAfter,
	}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeVerificationEmail, h.HandleVerificationEmail)
	mux.HandleFunc(TypeWelcomeEmail, h.HandleWelcomeEmail)
	mux.HandleFunc(TypePurgeUnverified, h.HandlePurgeUnverified)
}

func (h *Handler) HandleVerificationEmail(ctx context.Context, t *asynq.Task) error {
	var payload VerificationEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	h.logger.Info("sending verification email",
		"user_id", payload.UserID,
		"email", payload.Email,
	)

	body := fmt.Sprintf(
		"Your HackHub verification code is %s.\r\n\r\nIt expires soon, so verify your account now.",
		payload.Code,
	)
	if err := h.mailer.Send(ctx, payload.Email, "Verify your HackHub account", body); err != nil {
		h.logger.Error("verification email failed", "user_id", payload.UserID, "error", err)
		return err
	}

	return nil
}

func (h *Handler) HandleWelcomeEmail(ctx context.Context, t *asynq.Task) error {
	var payload WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	h.logger.Info("sending welcome email",
		"user_id", payload.UserID,
		"email", payload.Email,
	)

	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nYour account is verified. Browse the upcoming hackathons and find a team to build with.",
		payload.FullName,
	)
	if err := h.mailer.Send(ctx, payload.Email, "Welcome to HackHub", body); err != nil {
		h.logger.Error("welcome email failed", "user_id", payload.UserID, "error", err)
		return err
	}

	return nil
}

// HandlePurgeUnverified hard-deletes accounts that never verified within
// the retention window. Users referenced by teams, memberships or
// hackathons are left alone.
func (h *Handler) HandlePurgeUnverified(ctx context.Context, t *asynq.Task) error {
	cutoff := time.Now().UTC().Add(-h.purgeAfter)

	res := h.db.WithContext(ctx).Unscoped().
		Where("is_verified = ?", false).
		Where("created_at < ?", cutoff).
		Where("id NOT IN (?)", h.db.Model(&models.TeamMember{}).Select("user_id")).
		Where("id NOT IN (?)", h.db.Unscoped().Model(&models.Team{}).Select("leader_id")).
		Where("id NOT IN (?)", h.db.Unscoped().Model(&models.Hackathon{}).Select("organizer_id")).
		Delete(&models.User{})
	if res.Error != nil {
		h.logger.Error("purge of unverified accounts failed", "error", res.Error)
		return res.Error
	}

	h.logger.Info("purged unverified accounts",
		"deleted", res.RowsAffected,
		"cutoff", cutoff,
	)
	return nil
}
