package tasks

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypeVerificationEmail = "email:verification"
	TypeWelcomeEmail      = "email:welcome"
	TypePurgeUnverified   = "users:purge_unverified"
)

// VerificationEmailPayload contains the data for a verification email task
type VerificationEmailPayload struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Code   string    `json:"code"`
}

func NewVerificationEmailTask(payload VerificationEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeVerificationEmail, data), nil
}

// WelcomeEmailPayload contains the data for a welcome email task
type WelcomeEmailPayload struct {
	UserID   uuid.UUID `json:"user_id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
}

func NewWelcomeEmailTask(payload WelcomeEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeWelcomeEmail, data), nil
}

// PurgeUnverifiedPayload is empty - the task sweeps all expired unverified accounts
type PurgeUnverifiedPayload struct{}

func NewPurgeUnverifiedTask() *asynq.Task {
	return asynq.NewTask(TypePurgeUnverified, nil)
}
