package tasks

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/hackhub/hackhub/internal/mail"
)

// Test-only accessors so the external test package can assert on the
// handler's unexported dependencies.
func (h *Handler) DB() *gorm.DB         { return h.db }
func (h *Handler) Logger() *slog.Logger { return h.logger }
func (h *Handler) Mailer() mail.Mailer  { return h.mailer }
