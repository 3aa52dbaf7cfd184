package apierr

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"gorm.io/gorm"

	"github.com/hackhub/hackhub/internal/api/dto"
	"github.com/hackhub/hackhub/internal/auth"
	"github.com/hackhub/hackhub/internal/teams"
	"github.com/hackhub/hackhub/internal/users"
)

// Map translates a service error into an HTTP status and a client-safe
// message. Keeping the whole taxonomy in one switch means every handler
// answers the same way for the same failure.
func Map(err error) (int, string) {
	switch {
	// 400
	case errors.Is(err, teams.ErrNameRequired),
		errors.Is(err, teams.ErrInvalidMaxMembers),
		errors.Is(err, users.ErrQueryTooShort),
		errors.Is(err, users.ErrUnsupportedImage),
		errors.Is(err, users.ErrInvalidRole):
		return http.StatusBadRequest, err.Error()

	// 401
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return http.StatusUnauthorized, "Unauthorized"

	// 403
	case errors.Is(err, teams.ErrNotLeader),
		errors.Is(err, users.ErrRoleChangeForbidden):
		return http.StatusForbidden, err.Error()

	// 404
	case errors.Is(err, teams.ErrTeamNotFound),
		errors.Is(err, teams.ErrHackathonNotFound),
		errors.Is(err, teams.ErrMemberNotFound),
		errors.Is(err, users.ErrUserNotFound),
		errors.Is(err, auth.ErrUserNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, err.Error()

	// 409
	case errors.Is(err, teams.ErrAlreadyMember),
		errors.Is(err, teams.ErrAlreadyInTeam),
		errors.Is(err, teams.ErrTeamFull),
		errors.Is(err, teams.ErrLeadershipRequired),
		errors.Is(err, teams.ErrMaxBelowCount),
		errors.Is(err, users.ErrUsernameTaken),
		errors.Is(err, auth.ErrUserExists),
		errors.Is(err, auth.ErrAlreadyVerified):
		return http.StatusConflict, err.Error()

	// 410-ish auth states map to 400: the client sent a stale or wrong code
	case errors.Is(err, auth.ErrInvalidCode),
		errors.Is(err, auth.ErrCodeExpired):
		return http.StatusBadRequest, err.Error()

	// 502
	case errors.Is(err, users.ErrStorageFailed):
		return http.StatusBadGateway, "avatar storage failed"

	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// Write emits the uniform error envelope.
func Write(w http.ResponseWriter, status int, message string, errs ...string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.NewErrorResponse(status, message, errs...))
}

// Handle maps and writes a service error. Unexpected errors are logged
// with their real cause before the generic 500 goes out.
func Handle(w http.ResponseWriter, logger *slog.Logger, err error) {
	status, message := Map(err)
	if status == http.StatusInternalServerError && logger != nil {
		logger.Error("request failed", "error", err)
	}
	Write(w, status, message)
}
