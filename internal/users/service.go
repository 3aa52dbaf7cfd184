package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hackhub/hackhub/internal/database/models"
	"github.com/hackhub/hackhub/internal/storage"
)

const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 50
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Service handles profile reads and writes. Avatar bytes go to the object
// storage provider; everything else is plain row updates.
type Service struct {
	db      *gorm.DB
	storage storage.Provider
	logger  *slog.Logger
}

func NewService(db *gorm.DB, store storage.Provider, logger *slog.Logger) *Service {
	return &Service{
		db:      db,
		storage: store,
		logger:  logger,
	}
}

type UpdateProfileInput struct {
	FirstName   *string
	LastName    *string
	UserName    *string
	Bio         *string
	Location    *string
	Skills      *[]string
	Interests   *[]string
	SocialLinks *map[string]string
}

// UpdateProfile applies a partial update. First and last name are joined
// into the stored full name.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}

	if input.FirstName != nil || input.LastName != nil {
		var first, last string
		if input.FirstName != nil {
			first = strings.TrimSpace(*input.FirstName)
		}
		if input.LastName != nil {
			last = strings.TrimSpace(*input.LastName)
		}
		if full := strings.TrimSpace(first + " " + last); full != "" {
			updates["full_name"] = full
		}
	}

	if input.UserName != nil {
		name := strings.TrimSpace(*input.UserName)
		if name == "" {
			updates["user_name"] = nil
		} else {
			updates["user_name"] = name
		}
	}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}
	if input.Location != nil {
		updates["location"] = *input.Location
	}
	if input.Skills != nil {
		updates["skills"] = models.StringList(*input.Skills)
	}
	if input.Interests != nil {
		updates["interests"] = models.StringList(*input.Interests)
	}
	if input.SocialLinks != nil {
		updates["social_links"] = models.StringMap(*input.SocialLinks)
	}

	if len(updates) == 0 {
		return &user, nil
	}

	if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return s.Get(ctx, userID)
}

// UploadAvatar sniffs the payload, stores it and persists the public URL.
// The previous object is deleted best-effort.
func (s *Service) UploadAvatar(ctx context.Context, userID uuid.UUID, data []byte) (string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	contentType := http.DetectContentType(data)
	if !allowedImageTypes[contentType] {
		return "", ErrUnsupportedImage
	}

	key := storage.AvatarKey(userID)
	url, err := s.storage.Put(ctx, key, contentType, data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorageFailed, err)
	}

	oldURL := user.AvatarURL
	if err := s.db.WithContext(ctx).Model(&user).Update("avatar_url", url).Error; err != nil {
		return "", err
	}

	// Same-second replacements reuse the key, so the old URL can equal the
	// new one. Deleting it then would remove the object just written.
	if oldURL != "" && oldURL != url {
		if err := s.storage.Delete(ctx, path.Base(oldURL)); err != nil {
			s.logger.Warn("failed to delete previous avatar", "error", err, "user_id", userID)
		}
	}

	s.logger.Info("avatar uploaded", "user_id", userID, "key", key, "content_type", contentType)
	return url, nil
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Service) GetByUsername(ctx context.Context, userName string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("user_name = ?", userName).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateRole changes a user's role. Only organizers may grant ORGANIZER or
// touch other accounts; stepping down to USER is always allowed on your
// own account.
func (s *Service) UpdateRole(ctx context.Context, actorID uuid.UUID, actorRole models.Role, targetID uuid.UUID, newRole models.Role) (*models.User, error) {
	if newRole != models.RoleUser && newRole != models.RoleOrganizer {
		return nil, ErrInvalidRole
	}
	if targetID != actorID && actorRole != models.RoleOrganizer {
		return nil, ErrRoleChangeForbidden
	}
	if newRole == models.RoleOrganizer && actorRole != models.RoleOrganizer {
		return nil, ErrRoleChangeForbidden
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&user).Update("role", newRole).Error; err != nil {
		return nil, err
	}
	user.Role = newRole

	s.logger.Info("role updated", "user_id", targetID, "role", newRole, "by", actorID)
	return &user, nil
}

// Search matches the query case-insensitively against full name, username
// and email. Results come back ordered by full name.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]models.User, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < 2 {
		return nil, ErrQueryTooShort
	}

	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"

	var users []models.User
	if err := s.db.WithContext(ctx).
		Where(`LOWER(full_name) LIKE ? ESCAPE '\' OR LOWER(user_name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern).
		Order("full_name ASC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// escapeLike neutralizes LIKE wildcards in user input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
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
