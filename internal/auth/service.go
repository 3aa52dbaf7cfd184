package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"github.com/hackhub/hackhub/internal/database/models"
	"github.com/hackhub/hackhub/internal/tasks"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidCode        = errors.New("invalid verification code")
	ErrCodeExpired        = errors.New("verification code has expired")
	ErrAlreadyVerified    = errors.New("user is already verified")
)

// Enqueuer is the subset of asynq.Client the service needs. Tests swap in
// a recording fake so no redis is required.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type Service struct {
	db      *gorm.DB
	jwt     *JWTService
	queue   Enqueuer
	codeTTL time.Duration
	logger  *slog.Logger
}

func NewService(db *gorm.DB, jwt *JWTService, queue Enqueuer, codeTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		db:      db,
		jwt:     jwt,
		queue:   queue,
		codeTTL: codeTTL,
		logger:  logger,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

type LoginInput struct {
	Email    string
	Password string
}

type VerifyInput struct {
	Email string
	Code  string
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return nil, ErrUserExists
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	code, err := generateCode()
	if err != nil {
		return nil, err
	}
	expiresAt := time.Now().UTC().Add(s.codeTTL)

	user := models.User{
		Email:            input.Email,
		PasswordHash:     hash,
		FullName:         input.FullName,
		Role:             models.RoleUser,
		IsVerified:       false,
		VerificationCode: code,
		CodeExpiresAt:    &expiresAt,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}

	s.enqueueVerificationMail(&user, code)

	token, err := s.jwt.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token: token,
		User:  &user,
	}, nil
}

func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Where("email = ?", input.Email).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !CheckPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token: token,
		User:  &user,
	}, nil
}

// Verify marks the account verified when the code matches and has not
// expired, then queues the welcome mail.
func (s *Service) Verify(ctx context.Context, input VerifyInput) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", input.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.IsVerified {
		return nil, ErrAlreadyVerified
	}
	if user.VerificationCode == "" || user.VerificationCode != input.Code {
		return nil, ErrInvalidCode
	}
	if user.CodeExpiresAt == nil || time.Now().UTC().After(*user.CodeExpiresAt) {
		return nil, ErrCodeExpired
	}

	updates := map[string]interface{}{
		"is_verified":       true,
		"verification_code": "",
		"code_expires_at":   nil,
	}
	if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		return nil, err
	}
	user.IsVerified = true
	user.VerificationCode = ""
	user.CodeExpiresAt = nil

	if s.queue != nil {
		task, err := tasks.NewWelcomeEmailTask(tasks.WelcomeEmailPayload{
			UserID:   user.ID,
			Email:    user.Email,
			FullName: user.FullName,
		})
		if err == nil {
			if _, err := s.queue.Enqueue(task, asynq.Queue("low")); err != nil {
				s.logger.Warn("failed to enqueue welcome email", "error", err, "user_id", user.ID)
			}
		}
	}

	return &user, nil
}

// ResendCode rotates the verification code and queues a fresh mail.
func (s *Service) ResendCode(ctx context.Context, email string) error {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if user.IsVerified {
		return ErrAlreadyVerified
	}

	code, err := generateCode()
	if err != nil {
		return err
	}
	expiresAt := time.Now().UTC().Add(s.codeTTL)

	updates := map[string]interface{}{
		"verification_code": code,
		"code_expires_at":   expiresAt,
	}
	if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		return err
	}

	s.enqueueVerificationMail(&user, code)
	return nil
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Service) enqueueVerificationMail(user *models.User, code string) {
	if s.queue == nil {
		return
	}
	task, err := tasks.NewVerificationEmailTask(tasks.VerificationEmailPayload{
		UserID: user.ID,
		Email:  user.Email,
		Code:   code,
	})
	if err != nil {
		s.logger.Warn("failed to build verification email task", "error", err, "user_id", user.ID)
		return
	}
	if _, err := s.queue.Enqueue(task, asynq.Queue("critical")); err != nil {
		s.logger.Warn("failed to enqueue verification email", "error", err, "user_id", user.ID)
	}
}

// generateCode returns a 6-digit numeric code with leading zeros kept.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
