package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Storage   StorageConfig
	SMTP      SMTPConfig
	Auth      AuthConfig
	Teams     TeamsConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

// StorageConfig selects and configures the avatar object store.
// Provider is one of "s3", "gcs" or "memory".
type StorageConfig struct {
	Provider string

	S3Bucket        string
	S3Region        string
	S3Endpoint      string // optional, for MinIO-style deployments
	S3AccessKeyID   string
	S3SecretKey     string
	GCSBucket       string
	GCSCredentials  string // optional path to a service account JSON file
	PublicBaseURL   string // optional CDN/base URL override for returned object URLs
	MaxUploadSizeMB int
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type AuthConfig struct {
	CodeTTLMinutes  int    // verification code lifetime
	PurgeAfterHours int    // unverified accounts older than this get purged
	PurgeCronExpr   string // worker schedule for the purge task
}

type TeamsConfig struct {
	// DeleteEmptyTeams controls what happens when the sole remaining
	// member leaves: true deletes the team row, false keeps an empty team.
	DeleteEmptyTeams bool
}

type RateLimitConfig struct {
	Requests      int
	WindowSeconds int
}

type CORSConfig struct {
	AllowedOrigins []string
}

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func (j *JWTConfig) Expiry() time.Duration {
	return time.Duration(j.ExpiryHours) * time.Hour
}

func (a *AuthConfig) CodeTTL() time.Duration {
	return time.Duration(a.CodeTTLMinutes) * time.Minute
}

func (a *AuthConfig) PurgeAfter() time.Duration {
	return time.Duration(a.PurgeAfterHours) * time.Hour
}

func (s *StorageConfig) MaxUploadSize() int64 {
	return int64(s.MaxUploadSizeMB) << 20
}

func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (s *ServerConfig) IsDevelopment() bool {
	return s.Env == "development"
}

func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "hackhub")
	v.SetDefault("DATABASE_PASSWORD", "hackhub_secret")
	v.SetDefault("DATABASE_NAME", "hackhub")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("JWT_SECRET", "change-me-in-production")
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("STORAGE_PROVIDER", "memory")
	v.SetDefault("STORAGE_S3_REGION", "us-east-1")
	v.SetDefault("STORAGE_MAX_UPLOAD_MB", 5)
	v.SetDefault("SMTP_HOST", "localhost")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_FROM", "no-reply@hackhub.dev")
	v.SetDefault("AUTH_CODE_TTL_MINUTES", 15)
	v.SetDefault("AUTH_PURGE_AFTER_HOURS", 48)
	v.SetDefault("AUTH_PURGE_CRON", "0 */6 * * *")
	v.SetDefault("TEAMS_DELETE_EMPTY", true)
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")

	// Load from .env file if present
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Override with environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
			Env:  v.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DATABASE_HOST"),
			Port:     v.GetInt("DATABASE_PORT"),
			User:     v.GetString("DATABASE_USER"),
			Password: v.GetString("DATABASE_PASSWORD"),
			Name:     v.GetString("DATABASE_NAME"),
			SSLMode:  v.GetString("DATABASE_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: v.GetInt("JWT_EXPIRY_HOURS"),
		},
		Storage: StorageConfig{
			Provider:        v.GetString("STORAGE_PROVIDER"),
			S3Bucket:        v.GetString("STORAGE_S3_BUCKET"),
			S3Region:        v.GetString("STORAGE_S3_REGION"),
			S3Endpoint:      v.GetString("STORAGE_S3_ENDPOINT"),
			S3AccessKeyID:   v.GetString("STORAGE_S3_ACCESS_KEY_ID"),
			S3SecretKey:     v.GetString("STORAGE_S3_SECRET_ACCESS_KEY"),
			GCSBucket:       v.GetString("STORAGE_GCS_BUCKET"),
			GCSCredentials:  v.GetString("STORAGE_GCS_CREDENTIALS_FILE"),
			PublicBaseURL:   v.GetString("STORAGE_PUBLIC_BASE_URL"),
			MaxUploadSizeMB: v.GetInt("STORAGE_MAX_UPLOAD_MB"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			Username: v.GetString("SMTP_USERNAME"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("SMTP_FROM"),
		},
		Auth: AuthConfig{
			CodeTTLMinutes:  v.GetInt("AUTH_CODE_TTL_MINUTES"),
			PurgeAfterHours: v.GetInt("AUTH_PURGE_AFTER_HOURS"),
			PurgeCronExpr:   v.GetString("AUTH_PURGE_CRON"),
		},
		Teams: TeamsConfig{
			DeleteEmptyTeams: v.GetBool("TEAMS_DELETE_EMPTY"),
		},
		RateLimit: RateLimitConfig{
			Requests:      v.GetInt("RATE_LIMIT_REQUESTS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitOrigins(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}

	return cfg, nil
}

func splitOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
