package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/hackhub/hackhub/internal/api/handlers"
	"github.com/hackhub/hackhub/internal/api/middleware"
	"github.com/hackhub/hackhub/internal/auth"
	"github.com/hackhub/hackhub/internal/database/models"
	"github.com/hackhub/hackhub/internal/teams"
	"github.com/hackhub/hackhub/internal/users"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB             *gorm.DB
	Redis          *redis.Client
	Logger         *slog.Logger
	JWTService     *auth.JWTService
	AuthService    *auth.Service
	TeamService    *teams.Service
	UserService    *users.Service
	MaxUploadSize  int64    // Avatar upload ceiling in bytes
	AllowedOrigins []string // CORS allowed origins
	RateLimitReqs  int      // Rate limit requests per window
	RateLimitSecs  int      // Rate limit window in seconds
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	// Rate limiting - applied globally to prevent abuse
	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	// CORS - restrict to configured origins, or allow all in development
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		// Default to localhost for development - configure in production
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	authHandler := handlers.NewAuthHandler(cfg.AuthService, cfg.Logger)
	teamHandler := handlers.NewTeamHandler(cfg.TeamService, cfg.Logger)
	userHandler := handlers.NewUserHandler(cfg.UserService, cfg.MaxUploadSize, cfg.Logger)
	hackathonHandler := handlers.NewHackathonHandler(cfg.DB, cfg.Logger)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/verify", authHandler.Verify)
		r.Post("/auth/resend-code", authHandler.ResendCode)

		r.With(middleware.Auth(cfg.JWTService)).Get("/me", authHandler.Me)

		// Hackathon endpoints: reads are public, creation is organizer-only
		r.Route("/hackathons", func(r chi.Router) {
			r.Get("/", hackathonHandler.List)
			r.Get("/{hackathonId}", hackathonHandler.Get)

			r.With(
				middleware.Auth(cfg.JWTService),
				middleware.RequireRole(string(models.RoleOrganizer)),
			).Post("/", hackathonHandler.Create)
		})

		// Team endpoints: reads are public, membership changes need auth
		r.Route("/teams", func(r chi.Router) {
			r.Get("/hackathon/{hackathonId}", teamHandler.ListByHackathon)
			r.Get("/{teamId}", teamHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWTService))

				r.Post("/", teamHandler.Create)
				r.Get("/user/my-teams", teamHandler.MyTeams)
				r.Put("/{teamId}", teamHandler.Update)
				r.Post("/{teamId}/join", teamHandler.Join)
				r.Delete("/{teamId}/leave", teamHandler.Leave)
				r.Delete("/{teamId}/members/{userId}", teamHandler.RemoveMember)
				r.Put("/{teamId}/transfer/{userId}", teamHandler.Transfer)
			})
		})

		// User endpoints: profile lookups and search are public
		r.Route("/users", func(r chi.Router) {
			r.Get("/profile", userHandler.GetProfileByUsername)
			r.Get("/profile/{userId}", userHandler.GetProfile)
			r.Get("/search", userHandler.Search)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWTService))

				r.Put("/profile", userHandler.UpdateProfile)
				r.With(middleware.RateLimitByUser(cfg.RateLimitReqs, cfg.RateLimitSecs)).
					Post("/profile/avatar", userHandler.UploadAvatar)
				r.Put("/role", userHandler.UpdateRole)
			})
		})
	})

	return &Router{r}
}
