//go:build ignore

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/hackhub/hackhub/internal/auth"
	"github.com/hackhub/hackhub/internal/database"
	"github.com/hackhub/hackhub/internal/database/models"
	"github.com/hackhub/hackhub/pkg/config"
	"github.com/hackhub/hackhub/pkg/util"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Create the first organizer account. Role promotion requires an
	// existing organizer, so this is the bootstrap.
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	authService := auth.NewService(db, jwtService, nil, cfg.Auth.CodeTTL(), logger)

	email := os.Getenv("ORGANIZER_EMAIL")
	password := os.Getenv("ORGANIZER_PASSWORD")
	name := os.Getenv("ORGANIZER_NAME")

	if email == "" {
		email = "organizer@hackhub.dev"
	}
	if password == "" {
		password = "organizer123!"
	}
	if name == "" {
		name = "HackHub Organizer"
	}

	resp, err := authService.Register(context.Background(), auth.RegisterInput{
		Email:    email,
		Password: password,
		FullName: name,
	})

	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			fmt.Printf("Organizer already exists: %s\n", email)
			return
		}
		log.Fatalf("failed to create organizer: %v", err)
	}

	// Seeded accounts skip email verification
	updates := map[string]interface{}{
		"role":              models.RoleOrganizer,
		"is_verified":       true,
		"verification_code": "",
		"code_expires_at":   nil,
	}
	if err := db.Model(resp.User).Updates(updates).Error; err != nil {
		log.Fatalf("failed to promote organizer: %v", err)
	}

	// The registration token carries the USER role, reissue with ORGANIZER
	token, err := jwtService.GenerateToken(resp.User.ID, resp.User.Email, string(models.RoleOrganizer))
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}

	hackathon := models.Hackathon{
		Name:        "HackHub Kickoff",
		Slug:        "hackhub-kickoff",
		Description: "A sample event to get started with.",
		Location:    "Remote",
		StartsAt:    time.Now().UTC().AddDate(0, 1, 0),
		EndsAt:      time.Now().UTC().AddDate(0, 1, 2),
		OrganizerID: resp.User.ID,
	}
	if err := db.Where("slug = ?", hackathon.Slug).First(&models.Hackathon{}).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("failed to check for existing hackathon: %v", err)
		}
		if err := db.Create(&hackathon).Error; err != nil {
			log.Fatalf("failed to create hackathon: %v", err)
		}
	}

	fmt.Printf("Organizer created successfully!\n")
	fmt.Printf("Email: %s\n", resp.User.Email)
	fmt.Printf("Hackathon: %s (%s)\n", hackathon.Name, hackathon.Slug)
	fmt.Printf("Token: %s\n", token)
}
