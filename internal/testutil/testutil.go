package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hackhub/hackhub/internal/auth"
	"github.com/hackhub/hackhub/internal/database/models"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// Run migrations
	err = db.AutoMigrate(
		&models.User{},
		&models.Hackathon{},
		&models.Team{},
		&models.TeamMember{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// CleanupTestDB closes the test database connection
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("warning: failed to get sql.DB: %v", err)
		return
	}
	sqlDB.Close()
}

// CreateTestUser creates a verified user with a random email
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("testpassword123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Base: models.Base{
			ID: uuid.New(),
		},
		Email:        "test-" + uuid.New().String()[:8] + "@example.com",
		PasswordHash: hash,
		FullName:     "Test User",
		Role:         models.RoleUser,
		IsVerified:   true,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateNamedUser creates a verified user with fixed profile fields, for
// search assertions
func CreateNamedUser(t *testing.T, db *gorm.DB, fullName, userName, email string) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("testpassword123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Base: models.Base{
			ID: uuid.New(),
		},
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         models.RoleUser,
		IsVerified:   true,
	}
	if userName != "" {
		user.UserName = &userName
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create named user: %v", err)
	}

	return user
}

// CreateTestOrganizer creates a verified user with the ORGANIZER role
func CreateTestOrganizer(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := CreateTestUser(t, db)
	if err := db.Model(user).Update("role", models.RoleOrganizer).Error; err != nil {
		t.Fatalf("failed to promote test organizer: %v", err)
	}
	user.Role = models.RoleOrganizer
	return user
}

// CreateTestHackathon creates a hackathon owned by the given organizer
func CreateTestHackathon(t *testing.T, db *gorm.DB, organizerID uuid.UUID) *models.Hackathon {
	t.Helper()

	now := time.Now().UTC()
	hackathon := &models.Hackathon{
		Base: models.Base{
			ID: uuid.New(),
		},
		Name:        "Test Hackathon",
		Slug:        "test-hackathon-" + uuid.New().String()[:8],
		Description: "A hackathon for tests",
		StartsAt:    now.Add(24 * time.Hour),
		EndsAt:      now.Add(72 * time.Hour),
		OrganizerID: organizerID,
	}

	if err := db.Create(hackathon).Error; err != nil {
		t.Fatalf("failed to create test hackathon: %v", err)
	}

	return hackathon
}

// CreateTestTeam creates a team with the leader as its first member
func CreateTestTeam(t *testing.T, db *gorm.DB, hackathonID, leaderID uuid.UUID, maxMembers int) *models.Team {
	t.Helper()

	team := &models.Team{
		Base: models.Base{
			ID: uuid.New(),
		},
		HackathonID: hackathonID,
		Name:        "Team " + uuid.New().String()[:8],
		Description: "A team for tests",
		MaxMembers:  maxMembers,
		LeaderID:    leaderID,
	}

	if err := db.Create(team).Error; err != nil {
		t.Fatalf("failed to create test team: %v", err)
	}

	AddTeamMember(t, db, team.ID, leaderID)
	return team
}

// AddTeamMember inserts a membership row
func AddTeamMember(t *testing.T, db *gorm.DB, teamID, userID uuid.UUID) *models.TeamMember {
	t.Helper()

	member := &models.TeamMember{
		TeamID: teamID,
		UserID: userID,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to add team member: %v", err)
	}
	return member
}

// CreateTestJWTService creates a JWT service for testing
func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", 24*time.Hour)
}

// GenerateTestToken generates a valid JWT token for the given user
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	token, err := jwtService.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	return token
}

// AuthenticatedRequest creates an HTTP request with authentication
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// UnauthenticatedRequest creates an HTTP request without authentication
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

// MultipartRequest creates a multipart upload request with a single file
// field
func MultipartRequest(t *testing.T, method, path, field, filename string, data []byte, token string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// AssertStatus checks if the response has the expected status code
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, rr.Code, rr.Body.String())
	}
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}

// TestContext creates a context with a timeout for tests
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// FakeEnqueuer records enqueued tasks instead of talking to redis
type FakeEnqueuer struct {
	Tasks []*asynq.Task
}

func (f *FakeEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	f.Tasks = append(f.Tasks, task)
	return &asynq.TaskInfo{ID: uuid.New().String(), Type: task.Type()}, nil
}

// TypesEnqueued returns the task type names in enqueue order
func (f *FakeEnqueuer) TypesEnqueued() []string {
	types := make([]string, 0, len(f.Tasks))
	for _, task := range f.Tasks {
		types = append(types, task.Type())
	}
	return types
}

// TestSetup holds all the common test dependencies
type TestSetup struct {
	DB         *gorm.DB
	JWTService *auth.JWTService
	Organizer  *models.User
	Hackathon  *models.Hackathon
	User       *models.User
	Token      string
	OrgToken   string
}

// NewTestContext creates a complete test setup with DB, hackathon, users
// and tokens
func NewTestContext(t *testing.T) *TestSetup {
	t.Helper()

	db := SetupTestDB(t)
	jwtService := CreateTestJWTService()
	organizer := CreateTestOrganizer(t, db)
	hackathon := CreateTestHackathon(t, db, organizer.ID)
	user := CreateTestUser(t, db)
	token := GenerateTestToken(t, jwtService, user)
	orgToken := GenerateTestToken(t, jwtService, organizer)

	return &TestSetup{
		DB:         db,
		JWTService: jwtService,
		Organizer:  organizer,
		Hackathon:  hackathon,
		User:       user,
		Token:      token,
		OrgToken:   orgToken,
	}
}

// Cleanup closes the test database
func (ts *TestSetup) Cleanup() {
	if ts.DB != nil {
		sqlDB, err := ts.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}
