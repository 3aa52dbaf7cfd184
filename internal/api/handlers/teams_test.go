package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackhub/hackhub/internal/api/dto"
	"github.com/hackhub/hackhub/internal/api/handlers"
	"github.com/hackhub/hackhub/internal/api/middleware"
	"github.com/hackhub/hackhub/internal/teams"
	"github.com/hackhub/hackhub/internal/testutil"
)

type teamEnvelope struct {
	StatusCode int              `json:"statusCode"`
	Data       dto.TeamResponse `json:"data"`
	Message    string           `json:"message"`
	Success    bool             `json:"success"`
}

type teamListEnvelope struct {
	StatusCode int                `json:"statusCode"`
	Data       []dto.TeamResponse `json:"data"`
	Message    string             `json:"message"`
	Success    bool               `json:"success"`
}

func setupTeamTestRouter(t *testing.T) (*chi.Mux, *testutil.TestSetup) {
	tc := testutil.NewTestContext(t)

	teamService := teams.NewService(tc.DB, true, testLogger())
	handler := handlers.NewTeamHandler(teamService, testLogger())

	r := chi.NewRouter()
	r.Route("/api/v1/teams", func(r chi.Router) {
		r.Get("/hackathon/{hackathonId}", handler.ListByHackathon)
		r.Get("/{teamId}", handler.Get)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(tc.JWTService))

			r.Post("/", handler.Create)
			r.Get("/user/my-teams", handler.MyTeams)
			r.Put("/{teamId}", handler.Update)
			r.Post("/{teamId}/join", handler.Join)
			r.Delete("/{teamId}/leave", handler.Leave)
			r.Delete("/{teamId}/members/{userId}", handler.RemoveMember)
			r.Put("/{teamId}/transfer/{userId}", handler.Transfer)
		})
	})

	return r, tc
}

func TestTeamHandler_Create(t *testing.T) {
	router, tc := setupTeamTestRouter(t)
	defer tc.Cleanup()

	t.Run("successful creation", func(t *testing.T) {
		body := map[string]interface{}{
			"hackathonId": tc.Hackathon.ID.String(),
			"name":        "Byte Bandits",
			"description": "Hardware hackers",
			"maxMembers":  4,
		}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/teams", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code, "Body: %s", rr.Body.String())

		var resp teamEnvelope
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.True(t, resp.Success)
		assert.Equal(t, "Byte Bandits", resp.Data.Name)
		assert.Equal(t, tc.User.ID.String(), resp.Data.LeaderID)
		assert.Equal(t, 1, resp.Data.MemberCount)
	})

	t.Run("creator already in a team", func(t *testing.T) {
		body := map[string]interface{}{
			"hackathonId": tc.Hackathon.ID.String(),
			"name":        "Second Attempt",
			"maxMembers":  4,
		}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/teams", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("unknown hackathon", func(t *testing.T) {
		other := testutil.CreateTestUser(t, tc.DB)
		token := testutil.GenerateTestToken(t, tc.JWTService, other)

		body := map[string]interface{}{
			"hackathonId": uuid.New().String(),
			"name":        "Lost Team",
			"maxMembers":  4,
		}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/teams", body, token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("malformed hackathon id", func(t *testing.T) {
		body := map[string]interface{}{
			"hackathonId": "not-a-uuid",
			"name":        "Bad ID Team",
			"maxMembers":  4,
		}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/teams", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing name", func(t *testing.T) {
		body := map[string]interface{}{
			"hackathonId": tc.Hackathon.ID.String(),
			"maxMembers":  4,
		}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/teams", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("requires auth", func(t *testing.T) {
		body := map[string]interface{}{
			"hackathonId": tc.Hackathon.ID.String(),
			"name":        "Anonymous",
			"maxMembers":  4,
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/teams", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestTeamHandler_GetAndList(t *testing.T) {
	router, tc := setupTeamTestRouter(t)
	defer tc.Cleanup()

	team := testutil.CreateTestTeam(t, tc.DB, tc.Hackathon.ID, tc.User.ID, 5)

	t.Run("get by id", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/teams/"+team.ID.String(), nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp teamEnvelope
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, team.ID.String(), resp.Data.ID)
		require.Len(t, resp.Data.Members, 1)
		assert.Equal(t, tc.User.ID.String(), resp.Data.Members[0].UserID)
		assert.Equal(t, tc.User.FullName, resp.Data.Members[0].FullName)
	})

	t.Run("get without a token", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, "GET", "/api/v1/teams/"+team.ID.String(), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("unknown team", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/teams/"+uuid.New().String(), nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("malformed team id", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/teams/garbage", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("list by hackathon", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/teams/hackathon/"+tc.Hackathon.ID.String(), nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp teamListEnvelope
		testutil.ParseJSONResponse(t, rr, &resp)
		require.Len(t, resp.Data, 1)
		assert.Equal(t, team.ID.String(), resp.Data[0].ID)
	})

	t.Run("my teams", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/teams/user/my-teams", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp teamListEnvelope
		testutil.ParseJSONResponse(t, rr, &resp)
		require.Len(t, resp.Data, 1)
		assert.Equal(t, team.ID.String(), resp.Data[0].ID)
	})

	t.Run("my teams empty for outsider", func(t *testing.T) {
		other := testutil.CreateTestUser(t, tc.DB)
		token := testutil.GenerateTestToken(t, tc.JWTService, other)

		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/teams/user/my-teams", nil, token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp teamListEnvelope
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Empty(t, resp.Data)
	})
}

func TestTeamHandler_Membership(t *testing.T) {
	router, tc := setupTeamTestRouter(t)
	defer tc.Cleanup()

	team := testutil.CreateTestTeam(t, tc.DB, tc.Hackathon.ID, tc.User.ID, 2)

	joiner := testutil.CreateTestUser(t, tc.DB)
	joinerToken := testutil.GenerateTestToken(t, tc.JWTService, joiner)

	t.Run("join fills the roster", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/teams/"+team.ID.String()+"/join", nil, joinerToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "Body: %s", rr.Body.String())

		var resp teamEnvelope
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, 2, resp.Data.MemberCount)
	})

	t.Run("join full team", func(t *testing.T) {
		third := testutil.CreateTestUser(t, tc.DB)
		token := testutil.GenerateTestToken(t, tc.JWTService, third)

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/teams/"+team.ID.String()+"/join", nil, token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("leader cannot leave with members around", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "DELETE", "/api/v1/teams/"+team.ID.String()+"/leave", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("non-leader cannot remove members", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "DELETE", "/api/v1/teams/"+team.ID.String()+"/members/"+tc.User.ID.String(), nil, joinerToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("transfer to non-member", func(t *testing.T) {
		outsider := testutil.CreateTestUser(t, tc.DB)

		req := testutil.AuthenticatedRequest(t, "PUT", "/api/v1/teams/"+team.ID.String()+"/transfer/"+outsider.ID.String(), nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("transfer leadership", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "PUT", "/api/v1/teams/"+team.ID.String()+"/transfer/"+joiner.ID.String(), nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "Body: %s", rr.Body.String())

		var resp teamEnvelope
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, joiner.ID.String(), resp.Data.LeaderID)
	})

	t.Run("old leader can now leave", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "DELETE", "/api/v1/teams/"+team.ID.String()+"/leave", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "Body: %s", rr.Body.String())
	})

	t.Run("new leader removes nobody in particular", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "DELETE", "/api/v1/teams/"+team.ID.String()+"/members/"+uuid.New().String(), nil, joinerToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestTeamHandler_Update(t *testing.T) {
	router, tc := setupTeamTestRouter(t)
	defer tc.Cleanup()

	team := testutil.CreateTestTeam(t, tc.DB, tc.Hackathon.ID, tc.User.ID, 5)

	t.Run("leader edits the team", func(t *testing.T) {
		body := map[string]interface{}{
			"name":        "Renamed Crew",
			"description": "Now with a plan",
			"maxMembers":  3,
		}

		req := testutil.AuthenticatedRequest(t, "PUT", "/api/v1/teams/"+team.ID.String(), body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "Body: %s", rr.Body.String())

		var resp teamEnvelope
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "Renamed Crew", resp.Data.Name)
		assert.Equal(t, 3, resp.Data.MaxMembers)
	})

	t.Run("non-leader denied", func(t *testing.T) {
		other := testutil.CreateTestUser(t, tc.DB)
		token := testutil.GenerateTestToken(t, tc.JWTService, other)

		body := map[string]interface{}{"name": "Hijacked"}

		req := testutil.AuthenticatedRequest(t, "PUT", "/api/v1/teams/"+team.ID.String(), body, token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("capacity below roster", func(t *testing.T) {
		member := testutil.CreateTestUser(t, tc.DB)
		testutil.AddTeamMember(t, tc.DB, team.ID, member.ID)

		body := map[string]interface{}{"maxMembers": 1}

		req := testutil.AuthenticatedRequest(t, "PUT", "/api/v1/teams/"+team.ID.String(), body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}
