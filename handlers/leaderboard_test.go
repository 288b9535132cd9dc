package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"youth-health-system/models"
	"youth-health-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	subs []services.SubmissionRecord
}

func (s *stubStore) FindAll(_ context.Context, kind services.CompetitionKind, competitionID string) ([]services.SubmissionRecord, error) {
	if kind != services.KindContest {
		return nil, nil
	}
	var out []services.SubmissionRecord
	for _, sub := range s.subs {
		if competitionID == "" || sub.CompetitionID == competitionID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *stubStore) DistinctCompetitionIDs(context.Context, services.CompetitionKind) ([]string, error) {
	return nil, nil
}

func (s *stubStore) FindByID(context.Context, services.CompetitionKind, string) (*services.SubmissionRecord, error) {
	return nil, nil
}

func (s *stubStore) CountByCompetition(context.Context, services.CompetitionKind, string) (int64, error) {
	return int64(len(s.subs)), nil
}

type stubDirectory struct{}

func (stubDirectory) FindByIDs(_ context.Context, ids []string) ([]models.User, error) {
	users := make([]models.User, len(ids))
	for i, id := range ids {
		users[i] = models.User{ID: id, FirstName: "User", LastName: id, Country: "Kenya"}
	}
	return users, nil
}

func newTestApp() *fiber.App {
	store := &stubStore{subs: []services.SubmissionRecord{
		{ID: "s1", UserID: "u1", CompetitionID: "c1", TotalScore: 90},
		{ID: "s2", UserID: "u2", CompetitionID: "c1", TotalScore: 80},
		{ID: "s3", UserID: "u3", CompetitionID: "c1", TotalScore: 70},
	}}
	svc := services.NewLeaderboardService(store, stubDirectory{}).
		WithStoreTimeout(time.Second)

	app := fiber.New()
	SetupLeaderboardRoutes(app, NewLeaderboardHandler(svc))
	return app
}

func TestGetLeaderboardEndpoint(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("GET", "/leaderboard?limit=2", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body models.LeaderboardResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Leaderboard, 2)
	assert.Equal(t, "u1", body.Leaderboard[0].UserID)
	assert.Equal(t, 1, body.Leaderboard[0].Rank)
	assert.Equal(t, 3, body.TotalParticipants)
}

func TestGetLeaderboardEndpointOffsetPastEnd(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("GET", "/leaderboard?limit=10&offset=50", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body models.LeaderboardResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Empty(t, body.Leaderboard)
}

func TestGetLeaderboardEndpointRejectsBadParams(t *testing.T) {
	app := newTestApp()

	for _, query := range []string{"limit=0", "limit=abc", "offset=-1"} {
		req := httptest.NewRequest("GET", "/leaderboard?"+query, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode, query)
	}
}

func TestRefreshEndpoint(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("POST", "/admin/leaderboard/refresh", nil)
	req.Header.Set("X-User-ID", "admin-1")
	req.Header.Set("X-User-Roles", "admin")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestRefreshEndpointRequiresAdminRole(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("POST", "/admin/leaderboard/refresh", nil)
	req.Header.Set("X-User-ID", "u1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}
