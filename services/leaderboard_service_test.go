package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"youth-health-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	contest   []SubmissionRecord
	screening []SubmissionRecord
	err       error
}

func (f *fakeStore) FindAll(_ context.Context, kind CompetitionKind, competitionID string) ([]SubmissionRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var src []SubmissionRecord
	switch kind {
	case KindContest:
		src = f.contest
	case KindScreening:
		src = f.screening
	}
	if competitionID == "" {
		return append([]SubmissionRecord(nil), src...), nil
	}
	var out []SubmissionRecord
	for _, sub := range src {
		if sub.CompetitionID == competitionID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (f *fakeStore) DistinctCompetitionIDs(_ context.Context, kind CompetitionKind) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	var src []SubmissionRecord
	switch kind {
	case KindContest:
		src = f.contest
	case KindScreening:
		src = f.screening
	}
	seen := map[string]struct{}{}
	var ids []string
	for _, sub := range src {
		if _, ok := seen[sub.CompetitionID]; !ok {
			seen[sub.CompetitionID] = struct{}{}
			ids = append(ids, sub.CompetitionID)
		}
	}
	return ids, nil
}

func (f *fakeStore) FindByID(_ context.Context, kind CompetitionKind, id string) (*SubmissionRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var src []SubmissionRecord
	switch kind {
	case KindContest:
		src = f.contest
	case KindScreening:
		src = f.screening
	}
	for _, sub := range src {
		if sub.ID == id {
			s := sub
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CountByCompetition(_ context.Context, kind CompetitionKind, competitionID string) (int64, error) {
	subs, err := f.FindAll(context.Background(), kind, competitionID)
	return int64(len(subs)), err
}

type fakeDirectory struct {
	users []models.User
	err   error
}

func (f *fakeDirectory) FindByIDs(_ context.Context, ids []string) ([]models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	want := map[string]struct{}{}
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []models.User
	for _, u := range f.users {
		if _, ok := want[u.ID]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func kenyaHigh() *models.School {
	return &models.School{ID: "school-1", Name: "nairobi high", Country: "Kenya"}
}

func testUsers() []models.User {
	return []models.User{
		{ID: "user-a", FirstName: "Amina", LastName: "Odhiambo", Country: "Kenya", CountryCode: "KE", HighSchoolID: strPtr("school-1"), HighSchool: kenyaHigh()},
		{ID: "user-b", FirstName: "Brigitte", LastName: "Nsenga", Country: "Rwanda", CountryCode: "RW"},
		{ID: "user-c", FirstName: "", LastName: "", Country: "Kenya", CountryCode: "KE"},
	}
}

func strPtr(s string) *string { return &s }

func newTestService(store *fakeStore, dir *fakeDirectory) *LeaderboardService {
	return NewLeaderboardService(store, dir).WithStoreTimeout(time.Second)
}

func TestGetLeaderboardGlobalSumsBothKinds(t *testing.T) {
	store := &fakeStore{
		contest: []SubmissionRecord{
			{ID: "s1", UserID: "user-a", CompetitionID: "c1", TotalScore: 50},
			{ID: "s2", UserID: "user-b", CompetitionID: "c1", TotalScore: 80},
		},
		screening: []SubmissionRecord{
			{ID: "s3", UserID: "user-a", CompetitionID: "sc1", TotalScore: 40},
		},
	}
	svc := newTestService(store, &fakeDirectory{users: testUsers()})

	resp, err := svc.GetLeaderboard(context.Background(), models.LeaderboardFilter{})
	require.NoError(t, err)
	require.Len(t, resp.Leaderboard, 2)

	// user-a: 50 contest + 40 screening = 90, ahead of user-b's 80
	assert.Equal(t, "user-a", resp.Leaderboard[0].UserID)
	assert.Equal(t, 90.0, resp.Leaderboard[0].Points)
	assert.Equal(t, 1, resp.Leaderboard[0].Rank)
	assert.Equal(t, "Amina Odhiambo", resp.Leaderboard[0].Name)
	assert.Equal(t, "nairobi high", resp.Leaderboard[0].School)

	assert.Equal(t, "user-b", resp.Leaderboard[1].UserID)
	assert.Equal(t, 80.0, resp.Leaderboard[1].Points)
	assert.Equal(t, 2, resp.Leaderboard[1].Rank)
}

func TestGetLeaderboardTiesOrderByUserID(t *testing.T) {
	store := &fakeStore{
		contest: []SubmissionRecord{
			{ID: "s1", UserID: "user-b", CompetitionID: "c1", TotalScore: 70},
			{ID: "s2", UserID: "user-a", CompetitionID: "c1", TotalScore: 70},
		},
	}
	svc := newTestService(store, &fakeDirectory{users: testUsers()})

	resp, err := svc.GetLeaderboard(context.Background(), models.LeaderboardFilter{})
	require.NoError(t, err)
	require.Len(t, resp.Leaderboard, 2)
	assert.Equal(t, "user-a", resp.Leaderboard[0].UserID)
	assert.Equal(t, 1, resp.Leaderboard[0].Rank)
	assert.Equal(t, "user-b", resp.Leaderboard[1].UserID)
	assert.Equal(t, 2, resp.Leaderboard[1].Rank)
}

func TestGetLeaderboardContestScope(t *testing.T) {
	store := &fakeStore{
		contest: []SubmissionRecord{
			{ID: "s1", UserID: "user-a", CompetitionID: "c1", TotalScore: 50},
			{ID: "s2", UserID: "user-b", CompetitionID: "c2", TotalScore: 99},
		},
		screening: []SubmissionRecord{
			{ID: "s3", UserID: "user-a", CompetitionID: "sc1", TotalScore: 40},
		},
	}
	svc := newTestService(store, &fakeDirectory{users: testUsers()})

	resp, err := svc.GetLeaderboard(context.Background(), models.LeaderboardFilter{Contest: "c1"})
	require.NoError(t, err)
	require.Len(t, resp.Leaderboard, 1)
	assert.Equal(t, "user-a", resp.Leaderboard[0].UserID)
	// Scoped boards count only that competition's submission.
	assert.Equal(t, 50.0, resp.Leaderboard[0].Points)

	// Statistics still describe the whole population, not the scoped board.
	assert.Equal(t, 2, resp.TotalParticipants)
	assert.Equal(t, 2, resp.TotalCountries)
}

func TestGetLeaderboardScreeningScope(t *testing.T) {
	store := &fakeStore{
		contest: []SubmissionRecord{
			{ID: "s1", UserID: "user-c", CompetitionID: "c1", TotalScore: 30},
		},
		screening: []SubmissionRecord{
			{ID: "s2", UserID: "user-a", CompetitionID: "sc1", TotalScore: 40},
			{ID: "s3", UserID: "user-b", CompetitionID: "sc1", TotalScore: 60},
		},
	}
	svc := newTestService(store, &fakeDirectory{users: testUsers()})

	resp, err := svc.GetLeaderboard(context.Background(), models.LeaderboardFilter{Screening: "sc1"})
	require.NoError(t, err)
	require.Len(t, resp.Leaderboard, 2)
	assert.Equal(t, "user-b", resp.Leaderboard[0].UserID)
	assert.Equal(t, 60.0, resp.Leaderboard[0].Points)
	assert.Equal(t, "user-a", resp.Leaderboard[1].UserID)

	// Statistics still describe the whole population, not the scoped board.
	assert.Equal(t, 3, resp.TotalParticipants)
}

func TestGetLeaderboardContestWinsOverScreening(t *testing.T) {
	store := &fakeStore{
		contest: []SubmissionRecord{
			{ID: "s1", UserID: "user-a", CompetitionID: "c1", TotalScore: 50},
		},
		screening: []SubmissionRecord{
			{ID: "s2", UserID: "user-b", CompetitionID: "sc1", TotalScore: 60},
		},
	}
	svc := newTestService(store, &fakeDirectory{users: testUsers()})

	resp, err := svc.GetLeaderboard(context.Background(), models.LeaderboardFilter{Contest: "c1", Screening: "sc1"})
	require.NoError(t, err)
	require.Len(t, resp.Leaderboard, 1)
	assert.Equal(t, "user-a", resp.Leaderboard[0].UserID)
}

func TestGetLeaderboardCountryFilterReranks(t *testing.T) {
	store := &fakeStore{
		contest: []SubmissionRecord{
			{ID: "s1", UserID: "user-a", CompetitionID: "c1", TotalScore: 50},
			{ID: "s2", UserID: "user-b", CompetitionID: "c1", TotalScore: 80},
			{ID: "s3", UserID: "user-c", CompetitionID: "c2", TotalScore: 30},
		},
	}
	svc := newTestService(store, &fakeDirectory{users: testUsers()})

	resp, err := svc.GetLeaderboard(context.Background(), models.LeaderboardFilter{Country: "Kenya"})
	require.NoError(t, err)
	require.Len(t, resp.Leaderboard, 2)

	// user-b (Rwanda) is filtered out; remaining entries are re-ranked from 1.
	assert.Equal(t, "user-a", resp.Leaderboard[0].UserID)
	assert.Equal(t, 1, resp.Leaderboard[0].Rank)
	assert.Equal(t, "user-c", resp.Leaderboard[1].UserID)
	assert.Equal(t, 2, resp.Leaderboard[1].Rank)

	// Statistics still describe the whole population.
	assert.Equal(t, 3, resp.TotalParticipants)
	assert.Equal(t, 2, resp.TotalCountries)
	assert.Equal(t, 1, resp.TotalSchools)
}

func TestGetLeaderboardSchoolFilter(t *testing.T) {
	store := &fakeStore{
		contest: []SubmissionRecord{
			{ID: "s1", UserID: "user-a", CompetitionID: "c1", TotalScore: 50},
			{ID: "s2", UserID: "user-b", CompetitionID: "c1", TotalScore: 80},
		},
	}
	svc := newTestService(store, &fakeDirectory{users: testUsers()})

	resp, err := svc.GetLeaderboard(context.Background(), models.LeaderboardFilter{School: "school-1"})
	require.NoError(t, err)
	require.Len(t, resp.Leaderboard, 1)
	assert.Equal(t, "user-a", resp.Leaderboard[0].UserID)
	assert.Equal(t, 1, resp.Leaderboard[0].Rank)
}

func TestGetLeaderboardPagination(t *testing.T) {
	store := &fakeStore{
		contest: []SubmissionRecord{
			{ID: "s1", UserID: "user-a", CompetitionID: "c1", TotalScore: 90},
			{ID: "s2", UserID: "user-b", CompetitionID: "c1", TotalScore: 80},
			{ID: "s3", UserID: "user-c", CompetitionID: "c1", TotalScore: 70},
		},
	}
	svc := newTestService(store, &fakeDirectory{users: testUsers()})

	tests := []struct {
		name      string
		offset    int
		limit     int
		wantUsers []string
		wantRanks []int
	}{
		{name: "first page", offset: 0, limit: 2, wantUsers: []string{"user-a", "user-b"}, wantRanks: []int{1, 2}},
		{name: "second page keeps global ranks", offset: 2, limit: 2, wantUsers: []string{"user-c"}, wantRanks: []int{3}},
		{name: "offset past end", offset: 10, limit: 2, wantUsers: []string{}, wantRanks: []int{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := svc.GetLeaderboard(context.Background(), models.LeaderboardFilter{Offset: tc.offset, Limit: tc.limit})
			require.NoError(t, err)
			require.Len(t, resp.Leaderboard, len(tc.wantUsers))
			for i, want := range tc.wantUsers {
				assert.Equal(t, want, resp.Leaderboard[i].UserID)
				assert.Equal(t, tc.wantRanks[i], resp.Leaderboard[i].Rank)
			}
		})
	}
}

func TestGetLeaderboardUnknownUserFallback(t *testing.T) {
	store := &fakeStore{
		contest: []SubmissionRecord{
			{ID: "s1", UserID: "ghost", CompetitionID: "c1", TotalScore: 10},
			{ID: "s2", UserID: "user-c", CompetitionID: "c1", TotalScore: 20},
		},
	}
	svc := newTestService(store, &fakeDirectory{users: testUsers()})

	resp, err := svc.GetLeaderboard(context.Background(), models.LeaderboardFilter{})
	require.NoError(t, err)
	require.Len(t, resp.Leaderboard, 2)

	// user-c exists but has blank names; ghost has no profile at all.
	// Both fall back to "Unknown".
	assert.Equal(t, "Unknown", resp.Leaderboard[0].Name)
	assert.Equal(t, "Unknown", resp.Leaderboard[1].Name)
	assert.Equal(t, "Kenya", resp.Leaderboard[0].Country)
	assert.Equal(t, "", resp.Leaderboard[1].Country)
}

func TestGetLeaderboardEmptyStore(t *testing.T) {
	svc := newTestService(&fakeStore{}, &fakeDirectory{})

	resp, err := svc.GetLeaderboard(context.Background(), models.LeaderboardFilter{})
	require.NoError(t, err)
	assert.Empty(t, resp.Leaderboard)
	assert.Equal(t, 0, resp.TotalParticipants)
}

func TestGetLeaderboardColdStartFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	svc := newTestService(store, &fakeDirectory{})

	_, err := svc.GetLeaderboard(context.Background(), models.LeaderboardFilter{})
	require.Error(t, err)
}

func TestGetLeaderboardServesStaleAfterFailure(t *testing.T) {
	store := &fakeStore{
		contest: []SubmissionRecord{
			{ID: "s1", UserID: "user-a", CompetitionID: "c1", TotalScore: 50},
		},
	}
	svc := newTestService(store, &fakeDirectory{users: testUsers()}).
		WithCacheTTL(30 * time.Millisecond)

	resp, err := svc.GetLeaderboard(context.Background(), models.LeaderboardFilter{})
	require.NoError(t, err)
	require.Len(t, resp.Leaderboard, 1)

	// Let the cache expire, then break the store. The expired value must
	// still be served instead of an error.
	time.Sleep(50 * time.Millisecond)
	store.err = errors.New("connection refused")

	resp, err = svc.GetLeaderboard(context.Background(), models.LeaderboardFilter{})
	require.NoError(t, err)
	require.Len(t, resp.Leaderboard, 1)
	assert.Equal(t, "user-a", resp.Leaderboard[0].UserID)
}

func TestRefreshAllPopulatesScopedBoards(t *testing.T) {
	store := &fakeStore{
		contest: []SubmissionRecord{
			{ID: "s1", UserID: "user-a", CompetitionID: "c1", TotalScore: 50},
			{ID: "s2", UserID: "user-b", CompetitionID: "c2", TotalScore: 60},
		},
		screening: []SubmissionRecord{
			{ID: "s3", UserID: "user-a", CompetitionID: "sc1", TotalScore: 40},
		},
	}
	svc := newTestService(store, &fakeDirectory{users: testUsers()})

	before := svc.UpdatedAt()
	time.Sleep(time.Millisecond)
	svc.RefreshAll(context.Background())

	assert.True(t, svc.UpdatedAt().After(before))

	// global + 2 contests + 1 screening + 3 stats keys
	assert.Equal(t, 7, svc.cache.Len())

	board, ok := svc.getEntries(scopeKey(KindContest, "c2"))
	require.True(t, ok)
	require.Len(t, board, 1)
	assert.Equal(t, "user-b", board[0].UserID)
}

func TestRefreshAllIsolatesFailures(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	svc := newTestService(store, &fakeDirectory{})

	// Must not panic, and must still stamp the refresh time.
	before := svc.UpdatedAt()
	time.Sleep(time.Millisecond)
	svc.RefreshAll(context.Background())
	assert.True(t, svc.UpdatedAt().After(before))
	assert.Equal(t, 0, svc.cache.Len())
}

func TestHandleNewSubmissionUpdatesScopedAndGlobal(t *testing.T) {
	store := &fakeStore{
		contest: []SubmissionRecord{
			{ID: "s1", UserID: "user-a", CompetitionID: "c1", TotalScore: 50},
		},
	}
	svc := newTestService(store, &fakeDirectory{users: testUsers()})
	svc.RefreshAll(context.Background())

	store.contest = append(store.contest, SubmissionRecord{
		ID: "s2", UserID: "user-b", CompetitionID: "c1", TotalScore: 75,
	})
	require.NoError(t, svc.HandleNewSubmission(context.Background(), KindContest, "s2"))

	board, ok := svc.getEntries(scopeKey(KindContest, "c1"))
	require.True(t, ok)
	require.Len(t, board, 2)
	assert.Equal(t, "user-b", board[0].UserID)

	global, ok := svc.getEntries(globalKey)
	require.True(t, ok)
	assert.Len(t, global, 2)

	participants, _, _ := svc.getStatistics(context.Background())
	assert.Equal(t, 2, participants)
}

func TestHandleNewSubmissionUnknownIDStillRefreshesGlobal(t *testing.T) {
	store := &fakeStore{
		contest: []SubmissionRecord{
			{ID: "s1", UserID: "user-a", CompetitionID: "c1", TotalScore: 50},
		},
	}
	svc := newTestService(store, &fakeDirectory{users: testUsers()})

	require.NoError(t, svc.HandleNewSubmission(context.Background(), KindContest, "missing"))
	_, ok := svc.getEntries(globalKey)
	assert.True(t, ok)
}

func TestGetLeaderboardConcurrentMiss(t *testing.T) {
	store := &fakeStore{
		contest: []SubmissionRecord{
			{ID: "s1", UserID: "user-a", CompetitionID: "c1", TotalScore: 50},
			{ID: "s2", UserID: "user-b", CompetitionID: "c1", TotalScore: 80},
		},
	}
	svc := newTestService(store, &fakeDirectory{users: testUsers()})

	// Two racing cache misses must both succeed with identical boards;
	// whichever computed second just overwrote an equal value.
	results := make(chan *models.LeaderboardResponse, 2)
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			resp, err := svc.GetLeaderboard(context.Background(), models.LeaderboardFilter{})
			results <- resp
			errs <- err
		}()
	}
	first := <-results
	second := <-results
	require.NoError(t, <-errs)
	require.NoError(t, <-errs)
	assert.Equal(t, first.Leaderboard, second.Leaderboard)
}

func TestFilterKey(t *testing.T) {
	tests := []struct {
		name   string
		filter models.LeaderboardFilter
		want   string
	}{
		{"no filters", models.LeaderboardFilter{}, "leaderboard"},
		{"country", models.LeaderboardFilter{Country: "Kenya"}, "leaderboard:country-Kenya"},
		{"country and school", models.LeaderboardFilter{Country: "Kenya", School: "sch-9"}, "leaderboard:country-Kenya:school-sch-9"},
		{"contest", models.LeaderboardFilter{Contest: "c1"}, "leaderboard:contest-c1"},
		{"contest beats screening", models.LeaderboardFilter{Contest: "c1", Screening: "sc1"}, "leaderboard:contest-c1"},
		{"screening alone", models.LeaderboardFilter{Screening: "sc1"}, "leaderboard:screening-sc1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, filterKey(tc.filter))
		})
	}
}
