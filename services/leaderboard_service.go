package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"youth-health-system/models"

	"github.com/go-co-op/gocron/v2"
)

const (
	globalKey            = "global"
	statsParticipantsKey = "stats:totalParticipants"
	statsSchoolsKey      = "stats:totalSchools"
	statsCountriesKey    = "stats:totalCountries"
	defaultCacheTTL      = 60 * time.Minute
	defaultStoreTimeout  = 30 * time.Second
)

// LeaderboardService aggregates contest and screening submissions into
// ranked leaderboards and keeps them cached. All leaderboards are refreshed
// on a timer; reads that miss the cache compute synchronously.
type LeaderboardService struct {
	store SubmissionStore
	users UserDirectory
	cache *leaderboardCache

	cacheTTL     time.Duration
	storeTimeout time.Duration

	sched gocron.Scheduler

	mu        sync.RWMutex
	updatedAt time.Time
}

func NewLeaderboardService(store SubmissionStore, users UserDirectory) *LeaderboardService {
	return &LeaderboardService{
		store:        store,
		users:        users,
		cache:        newLeaderboardCache(),
		cacheTTL:     defaultCacheTTL,
		storeTimeout: defaultStoreTimeout,
		updatedAt:    time.Now(),
	}
}

// WithCacheTTL overrides the cache TTL (and the refresh interval).
func (s *LeaderboardService) WithCacheTTL(ttl time.Duration) *LeaderboardService {
	s.cacheTTL = ttl
	return s
}

// WithStoreTimeout overrides the per-call store timeout used during refresh.
func (s *LeaderboardService) WithStoreTimeout(d time.Duration) *LeaderboardService {
	s.storeTimeout = d
	return s
}

// Start warms the cache with a full refresh, then schedules RefreshAll
// every cache-TTL interval until Stop is called.
func (s *LeaderboardService) Start(ctx context.Context) error {
	s.RefreshAll(ctx)

	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create leaderboard scheduler: %w", err)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(s.cacheTTL),
		gocron.NewTask(func() {
			log.Printf("[Leaderboard] Auto-refreshing caches at %s", time.Now().Format(time.RFC3339))
			s.RefreshAll(context.Background())
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule leaderboard refresh: %w", err)
	}
	sched.Start()
	s.sched = sched
	return nil
}

// Stop tears down the refresh loop. Safe to call when never started.
func (s *LeaderboardService) Stop() {
	if s.sched != nil {
		if err := s.sched.Shutdown(); err != nil {
			log.Printf("[Leaderboard] Scheduler shutdown error: %v", err)
		}
		s.sched = nil
	}
}

// UpdatedAt reports the time of the last full refresh.
func (s *LeaderboardService) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

func (s *LeaderboardService) setUpdatedAt(t time.Time) {
	s.mu.Lock()
	s.updatedAt = t
	s.mu.Unlock()
}

// RefreshAll recomputes the global leaderboard, derived statistics, and one
// leaderboard per competition that has submissions. Each target is isolated:
// a failure is logged and the remaining targets still run.
func (s *LeaderboardService) RefreshAll(ctx context.Context) {
	log.Println("[Leaderboard] Refreshing leaderboard caches...")

	global, err := s.calculateGlobalLeaderboard(ctx)
	if err != nil {
		log.Printf("[Leaderboard] Failed to refresh global leaderboard: %v", err)
	} else {
		s.cache.Set(globalKey, global, s.cacheTTL)
		s.refreshStatistics(global)
	}

	var wg sync.WaitGroup
	for _, kind := range []CompetitionKind{KindContest, KindScreening} {
		ids, err := s.listCompetitionIDs(ctx, kind)
		if err != nil {
			log.Printf("[Leaderboard] Failed to list %s ids: %v", kind, err)
			continue
		}
		for _, id := range ids {
			wg.Add(1)
			go func(kind CompetitionKind, id string) {
				defer wg.Done()
				board, err := s.calculateScopedLeaderboard(ctx, kind, id)
				if err != nil {
					log.Printf("[Leaderboard] Failed to refresh %s-%s: %v", kind, id, err)
					return
				}
				s.cache.Set(scopeKey(kind, id), board, s.cacheTTL)
			}(kind, id)
		}
	}
	wg.Wait()

	s.setUpdatedAt(time.Now())
	log.Println("[Leaderboard] Leaderboard caches refreshed")
}

// HandleNewSubmission recomputes only the affected competition's leaderboard
// plus the global one, so a single new submission does not trigger a full
// refresh. Called by the submission services after a successful create.
func (s *LeaderboardService) HandleNewSubmission(ctx context.Context, kind CompetitionKind, submissionID string) error {
	callCtx, cancel := s.timeoutCtx(ctx)
	sub, err := s.store.FindByID(callCtx, kind, submissionID)
	cancel()
	if err != nil {
		return err
	}
	if sub != nil {
		board, err := s.calculateScopedLeaderboard(ctx, kind, sub.CompetitionID)
		if err != nil {
			return err
		}
		s.cache.Set(scopeKey(kind, sub.CompetitionID), board, s.cacheTTL)
	}

	global, err := s.calculateGlobalLeaderboard(ctx)
	if err != nil {
		return err
	}
	s.cache.Set(globalKey, global, s.cacheTTL)
	s.refreshStatistics(global)
	return nil
}

// GetLeaderboard resolves a filter to a ranked, paginated slice plus global
// statistics. Contest scope wins when both contest and screening are set.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, filters models.LeaderboardFilter) (*models.LeaderboardResponse, error) {
	key := filterKey(filters)

	entries, ok := s.getEntries(key)
	if !ok {
		base, err := s.baseLeaderboard(ctx, filters)
		if err != nil {
			return nil, err
		}
		entries = applyAdditionalFilters(base, filters)
		s.cache.Set(key, entries, s.cacheTTL)
	}

	offset := filters.Offset
	if offset < 0 {
		offset = 0
	}
	limit := filters.Limit
	if limit <= 0 {
		limit = len(entries)
	}
	page := paginate(entries, offset, limit)

	participants, schools, countries := s.getStatistics(ctx)

	return &models.LeaderboardResponse{
		Leaderboard:       page,
		TotalParticipants: participants,
		TotalSchools:      schools,
		TotalCountries:    countries,
		UpdatedAt:         s.UpdatedAt(),
	}, nil
}

// baseLeaderboard returns the unfiltered board for the request's scope:
// fresh cache value first, then synchronous recomputation, then — only if
// recomputation fails — the last stale value. A cold cache with a failing
// store propagates the error.
func (s *LeaderboardService) baseLeaderboard(ctx context.Context, filters models.LeaderboardFilter) ([]models.LeaderboardEntry, error) {
	key := globalKey
	compute := s.calculateGlobalLeaderboard
	switch {
	case filters.Contest != "":
		key = scopeKey(KindContest, filters.Contest)
		compute = func(ctx context.Context) ([]models.LeaderboardEntry, error) {
			return s.calculateScopedLeaderboard(ctx, KindContest, filters.Contest)
		}
	case filters.Screening != "":
		key = scopeKey(KindScreening, filters.Screening)
		compute = func(ctx context.Context) ([]models.LeaderboardEntry, error) {
			return s.calculateScopedLeaderboard(ctx, KindScreening, filters.Screening)
		}
	}

	if entries, ok := s.getEntries(key); ok {
		return entries, nil
	}

	entries, err := compute(ctx)
	if err != nil {
		if stale, ok := s.cache.GetStale(key); ok {
			log.Printf("[Leaderboard] Serving stale %s after compute failure: %v", key, err)
			return stale.([]models.LeaderboardEntry), nil
		}
		return nil, err
	}
	s.cache.Set(key, entries, s.cacheTTL)
	return entries, nil
}

// calculateGlobalLeaderboard sums every user's contest and screening scores
// into one total per user.
func (s *LeaderboardService) calculateGlobalLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	callCtx, cancel := s.timeoutCtx(ctx)
	defer cancel()
	contestSubs, err := s.store.FindAll(callCtx, KindContest, "")
	if err != nil {
		return nil, err
	}
	screeningSubs, err := s.store.FindAll(callCtx, KindScreening, "")
	if err != nil {
		return nil, err
	}
	return s.computeLeaderboard(ctx, append(contestSubs, screeningSubs...))
}

func (s *LeaderboardService) listCompetitionIDs(ctx context.Context, kind CompetitionKind) ([]string, error) {
	callCtx, cancel := s.timeoutCtx(ctx)
	defer cancel()
	return s.store.DistinctCompetitionIDs(callCtx, kind)
}

// calculateScopedLeaderboard builds the board for one competition. The
// store's (user, competition) uniqueness means each user contributes a
// single submission here.
func (s *LeaderboardService) calculateScopedLeaderboard(ctx context.Context, kind CompetitionKind, competitionID string) ([]models.LeaderboardEntry, error) {
	callCtx, cancel := s.timeoutCtx(ctx)
	subs, err := s.store.FindAll(callCtx, kind, competitionID)
	cancel()
	if err != nil {
		return nil, err
	}
	return s.computeLeaderboard(ctx, subs)
}

// computeLeaderboard groups submissions by user, joins demographics in one
// batched directory call, and returns entries sorted by points descending
// with dense 1-based ranks. Ties order by user id for determinism. A user
// missing from the directory still gets an entry with default fields.
func (s *LeaderboardService) computeLeaderboard(ctx context.Context, subs []SubmissionRecord) ([]models.LeaderboardEntry, error) {
	points := make(map[string]float64, len(subs))
	for _, sub := range subs {
		points[sub.UserID] += sub.TotalScore
	}

	userIDs := make([]string, 0, len(points))
	for id := range points {
		userIDs = append(userIDs, id)
	}

	callCtx, cancel := s.timeoutCtx(ctx)
	users, err := s.users.FindByIDs(callCtx, userIDs)
	cancel()
	if err != nil {
		return nil, err
	}
	details := make(map[string]models.User, len(users))
	for _, u := range users {
		details[u.ID] = u
	}

	entries := make([]models.LeaderboardEntry, 0, len(points))
	for userID, total := range points {
		entry := models.LeaderboardEntry{UserID: userID, Points: total, Name: "Unknown"}
		if u, ok := details[userID]; ok {
			if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
				entry.Name = name
			}
			entry.ImageURL = u.ImageURL
			entry.Country = u.Country
			entry.CountryCode = u.CountryCode
			entry.Age = u.AgeYears(time.Now())
			if u.HighSchool != nil {
				entry.School = u.HighSchool.Name
				entry.SchoolID = u.HighSchool.ID
			}
		}
		entries = append(entries, entry)
	}

	sortAndRank(entries)
	return entries, nil
}

// refreshStatistics derives participant/school/country counts from the
// global leaderboard and caches them.
func (s *LeaderboardService) refreshStatistics(global []models.LeaderboardEntry) {
	schools := make(map[string]struct{})
	countries := make(map[string]struct{})
	for _, entry := range global {
		if entry.SchoolID != "" {
			schools[entry.SchoolID] = struct{}{}
		}
		if entry.Country != "" {
			countries[entry.Country] = struct{}{}
		}
	}
	s.cache.Set(statsParticipantsKey, len(global), s.cacheTTL)
	s.cache.Set(statsSchoolsKey, len(schools), s.cacheTTL)
	s.cache.Set(statsCountriesKey, len(countries), s.cacheTTL)
}

// getStatistics always reports against the global population, whatever
// scope the request asked for. When the cached stats are gone and the
// global board cannot be rebuilt, it degrades to zeros rather than failing
// a request that already has entries to serve.
func (s *LeaderboardService) getStatistics(ctx context.Context) (participants, schools, countries int) {
	p, okP := s.cache.Get(statsParticipantsKey)
	sc, okS := s.cache.Get(statsSchoolsKey)
	co, okC := s.cache.Get(statsCountriesKey)
	if okP && okS && okC {
		return p.(int), sc.(int), co.(int)
	}

	global, ok := s.getEntries(globalKey)
	if !ok {
		if stale, okStale := s.cache.GetStale(globalKey); okStale {
			global = stale.([]models.LeaderboardEntry)
		} else {
			computed, err := s.calculateGlobalLeaderboard(ctx)
			if err != nil {
				log.Printf("[Leaderboard] Failed to compute statistics: %v", err)
				return 0, 0, 0
			}
			global = computed
			s.cache.Set(globalKey, global, s.cacheTTL)
		}
	}
	s.refreshStatistics(global)

	schoolSet := make(map[string]struct{})
	countrySet := make(map[string]struct{})
	for _, entry := range global {
		if entry.SchoolID != "" {
			schoolSet[entry.SchoolID] = struct{}{}
		}
		if entry.Country != "" {
			countrySet[entry.Country] = struct{}{}
		}
	}
	return len(global), len(schoolSet), len(countrySet)
}

func (s *LeaderboardService) getEntries(key string) ([]models.LeaderboardEntry, bool) {
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	entries, ok := v.([]models.LeaderboardEntry)
	return entries, ok
}

func (s *LeaderboardService) timeoutCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}

// applyAdditionalFilters narrows a board by country and school, then
// reassigns dense ranks within the filtered set.
func applyAdditionalFilters(board []models.LeaderboardEntry, filters models.LeaderboardFilter) []models.LeaderboardEntry {
	filtered := make([]models.LeaderboardEntry, 0, len(board))
	for _, entry := range board {
		if filters.Country != "" && entry.Country != filters.Country {
			continue
		}
		if filters.School != "" && entry.SchoolID != filters.School {
			continue
		}
		filtered = append(filtered, entry)
	}
	sortAndRank(filtered)
	return filtered
}

func sortAndRank(entries []models.LeaderboardEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points == entries[j].Points {
			return entries[i].UserID < entries[j].UserID
		}
		return entries[i].Points > entries[j].Points
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
}

func paginate(entries []models.LeaderboardEntry, offset, limit int) []models.LeaderboardEntry {
	if offset >= len(entries) {
		return []models.LeaderboardEntry{}
	}
	end := offset + limit
	if end > len(entries) {
		end = len(entries)
	}
	return entries[offset:end]
}

func scopeKey(kind CompetitionKind, id string) string {
	return fmt.Sprintf("%s-%s", kind, id)
}

// filterKey builds the composite cache key for a filtered view.
func filterKey(filters models.LeaderboardFilter) string {
	parts := []string{"leaderboard"}
	if filters.Country != "" {
		parts = append(parts, "country-"+filters.Country)
	}
	if filters.School != "" {
		parts = append(parts, "school-"+filters.School)
	}
	if filters.Contest != "" {
		parts = append(parts, "contest-"+filters.Contest)
	} else if filters.Screening != "" {
		parts = append(parts, "screening-"+filters.Screening)
	}
	return strings.Join(parts, ":")
}
