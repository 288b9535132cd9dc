package models

import "time"

// LeaderboardEntry is a derived row; it is computed from submissions and
// never persisted.
type LeaderboardEntry struct {
	UserID      string  `json:"user_id"`
	Name        string  `json:"name"`
	Points      float64 `json:"points"`
	Rank        int     `json:"rank"`
	ImageURL    string  `json:"image_url"`
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code"`
	School      string  `json:"school"`
	SchoolID    string  `json:"school_id"`
	Age         int     `json:"age,omitempty"`
}

// LeaderboardFilter selects the population and the slice of a leaderboard
// request. Contest and Screening are mutually exclusive scope selectors;
// when both are set, contest wins. Country and School are post-filters.
type LeaderboardFilter struct {
	Country   string
	School    string
	Contest   string
	Screening string
	Limit     int
	Offset    int
}

// LeaderboardResponse is the public query result. UpdatedAt reflects the
// last full cache refresh, not incremental updates.
type LeaderboardResponse struct {
	Leaderboard       []LeaderboardEntry `json:"leaderboard"`
	TotalParticipants int                `json:"total_participants"`
	TotalSchools      int                `json:"total_schools"`
	TotalCountries    int                `json:"total_countries"`
	UpdatedAt         time.Time          `json:"updated_at"`
}
