package models

import "time"

// ContestSubmission is one user's scored attempt at one contest.
// The (contest, user) pair is unique — a user submits at most once.
type ContestSubmission struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ContestID   string    `json:"contest_id" gorm:"not null;index:idx_contest_user,unique;index:idx_contest_score"`
	UserID      string    `json:"user_id" gorm:"not null;index:idx_contest_user,unique"`
	TotalScore  float64   `json:"total_score" gorm:"not null;index:idx_contest_score,sort:desc"`
	SubmittedAt time.Time `json:"submitted_at" gorm:"autoCreateTime"`

	// Demographics captured at submission time; survives user deletion.
	Country  string  `json:"country" gorm:"index"`
	SchoolID *string `json:"school_id,omitempty" gorm:"type:uuid"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Contest *Contest `json:"contest,omitempty" gorm:"foreignKey:ContestID"`
	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// ScreeningSubmission mirrors ContestSubmission for screenings.
type ScreeningSubmission struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ScreeningID string    `json:"screening_id" gorm:"not null;index:idx_screening_user,unique;index:idx_screening_score"`
	UserID      string    `json:"user_id" gorm:"not null;index:idx_screening_user,unique"`
	TotalScore  float64   `json:"total_score" gorm:"not null;index:idx_screening_score,sort:desc"`
	SubmittedAt time.Time `json:"submitted_at" gorm:"autoCreateTime"`

	Country  string  `json:"country" gorm:"index"`
	SchoolID *string `json:"school_id,omitempty" gorm:"type:uuid"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Screening *Screening `json:"screening,omitempty" gorm:"foreignKey:ScreeningID"`
	User      *User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
