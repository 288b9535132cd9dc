package models

import "time"

// AnonymousScreeningSubmission is a screening attempt from someone without
// an account. Demographics are captured inline instead of referencing a
// user, and individual answers are kept for research export.
type AnonymousScreeningSubmission struct {
	ID          string  `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ScreeningID string  `json:"screening_id" gorm:"not null;index"`
	TotalScore  float64 `json:"total_score" gorm:"not null"`

	FirstName    string `json:"first_name" gorm:"not null"`
	LastName     string `json:"last_name" gorm:"not null"`
	Email        string `json:"email,omitempty" gorm:"index"`
	Gender       string `json:"gender" gorm:"type:varchar(8);not null"` // male, female, other
	Age          int    `json:"age" gorm:"not null"`
	CountryCode  string `json:"country_code" gorm:"not null"`
	CountryName  string `json:"country_name" gorm:"not null"`
	SchoolName   string `json:"school_name,omitempty"`
	IsAmbassador bool   `json:"is_ambassador" gorm:"default:false"`

	SubmittedAt time.Time `json:"submitted_at" gorm:"autoCreateTime;index:,sort:desc"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Screening *Screening                 `json:"screening,omitempty" gorm:"foreignKey:ScreeningID"`
	Answers   []AnonymousScreeningAnswer `json:"answers,omitempty" gorm:"foreignKey:SubmissionID"`
}

// AnonymousScreeningAnswer is one question/answer pair inside an anonymous
// submission.
type AnonymousScreeningAnswer struct {
	ID           string  `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	SubmissionID string  `json:"submission_id" gorm:"not null;index"`
	Question     string  `json:"question" gorm:"not null"`
	Answer       string  `json:"answer" gorm:"not null"`
	Score        float64 `json:"score" gorm:"default:0"`
}
