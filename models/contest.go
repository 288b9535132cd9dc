package models

import "time"

// Contest is a scored quiz-style competition.
type Contest struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name        string    `json:"name" gorm:"not null"`
	Slug        string    `json:"slug" gorm:"uniqueIndex"`
	Description string    `json:"description" gorm:"type:text"`
	Status      string    `json:"status" gorm:"type:varchar(16);default:'active'"` // active, inactive
	ImageURL    string    `json:"image_url"`
	FromDate    time.Time `json:"from_date"`
	ToDate      time.Time `json:"to_date"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Questions    []ContestQuestion    `json:"questions,omitempty" gorm:"foreignKey:ContestID"`
	Translations []ContestTranslation `json:"translations,omitempty" gorm:"foreignKey:ContestID"`

	// Calculated fields (not stored in DB)
	TotalSubmissions int64   `json:"total_submissions,omitempty" gorm:"-"`
	AverageScore     float64 `json:"average_score,omitempty" gorm:"-"`
}

// ContestQuestion is one quiz question; options carry the score weights.
type ContestQuestion struct {
	ID        string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ContestID string `json:"contest_id" gorm:"not null;index"`
	Text      string `json:"text" gorm:"not null"`
	Type      string `json:"type" gorm:"type:varchar(16);default:'multiple'"` // multiple, dropdown
	SortOrder int    `json:"sort_order" gorm:"column:sort_order;default:0"`

	Options []ContestOption `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
}

type ContestOption struct {
	ID         string  `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	QuestionID string  `json:"question_id" gorm:"not null;index"`
	Text       string  `json:"text" gorm:"not null"`
	Score      float64 `json:"score" gorm:"default:0"`
}

// ContestTranslation holds machine-translated copy for one language.
type ContestTranslation struct {
	ID          string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ContestID   string `json:"contest_id" gorm:"not null;index:idx_contest_lang,unique"`
	Language    string `json:"language" gorm:"type:varchar(8);not null;index:idx_contest_lang,unique"`
	Name        string `json:"name"`
	Description string `json:"description" gorm:"type:text"`
}
