package models

import "time"

// Screening is a self-assessment health questionnaire. Structurally it
// mirrors Contest; submissions against it score the same way.
type Screening struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name        string    `json:"name" gorm:"not null"`
	Slug        string    `json:"slug" gorm:"uniqueIndex"`
	Description string    `json:"description" gorm:"type:text"`
	Status      string    `json:"status" gorm:"type:varchar(16);default:'active'"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Questions    []ScreeningQuestion    `json:"questions,omitempty" gorm:"foreignKey:ScreeningID"`
	Translations []ScreeningTranslation `json:"translations,omitempty" gorm:"foreignKey:ScreeningID"`

	// Calculated field (not stored in DB)
	TotalSubmissions int64 `json:"total_submissions,omitempty" gorm:"-"`
}

type ScreeningQuestion struct {
	ID          string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ScreeningID string `json:"screening_id" gorm:"not null;index"`
	Text        string `json:"text" gorm:"not null"`
	Type        string `json:"type" gorm:"type:varchar(16);default:'multiple'"`
	SortOrder   int    `json:"sort_order" gorm:"column:sort_order;default:0"`

	Options []ScreeningOption `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
}

type ScreeningOption struct {
	ID         string  `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	QuestionID string  `json:"question_id" gorm:"not null;index"`
	Text       string  `json:"text" gorm:"not null"`
	Score      float64 `json:"score" gorm:"default:0"`
}

type ScreeningTranslation struct {
	ID          string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ScreeningID string `json:"screening_id" gorm:"not null;index:idx_screening_lang,unique"`
	Language    string `json:"language" gorm:"type:varchar(8);not null;index:idx_screening_lang,unique"`
	Name        string `json:"name"`
	Description string `json:"description" gorm:"type:text"`
}
