package models

import "time"

type News struct {
	ID         string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Title      string     `json:"title" gorm:"not null"`
	Summary    string     `json:"summary"`
	Content    string     `json:"content" gorm:"type:text;not null"`
	CoverImage string     `json:"cover_image"`
	Status     string     `json:"status" gorm:"type:varchar(16);default:'draft'"`
	PublishAt  *time.Time `json:"publish_at,omitempty"`
	SEO        SEO        `json:"seo" gorm:"embedded;embeddedPrefix:seo_"`
	CreatedAt  time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	Translations []NewsTranslation `json:"translations,omitempty" gorm:"foreignKey:NewsID"`
}

type NewsTranslation struct {
	ID       string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	NewsID   string `json:"news_id" gorm:"not null;index:idx_news_lang,unique"`
	Language string `json:"language" gorm:"type:varchar(8);not null;index:idx_news_lang,unique"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Content  string `json:"content" gorm:"type:text"`
}
