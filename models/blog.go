package models

import "time"

// SEO metadata embedded into content models.
type SEO struct {
	MetaTitle       string `json:"meta_title"`
	Slug            string `json:"slug" gorm:"index"`
	MetaDescription string `json:"meta_description"`
}

type Blog struct {
	ID         string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Title      string     `json:"title" gorm:"not null"`
	Content    string     `json:"content" gorm:"type:text;not null"`
	CoverImage string     `json:"cover_image"`
	CategoryID string     `json:"category_id" gorm:"type:uuid;not null;index"`
	Status     string     `json:"status" gorm:"type:varchar(16);default:'draft'"` // draft, scheduled, published
	PublishAt  *time.Time `json:"publish_at,omitempty"`
	SEO        SEO        `json:"seo" gorm:"embedded;embeddedPrefix:seo_"`
	CreatedAt  time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	Category     *Category         `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Translations []BlogTranslation `json:"translations,omitempty" gorm:"foreignKey:BlogID"`
}

type BlogTranslation struct {
	ID       string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	BlogID   string `json:"blog_id" gorm:"not null;index:idx_blog_lang,unique"`
	Language string `json:"language" gorm:"type:varchar(8);not null;index:idx_blog_lang,unique"`
	Title    string `json:"title"`
	Content  string `json:"content" gorm:"type:text"`
}
