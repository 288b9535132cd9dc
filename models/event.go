package models

import "time"

// Event covers both virtual and physical happenings.
type Event struct {
	ID               string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Title            string    `json:"title" gorm:"not null"`
	Summary          string    `json:"summary" gorm:"not null"`
	Content          string    `json:"content" gorm:"type:text"`
	Image            string    `json:"image"`
	Type             string    `json:"type" gorm:"type:varchar(16);not null"` // virtual, physical
	Location         string    `json:"location,omitempty"`
	IsFeatured       bool      `json:"is_featured" gorm:"default:false"`
	EventDate        time.Time `json:"event_date" gorm:"not null;index"`
	Status           string    `json:"status" gorm:"type:varchar(16);default:'draft'"`
	RegistrationLink string    `json:"registration_link,omitempty"`
	SEO              SEO       `json:"seo" gorm:"embedded;embeddedPrefix:seo_"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
