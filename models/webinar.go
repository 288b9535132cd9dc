package models

import "time"

type Webinar struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	Image       string    `json:"image"`
	VideoURL    string    `json:"video_url"`
	Presenter   string    `json:"presenter"`
	HeldAt      time.Time `json:"held_at"`
	Status      string    `json:"status" gorm:"type:varchar(16);default:'draft'"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
