package models

import "time"

// Resource is downloadable material (PDFs, toolkits, posters).
type Resource struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	FileURL     string    `json:"file_url" gorm:"not null"`
	Thumbnail   string    `json:"thumbnail"`
	CategoryID  *string   `json:"category_id,omitempty" gorm:"type:uuid;index"`
	Status      string    `json:"status" gorm:"type:varchar(16);default:'active'"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}
