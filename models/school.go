package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// School names are stored lowercase and must be unique.
type School struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	Country   string    `json:"country"`
	City      string    `json:"city"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (s *School) BeforeSave(tx *gorm.DB) error {
	s.Name = strings.ToLower(strings.TrimSpace(s.Name))
	return nil
}
