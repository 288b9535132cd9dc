package models

import (
	"fmt"
	"time"
)

// Counter is a named sequence; used to hand out human-readable
// registration numbers.
type Counter struct {
	ID  string `json:"id" gorm:"primaryKey"`
	Seq int64  `json:"seq" gorm:"not null;default:0"`
}

// FormatRegistrationNumber renders a sequence value as the zero-padded
// number printed on tickets ("0001", "0042", "12345").
func FormatRegistrationNumber(seq int64) string {
	return fmt.Sprintf("%04d", seq)
}

// EventRegistration ties a user to an event. One registration per
// (event, user) pair.
type EventRegistration struct {
	ID                 string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	RegistrationNumber string    `json:"registration_number" gorm:"uniqueIndex;not null"`
	EventID            string    `json:"event_id" gorm:"not null;index:idx_event_user_reg,unique"`
	UserID             string    `json:"user_id" gorm:"not null;index:idx_event_user_reg,unique"`
	Status             string    `json:"status" gorm:"type:varchar(16);default:'pending'"` // pending, confirmed, cancelled
	CreatedAt          time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Event *Event `json:"event,omitempty" gorm:"foreignKey:EventID"`
	User  *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
