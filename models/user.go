package models

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is the platform profile. Authentication itself happens at the
// gateway; this service only reads/writes profile and demographic data.
type User struct {
	ID           string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	FirstName    string     `json:"first_name" gorm:"not null"`
	LastName     string     `json:"last_name" gorm:"not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null"`
	Password     string     `json:"-"`
	DOB          *time.Time `json:"dob,omitempty"`
	Gender       string     `json:"gender,omitempty" gorm:"type:varchar(8)"`
	Country      string     `json:"country"`
	CountryCode  string     `json:"country_code"`
	HighSchoolID *string    `json:"high_school_id,omitempty" gorm:"type:uuid;index"`
	ImageURL     string     `json:"image_url"`
	Role         string     `json:"role" gorm:"type:varchar(16);default:'user'"`     // user, admin, ambassador
	Status       string     `json:"status" gorm:"type:varchar(16);default:'active'"` // active, inactive, deleted
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	HighSchool *School `json:"high_school,omitempty" gorm:"foreignKey:HighSchoolID"`

	// Calculated from DOB, not stored
	Age int `json:"age,omitempty" gorm:"-"`
}

// BeforeSave hashes the password whenever a plaintext value is set.
// Already-hashed values carry the bcrypt prefix and are left alone.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Password == "" || strings.HasPrefix(u.Password, "$2a$") || strings.HasPrefix(u.Password, "$2b$") {
		return nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *User) AfterFind(tx *gorm.DB) error {
	u.Age = u.AgeYears(time.Now())
	return nil
}

// AgeYears returns the user's age at the given time, or 0 when DOB is unset.
func (u *User) AgeYears(now time.Time) int {
	if u.DOB == nil {
		return 0
	}
	age := now.Year() - u.DOB.Year()
	if now.YearDay() < u.DOB.YearDay() {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age
}

// CheckPassword compares a raw password against the stored hash.
func (u *User) CheckPassword(raw string) bool {
	if u.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(raw)) == nil
}
