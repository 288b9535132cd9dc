package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeforeSaveHashesPlaintextOnce(t *testing.T) {
	u := User{Password: "correct horse battery"}
	require.NoError(t, u.BeforeSave(nil))
	assert.NotEqual(t, "correct horse battery", u.Password)
	assert.True(t, u.CheckPassword("correct horse battery"))
	assert.False(t, u.CheckPassword("wrong"))

	// A second save must not re-hash the stored hash.
	hashed := u.Password
	require.NoError(t, u.BeforeSave(nil))
	assert.Equal(t, hashed, u.Password)
}

func TestBeforeSaveIgnoresEmptyPassword(t *testing.T) {
	u := User{}
	require.NoError(t, u.BeforeSave(nil))
	assert.Equal(t, "", u.Password)
	assert.False(t, u.CheckPassword(""))
}

func TestAgeYears(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		dob  *time.Time
		want int
	}{
		{"no dob", nil, 0},
		{"birthday passed", timePtr(time.Date(2008, 3, 1, 0, 0, 0, 0, time.UTC)), 18},
		{"birthday upcoming", timePtr(time.Date(2008, 9, 1, 0, 0, 0, 0, time.UTC)), 17},
		{"born today", timePtr(time.Date(2010, 6, 15, 0, 0, 0, 0, time.UTC)), 16},
		{"future dob clamps to zero", timePtr(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)), 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u := User{DOB: tc.dob}
			assert.Equal(t, tc.want, u.AgeYears(now))
		})
	}
}

func timePtr(t time.Time) *time.Time { return &t }
