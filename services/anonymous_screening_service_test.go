package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validInfo() anonymousPersonalInfo {
	return anonymousPersonalInfo{
		FirstName:   "Amina",
		LastName:    "Okoro",
		Gender:      "female",
		Age:         17,
		CountryCode: "KE",
		CountryName: "Kenya",
	}
}

func TestValidatePersonalInfoAccepts(t *testing.T) {
	assert.NoError(t, validatePersonalInfo(validInfo()))

	info := validInfo()
	info.Age = 10
	assert.NoError(t, validatePersonalInfo(info), "lower age bound is inclusive")
	info.Age = 25
	assert.NoError(t, validatePersonalInfo(info), "upper age bound is inclusive")

	info = validInfo()
	info.Gender = "other"
	assert.NoError(t, validatePersonalInfo(info))
}

func TestValidatePersonalInfoRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*anonymousPersonalInfo)
	}{
		{"missing first name", func(i *anonymousPersonalInfo) { i.FirstName = "  " }},
		{"missing last name", func(i *anonymousPersonalInfo) { i.LastName = "" }},
		{"unknown gender", func(i *anonymousPersonalInfo) { i.Gender = "unspecified" }},
		{"empty gender", func(i *anonymousPersonalInfo) { i.Gender = "" }},
		{"too young", func(i *anonymousPersonalInfo) { i.Age = 9 }},
		{"too old", func(i *anonymousPersonalInfo) { i.Age = 26 }},
		{"missing country code", func(i *anonymousPersonalInfo) { i.CountryCode = "" }},
		{"missing country name", func(i *anonymousPersonalInfo) { i.CountryName = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			info := validInfo()
			tc.mutate(&info)
			assert.Error(t, validatePersonalInfo(info))
		})
	}
}
