package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatRegistrationNumber(t *testing.T) {
	cases := []struct {
		seq  int64
		want string
	}{
		{1, "0001"},
		{42, "0042"},
		{999, "0999"},
		{1000, "1000"},
		{12345, "12345"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatRegistrationNumber(tc.seq))
	}
}
