package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"89991234567", "+7 (999) 123-45-67"},
		{"79991234567", "+7 (999) 123-45-67"},
		{"+7 999 123 45 67", "+7 (999) 123-45-67"},
		{"9991234567", "+7 (999) 123-45-67"},
		{"8999123456789", "+7 (999) 123-45-67"},
		{"999123", "+7 (999) 123"},
		{"99912345", "+7 (999) 123-45"},
		{"9991234", "+7 (999) 123-4"},
		{"999", "+7 (999"},
		{"99", "+7 (99"},
		{"", "—"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatPhone(tc.in), "input %q", tc.in)
	}
}
