package validator_test

import (
	"testing"

	"github.com/philly/snapgram/internal/platform/validator"
	"github.com/stretchr/testify/assert"
)

func TestValidateUsernameFormat(t *testing.T) {
	tests := []struct {
		username string
		want     error
	}{
		{"abc", nil},
		{"jane_doe_2024", nil},
		{"ab", validator.ErrUsernameLength},
		{"fourteen_chars", validator.ErrUsernameLength},
		{"has space", validator.ErrUsernameFormat},
		{"dash-ed", validator.ErrUsernameFormat},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			assert.Equal(t, tt.want, validator.ValidateUsernameFormat(tt.username))
		})
	}
}

func TestIsReservedUsername(t *testing.T) {
	assert.True(t, validator.IsReservedUsername("explore"))
	assert.True(t, validator.IsReservedUsername("Upload"))
	assert.True(t, validator.IsReservedUsername("home"))
	assert.True(t, validator.IsReservedUsername("search"))
	assert.False(t, validator.IsReservedUsername("homer"))
}

func TestRuneLengthBetween(t *testing.T) {
	assert.True(t, validator.RuneLengthBetween("héllo", 1, 5))
	assert.False(t, validator.RuneLengthBetween("", 1, 200))
	assert.False(t, validator.RuneLengthBetween("toolong", 1, 3))
}
