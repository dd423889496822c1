package validator_test

import (
	"strings"
	"testing"

	"github.com/philly/snapgram/internal/platform/validator"
	"github.com/stretchr/testify/assert"
)

func TestPlainTextClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "sunset over the bay", "sunset over the bay"},
		{"ampersand and apostrophe", "Tom & Jerry's", "Tom & Jerry's"},
		{"quotes", `she said "wow"`, `she said "wow"`},
		{"bare less-than", "i <3 this", "i <3 this"},
		{"literal entity text", "write &amp; for &", "write &amp; for &"},
		{"tags stripped", "<b>bold</b> move", "bold move"},
		{"script body dropped", "hi<script>alert(1)</script>", "hi"},
		{"attributes dropped", `hello <img src=x onerror=alert(1)>world`, "hello world"},
	}

	clean := validator.NewPlainText()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clean.Clean(tt.in))
		})
	}
}

func TestPlainTextCleanKeepsLength(t *testing.T) {
	in := strings.Repeat("'", 200)
	assert.Equal(t, in, validator.NewPlainText().Clean(in))
}
