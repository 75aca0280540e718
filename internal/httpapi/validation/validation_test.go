package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidUsername(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"plain username", "book_worm42", true},
		{"dots and plus", "first.last+tag", true},
		{"at sign", "user@host", true},
		{"reserved me", "me", false},
		{"reserved me uppercase", "ME", false},
		{"reserved me mixed case", "Me", false},
		{"spaces rejected", "two words", false},
		{"empty rejected", "", false},
		{"slash rejected", "a/b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidUsername(tt.value))
		})
	}
}

func TestValidSlug(t *testing.T) {
	assert.True(t, ValidSlug("sci-fi"))
	assert.True(t, ValidSlug("top_100"))
	assert.False(t, ValidSlug("no spaces"))
	assert.False(t, ValidSlug("no/slash"))
	assert.False(t, ValidSlug(""))
}

func TestValidYear(t *testing.T) {
	current := time.Now().Year()
	assert.True(t, ValidYear(current))
	assert.True(t, ValidYear(1888))
	assert.False(t, ValidYear(current+1))
}
