package collections

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Enigma", "enigma"},
		{"apostrophes and punctuation", "Tal Rasha's Wrappings!", "tal-rasha-s-wrappings"},
		{"symbol runs collapse", "A  --  B", "a-b"},
		{"leading and trailing symbols", "***Call to Arms***", "call-to-arms"},
		{"digits kept", "D2 Classic", "d2-classic"},
		{"empty input", "", "collection"},
		{"blank input", "   ", "collection"},
		{"all symbols", "!!!", "collection"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}
