package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrimLower(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "lowercases and trims",
			input:    []string{"  Passport ", "UTILITY BILL"},
			expected: []string{"passport", "utility bill"},
		},
		{
			name:     "case-insensitive dedupe preserving order",
			input:    []string{"Passport", "passport", "Visa", "PASSPORT"},
			expected: []string{"passport", "visa"},
		},
		{
			name:     "drops empty and whitespace-only entries",
			input:    []string{"", "  ", "id card"},
			expected: []string{"id card"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrimLower(tt.input))
		})
	}
}
