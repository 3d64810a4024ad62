package util

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/claves/redmine-messenger/internal/types"
)

func TestUniqueStrings(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil input",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty input",
			input:    []string{},
			expected: nil,
		},
		{
			name:     "no duplicates",
			input:    []string{"#bugs", "#ops"},
			expected: []string{"#bugs", "#ops"},
		},
		{
			name:     "duplicates removed preserving order",
			input:    []string{"#bugs", "#ops", "#bugs", "#ops", "#dev"},
			expected: []string{"#bugs", "#ops", "#dev"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UniqueStrings(tt.input))
		})
	}
}

func TestUniqueUsers(t *testing.T) {
	jdoe := types.User{Login: "jdoe", DisplayName: "John Doe"}
	asmith := types.User{Login: "asmith", DisplayName: "Alice Smith"}

	tests := []struct {
		name     string
		input    []types.User
		expected []types.User
	}{
		{
			name:     "nil input",
			input:    nil,
			expected: nil,
		},
		{
			name:     "duplicate login kept once",
			input:    []types.User{jdoe, asmith, jdoe},
			expected: []types.User{jdoe, asmith},
		},
		{
			name:     "empty login dropped",
			input:    []types.User{{DisplayName: "Ghost"}, jdoe},
			expected: []types.User{jdoe},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UniqueUsers(tt.input))
		})
	}
}
