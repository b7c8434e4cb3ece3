package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text",
			input:    "  Cloud engineer with five years of experience.  ",
			expected: "Cloud engineer with five years of experience.",
		},
		{
			name:     "fenced block",
			input:    "```\nCloud engineer.\n```",
			expected: "Cloud engineer.",
		},
		{
			name:     "fenced block with language",
			input:    "```text\nCloud engineer.\n```",
			expected: "Cloud engineer.",
		},
		{
			name:     "echoed label",
			input:    "Rewritten Summary: Cloud engineer.",
			expected: "Cloud engineer.",
		},
		{
			name:     "wrapping quotes",
			input:    `"Cloud engineer."`,
			expected: "Cloud engineer.",
		},
		{
			name:     "inner quotes kept",
			input:    `Built the "golden path" platform.`,
			expected: `Built the "golden path" platform.`,
		},
		{
			name:     "empty",
			input:    "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}

func TestCleanText_BulletListUntouched(t *testing.T) {
	input := "- Automated deployments\n- Cut costs by 20%"
	assert.Equal(t, input, CleanText(input))
}
