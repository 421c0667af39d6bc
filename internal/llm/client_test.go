package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiClient_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain json untouched", `{"skills": []}`, `{"skills": []}`},
		{"json fence", "```json\n[\"python\"]\n```", `["python"]`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fence with brace on first line", "```{\"a\": 1}```", `{"a": 1}`},
		{"whitespace trimmed", "  [1, 2]  ", "[1, 2]"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.input))
		})
	}
}
