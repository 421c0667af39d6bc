package extraction

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumentor/readiness/internal/llm"
)

// cannedClient returns a fixed response or error.
type cannedClient struct {
	response string
	err      error
}

func (c *cannedClient) GenerateJSON(context.Context, string, llm.ModelTier) (string, error) {
	return c.response, c.err
}

func (c *cannedClient) Close() error { return nil }

func TestExtract_UsesLLMWhenAvailable(t *testing.T) {
	e := New(&cannedClient{response: `["Python", "Flask", "PostgreSQL"]`})

	got := e.Extract(context.Background(), "some job posting", "Backend Developer")
	assert.Equal(t, []string{"Python", "Flask", "PostgreSQL"}, got)
}

func TestExtract_FallsBackOnModelError(t *testing.T) {
	e := New(&cannedClient{err: assert.AnError})

	got := e.Extract(context.Background(), "We need python and docker experience", "")
	assert.Contains(t, got, "python")
	assert.Contains(t, got, "docker")
}

func TestExtract_FallsBackOnInvalidJSON(t *testing.T) {
	e := New(&cannedClient{response: `{"skills": "python"}`})

	got := e.Extract(context.Background(), "flask and redis required", "")
	assert.Contains(t, got, "flask")
	assert.Contains(t, got, "redis")
}

func TestExtract_NilClientIsRuleBased(t *testing.T) {
	e := New(nil)

	got := e.Extract(context.Background(), "experience with kafka, and more", "")
	assert.Contains(t, got, "kafka")
}

func TestBuildPrompt_TruncatesOnRuneBoundary(t *testing.T) {
	// A multi-byte character straddling the truncation point must not be
	// split into invalid UTF-8.
	text := strings.Repeat("a", maxPromptText-1) + strings.Repeat("日本語テキスト", 50)

	prompt := buildPrompt(text, "Backend Developer")
	assert.True(t, utf8.ValidString(prompt))
	assert.Less(t, len(prompt), len(text))
}

func TestBuildPrompt_ShortTextUnchanged(t *testing.T) {
	prompt := buildPrompt("python and flask", "")
	assert.Contains(t, prompt, "python and flask")
}

func TestExtractRuleBased_TechWords(t *testing.T) {
	got := ExtractRuleBased("Looking for Python and Docker engineers who know AWS")
	assert.Equal(t, []string{"aws", "docker", "python"}, got)
}

func TestExtractRuleBased_ContextPhrases(t *testing.T) {
	got := ExtractRuleBased("Requires experience with spring boot, and knowledge of terraform")
	assert.Contains(t, got, "spring boot")
	assert.Contains(t, got, "terraform")
}

func TestExtractRuleBased_EmptyText(t *testing.T) {
	assert.Empty(t, ExtractRuleBased(""))
	assert.Empty(t, ExtractRuleBased("nothing technical here at all"))
}

func TestExtractRuleBased_Deterministic(t *testing.T) {
	text := "python docker kubernetes experience with react, knowledge of sql basics"
	first := ExtractRuleBased(text)
	for i := 0; i < 3; i++ {
		require.Equal(t, first, ExtractRuleBased(text))
	}
}
