// Package extraction pulls raw skill mentions out of free text, using the
// LLM when available and a rule-based scan as fallback. Output is raw
// mentions; callers normalize them through the ontology.
package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/edumentor/readiness/internal/llm"
	"github.com/edumentor/readiness/internal/schemas"
)

// maxPromptText truncates very long postings before prompting.
const maxPromptText = 4000

// Extractor extracts skill mentions from text. A nil client makes it purely
// rule-based.
type Extractor struct {
	client llm.Client
}

// New creates an Extractor. client may be nil.
func New(client llm.Client) *Extractor {
	return &Extractor{client: client}
}

// Extract returns the raw skill mentions found in text. LLM extraction is
// attempted first; any failure (transport, malformed JSON, schema violation)
// falls back to the rule-based scan so ingestion never hard-fails on the
// model.
func (e *Extractor) Extract(ctx context.Context, text, role string) []string {
	if e.client != nil {
		skills, err := e.extractLLM(ctx, text, role)
		if err == nil {
			return skills
		}
		log.Printf("extraction: LLM extraction failed, using rule-based fallback: %v", err)
	}
	return ExtractRuleBased(text)
}

func (e *Extractor) extractLLM(ctx context.Context, text, role string) ([]string, error) {
	prompt := buildPrompt(text, role)

	raw, err := e.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	if err := schemas.Validate(schemas.ExtractedSkills, []byte(raw)); err != nil {
		return nil, fmt.Errorf("model returned invalid skill list: %w", err)
	}

	var skills []string
	if err := json.Unmarshal([]byte(raw), &skills); err != nil {
		return nil, fmt.Errorf("failed to parse skill list: %w", err)
	}
	return skills, nil
}

func buildPrompt(text, role string) string {
	if len(text) > maxPromptText {
		cut := maxPromptText
		// Back off to a rune boundary so the cut never splits a multi-byte
		// character.
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	var sb strings.Builder
	sb.WriteString("Extract technical skills, tools, frameworks, libraries, and core concepts from the following text. ")
	sb.WriteString("Return output as a JSON array of strings ONLY (e.g. [\"python\", \"flask\"]).\n\n")
	sb.WriteString("Text:\n")
	sb.WriteString(text)
	if role != "" {
		sb.WriteString("\nTarget role: ")
		sb.WriteString(role)
		sb.WriteString(".")
	}
	return sb.String()
}
