// Package roadmap generates personalized weekly learning plans for the
// skills a student is missing or weak on.
package roadmap

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/edumentor/readiness/internal/llm"
	"github.com/edumentor/readiness/internal/schemas"
)

// langNames maps language codes to the names used in prompts. Unknown codes
// fall back to English.
var langNames = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"te": "Telugu",
}

// Overview summarizes the student's standing for the target role.
type Overview struct {
	TargetRole                string  `json:"target_role"`
	CurrentLevel              string  `json:"current_level"`
	EstimatedReadinessPercent float64 `json:"estimated_readiness_percent"`
	Summary                   string  `json:"summary"`
}

// Week is one entry of the weekly plan.
type Week struct {
	Week            int      `json:"week"`
	Focus           string   `json:"focus"`
	Goals           []string `json:"goals"`
	Tasks           []string `json:"tasks"`
	ExpectedOutcome string   `json:"expected_outcome"`
}

// Roadmap is the full generated learning plan.
type Roadmap struct {
	Overview            Overview `json:"overview"`
	MissingOrWeakSkills []string `json:"missing_or_weak_skills"`
	WeeklyRoadmap       []Week   `json:"weekly_roadmap"`
	FinalGuidance       string   `json:"final_guidance"`
}

// Request carries the inputs for roadmap generation.
type Request struct {
	MissingSkills []string
	TargetRole    string
	HoursPerWeek  int
	Weeks         int
	Lang          string
}

// Generator produces roadmaps through an LLM client.
type Generator struct {
	client llm.Client
}

// New creates a Generator.
func New(client llm.Client) *Generator {
	return &Generator{client: client}
}

// Generate asks the model for a weekly roadmap and validates the response
// against the roadmap schema before decoding it.
func (g *Generator) Generate(ctx context.Context, req Request) (*Roadmap, error) {
	if req.HoursPerWeek <= 0 {
		req.HoursPerWeek = 10
	}
	if req.Weeks <= 0 {
		req.Weeks = 8
	}

	raw, err := g.client.GenerateJSON(ctx, buildPrompt(req), llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("roadmap generation failed: %w", err)
	}

	if err := schemas.Validate(schemas.Roadmap, []byte(raw)); err != nil {
		return nil, fmt.Errorf("model returned invalid roadmap: %w", err)
	}

	var rm Roadmap
	if err := json.Unmarshal([]byte(raw), &rm); err != nil {
		return nil, fmt.Errorf("failed to parse roadmap: %w", err)
	}
	return &rm, nil
}

// ExplainScore returns a short non-technical explanation of a readiness
// score and its top gaps, in the requested language.
func (g *Generator) ExplainScore(ctx context.Context, readinessPct float64, gaps map[string]float64, lang string) (string, error) {
	prompt := fmt.Sprintf(
		"Explain in short, non-technical terms why the readiness is %.1f%% and summarize top skill gaps: %v. "+
			"IMPORTANT: Respond ONLY in %s. Keep it actionable and friendly.",
		readinessPct, gaps, langName(lang))

	text, err := g.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return "", fmt.Errorf("score explanation failed: %w", err)
	}
	return text, nil
}

func langName(code string) string {
	if name, ok := langNames[code]; ok {
		return name
	}
	return "English"
}

func buildPrompt(req Request) string {
	var sb strings.Builder
	sb.WriteString("You are an academic and career mentor system used inside a backend service.\n")
	sb.WriteString("Your response will be parsed as JSON by the backend.\n")
	fmt.Fprintf(&sb, "IMPORTANT: All descriptive values in the JSON MUST be written in %s.\n\n", langName(req.Lang))
	sb.WriteString("TASK:\n")
	sb.WriteString("Based on the student's current skills and target job role, generate a personalized WEEKLY LEARNING ROADMAP that is easy for an undergraduate student to understand.\n\n")
	sb.WriteString("OUTPUT RULES:\n")
	sb.WriteString("1. Output must be valid JSON only, no markdown or code fences\n")
	sb.WriteString("2. Use double quotes for all keys and string values\n")
	sb.WriteString("3. Response must start with { and end with }\n\n")
	sb.WriteString("JSON STRUCTURE (FOLLOW EXACTLY):\n\n")
	sb.WriteString(`{
  "overview": {
    "target_role": "<string>",
    "current_level": "<beginner | intermediate | advanced>",
    "estimated_readiness_percent": <number between 0 and 100>,
    "summary": "<friendly explanation in target language>"
  },
  "missing_or_weak_skills": ["skill1", "skill2"],
  "weekly_roadmap": [
    {
      "week": 1,
      "focus": "<topic in target language>",
      "goals": ["<goal in target language>"],
      "tasks": ["<task in target language>"],
      "expected_outcome": "<outcome in target language>"
    }
  ],
  "final_guidance": "<short motivational advice in target language>"
}

`)
	fmt.Fprintf(&sb, "CONTEXT:\nTarget Role: %s\n", req.TargetRole)
	fmt.Fprintf(&sb, "Missing Skills: %s\n", strings.Join(req.MissingSkills, ", "))
	fmt.Fprintf(&sb, "Language: %s\n", langName(req.Lang))
	fmt.Fprintf(&sb, "Time Constraint: %d weeks, %d hours/week.", req.Weeks, req.HoursPerWeek)
	return sb.String()
}
