package extraction

import (
	"regexp"
	"sort"
	"strings"
)

// techWords are explicit technology names the rule-based scan recognizes
// anywhere in the text.
var techWords = map[string]bool{
	"python": true, "java": true, "c++": true, "sql": true, "nosql": true,
	"mongo": true, "mongodb": true, "docker": true, "kubernetes": true,
	"aws": true, "tensorflow": true, "pytorch": true, "sklearn": true,
	"scikit-learn": true, "nlp": true, "rest": true, "graphql": true,
	"react": true, "nodejs": true, "flask": true, "django": true,
	"kafka": true, "redis": true, "linux": true, "git": true,
	"javascript": true, "typescript": true, "pandas": true, "numpy": true,
	"spark": true, "hadoop": true, "html": true, "css": true,
}

var (
	wordPattern = regexp.MustCompile(`[a-zA-Z+#-]+`)
	// Phrases like "experience with X, ..." or "knowledge of Y and ...".
	contextPatterns = []*regexp.Regexp{
		regexp.MustCompile(`experience with ([a-zA-Z0-9+#\- ]+)`),
		regexp.MustCompile(`knowledge of ([a-zA-Z0-9+#\- ]+)`),
		regexp.MustCompile(`proficiency in ([a-zA-Z0-9+#\- ]+)`),
	}
)

// ExtractRuleBased scans text for known technology words and skill phrases
// introduced by common requirement wording. Output is sorted for
// deterministic results.
func ExtractRuleBased(text string) []string {
	text = strings.ToLower(text)
	found := make(map[string]bool)

	for _, word := range wordPattern.FindAllString(text, -1) {
		if techWords[word] {
			found[word] = true
		}
	}

	for _, pattern := range contextPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			// Keep only the first comma-separated part; the rest is usually
			// sentence tail, not skill.
			part := strings.TrimSpace(strings.SplitN(match[1], ",", 2)[0])
			if part != "" {
				found[part] = true
			}
		}
	}

	skills := make([]string, 0, len(found))
	for s := range found {
		skills = append(skills, s)
	}
	sort.Strings(skills)
	return skills
}
