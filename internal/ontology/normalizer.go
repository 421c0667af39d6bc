package ontology

import (
	"fmt"
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
)

// stopWords are dropped from skill phrases before lemmatization. The set is
// deliberately small: skill mentions are short noun phrases, not prose.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true,
	"and": true, "or": true, "of": true, "in": true, "on": true, "at": true,
	"with": true, "for": true, "to": true, "by": true, "from": true,
	"is": true, "are": true, "be": true, "as": true,
}

// Normalizer maps raw skill mentions to canonical skill ids.
// It is pure and safe for concurrent use: the ontology and the lemmatizer
// dictionary are read-only after construction.
type Normalizer struct {
	ontology   *Ontology
	lemmatizer *golem.Lemmatizer
}

// NewNormalizer creates a Normalizer over the given ontology.
func NewNormalizer(o *Ontology) (*Normalizer, error) {
	if o == nil {
		return nil, fmt.Errorf("ontology is required")
	}

	lemmatizer, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("failed to load lemmatizer dictionary: %w", err)
	}

	return &Normalizer{ontology: o, lemmatizer: lemmatizer}, nil
}

// Normalize maps each raw skill string to a canonical skill id and returns
// the deduplicated result in first-occurrence order.
//
// Per input: lowercase and trim, drop stop-words, lemmatize the remaining
// tokens, then resolve the lemma phrase (and, failing that, the raw phrase)
// against the ontology. Unmatched skills pass through as their lemma phrase
// so they are not silently dropped. Empty strings are skipped.
func (n *Normalizer) Normalize(rawSkills []string) []string {
	out := make([]string, 0, len(rawSkills))
	seen := make(map[string]bool, len(rawSkills))

	for _, raw := range rawSkills {
		lowered := strings.ToLower(strings.TrimSpace(raw))
		if lowered == "" {
			continue
		}

		lemmaPhrase := n.lemmaPhrase(lowered)

		mapped := n.ontology.Match(lemmaPhrase)
		if mapped == "" {
			mapped = n.ontology.Match(lowered)
		}
		if mapped == "" {
			mapped = lemmaPhrase
		}
		if mapped == "" || seen[mapped] {
			continue
		}
		seen[mapped] = true
		out = append(out, mapped)
	}

	return out
}

// lemmaPhrase lowercases, strips stop-words, and lemmatizes a phrase token
// by token. Tokens unknown to the dictionary (tool names, acronyms) come
// back unchanged, which keeps the step deterministic.
func (n *Normalizer) lemmaPhrase(lowered string) string {
	fields := strings.Fields(lowered)
	lemmas := make([]string, 0, len(fields))
	for _, tok := range fields {
		if stopWords[tok] {
			continue
		}
		lemmas = append(lemmas, n.lemmatizer.Lemma(tok))
	}
	return strings.Join(lemmas, " ")
}
