// Package ontology maps free-text skill mentions to a canonical vocabulary.
//
// The ontology itself is a static mapping from canonical skill id to its known
// synonym phrases, loaded once (from the embedded definition or a file
// override) and read-only afterwards. Construct an Ontology explicitly and
// pass it to a Normalizer; there is no package-level mutable state.
package ontology

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

//go:embed skill_ontology.json
var defaultOntologyJSON []byte

// minSubstringSynonymLen guards the substring fallback against very short
// synonyms matching inside unrelated words ("go" inside "algorithms").
// Exact lookups are unaffected.
const minSubstringSynonymLen = 3

// Ontology is an immutable synonym table with a precomputed reverse index.
type Ontology struct {
	reverse map[string]string // lowercased synonym -> canonical id
	ordered []string          // synonyms for the substring pass, longest first
}

// Load builds an Ontology from a canonical-id -> synonyms mapping.
// Synonym matching is case-insensitive. Each canonical id also indexes its
// own lowercased form, so re-normalizing an already-canonical id returns
// that id unchanged.
func Load(table map[string][]string) (*Ontology, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("ontology table is empty")
	}

	o := &Ontology{reverse: make(map[string]string)}
	for canonical, synonyms := range table {
		if strings.TrimSpace(canonical) == "" {
			return nil, fmt.Errorf("ontology contains an empty canonical id")
		}
		o.index(strings.ToLower(canonical), canonical)
		for _, syn := range synonyms {
			syn = strings.ToLower(strings.TrimSpace(syn))
			if syn == "" {
				continue
			}
			o.index(syn, canonical)
		}
	}

	for syn := range o.reverse {
		if len(syn) >= minSubstringSynonymLen {
			o.ordered = append(o.ordered, syn)
		}
	}
	// Longest synonym first so "rest api" wins over "api"; lexicographic
	// tie-break keeps the pass deterministic.
	sort.Slice(o.ordered, func(i, j int) bool {
		if len(o.ordered[i]) != len(o.ordered[j]) {
			return len(o.ordered[i]) > len(o.ordered[j])
		}
		return o.ordered[i] < o.ordered[j]
	})

	return o, nil
}

// LoadDefault builds the Ontology from the embedded skill definition.
func LoadDefault() (*Ontology, error) {
	return loadJSON(defaultOntologyJSON)
}

// LoadFile builds an Ontology from a JSON file with the same shape as the
// embedded definition.
func LoadFile(path string) (*Ontology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ontology file %s: %w", path, err)
	}
	return loadJSON(data)
}

func loadJSON(data []byte) (*Ontology, error) {
	var table map[string][]string
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse ontology JSON: %w", err)
	}
	return Load(table)
}

func (o *Ontology) index(synonym, canonical string) {
	// First definition wins when two canonicals claim the same synonym.
	if _, exists := o.reverse[synonym]; !exists {
		o.reverse[synonym] = canonical
	}
}

// Match resolves a lowercased phrase to a canonical skill id.
// It tries the exact reverse index first, then substring matching against all
// known synonyms longest-first. Returns "" when nothing matches.
func (o *Ontology) Match(phrase string) string {
	if phrase == "" {
		return ""
	}
	if canonical, ok := o.reverse[phrase]; ok {
		return canonical
	}
	for _, syn := range o.ordered {
		if strings.Contains(phrase, syn) {
			return o.reverse[syn]
		}
	}
	return ""
}

// Size returns the number of indexed synonyms.
func (o *Ontology) Size() int {
	return len(o.reverse)
}
