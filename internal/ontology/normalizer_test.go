package ontology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	onto, err := LoadDefault()
	require.NoError(t, err)
	n, err := NewNormalizer(onto)
	require.NoError(t, err)
	return n
}

func TestNormalize_OntologyMappingBasic(t *testing.T) {
	n := newTestNormalizer(t)

	got := n.Normalize([]string{"RESTful services", "API integration", "rest api development"})
	assert.Contains(t, got, "REST_API")
	// All three variants collapse onto one canonical id.
	assert.Len(t, got, 1)
}

func TestNormalize_SQLFamily(t *testing.T) {
	n := newTestNormalizer(t)

	got := n.Normalize([]string{"PostgreSQL", "relational database"})
	assert.Contains(t, got, "SQL")
	assert.Len(t, got, 1)
}

func TestNormalize_DedupePreservesFirstOccurrenceOrder(t *testing.T) {
	n := newTestNormalizer(t)

	got := n.Normalize([]string{"Docker", "Python", "docker", "python3", "Kubernetes"})
	assert.Equal(t, []string{"docker", "python", "kubernetes"}, got)
}

func TestNormalize_SkipsEmptyStrings(t *testing.T) {
	n := newTestNormalizer(t)

	got := n.Normalize([]string{"", "   ", "flask"})
	assert.Equal(t, []string{"flask"}, got)
}

func TestNormalize_UnknownSkillPassesThrough(t *testing.T) {
	n := newTestNormalizer(t)

	got := n.Normalize([]string{"underwater basket weaving"})
	require.Len(t, got, 1)
	// Kept verbatim (modulo lemmatization), not silently dropped.
	assert.Contains(t, got[0], "basket")
}

func TestNormalize_Deterministic(t *testing.T) {
	n := newTestNormalizer(t)

	input := []string{"Python", "REST APIs", "postgres", "made-up-skill", "docker containers"}
	first := n.Normalize(input)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, n.Normalize(input))
	}
}

func TestNormalize_CanonicalIDIsStable(t *testing.T) {
	n := newTestNormalizer(t)

	// Re-normalizing an emitted canonical id must return that same id.
	first := n.Normalize([]string{"RESTful services", "PostgreSQL", "pytorch"})
	again := n.Normalize(first)
	assert.Equal(t, first, again)
}

func TestNormalize_LongestSynonymWinsSubstringMatch(t *testing.T) {
	n := newTestNormalizer(t)

	// "rest api" must win over the shorter "api" inside a longer mention.
	got := n.Normalize([]string{"hands-on rest api design"})
	assert.Equal(t, []string{"REST_API"}, got)
}

func TestLoad_RejectsEmptyTable(t *testing.T) {
	_, err := Load(nil)
	require.Error(t, err)
}

func TestMatch_ExactBeatsSubstring(t *testing.T) {
	onto, err := Load(map[string][]string{
		"SQL":      {"sql", "postgresql"},
		"REST_API": {"rest api", "api"},
	})
	require.NoError(t, err)

	assert.Equal(t, "SQL", onto.Match("postgresql"))
	assert.Equal(t, "REST_API", onto.Match("rest api"))
	assert.Equal(t, "", onto.Match("haskell"))
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile("/nonexistent/ontology.json")
	require.Error(t, err)
}
