package vectorize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitTransform_IdenticalDocsFullSimilarity(t *testing.T) {
	v := &Vectorizer{}
	m, err := v.FitTransform([]string{"python flask sql", "python flask sql"})
	require.NoError(t, err)
	require.Len(t, m.Rows, 2)

	assert.InDelta(t, 1.0, Cosine(m.Rows[0], m.Rows[1]), 1e-9)
}

func TestFitTransform_DisjointDocsZeroSimilarity(t *testing.T) {
	v := &Vectorizer{}
	m, err := v.FitTransform([]string{"python flask", "react javascript"})
	require.NoError(t, err)

	assert.InDelta(t, 0.0, Cosine(m.Rows[0], m.Rows[1]), 1e-9)
}

func TestFitTransform_PartialOverlap(t *testing.T) {
	v := &Vectorizer{}
	m, err := v.FitTransform([]string{"python flask mongodb", "python"})
	require.NoError(t, err)

	sim := Cosine(m.Rows[0], m.Rows[1])
	assert.Greater(t, sim, 0.0)
	assert.Less(t, sim, 1.0)
}

func TestFitTransform_EmptyVocabulary(t *testing.T) {
	v := &Vectorizer{}
	_, err := v.FitTransform([]string{"", "  ", "! ?"})
	assert.ErrorIs(t, err, ErrEmptyVocabulary)
}

func TestFitTransform_SingleCharTokensDropped(t *testing.T) {
	v := &Vectorizer{}
	// "c" is a single-character token and never enters the vocabulary.
	_, err := v.FitTransform([]string{"c", "c"})
	assert.ErrorIs(t, err, ErrEmptyVocabulary)
}

func TestFitTransform_Bigrams(t *testing.T) {
	v := &Vectorizer{NGramMax: 2}
	m, err := v.FitTransform([]string{"rest api design"})
	require.NoError(t, err)

	assert.Contains(t, m.Terms, "rest api")
	assert.Contains(t, m.Terms, "api design")
	assert.Contains(t, m.Terms, "rest")
}

func TestFitTransform_MaxDocFreqPrunesNearStopwords(t *testing.T) {
	v := &Vectorizer{MaxDocFreq: 0.5}
	docs := []string{
		"engineer python",
		"engineer react",
		"engineer pandas",
		"engineer kafka",
	}
	m, err := v.FitTransform(docs)
	require.NoError(t, err)

	// "engineer" appears in every document and is pruned.
	assert.NotContains(t, m.Terms, "engineer")
	assert.Contains(t, m.Terms, "python")
}

func TestFitTransform_RowsAreUnitNorm(t *testing.T) {
	v := &Vectorizer{}
	m, err := v.FitTransform([]string{"python sql docker", "sql"})
	require.NoError(t, err)

	for _, row := range m.Rows {
		var sum float64
		for _, x := range row {
			sum += x * x
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestCosine_ZeroVectorGuard(t *testing.T) {
	assert.Equal(t, 0.0, Cosine([]float64{0, 0}, []float64{1, 0}))
	assert.Equal(t, 0.0, Cosine([]float64{1}, []float64{1, 0}))
	assert.Equal(t, 0.0, Cosine(nil, nil))
}

func TestFitTransform_Deterministic(t *testing.T) {
	v := &Vectorizer{NGramMax: 2, MaxDocFreq: 0.9}
	docs := []string{"python backend flask", "react frontend", "pandas spark sql"}

	first, err := v.FitTransform(docs)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := v.FitTransform(docs)
		require.NoError(t, err)
		assert.Equal(t, first.Terms, again.Terms)
		assert.Equal(t, first.Rows, again.Rows)
	}
}
