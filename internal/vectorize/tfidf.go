// Package vectorize provides TF-IDF document vectorization and cosine
// similarity for small in-memory corpora.
//
// The weighting reproduces the smoothed-idf scheme the readiness scores were
// calibrated against: idf = ln((1+n)/(1+df)) + 1 over raw term counts, with
// each document vector l2-normalized. Vocabularies are fit per call; the
// corpora here are tens of short skill documents, not a search index.
package vectorize

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// ErrEmptyVocabulary is returned when no document yields a single term.
var ErrEmptyVocabulary = fmt.Errorf("empty vocabulary: no terms survived tokenization")

// tokenPattern matches word tokens of at least two characters. Single-letter
// and pure-punctuation fragments carry no signal for skill text.
var tokenPattern = regexp.MustCompile(`\w\w+`)

// Vectorizer fits a TF-IDF vocabulary over a corpus and transforms the
// documents into weighted vectors. The zero value uses unigrams with no
// document-frequency cutoff.
type Vectorizer struct {
	// NGramMax extends the vocabulary to n-grams up to this size.
	// 0 and 1 both mean unigrams only.
	NGramMax int
	// MaxDocFreq drops terms appearing in more than this fraction of
	// documents (strictly greater). 0 disables the cutoff.
	MaxDocFreq float64
}

// Matrix holds the TF-IDF vectors for a fitted corpus, one row per input
// document, in input order. All rows share the same term dimension and are
// l2-normalized.
type Matrix struct {
	Rows  [][]float64
	Terms []string
}

// FitTransform builds the vocabulary over docs and returns their TF-IDF
// vectors. Returns ErrEmptyVocabulary when no term survives tokenization.
func (v *Vectorizer) FitTransform(docs []string) (*Matrix, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyVocabulary
	}

	tokenized := make([][]string, len(docs))
	for i, doc := range docs {
		tokenized[i] = v.tokenize(doc)
	}

	// Document frequency per term.
	df := make(map[string]int)
	for _, tokens := range tokenized {
		inDoc := make(map[string]bool, len(tokens))
		for _, tok := range tokens {
			inDoc[tok] = true
		}
		for tok := range inDoc {
			df[tok]++
		}
	}

	n := len(docs)
	maxDF := n
	if v.MaxDocFreq > 0 {
		maxDF = int(v.MaxDocFreq * float64(n))
	}

	terms := make([]string, 0, len(df))
	for term, freq := range df {
		if freq > maxDF {
			continue
		}
		terms = append(terms, term)
	}
	if len(terms) == 0 {
		return nil, ErrEmptyVocabulary
	}
	sort.Strings(terms)

	index := make(map[string]int, len(terms))
	for i, term := range terms {
		index[term] = i
	}

	idf := make([]float64, len(terms))
	for i, term := range terms {
		idf[i] = math.Log(float64(1+n)/float64(1+df[term])) + 1
	}

	rows := make([][]float64, n)
	for i, tokens := range tokenized {
		row := make([]float64, len(terms))
		for _, tok := range tokens {
			if j, ok := index[tok]; ok {
				row[j] += idf[j]
			}
		}
		if norm := floats.Norm(row, 2); norm > 0 {
			floats.Scale(1/norm, row)
		}
		rows[i] = row
	}

	return &Matrix{Rows: rows, Terms: terms}, nil
}

// tokenize lowercases a document and extracts its word tokens, appending
// n-grams when configured.
func (v *Vectorizer) tokenize(doc string) []string {
	unigrams := tokenPattern.FindAllString(strings.ToLower(doc), -1)
	if v.NGramMax < 2 || len(unigrams) < 2 {
		return unigrams
	}

	tokens := make([]string, 0, len(unigrams)*2)
	tokens = append(tokens, unigrams...)
	for size := 2; size <= v.NGramMax; size++ {
		for i := 0; i+size <= len(unigrams); i++ {
			tokens = append(tokens, strings.Join(unigrams[i:i+size], " "))
		}
	}
	return tokens
}

// Cosine returns the cosine similarity between two equal-length vectors,
// or 0 when either has zero magnitude.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	if normA == 0 || normB == 0 {
		return 0
	}
	return floats.Dot(a, b) / (normA * normB)
}
