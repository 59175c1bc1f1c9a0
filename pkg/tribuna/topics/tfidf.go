package topics

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// tokenPattern matches terms of at least two word characters,
// Unicode-aware. Single-character tokens carry no topical signal.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Vectorizer builds a TF-IDF weighted term-document representation with a
// bounded vocabulary, a minimum document-frequency cutoff and English
// stopword removal.
type Vectorizer struct {
	MaxFeatures int // 0 = unbounded
	MinDF       int // minimum document frequency, 0 treated as 1

	vocab map[string]int
	terms []string
	idf   []float64
}

// Tokenize lowercases and splits text into modeling terms, dropping
// stopwords.
func Tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := raw[:0]
	for _, tok := range raw {
		if isStopword(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Fit learns the vocabulary and IDF weights from docs.
func (v *Vectorizer) Fit(docs []string) error {
	minDF := v.MinDF
	if minDF < 1 {
		minDF = 1
	}

	df := make(map[string]int)
	totalTF := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, tok := range Tokenize(doc) {
			totalTF[tok]++
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	var terms []string
	for term, freq := range df {
		if freq >= minDF {
			terms = append(terms, term)
		}
	}
	if len(terms) == 0 {
		return fmt.Errorf("tfidf: empty vocabulary after pruning")
	}

	// Vocabulary cap keeps the most frequent terms, ties broken
	// alphabetically for determinism.
	if v.MaxFeatures > 0 && len(terms) > v.MaxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if totalTF[terms[i]] != totalTF[terms[j]] {
				return totalTF[terms[i]] > totalTF[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:v.MaxFeatures]
	}
	sort.Strings(terms)

	v.terms = terms
	v.vocab = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	n := float64(len(docs))
	for i, term := range terms {
		v.vocab[term] = i
		// Smoothed IDF, never zero.
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	return nil
}

// Transform produces the docs×terms TF-IDF matrix with L2-normalized
// rows. Documents with no in-vocabulary terms map to all-zero rows.
func (v *Vectorizer) Transform(docs []string) *mat.Dense {
	m := mat.NewDense(len(docs), len(v.terms), nil)
	for row, doc := range docs {
		tf := make(map[int]float64)
		for _, tok := range Tokenize(doc) {
			if col, ok := v.vocab[tok]; ok {
				tf[col]++
			}
		}
		if len(tf) == 0 {
			continue
		}
		var norm float64
		for col, count := range tf {
			w := count * v.idf[col]
			m.Set(row, col, w)
			norm += w * w
		}
		norm = math.Sqrt(norm)
		for col := range tf {
			m.Set(row, col, m.At(row, col)/norm)
		}
	}
	return m
}

// FeatureNames returns the vocabulary terms in column order.
func (v *Vectorizer) FeatureNames() []string {
	return v.terms
}
