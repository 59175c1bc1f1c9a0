// Package tfidf is the local fallback embedder: a corpus-fitted TF-IDF
// vectorizer producing L2-normalized vectors. It needs no network and no
// model download, which also makes it the embedder of choice in tests.
package tfidf

import (
	"context"
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Embedder is a TF-IDF embedder fitted on a fixed corpus.
type Embedder struct {
	vocab map[string]int
	idf   []float64
	dim   int
}

// NewEmbedder fits the vocabulary and IDF weights on corpus.
func NewEmbedder(corpus []string) (*Embedder, error) {
	if len(corpus) == 0 {
		return nil, errors.New("tfidf: empty corpus")
	}

	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return nil, errors.New("tfidf: no tokens in corpus")
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	e := &Embedder{
		vocab: make(map[string]int, len(terms)),
		idf:   make([]float64, len(terms)),
		dim:   len(terms),
	}
	n := float64(len(corpus))
	for i, term := range terms {
		e.vocab[term] = i
		e.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	return e, nil
}

// Dimension returns the vector dimensionality (the vocabulary size).
func (e *Embedder) Dimension() int { return e.dim }

// Encode embeds each text independently.
func (e *Embedder) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = e.embed(text)
	}
	return out, nil
}

func (e *Embedder) embed(text string) []float64 {
	vec := make([]float64, e.dim)
	var total float64
	for _, tok := range tokenize(text) {
		if idx, ok := e.vocab[tok]; ok {
			vec[idx]++
			total++
		}
	}
	if total == 0 {
		return vec
	}
	var norm float64
	for i := range vec {
		if vec[i] > 0 {
			vec[i] = vec[i] / total * e.idf[i]
			norm += vec[i] * vec[i]
		}
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

func tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}
