// Package coherence evaluates topic quality with document-level
// Normalized Pointwise Mutual Information over topic keyword pairs.
//
// The tokenizer here is deliberately simpler than the modeling one: plain
// lowercase ASCII letter runs, no stopword removal. The asymmetry matches
// how the metric was validated and is kept on purpose.
package coherence

import (
	"math"
	"regexp"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// DefaultEpsilon is the floor applied to document probabilities so that
// log(0) never occurs.
const DefaultEpsilon = 1e-10

var coherenceToken = regexp.MustCompile(`\b[a-z]+\b`)

// Calculator computes NPMI from document co-occurrence probabilities.
type Calculator struct {
	epsilon float64
}

// NewCalculator creates a calculator with the given probability floor.
func NewCalculator(epsilon float64) *Calculator {
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	return &Calculator{epsilon: epsilon}
}

// NPMI computes normalized PMI from the joint and marginal document
// probabilities of a keyword pair.
//
//	PMI  = ln(c_ij) − ln(c_i) − ln(c_j)
//	NPMI = PMI / −ln(c_ij), or 0 when the pair co-occurs in every document
func (c *Calculator) NPMI(cij, ci, cj float64) float64 {
	ci = math.Max(ci, c.epsilon)
	cj = math.Max(cj, c.epsilon)
	cij = math.Max(cij, c.epsilon)

	if cij >= 1 {
		return 0.0
	}
	pmi := math.Log(cij) - math.Log(ci) - math.Log(cj)
	return pmi / -math.Log(cij)
}

// TokenSet reduces a document to its set of lowercase letter runs.
func TokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range coherenceToken.FindAllString(strings.ToLower(text), -1) {
		set[tok] = struct{}{}
	}
	return set
}

// Score is the per-topic and aggregate coherence result.
type Score struct {
	PerTopic []float64 // one entry per topic that had >= 2 keywords
	Mean     float64
}

// Evaluate computes mean NPMI per topic keyword list over docs. Topics
// with fewer than two keywords are skipped. The second return value is
// false when no topic produced a score.
func Evaluate(topicKeywords [][]string, docs []string, calc *Calculator) (Score, bool) {
	if calc == nil {
		calc = NewCalculator(DefaultEpsilon)
	}

	corpus := make([]map[string]struct{}, len(docs))
	for i, doc := range docs {
		corpus[i] = TokenSet(doc)
	}
	d := float64(len(corpus))
	if d == 0 {
		return Score{}, false
	}

	docCount := func(word string) int {
		n := 0
		for _, set := range corpus {
			if _, ok := set[word]; ok {
				n++
			}
		}
		return n
	}
	pairCount := func(w1, w2 string) int {
		n := 0
		for _, set := range corpus {
			if _, ok := set[w1]; !ok {
				continue
			}
			if _, ok := set[w2]; ok {
				n++
			}
		}
		return n
	}

	var perTopic []float64
	for _, keywords := range topicKeywords {
		words := keywords[:0:0]
		for _, w := range keywords {
			if w != "" {
				words = append(words, w)
			}
		}
		if len(words) < 2 {
			continue
		}

		var pairScores []float64
		for i := 0; i < len(words); i++ {
			ci := float64(docCount(words[i])) / d
			for j := i + 1; j < len(words); j++ {
				cj := float64(docCount(words[j])) / d
				cij := float64(pairCount(words[i], words[j])) / d
				pairScores = append(pairScores, calc.NPMI(cij, ci, cj))
			}
		}
		if len(pairScores) > 0 {
			perTopic = append(perTopic, stat.Mean(pairScores, nil))
		}
	}

	if len(perTopic) == 0 {
		return Score{}, false
	}
	return Score{PerTopic: perTopic, Mean: stat.Mean(perTopic, nil)}, true
}
