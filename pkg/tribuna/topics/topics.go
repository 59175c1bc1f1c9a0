// Package topics extracts unsupervised themes from a statement corpus by
// factoring a TF-IDF term matrix with seeded non-negative matrix
// factorization. Each document is assigned its highest-activation
// component; each component is summarized by its top-weighted terms.
package topics

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/civiclens/tribuna/pkg/tribuna/internalerr"
)

// UnassignedTopic marks documents with no topic: the corpus was too small
// or the fit failed.
const UnassignedTopic = -1

// Config controls the vectorizer and the factorization.
type Config struct {
	NumTopics   int
	NumTopWords int
	MaxFeatures int
	MinDF       int
	MaxIter     int
	Seed        int64
}

// DefaultConfig mirrors the production dashboard settings.
func DefaultConfig() Config {
	return Config{
		NumTopics:   5,
		NumTopWords: 10,
		MaxFeatures: 5000,
		MinDF:       1,
		MaxIter:     1000,
		Seed:        42,
	}
}

// Topic is one extracted theme.
type Topic struct {
	ID       int
	Keywords []string // ordered by descending term weight
}

// KeywordsDisplay joins the keyword list for presentation.
func (t Topic) KeywordsDisplay() string {
	return strings.Join(t.Keywords, ", ")
}

// Result carries per-document assignments plus the topic summaries.
// Failed marks the whole-corpus fallback: every document unassigned with
// empty keywords, distinguishable from a legitimately tiny corpus only by
// the tag.
type Result struct {
	TopicIDs []int
	Keywords [][]string
	Topics   []Topic
	Failed   bool
}

// Model holds a fitted vectorizer/factorization pair for re-projection.
type Model struct {
	cfg Config
	vec *Vectorizer
	nmf *NMF

	topics []Topic
}

// Fit trains on the non-empty documents among docs. Fewer than two
// non-empty documents returns a nil model and no error: modeling is
// skipped, not broken.
func Fit(docs []string, cfg Config) (*Model, error) {
	nonEmpty := make([]string, 0, len(docs))
	for _, doc := range docs {
		if strings.TrimSpace(doc) != "" {
			nonEmpty = append(nonEmpty, doc)
		}
	}
	if len(nonEmpty) < 2 {
		return nil, nil
	}

	vec := &Vectorizer{MaxFeatures: cfg.MaxFeatures, MinDF: cfg.MinDF}
	if err := vec.Fit(nonEmpty); err != nil {
		return nil, err
	}
	tfidf := vec.Transform(nonEmpty)

	k := cfg.NumTopics
	if max := len(nonEmpty) - 1; k > max {
		k = max
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: no components to fit", internalerr.ErrModelUnavailable)
	}

	nmf := &NMF{K: k, MaxIter: cfg.MaxIter, Seed: cfg.Seed}
	if err := nmf.Fit(tfidf); err != nil {
		return nil, err
	}

	m := &Model{cfg: cfg, vec: vec, nmf: nmf}
	m.topics = m.extractTopics()
	return m, nil
}

// Topics returns the extracted topic summaries.
func (m *Model) Topics() []Topic {
	return m.topics
}

// Assign re-projects docs — including empty ones, which vectorize to
// all-zero rows — and assigns each the component with the highest
// activation. Ties resolve to the lowest component index.
func (m *Model) Assign(docs []string) ([]int, error) {
	tfidf := m.vec.Transform(docs)
	w, err := m.nmf.Transform(tfidf)
	if err != nil {
		return nil, err
	}

	rows, cols := w.Dims()
	ids := make([]int, rows)
	for i := 0; i < rows; i++ {
		best, bestVal := 0, w.At(i, 0)
		for j := 1; j < cols; j++ {
			if v := w.At(i, j); v > bestVal {
				best, bestVal = j, v
			}
		}
		ids[i] = best
	}
	return ids, nil
}

func (m *Model) extractTopics() []Topic {
	h := m.nmf.Components()
	kRows, nTerms := h.Dims()
	names := m.vec.FeatureNames()

	topN := m.cfg.NumTopWords
	if topN > nTerms {
		topN = nTerms
	}

	topics := make([]Topic, kRows)
	for k := 0; k < kRows; k++ {
		idx := make([]int, nTerms)
		for i := range idx {
			idx[i] = i
		}
		row := k
		sort.SliceStable(idx, func(a, b int) bool {
			return h.At(row, idx[a]) > h.At(row, idx[b])
		})
		keywords := make([]string, topN)
		for i := 0; i < topN; i++ {
			keywords[i] = names[idx[i]]
		}
		topics[k] = Topic{ID: k, Keywords: keywords}
	}
	return topics
}

// FitAssign is the corpus-annotation entry point: fit on docs, re-project
// the full list, attach keyword lists. Every failure path degrades the
// whole corpus to unassigned and is logged once; other features keep
// working.
func FitAssign(docs []string, cfg Config) Result {
	fallback := Result{
		TopicIDs: make([]int, len(docs)),
		Keywords: make([][]string, len(docs)),
	}
	for i := range fallback.TopicIDs {
		fallback.TopicIDs[i] = UnassignedTopic
	}

	model, err := Fit(docs, cfg)
	if err != nil {
		log.Printf("topics: model fit failed, corpus left unassigned: %v", err)
		fallback.Failed = true
		return fallback
	}
	if model == nil {
		// Under two non-empty documents: skipped, not failed.
		return fallback
	}

	ids, err := model.Assign(docs)
	if err != nil {
		log.Printf("topics: assignment failed, corpus left unassigned: %v", err)
		fallback.Failed = true
		return fallback
	}

	topics := model.Topics()
	keywords := make([][]string, len(docs))
	for i, id := range ids {
		if id >= 0 && id < len(topics) {
			keywords[i] = topics[id].Keywords
		}
	}
	return Result{TopicIDs: ids, Keywords: keywords, Topics: topics}
}
