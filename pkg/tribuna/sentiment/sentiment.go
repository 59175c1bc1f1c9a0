// Package sentiment scores statement text with the VADER lexicon-and-rule
// analyzer and maps compound polarity scores onto three-way labels.
//
// Scoring runs on the English variant of each statement; the lexicon is
// calibrated for English and local-language text would produce noise.
package sentiment

import (
	"log"

	"github.com/jonreiter/govader"
)

// Label values. The corpus and the gold set use the Albanian spellings.
const (
	LabelPositive = "Pozitiv"
	LabelNegative = "Negativ"
	LabelNeutral  = "Neutral"
)

// Default threshold constants for the score → label mapping.
const (
	DefaultPositiveThreshold = 0.05
	DefaultNegativeThreshold = -0.05
)

// Result is the score/label pair for a single text.
type Result struct {
	Score float64
	Label string
}

// Outcome carries a whole batch of results plus a degradation tag.
// When Degraded is true the analyzer was unavailable and every result is
// the conservative {0, Neutral} default; callers can distinguish a
// computed zero from a defaulted one.
type Outcome struct {
	Results  []Result
	Degraded bool
}

// Scorer wraps the VADER analyzer with configured label thresholds.
type Scorer struct {
	analyzer          *govader.SentimentIntensityAnalyzer
	positiveThreshold float64
	negativeThreshold float64
}

// NewScorer builds a Scorer. Thresholds must satisfy pos > 0 > neg;
// out-of-order values fall back to the defaults.
func NewScorer(positiveThreshold, negativeThreshold float64) *Scorer {
	if !(positiveThreshold > 0 && negativeThreshold < 0) {
		positiveThreshold = DefaultPositiveThreshold
		negativeThreshold = DefaultNegativeThreshold
	}
	return &Scorer{
		analyzer:          govader.NewSentimentIntensityAnalyzer(),
		positiveThreshold: positiveThreshold,
		negativeThreshold: negativeThreshold,
	}
}

// Score returns the compound polarity of text, in [-1, 1].
func (s *Scorer) Score(text string) float64 {
	return s.analyzer.PolarityScores(text).Compound
}

// Label maps a compound score onto a label using the configured thresholds.
func (s *Scorer) Label(score float64) string {
	switch {
	case score > s.positiveThreshold:
		return LabelPositive
	case score < s.negativeThreshold:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

// ScoreLabel scores text and labels it in one call.
func (s *Scorer) ScoreLabel(text string) Result {
	score := s.Score(text)
	return Result{Score: score, Label: s.Label(score)}
}

// Annotate scores a batch of texts. If the analyzer panics partway
// through, the entire batch degrades to {0, Neutral} — a corpus-level
// fallback, not a per-row retry — and the failure is logged once.
func (s *Scorer) Annotate(texts []string) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("sentiment: analyzer failed, degrading batch to neutral: %v", r)
			out = degradedOutcome(len(texts))
		}
	}()

	if s == nil || s.analyzer == nil {
		log.Printf("sentiment: analyzer unavailable, degrading batch to neutral")
		return degradedOutcome(len(texts))
	}

	results := make([]Result, len(texts))
	for i, text := range texts {
		results[i] = s.ScoreLabel(text)
	}
	return Outcome{Results: results}
}

func degradedOutcome(n int) Outcome {
	results := make([]Result, n)
	for i := range results {
		results[i] = Result{Score: 0.0, Label: LabelNeutral}
	}
	return Outcome{Results: results, Degraded: true}
}
