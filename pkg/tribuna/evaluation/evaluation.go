// Package evaluation scores the sentiment pipeline against a
// hand-labeled gold set and the topic model against document-level NPMI
// coherence, then writes a structured results artifact.
package evaluation

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/civiclens/tribuna/pkg/tribuna/coherence"
	"github.com/civiclens/tribuna/pkg/tribuna/internalerr"
	"github.com/civiclens/tribuna/pkg/tribuna/sentiment"
	"github.com/civiclens/tribuna/pkg/tribuna/topics"
)

// DefaultCoherenceSample bounds how many corpus rows the coherence
// evaluation refits on.
const DefaultCoherenceSample = 500

// SentimentReport is the gold-set evaluation outcome.
type SentimentReport struct {
	Accuracy             float64  `json:"accuracy"`
	F1Macro              float64  `json:"f1_macro"`
	F1Weighted           float64  `json:"f1_weighted"`
	ClassificationReport string   `json:"classification_report"`
	ConfusionMatrix      [][]int  `json:"confusion_matrix"`
	Labels               []string `json:"labels"`
	NSamples             int      `json:"n_samples"`
}

// CoherenceReport is the topic-coherence evaluation outcome.
type CoherenceReport struct {
	NPMIMean  float64 `json:"npmi_mean"`
	NDocsUsed int     `json:"n_docs_used"`
}

// Results is the artifact written after each evaluation run; it
// overwrites the previous run's file.
type Results struct {
	RunID          string           `json:"run_id"`
	Sentiment      *SentimentReport `json:"sentiment,omitempty"`
	TopicCoherence *CoherenceReport `json:"topic_coherence,omitempty"`
}

// NewResults creates an artifact shell with a fresh run id.
func NewResults() *Results {
	return &Results{RunID: ulid.Make().String()}
}

// WriteFile serializes the artifact as indented JSON.
func (r *Results) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// NormalizeLabel maps a free-form gold label onto the three sentiment
// classes; unrecognized values default to Neutral.
func NormalizeLabel(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pozitiv", "positive", "pos":
		return sentiment.LabelPositive
	case "negativ", "negative", "neg":
		return sentiment.LabelNegative
	default:
		return sentiment.LabelNeutral
	}
}

// GoldRow is one hand-labeled example.
type GoldRow struct {
	Text      string
	GoldLabel string
}

// LoadGoldSet reads the gold CSV (columns Speech, GoldLabel), normalizes
// labels and drops rows with empty text. Missing file or missing columns
// return ErrEvalInputMissing.
func LoadGoldSet(path string) ([]GoldRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrEvalInputMissing, err)
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil || len(records) == 0 {
		return nil, fmt.Errorf("%w: malformed gold csv", internalerr.ErrEvalInputMissing)
	}

	textCol, labelCol := -1, -1
	for i, name := range records[0] {
		switch strings.TrimSpace(name) {
		case "Speech":
			textCol = i
		case "GoldLabel":
			labelCol = i
		}
	}
	if textCol < 0 || labelCol < 0 {
		return nil, fmt.Errorf("%w: gold csv must have Speech and GoldLabel columns", internalerr.ErrEvalInputMissing)
	}

	var rows []GoldRow
	for _, record := range records[1:] {
		if textCol >= len(record) {
			continue
		}
		text := strings.TrimSpace(record[textCol])
		if text == "" {
			continue
		}
		label := ""
		if labelCol < len(record) {
			label = record[labelCol]
		}
		rows = append(rows, GoldRow{Text: text, GoldLabel: NormalizeLabel(label)})
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no usable gold rows", internalerr.ErrEvalInputMissing)
	}
	return rows, nil
}

// EvaluateSentiment runs the scorer over the gold set and computes the
// full metric suite. A nil report (with a logged reason) means the
// evaluation was skipped; the rest of the system is unaffected.
func EvaluateSentiment(goldPath string, scorer *sentiment.Scorer) *SentimentReport {
	rows, err := LoadGoldSet(goldPath)
	if err != nil {
		log.Printf("evaluation: sentiment skipped: %v", err)
		return nil
	}

	yTrue := make([]string, len(rows))
	texts := make([]string, len(rows))
	for i, row := range rows {
		yTrue[i] = row.GoldLabel
		texts[i] = row.Text
	}

	out := scorer.Annotate(texts)
	yPred := make([]string, len(out.Results))
	for i, r := range out.Results {
		yPred[i] = r.Label
	}

	labels := UnionLabels(yTrue, yPred)
	macro, weighted := F1Scores(yTrue, yPred, labels)
	return &SentimentReport{
		Accuracy:             round4(Accuracy(yTrue, yPred)),
		F1Macro:              round4(macro),
		F1Weighted:           round4(weighted),
		ClassificationReport: ClassificationReport(yTrue, yPred, labels),
		ConfusionMatrix:      ConfusionMatrix(yTrue, yPred, labels),
		Labels:               labels,
		NSamples:             len(rows),
	}
}

// EvaluateTopicCoherence refits the topic model fresh on a bounded
// sample of docs — never the live model, so the result is independent of
// dashboard state — and computes mean NPMI over the extracted topics.
// Nil means too few documents or no scorable topic.
func EvaluateTopicCoherence(docs []string, maxRows int, cfg topics.Config) *CoherenceReport {
	if maxRows <= 0 {
		maxRows = DefaultCoherenceSample
	}
	if len(docs) > maxRows {
		docs = docs[:maxRows]
	}

	model, err := topics.Fit(docs, cfg)
	if err != nil {
		log.Printf("evaluation: coherence skipped: %v", err)
		return nil
	}
	if model == nil {
		log.Printf("evaluation: coherence skipped: too few documents")
		return nil
	}

	keywordLists := make([][]string, 0, len(model.Topics()))
	for _, topic := range model.Topics() {
		keywordLists = append(keywordLists, topic.Keywords)
	}

	score, ok := coherence.Evaluate(keywordLists, docs, nil)
	if !ok {
		log.Printf("evaluation: coherence skipped: no scorable topic")
		return nil
	}
	return &CoherenceReport{
		NPMIMean:  round4(score.Mean),
		NDocsUsed: len(docs),
	}
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
