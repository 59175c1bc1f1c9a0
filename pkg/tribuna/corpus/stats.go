package corpus

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// SpeakerSummary aggregates per-speaker metrics for comparison views.
type SpeakerSummary struct {
	Speaker       string         `json:"speaker"`
	Statements    int            `json:"statements"`
	MeanSentiment float64        `json:"mean_sentiment"`
	MeanDiversity float64        `json:"mean_diversity"`
	MeanWordCount float64        `json:"mean_word_count"`
	LabelCounts   map[string]int `json:"label_counts"`
}

// Overview summarizes the whole (possibly filtered) corpus.
type Overview struct {
	Statements    int            `json:"statements"`
	Speakers      int            `json:"speakers"`
	MeanSentiment float64        `json:"mean_sentiment"`
	MeanDiversity float64        `json:"mean_diversity"`
	LabelCounts   map[string]int `json:"label_counts"`
	TopicCounts   map[int]int    `json:"topic_counts"`
}

// SpeakerSummaries groups stmts by speaker, sorted by descending
// statement count then name.
func SpeakerSummaries(stmts []Statement) []SpeakerSummary {
	groups := make(map[string][]Statement)
	for _, s := range stmts {
		groups[s.Speaker] = append(groups[s.Speaker], s)
	}

	summaries := make([]SpeakerSummary, 0, len(groups))
	for speaker, group := range groups {
		summaries = append(summaries, SpeakerSummary{
			Speaker:       speaker,
			Statements:    len(group),
			MeanSentiment: meanOf(group, func(s Statement) float64 { return s.SentimentScore }),
			MeanDiversity: meanOf(group, func(s Statement) float64 { return s.LexicalDiversity }),
			MeanWordCount: meanOf(group, func(s Statement) float64 { return float64(s.WordCount) }),
			LabelCounts:   labelCounts(group),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Statements != summaries[j].Statements {
			return summaries[i].Statements > summaries[j].Statements
		}
		return summaries[i].Speaker < summaries[j].Speaker
	})
	return summaries
}

// Summarize computes the corpus overview.
func Summarize(stmts []Statement) Overview {
	speakers := make(map[string]struct{})
	topicCounts := make(map[int]int)
	for _, s := range stmts {
		speakers[s.Speaker] = struct{}{}
		topicCounts[s.TopicID]++
	}
	return Overview{
		Statements:    len(stmts),
		Speakers:      len(speakers),
		MeanSentiment: meanOf(stmts, func(s Statement) float64 { return s.SentimentScore }),
		MeanDiversity: meanOf(stmts, func(s Statement) float64 { return s.LexicalDiversity }),
		LabelCounts:   labelCounts(stmts),
		TopicCounts:   topicCounts,
	}
}

func labelCounts(stmts []Statement) map[string]int {
	counts := make(map[string]int)
	for _, s := range stmts {
		if s.SentimentLabel != "" {
			counts[s.SentimentLabel]++
		}
	}
	return counts
}

func meanOf(stmts []Statement, get func(Statement) float64) float64 {
	if len(stmts) == 0 {
		return 0
	}
	values := make([]float64, len(stmts))
	for i, s := range stmts {
		values[i] = get(s)
	}
	return stat.Mean(values, nil)
}
