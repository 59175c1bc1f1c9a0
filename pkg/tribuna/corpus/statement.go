// Package corpus holds the in-memory statement table: raw bilingual rows
// plus the per-row metrics derived once at load. After annotation the
// table is read-only for the rest of the session.
package corpus

import (
	"strings"
	"time"

	"github.com/civiclens/tribuna/pkg/tribuna/topics"
)

// UnknownSpeaker is the sentinel for rows without an attributed speaker.
const UnknownSpeaker = "Unknown"

// Statement is one corpus row. Date is the zero time when unknown.
// TextEN and TextLocal may be empty but are never "missing".
type Statement struct {
	Date      time.Time
	Speaker   string
	TextEN    string
	TextLocal string

	// Derived at load, immutable afterwards.
	WordCount        int
	LexicalDiversity float64
	SentimentScore   float64
	SentimentLabel   string
	TopicID          int
	TopicKeywords    []string
}

// HasDate reports whether the statement carries a known date.
func (s Statement) HasDate() bool {
	return !s.Date.IsZero()
}

// DateDisplay formats the date for context lines and tables, "-" when
// unknown.
func (s Statement) DateDisplay() string {
	if !s.HasDate() {
		return "-"
	}
	return s.Date.Format("2006-01-02")
}

// KeywordsDisplay comma-joins the topic keyword list.
func (s Statement) KeywordsDisplay() string {
	return strings.Join(s.TopicKeywords, ", ")
}

// Unassigned reports whether the statement has no topic.
func (s Statement) Unassigned() bool {
	return s.TopicID == topics.UnassignedTopic
}

// TextsEN extracts the English variants in row order.
func TextsEN(stmts []Statement) []string {
	out := make([]string, len(stmts))
	for i, s := range stmts {
		out[i] = s.TextEN
	}
	return out
}

// TextsLocal extracts the local-language variants in row order.
func TextsLocal(stmts []Statement) []string {
	out := make([]string, len(stmts))
	for i, s := range stmts {
		out[i] = s.TextLocal
	}
	return out
}
