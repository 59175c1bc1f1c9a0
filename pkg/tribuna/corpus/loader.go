package corpus

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/civiclens/tribuna/pkg/tribuna/internalerr"
	"github.com/civiclens/tribuna/pkg/tribuna/sentiment"
	"github.com/civiclens/tribuna/pkg/tribuna/textstat"
	"github.com/civiclens/tribuna/pkg/tribuna/topics"
)

// Input column names. Missing columns are synthesized as empty.
const (
	colDate      = "Date"
	colTextEN    = "Speech"
	colTextLocal = "Speech_SQ"
	colSpeaker   = "Speaker"
)

// dateLayouts are tried in order; the first parse wins. Unparseable
// dates become unknown, never an error.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
	"02.01.2006",
	"January 2, 2006",
	"2 January 2006",
}

// Load reads the corpus CSV at path and returns the raw statements plus a
// content fingerprint. This is the only fatal boundary in the system: a
// missing or malformed corpus file fails the whole session.
func Load(path string) ([]Statement, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", internalerr.ErrDataUnavailable, err)
	}

	stmts, err := Parse(data)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", internalerr.ErrDataUnavailable, err)
	}

	sum := sha256.Sum256(data)
	return stmts, hex.EncodeToString(sum[:]), nil
}

// Parse decodes CSV bytes into raw statements.
func Parse(data []byte) ([]Statement, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty csv")
	}

	cols := make(map[string]int)
	for i, name := range records[0] {
		cols[strings.TrimSpace(name)] = i
	}

	field := func(row []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	stmts := make([]Statement, 0, len(records)-1)
	for _, row := range records[1:] {
		speaker := field(row, colSpeaker)
		if speaker == "" {
			speaker = UnknownSpeaker
		}
		stmts = append(stmts, Statement{
			Date:      parseDate(field(row, colDate)),
			Speaker:   speaker,
			TextEN:    field(row, colTextEN),
			TextLocal: field(row, colTextLocal),
			TopicID:   topics.UnassignedTopic,
		})
	}
	return stmts, nil
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Annotate computes every derived field in one pass: word count and
// lexical diversity per row, sentiment over the English variants, topic
// assignments over the whole corpus. Statements are modified in place;
// nothing mutates them afterwards short of a full reload.
func Annotate(stmts []Statement, scorer *sentiment.Scorer, tcfg topics.Config) {
	for i := range stmts {
		stmts[i].WordCount = textstat.WordCount(stmts[i].TextEN)
		stmts[i].LexicalDiversity = textstat.TTR(stmts[i].TextLocal)
	}

	sent := scorer.Annotate(TextsEN(stmts))
	for i := range stmts {
		stmts[i].SentimentScore = sent.Results[i].Score
		stmts[i].SentimentLabel = sent.Results[i].Label
	}

	top := topics.FitAssign(TextsEN(stmts), tcfg)
	for i := range stmts {
		stmts[i].TopicID = top.TopicIDs[i]
		stmts[i].TopicKeywords = top.Keywords[i]
	}
}
