package corpus

import (
	"strings"
	"time"
)

// Filter selects a view of the corpus. Zero-valued fields match
// everything.
type Filter struct {
	Speakers []string
	Labels   []string
	TopicIDs []int
	From     time.Time
	To       time.Time
	Contains string // substring of either language variant, case-insensitive
}

// Apply returns the statements matching f, preserving row order.
func (f Filter) Apply(stmts []Statement) []Statement {
	var out []Statement
	for _, s := range stmts {
		if f.matches(s) {
			out = append(out, s)
		}
	}
	return out
}

func (f Filter) matches(s Statement) bool {
	if len(f.Speakers) > 0 && !containsString(f.Speakers, s.Speaker) {
		return false
	}
	if len(f.Labels) > 0 && !containsString(f.Labels, s.SentimentLabel) {
		return false
	}
	if len(f.TopicIDs) > 0 && !containsInt(f.TopicIDs, s.TopicID) {
		return false
	}
	if !f.From.IsZero() && (!s.HasDate() || s.Date.Before(f.From)) {
		return false
	}
	if !f.To.IsZero() && (!s.HasDate() || s.Date.After(f.To)) {
		return false
	}
	if f.Contains != "" {
		needle := strings.ToLower(f.Contains)
		if !strings.Contains(strings.ToLower(s.TextEN), needle) &&
			!strings.Contains(strings.ToLower(s.TextLocal), needle) {
			return false
		}
	}
	return true
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func containsInt(list []int, v int) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
