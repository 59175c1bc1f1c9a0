package textstat

import (
	"math"
	"strings"
	"testing"
)

func TestTTRBounds(t *testing.T) {
	texts := []string{
		"",
		"one",
		"one one one",
		"the quick brown fox jumps over the lazy dog",
		"fjalë të ndryshme në gjuhën shqipe",
	}

	for _, text := range texts {
		ttr := TTR(text)
		if ttr < 0 || ttr > 1 {
			t.Errorf("TTR(%q) = %f, want value in [0, 1]", text, ttr)
		}
	}
}

func TestTTREmpty(t *testing.T) {
	if got := TTR(""); got != 0.0 {
		t.Errorf("TTR of empty text = %f, want 0", got)
	}
	if got := TTR("   \t\n"); got != 0.0 {
		t.Errorf("TTR of whitespace = %f, want 0", got)
	}
	// Digits and underscores are not word characters.
	if got := TTR("123 456 _ 789"); got != 0.0 {
		t.Errorf("TTR of digits = %f, want 0", got)
	}
}

func TestTTRAllUnique(t *testing.T) {
	if got := TTR("alpha beta gamma delta"); got != 1.0 {
		t.Errorf("TTR of all-unique text = %f, want 1.0", got)
	}
}

func TestTTRRepeated(t *testing.T) {
	got := TTR("word word word word")
	want := 0.25
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("TTR of fully repeated text = %f, want %f", got, want)
	}
}

func TestTTRCaseInsensitive(t *testing.T) {
	text := "Politika dhe politika janë NJË dhe një"
	if TTR(text) != TTR(strings.ToUpper(text)) {
		t.Error("TTR should be case-insensitive")
	}
}

func TestTokensUnicode(t *testing.T) {
	tokens := Tokens("Qeveria ka miratuar ligjin nr.42 për_buxhetin")
	want := []string{"qeveria", "ka", "miratuar", "ligjin", "nr", "për", "buxhetin"}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(tokens), tokens, len(want))
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, tokens[i], want[i])
		}
	}
}

func TestWordCount(t *testing.T) {
	if got := WordCount("one two  three"); got != 3 {
		t.Errorf("WordCount = %d, want 3", got)
	}
	if got := WordCount(""); got != 0 {
		t.Errorf("WordCount of empty = %d, want 0", got)
	}
}
