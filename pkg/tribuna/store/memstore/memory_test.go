package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/civiclens/tribuna/pkg/tribuna/corpus"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	date, _ := time.Parse("2006-01-02", "2024-03-01")
	stmts := []corpus.Statement{
		{
			Date: date, Speaker: "Diella",
			TextEN: "procurement reform", TextLocal: "reforma e prokurimeve",
			WordCount: 2, LexicalDiversity: 1.0,
			SentimentScore: 0.4, SentimentLabel: "Pozitiv",
			TopicID: 1, TopicKeywords: []string{"reforma", "prokurim"},
		},
		{Speaker: "Unknown", TopicID: -1},
	}

	if err := s.SaveCorpus(ctx, "fp1", stmts); err != nil {
		t.Fatal(err)
	}

	got, ok, err := s.LoadCorpus(ctx, "fp1")
	if err != nil || !ok {
		t.Fatalf("LoadCorpus = ok=%v err=%v", ok, err)
	}
	if len(got) != 2 || got[0].Speaker != "Diella" || got[0].TopicKeywords[1] != "prokurim" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got[1].HasDate() {
		t.Error("zero date should survive as unknown")
	}
}

func TestLoadFingerprintMismatch(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.SaveCorpus(ctx, "fp1", []corpus.Statement{{Speaker: "A"}})
	if _, ok, _ := s.LoadCorpus(ctx, "fp2"); ok {
		t.Error("stale fingerprint should miss")
	}
	if _, ok, _ := s.LoadCorpus(ctx, "fp1"); !ok {
		t.Error("matching fingerprint should hit")
	}
}

func TestLoadEmpty(t *testing.T) {
	s := New()
	if _, ok, err := s.LoadCorpus(context.Background(), "fp1"); ok || err != nil {
		t.Errorf("empty store: ok=%v err=%v", ok, err)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	s := New()
	ctx := context.Background()
	stmts := []corpus.Statement{{Speaker: "A", TopicKeywords: []string{"x"}}}
	s.SaveCorpus(ctx, "fp", stmts)

	got, _, _ := s.LoadCorpus(ctx, "fp")
	got[0].Speaker = "mutated"
	got[0].TopicKeywords[0] = "mutated"

	again, _, _ := s.LoadCorpus(ctx, "fp")
	if again[0].Speaker != "A" || again[0].TopicKeywords[0] != "x" {
		t.Error("caller mutation leaked into the store")
	}
}
