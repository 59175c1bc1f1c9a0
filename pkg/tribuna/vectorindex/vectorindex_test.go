package vectorindex

import (
	"context"
	"errors"
	"testing"

	"github.com/civiclens/tribuna/pkg/tribuna/corpus"
	"github.com/civiclens/tribuna/pkg/tribuna/vectorindex/tfidf"
)

func TestFlatIndexSearchOrdering(t *testing.T) {
	ix, err := NewFlatIndex(2)
	if err != nil {
		t.Fatal(err)
	}
	if err := ix.Add([][]float64{
		{0, 0},
		{3, 4},
		{1, 0},
	}); err != nil {
		t.Fatal(err)
	}

	hits := ix.Search([]float64{0, 0}, 3)
	if len(hits) != 3 {
		t.Fatalf("got %d hits", len(hits))
	}
	if hits[0].ID != 0 || hits[1].ID != 2 || hits[2].ID != 1 {
		t.Errorf("hit order = %v, want ascending distance", hits)
	}
	if hits[0].Distance != 0 || hits[2].Distance != 25 {
		t.Errorf("distances = %v", hits)
	}
}

func TestFlatIndexKClampedAndNonPositive(t *testing.T) {
	ix, _ := NewFlatIndex(1)
	_ = ix.Add([][]float64{{1}, {2}})

	if hits := ix.Search([]float64{0}, 10); len(hits) != 2 {
		t.Errorf("k beyond size should clamp, got %d hits", len(hits))
	}
	if hits := ix.Search([]float64{0}, 0); hits != nil {
		t.Errorf("k = 0 should return nothing, got %v", hits)
	}
	if hits := ix.Search([]float64{0}, -3); hits != nil {
		t.Errorf("negative k should return nothing, got %v", hits)
	}
}

func TestFlatIndexTiesByID(t *testing.T) {
	ix, _ := NewFlatIndex(1)
	_ = ix.Add([][]float64{{5}, {5}, {5}})

	hits := ix.Search([]float64{5}, 3)
	for i, h := range hits {
		if h.ID != i {
			t.Errorf("tied hits should order by id, got %v", hits)
		}
	}
}

func TestFlatIndexDimensionMismatch(t *testing.T) {
	ix, _ := NewFlatIndex(2)
	if err := ix.Add([][]float64{{1, 2, 3}}); err == nil {
		t.Error("expected dimension error")
	}
	if _, err := NewFlatIndex(0); err == nil {
		t.Error("expected error for zero dimension")
	}
}

func TestBuildAndSearchStatements(t *testing.T) {
	stmts := []corpus.Statement{
		{Speaker: "A", TextLocal: "reforma e politikës fiskale"},
		{Speaker: "B", TextLocal: "reforma e politikës fiskale"},
		{Speaker: "C", TextLocal: "moti sot është me diell"},
	}

	emb, err := tfidf.NewEmbedder(corpus.TextsLocal(stmts))
	if err != nil {
		t.Fatal(err)
	}
	ix := Build(context.Background(), emb, stmts)
	if ix == nil {
		t.Fatal("build returned nil index for a healthy corpus")
	}
	if ix.Len() != 3 {
		t.Fatalf("index size = %d", ix.Len())
	}

	got := SearchStatements(context.Background(), "reforma e politikës fiskale", emb, ix, stmts, 5)
	if len(got) != 3 {
		t.Fatalf("got %d results, want all 3 (k clamped)", len(got))
	}
	// Identical documents come back first, at near-zero distance.
	if got[0].Speaker != "A" || got[1].Speaker != "B" {
		t.Errorf("nearest = %s, %s; want the two identical rows first", got[0].Speaker, got[1].Speaker)
	}
}

func TestBuildEmptyCorpus(t *testing.T) {
	emb, _ := tfidf.NewEmbedder([]string{"diçka"})
	if ix := Build(context.Background(), emb, nil); ix != nil {
		t.Error("empty corpus should yield nil index")
	}
	if ix := Build(context.Background(), nil, []corpus.Statement{{TextLocal: "x"}}); ix != nil {
		t.Error("nil embedder should yield nil index")
	}
}

type failingEmbedder struct{}

func (failingEmbedder) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	return nil, errors.New("model not loadable")
}
func (failingEmbedder) Dimension() int { return 0 }

func TestFailuresDegradeToEmpty(t *testing.T) {
	stmts := []corpus.Statement{{TextLocal: "tekst"}}

	if ix := Build(context.Background(), failingEmbedder{}, stmts); ix != nil {
		t.Error("embedder failure should yield nil index, not an error")
	}

	emb, _ := tfidf.NewEmbedder([]string{"tekst"})
	ix := Build(context.Background(), emb, stmts)
	if got := SearchStatements(context.Background(), "tekst", failingEmbedder{}, ix, stmts, 3); got != nil {
		t.Error("query encode failure should yield empty result")
	}
	if got := SearchStatements(context.Background(), "tekst", emb, nil, stmts, 3); got != nil {
		t.Error("nil index should yield empty result")
	}
}
