package topics

import (
	"reflect"
	"testing"
)

var sampleDocs = []string{
	"tax policy reform and the national budget deficit",
	"budget deficit grows as tax revenue falls",
	"healthcare spending and hospital funding increase",
	"hospital funding reform for public healthcare",
	"border security and defense spending policy",
	"defense budget and military security concerns",
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.NumTopics = 3
	cfg.NumTopWords = 5
	cfg.MaxIter = 300
	return cfg
}

func TestFitAssignDeterministic(t *testing.T) {
	cfg := testConfig()

	first := FitAssign(sampleDocs, cfg)
	second := FitAssign(sampleDocs, cfg)

	if first.Failed || second.Failed {
		t.Fatal("fit should not fail on a clean corpus")
	}
	if !reflect.DeepEqual(first.TopicIDs, second.TopicIDs) {
		t.Errorf("topic ids differ across reruns: %v vs %v", first.TopicIDs, second.TopicIDs)
	}
	for i := range first.Topics {
		if !reflect.DeepEqual(first.Topics[i].Keywords, second.Topics[i].Keywords) {
			t.Errorf("topic %d keywords differ across reruns", i)
		}
	}
}

func TestFitAssignTooFewDocuments(t *testing.T) {
	cfg := testConfig()

	for _, docs := range [][]string{
		{},
		{"only one statement"},
		{"one statement", "", "   "},
	} {
		res := FitAssign(docs, cfg)
		if res.Failed {
			t.Errorf("tiny corpus should skip, not fail: %v", docs)
		}
		for i, id := range res.TopicIDs {
			if id != UnassignedTopic {
				t.Errorf("doc %d assigned topic %d, want %d", i, id, UnassignedTopic)
			}
			if len(res.Keywords[i]) != 0 {
				t.Errorf("doc %d has keywords on skipped corpus", i)
			}
		}
	}
}

func TestComponentCountClamped(t *testing.T) {
	cfg := testConfig()
	cfg.NumTopics = 10 // more than len(docs)-1

	docs := sampleDocs[:3]
	res := FitAssign(docs, cfg)
	if res.Failed {
		t.Fatal("fit failed")
	}
	if len(res.Topics) != 2 {
		t.Errorf("got %d topics, want min(10, 3-1) = 2", len(res.Topics))
	}
}

func TestEmptyDocumentStillAssigned(t *testing.T) {
	cfg := testConfig()

	docs := append([]string{""}, sampleDocs...)
	res := FitAssign(docs, cfg)
	if res.Failed {
		t.Fatal("fit failed")
	}
	// The empty row projects to all zeros; it still gets an id (tie
	// broken by lowest component index), never the unassigned sentinel.
	if res.TopicIDs[0] == UnassignedTopic {
		t.Error("empty document should receive a component id once the model is fit")
	}
}

func TestKeywordsOrderedAndBounded(t *testing.T) {
	cfg := testConfig()
	cfg.NumTopWords = 4

	res := FitAssign(sampleDocs, cfg)
	if res.Failed {
		t.Fatal("fit failed")
	}
	for _, topic := range res.Topics {
		if len(topic.Keywords) != 4 {
			t.Errorf("topic %d has %d keywords, want 4", topic.ID, len(topic.Keywords))
		}
		for _, kw := range topic.Keywords {
			if kw == "" {
				t.Errorf("topic %d has an empty keyword", topic.ID)
			}
			if isStopword(kw) {
				t.Errorf("topic %d keyword %q is a stopword", topic.ID, kw)
			}
		}
	}
}

func TestAssignmentsMatchKeywords(t *testing.T) {
	res := FitAssign(sampleDocs, testConfig())
	if res.Failed {
		t.Fatal("fit failed")
	}
	for i, id := range res.TopicIDs {
		if id < 0 || id >= len(res.Topics) {
			t.Fatalf("doc %d assigned out-of-range topic %d", i, id)
		}
		if !reflect.DeepEqual(res.Keywords[i], res.Topics[id].Keywords) {
			t.Errorf("doc %d keyword list does not match its topic", i)
		}
	}
}

func TestTokenizeStopwordsAndShortTokens(t *testing.T) {
	tokens := Tokenize("The tax is a burden on x citizens in 2024")
	for _, tok := range tokens {
		if tok == "the" || tok == "is" || tok == "a" || tok == "on" || tok == "in" {
			t.Errorf("stopword %q survived tokenization", tok)
		}
		if len(tok) < 2 {
			t.Errorf("single-character token %q survived", tok)
		}
	}
}

func TestVectorizerMinDF(t *testing.T) {
	vec := &Vectorizer{MinDF: 2}
	docs := []string{
		"shared term appears everywhere",
		"shared term appears here too",
		"unique singleton vocabulary entry",
	}
	if err := vec.Fit(docs); err != nil {
		t.Fatal(err)
	}
	for _, term := range vec.FeatureNames() {
		if term == "singleton" || term == "unique" {
			t.Errorf("term %q below min_df survived pruning", term)
		}
	}
}

func TestVectorizerMaxFeatures(t *testing.T) {
	vec := &Vectorizer{MaxFeatures: 3}
	if err := vec.Fit(sampleDocs); err != nil {
		t.Fatal(err)
	}
	if got := len(vec.FeatureNames()); got != 3 {
		t.Errorf("vocabulary size = %d, want 3", got)
	}
}

func TestTransformRowsNormalized(t *testing.T) {
	vec := &Vectorizer{}
	if err := vec.Fit(sampleDocs); err != nil {
		t.Fatal(err)
	}
	m := vec.Transform(sampleDocs)
	rows, cols := m.Dims()
	for i := 0; i < rows; i++ {
		var norm float64
		for j := 0; j < cols; j++ {
			norm += m.At(i, j) * m.At(i, j)
		}
		if norm < 0.999 || norm > 1.001 {
			t.Errorf("row %d squared norm = %f, want 1", i, norm)
		}
	}
}
