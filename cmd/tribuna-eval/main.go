package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/civiclens/tribuna/pkg/tribuna"
	"github.com/civiclens/tribuna/pkg/tribuna/config"
	"github.com/civiclens/tribuna/pkg/tribuna/corpus"
	"github.com/civiclens/tribuna/pkg/tribuna/evaluation"
)

func main() {
	var (
		configPath = flag.String("config", "tribuna.yaml", "Config file path")
		outPath    = flag.String("out", "evaluation_results.json", "Results artifact path")
		sampleRows = flag.Int("sample", evaluation.DefaultCoherenceSample, "Max corpus rows for the coherence fit")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	engine := tribuna.New(tribuna.Options{Config: cfg})
	defer engine.Close()

	if err := engine.Load(context.Background()); err != nil {
		log.Fatal(err)
	}

	results := evaluation.NewResults()
	results.Sentiment = evaluation.EvaluateSentiment(cfg.GoldPath, engine.Scorer())
	results.TopicCoherence = evaluation.EvaluateTopicCoherence(
		corpus.TextsEN(engine.Statements()), *sampleRows, engine.TopicsConfig())

	if results.Sentiment == nil && results.TopicCoherence == nil {
		log.Fatal("nothing evaluated: no gold set and no usable corpus")
	}

	if err := results.WriteFile(*outPath); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("run %s\n", results.RunID)
	if s := results.Sentiment; s != nil {
		fmt.Printf("sentiment: accuracy=%.4f f1_macro=%.4f f1_weighted=%.4f n=%d\n",
			s.Accuracy, s.F1Macro, s.F1Weighted, s.NSamples)
		fmt.Println(s.ClassificationReport)
	}
	if c := results.TopicCoherence; c != nil {
		fmt.Printf("topic coherence: npmi_mean=%.4f over %d docs\n", c.NPMIMean, c.NDocsUsed)
	}
	fmt.Printf("results written to %s\n", *outPath)
}
