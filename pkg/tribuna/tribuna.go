// Package tribuna is the public-statement analysis engine facade. It
// loads and annotates the bilingual corpus once, then serves filtered
// views, speaker comparisons, topic summaries and grounded
// question-answering over it.
package tribuna

import (
	"context"
	"log"
	"sort"

	"github.com/civiclens/tribuna/pkg/tribuna/answer"
	"github.com/civiclens/tribuna/pkg/tribuna/coherence"
	"github.com/civiclens/tribuna/pkg/tribuna/config"
	"github.com/civiclens/tribuna/pkg/tribuna/corpus"
	"github.com/civiclens/tribuna/pkg/tribuna/retrieval"
	"github.com/civiclens/tribuna/pkg/tribuna/sentiment"
	"github.com/civiclens/tribuna/pkg/tribuna/store"
	"github.com/civiclens/tribuna/pkg/tribuna/topics"
	"github.com/civiclens/tribuna/pkg/tribuna/vectorindex"
	"github.com/civiclens/tribuna/pkg/tribuna/vectorindex/remote"
	"github.com/civiclens/tribuna/pkg/tribuna/vectorindex/tfidf"
)

// Answerer generates a grounded answer from a query and its numbered
// context. The string contract is answer.Client's: NoSourcesMessage when
// nothing grounds the answer, an ErrorMarker prefix on failure.
type Answerer interface {
	Generate(ctx context.Context, query, contextText string, sources []retrieval.Source) (string, []retrieval.Source)
}

// Options configures an Engine. Store, Embedder and Answerer are
// optional: a nil Store disables the annotation cache, a nil Embedder
// falls back to the local TF-IDF embedder, and a nil Answerer is built
// from the LLM config when a base URL is set.
type Options struct {
	Config   config.Config
	Store    store.Store
	Embedder vectorindex.Embedder
	Answerer Answerer
}

// Engine is the main analysis facade.
type Engine struct {
	cfg      config.Config
	store    store.Store
	embedder vectorindex.Embedder
	answerer Answerer
	scorer   *sentiment.Scorer
	cache    *retrieval.Cache

	stmts       []corpus.Statement
	fingerprint string
	degraded    bool
}

// New creates an Engine with the given dependencies. Call Load before
// using it.
func New(opts Options) *Engine {
	answerer := opts.Answerer
	if answerer == nil && opts.Config.LLM.BaseURL != "" {
		answerer = &answer.Client{
			BaseURL: opts.Config.LLM.BaseURL,
			APIKey:  opts.Config.LLMAPIKey(),
			Model:   opts.Config.LLM.Model,
		}
	}
	return &Engine{
		cfg:      opts.Config,
		store:    opts.Store,
		embedder: opts.Embedder,
		answerer: answerer,
		scorer: sentiment.NewScorer(
			opts.Config.Sentiment.PositiveThreshold,
			opts.Config.Sentiment.NegativeThreshold,
		),
		cache: retrieval.NewCache(),
	}
}

// Close releases the store.
func (e *Engine) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// Load reads the corpus CSV and annotates it. A matching cached
// snapshot in the store skips the annotation pass. This is the only
// fatal boundary: everything after a successful Load degrades instead
// of failing.
func (e *Engine) Load(ctx context.Context) error {
	stmts, fingerprint, err := corpus.Load(e.cfg.DataPath)
	if err != nil {
		return err
	}
	e.fingerprint = fingerprint

	if e.store != nil {
		cached, ok, err := e.store.LoadCorpus(ctx, fingerprint)
		if err != nil {
			log.Printf("tribuna: corpus cache read failed, re-annotating: %v", err)
		} else if ok && len(cached) == len(stmts) {
			e.stmts = cached
			return nil
		}
	}

	corpus.Annotate(stmts, e.scorer, e.topicsConfig())
	e.stmts = stmts

	if e.store != nil {
		if err := e.store.SaveCorpus(ctx, fingerprint, stmts); err != nil {
			log.Printf("tribuna: corpus cache write failed: %v", err)
		}
	}
	return nil
}

// Statements returns the full annotated corpus in row order.
func (e *Engine) Statements() []corpus.Statement {
	return e.stmts
}

// Filter returns the statements matching f.
func (e *Engine) Filter(f corpus.Filter) []corpus.Statement {
	return f.Apply(e.stmts)
}

// Overview summarizes the statements matching f.
func (e *Engine) Overview(f corpus.Filter) corpus.Overview {
	return corpus.Summarize(f.Apply(e.stmts))
}

// SpeakerSummaries aggregates per-speaker metrics over the statements
// matching f.
func (e *Engine) SpeakerSummaries(f corpus.Filter) []corpus.SpeakerSummary {
	return corpus.SpeakerSummaries(f.Apply(e.stmts))
}

// Topics reconstructs the topic summaries from the annotated rows,
// ordered by topic id. Unassigned rows contribute nothing.
func (e *Engine) Topics() []topics.Topic {
	seen := make(map[int][]string)
	for _, s := range e.stmts {
		if s.TopicID == topics.UnassignedTopic {
			continue
		}
		if _, ok := seen[s.TopicID]; !ok {
			seen[s.TopicID] = s.TopicKeywords
		}
	}

	out := make([]topics.Topic, 0, len(seen))
	for id, keywords := range seen {
		out = append(out, topics.Topic{ID: id, Keywords: keywords})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Coherence computes NPMI coherence of the current topics against the
// English corpus texts. ok is false when there is nothing to score.
func (e *Engine) Coherence() (coherence.Score, bool) {
	tops := e.Topics()
	if len(tops) == 0 {
		return coherence.Score{}, false
	}
	keywordLists := make([][]string, len(tops))
	for i, t := range tops {
		keywordLists[i] = t.Keywords
	}
	return coherence.Evaluate(keywordLists, corpus.TextsEN(e.stmts), nil)
}

// NewSession mints a session id for Ask.
func (e *Engine) NewSession() string {
	return retrieval.NewSessionID()
}

// AskResult is the grounded answer with its citations.
type AskResult struct {
	SessionID string             `json:"session_id"`
	Answer    string             `json:"answer"`
	Sources   []retrieval.Source `json:"sources"`
	Failed    bool               `json:"failed"`
}

// Ask retrieves context for query and generates a grounded answer. The
// session's embedding artifacts are built on first use and reused for
// the session's lifetime; a failed build is remembered, so a broken
// embedder degrades to "no sources" for the whole session.
func (e *Engine) Ask(ctx context.Context, sessionID, query string) AskResult {
	emb, ix := e.cache.GetOrBuild(ctx, sessionID, e.buildArtifacts)

	contextText, sources := retrieval.BuildContext(ctx, query, emb, ix, e.stmts,
		e.cfg.QA.MaxDocs, e.cfg.QA.MaxChars)

	if e.answerer == nil {
		if contextText == "" || len(sources) == 0 {
			return AskResult{SessionID: sessionID, Answer: answer.NoSourcesMessage}
		}
		// Retrieval-only mode: no language model configured.
		return AskResult{SessionID: sessionID, Answer: "", Sources: sources}
	}

	text, cited := e.answerer.Generate(ctx, query, contextText, sources)
	return AskResult{
		SessionID: sessionID,
		Answer:    text,
		Sources:   cited,
		Failed:    answer.IsError(text),
	}
}

// DropSession forgets a session's retrieval artifacts.
func (e *Engine) DropSession(sessionID string) {
	e.cache.Drop(sessionID)
}

func (e *Engine) buildArtifacts(ctx context.Context) (vectorindex.Embedder, *vectorindex.FlatIndex) {
	emb := e.embedder
	if emb == nil && e.cfg.Embedding.BaseURL != "" {
		emb = &remote.Client{
			BaseURL: e.cfg.Embedding.BaseURL,
			APIKey:  e.cfg.EmbedAPIKey(),
			Model:   e.cfg.Embedding.Model,
		}
	}
	if emb == nil {
		local, err := tfidf.NewEmbedder(corpus.TextsLocal(e.stmts))
		if err != nil {
			log.Printf("tribuna: fallback embedder unavailable: %v", err)
			return nil, nil
		}
		emb = local
	}

	ix := vectorindex.Build(ctx, emb, e.stmts)
	if ix == nil {
		return nil, nil
	}
	return emb, ix
}

func (e *Engine) topicsConfig() topics.Config {
	return topics.Config{
		NumTopics:   e.cfg.Topics.NumTopics,
		NumTopWords: e.cfg.Topics.NumTopWords,
		MaxFeatures: e.cfg.Topics.MaxFeatures,
		MinDF:       e.cfg.Topics.MinDF,
		MaxIter:     e.cfg.Topics.MaxIter,
		Seed:        e.cfg.Topics.Seed,
	}
}

// TopicsConfig exposes the effective topic-model settings, used by the
// evaluation harness for its fresh fit.
func (e *Engine) TopicsConfig() topics.Config {
	return e.topicsConfig()
}

// Scorer exposes the configured sentiment scorer.
func (e *Engine) Scorer() *sentiment.Scorer {
	return e.scorer
}
