// Package config loads the engine configuration from YAML, with
// credentials supplied through the environment (optionally via a .env
// file next to the config).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/civiclens/tribuna/pkg/tribuna/internalerr"
)

// SentimentConfig holds the score → label thresholds.
type SentimentConfig struct {
	PositiveThreshold float64 `yaml:"positive_threshold"`
	NegativeThreshold float64 `yaml:"negative_threshold"`
}

// TopicsConfig controls TF-IDF vectorization and the NMF fit.
type TopicsConfig struct {
	NumTopics   int   `yaml:"num_topics"`
	NumTopWords int   `yaml:"num_top_words"`
	MaxFeatures int   `yaml:"max_features"`
	MinDF       int   `yaml:"min_df"`
	MaxIter     int   `yaml:"max_iter"`
	Seed        int64 `yaml:"seed"`
}

// QAConfig bounds the retrieval context.
type QAConfig struct {
	MaxDocs  int `yaml:"max_docs"`
	MaxChars int `yaml:"max_chars"`
}

// EmbeddingConfig configures the remote sentence-embedding service.
type EmbeddingConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// LLMConfig configures the answer-generation service.
type LLMConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// Config is the root configuration.
type Config struct {
	DataPath  string          `yaml:"data_path"`
	CachePath string          `yaml:"cache_path"` // sqlite annotation cache, "" disables
	GoldPath  string          `yaml:"gold_path"`
	Sentiment SentimentConfig `yaml:"sentiment"`
	Topics    TopicsConfig    `yaml:"topics"`
	QA        QAConfig        `yaml:"qa"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
}

// Default returns the production dashboard settings.
func Default() Config {
	return Config{
		DataPath: "statements_clean.csv",
		GoldPath: "evaluation_sentiment_gold.csv",
		Sentiment: SentimentConfig{
			PositiveThreshold: 0.05,
			NegativeThreshold: -0.05,
		},
		Topics: TopicsConfig{
			NumTopics:   5,
			NumTopWords: 10,
			MaxFeatures: 5000,
			MinDF:       1,
			MaxIter:     1000,
			Seed:        42,
		},
		QA: QAConfig{
			MaxDocs:  8,
			MaxChars: 3500,
		},
		Embedding: EmbeddingConfig{
			APIKeyEnv:   "TRIBUNA_EMBED_API_KEY",
			Model:       "paraphrase-multilingual-minilm",
			TimeoutSecs: 30,
		},
		LLM: LLMConfig{
			APIKeyEnv:   "TRIBUNA_LLM_API_KEY",
			Model:       "llama-3.3-70b-versatile",
			TimeoutSecs: 30,
		},
	}
}

// Load reads a YAML config from path, filling unset fields with defaults.
// A missing file yields the defaults. A .env file in the config directory
// is loaded into the environment first when present.
func Load(path string) (Config, error) {
	cfg := Default()

	dir := "."
	if path != "" {
		dir = filepath.Dir(path)
	}
	if envPath := filepath.Join(dir, ".env"); fileExists(envPath) {
		if err := godotenv.Load(envPath); err != nil {
			return cfg, fmt.Errorf("load .env: %w", err)
		}
	}

	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)
	return cfg, nil
}

// Validate checks the invariants other packages rely on.
func (c Config) Validate() error {
	if !(c.Sentiment.PositiveThreshold > 0) || !(c.Sentiment.NegativeThreshold < 0) {
		return fmt.Errorf("%w: sentiment thresholds must satisfy pos > 0 > neg", internalerr.ErrInvalidConfig)
	}
	if c.Topics.NumTopics < 1 || c.Topics.NumTopWords < 1 {
		return fmt.Errorf("%w: topic counts must be positive", internalerr.ErrInvalidConfig)
	}
	if c.QA.MaxDocs < 1 || c.QA.MaxChars < 1 {
		return fmt.Errorf("%w: qa bounds must be positive", internalerr.ErrInvalidConfig)
	}
	return nil
}

// LLMAPIKey resolves the language-model credential from the environment.
func (c Config) LLMAPIKey() string {
	return os.Getenv(c.LLM.APIKeyEnv)
}

// EmbedAPIKey resolves the embedding-service credential.
func (c Config) EmbedAPIKey() string {
	return os.Getenv(c.Embedding.APIKeyEnv)
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Sentiment.PositiveThreshold == 0 {
		cfg.Sentiment.PositiveThreshold = def.Sentiment.PositiveThreshold
	}
	if cfg.Sentiment.NegativeThreshold == 0 {
		cfg.Sentiment.NegativeThreshold = def.Sentiment.NegativeThreshold
	}
	if cfg.Topics.NumTopics == 0 {
		cfg.Topics.NumTopics = def.Topics.NumTopics
	}
	if cfg.Topics.NumTopWords == 0 {
		cfg.Topics.NumTopWords = def.Topics.NumTopWords
	}
	if cfg.Topics.MaxFeatures == 0 {
		cfg.Topics.MaxFeatures = def.Topics.MaxFeatures
	}
	if cfg.Topics.MinDF == 0 {
		cfg.Topics.MinDF = def.Topics.MinDF
	}
	if cfg.Topics.MaxIter == 0 {
		cfg.Topics.MaxIter = def.Topics.MaxIter
	}
	if cfg.Topics.Seed == 0 {
		cfg.Topics.Seed = def.Topics.Seed
	}
	if cfg.QA.MaxDocs == 0 {
		cfg.QA.MaxDocs = def.QA.MaxDocs
	}
	if cfg.QA.MaxChars == 0 {
		cfg.QA.MaxChars = def.QA.MaxChars
	}
	if cfg.Embedding.APIKeyEnv == "" {
		cfg.Embedding.APIKeyEnv = def.Embedding.APIKeyEnv
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = def.Embedding.Model
	}
	if cfg.Embedding.TimeoutSecs == 0 {
		cfg.Embedding.TimeoutSecs = def.Embedding.TimeoutSecs
	}
	if cfg.LLM.APIKeyEnv == "" {
		cfg.LLM.APIKeyEnv = def.LLM.APIKeyEnv
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = def.LLM.Model
	}
	if cfg.LLM.TimeoutSecs == 0 {
		cfg.LLM.TimeoutSecs = def.LLM.TimeoutSecs
	}
	if cfg.DataPath == "" {
		cfg.DataPath = def.DataPath
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
