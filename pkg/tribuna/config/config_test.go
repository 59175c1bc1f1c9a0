package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Topics.NumTopics != 5 || cfg.QA.MaxChars != 3500 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadOverridesAndFills(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
data_path: custom.csv
topics:
  num_topics: 7
qa:
  max_docs: 3
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataPath != "custom.csv" {
		t.Errorf("data_path = %q", cfg.DataPath)
	}
	if cfg.Topics.NumTopics != 7 {
		t.Errorf("num_topics = %d, want 7", cfg.Topics.NumTopics)
	}
	if cfg.Topics.NumTopWords != 10 {
		t.Errorf("num_top_words default not filled, got %d", cfg.Topics.NumTopWords)
	}
	if cfg.QA.MaxDocs != 3 || cfg.QA.MaxChars != 3500 {
		t.Errorf("qa = %+v", cfg.QA)
	}
	if cfg.Sentiment.PositiveThreshold != 0.05 {
		t.Errorf("positive threshold default not filled")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("TRIBUNA_LLM_API_KEY=sekret\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TRIBUNA_LLM_API_KEY", "") // ensure the .env value is observable
	os.Unsetenv("TRIBUNA_LLM_API_KEY")

	cfg, err := Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.LLMAPIKey(); got != "sekret" {
		t.Errorf("LLMAPIKey = %q, want value from .env", got)
	}
}

func TestValidateRejectsBadThresholds(t *testing.T) {
	cfg := Default()
	cfg.Sentiment.PositiveThreshold = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for pos <= 0")
	}
}
