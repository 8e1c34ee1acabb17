package config

import (
	"os"
	"path/filepath"
	"testing"
)

// writeConfig creates a temp config file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

const validConfigYAML = `
log_level: debug
page_limit: 2
sources:
  - id: cbs
    base_url: "https://cbs.test/local/"
  - id: nbc
    base_url: "https://nbc.test/feed/"
store:
  backend: bolt
  path: /tmp/harvester-test.db
openai:
  classifier_model: gpt-4o-mini
  embedding_model: text-embedding-3-small
sentiment:
  endpoint: "https://sentiment.test/analyze"
  model: roberta-three-class
`

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfigYAML))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.PageLimit != 2 {
		t.Errorf("PageLimit = %d", cfg.PageLimit)
	}
	if len(cfg.Sources) != 2 || cfg.Sources[0].ID != "cbs" {
		t.Errorf("Sources = %+v", cfg.Sources)
	}
	if cfg.Store.Backend != "bolt" {
		t.Errorf("Store.Backend = %q", cfg.Store.Backend)
	}
	if cfg.Sentiment.TimeoutSeconds != 30 {
		t.Errorf("Sentiment.TimeoutSeconds = %d, want default 30", cfg.Sentiment.TimeoutSeconds)
	}
	if cfg.FetchTimeout().Seconds() != 30 {
		t.Errorf("FetchTimeout = %v, want default 30s", cfg.FetchTimeout())
	}
}

func TestSourceForLabel(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfigYAML))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	src, err := cfg.SourceForLabel(1)
	if err != nil {
		t.Fatalf("SourceForLabel(1) returned error: %v", err)
	}
	if src.ID != "nbc" {
		t.Errorf("label 1 resolves to %q, want nbc", src.ID)
	}

	if _, err := cfg.SourceForLabel(2); err == nil {
		t.Error("out-of-range label must return an error")
	}
	if _, err := cfg.SourceForLabel(-1); err == nil {
		t.Error("negative label must return an error")
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "no sources",
			content: "page_limit: 1\nsources: []\n",
		},
		{
			name:    "source without base_url",
			content: "page_limit: 1\nsources:\n  - id: cbs\n",
		},
		{
			name:    "zero page limit",
			content: "page_limit: 0\nsources:\n  - id: cbs\n    base_url: x\n",
		},
		{
			name:    "unknown store backend",
			content: "sources:\n  - id: cbs\n    base_url: x\nstore:\n  backend: cassandra\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("Load must reject invalid config")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load must fail on a missing file")
	}
}
