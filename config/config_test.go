package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{}`))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.General.Listen != ":8090" {
		t.Fatalf("default listen = %q", cfg.General.Listen)
	}
	if cfg.Search.TopK != 5 || cfg.Search.SparseWeight != 0.4 {
		t.Fatalf("default search config = %+v", cfg.Search)
	}
	if cfg.History.Backend != "file" || cfg.History.Limit != 10 {
		t.Fatalf("default history config = %+v", cfg.History)
	}
	if cfg.Providers.OpenAI.CompletionModel != "gpt-3.5-turbo" {
		t.Fatalf("default completion model = %q", cfg.Providers.OpenAI.CompletionModel)
	}
}

func TestLoadConfigFileOverrides(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{
		"search": {"top_k": 3, "sparse_weight": 0.6},
		"history": {"backend": "memory"}
	}`))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Search.TopK != 3 || cfg.Search.SparseWeight != 0.6 {
		t.Fatalf("file overrides not applied: %+v", cfg.Search)
	}
	if cfg.History.Backend != "memory" {
		t.Fatalf("backend override not applied: %q", cfg.History.Backend)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("COURSECHAT_SEARCH_TOP_K", "7")
	cfg, err := LoadConfig(writeConfig(t, `{"search": {"top_k": 3}}`))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Search.TopK != 7 {
		t.Fatalf("environment must override the file, got %d", cfg.Search.TopK)
	}
}

func TestLoadConfigRejectsBadWeight(t *testing.T) {
	if _, err := LoadConfig(writeConfig(t, `{"search": {"sparse_weight": 1.5}}`)); err == nil {
		t.Fatal("expected a validation error for sparse_weight > 1")
	}
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	if _, err := LoadConfig(writeConfig(t, `{"history": {"backend": "dynamo"}}`)); err == nil {
		t.Fatal("expected a validation error for an unknown backend")
	}
}

func TestLoadConfigRejectsBrokenFile(t *testing.T) {
	if _, err := LoadConfig(writeConfig(t, `{broken`)); err == nil {
		t.Fatal("a present but unparsable file must be fatal")
	}
}
