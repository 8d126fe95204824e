package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv blanks every known key so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for k := range defaults {
		t.Setenv(k, "")
	}
}

func TestLoad_NaNLambdaFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("MMR_LAMBDA", "NaN")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MMRLambda != 0.6 {
		t.Errorf("expected lambda fallback 0.6, got %v", cfg.MMRLambda)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.LLMProvider != "none" {
		t.Errorf("expected provider none, got %q", cfg.LLMProvider)
	}
	if cfg.WorkerCount != 4 || cfg.MaxQueueSize != 100 || cfg.MaxConcurrentParse != 4 {
		t.Errorf("unexpected worker settings: %+v", cfg)
	}
	if cfg.MaxUploadBytes != 52428800 {
		t.Errorf("expected 50MB upload limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("expected 1h TTL, got %v", cfg.JobTTL)
	}
	if cfg.MMRLambda != 0.6 || cfg.TopN != 5 || cfg.MinSectionChars != 150 {
		t.Errorf("unexpected ranking settings: %+v", cfg)
	}
	if cfg.SummaryMinWords != 40 || cfg.SummaryMaxWords != 150 {
		t.Errorf("unexpected summary settings: %+v", cfg)
	}
	if !cfg.PDFFallbackReader {
		t.Error("expected PDF fallback reader enabled by default")
	}
	if cfg.OpenAIEmbeddingModel != "text-embedding-3-small" || cfg.GeminiModel != "gemini-2.5-flash" {
		t.Errorf("unexpected model defaults: %+v", cfg)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("WORKER_COUNT", "8")
	t.Setenv("JOB_TTL", "30m")
	t.Setenv("MMR_LAMBDA", "0.3")
	t.Setenv("PDF_FALLBACK_READER", "false")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9000" || cfg.LLMProvider != "openai" || cfg.WorkerCount != 8 {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if cfg.JobTTL != 30*time.Minute {
		t.Errorf("expected 30m TTL, got %v", cfg.JobTTL)
	}
	if cfg.MMRLambda != 0.3 {
		t.Errorf("expected lambda 0.3, got %v", cfg.MMRLambda)
	}
	if cfg.PDFFallbackReader {
		t.Error("expected PDF fallback reader disabled")
	}
}

func TestLoad_YAMLFileAndEnvPrecedence(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "docsift.yaml")
	yaml := "port: \"7000\"\ntop_n: 3\nembed_cache_path: /tmp/cache.db\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "7100")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TopN != 3 {
		t.Errorf("expected top_n 3 from file, got %d", cfg.TopN)
	}
	if cfg.EmbedCachePath != "/tmp/cache.db" {
		t.Errorf("expected cache path from file, got %q", cfg.EmbedCachePath)
	}
	if cfg.Port != "7100" {
		t.Errorf("expected env to override file port, got %q", cfg.Port)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoad_Normalization(t *testing.T) {
	clearEnv(t)
	t.Setenv("WORKER_COUNT", "-2")
	t.Setenv("TOP_N", "0")
	t.Setenv("MAX_UPLOAD_BYTES", "-1")
	t.Setenv("MMR_LAMBDA", "1.7")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("expected worker count fallback 4, got %d", cfg.WorkerCount)
	}
	if cfg.TopN != 5 {
		t.Errorf("expected top_n fallback 5, got %d", cfg.TopN)
	}
	if cfg.MaxUploadBytes != 52428800 {
		t.Errorf("expected upload limit fallback, got %d", cfg.MaxUploadBytes)
	}
	if cfg.MMRLambda != 1 {
		t.Errorf("expected lambda clamped to 1, got %v", cfg.MMRLambda)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"missing api key", Config{LLMProvider: "none"}, true},
		{"offline provider", Config{DocsiftAPIKey: "k", LLMProvider: "none"}, false},
		{"openai without key", Config{DocsiftAPIKey: "k", LLMProvider: "openai"}, true},
		{"openai with key", Config{DocsiftAPIKey: "k", LLMProvider: "openai", OpenAIAPIKey: "sk"}, false},
		{"openai local base url", Config{DocsiftAPIKey: "k", LLMProvider: "openai", OpenAIBaseURL: "http://localhost:1234/v1"}, false},
		{"gemini without key", Config{DocsiftAPIKey: "k", LLMProvider: "gemini"}, true},
		{"gemini with key", Config{DocsiftAPIKey: "k", LLMProvider: "gemini", GeminiAPIKey: "g"}, false},
		{"unknown provider", Config{DocsiftAPIKey: "k", LLMProvider: "claude"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("expected err=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRank(t *testing.T) {
	cfg := Config{MMRLambda: 0.4, TopN: 7, SummaryMinWords: 10, SummaryMaxWords: 20}
	rc := cfg.Rank()
	if rc.Lambda != 0.4 || rc.TopN != 7 || rc.SummaryMinWords != 10 || rc.SummaryMaxWords != 20 {
		t.Errorf("unexpected rank config: %+v", rc)
	}
	if rc.Keyphrases != 5 {
		t.Errorf("expected default keyphrase count, got %d", rc.Keyphrases)
	}
}
