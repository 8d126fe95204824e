// Package config loads service and CLI settings. Environment variables
// override an optional YAML file, which overrides built-in defaults.
package config

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/dgallion1/docsift/internal/llm"
	"github.com/dgallion1/docsift/internal/rank"
	"github.com/spf13/viper"
)

type Config struct {
	Port string

	// Auth
	DocsiftAPIKey string

	// Model provider
	LLMProvider          string
	OpenAIBaseURL        string
	OpenAIAPIKey         string
	OpenAIEmbeddingModel string
	OpenAIChatModel      string
	GeminiAPIKey         string
	GeminiEmbeddingModel string
	GeminiModel          string

	// Embedding cache; empty disables it.
	EmbedCachePath string

	// Worker pool
	WorkerCount        int
	MaxQueueSize       int
	MaxConcurrentParse int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// Ranking
	MMRLambda       float64
	TopN            int
	MinSectionChars int
	SummaryMinWords int
	SummaryMaxWords int

	// PDF
	PDFFallbackReader bool
}

var defaults = map[string]any{
	"PORT":                   "8090",
	"DOCSIFT_API_KEY":        "",
	"LLM_PROVIDER":           llm.ProviderNone,
	"OPENAI_BASE_URL":        "",
	"OPENAI_API_KEY":         "",
	"OPENAI_EMBEDDING_MODEL": "text-embedding-3-small",
	"OPENAI_CHAT_MODEL":      "gpt-4o-mini",
	"GEMINI_API_KEY":         "",
	"GEMINI_EMBEDDING_MODEL": "text-embedding-004",
	"GEMINI_MODEL":           "gemini-2.5-flash",
	"EMBED_CACHE_PATH":       "",
	"WORKER_COUNT":           4,
	"MAX_QUEUE_SIZE":         100,
	"MAX_CONCURRENT_PARSE":   4,
	"MAX_UPLOAD_BYTES":       int64(52428800), // 50MB
	"JOB_TTL":                time.Hour,
	"MMR_LAMBDA":             0.6,
	"TOP_N":                  5,
	"MIN_SECTION_CHARS":      150,
	"SUMMARY_MIN_WORDS":      40,
	"SUMMARY_MAX_WORDS":      150,
	"PDF_FALLBACK_READER":    true,
}

// Load reads configuration. path names an optional YAML file whose keys
// match the environment variable names (case-insensitive); environment
// variables take precedence over it.
func Load(path string) (Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		Port: v.GetString("PORT"),

		DocsiftAPIKey: v.GetString("DOCSIFT_API_KEY"),

		LLMProvider:          v.GetString("LLM_PROVIDER"),
		OpenAIBaseURL:        v.GetString("OPENAI_BASE_URL"),
		OpenAIAPIKey:         v.GetString("OPENAI_API_KEY"),
		OpenAIEmbeddingModel: v.GetString("OPENAI_EMBEDDING_MODEL"),
		OpenAIChatModel:      v.GetString("OPENAI_CHAT_MODEL"),
		GeminiAPIKey:         v.GetString("GEMINI_API_KEY"),
		GeminiEmbeddingModel: v.GetString("GEMINI_EMBEDDING_MODEL"),
		GeminiModel:          v.GetString("GEMINI_MODEL"),

		EmbedCachePath: v.GetString("EMBED_CACHE_PATH"),

		WorkerCount:        v.GetInt("WORKER_COUNT"),
		MaxQueueSize:       v.GetInt("MAX_QUEUE_SIZE"),
		MaxConcurrentParse: v.GetInt("MAX_CONCURRENT_PARSE"),

		MaxUploadBytes: v.GetInt64("MAX_UPLOAD_BYTES"),

		JobTTL: v.GetDuration("JOB_TTL"),

		MMRLambda:       v.GetFloat64("MMR_LAMBDA"),
		TopN:            v.GetInt("TOP_N"),
		MinSectionChars: v.GetInt("MIN_SECTION_CHARS"),
		SummaryMinWords: v.GetInt("SUMMARY_MIN_WORDS"),
		SummaryMaxWords: v.GetInt("SUMMARY_MAX_WORDS"),

		PDFFallbackReader: v.GetBool("PDF_FALLBACK_READER"),
	}
	cfg.normalize()
	return cfg, nil
}

// normalize replaces non-positive numeric settings with their defaults and
// clamps the MMR lambda to [0,1].
func (c *Config) normalize() {
	if c.Port == "" {
		c.Port = defaults["PORT"].(string)
	}
	if c.LLMProvider == "" {
		c.LLMProvider = llm.ProviderNone
	}
	positive(&c.WorkerCount, defaults["WORKER_COUNT"].(int))
	positive(&c.MaxQueueSize, defaults["MAX_QUEUE_SIZE"].(int))
	positive(&c.MaxConcurrentParse, defaults["MAX_CONCURRENT_PARSE"].(int))
	positive(&c.TopN, defaults["TOP_N"].(int))
	positive(&c.MinSectionChars, defaults["MIN_SECTION_CHARS"].(int))
	positive(&c.SummaryMinWords, defaults["SUMMARY_MIN_WORDS"].(int))
	positive(&c.SummaryMaxWords, defaults["SUMMARY_MAX_WORDS"].(int))
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = defaults["MAX_UPLOAD_BYTES"].(int64)
	}
	if c.JobTTL <= 0 {
		c.JobTTL = defaults["JOB_TTL"].(time.Duration)
	}
	switch {
	case math.IsNaN(c.MMRLambda):
		c.MMRLambda = defaults["MMR_LAMBDA"].(float64)
	case c.MMRLambda < 0:
		c.MMRLambda = 0
	case c.MMRLambda > 1:
		c.MMRLambda = 1
	}
}

func positive(v *int, fallback int) {
	if *v <= 0 {
		*v = fallback
	}
}

// Validate checks the settings the HTTP service needs.
func (c Config) Validate() error {
	if c.DocsiftAPIKey == "" {
		return fmt.Errorf("DOCSIFT_API_KEY is required")
	}
	return c.ValidateProvider()
}

// ValidateProvider checks that the selected model provider is known and
// has credentials.
func (c Config) ValidateProvider() error {
	switch c.LLMProvider {
	case llm.ProviderNone:
		return nil
	case llm.ProviderOpenAI:
		if c.OpenAIAPIKey == "" && c.OpenAIBaseURL == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for provider %q", c.LLMProvider)
		}
		return nil
	case llm.ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for provider %q", c.LLMProvider)
		}
		return nil
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}
}

// LLM returns the provider settings for llm.New.
func (c Config) LLM(log *slog.Logger) llm.Config {
	return llm.Config{
		Provider:             c.LLMProvider,
		OpenAIBaseURL:        c.OpenAIBaseURL,
		OpenAIAPIKey:         c.OpenAIAPIKey,
		OpenAIEmbeddingModel: c.OpenAIEmbeddingModel,
		OpenAIChatModel:      c.OpenAIChatModel,
		GeminiAPIKey:         c.GeminiAPIKey,
		GeminiEmbeddingModel: c.GeminiEmbeddingModel,
		GeminiModel:          c.GeminiModel,
		Logger:               log,
	}
}

// Rank returns the ranking settings.
func (c Config) Rank() rank.Config {
	rc := rank.DefaultConfig()
	rc.Lambda = c.MMRLambda
	rc.TopN = c.TopN
	rc.SummaryMinWords = c.SummaryMinWords
	rc.SummaryMaxWords = c.SummaryMaxWords
	return rc
}
