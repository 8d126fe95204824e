// Package llm wraps the model providers used for ranking: text embeddings,
// summaries and keyphrase extraction. Providers are reached through the
// OpenAI-compatible API (go-openai) or the Gemini API (genai).
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Embedder converts texts to vectors. The returned slice is parallel to
// texts.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Model() string
}

// Summarizer condenses a passage to roughly minWords..maxWords words.
type Summarizer interface {
	Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error)
}

// Keyphraser extracts up to n key phrases from a text.
type Keyphraser interface {
	Keyphrases(ctx context.Context, text string, n int) ([]string, error)
}

// Provider names accepted by New.
const (
	ProviderNone   = "none"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config selects and configures a provider.
type Config struct {
	Provider string

	OpenAIBaseURL        string
	OpenAIAPIKey         string
	OpenAIEmbeddingModel string
	OpenAIChatModel      string

	GeminiAPIKey         string
	GeminiEmbeddingModel string
	GeminiModel          string

	BatchSize int           // Texts per embedding request. Default: 64.
	Timeout   time.Duration // Per request. Default: 120s.
	Logger    *slog.Logger
}

func (c *Config) defaults() {
	if c.Provider == "" {
		c.Provider = ProviderNone
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 64
	}
	if c.Timeout <= 0 {
		c.Timeout = 120 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Client is a provider connection. Every client embeds; clients backed by a
// generative model also implement Summarizer and Keyphraser.
type Client interface {
	Embedder
	Stats() *LLMStats
	Close()
}

// New builds a Client for cfg.Provider. ProviderNone returns a local
// hashing embedder that needs no network access.
func New(ctx context.Context, cfg Config) (Client, error) {
	cfg.defaults()
	switch cfg.Provider {
	case ProviderNone:
		return NewHashEmbedder(0), nil
	case ProviderOpenAI:
		return NewOpenAIClient(cfg), nil
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
