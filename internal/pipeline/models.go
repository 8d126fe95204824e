package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/docsift/internal/config"
	"github.com/dgallion1/docsift/internal/llm"
	"github.com/dgallion1/docsift/internal/vcache"
)

// Models are the model capabilities used by rank jobs. Keyphraser and
// Summarizer may be nil; the ranker then uses its local fallbacks.
type Models struct {
	Embedder   llm.Embedder
	Keyphraser llm.Keyphraser
	Summarizer llm.Summarizer
}

// ModelsFrom exposes the optional capabilities of a provider client.
func ModelsFrom(e llm.Embedder) Models {
	m := Models{Embedder: e}
	if k, ok := e.(llm.Keyphraser); ok {
		m.Keyphraser = k
	}
	if s, ok := e.(llm.Summarizer); ok {
		m.Summarizer = s
	}
	return m
}

// Backend is an opened provider client plus the optional embedding cache.
type Backend struct {
	Client llm.Client
	Models Models
	cache  *vcache.Store
}

// OpenBackend connects the configured provider and, when EmbedCachePath is
// set, routes embeddings through the SQLite cache.
func OpenBackend(ctx context.Context, cfg config.Config, log *slog.Logger) (*Backend, error) {
	client, err := llm.New(ctx, cfg.LLM(log))
	if err != nil {
		return nil, fmt.Errorf("open llm provider: %w", err)
	}
	b := &Backend{Client: client, Models: ModelsFrom(client)}

	if cfg.EmbedCachePath != "" {
		store, err := vcache.Open(cfg.EmbedCachePath)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("open embedding cache: %w", err)
		}
		b.cache = store
		b.Models.Embedder = vcache.NewCachedEmbedder(client, store, log)
		log.Info("embedding cache enabled", "path", cfg.EmbedCachePath)
	}
	log.Info("llm provider ready", "provider", cfg.LLMProvider, "model", client.Model())
	return b, nil
}

// Close releases the provider client and the cache.
func (b *Backend) Close() error {
	b.Client.Close()
	if b.cache != nil {
		return b.cache.Close()
	}
	return nil
}
