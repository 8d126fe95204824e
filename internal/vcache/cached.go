package vcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/dgallion1/docsift/internal/llm"
)

// CachedEmbedder serves embeddings from a Store and asks the wrapped
// Embedder only for texts it has not seen under the same model.
type CachedEmbedder struct {
	inner llm.Embedder
	store *Store
	log   *slog.Logger
}

func NewCachedEmbedder(inner llm.Embedder, store *Store, log *slog.Logger) *CachedEmbedder {
	if log == nil {
		log = slog.Default()
	}
	return &CachedEmbedder{inner: inner, store: store, log: log}
}

// TextHash is the cache key for a text.
func TextHash(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

func (c *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	model := c.inner.Model()

	hashes := make([]string, len(texts))
	for i, t := range texts {
		hashes[i] = TextHash(t)
	}

	cached, err := c.store.Get(ctx, model, hashes)
	if err != nil {
		c.log.Warn("embedding cache read failed", "error", err)
		cached = map[string][]float32{}
	}

	var missTexts, missHashes []string
	queued := make(map[string]bool)
	for i, h := range hashes {
		if _, ok := cached[h]; ok || queued[h] {
			continue
		}
		queued[h] = true
		missTexts = append(missTexts, texts[i])
		missHashes = append(missHashes, h)
	}

	if len(missTexts) > 0 {
		vecs, err := c.inner.EmbedBatch(ctx, missTexts)
		if err != nil {
			return nil, err
		}
		if len(vecs) != len(missTexts) {
			return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vecs), len(missTexts))
		}
		fresh := make(map[string][]float32, len(vecs))
		for i, v := range vecs {
			fresh[missHashes[i]] = v
			cached[missHashes[i]] = v
		}
		if err := c.store.Put(ctx, model, fresh); err != nil {
			c.log.Warn("embedding cache write failed", "error", err)
		}
	}
	c.log.Debug("embedding cache", "model", model, "texts", len(texts), "misses", len(missTexts))

	out := make([][]float32, len(texts))
	for i, h := range hashes {
		out[i] = cached[h]
	}
	return out, nil
}

func (c *CachedEmbedder) Model() string { return c.inner.Model() }
