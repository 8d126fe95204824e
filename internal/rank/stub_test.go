package rank

import (
	"context"
	"errors"
	"sync"
)

// stubEmbedder returns fixed vectors per text, or a default vector.
type stubEmbedder struct {
	mu       sync.Mutex
	vecs     map[string][]float32
	fallback []float32
	calls    [][]string
	err      error
}

func (s *stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, append([]string(nil), texts...))
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := s.vecs[t]; ok {
			out[i] = v
		} else {
			out[i] = s.fallback
		}
	}
	return out, nil
}

func (s *stubEmbedder) Model() string { return "stub" }

type stubKeyphraser struct {
	phrases []string
	err     error
}

func (s stubKeyphraser) Keyphrases(context.Context, string, int) ([]string, error) {
	return s.phrases, s.err
}

type stubSummarizer struct {
	fail bool
}

func (s stubSummarizer) Summarize(_ context.Context, text string, _, _ int) (string, error) {
	if s.fail {
		return "", errors.New("model unavailable")
	}
	return "summary of " + text[:min(10, len(text))], nil
}
