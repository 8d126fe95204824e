package rank

import (
	"context"
	"errors"
	"testing"
)

func TestCandidatePhrases(t *testing.T) {
	got := CandidatePhrases("The quick fox, the lazy dog", 2)
	want := []string{"dog", "fox", "fox lazy", "lazy", "lazy dog", "quick", "quick fox"}
	if !equal(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCandidatePhrases_DropsShortTokensAndDuplicates(t *testing.T) {
	got := CandidatePhrases("a 4 b trip trip", 1)
	if want := []string{"trip"}; !equal(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func keyphraseEmbedder() *stubEmbedder {
	return &stubEmbedder{
		vecs: map[string][]float32{
			"alpha beta gamma": {1, 1, 0},
			"alpha":            {1, 0, 0},
			"beta":             {1, 0.05, 0},
			"gamma":            {0, 1, 0.1},
		},
		fallback: []float32{0, 0, 1},
	}
}

func TestEmbeddingKeyphraser_MaxSumPicksDiverseSet(t *testing.T) {
	k := &EmbeddingKeyphraser{Embedder: keyphraseEmbedder(), MaxNGram: 1}
	got, err := k.Keyphrases(context.Background(), "alpha beta gamma", 2)
	if err != nil {
		t.Fatalf("Keyphrases: %v", err)
	}
	if want := []string{"alpha", "gamma"}; !equal(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestEmbeddingKeyphraser_CandidateLimit(t *testing.T) {
	k := &EmbeddingKeyphraser{Embedder: keyphraseEmbedder(), MaxNGram: 1, Candidates: 2}
	got, err := k.Keyphrases(context.Background(), "alpha beta gamma", 2)
	if err != nil {
		t.Fatalf("Keyphrases: %v", err)
	}
	if want := []string{"beta", "alpha"}; !equal(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestEmbeddingKeyphraser_FewerCandidatesThanRequested(t *testing.T) {
	k := &EmbeddingKeyphraser{Embedder: keyphraseEmbedder(), MaxNGram: 1}
	got, err := k.Keyphrases(context.Background(), "alpha beta gamma", 5)
	if err != nil {
		t.Fatalf("Keyphrases: %v", err)
	}
	if want := []string{"beta", "alpha", "gamma"}; !equal(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestEmbeddingKeyphraser_EmptyAndErrors(t *testing.T) {
	k := &EmbeddingKeyphraser{Embedder: keyphraseEmbedder()}
	if got, err := k.Keyphrases(context.Background(), "the of and", 5); err != nil || len(got) != 0 {
		t.Errorf("expected no phrases for stop-word text, got %q %v", got, err)
	}
	k = &EmbeddingKeyphraser{Embedder: &stubEmbedder{err: errors.New("down")}}
	if _, err := k.Keyphrases(context.Background(), "alpha beta", 2); err == nil {
		t.Error("expected embedder error to propagate")
	}
}

func TestMaxSum_LowestPairwiseSimilarity(t *testing.T) {
	vecs := [][]float32{{1, 0}, {0.99, 0.1}, {0, 1}, {0.1, 0.99}}
	got := maxSum([]int{0, 1, 2, 3}, vecs, 2)
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("expected [0 2], got %v", got)
	}
}
