package rank

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/docsift/internal/llm"
)

// EmbeddingKeyphraser picks key phrases by embedding candidate n-grams of
// the text and choosing, among those most similar to the whole text, the
// set that is least similar to itself (Max Sum Distance).
type EmbeddingKeyphraser struct {
	Embedder   llm.Embedder
	MaxNGram   int // Longest candidate phrase in words. Default: 3.
	Candidates int // Most similar candidates considered for selection. Default: 20.
}

// Keyphrases returns up to n phrases ordered by similarity to text.
func (k *EmbeddingKeyphraser) Keyphrases(ctx context.Context, text string, n int) ([]string, error) {
	maxN := k.MaxNGram
	if maxN <= 0 {
		maxN = 3
	}
	nrCandidates := k.Candidates
	if nrCandidates <= 0 {
		nrCandidates = 20
	}

	words := CandidatePhrases(text, maxN)
	if len(words) == 0 || n <= 0 {
		return nil, nil
	}

	vecs, err := k.Embedder.EmbedBatch(ctx, append([]string{text}, words...))
	if err != nil {
		return nil, fmt.Errorf("embed keyphrase candidates: %w", err)
	}
	if len(vecs) != len(words)+1 {
		return nil, fmt.Errorf("embed keyphrase candidates: got %d vectors for %d texts", len(vecs), len(words)+1)
	}
	doc, wordVecs := vecs[0], vecs[1:]

	sims := make([]float64, len(words))
	for i, v := range wordVecs {
		sims[i] = CosineSimilarity(doc, v)
	}

	idx := make([]int, len(words))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return sims[idx[a]] > sims[idx[b]] })
	if len(idx) > nrCandidates {
		idx = idx[:nrCandidates]
	}

	chosen := idx
	if n < len(idx) {
		chosen = maxSum(idx, wordVecs, n)
	}
	sort.SliceStable(chosen, func(a, b int) bool { return sims[chosen[a]] > sims[chosen[b]] })

	out := make([]string, len(chosen))
	for i, c := range chosen {
		out[i] = words[c]
	}
	return out, nil
}

// maxSum returns the size-n subset of candidates whose summed pairwise
// similarity is lowest. The first such subset in lexicographic order wins.
func maxSum(candidates []int, vecs [][]float32, n int) []int {
	m := len(candidates)
	pair := make([][]float64, m)
	for i := range m {
		pair[i] = make([]float64, m)
		for j := range m {
			if i != j {
				pair[i][j] = CosineSimilarity(vecs[candidates[i]], vecs[candidates[j]])
			}
		}
	}

	var best []int
	bestSum := 0.0
	combo := make([]int, n)
	var walk func(start, depth int, sum float64)
	walk = func(start, depth int, sum float64) {
		if depth == n {
			if best == nil || sum < bestSum {
				best = append(best[:0], combo...)
				bestSum = sum
			}
			return
		}
		for i := start; i <= m-(n-depth); i++ {
			add := 0.0
			for _, prev := range combo[:depth] {
				add += pair[prev][i] + pair[i][prev]
			}
			combo[depth] = i
			walk(i+1, depth+1, sum+add)
		}
	}
	walk(0, 0, 0)

	out := make([]int, len(best))
	for i, b := range best {
		out[i] = candidates[b]
	}
	return out
}

// CandidatePhrases returns the distinct 1..maxN-word phrases of text after
// lowercasing and removing stop words and single-character tokens, in
// alphabetical order.
func CandidatePhrases(text string, maxN int) []string {
	var tokens []string
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	}) {
		if utf8.RuneCountInString(w) < 2 || llm.IsStopWord(w) {
			continue
		}
		tokens = append(tokens, w)
	}

	seen := make(map[string]bool)
	var out []string
	for size := 1; size <= maxN; size++ {
		for i := 0; i+size <= len(tokens); i++ {
			p := strings.Join(tokens[i:i+size], " ")
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	sort.Strings(out)
	return out
}
