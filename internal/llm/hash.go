package llm

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// HashEmbedderModel is the model name reported by HashEmbedder.
const HashEmbedderModel = "hashed-ngrams"

// HashEmbedder embeds text locally by hashing lowercase unigrams and
// bigrams (stop words removed) into a fixed number of signed buckets. It
// captures lexical overlap only.
type HashEmbedder struct {
	dim   int
	stats *LLMStats
}

// NewHashEmbedder returns a HashEmbedder with dim buckets. Default: 1024.
func NewHashEmbedder(dim int) *HashEmbedder {
	if dim <= 0 {
		dim = 1024
	}
	return &HashEmbedder{dim: dim, stats: NewLLMStats(0)}
}

func (h *HashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = h.embed(t)
	}
	return out, nil
}

func (h *HashEmbedder) embed(text string) []float32 {
	vec := make([]float32, h.dim)
	words := ContentWords(text)
	for i, w := range words {
		h.add(vec, w, 1)
		if i > 0 {
			h.add(vec, words[i-1]+" "+w, 0.5)
		}
	}

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

func (h *HashEmbedder) add(vec []float32, term string, weight float32) {
	f := fnv.New32a()
	f.Write([]byte(term))
	sum := f.Sum32()
	idx := int(sum % uint32(h.dim))
	if sum&(1<<31) != 0 {
		weight = -weight
	}
	vec[idx] += weight
}

func (h *HashEmbedder) Model() string { return HashEmbedderModel }

func (h *HashEmbedder) Stats() *LLMStats { return h.stats }

func (h *HashEmbedder) Close() {}

// Words splits text into lowercase words of letters and digits.
func Words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '-'
	})
}

// ContentWords is Words with English stop words removed.
func ContentWords(text string) []string {
	words := Words(text)
	out := words[:0]
	for _, w := range words {
		w = strings.Trim(w, "'-")
		if w == "" || IsStopWord(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}
