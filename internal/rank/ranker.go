package rank

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/dgallion1/docsift/internal/doctree"
	"github.com/dgallion1/docsift/internal/llm"
	"github.com/dgallion1/docsift/internal/segment"
)

// ErrNoSections is returned when a collection yields no sections to rank.
var ErrNoSections = errors.New("no sections extracted from any document")

// Config controls the ranking pipeline.
type Config struct {
	Lambda          float64 // Relevance weight in [0,1]. Default: 0.6.
	TopN            int     // Sections to select. Default: 5.
	Keyphrases      int     // Key phrases added to the query. Default: 5.
	SummaryMinWords int     // Default: 40.
	SummaryMaxWords int     // Default: 150.
	MaxInputTokens  int     // Section text is truncated to this before model calls. Default: 1024.
	MaxConcurrent   int     // Parallel summary calls. Default: 4.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Lambda:          0.6,
		TopN:            5,
		Keyphrases:      5,
		SummaryMinWords: 40,
		SummaryMaxWords: 150,
		MaxInputTokens:  1024,
		MaxConcurrent:   4,
	}
}

func (c *Config) defaults() {
	d := DefaultConfig()
	if math.IsNaN(c.Lambda) || c.Lambda < 0 || c.Lambda > 1 {
		c.Lambda = d.Lambda
	}
	if c.TopN <= 0 {
		c.TopN = d.TopN
	}
	if c.Keyphrases <= 0 {
		c.Keyphrases = d.Keyphrases
	}
	if c.SummaryMinWords <= 0 {
		c.SummaryMinWords = d.SummaryMinWords
	}
	if c.SummaryMaxWords <= 0 {
		c.SummaryMaxWords = d.SummaryMaxWords
	}
	if c.MaxInputTokens <= 0 {
		c.MaxInputTokens = d.MaxInputTokens
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = d.MaxConcurrent
	}
}

// Ranker runs keyphrase extraction, embedding, MMR selection and
// summarization for a persona and task.
type Ranker struct {
	embedder   llm.Embedder
	keyphraser llm.Keyphraser
	summarizer llm.Summarizer
	cfg        Config
	log        *slog.Logger
	now        func() time.Time
}

// NewRanker builds a Ranker. A nil keyphraser falls back to
// EmbeddingKeyphraser over embedder; a nil summarizer to Extractive.
func NewRanker(embedder llm.Embedder, keyphraser llm.Keyphraser, summarizer llm.Summarizer, cfg Config, log *slog.Logger) *Ranker {
	cfg.defaults()
	if keyphraser == nil {
		keyphraser = &EmbeddingKeyphraser{Embedder: embedder}
	}
	if summarizer == nil {
		summarizer = Extractive{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Ranker{
		embedder:   embedder,
		keyphraser: keyphraser,
		summarizer: summarizer,
		cfg:        cfg,
		log:        log,
		now:        time.Now,
	}
}

// Request is one ranking run over already segmented documents.
type Request struct {
	Persona   string
	Job       string
	Documents []string
	Sections  []doctree.Section
}

// Rank selects and summarizes the sections that best serve req.
func (r *Ranker) Rank(ctx context.Context, req Request) (*Output, error) {
	if len(req.Sections) == 0 {
		return nil, ErrNoSections
	}

	keyphrases, err := r.keyphraser.Keyphrases(ctx, Context(req.Persona, req.Job), r.cfg.Keyphrases)
	if err != nil {
		r.log.Warn("keyphrase extraction failed, using plain query", "error", err)
		keyphrases = nil
	}
	query := BuildQuery(req.Persona, req.Job, keyphrases)
	r.log.Debug("built query", "query", query, "keyphrases", keyphrases)

	texts := make([]string, 0, len(req.Sections)+1)
	texts = append(texts, query)
	for _, s := range req.Sections {
		texts = append(texts, segment.TruncateTokens(SectionText(s), r.cfg.MaxInputTokens))
	}
	vecs, err := r.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed sections: %w", err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("embed sections: got %d vectors for %d texts", len(vecs), len(texts))
	}

	top := Rerank(vecs[0], vecs[1:], req.Sections, r.cfg.Lambda, r.cfg.TopN)
	r.log.Info("ranked sections", "candidates", len(req.Sections), "selected", len(top))

	out := &Output{
		Metadata: Metadata{
			InputDocuments:      nonNil(req.Documents),
			Persona:             req.Persona,
			JobToBeDone:         req.Job,
			ProcessingTimestamp: r.now().UTC().Format(TimestampFormat),
		},
		ExtractedSections:  make([]ExtractedSection, 0, len(top)),
		SubsectionAnalysis: make([]SubsectionAnalysis, len(top)),
	}
	for _, s := range top {
		out.ExtractedSections = append(out.ExtractedSections, ExtractedSection{
			Document:       s.Document,
			SectionTitle:   s.Title,
			ImportanceRank: s.ImportanceRank,
			PageNumber:     s.PageNumber,
		})
	}

	sem := make(chan struct{}, r.cfg.MaxConcurrent)
	done := make(chan struct{}, len(top))
	for i, s := range top {
		sem <- struct{}{}
		go func(i int, s doctree.Section) {
			defer func() { <-sem; done <- struct{}{} }()
			out.SubsectionAnalysis[i] = SubsectionAnalysis{
				Document:    s.Document,
				RefinedText: r.summarize(ctx, s),
				PageNumber:  s.PageNumber,
			}
		}(i, s)
	}
	for range top {
		<-done
	}

	return out, ctx.Err()
}

func (r *Ranker) summarize(ctx context.Context, s doctree.Section) string {
	text := segment.TruncateTokens(s.Content, r.cfg.MaxInputTokens)
	summary, err := r.summarizer.Summarize(ctx, text, r.cfg.SummaryMinWords, r.cfg.SummaryMaxWords)
	if err == nil && summary != "" {
		return summary
	}
	if err != nil {
		r.log.Warn("summary failed, using extractive", "document", s.Document, "section", s.Title, "error", err)
	}
	summary, _ = Extractive{}.Summarize(ctx, text, r.cfg.SummaryMinWords, r.cfg.SummaryMaxWords)
	return summary
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
