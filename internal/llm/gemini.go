package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

// GeminiClient uses the Gemini API for embeddings and text generation.
type GeminiClient struct {
	client     *genai.Client
	model      string
	embedModel string
	batchSize  int
	log        *slog.Logger
	stats      *LLMStats
}

func NewGeminiClient(ctx context.Context, cfg Config) (*GeminiClient, error) {
	cfg.defaults()
	if cfg.GeminiAPIKey == "" {
		return nil, errors.New("missing GEMINI_API_KEY")
	}
	model := cfg.GeminiModel
	if model == "" {
		model = "gemini-2.5-flash"
	}
	embedModel := cfg.GeminiEmbeddingModel
	if embedModel == "" {
		embedModel = "text-embedding-004"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClient{
		client:     c,
		model:      model,
		embedModel: embedModel,
		batchSize:  cfg.BatchSize,
		log:        cfg.Logger,
		stats:      NewLLMStats(0),
	}, nil
}

func (g *GeminiClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	result := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += g.batchSize {
		end := min(start+g.batchSize, len(texts))
		contents := make([]*genai.Content, 0, end-start)
		for _, t := range texts[start:end] {
			contents = append(contents, genai.NewContentFromText(t, genai.RoleUser))
		}

		resp, err := withRetry(ctx, g.log, g.stats, OpEmbed, func(ctx context.Context) (*genai.EmbedContentResponse, error) {
			return g.client.Models.EmbedContent(ctx, g.embedModel, contents, nil)
		})
		if err != nil {
			return nil, fmt.Errorf("embed batch [%d:%d]: %w", start, end, err)
		}
		if len(resp.Embeddings) != end-start {
			return nil, fmt.Errorf("embed batch [%d:%d]: got %d embeddings", start, end, len(resp.Embeddings))
		}
		for _, e := range resp.Embeddings {
			result = append(result, e.Values)
		}
	}
	return result, nil
}

func (g *GeminiClient) Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error) {
	out, err := g.prompt(ctx, OpSummarize, BuildSummaryPrompt(text, minWords, maxWords))
	if err != nil {
		return "", err
	}
	return CleanSummary(out)
}

func (g *GeminiClient) Keyphrases(ctx context.Context, text string, n int) ([]string, error) {
	out, err := g.prompt(ctx, OpKeyphrases, BuildKeyphrasePrompt(text, n))
	if err != nil {
		return nil, err
	}
	return ParseKeyphrases(out, n)
}

func (g *GeminiClient) prompt(ctx context.Context, op, text string) (string, error) {
	res, err := withRetry(ctx, g.log, g.stats, op, func(ctx context.Context) (*genai.GenerateContentResponse, error) {
		return g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
			genai.NewContentFromText(text, genai.RoleUser),
		}, nil)
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return res.Text(), nil
}

func (g *GeminiClient) Model() string { return g.embedModel }

func (g *GeminiClient) Stats() *LLMStats { return g.stats }

// Close is a no-op; the genai client holds no resources that need release.
func (g *GeminiClient) Close() {}
