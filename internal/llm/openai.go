package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient talks to any OpenAI-compatible endpoint (OpenAI, vLLM,
// Ollama, LM Studio) for embeddings and chat completions.
type OpenAIClient struct {
	client     *openai.Client
	httpClient *http.Client
	embedModel string
	chatModel  string
	batchSize  int
	log        *slog.Logger
	stats      *LLMStats
}

func NewOpenAIClient(cfg Config) *OpenAIClient {
	cfg.defaults()
	config := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		config.BaseURL = strings.TrimRight(cfg.OpenAIBaseURL, "/")
	}
	httpClient := &http.Client{Timeout: cfg.Timeout}
	config.HTTPClient = httpClient

	return &OpenAIClient{
		client:     openai.NewClientWithConfig(config),
		httpClient: httpClient,
		embedModel: cfg.OpenAIEmbeddingModel,
		chatModel:  cfg.OpenAIChatModel,
		batchSize:  cfg.BatchSize,
		log:        cfg.Logger,
		stats:      NewLLMStats(0),
	}
}

func (c *OpenAIClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	result := make([][]float32, len(texts))
	for start := 0; start < len(texts); start += c.batchSize {
		end := min(start+c.batchSize, len(texts))
		batch := texts[start:end]

		resp, err := withRetry(ctx, c.log, c.stats, OpEmbed, func(ctx context.Context) (openai.EmbeddingResponse, error) {
			return c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
				Input: batch,
				Model: openai.EmbeddingModel(c.embedModel),
			})
		})
		if err != nil {
			return nil, fmt.Errorf("embed batch [%d:%d]: %w", start, end, err)
		}

		// Reassemble in input order.
		for _, d := range resp.Data {
			if d.Index >= 0 && d.Index < len(batch) {
				result[start+d.Index] = d.Embedding
			}
		}
		for i := start; i < end; i++ {
			if result[i] == nil {
				return nil, fmt.Errorf("missing embedding for input index %d", i)
			}
		}
	}
	return result, nil
}

func (c *OpenAIClient) Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error) {
	out, err := c.complete(ctx, OpSummarize, BuildSummaryPrompt(text, minWords, maxWords))
	if err != nil {
		return "", err
	}
	return CleanSummary(out)
}

func (c *OpenAIClient) Keyphrases(ctx context.Context, text string, n int) ([]string, error) {
	out, err := c.complete(ctx, OpKeyphrases, BuildKeyphrasePrompt(text, n))
	if err != nil {
		return nil, err
	}
	return ParseKeyphrases(out, n)
}

func (c *OpenAIClient) complete(ctx context.Context, op, prompt string) (string, error) {
	resp, err := withRetry(ctx, c.log, c.stats, op, func(ctx context.Context) (openai.ChatCompletionResponse, error) {
		return c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			Temperature: 0.2,
		})
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from %s", c.chatModel)
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) Model() string { return c.embedModel }

func (c *OpenAIClient) Stats() *LLMStats { return c.stats }

// Close releases resources.
func (c *OpenAIClient) Close() {
	c.httpClient.CloseIdleConnections()
}
