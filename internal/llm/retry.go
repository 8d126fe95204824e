package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// MaxRetries bounds attempts for a single provider call.
const MaxRetries = 3

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

// classify turns provider errors carrying a 429 or 5xx status into
// RetryableError. Other errors pass through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && transient(apiErr.HTTPStatusCode) {
		return &RetryableError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && transient(reqErr.HTTPStatusCode) {
		return &RetryableError{StatusCode: reqErr.HTTPStatusCode, Message: reqErr.Error()}
	}
	var gErr genai.APIError
	if errors.As(err, &gErr) && transient(gErr.Code) {
		return &RetryableError{StatusCode: gErr.Code, Message: gErr.Message}
	}
	return err
}

func transient(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// withRetry runs call until it succeeds, fails permanently, exhausts
// MaxRetries or ctx ends. Each attempt's latency is recorded in stats.
func withRetry[T any](ctx context.Context, log *slog.Logger, stats *LLMStats, op string, call func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := range MaxRetries {
		start := time.Now()
		v, err := call(ctx)
		stats.Record(op, time.Since(start).Milliseconds())
		err = classify(err)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if !IsRetryable(err) {
			break
		}
		log.Warn("retryable provider error", "op", op, "attempt", attempt, "error", err)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
	return zero, lastErr
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
