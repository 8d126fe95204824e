package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"openai 429", &openai.APIError{HTTPStatusCode: 429, Message: "slow down"}, true},
		{"openai 503 wrapped", fmt.Errorf("call: %w", &openai.APIError{HTTPStatusCode: 503}), true},
		{"openai 400", &openai.APIError{HTTPStatusCode: 400}, false},
		{"openai request 502", &openai.RequestError{HTTPStatusCode: 502, Err: errors.New("bad gateway")}, true},
		{"gemini 500", genai.APIError{Code: 500, Message: "internal"}, true},
		{"gemini 404", genai.APIError{Code: 404}, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(classify(tt.err)); got != tt.retryable {
				t.Errorf("expected retryable=%v, got %v", tt.retryable, got)
			}
		})
	}
	if classify(nil) != nil {
		t.Error("classify(nil) must be nil")
	}
}

func TestBackoff_Bounds(t *testing.T) {
	for attempt := range 8 {
		d := Backoff(attempt)
		base := time.Duration(1<<uint(attempt)) * time.Second
		if base > 30*time.Second {
			base = 30 * time.Second
		}
		if d < base || d >= base+base/2 {
			t.Errorf("attempt %d: backoff %v outside [%v, %v)", attempt, d, base, base+base/2)
		}
	}
}

func TestWithRetry_StopsOnPermanentError(t *testing.T) {
	calls := 0
	stats := NewLLMStats(time.Hour)
	_, err := withRetry(context.Background(), slog.Default(), stats, OpEmbed, func(context.Context) (int, error) {
		calls++
		return 0, errors.New("permanent")
	})
	if err == nil || calls != 1 {
		t.Errorf("expected one failing call, got calls=%d err=%v", calls, err)
	}
	if stats.Snapshot().Count != 1 {
		t.Errorf("expected one latency sample, got %d", stats.Snapshot().Count)
	}
}

func TestWithRetry_CancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := withRetry(ctx, slog.Default(), nil, OpEmbed, func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, &RetryableError{StatusCode: 503, Message: "busy"}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestWithRetry_Succeeds(t *testing.T) {
	v, err := withRetry(context.Background(), slog.Default(), nil, OpEmbed, func(context.Context) (string, error) {
		return "ok", nil
	})
	if err != nil || v != "ok" {
		t.Errorf("expected ok, got %q %v", v, err)
	}
}
