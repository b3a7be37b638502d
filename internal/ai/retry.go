package ai

import (
	"context"
	"log"
	"time"
)

const (
	// DefaultMaxAttempts bounds provider calls per explanation.
	DefaultMaxAttempts = 3
	// DefaultRetryBaseDelay is doubled on every retry: 2s, 4s, 8s, ...
	DefaultRetryBaseDelay = 2000 * time.Millisecond
)

// RetryingClient decorates a Client with bounded exponential backoff.
// The backoff sleep suspends only the calling goroutine; concurrent
// requests are unaffected.
type RetryingClient struct {
	Base        Client
	MaxAttempts int
	BaseDelay   time.Duration

	// sleep is replaceable in tests for deterministic timing.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetryingClient wraps base with retry/backoff. Zero maxAttempts or
// baseDelay fall back to the defaults.
func NewRetryingClient(base Client, maxAttempts int, baseDelay time.Duration) *RetryingClient {
	return &RetryingClient{
		Base:        base,
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
	}
}

// Generate calls the underlying provider up to MaxAttempts times. A failure
// that is not retryable, or a failure on the final attempt, is returned as-is.
func (r *RetryingClient) Generate(ctx context.Context, prompt string) (string, error) {
	attempts := r.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	baseDelay := r.BaseDelay
	if baseDelay <= 0 {
		baseDelay = DefaultRetryBaseDelay
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		text, err := r.Base.Generate(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !Retryable(err) || attempt == attempts {
			return "", err
		}

		delay := baseDelay << (attempt - 1)
		log.Printf("ai retry attempt=%d delay_ms=%d error=%s", attempt, delay.Milliseconds(), SanitizeMessage(err))
		if err := r.wait(ctx, delay); err != nil {
			return "", err
		}
	}
	return "", lastErr
}

func (r *RetryingClient) wait(ctx context.Context, d time.Duration) error {
	if r.sleep != nil {
		return r.sleep(ctx, d)
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ Client = (*RetryingClient)(nil)
