package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Client abstracts a generative-text provider.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ProviderError is a transport-level failure reported by the provider,
// carrying the upstream HTTP status code.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("provider error: http status %d", e.StatusCode)
	}
	return fmt.Sprintf("provider error: http status %d: %s", e.StatusCode, e.Message)
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("AI provider not configured")

// PlaceholderClient is a stub implementation used when no provider is wired.
type PlaceholderClient struct{}

// Generate returns ErrNotConfigured.
func (PlaceholderClient) Generate(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	_ = prompt
	return "", ErrNotConfigured
}

// SanitizeMessage flattens and truncates an error message so it is safe to
// log or persist.
func SanitizeMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}
