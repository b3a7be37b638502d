package ai

import (
	"errors"
	"net/http"
	"strings"

	"legalaid-backend/internal/extract"
)

// Kind is a closed taxonomy of explanation failures. It drives both the
// user-facing response and the retry decision.
type Kind string

const (
	KindConfigError       Kind = "config_error"
	KindQuotaExceeded     Kind = "quota_exceeded"
	KindContentBlocked    Kind = "content_blocked"
	KindServiceOverloaded Kind = "service_overloaded"
	KindExtractionFailed  Kind = "extraction_failed"
	KindUnknown           Kind = "unknown"
)

// Classification maps a raw failure onto a taxonomy kind with a suggested
// HTTP status and a user-safe message.
type Classification struct {
	Kind    Kind
	Status  int
	Message string
}

// Classify maps a provider or extraction failure onto the closed taxonomy.
// Unmatched errors fall through to KindUnknown.
//
// Matching is deliberately substring-based on top of the structured status
// code: provider SDK error messages are not stable enough to rely on either
// signal alone. Tighten here, not in the retry loop.
func Classify(err error) Classification {
	status := providerStatus(err)
	msg := ""
	if err != nil {
		msg = strings.ToLower(err.Error())
	}

	switch {
	case errors.Is(err, extract.ErrNoText):
		return Classification{
			Kind:    KindExtractionFailed,
			Status:  http.StatusBadRequest,
			Message: "Could not read any text from the document. Please upload a clearer copy.",
		}
	case errors.Is(err, extract.ErrUnreadable):
		return Classification{
			Kind:    KindExtractionFailed,
			Status:  http.StatusBadRequest,
			Message: "Could not read the document. Please make sure it is a valid PDF file.",
		}
	case errors.Is(err, ErrNotConfigured), strings.Contains(msg, "api key"):
		return Classification{
			Kind:    KindConfigError,
			Status:  http.StatusInternalServerError,
			Message: "The AI service is not configured correctly. Please contact support.",
		}
	case strings.Contains(msg, "quota") || status == http.StatusTooManyRequests:
		return Classification{
			Kind:    KindQuotaExceeded,
			Status:  http.StatusTooManyRequests,
			Message: "The AI service is busy right now. Please try again in a few minutes.",
		}
	case strings.Contains(msg, "safety"):
		return Classification{
			Kind:    KindContentBlocked,
			Status:  http.StatusBadRequest,
			Message: "The document content was blocked by the AI content filters.",
		}
	case status == http.StatusServiceUnavailable || strings.Contains(msg, "overloaded"):
		return Classification{
			Kind:    KindServiceOverloaded,
			Status:  http.StatusServiceUnavailable,
			Message: "The AI service is temporarily overloaded. Please try again shortly.",
		}
	default:
		return Classification{
			Kind:    KindUnknown,
			Status:  http.StatusInternalServerError,
			Message: "The AI service failed to analyze the document. Please try again.",
		}
	}
}

// Retryable reports whether a provider failure is worth another attempt.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	switch providerStatus(err) {
	case http.StatusServiceUnavailable, http.StatusTooManyRequests, http.StatusInternalServerError:
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "overloaded") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "service unavailable")
}

func providerStatus(err error) int {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.StatusCode
	}
	return 0
}
