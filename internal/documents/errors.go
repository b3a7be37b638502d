package documents

import (
	"errors"
	"fmt"

	"legalaid-backend/internal/ai"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrFileTooLarge    = errors.New("file exceeds the size limit")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrPDFOnly         = errors.New("only pdf files are supported")
)

// AIFailureError surfaces a classified provider failure together with the
// persisted document id, so the caller can correlate a later retry.
type AIFailureError struct {
	DocumentID     string
	Classification ai.Classification
	Err            error
}

func (e *AIFailureError) Error() string {
	return fmt.Sprintf("ai explanation failed (%s): %v", e.Classification.Kind, e.Err)
}

func (e *AIFailureError) Unwrap() error { return e.Err }
