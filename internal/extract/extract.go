package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"legalaid-backend/internal/shared/storage/object"
)

// ErrNoText indicates the PDF parsed cleanly but contained no extractable
// text. Such documents must not be sent to the model.
var ErrNoText = errors.New("no extractable text in document")

// ErrUnreadable indicates the payload could not be parsed as a PDF at all,
// typically a corrupt file or a non-PDF declared as one.
var ErrUnreadable = errors.New("document could not be parsed")

// Text pulls plain text from a stored PDF object.
func Text(ctx context.Context, store object.ObjectStore, storageKey string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := store.Open(ctx, storageKey)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s: %w", storageKey, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s: read: %w", storageKey, err)
	}

	text, err := FromBytes(ctx, raw)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s: %w", storageKey, err)
	}
	return text, nil
}

// FromBytes extracts text from an in-memory PDF payload.
func FromBytes(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", ErrNoText
	}

	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w: %v", ErrUnreadable, err)
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w: %v", ErrUnreadable, err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w: %v", ErrUnreadable, err)
	}

	return normalize(buf.String())
}

func normalize(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrNoText
	}
	return trimmed, nil
}
