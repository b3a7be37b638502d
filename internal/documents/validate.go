package documents

import (
	"fmt"
	"strings"
)

// MaxFileSizeBytes caps uploads at 10 MiB.
const MaxFileSizeBytes = 10 << 20

const mimePDF = "application/pdf"

var allowedUploadMimeTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/jpg":       {},
	"application/pdf": {},
	"image/tiff":      {},
	"image/bmp":       {},
}

// ValidateUpload checks the declared MIME type and size for the generic
// upload flow.
func ValidateUpload(mimeType string, sizeBytes int64) error {
	if sizeBytes > MaxFileSizeBytes {
		return fmt.Errorf("%w: maximum size is 10MB", ErrFileTooLarge)
	}
	if _, ok := allowedUploadMimeTypes[normalizeMime(mimeType)]; !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, normalizeMime(mimeType))
	}
	return nil
}

// ValidateExplain checks the declared MIME type and size for the explanation
// flow, which accepts PDFs only.
func ValidateExplain(mimeType string, sizeBytes int64) error {
	if sizeBytes > MaxFileSizeBytes {
		return fmt.Errorf("%w: maximum size is 10MB", ErrFileTooLarge)
	}
	if normalizeMime(mimeType) != mimePDF {
		return ErrPDFOnly
	}
	return nil
}

func normalizeMime(raw string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(raw, ";")[0]))
}
