package documents

import (
	"strings"
	"time"

	"legalaid-backend/internal/ai"
)

// DocumentType classifies an uploaded document.
type DocumentType string

const (
	TypeLegalDocument  DocumentType = "legal_document"
	TypeContract       DocumentType = "contract"
	TypeCertificate    DocumentType = "certificate"
	TypeIdentification DocumentType = "identification"
	TypeOther          DocumentType = "other"
)

// AIStatus is the processing state of a document's AI explanation.
type AIStatus string

const (
	StatusPending    AIStatus = "pending"
	StatusProcessing AIStatus = "processing"
	StatusCompleted  AIStatus = "completed"
	StatusFailed     AIStatus = "failed"
)

// Document is a single uploaded file plus its processing metadata and AI
// output.
//
// Status invariants: completed implies a non-empty explanation, IsProcessed,
// and ProcessedAt set; failed implies AIErrorMessage set and an empty
// explanation. Language is fixed at submission; a retry in another language
// is a new Document.
type Document struct {
	ID               string
	UserID           string
	OriginalFilename string
	StoredFilename   string
	StorageKey       string
	FileURL          string
	MimeType         string
	SizeBytes        int64
	DocumentType     DocumentType
	Language         ai.Language
	AIStatus         AIStatus
	IsProcessed      bool
	ProcessedAt      *time.Time
	AIExplanation    string
	AIErrorMessage   *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DocumentTypeFromCategory maps a caller-supplied category to the closed
// document-type set. Unrecognized categories become TypeOther.
func DocumentTypeFromCategory(raw string) DocumentType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "legal", "legal_document", "legal document":
		return TypeLegalDocument
	case "contract":
		return TypeContract
	case "certificate":
		return TypeCertificate
	case "id", "identification":
		return TypeIdentification
	default:
		return TypeOther
	}
}

// ParseDocumentType validates a raw document type filter value.
func ParseDocumentType(raw string) (DocumentType, bool) {
	switch DocumentType(strings.ToLower(strings.TrimSpace(raw))) {
	case TypeLegalDocument:
		return TypeLegalDocument, true
	case TypeContract:
		return TypeContract, true
	case TypeCertificate:
		return TypeCertificate, true
	case TypeIdentification:
		return TypeIdentification, true
	case TypeOther:
		return TypeOther, true
	default:
		return "", false
	}
}

// ParseAIStatus validates a raw status filter value.
func ParseAIStatus(raw string) (AIStatus, bool) {
	switch AIStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, true
	case StatusProcessing:
		return StatusProcessing, true
	case StatusCompleted:
		return StatusCompleted, true
	case StatusFailed:
		return StatusFailed, true
	default:
		return "", false
	}
}
