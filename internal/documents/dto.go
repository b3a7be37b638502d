package documents

import (
	"time"

	"legalaid-backend/internal/ai"
)

// UploadResponse is the outward-facing representation of an uploaded document.
type UploadResponse struct {
	DocumentID       string    `json:"documentId"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"originalFilename"`
	FileURL          string    `json:"fileUrl"`
	MimeType         string    `json:"mimeType"`
	SizeBytes        int64     `json:"sizeBytes"`
	DocumentType     string    `json:"documentType"`
	UploadedAt       time.Time `json:"uploadedAt"`
}

func toUploadResponse(doc Document) UploadResponse {
	return UploadResponse{
		DocumentID:       doc.ID,
		Filename:         doc.StoredFilename,
		OriginalFilename: doc.OriginalFilename,
		FileURL:          doc.FileURL,
		MimeType:         doc.MimeType,
		SizeBytes:        doc.SizeBytes,
		DocumentType:     string(doc.DocumentType),
		UploadedAt:       doc.CreatedAt,
	}
}

// ExplainResponse is returned from a successful explanation request.
type ExplainResponse struct {
	DocumentID     string `json:"documentId"`
	Explanation    string `json:"explanation"`
	Language       string `json:"language"`
	Confidence     int    `json:"confidence"`
	WordCount      int    `json:"wordCount"`
	CharacterCount int    `json:"characterCount"`
	Truncated      bool   `json:"truncated"`
}

func toExplainResponse(res ExplainResult) ExplainResponse {
	return ExplainResponse{
		DocumentID:     res.DocumentID,
		Explanation:    res.Explanation,
		Language:       string(res.Language),
		Confidence:     res.Confidence,
		WordCount:      res.WordCount,
		CharacterCount: res.CharacterCount,
		Truncated:      res.Truncated,
	}
}

// DocumentResponse is the detailed representation of a document record.
type DocumentResponse struct {
	DocumentID       string     `json:"documentId"`
	OriginalFilename string     `json:"originalFilename"`
	Filename         string     `json:"filename"`
	FileURL          string     `json:"fileUrl"`
	MimeType         string     `json:"mimeType"`
	SizeBytes        int64      `json:"sizeBytes"`
	DocumentType     string     `json:"documentType"`
	Language         string     `json:"language"`
	AIStatus         string     `json:"aiStatus"`
	IsProcessed      bool       `json:"isProcessed"`
	ProcessedAt      *time.Time `json:"processedAt,omitempty"`
	AIExplanation    string     `json:"aiExplanation,omitempty"`
	AIErrorMessage   *string    `json:"aiErrorMessage,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func toDocumentResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		DocumentID:       doc.ID,
		OriginalFilename: doc.OriginalFilename,
		Filename:         doc.StoredFilename,
		FileURL:          doc.FileURL,
		MimeType:         doc.MimeType,
		SizeBytes:        doc.SizeBytes,
		DocumentType:     string(doc.DocumentType),
		Language:         string(doc.Language),
		AIStatus:         string(doc.AIStatus),
		IsProcessed:      doc.IsProcessed,
		ProcessedAt:      doc.ProcessedAt,
		AIExplanation:    doc.AIExplanation,
		AIErrorMessage:   doc.AIErrorMessage,
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
	}
}

// ListResponse wraps a page of documents with the unpaginated total.
type ListResponse struct {
	Documents []DocumentResponse `json:"documents"`
	Total     int                `json:"total"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
}

func toListResponse(docs []Document, total, limit, offset int) ListResponse {
	out := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toDocumentResponse(doc))
	}
	return ListResponse{Documents: out, Total: total, Limit: limit, Offset: offset}
}

// LanguagesResponse lists the languages explanations can be produced in.
type LanguagesResponse struct {
	Languages []ai.LanguageInfo `json:"languages"`
	Default   string            `json:"default"`
}
