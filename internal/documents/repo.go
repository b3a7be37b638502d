package documents

import (
	"context"
	"time"
)

// ListFilter narrows a paginated listing. Zero values mean "no filter".
// A non-empty UserID scopes the listing to one caller (the history view).
type ListFilter struct {
	UserID       string
	DocumentType DocumentType
	AIStatus     AIStatus
	Language     string
	From         time.Time
	To           time.Time
	Search       string
	Limit        int
	Offset       int
}

// Stats aggregates document counts.
type Stats struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"byStatus"`
	ByType     map[string]int `json:"byType"`
	ByLanguage map[string]int `json:"byLanguage"`
}

// Repo defines persistence operations for documents. All writes are
// single-row upserts; no multi-row transactions are needed because each
// document is owned by one pipeline run.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, id string) (Document, error)
	List(ctx context.Context, f ListFilter) ([]Document, int, error)
	Stats(ctx context.Context) (Stats, error)
	MarkCompleted(ctx context.Context, id, explanation string, processedAt time.Time) error
	MarkFailed(ctx context.Context, id, errorMessage string) error
	Delete(ctx context.Context, id string) error
}
