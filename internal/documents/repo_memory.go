package documents

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo used when no database
// is configured.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Document
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Document)}
}

// Create stores a new document.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[doc.ID] = doc
	return nil
}

// GetByID returns a document by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.data[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// List returns filtered documents newest-first plus the unpaginated total.
func (r *MemoryRepo) List(ctx context.Context, f ListFilter) ([]Document, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	r.mu.RLock()
	var matched []Document
	for _, doc := range r.data {
		if matchesFilter(doc, f) {
			matched = append(matched, doc)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []Document{}, total, nil
	}
	end := total
	limit := normalizeLimit(f.Limit)
	if offset+limit < end {
		end = offset + limit
	}
	return matched[offset:end], total, nil
}

// Stats aggregates counts by status, type, and language.
func (r *MemoryRepo) Stats(ctx context.Context) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Stats{
		ByStatus:   make(map[string]int),
		ByType:     make(map[string]int),
		ByLanguage: make(map[string]int),
	}
	for _, doc := range r.data {
		stats.Total++
		stats.ByStatus[string(doc.AIStatus)]++
		stats.ByType[string(doc.DocumentType)]++
		stats.ByLanguage[string(doc.Language)]++
	}
	return stats, nil
}

// MarkCompleted records a successful explanation.
func (r *MemoryRepo) MarkCompleted(ctx context.Context, id, explanation string, processedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	doc.AIStatus = StatusCompleted
	doc.AIExplanation = explanation
	doc.AIErrorMessage = nil
	doc.IsProcessed = true
	doc.ProcessedAt = &processedAt
	doc.UpdatedAt = time.Now().UTC()
	r.data[id] = doc
	return nil
}

// MarkFailed records a terminal explanation failure.
func (r *MemoryRepo) MarkFailed(ctx context.Context, id, errorMessage string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	doc.AIStatus = StatusFailed
	doc.AIErrorMessage = &errorMessage
	doc.AIExplanation = ""
	doc.IsProcessed = false
	doc.ProcessedAt = nil
	doc.UpdatedAt = time.Now().UTC()
	r.data[id] = doc
	return nil
}

// Delete removes a document record.
func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

func matchesFilter(doc Document, f ListFilter) bool {
	if f.UserID != "" && doc.UserID != f.UserID {
		return false
	}
	if f.DocumentType != "" && doc.DocumentType != f.DocumentType {
		return false
	}
	if f.AIStatus != "" && doc.AIStatus != f.AIStatus {
		return false
	}
	if f.Language != "" && string(doc.Language) != f.Language {
		return false
	}
	if !f.From.IsZero() && doc.CreatedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && doc.CreatedAt.After(f.To) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(doc.OriginalFilename), needle) &&
			!strings.Contains(strings.ToLower(doc.StoredFilename), needle) {
			return false
		}
	}
	return true
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}

var _ Repo = (*MemoryRepo)(nil)
