package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"legalaid-backend/internal/ai"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, user_id, original_filename, stored_filename, storage_key, file_url,
       mime_type, size_bytes, document_type, language, ai_status, is_processed, processed_at,
       ai_explanation, ai_error_message, created_at, updated_at`

// Create inserts a new document record.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
	id, user_id, original_filename, stored_filename, storage_key, file_url,
	mime_type, size_bytes, document_type, language, ai_status, is_processed, processed_at,
	ai_explanation, ai_error_message, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	var explanation sql.NullString
	if doc.AIExplanation != "" {
		explanation = sql.NullString{String: doc.AIExplanation, Valid: true}
	}
	_, err := r.DB.ExecContext(ctx, query,
		doc.ID,
		doc.UserID,
		doc.OriginalFilename,
		doc.StoredFilename,
		doc.StorageKey,
		doc.FileURL,
		doc.MimeType,
		doc.SizeBytes,
		doc.DocumentType,
		doc.Language,
		doc.AIStatus,
		doc.IsProcessed,
		doc.ProcessedAt,
		explanation,
		doc.AIErrorMessage,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return err
}

// GetByID returns a document by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Document, error) {
	query := `
SELECT ` + documentColumns + `
FROM documents
WHERE id = $1
LIMIT 1`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// List returns filtered documents newest-first plus the unpaginated total.
func (r *PGRepo) List(ctx context.Context, f ListFilter) ([]Document, int, error) {
	where, args := buildListWhere(f)

	countQuery := `SELECT COUNT(*) FROM documents` + where
	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := normalizeLimit(f.Limit)
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	query := `
SELECT ` + documentColumns + `
FROM documents` + where + `
ORDER BY created_at DESC
LIMIT $` + fmt.Sprint(len(args)+1) + ` OFFSET $` + fmt.Sprint(len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, 0, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

// Stats aggregates counts by status, type, and language.
func (r *PGRepo) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{
		ByStatus:   make(map[string]int),
		ByType:     make(map[string]int),
		ByLanguage: make(map[string]int),
	}

	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&stats.Total); err != nil {
		return Stats{}, err
	}

	groups := []struct {
		column string
		into   map[string]int
	}{
		{"ai_status", stats.ByStatus},
		{"document_type", stats.ByType},
		{"language", stats.ByLanguage},
	}
	for _, g := range groups {
		query := `SELECT ` + g.column + `, COUNT(*) FROM documents GROUP BY ` + g.column
		rows, err := r.DB.QueryContext(ctx, query)
		if err != nil {
			return Stats{}, err
		}
		for rows.Next() {
			var key string
			var count int
			if err := rows.Scan(&key, &count); err != nil {
				rows.Close()
				return Stats{}, err
			}
			g.into[key] = count
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return Stats{}, err
		}
		rows.Close()
	}
	return stats, nil
}

// MarkCompleted records a successful explanation.
func (r *PGRepo) MarkCompleted(ctx context.Context, id, explanation string, processedAt time.Time) error {
	const query = `
UPDATE documents
SET ai_status = $2,
    ai_explanation = $3,
    ai_error_message = NULL,
    is_processed = TRUE,
    processed_at = $4,
    updated_at = NOW()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id, StatusCompleted, explanation, processedAt)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// MarkFailed records a terminal explanation failure.
func (r *PGRepo) MarkFailed(ctx context.Context, id, errorMessage string) error {
	const query = `
UPDATE documents
SET ai_status = $2,
    ai_error_message = $3,
    ai_explanation = NULL,
    is_processed = FALSE,
    processed_at = NULL,
    updated_at = NOW()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id, StatusFailed, errorMessage)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete removes a document record.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func buildListWhere(f ListFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.UserID != "" {
		add("user_id = $%d", f.UserID)
	}
	if f.DocumentType != "" {
		add("document_type = $%d", string(f.DocumentType))
	}
	if f.AIStatus != "" {
		add("ai_status = $%d", string(f.AIStatus))
	}
	if f.Language != "" {
		add("language = $%d", f.Language)
	}
	if !f.From.IsZero() {
		add("created_at >= $%d", f.From)
	}
	if !f.To.IsZero() {
		add("created_at <= $%d", f.To)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		args = append(args, pattern)
		conds = append(conds, fmt.Sprintf("(original_filename ILIKE $%d OR stored_filename ILIKE $%d)", len(args), len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return "\nWHERE " + strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var language string
	var processedAt sql.NullTime
	var explanation sql.NullString
	var errorMessage sql.NullString
	err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.OriginalFilename,
		&doc.StoredFilename,
		&doc.StorageKey,
		&doc.FileURL,
		&doc.MimeType,
		&doc.SizeBytes,
		&doc.DocumentType,
		&language,
		&doc.AIStatus,
		&doc.IsProcessed,
		&processedAt,
		&explanation,
		&errorMessage,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return Document{}, err
	}
	doc.Language = ai.Language(language)
	if processedAt.Valid {
		doc.ProcessedAt = &processedAt.Time
	}
	if explanation.Valid {
		doc.AIExplanation = explanation.String
	}
	if errorMessage.Valid {
		doc.AIErrorMessage = &errorMessage.String
	}
	return doc, nil
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
