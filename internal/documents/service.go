package documents

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"legalaid-backend/internal/ai"
	"legalaid-backend/internal/extract"
	"legalaid-backend/internal/shared/metrics"
	"legalaid-backend/internal/shared/storage/object"
	"legalaid-backend/internal/shared/telemetry"
)

// Service contains business logic for documents.
type Service struct {
	Repo  Repo
	Store object.ObjectStore
	AI    ai.Client

	// extractText is replaceable in tests so the pipeline can be exercised
	// without crafting real PDF payloads.
	extractText func(ctx context.Context, store object.ObjectStore, storageKey string) (string, error)
}

// NewService constructs a Service.
func NewService(repo Repo, store object.ObjectStore, client ai.Client) *Service {
	return &Service{
		Repo:        repo,
		Store:       store,
		AI:          client,
		extractText: extract.Text,
	}
}

// Upload saves the file to object storage and records the document with a
// pending explanation status.
func (s *Service) Upload(ctx context.Context, userID, fileName, category string, declaredSize int64, declaredMime string, r io.Reader) (Document, error) {
	if fileName == "" {
		return Document{}, ErrInvalidInput
	}
	if err := ValidateUpload(declaredMime, declaredSize); err != nil {
		return Document{}, err
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, userID, fileName, r)
	if err != nil {
		return Document{}, err
	}

	now := time.Now().UTC()
	doc := Document{
		ID:               uuid.NewString(),
		UserID:           userID,
		OriginalFilename: fileName,
		StoredFilename:   storedName(storageKey),
		StorageKey:       storageKey,
		FileURL:          "/uploads/" + storageKey,
		MimeType:         mimeType,
		SizeBytes:        size,
		DocumentType:     DocumentTypeFromCategory(category),
		Language:         ai.LanguageEnglish,
		AIStatus:         StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		if delErr := s.Store.Delete(ctx, storageKey); delErr != nil {
			telemetry.Error("upload.cleanup", map[string]any{
				"storage_key": storageKey,
				"error":       delErr.Error(),
			})
		}
		return Document{}, err
	}

	metrics.IncUpload()
	return doc, nil
}

// ExplainResult is the outcome of a successful explanation run.
type ExplainResult struct {
	DocumentID     string
	Explanation    string
	Language       ai.Language
	Confidence     int
	WordCount      int
	CharacterCount int
	Truncated      bool
}

// Explain runs the full pipeline for a freshly submitted PDF: store the
// file, extract its text, ask the model for an explanation in the requested
// language, and persist the outcome.
//
// Failures before a record exists (validation, extraction) clean up the
// stored file and create no record. Failures after the model call persist a
// failed record and return an *AIFailureError carrying the document id.
func (s *Service) Explain(ctx context.Context, userID, fileName, langRaw string, declaredSize int64, declaredMime string, r io.Reader) (ExplainResult, error) {
	if fileName == "" {
		return ExplainResult{}, ErrInvalidInput
	}
	lang, ok := ai.ParseLanguage(langRaw)
	if !ok {
		return ExplainResult{}, ErrInvalidInput
	}
	if err := ValidateExplain(declaredMime, declaredSize); err != nil {
		return ExplainResult{}, err
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, userID, fileName, r)
	if err != nil {
		return ExplainResult{}, err
	}

	text, err := s.extractText(ctx, s.Store, storageKey)
	if err != nil {
		s.deleteStored(ctx, storageKey)
		return ExplainResult{}, err
	}

	prompt := ai.BuildPrompt(text, lang)

	now := time.Now().UTC()
	doc := Document{
		ID:               uuid.NewString(),
		UserID:           userID,
		OriginalFilename: fileName,
		StoredFilename:   storedName(storageKey),
		StorageKey:       storageKey,
		FileURL:          "/uploads/" + storageKey,
		MimeType:         mimeType,
		SizeBytes:        size,
		DocumentType:     TypeLegalDocument,
		Language:         lang,
		AIStatus:         StatusProcessing,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		s.deleteStored(ctx, storageKey)
		return ExplainResult{}, err
	}

	metrics.IncExplanationStarted()
	telemetry.Info("explain.status", map[string]any{
		"document_id": doc.ID,
		"language":    string(lang),
		"status":      string(StatusProcessing),
	})
	started := time.Now()

	explanation, genErr := s.AI.Generate(ctx, prompt.Text)
	if genErr == nil && strings.TrimSpace(explanation) == "" {
		genErr = errors.New("model returned an empty explanation")
	}
	if genErr != nil {
		return ExplainResult{}, s.failExplanation(ctx, doc.ID, genErr)
	}

	processedAt := time.Now().UTC()
	if err := s.Repo.MarkCompleted(ctx, doc.ID, explanation, processedAt); err != nil {
		return ExplainResult{}, s.failExplanation(ctx, doc.ID, err)
	}

	metrics.IncExplanationCompleted()
	metrics.ObserveExplanationDurationMs(float64(time.Since(started).Milliseconds()))
	telemetry.Info("explain.status", map[string]any{
		"document_id": doc.ID,
		"language":    string(lang),
		"status":      string(StatusCompleted),
	})

	return ExplainResult{
		DocumentID:     doc.ID,
		Explanation:    explanation,
		Language:       lang,
		Confidence:     ai.ConfidenceScore(explanation, text),
		WordCount:      len(strings.Fields(explanation)),
		CharacterCount: len(explanation),
		Truncated:      prompt.Truncated,
	}, nil
}

func (s *Service) failExplanation(ctx context.Context, documentID string, cause error) error {
	cls := ai.Classify(cause)
	if err := s.Repo.MarkFailed(ctx, documentID, cls.Message); err != nil {
		telemetry.Error("explain.mark_failed", map[string]any{
			"document_id": documentID,
			"error":       err.Error(),
		})
	}
	metrics.IncExplanationFailed()
	telemetry.Info("explain.status", map[string]any{
		"document_id": documentID,
		"status":      string(StatusFailed),
		"error_kind":  string(cls.Kind),
	})
	return &AIFailureError{DocumentID: documentID, Classification: cls, Err: cause}
}

// Get returns a single document by id.
func (s *Service) Get(ctx context.Context, id string) (Document, error) {
	if id == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, id)
}

// List returns a filtered page of documents and the unpaginated total.
func (s *Service) List(ctx context.Context, f ListFilter) ([]Document, int, error) {
	f.Limit = normalizeLimit(f.Limit)
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.Repo.List(ctx, f)
}

// Stats aggregates document counts by status, type, and language.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.Repo.Stats(ctx)
}

// Delete removes both the record and the stored file. The record goes
// first; a dangling file is recoverable, a dangling record is not.
func (s *Service) Delete(ctx context.Context, id string) error {
	doc, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, doc.StorageKey); err != nil {
		telemetry.Error("document.delete_file", map[string]any{
			"document_id": id,
			"storage_key": doc.StorageKey,
			"error":       err.Error(),
		})
	}
	return nil
}

func (s *Service) deleteStored(ctx context.Context, storageKey string) {
	if err := s.Store.Delete(ctx, storageKey); err != nil {
		telemetry.Error("explain.cleanup", map[string]any{
			"storage_key": storageKey,
			"error":       err.Error(),
		})
	}
}

func storedName(storageKey string) string {
	if i := strings.LastIndexByte(storageKey, '/'); i >= 0 {
		return storageKey[i+1:]
	}
	return storageKey
}
