package documents

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"legalaid-backend/internal/ai"
	"legalaid-backend/internal/extract"
	"legalaid-backend/internal/shared/server/respond"
)

const (
	uploadTimeout  = 60 * time.Second
	explainTimeout = 120 * time.Second

	// multipartOverhead covers boundary and part-header bytes so a file at
	// the size limit still reaches ValidateUpload, which owns the decision.
	multipartOverhead = 1 << 20
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group. The explain
// route is registered separately so the router can rate-limit it.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/upload", h.upload)
	rg.GET("/documents", h.list)
	rg.GET("/documents/languages", h.languages)
	rg.GET("/documents/history", h.history)
	rg.GET("/documents/stats", h.stats)
	rg.GET("/documents/:id", h.get)
	rg.DELETE("/documents/:id", h.delete)
}

// RegisterExplainRoute attaches the explanation route to a (typically
// rate-limited) group.
func (h *Handler) RegisterExplainRoute(rg *gin.RouterGroup) {
	rg.POST("/documents/explain", h.explain)
}

func (h *Handler) upload(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), uploadTimeout)
	defer cancel()

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxFileSizeBytes+multipartOverhead)

	fileHeader, err := c.FormFile("document")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "document file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	doc, err := h.Svc.Upload(ctx,
		strings.TrimSpace(c.PostForm("userId")),
		fileHeader.Filename,
		c.PostForm("category"),
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		h.writeError(c, err, "failed to upload document")
		return
	}

	respond.JSON(c, http.StatusCreated, toUploadResponse(doc))
}

func (h *Handler) explain(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), explainTimeout)
	defer cancel()

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxFileSizeBytes+multipartOverhead)

	fileHeader, err := c.FormFile("document")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "document file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	res, err := h.Svc.Explain(ctx,
		strings.TrimSpace(c.PostForm("userId")),
		fileHeader.Filename,
		c.DefaultPostForm("language", string(ai.LanguageEnglish)),
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		h.writeError(c, err, "failed to explain document")
		return
	}

	respond.OK(c, toExplainResponse(res))
}

func (h *Handler) get(c *gin.Context) {
	doc, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "failed to load document")
		return
	}
	respond.OK(c, toDocumentResponse(doc))
}

func (h *Handler) list(c *gin.Context) {
	f, err := listFilterFromQuery(c)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	docs, total, err := h.Svc.List(c.Request.Context(), f)
	if err != nil {
		h.writeError(c, err, "failed to list documents")
		return
	}
	respond.OK(c, toListResponse(docs, total, normalizeLimit(f.Limit), f.Offset))
}

func (h *Handler) history(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "userId is required", nil)
		return
	}

	f, err := listFilterFromQuery(c)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}
	f.UserID = userID

	docs, total, err := h.Svc.List(c.Request.Context(), f)
	if err != nil {
		h.writeError(c, err, "failed to load document history")
		return
	}
	respond.OK(c, toListResponse(docs, total, normalizeLimit(f.Limit), f.Offset))
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "failed to load document stats")
		return
	}
	respond.OK(c, stats)
}

func (h *Handler) languages(c *gin.Context) {
	respond.OK(c, LanguagesResponse{
		Languages: ai.Languages(),
		Default:   string(ai.LanguageEnglish),
	})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err, "failed to delete document")
		return
	}
	respond.OK(c, gin.H{"deleted": true})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	var aiErr *AIFailureError
	switch {
	case errors.As(err, &aiErr):
		respond.Error(c, aiErr.Classification.Status, string(aiErr.Classification.Kind), aiErr.Classification.Message, gin.H{
			"documentId": aiErr.DocumentID,
		})
	case errors.Is(err, ErrPDFOnly):
		respond.Error(c, http.StatusBadRequest, "validation_error", "Only PDF files are supported", nil)
	case errors.Is(err, ErrFileTooLarge):
		respond.Error(c, http.StatusBadRequest, "validation_error", "File size exceeds the 10MB limit", nil)
	case errors.Is(err, ErrUnsupportedType):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, extract.ErrNoText), errors.Is(err, extract.ErrUnreadable):
		cls := ai.Classify(err)
		respond.Error(c, cls.Status, string(cls.Kind), cls.Message, nil)
	case errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusGatewayTimeout, "timeout", "the request took too long to process", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

func listFilterFromQuery(c *gin.Context) (ListFilter, error) {
	var f ListFilter

	if raw := strings.TrimSpace(c.Query("documentType")); raw != "" {
		dt, ok := ParseDocumentType(raw)
		if !ok {
			return ListFilter{}, errors.New("invalid documentType")
		}
		f.DocumentType = dt
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		st, ok := ParseAIStatus(raw)
		if !ok {
			return ListFilter{}, errors.New("invalid status")
		}
		f.AIStatus = st
	}
	if raw := strings.TrimSpace(c.Query("language")); raw != "" {
		lang, ok := ai.ParseLanguage(raw)
		if !ok {
			return ListFilter{}, errors.New("invalid language")
		}
		f.Language = string(lang)
	}
	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		t, err := parseTimeParam(raw)
		if err != nil {
			return ListFilter{}, errors.New("invalid from date")
		}
		f.From = t
	}
	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		t, err := parseTimeParam(raw)
		if err != nil {
			return ListFilter{}, errors.New("invalid to date")
		}
		f.To = t
	}
	f.Search = strings.TrimSpace(c.Query("search"))

	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return ListFilter{}, errors.New("invalid limit")
		}
		f.Limit = n
	}
	if raw := c.Query("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return ListFilter{}, errors.New("invalid offset")
		}
		f.Offset = n
	}
	return f, nil
}

func parseTimeParam(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
