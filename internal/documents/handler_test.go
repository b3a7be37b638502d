package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"legalaid-backend/internal/ai"
	"legalaid-backend/internal/shared/storage/object"
	"legalaid-backend/internal/shared/storage/object/local"
)

func newTestRouter(t *testing.T, client ai.Client, text string) (*gin.Engine, *MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := NewMemoryRepo()
	svc := NewService(repo, local.New(t.TempDir()), client)
	svc.extractText = func(ctx context.Context, store object.ObjectStore, storageKey string) (string, error) {
		return text, nil
	}

	router := gin.New()
	api := router.Group("/api/v1")
	h := NewHandler(svc)
	h.RegisterRoutes(api)
	h.RegisterExplainRoute(api)
	return router, repo
}

func multipartPDF(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="document"; filename="lease.pdf"`}
	header["Content-Type"] = []string{"application/pdf"}
	fileWriter, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fileWriter.Write([]byte("%PDF-1.4 fake body")); err != nil {
		t.Fatalf("write file: %v", err)
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestExplainEndpointSuccess(t *testing.T) {
	client := &fakeAI{response: "**Document type**: lease. The tenant pays rent."}
	router, _ := newTestRouter(t, client, "lease text about rent and tenant duties")

	body, contentType := multipartPDF(t, map[string]string{"language": "tamil", "userId": "user-9"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/explain", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var out ExplainResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.DocumentID == "" || out.Language != "tamil" {
		t.Fatalf("unexpected response: %+v", out)
	}
	if out.Explanation != client.response {
		t.Fatalf("explanation mismatch")
	}
}

func TestExplainEndpointProviderFailure(t *testing.T) {
	client := &fakeAI{err: &ai.ProviderError{StatusCode: 429, Message: "quota exhausted"}}
	router, _ := newTestRouter(t, client, "contract text")

	body, contentType := multipartPDF(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/explain", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d: %s", resp.Code, resp.Body.String())
	}

	var out struct {
		Error struct {
			ErrorType string         `json:"errorType"`
			Details   map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Error.ErrorType != "quota_exceeded" {
		t.Fatalf("expected quota_exceeded, got %s", out.Error.ErrorType)
	}
	if out.Error.Details["documentId"] == "" {
		t.Fatalf("expected documentId in details")
	}
}

func TestExplainEndpointRejectsNonPDF(t *testing.T) {
	router, _ := newTestRouter(t, &fakeAI{response: "unused"}, "text")

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="document"; filename="photo.png"`}
	header["Content-Type"] = []string{"image/png"}
	fw, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	fw.Write([]byte("png bytes"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/explain", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if !bytes.Contains(resp.Body.Bytes(), []byte("Only PDF files are supported")) {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
}

func TestExplainEndpointUnreadablePDF(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := NewMemoryRepo()
	svc := NewService(repo, local.New(t.TempDir()), &fakeAI{response: "unused"})
	router := gin.New()
	api := router.Group("/api/v1")
	h := NewHandler(svc)
	h.RegisterRoutes(api)
	h.RegisterExplainRoute(api)

	body, contentType := multipartPDF(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/explain", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
	if !bytes.Contains(resp.Body.Bytes(), []byte("extraction_failed")) {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
	if _, total, _ := repo.List(context.Background(), ListFilter{}); total != 0 {
		t.Fatalf("expected no record for unreadable document, got %d", total)
	}
}

func TestUploadOversizedFileGetsSizeError(t *testing.T) {
	router, _ := newTestRouter(t, &fakeAI{}, "")

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="document"; filename="big.pdf"`}
	header["Content-Type"] = []string{"application/pdf"}
	fw, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := fw.Write(make([]byte, MaxFileSizeBytes+1)); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
	if !bytes.Contains(resp.Body.Bytes(), []byte("File size exceeds the 10MB limit")) {
		t.Fatalf("expected size message, got: %s", resp.Body.String())
	}
}

func TestUploadEndpointAndGet(t *testing.T) {
	router, _ := newTestRouter(t, &fakeAI{}, "")

	body, contentType := multipartPDF(t, map[string]string{"category": "contract", "userId": "user-1"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.DocumentID == "" || created.DocumentType != "contract" {
		t.Fatalf("unexpected response: %+v", created)
	}
	if created.OriginalFilename != "lease.pdf" {
		t.Fatalf("expected original filename, got %s", created.OriginalFilename)
	}

	reqGet := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+created.DocumentID, nil)
	respGet := httptest.NewRecorder()
	router.ServeHTTP(respGet, reqGet)
	if respGet.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", respGet.Code)
	}

	var fetched DocumentResponse
	if err := json.NewDecoder(respGet.Body).Decode(&fetched); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fetched.AIStatus != string(StatusPending) {
		t.Fatalf("expected pending, got %s", fetched.AIStatus)
	}
}

func TestGetUnknownDocumentReturns404(t *testing.T) {
	router, _ := newTestRouter(t, &fakeAI{}, "")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/no-such-id", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestListFiltersAndHistory(t *testing.T) {
	client := &fakeAI{response: "**Summary**: fine."}
	router, _ := newTestRouter(t, client, "agreement text")

	for _, userID := range []string{"alice", "alice", "bob"} {
		body, contentType := multipartPDF(t, map[string]string{"userId": userID})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/explain", body)
		req.Header.Set("Content-Type", contentType)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("seed explain failed: %d", resp.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents?status=completed", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.Code)
	}
	var listed ListResponse
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if listed.Total != 3 {
		t.Fatalf("expected 3 completed, got %d", listed.Total)
	}

	reqHist := httptest.NewRequest(http.MethodGet, "/api/v1/documents/history?userId=alice", nil)
	respHist := httptest.NewRecorder()
	router.ServeHTTP(respHist, reqHist)
	if respHist.Code != http.StatusOK {
		t.Fatalf("history: expected 200, got %d", respHist.Code)
	}
	var history ListResponse
	if err := json.NewDecoder(respHist.Body).Decode(&history); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if history.Total != 2 {
		t.Fatalf("expected 2 for alice, got %d", history.Total)
	}

	reqBad := httptest.NewRequest(http.MethodGet, "/api/v1/documents/history", nil)
	respBad := httptest.NewRecorder()
	router.ServeHTTP(respBad, reqBad)
	if respBad.Code != http.StatusBadRequest {
		t.Fatalf("history without userId: expected 400, got %d", respBad.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, &fakeAI{response: "ok explanation"}, "text")

	body, contentType := multipartPDF(t, map[string]string{"userId": "u"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/explain", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("seed explain failed: %d", resp.Code)
	}

	reqStats := httptest.NewRequest(http.MethodGet, "/api/v1/documents/stats", nil)
	respStats := httptest.NewRecorder()
	router.ServeHTTP(respStats, reqStats)
	if respStats.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", respStats.Code)
	}

	var stats Stats
	if err := json.NewDecoder(respStats.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.Total != 1 || stats.ByStatus[string(StatusCompleted)] != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestLanguagesEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, &fakeAI{}, "")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/languages", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var out LanguagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Languages) != 3 || out.Default != "english" {
		t.Fatalf("unexpected catalog: %+v", out)
	}
}

func TestDeleteEndpoint(t *testing.T) {
	router, repo := newTestRouter(t, &fakeAI{}, "")

	body, contentType := multipartPDF(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("upload failed: %d", resp.Code)
	}
	var created UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	reqDel := httptest.NewRequest(http.MethodDelete, "/api/v1/documents/"+created.DocumentID, nil)
	respDel := httptest.NewRecorder()
	router.ServeHTTP(respDel, reqDel)
	if respDel.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", respDel.Code)
	}
	if _, err := repo.GetByID(context.Background(), created.DocumentID); err == nil {
		t.Fatalf("expected record deleted")
	}
}
