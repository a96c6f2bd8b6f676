package handlers

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cerealdev/cereal/internal/db"
	"github.com/cerealdev/cereal/internal/download"
	"github.com/cerealdev/cereal/internal/license"
	"github.com/cerealdev/cereal/internal/models"
	"github.com/cerealdev/cereal/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// downloadTestStore backs the real download gate in handler tests.
type downloadTestStore struct {
	products  map[string]*models.Product
	licenses  map[string]*models.License
	artifacts map[uuid.UUID]*models.Artifact
}

func newDownloadTestStore() *downloadTestStore {
	return &downloadTestStore{
		products:  map[string]*models.Product{},
		licenses:  map[string]*models.License{},
		artifacts: map[uuid.UUID]*models.Artifact{},
	}
}

func (s *downloadTestStore) GetProductByID(_ context.Context, id string) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return p, nil
}

func (s *downloadTestStore) GetLicenseByKey(_ context.Context, key string) (*models.License, error) {
	lic, ok := s.licenses[key]
	if !ok {
		return nil, db.ErrNotFound
	}
	return lic, nil
}

func (s *downloadTestStore) GetArtifactByID(_ context.Context, id uuid.UUID) (*models.Artifact, error) {
	a, ok := s.artifacts[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *downloadTestStore) GetArtifactByProductVersion(_ context.Context, productID, version string) (*models.Artifact, error) {
	for _, a := range s.artifacts {
		if a.ProductID == productID && a.Version == version {
			cp := *a
			return &cp, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *downloadTestStore) GetArtifactsByProductID(_ context.Context, productID string) ([]*models.Artifact, error) {
	var out []*models.Artifact
	for _, a := range s.artifacts {
		if a.ProductID == productID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *downloadTestStore) ListArtifacts(_ context.Context, limit, offset int) ([]*models.Artifact, error) {
	var out []*models.Artifact
	for _, a := range s.artifacts {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (s *downloadTestStore) CreateArtifact(_ context.Context, a *models.Artifact) error {
	cp := *a
	s.artifacts[a.ID] = &cp
	return nil
}

func (s *downloadTestStore) ReplaceArtifact(_ context.Context, a *models.Artifact) error {
	if _, ok := s.artifacts[a.ID]; !ok {
		return db.ErrNotFound
	}
	cp := *a
	s.artifacts[a.ID] = &cp
	return nil
}

func (s *downloadTestStore) DeleteArtifact(_ context.Context, id uuid.UUID) error {
	if _, ok := s.artifacts[id]; !ok {
		return db.ErrNotFound
	}
	delete(s.artifacts, id)
	return nil
}

func newDownloadsRouter(t *testing.T, store *downloadTestStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	blobs, err := storage.NewLocalBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalBackend failed: %v", err)
	}
	validator := license.NewValidator(store, zerolog.Nop())
	gate := download.NewGate(store, validator, blobs, zerolog.Nop())

	r := gin.New()
	h := NewDownloadsHandler(store, gate, "https://dl.example.com", 1<<20, zerolog.Nop())
	api := r.Group("/api/v1")
	h.RegisterPublicRoutes(api)
	h.RegisterRoutes(api)
	return r
}

func multipartUpload(t *testing.T, productID, version, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("productId", productID); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := mw.WriteField("version", version); err != nil {
		t.Fatalf("write field: %v", err)
	}
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUploadDownloadRoundTrip(t *testing.T) {
	store := newDownloadTestStore()
	store.products["cereal-pro"] = &models.Product{ID: "cereal-pro"}
	store.licenses["key-1"] = &models.License{Key: "key-1", ProductID: "cereal-pro"}
	r := newDownloadsRouter(t, store)

	content := []byte("release binary content")
	body, contentType := multipartUpload(t, "cereal-pro", "1.0.0", "cereal.tar.gz", content)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/artifacts", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	var artifact models.Artifact
	if err := json.Unmarshal(w.Body.Bytes(), &artifact); err != nil {
		t.Fatalf("unmarshal artifact: %v", err)
	}
	digest := sha256.Sum256(content)
	if artifact.SHA256 != hex.EncodeToString(digest[:]) {
		t.Errorf("unexpected digest %s", artifact.SHA256)
	}

	// listing for the license includes the artifact with a retrieval URL
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/v1/downloads?licenseKey=key-1", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var listResp struct {
		Files []download.FileInfo `json:"files"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(listResp.Files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(listResp.Files))
	}

	// fetch the content back
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/v1/downloads/"+artifact.ID.String()+"?licenseKey=key-1", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if !bytes.Equal(w.Body.Bytes(), content) {
		t.Error("downloaded content differs from upload")
	}
	if got := w.Header().Get("X-SHA256"); got != artifact.SHA256 {
		t.Errorf("expected X-SHA256 %s, got %s", artifact.SHA256, got)
	}
	if got := w.Header().Get("Content-Disposition"); got == "" {
		t.Error("expected Content-Disposition header")
	}
}

func TestListDownloadsDenied(t *testing.T) {
	store := newDownloadTestStore()
	r := newDownloadsRouter(t, store)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/downloads?licenseKey=bad-key", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Error != "License key not found" {
		t.Errorf("expected verdict reason, got %q", resp.Error)
	}
}

func TestListDownloadsMissingKey(t *testing.T) {
	r := newDownloadsRouter(t, newDownloadTestStore())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/downloads", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestDownloadCrossProduct(t *testing.T) {
	store := newDownloadTestStore()
	store.products["cereal-pro"] = &models.Product{ID: "cereal-pro"}
	store.products["other"] = &models.Product{ID: "other"}
	store.licenses["key-1"] = &models.License{Key: "key-1", ProductID: "cereal-pro"}
	artifact := models.NewArtifact("other", "1.0.0", "other.tar.gz", "other/1.0.0/other.tar.gz", "00")
	store.artifacts[artifact.ID] = artifact
	r := newDownloadsRouter(t, store)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/downloads/"+artifact.ID.String()+"?licenseKey=key-1", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for cross-product download, got %d", w.Code)
	}
}

func TestUploadReplaceSameVersion(t *testing.T) {
	store := newDownloadTestStore()
	store.products["cereal-pro"] = &models.Product{ID: "cereal-pro"}
	r := newDownloadsRouter(t, store)

	upload := func(content []byte) models.Artifact {
		body, contentType := multipartUpload(t, "cereal-pro", "1.0.0", "cereal.tar.gz", content)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/artifacts", body)
		req.Header.Set("Content-Type", contentType)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
		}
		var a models.Artifact
		if err := json.Unmarshal(w.Body.Bytes(), &a); err != nil {
			t.Fatalf("unmarshal artifact: %v", err)
		}
		return a
	}

	first := upload([]byte("v1"))
	second := upload([]byte("v1 fixed"))

	if first.ID != second.ID {
		t.Error("replacement minted a new artifact ID")
	}
	if len(store.artifacts) != 1 {
		t.Fatalf("expected one index row, got %d", len(store.artifacts))
	}
}

func TestUploadUnknownProductEndpoint(t *testing.T) {
	r := newDownloadsRouter(t, newDownloadTestStore())

	body, contentType := multipartUpload(t, "missing", "1.0.0", "f.bin", []byte("x"))
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/artifacts", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestUploadMissingFields(t *testing.T) {
	r := newDownloadsRouter(t, newDownloadTestStore())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("productId", "cereal-pro")
	mw.Close()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/artifacts", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestDeleteArtifactEndpoint(t *testing.T) {
	store := newDownloadTestStore()
	artifact := models.NewArtifact("cereal-pro", "1.0.0", "cereal.tar.gz", "cereal-pro/1.0.0/cereal.tar.gz", "00")
	store.artifacts[artifact.ID] = artifact
	r := newDownloadsRouter(t, store)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/api/v1/artifacts/"+artifact.ID.String(), nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", w.Code)
	}
	if len(store.artifacts) != 0 {
		t.Error("artifact not deleted")
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("DELETE", "/api/v1/artifacts/"+artifact.ID.String(), nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for missing artifact, got %d", w.Code)
	}
}
