package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cerealdev/cereal/internal/auth"
	"github.com/cerealdev/cereal/internal/db"
	"github.com/cerealdev/cereal/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type mockAPIKeyAdminStore struct {
	keys map[string]*models.APIKey
}

func newMockAPIKeyAdminStore() *mockAPIKeyAdminStore {
	return &mockAPIKeyAdminStore{keys: map[string]*models.APIKey{}}
}

func (m *mockAPIKeyAdminStore) ListAPIKeys(_ context.Context) ([]*models.APIKey, error) {
	var out []*models.APIKey
	for _, k := range m.keys {
		out = append(out, k)
	}
	return out, nil
}

func (m *mockAPIKeyAdminStore) CreateAPIKey(_ context.Context, k *models.APIKey) error {
	m.keys[k.KeyHash] = k
	return nil
}

func (m *mockAPIKeyAdminStore) DeleteAPIKeyByHash(_ context.Context, keyHash string) error {
	if _, ok := m.keys[keyHash]; !ok {
		return db.ErrNotFound
	}
	delete(m.keys, keyHash)
	return nil
}

func newAPIKeysRouter(store *mockAPIKeyAdminStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAPIKeysHandler(store, zerolog.Nop())
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestCreateAPIKey(t *testing.T) {
	store := newMockAPIKeyAdminStore()
	r := newAPIKeysRouter(store)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/apikeys", strings.NewReader(`{"name":"ci deploy"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp CreateAPIKeyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !auth.IsValidAPIKeyFormat(resp.Key) {
		t.Errorf("plaintext key has unexpected format: %q", resp.Key)
	}
	if resp.Details == nil || resp.Details.Name == nil || *resp.Details.Name != "ci deploy" {
		t.Error("expected key details with name")
	}
	if _, ok := store.keys[auth.HashAPIKey(resp.Key)]; !ok {
		t.Error("stored hash does not match returned key")
	}
}

func TestCreateAPIKeyEmptyBody(t *testing.T) {
	store := newMockAPIKeyAdminStore()
	r := newAPIKeysRouter(store)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/apikeys", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201 for empty body, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateAPIKeyMalformedBody(t *testing.T) {
	store := newMockAPIKeyAdminStore()
	r := newAPIKeysRouter(store)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/apikeys", strings.NewReader(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for malformed body, got %d", w.Code)
	}
	if len(store.keys) != 0 {
		t.Error("no key should be stored for a malformed request")
	}
}

func TestListAPIKeysOmitsPlaintext(t *testing.T) {
	store := newMockAPIKeyAdminStore()
	r := newAPIKeysRouter(store)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/apikeys", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create failed: %d", w.Code)
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/v1/apikeys", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), auth.APIKeyPrefix) {
		t.Error("listing must not expose plaintext keys")
	}
}

func TestDeleteAPIKey(t *testing.T) {
	store := newMockAPIKeyAdminStore()
	store.keys["somehash"] = &models.APIKey{KeyHash: "somehash"}
	r := newAPIKeysRouter(store)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/api/v1/apikeys/somehash", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("DELETE", "/api/v1/apikeys/somehash", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}
