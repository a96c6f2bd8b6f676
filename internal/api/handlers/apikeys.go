package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/cerealdev/cereal/internal/auth"
	"github.com/cerealdev/cereal/internal/db"
	"github.com/cerealdev/cereal/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// APIKeyAdminStore defines the interface for API key persistence operations.
type APIKeyAdminStore interface {
	ListAPIKeys(ctx context.Context) ([]*models.APIKey, error)
	CreateAPIKey(ctx context.Context, k *models.APIKey) error
	DeleteAPIKeyByHash(ctx context.Context, keyHash string) error
}

// APIKeysHandler handles API key management HTTP endpoints.
type APIKeysHandler struct {
	store  APIKeyAdminStore
	logger zerolog.Logger
}

// NewAPIKeysHandler creates a new APIKeysHandler.
func NewAPIKeysHandler(store APIKeyAdminStore, logger zerolog.Logger) *APIKeysHandler {
	return &APIKeysHandler{
		store:  store,
		logger: logger.With().Str("component", "apikeys_handler").Logger(),
	}
}

// RegisterRoutes registers API key routes on the given router group.
func (h *APIKeysHandler) RegisterRoutes(r *gin.RouterGroup) {
	keys := r.Group("/apikeys")
	{
		keys.GET("", h.List)
		keys.POST("", h.Create)
		keys.DELETE("/:hash", h.Delete)
	}
}

// CreateAPIKeyRequest is the request body for creating an API key.
type CreateAPIKeyRequest struct {
	Name           *string    `json:"name"`
	ExpirationDate *time.Time `json:"expirationDate"`
}

// CreateAPIKeyResponse carries the plaintext key. It is shown exactly
// once; only the hash is stored.
type CreateAPIKeyResponse struct {
	Key     string         `json:"key"`
	Details *models.APIKey `json:"details"`
}

// List godoc
// @Summary List API keys
// @Description Returns stored API key records. Only hashes are stored, never plaintext keys.
// @Tags apikeys
// @Produce json
// @Success 200 {object} map[string]any "API key list"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /apikeys [get]
func (h *APIKeysHandler) List(c *gin.Context) {
	keys, err := h.store.ListAPIKeys(c.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list api keys")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list API keys"})
		return
	}
	if keys == nil {
		keys = []*models.APIKey{}
	}

	c.JSON(http.StatusOK, gin.H{"apiKeys": keys})
}

// Create godoc
// @Summary Create an API key
// @Description Generates a new admin API key. The plaintext key is returned once and never stored.
// @Tags apikeys
// @Accept json
// @Produce json
// @Param request body CreateAPIKeyRequest true "Key attributes"
// @Success 201 {object} CreateAPIKeyResponse
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /apikeys [post]
func (h *APIKeysHandler) Create(c *gin.Context) {
	// Both fields are optional, so a missing body is a valid request.
	var req CreateAPIKeyRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	raw, hash, err := auth.GenerateAPIKey()
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to generate api key")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate API key"})
		return
	}

	key := &models.APIKey{
		KeyHash:        hash,
		Name:           req.Name,
		ExpirationDate: req.ExpirationDate,
		CreatedAt:      time.Now(),
	}
	if err := h.store.CreateAPIKey(c.Request.Context(), key); err != nil {
		h.logger.Error().Err(err).Msg("failed to store api key")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create API key"})
		return
	}

	h.logger.Info().Msg("api key created")
	c.JSON(http.StatusCreated, CreateAPIKeyResponse{Key: raw, Details: key})
}

// Delete godoc
// @Summary Revoke an API key
// @Tags apikeys
// @Produce json
// @Param hash path string true "Key hash"
// @Success 204 "Revoked"
// @Failure 404 {object} ErrorResponse "API key not found"
// @Security BearerAuth
// @Router /apikeys/{hash} [delete]
func (h *APIKeysHandler) Delete(c *gin.Context) {
	err := h.store.DeleteAPIKeyByHash(c.Request.Context(), c.Param("hash"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "API key not found"})
			return
		}
		h.logger.Error().Err(err).Msg("failed to delete api key")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete API key"})
		return
	}

	h.logger.Info().Msg("api key revoked")
	c.Status(http.StatusNoContent)
}
