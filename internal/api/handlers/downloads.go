package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cerealdev/cereal/internal/download"
	"github.com/cerealdev/cereal/internal/license"
	"github.com/cerealdev/cereal/internal/metrics"
	"github.com/cerealdev/cereal/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ArtifactStore defines the interface for artifact index reads used by
// the admin listing endpoint.
type ArtifactStore interface {
	ListArtifacts(ctx context.Context, limit, offset int) ([]*models.Artifact, error)
}

// DownloadGate defines the interface for license-gated artifact access.
type DownloadGate interface {
	List(ctx context.Context, licenseKey, baseURL string) ([]download.FileInfo, error)
	Fetch(ctx context.Context, licenseKey string, artifactID uuid.UUID) (*models.Artifact, io.ReadCloser, error)
	Upload(ctx context.Context, productID, version, filename string, content []byte) (*models.Artifact, error)
	Delete(ctx context.Context, artifactID uuid.UUID) error
}

// DownloadsHandler handles artifact download and upload HTTP endpoints.
type DownloadsHandler struct {
	store          ArtifactStore
	gate           DownloadGate
	baseURL        string
	maxUploadBytes int64
	logger         zerolog.Logger
}

// NewDownloadsHandler creates a new DownloadsHandler.
func NewDownloadsHandler(store ArtifactStore, gate DownloadGate, baseURL string, maxUploadBytes int64, logger zerolog.Logger) *DownloadsHandler {
	return &DownloadsHandler{
		store:          store,
		gate:           gate,
		baseURL:        strings.TrimRight(baseURL, "/"),
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With().Str("component", "downloads_handler").Logger(),
	}
}

// RegisterPublicRoutes registers the license-gated download routes.
func (h *DownloadsHandler) RegisterPublicRoutes(r *gin.RouterGroup) {
	downloads := r.Group("/downloads")
	{
		downloads.GET("", h.ListDownloads)
		downloads.GET("/:id", h.Download)
	}
}

// RegisterRoutes registers admin artifact routes on the given router group.
func (h *DownloadsHandler) RegisterRoutes(r *gin.RouterGroup) {
	artifacts := r.Group("/artifacts")
	{
		artifacts.GET("", h.ListArtifacts)
		artifacts.POST("", h.Upload)
		artifacts.DELETE("/:id", h.Delete)
	}
}

// ListDownloads godoc
// @Summary List downloadable files for a license
// @Description Returns the artifacts the given license grants access to, each with a retrieval URL.
// @Tags downloads
// @Produce json
// @Param licenseKey query string true "License key"
// @Success 200 {object} map[string]any "File list"
// @Failure 400 {object} ErrorResponse "Missing license key"
// @Failure 403 {object} ErrorResponse "License invalid or expired"
// @Router /downloads [get]
func (h *DownloadsHandler) ListDownloads(c *gin.Context) {
	licenseKey := c.Query("licenseKey")
	if licenseKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "licenseKey is required"})
		return
	}

	files, err := h.gate.List(c.Request.Context(), licenseKey, h.baseURL)
	if err != nil {
		h.writeGateError(c, err)
		return
	}
	if files == nil {
		files = []download.FileInfo{}
	}

	c.JSON(http.StatusOK, gin.H{"files": files})
}

// Download godoc
// @Summary Download an artifact
// @Description Streams artifact content as an attachment. The X-SHA256 header carries the content digest.
// @Tags downloads
// @Produce octet-stream
// @Param id path string true "Artifact ID"
// @Param licenseKey query string true "License key"
// @Success 200 {file} binary "Artifact content"
// @Failure 403 {object} ErrorResponse "License invalid or expired"
// @Failure 404 {object} ErrorResponse "Artifact not found"
// @Router /downloads/{id} [get]
func (h *DownloadsHandler) Download(c *gin.Context) {
	licenseKey := c.Query("licenseKey")
	if licenseKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "licenseKey is required"})
		return
	}

	artifactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "artifact not found"})
		return
	}

	artifact, reader, err := h.gate.Fetch(c.Request.Context(), licenseKey, artifactID)
	if err != nil {
		h.writeGateError(c, err)
		return
	}
	defer reader.Close()

	metrics.DownloadsTotal.WithLabelValues("served").Inc()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	c.Header("X-SHA256", artifact.SHA256)
	c.DataFromReader(http.StatusOK, -1, "application/octet-stream", reader, nil)
}

// ListArtifacts godoc
// @Summary List artifacts
// @Tags artifacts
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param page query int false "1-based page number"
// @Success 200 {object} map[string]any "Artifact list"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /artifacts [get]
func (h *DownloadsHandler) ListArtifacts(c *gin.Context) {
	limit, offset := parsePagination(c)

	artifacts, err := h.store.ListArtifacts(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list artifacts")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list artifacts"})
		return
	}
	if artifacts == nil {
		artifacts = []*models.Artifact{}
	}

	c.JSON(http.StatusOK, gin.H{"artifacts": artifacts})
}

// Upload godoc
// @Summary Upload an artifact
// @Description Uploads artifact content for a product version. Re-uploading the same (productId, version) replaces the prior artifact in place.
// @Tags artifacts
// @Accept multipart/form-data
// @Produce json
// @Param productId formData string true "Product ID"
// @Param version formData string true "Version"
// @Param file formData file true "Artifact content"
// @Success 201 {object} models.Artifact
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 404 {object} ErrorResponse "Product not found"
// @Failure 413 {object} ErrorResponse "Payload too large"
// @Security BearerAuth
// @Router /artifacts [post]
func (h *DownloadsHandler) Upload(c *gin.Context) {
	productID := c.PostForm("productId")
	version := c.PostForm("version")
	if productID == "" || version == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId and version are required"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds upload size limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to open uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to read uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return
	}
	if int64(len(content)) > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds upload size limit"})
		return
	}

	artifact, err := h.gate.Upload(c.Request.Context(), productID, version, fileHeader.Filename, content)
	if err != nil {
		if errors.Is(err, license.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.logger.Error().Err(err).Msg("artifact upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store artifact"})
		return
	}

	metrics.UploadsTotal.Inc()
	metrics.UploadBytes.Observe(float64(len(content)))
	c.JSON(http.StatusCreated, artifact)
}

// Delete godoc
// @Summary Delete an artifact
// @Description Removes the artifact's index entry; backing bytes are removed on a best-effort basis.
// @Tags artifacts
// @Produce json
// @Param id path string true "Artifact ID"
// @Success 204 "Deleted"
// @Failure 404 {object} ErrorResponse "Artifact not found"
// @Security BearerAuth
// @Router /artifacts/{id} [delete]
func (h *DownloadsHandler) Delete(c *gin.Context) {
	artifactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "artifact not found"})
		return
	}

	if err := h.gate.Delete(c.Request.Context(), artifactID); err != nil {
		if errors.Is(err, download.ErrArtifactNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "artifact not found"})
			return
		}
		h.logger.Error().Err(err).Msg("artifact delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete artifact"})
		return
	}

	c.Status(http.StatusNoContent)
}

// writeGateError maps download gate errors to HTTP responses. A denial
// carries the verdict's reason; a missing artifact is a plain 404.
func (h *DownloadsHandler) writeGateError(c *gin.Context, err error) {
	var denied *download.DeniedError
	switch {
	case errors.As(err, &denied):
		metrics.DownloadsTotal.WithLabelValues("denied").Inc()
		c.JSON(http.StatusForbidden, gin.H{"error": denied.Reason})
	case errors.Is(err, download.ErrArtifactNotFound):
		metrics.DownloadsTotal.WithLabelValues("not_found").Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": "artifact not found"})
	default:
		h.logger.Error().Err(err).Msg("download request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
