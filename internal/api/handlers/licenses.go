package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/cerealdev/cereal/internal/db"
	"github.com/cerealdev/cereal/internal/license"
	"github.com/cerealdev/cereal/internal/metrics"
	"github.com/cerealdev/cereal/internal/models"
	"github.com/cerealdev/cereal/internal/tier"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// LicenseStore defines the interface for license persistence operations.
type LicenseStore interface {
	GetLicenseByKey(ctx context.Context, key string) (*models.License, error)
	ListLicenses(ctx context.Context, limit, offset int) ([]*models.License, error)
	DeleteLicense(ctx context.Context, key string) error
}

// LicenseService defines the interface for the license write path.
type LicenseService interface {
	Create(ctx context.Context, productID string, tier *string, expirationDate *time.Time) (*models.License, error)
	Edit(ctx context.Context, key string, patch license.Patch) (*models.License, error)
}

// LicenseValidator defines the interface for producing license verdicts.
type LicenseValidator interface {
	Validate(ctx context.Context, key string) (license.Verdict, error)
}

// LicensesHandler handles license-related HTTP endpoints.
type LicensesHandler struct {
	store     LicenseStore
	service   LicenseService
	validator LicenseValidator
	logger    zerolog.Logger
}

// NewLicensesHandler creates a new LicensesHandler.
func NewLicensesHandler(store LicenseStore, service LicenseService, validator LicenseValidator, logger zerolog.Logger) *LicensesHandler {
	return &LicensesHandler{
		store:     store,
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "licenses_handler").Logger(),
	}
}

// RegisterRoutes registers admin license routes on the given router group.
func (h *LicensesHandler) RegisterRoutes(r *gin.RouterGroup) {
	licenses := r.Group("/licenses")
	{
		licenses.GET("", h.List)
		licenses.POST("", h.Create)
		licenses.GET("/:key", h.Get)
		licenses.PUT("/:key", h.Update)
		licenses.DELETE("/:key", h.Delete)
	}
}

// RegisterPublicRoutes registers the public validation route.
func (h *LicensesHandler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/licenses/validate", h.Validate)
}

// CreateLicenseRequest is the request body for issuing a license.
type CreateLicenseRequest struct {
	ProductID      string     `json:"productId" binding:"required"`
	Tier           *string    `json:"tier"`
	ExpirationDate *time.Time `json:"expirationDate"`
}

// UpdateLicenseRequest is the request body for editing a license.
// Optional fields distinguish absent from explicit null: an absent
// field is left unchanged, a null clears it.
type UpdateLicenseRequest struct {
	ProductID      *string         `json:"productId"`
	Tier           json.RawMessage `json:"tier"`
	ExpirationDate json.RawMessage `json:"expirationDate"`
}

// ValidateLicenseRequest is the request body for license validation.
type ValidateLicenseRequest struct {
	Key string `json:"key" binding:"required"`
}

// Validate godoc
// @Summary Validate a license key
// @Description Returns a verdict for the given license key. Invalid keys yield 200 with valid=false and a reason.
// @Tags licenses
// @Accept json
// @Produce json
// @Param request body ValidateLicenseRequest true "License key"
// @Success 200 {object} license.Verdict
// @Failure 400 {object} ErrorResponse "Missing key"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /licenses/validate [post]
func (h *LicensesHandler) Validate(c *gin.Context) {
	var req ValidateLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key is required"})
		return
	}

	verdict, err := h.validator.Validate(c.Request.Context(), req.Key)
	if err != nil {
		h.logger.Error().Err(err).Msg("license validation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	metrics.ValidationsTotal.WithLabelValues(verdictResult(verdict)).Inc()
	c.JSON(http.StatusOK, verdict)
}

func verdictResult(v license.Verdict) string {
	switch {
	case v.Valid:
		return "valid"
	case v.Reason == license.ReasonExpired:
		return "expired"
	default:
		return "not_found"
	}
}

// List godoc
// @Summary List licenses
// @Tags licenses
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param page query int false "1-based page number"
// @Success 200 {object} map[string]any "License list"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /licenses [get]
func (h *LicensesHandler) List(c *gin.Context) {
	limit, offset := parsePagination(c)

	licenses, err := h.store.ListLicenses(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list licenses")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list licenses"})
		return
	}
	if licenses == nil {
		licenses = []*models.License{}
	}

	c.JSON(http.StatusOK, gin.H{"licenses": licenses})
}

// Get godoc
// @Summary Get a license
// @Tags licenses
// @Produce json
// @Param key path string true "License key"
// @Success 200 {object} models.License
// @Failure 404 {object} ErrorResponse "License not found"
// @Security BearerAuth
// @Router /licenses/{key} [get]
func (h *LicensesHandler) Get(c *gin.Context) {
	lic, err := h.store.GetLicenseByKey(c.Request.Context(), c.Param("key"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "license not found"})
			return
		}
		h.logger.Error().Err(err).Msg("failed to get license")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve license"})
		return
	}

	c.JSON(http.StatusOK, lic)
}

// Create godoc
// @Summary Issue a license
// @Description Issues a new license for a product. The key is minted server-side. The tier must satisfy the product's tier policy.
// @Tags licenses
// @Accept json
// @Produce json
// @Param request body CreateLicenseRequest true "License"
// @Success 201 {object} models.License
// @Failure 400 {object} ErrorResponse "Tier policy rejection"
// @Failure 404 {object} ErrorResponse "Product not found"
// @Security BearerAuth
// @Router /licenses [post]
func (h *LicensesHandler) Create(c *gin.Context) {
	var req CreateLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId is required"})
		return
	}

	lic, err := h.service.Create(c.Request.Context(), req.ProductID, req.Tier, req.ExpirationDate)
	if err != nil {
		h.writeLicenseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, lic)
}

// Update godoc
// @Summary Edit a license
// @Description Applies a partial update. The effective tier is re-checked against the effective product's tier set.
// @Tags licenses
// @Accept json
// @Produce json
// @Param key path string true "License key"
// @Param request body UpdateLicenseRequest true "Fields to update"
// @Success 200 {object} models.License
// @Failure 400 {object} ErrorResponse "Tier policy rejection"
// @Failure 404 {object} ErrorResponse "License or product not found"
// @Security BearerAuth
// @Router /licenses/{key} [put]
func (h *LicensesHandler) Update(c *gin.Context) {
	var req UpdateLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	patch := license.Patch{ProductID: req.ProductID}

	if len(req.Tier) > 0 {
		if string(req.Tier) == "null" {
			patch.ClearTier = true
		} else {
			var t string
			if err := json.Unmarshal(req.Tier, &t); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "tier must be a string or null"})
				return
			}
			patch.Tier = &t
		}
	}

	if len(req.ExpirationDate) > 0 {
		if string(req.ExpirationDate) == "null" {
			patch.ClearExpiration = true
		} else {
			var exp time.Time
			if err := json.Unmarshal(req.ExpirationDate, &exp); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "expirationDate must be an RFC 3339 timestamp or null"})
				return
			}
			patch.ExpirationDate = &exp
		}
	}

	lic, err := h.service.Edit(c.Request.Context(), c.Param("key"), patch)
	if err != nil {
		h.writeLicenseError(c, err)
		return
	}

	c.JSON(http.StatusOK, lic)
}

// Delete godoc
// @Summary Revoke a license
// @Tags licenses
// @Produce json
// @Param key path string true "License key"
// @Success 204 "Deleted"
// @Failure 404 {object} ErrorResponse "License not found"
// @Security BearerAuth
// @Router /licenses/{key} [delete]
func (h *LicensesHandler) Delete(c *gin.Context) {
	err := h.store.DeleteLicense(c.Request.Context(), c.Param("key"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "license not found"})
			return
		}
		h.logger.Error().Err(err).Msg("failed to delete license")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete license"})
		return
	}

	h.logger.Info().Msg("license deleted")
	c.Status(http.StatusNoContent)
}

// writeLicenseError maps license write-path errors to HTTP responses.
// Tier policy rejections surface their exact messages.
func (h *LicensesHandler) writeLicenseError(c *gin.Context, err error) {
	var (
		required      *tier.TierRequiredError
		invalid       *tier.TierInvalidError
		notApplicable *tier.TierNotApplicableError
	)
	switch {
	case errors.Is(err, license.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	case errors.Is(err, license.ErrLicenseNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "license not found"})
	case errors.As(err, &required), errors.As(err, &invalid), errors.As(err, &notApplicable):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error().Err(err).Msg("license operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
