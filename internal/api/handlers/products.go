package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/cerealdev/cereal/internal/db"
	"github.com/cerealdev/cereal/internal/models"
	"github.com/cerealdev/cereal/internal/tier"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ProductStore defines the interface for product persistence operations.
type ProductStore interface {
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

// ProductsHandler handles product-related HTTP endpoints.
type ProductsHandler struct {
	store  ProductStore
	logger zerolog.Logger
}

// NewProductsHandler creates a new ProductsHandler.
func NewProductsHandler(store ProductStore, logger zerolog.Logger) *ProductsHandler {
	return &ProductsHandler{
		store:  store,
		logger: logger.With().Str("component", "products_handler").Logger(),
	}
}

// RegisterRoutes registers product routes on the given router group.
func (h *ProductsHandler) RegisterRoutes(r *gin.RouterGroup) {
	products := r.Group("/products")
	{
		products.GET("", h.List)
		products.POST("", h.Create)
		products.GET("/:id", h.Get)
		products.PUT("/:id", h.Update)
		products.DELETE("/:id", h.Delete)
	}
}

// CreateProductRequest is the request body for creating a product.
type CreateProductRequest struct {
	ID             string   `json:"id" binding:"required"`
	Name           string   `json:"name" binding:"required"`
	AvailableTiers []string `json:"availableTiers"`
}

// UpdateProductRequest is the request body for updating a product.
type UpdateProductRequest struct {
	Name           *string   `json:"name"`
	AvailableTiers *[]string `json:"availableTiers"`
}

// List godoc
// @Summary List products
// @Description Returns registered products, paginated.
// @Tags products
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param page query int false "1-based page number"
// @Success 200 {object} map[string]any "Product list"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	limit, offset := parsePagination(c)

	products, err := h.store.ListProducts(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list products")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}
	if products == nil {
		products = []*models.Product{}
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// Get godoc
// @Summary Get a product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Product
// @Failure 404 {object} ErrorResponse "Product not found"
// @Security BearerAuth
// @Router /products/{id} [get]
func (h *ProductsHandler) Get(c *gin.Context) {
	product, err := h.store.GetProductByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.logger.Error().Err(err).Msg("failed to get product")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// Create godoc
// @Summary Register a product
// @Description Registers a product with an optional tier set. Tier sets must not contain blank or duplicate entries.
// @Tags products
// @Accept json
// @Produce json
// @Param request body CreateProductRequest true "Product"
// @Success 201 {object} models.Product
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 409 {object} ErrorResponse "Product already exists"
// @Security BearerAuth
// @Router /products [post]
func (h *ProductsHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id and name are required"})
		return
	}

	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id and name are required"})
		return
	}

	if err := tier.ValidateTierSet(req.AvailableTiers); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.store.GetProductByID(c.Request.Context(), req.ID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "product already exists"})
		return
	} else if !errors.Is(err, db.ErrNotFound) {
		h.logger.Error().Err(err).Msg("failed to check existing product")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create product"})
		return
	}

	product := models.NewProduct(req.ID, req.Name, req.AvailableTiers)
	if err := h.store.CreateProduct(c.Request.Context(), product); err != nil {
		h.logger.Error().Err(err).Str("product_id", req.ID).Msg("failed to create product")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create product"})
		return
	}

	h.logger.Info().Str("product_id", product.ID).Msg("product created")
	c.JSON(http.StatusCreated, product)
}

// Update godoc
// @Summary Update a product
// @Description Updates a product's name or tier set. Licenses already issued keep their stored tier.
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body UpdateProductRequest true "Fields to update"
// @Success 200 {object} models.Product
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 404 {object} ErrorResponse "Product not found"
// @Security BearerAuth
// @Router /products/{id} [put]
func (h *ProductsHandler) Update(c *gin.Context) {
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	product, err := h.store.GetProductByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.logger.Error().Err(err).Msg("failed to get product")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update product"})
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.AvailableTiers != nil {
		if err := tier.ValidateTierSet(*req.AvailableTiers); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		product.AvailableTiers = *req.AvailableTiers
	}

	if err := h.store.UpdateProduct(c.Request.Context(), product); err != nil {
		h.logger.Error().Err(err).Str("product_id", product.ID).Msg("failed to update product")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update product"})
		return
	}

	h.logger.Info().Str("product_id", product.ID).Msg("product updated")
	c.JSON(http.StatusOK, product)
}

// Delete godoc
// @Summary Delete a product
// @Description Deletes a product; its licenses and artifact index rows are removed with it.
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 204 "Deleted"
// @Failure 404 {object} ErrorResponse "Product not found"
// @Security BearerAuth
// @Router /products/{id} [delete]
func (h *ProductsHandler) Delete(c *gin.Context) {
	err := h.store.DeleteProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.logger.Error().Err(err).Msg("failed to delete product")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product"})
		return
	}

	h.logger.Info().Str("product_id", c.Param("id")).Msg("product deleted")
	c.Status(http.StatusNoContent)
}
